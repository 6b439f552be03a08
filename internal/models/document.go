package models

import (
	"time"
)

// Document — метаданные загруженного файла. Создается только в одной
// транзакции со своей заявкой: документ без заявки существовать не может.
type Document struct {
	ID           string    `json:"id" db:"id"`
	URL          string    `json:"url" db:"url"`
	Filename     string    `json:"filename" db:"filename"`
	FileSize     int64     `json:"file_size" db:"file_size"`
	FileType     string    `json:"file_type" db:"file_type"`
	ObjectKey    string    `json:"object_key" db:"object_key"`
	Status       string    `json:"status" db:"status"`
	SubmissionID string    `json:"submission_id" db:"submission_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type DocumentStatus string

const (
	DocumentStatusPending   DocumentStatus = "pending"
	DocumentStatusProcessed DocumentStatus = "processed"
	DocumentStatusError     DocumentStatus = "error"
)

func (ds DocumentStatus) String() string {
	return string(ds)
}
