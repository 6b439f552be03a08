package models

import (
	"time"
)

type Submission struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"phone" db:"phone"`
	ProjectType string    `json:"project_type" db:"project_type"`
	FileName    string    `json:"file_name" db:"file_name"`
	FileSize    int64     `json:"file_size" db:"file_size"`
	FileType    string    `json:"file_type" db:"file_type"`
	FileURL     string    `json:"file_url" db:"file_url"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type SubmissionStatus string

const (
	SubmissionStatusPending    SubmissionStatus = "pending"
	SubmissionStatusInProgress SubmissionStatus = "in-progress"
	SubmissionStatusCompleted  SubmissionStatus = "completed"
	SubmissionStatusCancelled  SubmissionStatus = "cancelled"
)

func (s SubmissionStatus) String() string {
	return string(s)
}

func ValidSubmissionStatus(status string) bool {
	switch SubmissionStatus(status) {
	case SubmissionStatusPending, SubmissionStatusInProgress,
		SubmissionStatusCompleted, SubmissionStatusCancelled:
		return true
	}
	return false
}

// ProjectTypeDefault подставляется, когда клиент не указал тип проекта.
const ProjectTypeDefault = "assignment"

type SubmissionWithDocument struct {
	Submission
	Document *Document `json:"document,omitempty"`
}
