package models

import (
	"time"
)

type Contact struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"phone" db:"phone"`
	Message     string    `json:"message" db:"message"`
	ProjectType string    `json:"project_type" db:"project_type"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
