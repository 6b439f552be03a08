package models

// Data Transfer Objects

type SubmissionRequest struct {
	Name        string
	Email       string
	Phone       string
	ProjectType string
	FileName    string
	FileType    string
	FileSize    int64
	FileBytes   []byte
}

type SubmissionInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

type DocumentInfo struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type UploadResponse struct {
	Assignment SubmissionInfo `json:"assignment"`
	Document   DocumentInfo   `json:"document"`
}

type ContactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Message     string `json:"message,omitempty"`
	ProjectType string `json:"projectType,omitempty"`
}

type ContactResponse struct {
	Message string `json:"message"`
}

type ContactListResponse struct {
	Contacts []Contact `json:"contacts"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

type SubmissionListResponse struct {
	Submissions []Submission `json:"submissions"`
	Total       int          `json:"total"`
	Page        int          `json:"page"`
	Limit       int          `json:"limit"`
}
