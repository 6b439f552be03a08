package models

type SubmissionReceivedEvent struct {
	SubmissionID string `json:"submission_id"`
	DocumentID   string `json:"document_id"`
	ProjectType  string `json:"project_type"`
	FileName     string `json:"file_name"`
	Timestamp    int64  `json:"timestamp"`
}
