package models

// OCRResult is the outcome of running a document through the extraction
// pipeline. Success with a nil StructuredData is a degraded success: OCR
// produced text but the field extraction call failed.
type OCRResult struct {
	Success        bool             `json:"success"`
	Text           string           `json:"text,omitempty"`
	StructuredData *PersonalDetails `json:"structured_data,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// Task is an asynchronous OCR job tracked by the document management
// system. The client only ever polls these, it never creates or deletes
// them.
type Task struct {
	ID              int64  `json:"id"`
	TaskID          string `json:"task_id"`
	Status          string `json:"status"` // PENDING, STARTED, SUCCESS, FAILURE
	TaskFileName    string `json:"task_file_name"`
	RelatedDocument int64  `json:"related_document"` // 0 until OCR attaches a document
	Result          string `json:"result"`
}

const (
	TaskStatusSuccess = "SUCCESS"
	TaskStatusFailure = "FAILURE"
)
