// Package models định nghĩa trạng thái job bulk ingestion. Job là dữ
// liệu phù du: chỉ sống trong bộ nhớ tiến trình, không ghi MongoDB,
// restart server là mất (client phải upload lại).
package models

// JobStatus là trạng thái vòng đời của một job ingestion
type JobStatus string

const (
	JobStatusUploading  JobStatus = "uploading"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal cho biết status có phải trạng thái kết thúc hay không
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobState là snapshot trạng thái của một job tại một thời điểm
type JobState struct {
	JobID            string    `json:"jobId"`
	FormID           string    `json:"formId"`
	OriginalFilename string    `json:"originalFilename"`
	Status           JobStatus `json:"status"`
	ProcessedRows    int64     `json:"processedRows"`
	TotalRows        *int64    `json:"totalRows,omitempty"` // nil khi chưa đếm xong file
	Error            string    `json:"error,omitempty"`
}

// ProgressEvent là một event trên stream tiến độ (NDJSON). Client lọc
// theo jobId vì stream có thể nhận event của job khác khi reconnect.
type ProgressEvent struct {
	JobID         string    `json:"jobId"`
	Status        JobStatus `json:"status"`
	ProcessedRows int64     `json:"processedRows"`
	TotalRows     *int64    `json:"totalRows,omitempty"`
	Error         string    `json:"error,omitempty"`
}
