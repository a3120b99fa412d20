package api

import (
	"math"
	"time"

	"csvdesk/internal/table"
)

// --- Response schemas (hand-written, aligned with the backend's JSON) ---

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Stats summarizes an uploaded file as computed by the backend.
type Stats struct {
	Filename   string      `json:"filename,omitempty"`
	NumRows    int         `json:"num_rows"`
	NumColumns int         `json:"num_columns"`
	Columns    []string    `json:"columns,omitempty"`
	Sample     []table.Row `json:"sample,omitempty"`
}

// UploadResult is the /upload success payload.
type UploadResult struct {
	Success            bool              `json:"success"`
	Message            string            `json:"message,omitempty"`
	Filename           string            `json:"filename"`
	Data               []table.Row       `json:"data"`
	Stats              *Stats            `json:"stats,omitempty"`
	ColumnDescriptions map[string]string `json:"column_descriptions,omitempty"`
}

// AnalysisReport is the backend's analysis of a row set.
type AnalysisReport struct {
	TotalRows    int    `json:"total_rows"`
	TotalColumns int    `json:"total_columns"`
	Message      string `json:"message,omitempty"`
}

// AnalyzeResult is the /analyze success payload.
type AnalyzeResult struct {
	Success  bool            `json:"success"`
	Analysis *AnalysisReport `json:"analysis,omitempty"`
}

// ValidationReport is the backend's validation of a row set.
type ValidationReport struct {
	HasData      bool   `json:"has_data"`
	TotalRows    int    `json:"total_rows"`
	TotalColumns int    `json:"total_columns"`
	Message      string `json:"message,omitempty"`
}

// ValidateResult is the /validate success payload.
type ValidateResult struct {
	Success    bool              `json:"success"`
	Validation *ValidationReport `json:"validation,omitempty"`
}

// Feedback is the five-field feedback form, sent as one payload.
type Feedback struct {
	Purpose           string `json:"purpose"`
	Stakeholders      string `json:"stakeholders"`
	IncorrectFields   string `json:"incorrectFields"`
	Terminology       string `json:"terminology"`
	AdditionalContext string `json:"additionalContext"`
}

// FeedbackResult is the /feedback success payload.
type FeedbackResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// User is the signed-in user's profile as returned by login and verify-token.
type User struct {
	ID    int64  `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// LoginResult is the /login success payload.
type LoginResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}

// VerifyResult is the /verify-token success payload.
type VerifyResult struct {
	Success bool  `json:"success"`
	User    *User `json:"user,omitempty"`
}

// FileEntry describes one file stored by the backend.
type FileEntry struct {
	Filename   string  `json:"filename"`
	Size       int64   `json:"size"`
	UploadedAt float64 `json:"uploaded_at"`
}

// UploadedTime converts the backend's fractional epoch seconds.
func (f FileEntry) UploadedTime() time.Time {
	sec, frac := math.Modf(f.UploadedAt)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// FileList is the /files success payload.
type FileList struct {
	Success bool        `json:"success"`
	Files   []FileEntry `json:"files"`
}

// FileInfo is the backend's detailed view of one stored file.
type FileInfo struct {
	FileEntry
	TotalRows    int      `json:"total_rows"`
	TotalColumns int      `json:"total_columns"`
	Columns      []string `json:"columns,omitempty"`
}

// FileInfoResult is the /files/{filename} success payload.
type FileInfoResult struct {
	Success  bool      `json:"success"`
	FileInfo *FileInfo `json:"file_info,omitempty"`
}

// csvPayload is the request body for analyze, validate and download.
type csvPayload struct {
	CSVData  []table.Row `json:"csvData"`
	Filename string      `json:"filename,omitempty"`
}
