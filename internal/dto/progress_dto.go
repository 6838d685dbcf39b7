package dto

import "encoding/json"

const (
	ProgressActionListen      = "listen_progress"
	ProgressActionQuiz        = "quiz_completed"
	ProgressActionReport      = "report_downloaded"
	ProgressActionCertificate = "certificate_downloaded"
)

// ProgressUpdateRequest is the body of POST /api/progress. Data carries
// action-specific payload (currently only listen_progress uses it).
type ProgressUpdateRequest struct {
	UserID    string          `json:"userId"`
	ContentID string          `json:"contentId"`
	Action    string          `json:"action"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ListenProgressData is the Data payload for the listen_progress action.
type ListenProgressData struct {
	Seconds int `json:"seconds"`
	Percent int `json:"percent"`
}
