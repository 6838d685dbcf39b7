package dto

// ErrorResponse is the wire shape for all error replies: a single
// human-readable message under "error".
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Env       string `json:"env"`
}
