package model

// ErrorResponse is the consistent JSON structure for all CLI and API error output.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
