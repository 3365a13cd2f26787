package models

import "encoding/json"

// MessageResponse is the success body of both API endpoints
type MessageResponse struct {
	Message string          `json:"message"`
	Tweet   json.RawMessage `json:"tweet,omitempty"`
}

// ErrorResponse is the failure body of both API endpoints
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is returned by the root and health endpoints
type StatusResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Version  string `json:"version,omitempty"`
	Database string `json:"database,omitempty"`
}
