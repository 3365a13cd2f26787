package models

import "encoding/json"

// UploadRequest is one OTP-gated audio upload attempt. It lives only for
// the duration of the request that created it.
type UploadRequest struct {
	Email           string
	OTP             string
	MimeType        string
	SizeBytes       int64
	DurationSeconds float64
}

// PublishResult is returned once both the media ingest and the tweet
// creation succeeded
type PublishResult struct {
	MediaID string          `json:"mediaId"`
	Tweet   json.RawMessage `json:"tweet"`
	State   PublishState    `json:"-"`
}

// PublishState is how far the two-phase publish got
type PublishState int

const (
	StatePending PublishState = iota
	StateIngested
	StatePosted
)

func (s PublishState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateIngested:
		return "ingested"
	case StatePosted:
		return "posted"
	}
	return "unknown"
}
