package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/HSouheill/audiogate_backend/config"
	"github.com/HSouheill/audiogate_backend/models"
)

// MediaPublisher is the external posting API
type MediaPublisher interface {
	UploadMedia(ctx context.Context, data []byte, filename string) (string, error)
	CreateTweet(ctx context.Context, status, mediaID string) (json.RawMessage, error)
}

// TwitterService handles interactions with the Twitter v1.1 API
type TwitterService struct {
	uploadURL   string
	apiURL      string
	bearerToken string
	client      *http.Client
	debug       bool
}

// NewTwitterService creates a Twitter client from the loaded configuration.
// No client timeout is set; calls are bounded by the request context.
func NewTwitterService(cfg *config.Config) *TwitterService {
	return &TwitterService{
		uploadURL:   cfg.TwitterUploadURL,
		apiURL:      cfg.TwitterAPIURL,
		bearerToken: cfg.TwitterBearerToken,
		client:      &http.Client{},
		debug:       os.Getenv("TWITTER_DEBUG") == "true",
	}
}

// UploadMedia sends the raw media bytes and returns the media id string
func (s *TwitterService) UploadMedia(ctx context.Context, data []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("media", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write media: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	respBody, err := s.makeRequest(ctx, s.uploadURL, writer.FormDataContentType(), &body)
	if err != nil {
		return "", err
	}

	var media models.TwitterMediaResponse
	if err := json.Unmarshal(respBody, &media); err != nil {
		return "", fmt.Errorf("failed to parse media response: %w", err)
	}
	if media.MediaIDString == "" {
		if media.MediaID == 0 {
			return "", fmt.Errorf("media response has no media id")
		}
		media.MediaIDString = fmt.Sprintf("%d", media.MediaID)
	}
	return media.MediaIDString, nil
}

// CreateTweet posts status with the given media attached and returns the
// raw tweet payload
func (s *TwitterService) CreateTweet(ctx context.Context, status, mediaID string) (json.RawMessage, error) {
	payload, err := json.Marshal(models.TwitterStatusRequest{
		Status:   status,
		MediaIDs: mediaID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	respBody, err := s.makeRequest(ctx, s.apiURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	if !json.Valid(respBody) {
		return nil, fmt.Errorf("invalid tweet response: %s", string(respBody))
	}
	return json.RawMessage(respBody), nil
}

// makeRequest POSTs body to url with the bearer credential and returns the
// response body of a 2xx reply
func (s *TwitterService) makeRequest(ctx context.Context, url, contentType string, body io.Reader) ([]byte, error) {
	if s.bearerToken == "" {
		return nil, fmt.Errorf("missing Twitter credentials. Please set TWITTER_BEARER_TOKEN")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.bearerToken)

	if s.debug {
		log.Printf("Twitter API Request: POST %s (%s)", url, contentType)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if s.debug {
		log.Printf("Twitter API Response: %d %s", resp.StatusCode, string(respBody))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("twitter API error: %s", upstreamMessage(resp.StatusCode, respBody))
	}
	return respBody, nil
}

// upstreamMessage extracts the most useful message from an error reply
func upstreamMessage(status int, body []byte) string {
	var apiErr models.TwitterErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		var msgs []string
		for _, e := range apiErr.Errors {
			msgs = append(msgs, e.Message)
		}
		if apiErr.Detail != "" {
			msgs = append(msgs, apiErr.Detail)
		}
		if len(msgs) > 0 {
			return fmt.Sprintf("%d - %s", status, strings.Join(msgs, "; "))
		}
	}
	return fmt.Sprintf("request failed with status code %d", status)
}
