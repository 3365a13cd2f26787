package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/HSouheill/audiogate_backend/models"
)

// PublishError reports how far a failed publish got. MediaID is set when
// the media was ingested but the tweet could not be created; that media is
// left on Twitter.
type PublishError struct {
	State   models.PublishState
	MediaID string
	Err     error
}

func (e *PublishError) Error() string {
	return e.Err.Error()
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Publisher runs the two-phase publish: ingest the media, then create a
// tweet that references it
type Publisher struct {
	client MediaPublisher
	status string
}

func NewPublisher(client MediaPublisher, status string) *Publisher {
	return &Publisher{client: client, status: status}
}

// Publish sends the artifact to Twitter. The artifact is released exactly
// once when Publish returns, whatever the outcome. Nothing is retried.
func (p *Publisher) Publish(ctx context.Context, artifact Artifact) (*models.PublishResult, error) {
	defer artifact.Release()

	data, err := artifact.ReadAll()
	if err != nil {
		return nil, &PublishError{State: models.StatePending, Err: fmt.Errorf("%w: %v", ErrIngestFailed, err)}
	}

	mediaID, err := p.client.UploadMedia(ctx, data, filepath.Base(artifact.Path()))
	if err != nil {
		return nil, &PublishError{State: models.StatePending, Err: fmt.Errorf("%w: %v", ErrIngestFailed, err)}
	}

	tweet, err := p.client.CreateTweet(ctx, p.status, mediaID)
	if err != nil {
		log.Printf("Tweet creation failed, media %s left orphaned: %v", mediaID, err)
		return nil, &PublishError{State: models.StateIngested, MediaID: mediaID, Err: fmt.Errorf("%w: %v", ErrPostFailed, err)}
	}

	return &models.PublishResult{
		MediaID: mediaID,
		Tweet:   tweet,
		State:   models.StatePosted,
	}, nil
}
