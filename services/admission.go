package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HSouheill/audiogate_backend/models"
	"github.com/HSouheill/audiogate_backend/repositories"
	"github.com/HSouheill/audiogate_backend/utils"
)

const (
	// MaxAudioDuration is the longest accepted clip, in seconds
	MaxAudioDuration = 300.0
	// MaxAudioSize is the largest accepted clip, in bytes (100 MiB)
	MaxAudioSize = 100 * 1024 * 1024
)

// IST is India Standard Time, UTC+05:30
var IST = time.FixedZone("IST", 5*60*60+30*60)

// Artifact is the uploaded file as seen by the gate and the publisher
type Artifact interface {
	Path() string
	ReadAll() ([]byte, error)
	Release() error
}

// MediaProber inspects the content of a media file
type MediaProber interface {
	Probe(ctx context.Context, path string) (utils.MediaInfo, error)
}

// UploadWindow is the daily range of local hours during which uploads
// are accepted: [StartHour, EndHour) in Location
type UploadWindow struct {
	Location  *time.Location
	StartHour int
	EndHour   int
}

// DefaultUploadWindow is 2 PM to 7 PM IST
func DefaultUploadWindow() UploadWindow {
	return UploadWindow{Location: IST, StartHour: 14, EndHour: 19}
}

// Contains reports whether t falls inside the window
func (w UploadWindow) Contains(t time.Time) bool {
	hour := t.In(w.Location).Hour()
	return hour >= w.StartHour && hour < w.EndHour
}

// AdmissionGate runs the checks an upload must pass before anything is sent
// to Twitter
type AdmissionGate struct {
	store  repositories.OTPStore
	prober MediaProber
	clock  utils.Clock
	window UploadWindow
}

func NewAdmissionGate(store repositories.OTPStore, prober MediaProber, clock utils.Clock, window UploadWindow) *AdmissionGate {
	return &AdmissionGate{
		store:  store,
		prober: prober,
		clock:  clock,
		window: window,
	}
}

// Admit checks, in order, the upload window, the OTP and the media
// constraints. Whether the file is audio is decided from its content.
// The first failing check wins and the artifact is released before
// Admit returns. On success the artifact is left in place and
// req.DurationSeconds is filled in.
func (g *AdmissionGate) Admit(ctx context.Context, req *models.UploadRequest, artifact Artifact) (err error) {
	defer func() {
		if err != nil {
			artifact.Release()
		}
	}()

	if !g.window.Contains(g.clock.Now()) {
		return ErrOutsideWindow
	}

	// A matched challenge is not consumed; it stays usable until it expires
	if _, err := g.store.FindValid(ctx, req.Email, req.OTP); err != nil {
		if errors.Is(err, repositories.ErrOTPNotFound) {
			return ErrInvalidOrExpiredOTP
		}
		return fmt.Errorf("failed to verify OTP: %w", err)
	}

	return g.checkMedia(ctx, req, artifact)
}

func (g *AdmissionGate) checkMedia(ctx context.Context, req *models.UploadRequest, artifact Artifact) error {
	if req.SizeBytes > MaxAudioSize {
		return ErrMediaTooLarge
	}

	info, err := g.prober.Probe(ctx, artifact.Path())
	if err != nil {
		if errors.Is(err, utils.ErrProbeUnavailable) {
			return fmt.Errorf("failed to inspect upload: %w", err)
		}
		return fmt.Errorf("%w: %v", ErrMediaUnreadable, err)
	}
	if !info.HasAudio {
		return ErrUnsupportedMedia
	}
	req.DurationSeconds = info.DurationSeconds

	if info.DurationSeconds > MaxAudioDuration {
		return ErrMediaTooLong
	}
	return nil
}
