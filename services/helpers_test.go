package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/HSouheill/audiogate_backend/utils"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fakeArtifact struct {
	path     string
	data     []byte
	readErr  error
	releases int
}

func (a *fakeArtifact) Path() string { return a.path }

func (a *fakeArtifact) ReadAll() ([]byte, error) {
	if a.readErr != nil {
		return nil, a.readErr
	}
	return a.data, nil
}

func (a *fakeArtifact) Release() error {
	a.releases++
	return nil
}

type fakeProber struct {
	duration float64
	noAudio  bool
	err      error
	calls    int
}

func (p *fakeProber) Probe(_ context.Context, _ string) (utils.MediaInfo, error) {
	p.calls++
	if p.err != nil {
		return utils.MediaInfo{}, p.err
	}
	return utils.MediaInfo{DurationSeconds: p.duration, HasAudio: !p.noAudio}, nil
}

type fakeMailer struct {
	err     error
	to      string
	subject string
	body    string
	sent    int
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent++
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

type fakePublisher struct {
	uploadErr   error
	tweetErr    error
	mediaID     string
	uploads     int
	tweets      int
	gotStatus   string
	gotMediaID  string
	gotFilename string
}

func (p *fakePublisher) UploadMedia(_ context.Context, _ []byte, filename string) (string, error) {
	p.uploads++
	p.gotFilename = filename
	if p.uploadErr != nil {
		return "", p.uploadErr
	}
	return p.mediaID, nil
}

func (p *fakePublisher) CreateTweet(_ context.Context, status, mediaID string) (json.RawMessage, error) {
	p.tweets++
	p.gotStatus, p.gotMediaID = status, mediaID
	if p.tweetErr != nil {
		return nil, p.tweetErr
	}
	return json.RawMessage(`{"id_str":"1"}`), nil
}

var errNetwork = errors.New("connect: connection refused")
