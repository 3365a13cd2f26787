package utils

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// cleanFilename removes any potentially dangerous characters from the filename
func cleanFilename(filename string) string {
	filename = filepath.Base(filename)
	return unsafeFilenameChars.ReplaceAllString(filename, "")
}

// Artifact is an uploaded file held on local disk for one request.
// Release deletes the file; only the first call touches the disk.
type Artifact struct {
	path     string
	filename string
	mimeType string
	size     int64

	remove     func(string) error
	once       sync.Once
	releaseErr error
}

// Path returns the on-disk location of the artifact
func (a *Artifact) Path() string { return a.path }

// Filename returns the client supplied name, cleaned
func (a *Artifact) Filename() string { return a.filename }

// MimeType returns the content type declared by the client
func (a *Artifact) MimeType() string { return a.mimeType }

// Size returns the number of bytes written to disk
func (a *Artifact) Size() int64 { return a.size }

// ReadAll returns the full binary content of the artifact
func (a *Artifact) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", a.filename, err)
	}
	return data, nil
}

// Release deletes the artifact from disk. It is safe to call more than once.
func (a *Artifact) Release() error {
	a.once.Do(func() {
		err := a.remove(a.path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Failed to delete artifact %s: %v", a.path, err)
			a.releaseErr = err
		}
	})
	return a.releaseErr
}

// ArtifactStore writes uploads into a single directory
type ArtifactStore struct {
	dir    string
	remove func(string) error
}

// NewArtifactStore creates the upload directory if needed
func NewArtifactStore(dir string) (*ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %v", err)
	}
	return &ArtifactStore{dir: dir, remove: os.Remove}, nil
}

// Dir returns the directory artifacts are written to
func (s *ArtifactStore) Dir() string { return s.dir }

// Save copies r into a uniquely named file in the store
func (s *ArtifactStore) Save(r io.Reader, filename, mimeType string) (*Artifact, error) {
	name := cleanFilename(filename)
	fullPath := filepath.Join(s.dir, uuid.New().String()+strings.ToLower(filepath.Ext(name)))

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact: %v", err)
	}

	size, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		s.remove(fullPath)
		if copyErr != nil {
			return nil, fmt.Errorf("failed to write artifact: %v", copyErr)
		}
		return nil, fmt.Errorf("failed to write artifact: %v", closeErr)
	}

	return &Artifact{
		path:     fullPath,
		filename: name,
		mimeType: mimeType,
		size:     size,
		remove:   s.remove,
	}, nil
}

// SaveMultipart stores an uploaded multipart file
func (s *ArtifactStore) SaveMultipart(fh *multipart.FileHeader) (*Artifact, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	return s.Save(src, fh.Filename, fh.Header.Get("Content-Type"))
}

// PurgeStale removes files left behind by an earlier process, for example
// after a crash in the middle of a request
func (s *ArtifactStore) PurgeStale(olderThan time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < olderThan {
			continue
		}
		if err := s.remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
