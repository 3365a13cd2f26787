package services_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/audiogate_backend/config"
	"github.com/HSouheill/audiogate_backend/models"
	"github.com/HSouheill/audiogate_backend/services"
)

func newTwitterServer(t *testing.T, upload, status http.HandlerFunc) (*httptest.Server, *services.TwitterService) {
	t.Helper()
	mux := http.NewServeMux()
	if upload != nil {
		mux.HandleFunc("/1.1/media/upload.json", upload)
	}
	if status != nil {
		mux.HandleFunc("/1.1/statuses/update.json", status)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	svc := services.NewTwitterService(&config.Config{
		TwitterBearerToken: "test-token",
		TwitterUploadURL:   srv.URL + "/1.1/media/upload.json",
		TwitterAPIURL:      srv.URL + "/1.1/statuses/update.json",
	})
	return srv, svc
}

func TestTwitterUploadMedia(t *testing.T) {
	_, svc := newTwitterServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		file, header, err := r.FormFile("media")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "ID3audio", string(data))
		assert.Equal(t, "clip.mp3", header.Filename)

		w.Write([]byte(`{"media_id":710511363345354753,"media_id_string":"710511363345354753"}`))
	}, nil)

	mediaID, err := svc.UploadMedia(context.Background(), []byte("ID3audio"), "clip.mp3")

	require.NoError(t, err)
	assert.Equal(t, "710511363345354753", mediaID)
}

func TestTwitterUploadMediaError(t *testing.T) {
	_, svc := newTwitterServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"code":89,"message":"Invalid or expired token."}]}`))
	}, nil)

	_, err := svc.UploadMedia(context.Background(), []byte("x"), "clip.mp3")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401 - Invalid or expired token.")
}

func TestTwitterCreateTweet(t *testing.T) {
	_, svc := newTwitterServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body models.TwitterStatusRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Here is my audio tweet", body.Status)
		assert.Equal(t, "42", body.MediaIDs)

		w.Write([]byte(`{"id_str":"99","text":"Here is my audio tweet"}`))
	})

	tweet, err := svc.CreateTweet(context.Background(), "Here is my audio tweet", "42")

	require.NoError(t, err)
	assert.JSONEq(t, `{"id_str":"99","text":"Here is my audio tweet"}`, string(tweet))
}

func TestTwitterCreateTweetServerError(t *testing.T) {
	_, svc := newTwitterServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := svc.CreateTweet(context.Background(), "status", "42")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed with status code 502")
}

func TestTwitterMissingToken(t *testing.T) {
	svc := services.NewTwitterService(&config.Config{TwitterUploadURL: "http://127.0.0.1:1"})

	_, err := svc.UploadMedia(context.Background(), []byte("x"), "clip.mp3")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TWITTER_BEARER_TOKEN")
}
