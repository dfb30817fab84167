package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stream/v1/asr", r.URL.Path)
		assert.Equal(t, "wav", r.URL.Query().Get("format"))
		assert.Equal(t, "16000", r.URL.Query().Get("sample_rate"))
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))
		assert.Equal(t, "app-key", r.Header.Get("X-NLS-AppKey"))
		assert.Equal(t, "tok", r.Header.Get("X-NLS-Token"))
		assert.NotEmpty(t, r.Header.Get("X-NLS-RequestId"))
		assert.Equal(t, "false", r.Header.Get("X-NLS-Stream"))
		w.Write([]byte(`{"status":200000,"result":"we reached the summit before noon"}`))
	}))
	defer srv.Close()

	text, err := NewASRClient(srv.URL, "app-key", "tok").Transcribe(context.Background(), []byte("audio"), "wav", 16000, "en-US")
	require.NoError(t, err)
	assert.Equal(t, "we reached the summit before noon", text)
}

func TestTranscribeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":40000001,"message":"token expired"}`))
	}))
	defer srv.Close()

	_, err := NewASRClient(srv.URL, "k", "t").Transcribe(context.Background(), []byte("audio"), "wav", 16000, "en-US")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestSupportedFormats(t *testing.T) {
	assert.Contains(t, SupportedFormats(), "wav")
	assert.Contains(t, SupportedFormats(), "mp3")
}
