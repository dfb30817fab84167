package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ocrServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recognize/general", r.URL.Path)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestExtractContentField(t *testing.T) {
	srv := ocrServer(t, http.StatusOK, `{"Data":{"content":"Grand Central 1913"}}`)
	defer srv.Close()

	text, err := NewOCRClient(srv.URL, "").Extract(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "Grand Central 1913", text)
}

func TestExtractStringWrappedData(t *testing.T) {
	// Some API versions double-encode the payload as a JSON string.
	inner, _ := json.Marshal(`{"prism_wordsInfo":[{"word":"Platform"},{"word":"9"}]}`)
	srv := ocrServer(t, http.StatusOK, `{"Data":`+string(inner)+`}`)
	defer srv.Close()

	text, err := NewOCRClient(srv.URL, "").Extract(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "Platform 9", text)
}

func TestExtractNoTextIsNotAnError(t *testing.T) {
	srv := ocrServer(t, http.StatusOK, `{"Data":{"content":""}}`)
	defer srv.Close()

	text, err := NewOCRClient(srv.URL, "").Extract(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractTransportFailure(t *testing.T) {
	srv := ocrServer(t, http.StatusBadGateway, "")
	defer srv.Close()

	_, err := NewOCRClient(srv.URL, "").Extract(context.Background(), []byte("img"))
	assert.Error(t, err)
}

func TestExtractSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"Data":{"content":"ok"}}`))
	}))
	defer srv.Close()

	_, err := NewOCRClient(srv.URL, "test-key").Extract(context.Background(), []byte("img"))
	require.NoError(t, err)
}

func TestExtractDate(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Admission ticket 2026.4.2 adult", "2026-04-02"},
		{"valid 2026-10-03 only", "2026-10-03"},
		{"printed 2026/1/9", "2026-01-09"},
		{"no date here", ""},
		{"impossible 2026.2.30 date", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractDate(tc.text), "text %q", tc.text)
	}
}
