package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(url string) *Renderer {
	r := NewRenderer(url, 5*time.Second)
	r.retryInterval = time.Millisecond
	return r
}

func TestRender_Success(t *testing.T) {
	var got RenderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/render", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer server.Close()

	req := RenderRequest{
		HTML:     "<h1>Film</h1>",
		FileName: "Film_storyboard.pdf",
		Options:  RenderOptions{MarginMM: 10, Format: "a4", Orientation: "portrait", ImageType: "jpeg", ImageQuality: 0.98, Scale: 2},
	}
	pdf, err := newTestRenderer(server.URL).Render(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "%PDF-1.7 fake", string(pdf))
	assert.Equal(t, req, got)
}

func TestRender_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestRenderer(server.URL).Render(context.Background(), RenderRequest{HTML: "<p>x</p>"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chromium crashed")
}

func TestRender_EmptyHTML(t *testing.T) {
	_, err := newTestRenderer("http://127.0.0.1:1").Render(context.Background(), RenderRequest{})
	assert.Error(t, err)
}

func TestRender_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestRenderer(url).Render(context.Background(), RenderRequest{HTML: "<p>x</p>"})
	assert.Error(t, err)
}
