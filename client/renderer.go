package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	fastshot "github.com/opus-domini/fast-shot"
)

// RenderOptions mirror the page layout the renderer applies.
type RenderOptions struct {
	MarginMM     int     `json:"marginMm"`
	Format       string  `json:"format"`
	Orientation  string  `json:"orientation"`
	ImageType    string  `json:"imageType"`
	ImageQuality float64 `json:"imageQuality"`
	Scale        int     `json:"scale"`
}

// RenderRequest is posted to the renderer's /render endpoint.
type RenderRequest struct {
	HTML     string        `json:"html"`
	FileName string        `json:"fileName"`
	Options  RenderOptions `json:"options"`
}

// Renderer talks to an external HTML-to-PDF service.
type Renderer struct {
	baseURL       string
	timeout       time.Duration
	retryInterval time.Duration
}

func NewRenderer(baseURL string, timeout time.Duration) *Renderer {
	return &Renderer{baseURL: baseURL, timeout: timeout, retryInterval: time.Second}
}

func (r *Renderer) client() fastshot.ClientHttpMethods {
	return fastshot.NewClient(r.baseURL).
		Config().SetTimeout(r.timeout).
		Config().SetFollowRedirects(true).
		Header().Add("Content-Type", "application/json").
		Build()
}

// Render sends the document and returns the rendered PDF bytes.
func (r *Renderer) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if req.HTML == "" {
		return nil, fmt.Errorf("html cannot be empty")
	}

	resp, err := r.client().
		POST("/render").
		Context().Set(ctx).
		Header().Add("Accept", "application/pdf").
		Retry().SetExponentialBackoff(r.retryInterval, 2, 2.0).
		Body().AsJSON(req).
		Send()
	if err != nil {
		return nil, fmt.Errorf("failed to send render request: %w", err)
	}
	defer resp.Body().Close()

	body, err := parseHTTPResponse(*resp)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("renderer returned an empty document")
	}
	return []byte(body), nil
}

func parseHTTPResponse(resp fastshot.Response) (string, error) {
	body, err := resp.Body().AsString()
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.Status().IsError() {
		if body == "" {
			return "", errors.New("renderer returned an error status")
		}
		return "", errors.New(body)
	}
	return body, nil
}
