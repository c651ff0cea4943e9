// Package device wraps the camera and door actuator, both reached over
// plain HTTP on the local network.
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrCaptureFailed is returned when the camera is unreachable or answers
// with a non-success status. No retry happens here; with no image there
// is nothing to decide on.
var ErrCaptureFailed = errors.New("camera capture failed")

// Camera produces still frames to run access checks against.
type Camera interface {
	Capture(ctx context.Context) ([]byte, error)
}

// HTTPCamera fetches stills from an HTTP camera (e.g. an ESP32-CAM
// capture endpoint).
type HTTPCamera struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewHTTPCamera(url string, timeout time.Duration, logger *zap.Logger) *HTTPCamera {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPCamera{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (c *HTTPCamera) Capture(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrCaptureFailed, resp.StatusCode)
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}

	c.logger.Debug("captured frame", zap.Int("bytes", len(image)))
	return image, nil
}
