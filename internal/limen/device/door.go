package device

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrActuatorFailed is returned when the door controller rejects or
// never receives a command. Callers treat this as non-fatal: the access
// decision stands and must still be audited even when physical actuation
// may not have happened.
var ErrActuatorFailed = errors.New("door actuator command failed")

// Door drives the physical lock.
type Door interface {
	Set(ctx context.Context, unlock bool) error
}

// lockCommand is the actuator's wire contract.
type lockCommand struct {
	Action    string `json:"action"`
	Timestamp int64  `json:"timestamp"`
}

// HTTPDoor posts lock/unlock commands to an HTTP door controller.
type HTTPDoor struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewHTTPDoor(url string, timeout time.Duration, logger *zap.Logger) *HTTPDoor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPDoor{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (d *HTTPDoor) Set(ctx context.Context, unlock bool) error {
	action := "lock"
	if unlock {
		action = "unlock"
	}

	body, err := json.Marshal(lockCommand{
		Action:    action,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrActuatorFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrActuatorFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrActuatorFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrActuatorFailed, resp.StatusCode)
	}

	d.logger.Info("door command accepted", zap.String("action", action))
	return nil
}
