package health

import (
	"context"
	"net/http"
	"time"

	"open-webui-desktop/internal/logger"
)

// Checker polls the server root until it answers HTTP 200.
type Checker struct {
	url      string
	interval time.Duration
	client   *http.Client
	log      logger.Logger
}

func NewChecker(url string, interval, probeTimeout time.Duration, log logger.Logger) *Checker {
	return &Checker{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: probeTimeout},
		log:      log,
	}
}

// Ready performs a single probe. Ready means the server responded 200.
func (c *Checker) Ready() bool {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// Wait blocks until the server is ready or the context is cancelled.
func (c *Checker) Wait(ctx context.Context) error {
	if c.Ready() {
		return nil
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if c.Ready() {
				return nil
			}
			c.log.Debug("Health", "server not available yet, retrying", map[string]interface{}{
				"url": c.url,
			})
		}
	}
}
