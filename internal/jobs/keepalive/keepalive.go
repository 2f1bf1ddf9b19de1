package keepalive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/brawltrack-backend/internal/observability"
	"github.com/yungbote/brawltrack-backend/internal/platform/envutil"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
)

// DefaultInterval stays under the 15 minute idle window free hosts use to
// spin a service down.
const DefaultInterval = 14 * time.Minute

type Config struct {
	URL      string
	Interval time.Duration
	Timeout  time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		URL:      envutil.String("KEEPALIVE_URL", ""),
		Interval: envutil.Seconds("KEEPALIVE_INTERVAL_SECONDS", DefaultInterval),
		Timeout:  envutil.Seconds("KEEPALIVE_TIMEOUT_SECONDS", 30*time.Second),
	}
}

func (c Config) Enabled() bool { return strings.TrimSpace(c.URL) != "" }

// Pinger issues a GET against the service's own public URL.
type Pinger struct {
	log        *logger.Logger
	url        string
	httpClient *http.Client
	metrics    *observability.Metrics
}

func New(log *logger.Logger, cfg Config, metrics *observability.Metrics) *Pinger {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Pinger{
		log:        log.With("job", "KeepAlive"),
		url:        strings.TrimSpace(cfg.URL),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
	}
}

func (p *Pinger) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.metrics.ObserveKeepAlive(false)
		return fmt.Errorf("keepalive request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.metrics.ObserveKeepAlive(false)
		return fmt.Errorf("keepalive ping: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode >= 400 {
		p.metrics.ObserveKeepAlive(false)
		return fmt.Errorf("keepalive ping: status %d", resp.StatusCode)
	}
	p.metrics.ObserveKeepAlive(true)
	p.log.Debug("keep-alive ping ok", "status", resp.StatusCode)
	return nil
}
