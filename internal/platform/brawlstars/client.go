package brawlstars

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/brawltrack-backend/internal/observability"
	"github.com/yungbote/brawltrack-backend/internal/platform/apierr"
	"github.com/yungbote/brawltrack-backend/internal/platform/ctxutil"
	"github.com/yungbote/brawltrack-backend/internal/platform/envutil"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://api.brawlstars.com/v1"
	maxBodyBytes   = 8 << 20
)

type Kind string

const (
	KindPlayer Kind = "player"
	KindClub   Kind = "club"
)

func (k Kind) Valid() bool { return k == KindPlayer || k == KindClub }

var (
	// ErrNotConfigured is returned before any network call when no API key is set.
	ErrNotConfigured = apierr.New(
		http.StatusInternalServerError,
		"upstream_not_configured",
		errors.New("Brawl Stars API key is missing from the server configuration"),
	)
	ErrInvalidTag = apierr.New(http.StatusBadRequest, "invalid_tag", errors.New("tag is empty or malformed"))
	ErrNotFound   = errors.New("brawlstars: not found")
	ErrMalformed  = errors.New("brawlstars: malformed response")
)

type Client interface {
	Configured() bool
	Lookup(ctx context.Context, kind Kind, tag string) (json.RawMessage, error)
	Player(ctx context.Context, tag string) (json.RawMessage, error)
	Club(ctx context.Context, tag string) (json.RawMessage, error)
	Brawlers(ctx context.Context) (json.RawMessage, error)
}

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:  envutil.String("BRAWL_STARS_API_KEY", ""),
		BaseURL: envutil.String("BRAWL_STARS_BASE_URL", DefaultBaseURL),
		Timeout: envutil.Seconds("BRAWL_STARS_TIMEOUT_SECONDS", 10*time.Second),
	}
}

// New never fails on a missing key: the client is built so the service can
// boot, and every call reports ErrNotConfigured instead.
func New(log *logger.Logger, cfg Config, metrics *observability.Metrics) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid brawl stars base url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	c := &client{
		log:        log.With("client", "BrawlStarsClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		metrics:    metrics,
	}
	if cfg.APIKey == "" {
		c.log.Warn("BRAWL_STARS_API_KEY not set; upstream endpoints will report misconfiguration")
	}
	return c, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
	metrics    *observability.Metrics
}

func (c *client) Configured() bool {
	return c != nil && c.cfg.APIKey != ""
}

func (c *client) Lookup(ctx context.Context, kind Kind, tag string) (json.RawMessage, error) {
	if !kind.Valid() {
		return nil, apierr.New(http.StatusBadRequest, "invalid_kind", fmt.Errorf("unknown lookup kind %q", kind))
	}
	if kind == KindClub {
		return c.Club(ctx, tag)
	}
	return c.Player(ctx, tag)
}

func (c *client) Player(ctx context.Context, tag string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	escaped, err := EscapeTag(tag)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, "players", "/players/"+escaped)
}

func (c *client) Club(ctx context.Context, tag string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	escaped, err := EscapeTag(tag)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, "clubs", "/clubs/"+escaped)
}

func (c *client) Brawlers(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "brawlers", "/brawlers")
}

// NormalizeTag uppercases a tag and strips surrounding space and the leading '#'.
func NormalizeTag(tag string) string {
	t := strings.TrimSpace(tag)
	t = strings.TrimPrefix(t, "#")
	return strings.ToUpper(strings.TrimSpace(t))
}

// EscapeTag returns the path segment for tag: "%23" followed by the escaped tag.
func EscapeTag(tag string) (string, error) {
	t := NormalizeTag(tag)
	if t == "" || strings.ContainsAny(t, "/#?") {
		return "", ErrInvalidTag
	}
	return "%23" + url.PathEscape(t), nil
}

func (c *client) get(ctx context.Context, endpoint, path string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("brawlstars %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(endpoint, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("brawlstars %s: read body: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(resp.StatusCode, raw)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("brawlstars %s: %w", endpoint, ErrMalformed)
	}
	return json.RawMessage(raw), nil
}
