// Package gateway is the single integration point with the generative AI
// service. Every operation is total: failures degrade to a renderable
// sentinel carried in a types.Result.
package gateway

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/rs/xid"

	"go.aimuz.me/viajero/llm"
)

const (
	DefaultTextModel   = "gemini-2.5-flash"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Kore"
)

// Cache stores successful answers for reuse within a session.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, val []byte, ttl time.Duration) error
}

// Config tunes the gateway. Zero values select the defaults.
type Config struct {
	TextModel   string
	SpeechModel string
	Voice       string
	CacheTTL    time.Duration
	Timeout     time.Duration // Zero means no deadline
}

// Gateway shapes requests for the AI service and normalizes its answers.
type Gateway struct {
	gen   llm.Generator
	cache Cache
	cfg   Config
	intn  func(n int) int
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithCache enables result caching.
func WithCache(c Cache) Option {
	return func(g *Gateway) { g.cache = c }
}

// WithRand replaces the source used to pick quiz topics.
func WithRand(intn func(n int) int) Option {
	return func(g *Gateway) { g.intn = intn }
}

// New creates a Gateway on top of gen.
func New(gen llm.Generator, cfg Config, opts ...Option) *Gateway {
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultTextModel
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = DefaultSpeechModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}

	g := &Gateway{gen: gen, cfg: cfg, intn: rand.IntN}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// call performs one round trip and logs its outcome.
func (g *Gateway) call(ctx context.Context, op string, req llm.Request) (*llm.Response, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	id := xid.New().String()
	start := time.Now()
	resp, err := g.gen.Generate(ctx, req)
	if err != nil {
		slog.Warn("gateway call failed", "op", op, "request", id, "latency", time.Since(start), "error", err)
		return nil, err
	}

	slog.Debug("gateway call",
		"op", op,
		"request", id,
		"latency", time.Since(start),
		"tokens", resp.Usage.TotalTokens,
	)
	return resp, nil
}

func (g *Gateway) cached(key string) ([]byte, bool) {
	if g.cache == nil {
		return nil, false
	}
	val, found, err := g.cache.Get(key)
	if err != nil {
		slog.Debug("cache get", "key", key, "error", err)
		return nil, false
	}
	return val, found
}

func (g *Gateway) store(key string, val []byte) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Set(key, val, g.cfg.CacheTTL); err != nil {
		slog.Debug("cache set", "key", key, "error", err)
	}
}

// degraded logs why an operation fell back to its sentinel.
func degraded(op string, reason error) {
	slog.Warn("gateway degraded", "op", op, "reason", reason)
}
