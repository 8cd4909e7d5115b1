package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Clock abstracts time to make staged-timing metrics testable.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Logger is a minimal structured logging interface, satisfied by a
// zerolog-backed adapter in production and a recording fake in tests.
type Logger interface {
	Info(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
	Debug(msg string, fields map[string]any)
}

// NoopLogger drops every log line.
type NoopLogger struct{}

func (NoopLogger) Info(string, map[string]any)  {}
func (NoopLogger) Error(string, map[string]any) {}
func (NoopLogger) Debug(string, map[string]any) {}

// Metrics records counters and stage-duration histograms.
type Metrics interface {
	IncCounter(name string, labels map[string]string)
	ObserveHistogram(name string, value float64, labels map[string]string)
}

// NoopMetrics implements Metrics without side effects.
type NoopMetrics struct{}

func (NoopMetrics) IncCounter(string, map[string]string)               {}
func (NoopMetrics) ObserveHistogram(string, float64, map[string]string) {}

// Cache is the advisory result cache; a nil Cache (or a Service built
// without WithCache) disables caching entirely.
type Cache interface {
	Load(ctx context.Context, key string) ([]byte, bool)
	Store(ctx context.Context, key string, value []byte)
}

// Tokenizer embeds free text into a dense vector. A Service built without
// WithTokenizer leaves Semantic query-text requests to the backing store's
// own neural_query_enricher instead of precomputing tokens client-side.
type Tokenizer interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Option configures a Service during construction.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l Logger) Option { return func(s *Service) { s.log = l } }

// WithMetrics sets a custom metrics collector.
func WithMetrics(m Metrics) Option { return func(s *Service) { s.metrics = m } }

// WithClock sets a custom clock implementation.
func WithClock(c Clock) Option { return func(s *Service) { s.clock = c } }

// WithTracer sets a custom tracer; defaults to the global tracer provider.
func WithTracer(t trace.Tracer) Option { return func(s *Service) { s.tracer = t } }

// WithCache enables the advisory result cache.
func WithCache(c Cache) Option { return func(s *Service) { s.cache = c } }

// WithTokenizer enables client-side query embedding for Semantic searches
// that supply query text but no precomputed tokens.
func WithTokenizer(t Tokenizer) Option { return func(s *Service) { s.tokenizer = t } }

// WithMaxContentSize overrides the fixed part size used to split documents
// at store time (default: 1024 characters).
func WithMaxContentSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxContentSize = n
		}
	}
}

func ms(d time.Duration) int64 { return int64(d / time.Millisecond) }
