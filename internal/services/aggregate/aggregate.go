package aggregate

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/brawltrack-backend/internal/observability"
	"github.com/yungbote/brawltrack-backend/internal/platform/ctxutil"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
)

const DefaultMaxConcurrency = 8

// LookupFunc resolves one tag to its upstream payload.
type LookupFunc func(ctx context.Context, tag string) (json.RawMessage, error)

// Record is one successful lookup. Payload is the upstream document verbatim.
type Record struct {
	Tag     string          `json:"tag"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

type Aggregator struct {
	log     *logger.Logger
	metrics *observability.Metrics
	limit   int
}

func New(log *logger.Logger, metrics *observability.Metrics, maxConcurrency int) *Aggregator {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	return &Aggregator{
		log:     log.With("service", "Aggregator"),
		metrics: metrics,
		limit:   maxConcurrency,
	}
}

// Aggregate runs one lookup per tag and returns the successes. A failed lookup
// is logged and left out; it never fails the whole call. All lookups finish
// before Aggregate returns.
func (a *Aggregator) Aggregate(ctx context.Context, kind string, tags []string, lookup LookupFunc) []Record {
	if len(tags) == 0 || lookup == nil {
		return []Record{}
	}
	ctx = ctxutil.Default(ctx)
	start := time.Now()

	ctx, span := observability.Tracer().Start(ctx, "aggregate."+kind)
	span.SetAttributes(
		attribute.String("aggregate.kind", kind),
		attribute.Int("aggregate.tags", len(tags)),
	)
	defer span.End()

	slots := make([]*Record, len(tags))
	trace := ctxutil.GetTraceData(ctx).LogFields()

	// Tasks always return nil: a failure only leaves its slot empty.
	var g errgroup.Group
	g.SetLimit(a.limit)
	for i, tag := range tags {
		g.Go(func() error {
			payload, err := lookup(ctx, tag)
			if err != nil {
				a.metrics.ObserveLookup(kind, false)
				a.log.Warn("lookup failed; omitting from result",
					append([]any{"kind", kind, "tag", tag, "error", err}, trace...)...)
				return nil
			}
			a.metrics.ObserveLookup(kind, true)
			slots[i] = &Record{Tag: tag, Kind: kind, Payload: payload}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Record, 0, len(tags))
	for _, r := range slots {
		if r != nil {
			out = append(out, *r)
		}
	}

	a.metrics.ObserveAggregate(kind, time.Since(start))
	span.SetAttributes(attribute.Int("aggregate.ok", len(out)))
	if len(out) < len(tags) {
		span.SetStatus(codes.Error, "some lookups failed")
	}
	return out
}
