package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type traceDataKey struct{}

// TraceData identifies one request in logs and spans. AccountID is zero until
// the bearer token has been accepted.
type TraceData struct {
	TraceID   string
	RequestID string
	AccountID uuid.UUID
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// SetAccount records the caller on the request's trace. No-op on nil.
func (td *TraceData) SetAccount(id uuid.UUID) {
	if td == nil {
		return
	}
	td.AccountID = id
}

// LogFields returns logger key/value pairs for the non-empty ids.
func (td *TraceData) LogFields() []any {
	if td == nil {
		return nil
	}
	out := make([]any, 0, 6)
	if td.TraceID != "" {
		out = append(out, "trace_id", td.TraceID)
	}
	if td.RequestID != "" {
		out = append(out, "request_id", td.RequestID)
	}
	if td.AccountID != uuid.Nil {
		out = append(out, "account_id", td.AccountID.String())
	}
	return out
}
