package owner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mirkobrombin/go-warden/v1/cell"
	wardenerrors "github.com/mirkobrombin/go-warden/v1/errors"
	"github.com/mirkobrombin/go-warden/v1/metrics"
	"github.com/mirkobrombin/go-warden/v1/scope"
)

// Process is a process-wide singleton owner: at most one live Process[M]
// exists per marker in the whole process, regardless of goroutine. Like
// the goroutine kind it is pinned to its creating goroutine.
type Process[M any] struct {
	noCopy noCopy
	st     *cell.State
}

var _ cell.Owner[struct{}] = (*Process[struct{}])(nil)

// NewProcess claims marker M process-wide and returns its owner token. It
// panics with ErrOwnerActive when any goroutine already holds a live
// process owner for M.
func NewProcess[M any]() *Process[M] {
	o, err := TryNewProcess[M]()
	if err != nil {
		violate(err)
	}
	return o
}

// TryNewProcess is NewProcess with the singleton violation returned as an
// error instead of a panic.
func TryNewProcess[M any]() (*Process[M], error) {
	m := scope.Marker[M]()
	if !scope.TryClaim(m) {
		return nil, fmt.Errorf("%w: marker %v already live in this process",
			wardenerrors.ErrOwnerActive, m)
	}
	metrics.OwnerCounter.Inc()
	metrics.LiveOwnersGauge.Inc()
	return &Process[M]{st: cell.NewState(scope.GoroutineID())}, nil
}

// AcquireProcess blocks until marker M frees up process-wide or ctx is
// done. Waiters wake in no particular order when the current owner
// releases.
func AcquireProcess[M any](ctx context.Context, opts ...Option) (*Process[M], error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	m := scope.Marker[M]()
	var span trace.Span
	if cfg.traceEnabled {
		ctx, span = tracer.Start(ctx, "Owner.AcquireProcess")
		defer span.End()
		span.SetAttributes(attribute.String("warden.marker", m.String()))
	}
	if err := scope.Acquire(ctx, m); err != nil {
		if cfg.traceEnabled {
			span.SetAttributes(attribute.String("warden.acquire.result", "cancelled"))
		}
		return nil, err
	}
	if cfg.traceEnabled {
		span.SetAttributes(attribute.String("warden.acquire.result", "acquired"))
	}
	metrics.OwnerCounter.Inc()
	metrics.LiveOwnersGauge.Inc()
	return &Process[M]{st: cell.NewState(scope.GoroutineID())}, nil
}

// WithProcess acquires marker M, runs fn with the owner, and releases on
// every exit path, including a panicking fn.
func WithProcess[M any](ctx context.Context, fn func(*Process[M])) error {
	o, err := AcquireProcess[M](ctx)
	if err != nil {
		return err
	}
	defer o.Release()
	fn(o)
	return nil
}

// NewTag implements cell.Owner. Process owners control the
// marker-singleton cell family, so tags are zero.
func (o *Process[M]) NewTag() cell.Tag[M] {
	return cell.Tag[M]{}
}

// Owns implements cell.Owner.
func (o *Process[M]) Owns(t cell.Tag[M]) bool {
	return t.ID() == uuid.Nil
}

// State implements cell.Owner.
func (o *Process[M]) State() *cell.State {
	return o.st
}

// Release frees marker M process-wide, waking any acquirers blocked on it.
// It panics if any view is still live, if the owner was already released,
// or when called from a foreign goroutine.
func (o *Process[M]) Release() {
	o.st.Close()
	scope.Release(scope.Marker[M]())
	metrics.ReleaseCounter.Inc()
	metrics.LiveOwnersGauge.Dec()
}

// Metrics reports how many views this owner has served.
func (o *Process[M]) Metrics() Metrics {
	ro, rw := o.st.Counts()
	return Metrics{RoBorrows: ro, RwBorrows: rw}
}
