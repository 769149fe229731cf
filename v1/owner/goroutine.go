package owner

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mirkobrombin/go-warden/v1/cell"
	wardenerrors "github.com/mirkobrombin/go-warden/v1/errors"
	"github.com/mirkobrombin/go-warden/v1/metrics"
	"github.com/mirkobrombin/go-warden/v1/scope"
)

// Goroutine is a goroutine-scoped singleton owner: at most one live
// Goroutine[M] exists per marker per goroutine, and the token is pinned to
// the goroutine that created it. Independent goroutines each hold their
// own owner for the same marker.
type Goroutine[M any] struct {
	noCopy noCopy
	st     *cell.State
	gid    uint64
}

var _ cell.Owner[struct{}] = (*Goroutine[struct{}])(nil)

// NewGoroutine claims marker M for the calling goroutine and returns its
// owner token. It panics with ErrOwnerActive when this goroutine already
// holds a live owner for M.
//
// There is no blocking variant for this kind: only the calling goroutine
// could release the marker, so waiting for it could never return.
func NewGoroutine[M any]() *Goroutine[M] {
	o, err := TryNewGoroutine[M]()
	if err != nil {
		violate(err)
	}
	return o
}

// TryNewGoroutine is NewGoroutine with the singleton violation returned as
// an error instead of a panic.
func TryNewGoroutine[M any]() (*Goroutine[M], error) {
	m := scope.Marker[M]()
	gid, ok := scope.TryClaimLocal(m)
	if !ok {
		return nil, fmt.Errorf("%w: marker %v already live in goroutine %d",
			wardenerrors.ErrOwnerActive, m, gid)
	}
	metrics.OwnerCounter.Inc()
	metrics.LiveOwnersGauge.Inc()
	return &Goroutine[M]{st: cell.NewState(gid), gid: gid}, nil
}

// WithGoroutine claims marker M, runs fn with the owner, and releases on
// every exit path, including a panicking fn.
func WithGoroutine[M any](fn func(*Goroutine[M])) {
	o := NewGoroutine[M]()
	defer o.Release()
	fn(o)
}

// NewTag implements cell.Owner. Goroutine owners control the
// marker-singleton cell family, so tags are zero.
func (o *Goroutine[M]) NewTag() cell.Tag[M] {
	return cell.Tag[M]{}
}

// Owns implements cell.Owner.
func (o *Goroutine[M]) Owns(t cell.Tag[M]) bool {
	return t.ID() == uuid.Nil
}

// State implements cell.Owner.
func (o *Goroutine[M]) State() *cell.State {
	return o.st
}

// Release frees marker M for this goroutine. It panics if any view is
// still live, if the owner was already released, or when called from a
// foreign goroutine. The marker may be claimed again afterwards.
func (o *Goroutine[M]) Release() {
	o.st.Close()
	scope.ReleaseLocal(scope.Marker[M](), o.gid)
	metrics.ReleaseCounter.Inc()
	metrics.LiveOwnersGauge.Dec()
}

// Metrics reports how many views this owner has served.
func (o *Goroutine[M]) Metrics() Metrics {
	ro, rw := o.st.Counts()
	return Metrics{RoBorrows: ro, RwBorrows: rw}
}
