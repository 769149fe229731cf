package owner

import (
	"github.com/google/uuid"

	"github.com/mirkobrombin/go-warden/v1/cell"
	"github.com/mirkobrombin/go-warden/v1/metrics"
)

// Instance is an owner kind free of the singleton discipline: any number
// of Instance[M] owners coexist for one marker, and each controls only the
// cells it minted through cell.NewIn. Instance owners are not pinned, so
// read views may be taken from several goroutines at once; the shared
// ledger still excludes writers.
type Instance[M any] struct {
	noCopy noCopy
	id     uuid.UUID
	st     *cell.State
}

var _ cell.Owner[struct{}] = (*Instance[struct{}])(nil)

// NewInstance returns a fresh instance owner for marker M.
func NewInstance[M any]() *Instance[M] {
	metrics.OwnerCounter.Inc()
	metrics.LiveOwnersGauge.Inc()
	return &Instance[M]{id: uuid.New(), st: cell.NewState(0)}
}

// ID returns the owner's identity, the value stamped on every tag it
// mints.
func (o *Instance[M]) ID() uuid.UUID {
	return o.id
}

// NewTag implements cell.Owner.
func (o *Instance[M]) NewTag() cell.Tag[M] {
	return cell.NewTag[M](o.id)
}

// Owns implements cell.Owner. Cells in the marker-singleton family carry
// the zero tag and are foreign to every instance owner.
func (o *Instance[M]) Owns(t cell.Tag[M]) bool {
	return t.ID() == o.id
}

// State implements cell.Owner.
func (o *Instance[M]) State() *cell.State {
	return o.st
}

// Release retires the owner. It panics if any view is still live or if
// the owner was already released. Cells minted by this owner become
// unreachable for good: no future owner can mint the same identity.
func (o *Instance[M]) Release() {
	o.st.Close()
	metrics.ReleaseCounter.Inc()
	metrics.LiveOwnersGauge.Dec()
}

// Metrics reports how many views this owner has served.
func (o *Instance[M]) Metrics() Metrics {
	ro, rw := o.st.Counts()
	return Metrics{RoBorrows: ro, RwBorrows: rw}
}
