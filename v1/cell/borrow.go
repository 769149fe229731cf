package cell

import (
	"fmt"
	"unsafe"

	wardenerrors "github.com/mirkobrombin/go-warden/v1/errors"
	"github.com/mirkobrombin/go-warden/v1/metrics"
	"github.com/mirkobrombin/go-warden/v1/scope"
)

// violate records the abort in the violations counter and panics with err.
func violate(err error) {
	metrics.ViolationCounter.Inc()
	panic(err)
}

// guard runs the owner-level checks shared by every borrow operation.
func guard[M any](s *State) {
	if s.closed.Load() {
		violate(fmt.Errorf("%w: marker %v", wardenerrors.ErrOwnerClosed, scope.Marker[M]()))
	}
	if s.pin != 0 {
		if gid := scope.GoroutineID(); gid != s.pin {
			violate(fmt.Errorf("%w: marker %v: owner pinned to goroutine %d, used from goroutine %d",
				wardenerrors.ErrWrongGoroutine, scope.Marker[M](), s.pin, gid))
		}
	}
}

// owned panics unless tag belongs to o.
func owned[M any](o Owner[M], tag Tag[M]) {
	if !o.Owns(tag) {
		violate(fmt.Errorf("%w: marker %v: tag %v", wardenerrors.ErrForeignCell, scope.Marker[M](), tag.id))
	}
}

func conflictRead[M any]() {
	violate(fmt.Errorf("%w: marker %v: read view while a write view is active",
		wardenerrors.ErrBorrowConflict, scope.Marker[M]()))
}

func conflictWrite[M any](s *State) {
	if n := s.borrow.Load(); n > 0 {
		violate(fmt.Errorf("%w: marker %v: write view while %d read views are active",
			wardenerrors.ErrBorrowConflict, scope.Marker[M](), n))
	}
	violate(fmt.Errorf("%w: marker %v: write view while a write view is active",
		wardenerrors.ErrBorrowConflict, scope.Marker[M]()))
}

func aliased[M any]() {
	violate(fmt.Errorf("%w: marker %v", wardenerrors.ErrCellAliased, scope.Marker[M]()))
}

// Ro runs fn with a read view of c. fn receives a copy of the contents
// taken under the borrow. Any number of read views may be live on one
// owner at a time, including nested ones.
func Ro[M, T any](o Owner[M], c *Cell[M, T], fn func(T)) {
	s := o.State()
	guard[M](s)
	owned(o, c.tag)
	if !s.beginRead() {
		conflictRead[M]()
	}
	defer s.endRead()
	s.ro.Add(1)
	fn(c.value)
}

// Rw runs fn with a write view of c. The pointer is valid only for the
// duration of the callback. A write view excludes every other view on the
// same owner, so nesting any borrow inside fn panics.
func Rw[M, T any](o Owner[M], c *Cell[M, T], fn func(*T)) {
	s := o.State()
	guard[M](s)
	owned(o, c.tag)
	if !s.beginWrite() {
		conflictWrite[M](s)
	}
	defer s.endWrite()
	s.rw.Add(1)
	fn(&c.value)
}

// Rw2 runs fn with write views of two distinct cells under a single write
// borrow. Passing the same cell twice panics with ErrCellAliased.
func Rw2[M, T, U any](o Owner[M], c1 *Cell[M, T], c2 *Cell[M, U], fn func(*T, *U)) {
	s := o.State()
	guard[M](s)
	owned(o, c1.tag)
	owned(o, c2.tag)
	if !s.beginWrite() {
		conflictWrite[M](s)
	}
	defer s.endWrite()
	// Cells of different value types cannot be compared directly; what
	// matters is whether the two handles share one allocation.
	if unsafe.Pointer(c1) == unsafe.Pointer(c2) {
		aliased[M]()
	}
	s.rw.Add(1)
	fn(&c1.value, &c2.value)
}

// Rw3 runs fn with write views of three pairwise-distinct cells under a
// single write borrow. Any coinciding pair panics with ErrCellAliased.
func Rw3[M, T, U, V any](o Owner[M], c1 *Cell[M, T], c2 *Cell[M, U], c3 *Cell[M, V], fn func(*T, *U, *V)) {
	s := o.State()
	guard[M](s)
	owned(o, c1.tag)
	owned(o, c2.tag)
	owned(o, c3.tag)
	if !s.beginWrite() {
		conflictWrite[M](s)
	}
	defer s.endWrite()
	p1, p2, p3 := unsafe.Pointer(c1), unsafe.Pointer(c2), unsafe.Pointer(c3)
	if p1 == p2 || p1 == p3 || p2 == p3 {
		aliased[M]()
	}
	s.rw.Add(1)
	fn(&c1.value, &c2.value, &c3.value)
}

// Get returns a copy of c's contents taken under a read view.
func Get[M, T any](o Owner[M], c *Cell[M, T]) T {
	var v T
	Ro(o, c, func(cur T) { v = cur })
	return v
}

// Set replaces c's contents under a write view.
func Set[M, T any](o Owner[M], c *Cell[M, T], v T) {
	Rw(o, c, func(p *T) { *p = v })
}
