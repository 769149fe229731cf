package cell

import (
	"fmt"
	"sync/atomic"

	wardenerrors "github.com/mirkobrombin/go-warden/v1/errors"
	"github.com/mirkobrombin/go-warden/v1/scope"
)

// State is a per-owner borrow ledger. A single word tracks live views:
// zero when idle, the reader count while read views are live, and -1 while
// a write view is live. An owner hands the same *State to every borrow
// operation, so exclusion is arbitrated per owner rather than per cell and
// cells stay free of bookkeeping.
type State struct {
	borrow atomic.Int64
	closed atomic.Bool
	pin    uint64
	ro     atomic.Uint64
	rw     atomic.Uint64
}

// NewState returns a ledger pinned to goroutine pin. A zero pin leaves the
// owner usable from any goroutine.
func NewState(pin uint64) *State {
	return &State{pin: pin}
}

// Counts reports how many read and write views the ledger has served.
func (s *State) Counts() (ro, rw uint64) {
	return s.ro.Load(), s.rw.Load()
}

// Close marks the ledger released. It panics if a pinned ledger is closed
// from a foreign goroutine, if any view is still live, or if the ledger
// was already closed.
func (s *State) Close() {
	if s.pin != 0 {
		if gid := scope.GoroutineID(); gid != s.pin {
			violate(fmt.Errorf("%w: owner pinned to goroutine %d, released from goroutine %d",
				wardenerrors.ErrWrongGoroutine, s.pin, gid))
		}
	}
	if n := s.borrow.Load(); n != 0 {
		if n < 0 {
			violate(fmt.Errorf("%w: released while a write view is active",
				wardenerrors.ErrBorrowConflict))
		}
		violate(fmt.Errorf("%w: released while %d read views are active",
			wardenerrors.ErrBorrowConflict, n))
	}
	if !s.closed.CompareAndSwap(false, true) {
		violate(fmt.Errorf("%w: released twice", wardenerrors.ErrOwnerClosed))
	}
}

func (s *State) beginRead() bool {
	for {
		n := s.borrow.Load()
		if n < 0 {
			return false
		}
		if s.borrow.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (s *State) endRead() {
	s.borrow.Add(-1)
}

func (s *State) beginWrite() bool {
	return s.borrow.CompareAndSwap(0, -1)
}

func (s *State) endWrite() {
	s.borrow.Store(0)
}
