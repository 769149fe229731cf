package scope

import (
	"context"
	"reflect"
	"sync"
)

type localKey struct {
	gid    uint64
	marker reflect.Type
}

var (
	localMu sync.Mutex
	local   = make(map[localKey]struct{})
)

// TryClaimLocal claims marker t for the calling goroutine. It reports the
// caller's goroutine ID and whether the claim succeeded; the claim fails
// when this goroutine already holds t.
func TryClaimLocal(t reflect.Type) (uint64, bool) {
	gid := GoroutineID()
	localMu.Lock()
	defer localMu.Unlock()
	if _, ok := local[localKey{gid, t}]; ok {
		return gid, false
	}
	local[localKey{gid, t}] = struct{}{}
	return gid, true
}

// ReleaseLocal drops the claim on marker t held by goroutine gid. A claim
// left behind by a goroutine that exited without releasing occupies memory
// but never blocks a fresh goroutine: goroutine IDs are not reused.
func ReleaseLocal(t reflect.Type, gid uint64) {
	localMu.Lock()
	delete(local, localKey{gid, t})
	localMu.Unlock()
}

type claim struct {
	released chan struct{}
}

var (
	procMu  sync.Mutex
	process = make(map[reflect.Type]*claim)
)

// TryClaim claims marker t process-wide without waiting. It returns true
// on success.
func TryClaim(t reflect.Type) bool {
	procMu.Lock()
	defer procMu.Unlock()
	if _, ok := process[t]; ok {
		return false
	}
	process[t] = &claim{released: make(chan struct{})}
	return true
}

// Acquire blocks until the process-wide claim on t is obtained or the
// context is cancelled.
func Acquire(ctx context.Context, t reflect.Type) error {
	for {
		procMu.Lock()
		cur, ok := process[t]
		if !ok {
			process[t] = &claim{released: make(chan struct{})}
			procMu.Unlock()
			return nil
		}
		ch := cur.released
		procMu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Release frees the process-wide claim on t, waking all waiters.
func Release(t reflect.Type) {
	procMu.Lock()
	if cur, ok := process[t]; ok {
		close(cur.released)
		delete(process, t)
	}
	procMu.Unlock()
}

// Stats is a point-in-time snapshot of registry occupancy.
type Stats struct {
	Local   int
	Process int
}

// Snapshot reports how many goroutine-scoped and process-wide claims are
// currently held.
func Snapshot() Stats {
	localMu.Lock()
	nl := len(local)
	localMu.Unlock()
	procMu.Lock()
	np := len(process)
	procMu.Unlock()
	return Stats{Local: nl, Process: np}
}
