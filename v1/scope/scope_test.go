package scope

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

type markA struct{}
type markB struct{}
type markC struct{}
type markD struct{}
type markE struct{}
type markF struct{}
type markOf[T any] struct{}

func TestMarkerIdentity(t *testing.T) {
	if Marker[markA]() != Marker[markA]() {
		t.Fatal("same marker resolved to different identities")
	}
	if Marker[markA]() == Marker[markB]() {
		t.Fatal("distinct markers resolved to one identity")
	}
	if Marker[markOf[int]]() == Marker[markOf[string]]() {
		t.Fatal("distinct instantiations resolved to one identity")
	}
}

func TestTryClaimLocal(t *testing.T) {
	m := Marker[markA]()
	gid, ok := TryClaimLocal(m)
	if !ok {
		t.Fatal("first claim refused")
	}
	if g2, ok := TryClaimLocal(m); ok || g2 != gid {
		t.Fatalf("second claim: ok %v gid %d, want held by %d", ok, g2, gid)
	}
	ReleaseLocal(m, gid)
	if _, ok := TryClaimLocal(m); !ok {
		t.Fatal("claim after release refused")
	}
	ReleaseLocal(m, gid)
}

func TestLocalClaimsPerGoroutine(t *testing.T) {
	m := Marker[markB]()
	var g errgroup.Group
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			gid, ok := TryClaimLocal(m)
			if !ok {
				return errors.New("claim refused in fresh goroutine")
			}
			defer ReleaseLocal(m, gid)
			if _, ok := TryClaimLocal(m); ok {
				return errors.New("double claim in one goroutine")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestTryClaimProcess(t *testing.T) {
	m := Marker[markC]()
	if !TryClaim(m) {
		t.Fatal("first claim refused")
	}
	if TryClaim(m) {
		t.Fatal("second claim succeeded while held")
	}
	Release(m)
	if !TryClaim(m) {
		t.Fatal("claim after release refused")
	}
	Release(m)
}

func TestAcquireWaitsForRelease(t *testing.T) {
	m := Marker[markD]()
	if !TryClaim(m) {
		t.Fatal("claim refused")
	}
	go func() {
		time.Sleep(10 * time.Millisecond)
		Release(m)
	}()
	if err := Acquire(context.Background(), m); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	Release(m)
}

func TestAcquireContextCancel(t *testing.T) {
	m := Marker[markE]()
	if !TryClaim(m) {
		t.Fatal("claim refused")
	}
	defer Release(m)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	start := time.Now()
	if err := Acquire(ctx, m); err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("acquire did not respect context timeout")
	}
}

func TestSnapshot(t *testing.T) {
	before := Snapshot()
	m := Marker[markF]()
	gid, ok := TryClaimLocal(m)
	if !ok {
		t.Fatal("local claim refused")
	}
	if !TryClaim(m) {
		t.Fatal("process claim refused")
	}
	after := Snapshot()
	if after.Local != before.Local+1 || after.Process != before.Process+1 {
		t.Fatalf("snapshot %+v, before %+v", after, before)
	}
	ReleaseLocal(m, gid)
	Release(m)
	end := Snapshot()
	if end.Local != before.Local || end.Process != before.Process {
		t.Fatalf("snapshot after release %+v, want %+v", end, before)
	}
}
