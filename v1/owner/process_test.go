package owner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mirkobrombin/go-warden/v1/cell"
	wardenerrors "github.com/mirkobrombin/go-warden/v1/errors"
)

type leaderMark struct{}
type batonMark struct{}
type cancelMark struct{}
type scopedMark struct{}
type tracedMark struct{}

func TestProcessSingletonAcrossGoroutines(t *testing.T) {
	o := NewProcess[leaderMark]()
	errc := make(chan error, 1)
	go func() {
		_, err := TryNewProcess[leaderMark]()
		errc <- err
	}()
	if err := <-errc; !errors.Is(err, wardenerrors.ErrOwnerActive) {
		t.Fatalf("claim while held: %v", err)
	}
	wantPanic(t, wardenerrors.ErrOwnerActive, func() { NewProcess[leaderMark]() })
	o.Release()

	var g errgroup.Group
	g.Go(func() error {
		o2, err := TryNewProcess[leaderMark]()
		if err != nil {
			return err
		}
		o2.Release()
		return nil
	})
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestAcquireProcessWaits(t *testing.T) {
	o := NewProcess[batonMark]()
	c := cell.New[batonMark](41)
	cell.Set(o, c, 42)

	done := make(chan error, 1)
	started := make(chan struct{})
	go func() {
		close(started)
		o2, err := AcquireProcess[batonMark](context.Background())
		if err != nil {
			done <- err
			return
		}
		defer o2.Release()
		if got := cell.Get(o2, c); got != 42 {
			done <- fmt.Errorf("got %d, want 42", got)
			return
		}
		done <- nil
	}()
	<-started
	time.Sleep(10 * time.Millisecond)
	select {
	case err := <-done:
		t.Fatalf("acquire returned while marker held: %v", err)
	default:
	}
	o.Release()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestAcquireProcessContextCancel(t *testing.T) {
	o := NewProcess[cancelMark]()
	defer o.Release()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	if _, err := AcquireProcess[cancelMark](ctx); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestWithProcess(t *testing.T) {
	err := WithProcess(context.Background(), func(o *Process[scopedMark]) {
		c := cell.NewIn(o, "x")
		cell.Set(o, c, "y")
		if got := cell.Get(o, c); got != "y" {
			t.Fatalf("got %q, want \"y\"", got)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	func() {
		defer func() { _ = recover() }()
		_ = WithProcess(context.Background(), func(*Process[scopedMark]) {
			panic("boom")
		})
	}()
	// The panicking callback must not leave the marker claimed.
	o := NewProcess[scopedMark]()
	o.Release()
}

func TestAcquireProcessWithTracing(t *testing.T) {
	o, err := AcquireProcess[tracedMark](context.Background(), WithTracing())
	if err != nil {
		t.Fatal(err)
	}
	o.Release()
}
