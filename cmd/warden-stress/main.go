package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof"
	"runtime"
	"sync"
	"time"

	"github.com/mirkobrombin/go-warden/v1/cell"
	"github.com/mirkobrombin/go-warden/v1/owner"
	"github.com/mirkobrombin/go-warden/v1/scope"
)

var (
	duration = flag.Duration("duration", 1*time.Minute, "Duration of the stress test")
	procs    = flag.Int("procs", 8, "Number of concurrent goroutines")
	cells    = flag.Int("cells", 1024, "Cells per goroutine")
)

// Stress marks the cells the stress workers churn.
type Stress struct{}

// Baton marks the process-wide marker two workers keep trading.
type Baton struct{}

// Payload simulates a heavy cell value.
type Payload struct {
	Data [1024]byte
}

func main() {
	flag.Parse()

	go func() {
		log.Println("Starting pprof on :6060")
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	log.Printf("Churning %d goroutines x %d cells for %v", *procs, *cells, *duration)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var totalRo, totalRw uint64

	for p := 0; p < *procs; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))

			o := owner.NewGoroutine[Stress]()
			boxes := make([]*cell.Cell[Stress, Payload], *cells)
			for i := range boxes {
				boxes[i] = cell.New[Stress](Payload{})
			}

			for ctx.Err() == nil {
				i := r.Intn(len(boxes))
				if r.Float32() < 0.2 {
					j := r.Intn(len(boxes))
					if j == i {
						cell.Rw(o, boxes[i], func(v *Payload) { v.Data[0]++ })
					} else {
						cell.Rw2(o, boxes[i], boxes[j], func(a, b *Payload) {
							a.Data[0], b.Data[0] = b.Data[0], a.Data[0]
						})
					}
				} else {
					cell.Ro(o, boxes[i], func(Payload) {})
				}
			}

			m := o.Metrics()
			o.Release()
			mu.Lock()
			totalRo += m.RoBorrows
			totalRw += m.RwBorrows
			mu.Unlock()
		}(p)
	}

	// Two workers trade a process-wide marker to churn the acquire path.
	handoff := cell.New[Baton](0)
	for p := 0; p < 2; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				err := owner.WithProcess(ctx, func(o *owner.Process[Baton]) {
					cell.Rw(o, handoff, func(n *int) { *n++ })
				})
				if err != nil {
					return
				}
			}
		}()
	}

	monitorTicker := time.NewTicker(5 * time.Second)
	defer monitorTicker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-monitorTicker.C:
				printStats()
			}
		}
	}()

	wg.Wait()

	if s := scope.Snapshot(); s.Local != 0 || s.Process != 0 {
		log.Fatalf("registry not drained: %+v", s)
	}
	final := owner.NewProcess[Baton]()
	passes := cell.Get(final, handoff)
	final.Release()
	log.Printf("Stress Test Completed. ro=%d rw=%d baton-passes=%d", totalRo, totalRw, passes)
}

func printStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s := scope.Snapshot()
	fmt.Printf("Alloc = %v MiB", m.Alloc/1024/1024)
	fmt.Printf("\tNumGC = %v", m.NumGC)
	fmt.Printf("\tClaims = %d local / %d process\n", s.Local, s.Process)
}
