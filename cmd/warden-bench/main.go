package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mirkobrombin/go-warden/v1/cell"
	"github.com/mirkobrombin/go-warden/v1/owner"
)

var (
	concurrency = flag.Int("c", 8, "Concurrency")
	requests    = flag.Int("n", 1000000, "Requests")
	dataSize    = flag.Int("d", 256, "Payload size")
	target      = flag.String("target", "all", "Target: goroutine-ro, goroutine-rw, instance-ro, mutex, rwmutex, bare")
)

// Bench marks the cells the benchmark workers churn.
type Bench struct{}

func main() {
	flag.Parse()

	payload := make([]byte, *dataSize)
	for i := range payload {
		payload[i] = 'x'
	}

	targets := strings.Split(*target, ",")
	if *target == "all" {
		targets = []string{"goroutine-ro", "goroutine-rw", "instance-ro", "mutex", "rwmutex", "bare"}
	}

	fmt.Printf("| %-12s | %-10s | %-12s | %-12s |\n", "System", "Ops/sec", "Avg Latency", "P99 Latency")
	fmt.Println("|:---|:---|:---|:---|")

	for _, t := range targets {
		runBenchmark(strings.TrimSpace(t), payload)
	}
}

type worker struct {
	op       func()
	teardown func()
}

func runBenchmark(name string, payload []byte) {
	var (
		newWorker func() worker
		cleanup   func()
	)

	switch name {
	case "goroutine-ro":
		// Every worker goroutine holds its own owner for the marker.
		newWorker = func() worker {
			o := owner.NewGoroutine[Bench]()
			c := cell.New[Bench](payload)
			var n int
			return worker{
				op:       func() { cell.Ro(o, c, func(v []byte) { n += len(v) }) },
				teardown: o.Release,
			}
		}

	case "goroutine-rw":
		newWorker = func() worker {
			o := owner.NewGoroutine[Bench]()
			c := cell.New[Bench](append([]byte(nil), payload...))
			return worker{
				op:       func() { cell.Rw(o, c, func(v *[]byte) { (*v)[0]++ }) },
				teardown: o.Release,
			}
		}

	case "instance-ro":
		// One shared owner, concurrent readers on its ledger.
		o := owner.NewInstance[Bench]()
		c := cell.NewIn(o, payload)
		cleanup = o.Release
		newWorker = func() worker {
			var n int
			return worker{
				op: func() { cell.Ro(o, c, func(v []byte) { n += len(v) }) },
			}
		}

	case "mutex":
		var mu sync.Mutex
		buf := append([]byte(nil), payload...)
		newWorker = func() worker {
			var n int
			return worker{
				op: func() {
					mu.Lock()
					n += len(buf)
					mu.Unlock()
				},
			}
		}

	case "rwmutex":
		var mu sync.RWMutex
		buf := append([]byte(nil), payload...)
		newWorker = func() worker {
			var n int
			return worker{
				op: func() {
					mu.RLock()
					n += len(buf)
					mu.RUnlock()
				},
			}
		}

	case "bare":
		buf := append([]byte(nil), payload...)
		newWorker = func() worker {
			var n int
			return worker{
				op: func() { n += len(buf) },
			}
		}

	default:
		log.Printf("Unknown target: %s", name)
		return
	}

	if cleanup != nil {
		defer cleanup()
	}

	var wg sync.WaitGroup
	var ops int64
	totalReqs := *requests
	latencies := make([]int64, totalReqs)

	start := time.Now()
	chunk := totalReqs / *concurrency

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			w := newWorker()
			if w.teardown != nil {
				defer w.teardown()
			}
			offset := idx * chunk
			for j := 0; j < chunk; j++ {
				reqStart := time.Now()
				w.op()
				atomic.AddInt64(&ops, 1)
				latencies[offset+j] = time.Since(reqStart).Nanoseconds()
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	if ops == 0 {
		fmt.Printf("| %-12s | %-10s | %-12s | %-12s |\n", name, "ERROR", "-", "-")
		return
	}

	throughput := float64(ops) / elapsed.Seconds()
	avgLat := float64(elapsed.Nanoseconds()) / float64(ops)

	var p99 string = "-"
	validLats := make([]int64, 0, ops)
	for _, l := range latencies {
		if l > 0 {
			validLats = append(validLats, l)
		}
	}
	if len(validLats) > 0 {
		sort.Slice(validLats, func(i, j int) bool { return validLats[i] < validLats[j] })
		p99Idx := int(float64(len(validLats)) * 0.99)
		if p99Idx >= len(validLats) {
			p99Idx = len(validLats) - 1
		}
		p99 = fmt.Sprintf("%d", validLats[p99Idx])
	}

	fmt.Printf("| %-12s | %-10.0f | %-12.0f | %-12s |\n", name, throughput, avgLat, p99)
}
