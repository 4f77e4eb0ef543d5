package renderer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRowPoolVisitsEveryRow(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		rows    int
	}{
		{"sequential", 1, 10},
		{"zero workers", 0, 5},
		{"parallel", 4, 33},
		{"more workers than rows", 16, 3},
		{"no rows", 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewRowPool(tt.workers)
			visits := make([]int32, tt.rows)

			pool.Run(tt.rows, func(y int) {
				atomic.AddInt32(&visits[y], 1)
			})

			for y, n := range visits {
				if n != 1 {
					t.Errorf("row %d visited %d times", y, n)
				}
			}
		})
	}
}

func TestRowPoolWorkerCount(t *testing.T) {
	if got := NewRowPool(0).GetNumWorkers(); got != 1 {
		t.Errorf("expected at least one worker, got %d", got)
	}
	if got := NewRowPool(6).GetNumWorkers(); got != 6 {
		t.Errorf("expected 6 workers, got %d", got)
	}
}

func TestRowPoolBoundsConcurrency(t *testing.T) {
	const workers = 3
	pool := NewRowPool(workers)

	var active, peak int32
	pool.Run(64, func(y int) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(100 * time.Microsecond)
		atomic.AddInt32(&active, -1)
	})

	if peak > workers {
		t.Errorf("expected at most %d rows in flight, saw %d", workers, peak)
	}
	if peak < 1 {
		t.Errorf("no rows ran")
	}
}
