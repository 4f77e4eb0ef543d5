package renderer

import (
	"sync"
)

// RowPool runs per-row work with a bounded number of goroutines.
// Rows are independent: each writes a disjoint slice of the output and owns
// its random stream, so completion order never affects the result.
type RowPool struct {
	numWorkers int
}

// NewRowPool creates a pool with the specified number of workers.
// Values <= 1 run rows sequentially on the caller's goroutine.
func NewRowPool(numWorkers int) *RowPool {
	return &RowPool{numWorkers: max(1, numWorkers)}
}

// GetNumWorkers returns the number of workers in the pool
func (p *RowPool) GetNumWorkers() int {
	return p.numWorkers
}

// Run calls renderRow for every row in [0, rows) and returns once all are done
func (p *RowPool) Run(rows int, renderRow func(y int)) {
	if p.numWorkers == 1 {
		for y := 0; y < rows; y++ {
			renderRow(y)
		}
		return
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < min(p.numWorkers, rows); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range next {
				renderRow(y)
			}
		}()
	}

	for y := 0; y < rows; y++ {
		next <- y
	}
	close(next)
	wg.Wait()
}
