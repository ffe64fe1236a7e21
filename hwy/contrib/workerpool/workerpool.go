// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool whose
// workers each own private state. A Pool is created once and reused across
// many operations, eliminating allocation and spawn overhead.
//
// Every worker is given a state value built by a factory when the pool is
// created. Work running on a worker receives that worker's state, and a
// worker runs one item at a time, so state that is not safe for concurrent
// use (scratch buffers, filter instances) never needs locking.
//
// Usage:
//
//	pool, err := workerpool.New(runtime.GOMAXPROCS(0), func(worker int) (*Scratch, error) {
//	    return NewScratch(width, height), nil
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	pool.ForEach(len(frames), func(s *Scratch, i int) {
//	    s.Process(frames[i])
//	})
package workerpool

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
//
// ForEach must not be called concurrently on one Pool.
type Pool[S any] struct {
	states    []S
	workC     chan workItem[S]
	closeOnce sync.Once
	closed    atomic.Bool
}

// workItem represents a single parallel operation to execute.
type workItem[S any] struct {
	fn      func(state S)
	barrier *sync.WaitGroup
}

// New creates a worker pool with numWorkers workers, calling newState once
// per worker before any worker starts. If numWorkers <= 0, uses GOMAXPROCS.
// An error from newState aborts creation and is returned wrapped.
func New[S any](numWorkers int, newState func(worker int) (S, error)) (*Pool[S], error) {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	states := make([]S, numWorkers)
	for w := range numWorkers {
		s, err := newState(w)
		if err != nil {
			return nil, fmt.Errorf("workerpool: state for worker %d: %w", w, err)
		}
		states[w] = s
	}

	p := &Pool[S]{
		states: states,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem[S], numWorkers*2),
	}

	// Spawn persistent workers
	for _, s := range states {
		go p.worker(s)
	}

	return p, nil
}

// worker is the main loop for each persistent worker goroutine.
func (p *Pool[S]) worker(state S) {
	for item := range p.workC {
		item.fn(state)
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool[S]) NumWorkers() int {
	return len(p.states)
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe.
func (p *Pool[S]) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// ForEach executes fn for each index in [0, n) using atomic work stealing,
// which balances load when work per item varies. Blocks until all work
// completes.
//
// fn receives the state of the worker running it and the index to process.
func (p *Pool[S]) ForEach(n int, fn func(state S, i int)) {
	if n <= 0 {
		return
	}

	workers := min(len(p.states), n)

	if p.closed.Load() || workers == 1 {
		for i := range n {
			fn(p.states[0], i)
		}
		return
	}

	var nextIdx atomic.Int32
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		p.workC <- workItem[S]{
			fn: func(state S) {
				for {
					idx := int(nextIdx.Add(1)) - 1
					if idx >= n {
						return
					}
					fn(state, idx)
				}
			},
			barrier: &wg,
		}
	}

	wg.Wait()
}
