package main

import (
	"sync"
	"time"
)

// backgroundGroup runs fire-and-forget work that shutdown still waits for.
type backgroundGroup struct {
	wg sync.WaitGroup
}

// Go runs f on its own goroutine.
func (g *backgroundGroup) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// Wait blocks until every started function returns or timeout elapses.
// It reports whether all work finished.
func (g *backgroundGroup) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
