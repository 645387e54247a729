package quiz

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs fn every interval until the returned cancel func is called.
// Cancel must not block: it is called while the engine holds its lock.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

// TickerScheduler runs each schedule on its own goroutine driven by a
// time.Ticker.
type TickerScheduler struct {
	wg sync.WaitGroup
}

// NewTickerScheduler creates a TickerScheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

// Every implements Scheduler.
func (s *TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ctx, cancel := context.WithCancel(context.Background())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// A tick may race with cancellation; prefer cancellation.
				if ctx.Err() != nil {
					return
				}
				fn()
			}
		}
	}()

	return cancel
}

// Wait blocks until every cancelled schedule has exited.
func (s *TickerScheduler) Wait() {
	s.wg.Wait()
}
