package testutil

import (
	"sync"
	"testing"
	"time"
)

// WaitTimeout fails the test if wg is not done within timeout.
func WaitTimeout(t testing.TB, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		t.Fatalf("testutil: wait group not done after %s", timeout)
	}
}
