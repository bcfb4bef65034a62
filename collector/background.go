package collector

import (
	"context"
	"time"
)

// cyclePeriod is the background thread's sleep interval between full
// cycles.
const cyclePeriod = 100 * time.Millisecond

// StartGC starts the background collector thread if it is not already
// running. Starting it again while it is already running is a no-op.
func (c *Collector) StartGC() {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true

	c.Log.Info("background gc started")
	go c.loop(ctx, c.done)
}

// StopGC signals the background thread to exit and waits for it to do
// so. Calling StopGC when no thread is running is a no-op.
func (c *Collector) StopGC() {
	c.runMu.Lock()
	if !c.running {
		c.runMu.Unlock()
		return
	}
	cancel := c.cancel
	done := c.done
	c.running = false
	c.runMu.Unlock()

	cancel()
	<-done
	c.Log.Info("background gc stopped")
}

func (c *Collector) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		if err := c.RunCycle(ctx); err != nil {
			c.Log.Error("background gc cycle failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(cyclePeriod):
		}
	}
}
