// internal/coordinator/runner.go
package coordinator

import (
	"context"
	"fmt"
	"log"
)

// Run drives the lifecycle until ctx is cancelled or a fatal error occurs.
// Cancellation is observed once per cycle, after the interval sleep and
// before any bus transaction. Node reads are never interrupted.
// Returns nil on cancellation.
func (c *Coordinator) Run(ctx context.Context) error {
	c.setState(StateInitializing)

	bus, closeBus, err := c.open()
	if err != nil {
		c.setState(StateStopped)
		return fmt.Errorf("coordinator: open bus: %w", err)
	}
	c.bus = bus
	defer func() {
		if closeBus == nil {
			return
		}
		if err := closeBus(); err != nil {
			log.Printf("coordinator: bus close failed: %v", err)
		}
	}()

	c.setState(StateConfiguring)
	log.Printf("coordinator: configuring %d node(s), period=%ds", len(c.cfg.Nodes), c.cfg.SamplingPeriod)

	if err := c.Configure(); err != nil {
		c.shutdown()
		return err
	}

	c.setState(StatePolling)
	log.Printf("coordinator: polling every %s", c.cfg.Interval)

	for {
		c.sleep(c.cfg.Interval)

		if ctx.Err() != nil {
			log.Printf("coordinator: stop requested")
			c.shutdown()
			return nil
		}

		if _, err := c.PollOnce(); err != nil {
			c.shutdown()
			return err
		}
	}
}

func (c *Coordinator) shutdown() {
	if err := c.stopAll(); err != nil {
		log.Printf("%v", err)
	}
	c.setState(StateStopped)
	log.Printf("coordinator: stopped")
}
