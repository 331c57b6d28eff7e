// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"time"
)

// NodeNameMaxChars bounds node names shown in reports.
const NodeNameMaxChars = 16

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}
	c := cfg.Coordinator

	// ------------------------------------------------------------
	// BUS
	// ------------------------------------------------------------

	switch c.Bus.Driver {
	case "", DriverSMBus:
		if c.Bus.Number < 0 {
			return fmt.Errorf("bus: smbus number %d must be >= 0", c.Bus.Number)
		}
	case DriverPeriph, DriverSim:
	case DriverBusPirate:
		if c.Bus.Serial.Address == "" {
			return errors.New("bus: buspirate requires serial.address")
		}
		switch c.Bus.Serial.SpeedKHz {
		case 0, 5, 50, 100, 400:
		default:
			return fmt.Errorf("bus: buspirate speed_khz %d not one of 5, 50, 100, 400", c.Bus.Serial.SpeedKHz)
		}
	default:
		return fmt.Errorf("bus: unknown driver %q", c.Bus.Driver)
	}

	// ------------------------------------------------------------
	// NODES
	// ------------------------------------------------------------

	if len(c.Nodes) == 0 {
		return errors.New("nodes: at least one node required")
	}

	seen := make(map[int]int)
	for i, n := range c.Nodes {
		if n.Address < 0 || n.Address > 127 {
			return fmt.Errorf("nodes[%d]: address %d outside [0,127]", i, n.Address)
		}
		if prev, dup := seen[n.Address]; dup {
			return fmt.Errorf("nodes[%d]: address 0x%02x already used by nodes[%d]", i, n.Address, prev)
		}
		seen[n.Address] = i

		switch n.Role {
		case RoleClimate, RoleSound:
		default:
			return fmt.Errorf("nodes[%d]: unknown role %q (expected %s or %s)", i, n.Role, RoleClimate, RoleSound)
		}

		if len(n.Name) > NodeNameMaxChars {
			return fmt.Errorf("nodes[%d]: name longer than %d characters", i, NodeNameMaxChars)
		}
		// name sanity (ASCII only)
		for j := 0; j < len(n.Name); j++ {
			if n.Name[j] > 0x7F {
				return fmt.Errorf("nodes[%d]: name must contain ASCII characters only", i)
			}
		}
	}

	// ------------------------------------------------------------
	// TIMING (liveness)
	// ------------------------------------------------------------

	if c.SamplingPeriodS == 0 {
		return errors.New("sampling_period_s must be > 0")
	}
	if c.Poll.IntervalMs <= 0 {
		return errors.New("poll.interval_ms must be > 0")
	}
	if c.CommandDelayMs < 0 {
		return errors.New("command_delay_ms must be >= 0")
	}
	if c.StaleAfter != nil && *c.StaleAfter < 0 {
		return errors.New("stale_after must be >= 0")
	}

	// The coordinator must poll slower than the nodes sample so that every
	// poll observes a fresh sample.
	if c.Interval() <= c.NodePeriod() {
		return fmt.Errorf(
			"poll.interval_ms (%s) must exceed sampling_period_s (%s)",
			c.Interval(), c.NodePeriod(),
		)
	}

	return nil
}

// Interval is the coordinator polling interval.
func (c CoordinatorConfig) Interval() time.Duration {
	return time.Duration(c.Poll.IntervalMs) * time.Millisecond
}

// NodePeriod is the node sampling period.
func (c CoordinatorConfig) NodePeriod() time.Duration {
	return time.Duration(c.SamplingPeriodS) * time.Second
}

// CommandDelay is the pause after each set-period command.
func (c CoordinatorConfig) CommandDelay() time.Duration {
	return time.Duration(c.CommandDelayMs) * time.Millisecond
}
