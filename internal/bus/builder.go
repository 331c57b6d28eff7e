// internal/bus/builder.go
package bus

import (
	"fmt"
	"time"

	"github.com/tamzrod/i2c-coordinator/internal/bus/buspirate"
	"github.com/tamzrod/i2c-coordinator/internal/bus/periph"
	"github.com/tamzrod/i2c-coordinator/internal/bus/sim"
	"github.com/tamzrod/i2c-coordinator/internal/bus/smbus"
	"github.com/tamzrod/i2c-coordinator/internal/config"
	"github.com/tamzrod/i2c-coordinator/internal/node"
	"github.com/tamzrod/i2c-coordinator/internal/regmap"
)

// Open constructs the configured bus backend.
// The returned closer releases the underlying device.
// nodes is only used by the sim driver, which attaches one simulated
// node per entry.
// Config is expected to be validated and normalized.
func Open(cfg config.BusConfig, nodes []config.NodeConfig) (node.Bus, func() error, error) {
	switch cfg.Driver {
	case config.DriverSMBus:
		c, err := smbus.New(smbus.Config{Number: cfg.Number})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil

	case config.DriverPeriph:
		c, err := periph.New(periph.Config{Name: cfg.Name})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil

	case config.DriverBusPirate:
		c, err := buspirate.Open(buspirate.Config{
			Address:  cfg.Serial.Address,
			BaudRate: cfg.Serial.BaudRate,
			Timeout:  time.Duration(cfg.Serial.TimeoutMs) * time.Millisecond,
			SpeedKHz: cfg.Serial.SpeedKHz,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil

	case config.DriverSim:
		b := sim.New()
		for _, n := range nodes {
			b.Attach(node.Addr(n.Address), regmap.Role(n.Role))
		}
		return b, b.Close, nil

	default:
		return nil, nil, fmt.Errorf("bus: unknown driver %q", cfg.Driver)
	}
}
