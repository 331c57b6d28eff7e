// internal/coordinator/builder.go
package coordinator

import (
	"github.com/tamzrod/i2c-coordinator/internal/bus"
	cfg "github.com/tamzrod/i2c-coordinator/internal/config"
	"github.com/tamzrod/i2c-coordinator/internal/node"
	"github.com/tamzrod/i2c-coordinator/internal/regmap"
)

// Build constructs a Coordinator from validated, normalized config.
// The bus is not opened here: Run opens it through the configured driver
// and closes it on return.
func Build(c cfg.CoordinatorConfig, report Reporter, opts ...Option) (*Coordinator, error) {
	nodes := make([]NodeSpec, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		nodes = append(nodes, NodeSpec{
			Addr: node.Addr(n.Address),
			Role: regmap.Role(n.Role),
			Name: n.Name,
		})
	}

	// bus factory: ONE attempt per call
	open := func() (node.Bus, func() error, error) {
		return bus.Open(c.Bus, c.Nodes)
	}

	return New(
		Config{
			Nodes:          nodes,
			SamplingPeriod: c.SamplingPeriodS,
			Interval:       c.Interval(),
			CommandDelay:   c.CommandDelay(),
			VerifyPeriod:   c.VerifyPeriod,
		},
		open,
		report,
		opts...,
	)
}
