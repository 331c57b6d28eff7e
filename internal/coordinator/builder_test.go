// internal/coordinator/builder_test.go
package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/tamzrod/i2c-coordinator/internal/config"
	"github.com/tamzrod/i2c-coordinator/internal/regmap"
)

func TestBuild_FromConfig(t *testing.T) {
	cfg := &config.Config{
		Coordinator: config.CoordinatorConfig{
			Bus:             config.BusConfig{Driver: config.DriverSim},
			SamplingPeriodS: 6,
			Poll:            config.PollConfig{IntervalMs: 15000},
			Nodes: []config.NodeConfig{
				{Address: 0x44, Role: config.RoleClimate, Name: "bench"},
				{Address: 0x45, Role: config.RoleSound},
			},
		},
	}
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("validate: %v", err)
	}
	config.Normalize(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sleeps []time.Duration
	sleep := func(d time.Duration) {
		sleeps = append(sleeps, d)
		cancel()
	}

	c, err := Build(cfg.Coordinator, nil, WithSleep(sleep))
	if err != nil {
		t.Fatalf("Build() err=%v", err)
	}

	nodes := c.Nodes()
	if len(nodes) != 2 || nodes[0].Role != regmap.RoleClimate || nodes[0].Name != "bench" {
		t.Fatalf("unexpected registry: %+v", nodes)
	}

	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run() err=%v", err)
	}
	// two command delays, one interval
	want := []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 15 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("unexpected sleeps: %v", sleeps)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Fatalf("unexpected sleeps: %v", sleeps)
		}
	}
}
