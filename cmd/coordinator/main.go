// cmd/coordinator/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tamzrod/i2c-coordinator/internal/config"
	"github.com/tamzrod/i2c-coordinator/internal/coordinator"
	"github.com/tamzrod/i2c-coordinator/internal/report"
	"github.com/tamzrod/i2c-coordinator/internal/status"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: coordinator <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)
	c := cfg.Coordinator

	// --------------------
	// Reporters (console + health)
	// --------------------

	health := report.NewStatus(status.NewTracker(*c.StaleAfter, nil))
	reporters := report.Multi{
		report.NewConsole(os.Stdout),
		health,
	}

	// --------------------
	// Coordinator
	// --------------------

	co, err := coordinator.Build(c, reporters)
	if err != nil {
		log.Fatalf("coordinator build failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("coordinator: driver=%s nodes=%d interval=%s", c.Bus.Driver, len(c.Nodes), c.Interval())

	runErr := co.Run(ctx)

	// nodes are only disabled if they were ever configured
	if co.Started() {
		health.Disable(co.Nodes())
	}

	if runErr != nil {
		stop()
		log.Fatalf("coordinator failed: %v", runErr)
	}
}
