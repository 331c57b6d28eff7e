// internal/coordinator/coordinator.go
package coordinator

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tamzrod/i2c-coordinator/internal/node"
	"github.com/tamzrod/i2c-coordinator/internal/regmap"
)

// ErrPeriodMismatch reports a node that did not store the programmed period.
var ErrPeriodMismatch = errors.New("sampling period mismatch")

// Config is the minimal runtime config the coordinator needs.
type Config struct {
	Nodes []NodeSpec

	// Programmed into every node, in seconds.
	SamplingPeriod uint8

	// Sleep before each polling cycle. Must exceed SamplingPeriod.
	Interval time.Duration

	// Sleep after each set-period command.
	CommandDelay time.Duration

	// Read the period back after programming it.
	VerifyPeriod bool
}

// Coordinator configures the nodes once, then polls them forever.
// A single goroutine (Run) owns the bus.
type Coordinator struct {
	cfg    Config
	open   Opener
	report Reporter
	sleep  func(time.Duration)
	now    func() time.Time

	state   atomic.Int32
	started atomic.Bool
	bus     node.Bus
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSleep replaces time.Sleep. The sleep is never interrupted.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Coordinator) { c.sleep = sleep }
}

// WithClock replaces time.Now for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// New creates a coordinator with an immutable node registry.
func New(cfg Config, open Opener, report Reporter, opts ...Option) (*Coordinator, error) {
	if open == nil {
		return nil, errors.New("coordinator: bus opener required")
	}
	if len(cfg.Nodes) == 0 {
		return nil, errors.New("coordinator: at least one node required")
	}
	if cfg.SamplingPeriod == 0 {
		return nil, errors.New("coordinator: sampling period must be > 0")
	}
	if cfg.CommandDelay < 0 {
		return nil, errors.New("coordinator: command delay must be >= 0")
	}

	period := time.Duration(cfg.SamplingPeriod) * time.Second
	if cfg.Interval <= period {
		return nil, fmt.Errorf("coordinator: interval %s must exceed sampling period %s", cfg.Interval, period)
	}

	seen := make(map[node.Addr]bool, len(cfg.Nodes))
	for _, n := range cfg.Nodes {
		if !n.Addr.Valid() {
			return nil, fmt.Errorf("coordinator: node %s: %w", n.Addr, node.ErrInvalidAddress)
		}
		if seen[n.Addr] {
			return nil, fmt.Errorf("coordinator: duplicate node %s", n.Addr)
		}
		seen[n.Addr] = true

		if len(n.Role.Fields()) == 0 {
			return nil, fmt.Errorf("coordinator: node %s: unknown role %q", n.Addr, n.Role)
		}
	}

	if report == nil {
		report = ReporterFunc(func(NodeResult) {})
	}

	c := &Coordinator{
		cfg:    cfg,
		open:   open,
		report: report,
		sleep:  time.Sleep,
		now:    time.Now,
	}
	// registry is owned by the coordinator
	c.cfg.Nodes = append([]NodeSpec(nil), cfg.Nodes...)

	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// State returns the current lifecycle phase. Safe from any goroutine.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Nodes returns a copy of the registry.
func (c *Coordinator) Nodes() []NodeSpec {
	return append([]NodeSpec(nil), c.cfg.Nodes...)
}

// Started reports whether the bus was opened and configuring began.
// Nodes were never touched when it is false.
func (c *Coordinator) Started() bool {
	return c.started.Load()
}

func (c *Coordinator) setState(s State) {
	if s == StateConfiguring {
		c.started.Store(true)
	}
	c.state.Store(int32(s))
}

// ---- CONFIGURING ----

// Configure stops every node, programs the sampling period, then starts
// every node again. Per-node failures are reported and skipped.
// Only an uninitialized bus is returned as an error.
func (c *Coordinator) Configure() error {
	if c.bus == nil {
		return fmt.Errorf("coordinator: configure: %w", node.ErrUninitializedBus)
	}

	for _, n := range c.cfg.Nodes {
		c.reportErr(n, OpStop, node.SendStop(c.bus, n.Addr))
	}

	for _, n := range c.cfg.Nodes {
		c.reportErr(n, OpSetPeriod, node.SendSamplingPeriod(c.bus, n.Addr, c.cfg.SamplingPeriod))
		// node processing time
		c.sleep(c.cfg.CommandDelay)
	}

	if c.cfg.VerifyPeriod {
		for _, n := range c.cfg.Nodes {
			c.reportErr(n, OpVerify, c.verifyPeriod(n))
		}
	}

	for _, n := range c.cfg.Nodes {
		c.reportErr(n, OpGo, node.SendGo(c.bus, n.Addr))
	}
	return nil
}

func (c *Coordinator) verifyPeriod(n NodeSpec) error {
	got, err := node.ReadSamplingPeriod(c.bus, n.Addr)
	if err != nil {
		return err
	}
	if got != c.cfg.SamplingPeriod {
		return fmt.Errorf("%w: node=%s got=%d want=%d", ErrPeriodMismatch, n.Addr, got, c.cfg.SamplingPeriod)
	}
	return nil
}

// ---- POLLING ----

// PollOnce reads every node once, reporting each outcome.
// A failing node never prevents the others from being read.
// The returned error is loop-level (fatal); per-node errors are in the results.
func (c *Coordinator) PollOnce() ([]NodeResult, error) {
	if c.bus == nil {
		return nil, fmt.Errorf("coordinator: poll: %w", node.ErrUninitializedBus)
	}

	out := make([]NodeResult, 0, len(c.cfg.Nodes))
	for _, n := range c.cfg.Nodes {
		res := c.pollNode(n)
		c.report.Report(res)
		out = append(out, res)
	}
	return out, nil
}

func (c *Coordinator) pollNode(n NodeSpec) NodeResult {
	res := NodeResult{Addr: n.Addr, Name: n.Name, Op: OpPoll}

	values, err := c.readValues(n)
	if err == nil {
		var sample uint16
		sample, err = node.ReadSampleNumber(c.bus, n.Addr)
		if err == nil {
			res.At = c.now()
			res.Reading = &SensorReading{
				Addr:         n.Addr,
				At:           res.At,
				SampleNumber: sample,
				Values:       values,
			}
			return res
		}
	}

	res.At = c.now()
	res.Err = err
	return res
}

// readValues reads the role's fields. All-or-nothing.
func (c *Coordinator) readValues(n NodeSpec) (Values, error) {
	switch n.Role {
	case regmap.RoleClimate:
		t, err := node.ReadTemperature(c.bus, n.Addr)
		if err != nil {
			return nil, err
		}
		h, err := node.ReadHumidity(c.bus, n.Addr)
		if err != nil {
			return nil, err
		}
		return Climate{Temperature: t, Humidity: h}, nil

	case regmap.RoleSound:
		l, err := node.ReadLeq(c.bus, n.Addr)
		if err != nil {
			return nil, err
		}
		return Sound{Leq: l}, nil

	default:
		return nil, fmt.Errorf("coordinator: node %s: unknown role %q", n.Addr, n.Role)
	}
}

// ---- STOPPED ----

// stopAll sends Stop to every node, best-effort.
// Failures are reported per node and summarized in the returned error.
func (c *Coordinator) stopAll() error {
	if c.bus == nil {
		return nil
	}

	var errs []string
	for _, n := range c.cfg.Nodes {
		err := node.SendStop(c.bus, n.Addr)
		if err != nil {
			errs = append(errs, err.Error())
		}
		c.reportErr(n, OpStop, err)
	}

	if len(errs) > 0 {
		return errors.New("coordinator: stop broadcast: " + strings.Join(errs, " | "))
	}
	return nil
}

func (c *Coordinator) reportErr(n NodeSpec, op string, err error) {
	if err == nil {
		return
	}
	c.report.Report(NodeResult{
		Addr: n.Addr,
		Name: n.Name,
		Op:   op,
		At:   c.now(),
		Err:  err,
	})
}
