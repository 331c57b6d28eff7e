// internal/coordinator/coordinator_test.go
package coordinator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tamzrod/i2c-coordinator/internal/bus/sim"
	"github.com/tamzrod/i2c-coordinator/internal/node"
	"github.com/tamzrod/i2c-coordinator/internal/regmap"
)

// ---- fake bus ----

type rec struct {
	kind    string // "send" | "recv" | "block"
	addr    node.Addr
	b       byte
	payload []byte
}

func (r rec) String() string {
	if r.kind == "block" {
		return fmt.Sprintf("%s %s %02x %v", r.kind, r.addr, r.b, r.payload)
	}
	return fmt.Sprintf("%s %s %02x", r.kind, r.addr, r.b)
}

// recBus records every transaction. Reads return reply.
type recBus struct {
	txs   []rec
	fail  map[node.Addr]error
	reply byte
}

var errWire = errors.New("wire fault")

func newRecBus() *recBus { return &recBus{fail: map[node.Addr]error{}} }

func (f *recBus) SendByte(addr node.Addr, v uint8) error {
	f.txs = append(f.txs, rec{kind: "send", addr: addr, b: v})
	return f.fail[addr]
}

func (f *recBus) ReceiveByte(addr node.Addr) (uint8, error) {
	f.txs = append(f.txs, rec{kind: "recv", addr: addr})
	return f.reply, f.fail[addr]
}

func (f *recBus) WriteBlock(addr node.Addr, cmd uint8, payload []byte) error {
	f.txs = append(f.txs, rec{kind: "block", addr: addr, b: cmd, payload: append([]byte(nil), payload...)})
	return f.fail[addr]
}

func (f *recBus) count(kind string) int {
	n := 0
	for _, t := range f.txs {
		if t.kind == kind {
			n++
		}
	}
	return n
}

// ---- fake reporter / clock ----

type results struct{ got []NodeResult }

func (r *results) Report(res NodeResult) { r.got = append(r.got, res) }

type clock struct {
	t      time.Time
	sleeps []time.Duration
}

func newClock() *clock { return &clock{t: time.Unix(1700000000, 0)} }

func (c *clock) now() time.Time { return c.t }

func (c *clock) sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
}

// ---- helpers ----

func registry() []NodeSpec {
	return []NodeSpec{
		{Addr: 0x44, Role: regmap.RoleClimate, Name: "climate"},
		{Addr: 0x45, Role: regmap.RoleSound, Name: "sound"},
	}
}

func baseConfig() Config {
	return Config{
		Nodes:          registry(),
		SamplingPeriod: 6,
		Interval:       15 * time.Second,
		CommandDelay:   100 * time.Millisecond,
	}
}

func openWith(b node.Bus) Opener {
	return func() (node.Bus, func() error, error) {
		return b, func() error { return nil }, nil
	}
}

func newWith(t *testing.T, cfg Config, b node.Bus, r Reporter, clk *clock) *Coordinator {
	t.Helper()
	c, err := New(cfg, openWith(b), r, WithSleep(clk.sleep), WithClock(clk.now))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	c.bus = b
	return c
}

// ---- tests ----

func TestNew_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no nodes", func(c *Config) { c.Nodes = nil }},
		{"interval equal", func(c *Config) { c.Interval = 6 * time.Second }},
		{"interval short", func(c *Config) { c.Interval = time.Second }},
		{"period zero", func(c *Config) { c.SamplingPeriod = 0 }},
		{"duplicate", func(c *Config) { c.Nodes[1].Addr = 0x44 }},
		{"address", func(c *Config) { c.Nodes[0].Addr = 128 }},
		{"role", func(c *Config) { c.Nodes[0].Role = "light" }},
		{"delay", func(c *Config) { c.CommandDelay = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := baseConfig()
			tc.mutate(&cfg)
			if _, err := New(cfg, openWith(newRecBus()), nil); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := New(baseConfig(), nil, nil); err == nil {
		t.Fatalf("expected error for nil opener")
	}
}

func TestConfigure_Sequence(t *testing.T) {
	b := newRecBus()
	clk := newClock()
	r := &results{}
	c := newWith(t, baseConfig(), b, r, clk)

	if err := c.Configure(); err != nil {
		t.Fatalf("Configure() err=%v", err)
	}

	want := []rec{
		{kind: "send", addr: 0x44, b: 0xA1},
		{kind: "send", addr: 0x45, b: 0xA1},
		{kind: "block", addr: 0x44, b: 0xA0, payload: []byte{6}},
		{kind: "block", addr: 0x45, b: 0xA0, payload: []byte{6}},
		{kind: "send", addr: 0x44, b: 0xA2},
		{kind: "send", addr: 0x45, b: 0xA2},
	}
	if !reflect.DeepEqual(b.txs, want) {
		t.Fatalf("unexpected transactions:\n got %v\nwant %v", b.txs, want)
	}

	wantSleeps := []time.Duration{100 * time.Millisecond, 100 * time.Millisecond}
	if !reflect.DeepEqual(clk.sleeps, wantSleeps) {
		t.Fatalf("unexpected sleeps: %v", clk.sleeps)
	}
	if len(r.got) != 0 {
		t.Fatalf("successful configuring must not report, got %d", len(r.got))
	}
}

func TestConfigure_NodeFailureContinues(t *testing.T) {
	b := newRecBus()
	b.fail[0x44] = errWire
	r := &results{}
	c := newWith(t, baseConfig(), b, r, newClock())

	if err := c.Configure(); err != nil {
		t.Fatalf("Configure() err=%v", err)
	}

	// 0x45 still fully configured
	if len(b.txs) != 6 {
		t.Fatalf("expected 6 transactions, got %d", len(b.txs))
	}

	ops := []string{}
	for _, res := range r.got {
		if res.Addr != 0x44 {
			t.Fatalf("unexpected report for %s", res.Addr)
		}
		if !errors.Is(res.Err, node.ErrBusIO) || !errors.Is(res.Err, errWire) {
			t.Fatalf("unexpected error: %v", res.Err)
		}
		ops = append(ops, res.Op)
	}
	if !reflect.DeepEqual(ops, []string{OpStop, OpSetPeriod, OpGo}) {
		t.Fatalf("unexpected ops: %v", ops)
	}
}

func TestConfigure_VerifyMismatch(t *testing.T) {
	b := newRecBus()
	b.reply = 3 // nodes report a different period
	cfg := baseConfig()
	cfg.VerifyPeriod = true
	r := &results{}
	c := newWith(t, cfg, b, r, newClock())

	if err := c.Configure(); err != nil {
		t.Fatalf("Configure() err=%v", err)
	}
	if len(r.got) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(r.got))
	}
	for _, res := range r.got {
		if res.Op != OpVerify || !errors.Is(res.Err, ErrPeriodMismatch) {
			t.Fatalf("unexpected report: %+v", res)
		}
	}
	// verification happens before nodes are started
	if last := b.txs[len(b.txs)-1]; last.b != 0xA2 {
		t.Fatalf("go must come last, got %v", last)
	}
}

func TestConfigure_UninitializedBusIsFatal(t *testing.T) {
	c, err := New(baseConfig(), openWith(nil), nil)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if err := c.Configure(); !errors.Is(err, node.ErrUninitializedBus) {
		t.Fatalf("expected ErrUninitializedBus, got %v", err)
	}
}

func TestPollOnce_NodeIsolation(t *testing.T) {
	clk := newClock()
	b := sim.New(sim.WithClock(clk.now))
	b.Attach(0x44, regmap.RoleClimate)
	b.Attach(0x45, regmap.RoleSound)

	r := &results{}
	c := newWith(t, baseConfig(), b, r, clk)
	if err := c.Configure(); err != nil {
		t.Fatalf("Configure() err=%v", err)
	}
	clk.sleep(15 * time.Second)

	b.Fail(0x44, errWire)

	res, err := c.PollOnce()
	if err != nil {
		t.Fatalf("PollOnce() err=%v", err)
	}
	if len(res) != 2 || len(r.got) != 2 {
		t.Fatalf("expected 2 results and reports, got %d / %d", len(res), len(r.got))
	}

	if res[0].Addr != 0x44 || !errors.Is(res[0].Err, node.ErrBusIO) || res[0].Reading != nil {
		t.Fatalf("0x44: %+v", res[0])
	}
	if res[1].Addr != 0x45 || res[1].Err != nil || res[1].Reading == nil {
		t.Fatalf("0x45: %+v", res[1])
	}
	if _, ok := res[1].Reading.Values.(Sound); !ok {
		t.Fatalf("0x45: expected Sound values, got %T", res[1].Reading.Values)
	}
	if res[1].Reading.SampleNumber != 2 {
		t.Fatalf("0x45: expected sample 2, got %d", res[1].Reading.SampleNumber)
	}
}

func TestPollOnce_ReadOrder(t *testing.T) {
	b := newRecBus()
	cfg := baseConfig()
	cfg.Nodes = cfg.Nodes[:1]
	c := newWith(t, cfg, b, nil, newClock())

	if _, err := c.PollOnce(); err != nil {
		t.Fatalf("PollOnce() err=%v", err)
	}

	var selects []byte
	for _, tx := range b.txs {
		if tx.kind == "send" {
			selects = append(selects, tx.b)
		}
	}
	want := []byte{6, 5, 4, 3, 10, 9, 8, 7, 2, 1}
	if !reflect.DeepEqual(selects, want) {
		t.Fatalf("unexpected select order: %v", selects)
	}
	if b.count("recv") != 10 {
		t.Fatalf("expected 10 reads, got %d", b.count("recv"))
	}
}

func TestStopAll_Summarizes(t *testing.T) {
	b := newRecBus()
	b.fail[0x44] = errWire
	b.fail[0x45] = errWire
	r := &results{}
	c := newWith(t, baseConfig(), b, r, newClock())

	err := c.stopAll()
	if err == nil {
		t.Fatalf("expected error")
	}
	if n := strings.Count(err.Error(), " | "); n != 1 {
		t.Fatalf("expected 2 joined errors, got %q", err)
	}
	if len(r.got) != 2 || len(b.txs) != 2 {
		t.Fatalf("expected 2 reports and 2 transactions, got %d / %d", len(r.got), len(b.txs))
	}
}
