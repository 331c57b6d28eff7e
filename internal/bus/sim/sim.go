// internal/bus/sim/sim.go
package sim

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/tamzrod/i2c-coordinator/internal/codec"
	"github.com/tamzrod/i2c-coordinator/internal/node"
	"github.com/tamzrod/i2c-coordinator/internal/regmap"
)

// ErrNoDevice is returned for addresses nobody answers (address NACK).
var ErrNoDevice = errors.New("sim: no device at address")

// Values produces the measurements a node publishes for sample n.
type Values func(addr node.Addr, role regmap.Role, n uint16) map[string]float32

// Bus is an in-process bus with simulated sensor nodes.
// Nodes sample lazily: elapsed time is converted to samples on each access.
type Bus struct {
	mu     sync.Mutex
	nodes  map[node.Addr]*device
	now    func() time.Time
	values Values
}

type device struct {
	addr     node.Addr
	role     regmap.Role
	regs     [regmap.RegisterCount]byte
	selected uint8
	running  bool
	period   time.Duration
	last     time.Time
	count    uint16
	fault    error
}

// Option configures a Bus.
type Option func(*Bus)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) { b.now = now }
}

// WithValues replaces the default measurement generator.
func WithValues(v Values) Option {
	return func(b *Bus) { b.values = v }
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		nodes:  make(map[node.Addr]*device),
		now:    time.Now,
		values: Wave,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Attach adds a stopped node. Re-attaching resets it.
func (b *Bus) Attach(addr node.Addr, role regmap.Role) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nodes[addr] = &device{addr: addr, role: role}
}

// Fail makes every transaction to addr fail with err (nil clears).
func (b *Bus) Fail(addr node.Addr, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d, ok := b.nodes[addr]; ok {
		d.fault = err
	}
}

// State reports a node's sampling state.
func (b *Bus) State(addr node.Addr) (running bool, period uint8, count uint16, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.nodes[addr]
	if !ok {
		return false, 0, 0, false
	}
	b.advance(d)
	return d.running, d.regs[regmap.SamplingPeriod], d.count, true
}

// Close is a no-op.
func (b *Bus) Close() error { return nil }

// ---- node.Bus interface ----

func (b *Bus) SendByte(addr node.Addr, v uint8) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	d, err := b.device(addr)
	if err != nil {
		return err
	}

	switch regmap.Opcode(v) {
	case regmap.CmdStop:
		d.running = false
	case regmap.CmdGo:
		if !d.running {
			d.running = true
			d.last = b.now()
		}
	default:
		// register select; out of range selects read as 0xFF
		d.selected = v
	}
	return nil
}

func (b *Bus) ReceiveByte(addr node.Addr) (uint8, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	d, err := b.device(addr)
	if err != nil {
		return 0, err
	}
	if int(d.selected) >= len(d.regs) {
		return 0xFF, nil
	}
	return d.regs[d.selected], nil
}

func (b *Bus) WriteBlock(addr node.Addr, cmd uint8, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	d, err := b.device(addr)
	if err != nil {
		return err
	}
	if regmap.Opcode(cmd) != regmap.CmdSetSamplingPeriod || len(payload) != 1 {
		return fmt.Errorf("sim: node %s: unsupported block command 0x%02x/%d", addr, cmd, len(payload))
	}
	d.regs[regmap.SamplingPeriod] = payload[0]
	d.period = time.Duration(payload[0]) * time.Second
	d.last = b.now()
	return nil
}

// ---- internals ----

func (b *Bus) device(addr node.Addr) (*device, error) {
	d, ok := b.nodes[addr]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoDevice, addr)
	}
	if d.fault != nil {
		return nil, d.fault
	}
	b.advance(d)
	return d, nil
}

// advance converts elapsed running time into samples.
func (b *Bus) advance(d *device) {
	if !d.running || d.period <= 0 {
		return
	}
	now := b.now()
	n := now.Sub(d.last) / d.period
	if n <= 0 {
		return
	}
	d.last = d.last.Add(n * d.period)
	d.count += uint16(n)
	b.publish(d)
}

func (b *Bus) publish(d *device) {
	copy(d.regs[regmap.SampleCountLSB:], codec.PutUint16(d.count))

	vals := b.values(d.addr, d.role, d.count)
	for _, f := range d.role.Fields() {
		v, ok := vals[f.Name]
		if !ok {
			continue
		}
		raw := codec.PutFloat32(v)
		for i, r := range f.Registers {
			d.regs[r] = raw[i]
		}
	}
}

// Wave is the default generator: slow sine waves around plausible values.
func Wave(addr node.Addr, role regmap.Role, n uint16) map[string]float32 {
	phase := float64(n)/10 + float64(addr)
	switch role {
	case regmap.RoleClimate:
		return map[string]float32{
			regmap.Temperature.Name: float32(22 + 2*math.Sin(phase)),
			regmap.Humidity.Name:    float32(45 + 10*math.Cos(phase)),
		}
	case regmap.RoleSound:
		return map[string]float32{
			regmap.Leq.Name: float32(55 + 8*math.Sin(phase)),
		}
	default:
		return nil
	}
}
