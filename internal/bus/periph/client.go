// internal/bus/periph/client.go
package periph

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/tamzrod/i2c-coordinator/internal/node"
)

// Client implements node.Bus on top of a periph.io I2C bus.
// Each node.Bus call maps to exactly one i2c Tx.
type Client struct {
	bus    i2c.Bus
	closer func() error
}

// Config is minimal bus config.
type Config struct {
	Name string // registry name, "" = first available bus
}

// New initializes host drivers and opens the named bus.
func New(cfg Config) (*Client, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph: host init: %w", err)
	}

	b, err := i2creg.Open(cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("periph: open bus %q: %w", cfg.Name, err)
	}
	return &Client{bus: b, closer: b.Close}, nil
}

// Wrap adapts an already opened bus. The caller keeps ownership.
func Wrap(b i2c.Bus) *Client {
	return &Client{bus: b}
}

// Close releases the bus if this client opened it.
func (c *Client) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer()
}

// ---- node.Bus interface ----

func (c *Client) SendByte(addr node.Addr, v uint8) error {
	d, err := c.dev(addr)
	if err != nil {
		return err
	}
	return d.Tx([]byte{v}, nil)
}

func (c *Client) ReceiveByte(addr node.Addr) (uint8, error) {
	d, err := c.dev(addr)
	if err != nil {
		return 0, err
	}
	var b [1]byte
	if err := d.Tx(nil, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Client) WriteBlock(addr node.Addr, cmd uint8, payload []byte) error {
	d, err := c.dev(addr)
	if err != nil {
		return err
	}
	w := make([]byte, 0, 1+len(payload))
	w = append(w, cmd)
	w = append(w, payload...)
	return d.Tx(w, nil)
}

func (c *Client) dev(addr node.Addr) (*i2c.Dev, error) {
	if c == nil || c.bus == nil {
		return nil, errors.New("periph: bus not open")
	}
	return &i2c.Dev{Bus: c.bus, Addr: uint16(addr)}, nil
}
