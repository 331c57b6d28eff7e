// internal/bus/smbus/client.go
package smbus

import (
	"errors"
	"fmt"

	"github.com/go-daq/smbus"

	"github.com/tamzrod/i2c-coordinator/internal/node"
)

// Client implements node.Bus on a Linux i2c-dev adapter.
// Every method targets the slave address explicitly; the kernel handle
// is retargeted only when the address changes.
type Client struct {
	conn *smbus.Conn
	addr node.Addr
	set  bool
}

// Config is minimal adapter config.
type Config struct {
	Number int // /dev/i2c-<Number>
}

// New opens the adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Number < 0 {
		return nil, fmt.Errorf("smbus: invalid bus number %d", cfg.Number)
	}

	conn, err := smbus.Open(cfg.Number, 0)
	if err != nil {
		return nil, fmt.Errorf("smbus: open /dev/i2c-%d: %w", cfg.Number, err)
	}
	return &Client{conn: conn}, nil
}

// Close releases the adapter.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// ---- node.Bus interface ----

func (c *Client) SendByte(addr node.Addr, v uint8) error {
	if err := c.target(addr); err != nil {
		return err
	}
	_, err := c.conn.WriteByte(v)
	return err
}

func (c *Client) ReceiveByte(addr node.Addr) (uint8, error) {
	if err := c.target(addr); err != nil {
		return 0, err
	}
	var b [1]byte
	n, err := c.conn.Read(b[:])
	if err != nil {
		return 0, err
	}
	if n != 1 {
		return 0, fmt.Errorf("smbus: short read (%d bytes)", n)
	}
	return b[0], nil
}

// WriteBlock sends cmd followed by payload as a plain I2C write.
// On the wire a one-byte payload is identical to SMBus "write byte data".
func (c *Client) WriteBlock(addr node.Addr, cmd uint8, payload []byte) error {
	switch len(payload) {
	case 0:
		return c.SendByte(addr, cmd)
	case 1:
		if err := c.target(addr); err != nil {
			return err
		}
		return c.conn.WriteReg(uint8(addr), cmd, payload[0])
	default:
		return fmt.Errorf("smbus: %d-byte payload not supported", len(payload))
	}
}

// ---- helpers ----

var errNotOpen = errors.New("smbus: not open")

func (c *Client) target(addr node.Addr) error {
	if c == nil || c.conn == nil {
		return errNotOpen
	}
	if c.set && c.addr == addr {
		return nil
	}
	if err := c.conn.SetAddr(uint8(addr)); err != nil {
		return err
	}
	c.addr, c.set = addr, true
	return nil
}
