// internal/bus/buspirate/client.go
package buspirate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goburrow/serial"

	"github.com/tamzrod/i2c-coordinator/internal/node"
)

// Client implements node.Bus through a Bus Pirate in binary I2C mode.
// It is not safe for concurrent use.
type Client struct {
	port   io.ReadWriter
	closer io.Closer
}

// Config is minimal serial config.
type Config struct {
	Address  string
	BaudRate int
	Timeout  time.Duration
	SpeedKHz int
}

var (
	ErrNACK     = errors.New("buspirate: NACK")
	ErrProtocol = errors.New("buspirate: unexpected reply")
)

// ---- binary mode commands ----

const (
	cmdReset    = 0x00 // enter / stay in bitbang mode
	cmdI2CMode  = 0x02 // from bitbang mode
	cmdExit     = 0x0F // from bitbang mode, back to terminal
	cmdStart    = 0x02
	cmdStop     = 0x03
	cmdReadByte = 0x04
	cmdNACK     = 0x07
	cmdBulk     = 0x10 // | (n-1), n in 1..16
	cmdSpeed    = 0x60 // | speed index

	bulkMax    = 16
	resetTries = 20
	replyOK    = 0x01
	statusACK  = 0x00
	bbioBanner = "BBIO1"
	i2cBanner  = "I2C1"
)

var speeds = map[int]byte{5: 0, 50: 1, 100: 2, 400: 3}

// Open opens the serial port and puts the device in I2C mode.
func Open(cfg Config) (*Client, error) {
	port, err := serial.Open(&serial.Config{
		Address:  cfg.Address,
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("buspirate: open %s: %w", cfg.Address, err)
	}

	c, err := New(port, cfg.SpeedKHz)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	c.closer = port
	return c, nil
}

// New runs the binary mode handshake on an open port.
// The caller keeps ownership of port.
func New(port io.ReadWriter, speedKHz int) (*Client, error) {
	idx, ok := speeds[speedKHz]
	if !ok {
		return nil, fmt.Errorf("buspirate: unsupported speed %d kHz", speedKHz)
	}

	c := &Client{port: port}

	if err := c.enterBitbang(); err != nil {
		return nil, err
	}
	if err := c.expect([]byte{cmdI2CMode}, []byte(i2cBanner)); err != nil {
		return nil, fmt.Errorf("buspirate: enter i2c mode: %w", err)
	}
	if err := c.command(cmdSpeed | idx); err != nil {
		return nil, fmt.Errorf("buspirate: set speed: %w", err)
	}
	return c, nil
}

// Close returns the device to its terminal and closes the port if owned.
func (c *Client) Close() error {
	if c == nil || c.port == nil {
		return nil
	}
	// best effort: leave the device usable from a terminal
	_, _ = c.port.Write([]byte{cmdReset, cmdExit})

	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// ---- node.Bus interface ----

func (c *Client) SendByte(addr node.Addr, v uint8) error {
	return c.frame(func() error {
		return c.write([]byte{writeAddr(addr), v})
	})
}

func (c *Client) ReceiveByte(addr node.Addr) (uint8, error) {
	var out uint8
	err := c.frame(func() error {
		if err := c.write([]byte{readAddr(addr)}); err != nil {
			return err
		}
		b, err := c.readByte()
		if err != nil {
			return err
		}
		out = b
		// single byte read: NACK it to end the transfer
		return c.command(cmdNACK)
	})
	return out, err
}

func (c *Client) WriteBlock(addr node.Addr, cmd uint8, payload []byte) error {
	w := make([]byte, 0, 2+len(payload))
	w = append(w, writeAddr(addr), cmd)
	w = append(w, payload...)
	return c.frame(func() error {
		return c.write(w)
	})
}

// ---- transaction helpers ----

// frame wraps body in START / STOP. STOP is always attempted so the bus
// is released even after a NACK.
func (c *Client) frame(body func() error) error {
	if c == nil || c.port == nil {
		return errors.New("buspirate: not open")
	}
	if err := c.command(cmdStart); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	err := body()
	if serr := c.command(cmdStop); serr != nil && err == nil {
		err = fmt.Errorf("stop: %w", serr)
	}
	return err
}

// write sends w with bulk write commands of at most 16 bytes.
func (c *Client) write(w []byte) error {
	for len(w) > 0 {
		n := len(w)
		if n > bulkMax {
			n = bulkMax
		}
		if err := c.command(cmdBulk | byte(n-1)); err != nil {
			return fmt.Errorf("bulk write: %w", err)
		}
		if _, err := c.port.Write(w[:n]); err != nil {
			return err
		}
		status := make([]byte, n)
		if _, err := io.ReadFull(c.port, status); err != nil {
			return err
		}
		for i, s := range status {
			if s != statusACK {
				return fmt.Errorf("%w on byte 0x%02x", ErrNACK, w[i])
			}
		}
		w = w[n:]
	}
	return nil
}

func (c *Client) readByte() (byte, error) {
	if _, err := c.port.Write([]byte{cmdReadByte}); err != nil {
		return 0, err
	}
	var b [1]byte
	if _, err := io.ReadFull(c.port, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// command sends a one-byte command answered by 0x01.
func (c *Client) command(b byte) error {
	return c.expect([]byte{b}, []byte{replyOK})
}

func (c *Client) expect(w, want []byte) error {
	if _, err := c.port.Write(w); err != nil {
		return err
	}
	got := make([]byte, len(want))
	if _, err := io.ReadFull(c.port, got); err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%w: got % x want % x", ErrProtocol, got, want)
	}
	return nil
}

// enterBitbang sends 0x00 until the device answers BBIO1.
// A device still in terminal mode needs up to 20 of them.
func (c *Client) enterBitbang() error {
	var last error
	for i := 0; i < resetTries; i++ {
		err := c.expect([]byte{cmdReset}, []byte(bbioBanner))
		if err == nil {
			return nil
		}
		last = err
	}
	return fmt.Errorf("buspirate: enter binary mode: %w", last)
}

func writeAddr(a node.Addr) byte { return byte(a) << 1 }
func readAddr(a node.Addr) byte  { return byte(a)<<1 | 1 }
