// internal/node/bus.go
package node

import (
	"fmt"

	"github.com/tamzrod/i2c-coordinator/internal/regmap"
)

// Addr is a node address on the bus.
// It is a plain int so that out-of-range values can be represented and rejected.
type Addr int

// Valid reports whether a lies in the 7-bit address space.
func (a Addr) Valid() bool {
	return a >= regmap.MinAddr && a <= regmap.MaxAddr
}

func (a Addr) String() string {
	return fmt.Sprintf("0x%02x", int(a))
}

// Bus is the transport capability the node protocol needs.
// Each method is exactly one bus transaction.
// Implementations own timeouts; the protocol layer defines none.
type Bus interface {
	// SendByte writes one byte to the node (SMBus "send byte").
	SendByte(addr Addr, v uint8) error

	// ReceiveByte reads one byte from the node (SMBus "receive byte").
	ReceiveByte(addr Addr) (uint8, error)

	// WriteBlock writes cmd followed by payload in one transaction.
	WriteBlock(addr Addr, cmd uint8, payload []byte) error
}
