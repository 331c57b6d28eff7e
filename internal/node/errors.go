// internal/node/errors.go
package node

import (
	"errors"
	"fmt"

	"github.com/tamzrod/i2c-coordinator/internal/codec"
)

var (
	// ErrInvalidAddress is a local precondition failure. No bus traffic happened.
	ErrInvalidAddress = errors.New("invalid node address")

	// ErrUninitializedBus is a local precondition failure. No bus traffic happened.
	ErrUninitializedBus = errors.New("bus not initialized")

	// ErrBusIO wraps any transport failure.
	ErrBusIO = errors.New("bus i/o error")

	// ErrFormat is a byte reassembly failure.
	ErrFormat = codec.ErrFormat
)

// Error codes exposed through OpError.Code.
const (
	CodeGeneric          uint16 = 1
	CodeInvalidAddress   uint16 = 2
	CodeUninitializedBus uint16 = 3
	CodeBusIO            uint16 = 4
	CodeFormat           uint16 = 5
)

// OpError describes a failed node operation.
// Kind is one of the sentinels above; Err is the underlying cause (may be nil).
type OpError struct {
	Op   string
	Addr Addr
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s node=%s: %v", e.Op, e.Addr, e.Kind)
	}
	return fmt.Sprintf("%s node=%s: %v: %v", e.Op, e.Addr, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Code maps the error kind to a stable numeric code.
func (e *OpError) Code() uint16 {
	switch e.Kind {
	case ErrInvalidAddress:
		return CodeInvalidAddress
	case ErrUninitializedBus:
		return CodeUninitializedBus
	case ErrBusIO:
		return CodeBusIO
	case ErrFormat:
		return CodeFormat
	default:
		return CodeGeneric
	}
}

// check validates the shared preconditions before any transaction.
func check(op string, bus Bus, addr Addr) error {
	if bus == nil {
		return &OpError{Op: op, Addr: addr, Kind: ErrUninitializedBus}
	}
	if !addr.Valid() {
		return &OpError{
			Op:   op,
			Addr: addr,
			Kind: ErrInvalidAddress,
			Err:  fmt.Errorf("address %d outside [0,127]", int(addr)),
		}
	}
	return nil
}

func ioError(op string, addr Addr, err error) error {
	return &OpError{Op: op, Addr: addr, Kind: ErrBusIO, Err: err}
}
