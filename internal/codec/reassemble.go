// internal/codec/reassemble.go
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrFormat reports a byte buffer that cannot be turned into the requested value.
var ErrFormat = errors.New("format error")

// Uint16 reassembles a little-endian 16-bit unsigned integer.
// b[0] is the least significant byte. No IO. No side effects.
func Uint16(b []byte) (uint16, error) {
	if len(b) != 2 {
		return 0, fmt.Errorf("%w: uint16 needs 2 bytes, got %d", ErrFormat, len(b))
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Float32 reassembles a little-endian IEEE-754 binary32 value.
// Every 32-bit pattern is a valid float32 (NaN payloads included),
// so only the buffer width can fail.
func Float32(b []byte) (float32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("%w: float32 needs 4 bytes, got %d", ErrFormat, len(b))
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// PutUint16 encodes v little-endian into a fresh 2-byte buffer.
func PutUint16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

// PutFloat32 encodes v little-endian into a fresh 4-byte buffer.
func PutFloat32(v float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	return b
}
