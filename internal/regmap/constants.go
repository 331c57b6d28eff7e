// internal/regmap/constants.go
package regmap

// Node register map and command opcodes.
// These values are fixed by the node firmware and MUST NOT be configurable.

// ---- ADDRESS SPACE ----

// MinAddr and MaxAddr bound the 7-bit I2C address space.
const (
	MinAddr = 0
	MaxAddr = 127
)

// ---- OPCODES ----

// Opcode is a single command byte understood by a node.
type Opcode uint8

const (
	// CmdSetSamplingPeriod is followed by a one-byte period payload.
	CmdSetSamplingPeriod Opcode = 0xA0

	// CmdStop halts sampling on the node.
	CmdStop Opcode = 0xA1

	// CmdGo starts or resumes sampling on the node.
	CmdGo Opcode = 0xA2
)

func (o Opcode) String() string {
	switch o {
	case CmdSetSamplingPeriod:
		return "set_sampling_period"
	case CmdStop:
		return "stop"
	case CmdGo:
		return "go"
	default:
		return "unknown"
	}
}

// ---- REGISTERS ----

// Register is a byte offset inside a node's register map.
type Register uint8

// SamplingPeriod holds the node sampling period (1 byte).
const SamplingPeriod Register = 0

// Sample count since node power-up (uint16).
const (
	SampleCountLSB Register = 1
	SampleCountMSB Register = 2
)

// Temperature (float32), climate nodes.
const (
	TemperatureLSB0 Register = 3
	TemperatureLSB1 Register = 4
	TemperatureMSB0 Register = 5
	TemperatureMSB1 Register = 6
)

// Humidity (float32), climate nodes.
const (
	HumidityLSB0 Register = 7
	HumidityLSB1 Register = 8
	HumidityMSB0 Register = 9
	HumidityMSB1 Register = 10
)

// Leq (float32), sound nodes. Shares the first float slot with temperature.
const (
	LeqLSB0 Register = 3
	LeqLSB1 Register = 4
	LeqMSB0 Register = 5
	LeqMSB1 Register = 6
)

// RegisterCount is the size of the largest node register map.
const RegisterCount = 11
