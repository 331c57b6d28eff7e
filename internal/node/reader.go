// internal/node/reader.go
package node

import (
	"github.com/tamzrod/i2c-coordinator/internal/codec"
	"github.com/tamzrod/i2c-coordinator/internal/regmap"
)

// Operation names used in errors and reports.
const (
	OpReadSampleNumber   = "read_sample_number"
	OpReadTemperature    = "read_temperature"
	OpReadHumidity       = "read_humidity"
	OpReadLeq            = "read_leq"
	OpReadSamplingPeriod = "read_sampling_period"
)

// ReadSampleNumber returns the number of samples taken since node power-up.
func ReadSampleNumber(bus Bus, addr Addr) (uint16, error) {
	raw, err := readField(OpReadSampleNumber, bus, addr, regmap.SampleCount)
	if err != nil {
		return 0, err
	}
	v, err := codec.Uint16(raw)
	if err != nil {
		return 0, &OpError{Op: OpReadSampleNumber, Addr: addr, Kind: ErrFormat, Err: err}
	}
	return v, nil
}

// ReadTemperature returns the node temperature.
func ReadTemperature(bus Bus, addr Addr) (float32, error) {
	return readFloat(OpReadTemperature, bus, addr, regmap.Temperature)
}

// ReadHumidity returns the node relative humidity.
func ReadHumidity(bus Bus, addr Addr) (float32, error) {
	return readFloat(OpReadHumidity, bus, addr, regmap.Humidity)
}

// ReadLeq returns the node equivalent continuous sound level.
func ReadLeq(bus Bus, addr Addr) (float32, error) {
	return readFloat(OpReadLeq, bus, addr, regmap.Leq)
}

// ReadSamplingPeriod returns the period currently programmed on the node.
func ReadSamplingPeriod(bus Bus, addr Addr) (uint8, error) {
	if err := check(OpReadSamplingPeriod, bus, addr); err != nil {
		return 0, err
	}
	return readRegister(OpReadSamplingPeriod, bus, addr, regmap.SamplingPeriod)
}

func readFloat(op string, bus Bus, addr Addr, f regmap.Field) (float32, error) {
	raw, err := readField(op, bus, addr, f)
	if err != nil {
		return 0, err
	}
	v, err := codec.Float32(raw)
	if err != nil {
		return 0, &OpError{Op: op, Addr: addr, Kind: ErrFormat, Err: err}
	}
	return v, nil
}

// readField fetches a multi-byte value one register at a time.
//
// Registers are selected from the most significant slot down to the least
// significant one, while the buffer keeps index 0 = LSB. The node has no
// auto-increment, so every byte costs a select write plus a one-byte read.
// All-or-nothing: any failure discards the bytes already read.
func readField(op string, bus Bus, addr Addr, f regmap.Field) ([]byte, error) {
	if err := check(op, bus, addr); err != nil {
		return nil, err
	}

	buf := make([]byte, f.Width())
	for i := len(f.Registers) - 1; i >= 0; i-- {
		b, err := readRegister(op, bus, addr, f.Registers[i])
		if err != nil {
			return nil, err
		}
		buf[i] = b
	}
	return buf, nil
}

func readRegister(op string, bus Bus, addr Addr, reg regmap.Register) (uint8, error) {
	if err := bus.SendByte(addr, uint8(reg)); err != nil {
		return 0, ioError(op, addr, err)
	}
	b, err := bus.ReceiveByte(addr)
	if err != nil {
		return 0, ioError(op, addr, err)
	}
	return b, nil
}
