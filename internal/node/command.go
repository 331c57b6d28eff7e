// internal/node/command.go
package node

import "github.com/tamzrod/i2c-coordinator/internal/regmap"

// Operation names used in errors and reports.
const (
	OpSendStop           = "send_stop"
	OpSendGo             = "send_go"
	OpSendSamplingPeriod = "send_sampling_period"
)

// SendStop asks the node to halt sampling.
// One transaction. No retries.
func SendStop(bus Bus, addr Addr) error {
	return sendOpcode(OpSendStop, bus, addr, regmap.CmdStop)
}

// SendGo asks the node to start or resume sampling.
func SendGo(bus Bus, addr Addr) error {
	return sendOpcode(OpSendGo, bus, addr, regmap.CmdGo)
}

// SendSamplingPeriod programs a new node sampling period.
// Opcode and payload travel together as one block write.
func SendSamplingPeriod(bus Bus, addr Addr, period uint8) error {
	if err := check(OpSendSamplingPeriod, bus, addr); err != nil {
		return err
	}
	if err := bus.WriteBlock(addr, uint8(regmap.CmdSetSamplingPeriod), []byte{period}); err != nil {
		return ioError(OpSendSamplingPeriod, addr, err)
	}
	return nil
}

func sendOpcode(op string, bus Bus, addr Addr, cmd regmap.Opcode) error {
	if err := check(op, bus, addr); err != nil {
		return err
	}
	if err := bus.SendByte(addr, uint8(cmd)); err != nil {
		return ioError(op, addr, err)
	}
	return nil
}
