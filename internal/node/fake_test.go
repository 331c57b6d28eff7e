// internal/node/fake_test.go
package node

import (
	"errors"
	"fmt"
)

// ---- fake bus ----

type txKind int

const (
	txSend txKind = iota
	txReceive
	txBlock
)

type tx struct {
	kind    txKind
	addr    Addr
	value   uint8 // sent byte or block command
	payload []byte
}

// fakeBus emulates a node register map and records every transaction.
type fakeBus struct {
	regs     map[Addr][]byte
	selected map[Addr]uint8
	txs      []tx

	failAt int // 1-based transaction index that fails; 0 = never
}

var errWire = errors.New("wire fault")

func newFakeBus() *fakeBus {
	return &fakeBus{
		regs:     map[Addr][]byte{},
		selected: map[Addr]uint8{},
	}
}

func (f *fakeBus) setRegs(addr Addr, values map[uint8]byte) {
	m := make([]byte, 16)
	for r, v := range values {
		m[r] = v
	}
	f.regs[addr] = m
}

func (f *fakeBus) record(t tx) error {
	f.txs = append(f.txs, t)
	if f.failAt > 0 && len(f.txs) == f.failAt {
		return fmt.Errorf("tx %d: %w", f.failAt, errWire)
	}
	return nil
}

func (f *fakeBus) SendByte(addr Addr, v uint8) error {
	if err := f.record(tx{kind: txSend, addr: addr, value: v}); err != nil {
		return err
	}
	f.selected[addr] = v
	return nil
}

func (f *fakeBus) ReceiveByte(addr Addr) (uint8, error) {
	if err := f.record(tx{kind: txReceive, addr: addr}); err != nil {
		return 0, err
	}
	m := f.regs[addr]
	r := f.selected[addr]
	if int(r) >= len(m) {
		return 0, nil
	}
	return m[r], nil
}

func (f *fakeBus) WriteBlock(addr Addr, cmd uint8, payload []byte) error {
	cp := append([]byte(nil), payload...)
	return f.record(tx{kind: txBlock, addr: addr, value: cmd, payload: cp})
}

// selects returns the register offsets selected, in order.
func (f *fakeBus) selects() []uint8 {
	var out []uint8
	for _, t := range f.txs {
		if t.kind == txSend {
			out = append(out, t.value)
		}
	}
	return out
}
