package asm

import (
	"github.com/simplecpu/simplecpu/isa"
)

// emit encodes one instruction (mnemonic plus already-normalized operand
// tokens) and appends its bytes to the output. LOAD is special-cased
// because it is the one mnemonic that maps to two distinct opcodes; every
// other mnemonic is driven off isa.Table.
func (a *Assembler) emit(raw, mnemonic string, operands []string) error {
	if mnemonic == "LOAD" {
		return a.emitLoad(raw, operands)
	}

	m, ok := isa.Table[mnemonic]
	if !ok {
		return a.err(raw, "unknown mnemonic %q", mnemonic)
	}

	switch m.Form {
	case isa.FormNone:
		return a.expectOperands(raw, operands, 0, func() error {
			return a.appendBytes(byte(m.Op))
		})
	case isa.FormReg:
		return a.expectOperands(raw, operands, 1, func() error {
			r, err := a.reg(raw, operands[0])
			if err != nil {
				return err
			}
			return a.appendBytes(byte(m.Op), byte(r))
		})
	case isa.FormRegImm16:
		return a.expectOperands(raw, operands, 2, func() error {
			r, err := a.reg(raw, operands[0])
			if err != nil {
				return err
			}
			imm, err := a.immediate(raw, operands[1])
			if err != nil {
				return err
			}
			lo, hi := le16(imm)
			return a.appendBytes(byte(m.Op), byte(r), lo, hi)
		})
	case isa.FormAddrReg: // STORE [addr], r
		return a.expectOperands(raw, operands, 2, func() error {
			addr, ok := parseMemoryOperand(operands[0])
			if !ok {
				return a.err(raw, "%s requires a [addr] first operand", mnemonic)
			}
			r, err := a.reg(raw, operands[1])
			if err != nil {
				return err
			}
			lo, hi := le16(addr)
			return a.appendBytes(byte(m.Op), lo, hi, byte(r))
		})
	case isa.FormRegReg:
		return a.expectOperands(raw, operands, 2, func() error {
			r1, err := a.reg(raw, operands[0])
			if err != nil {
				return err
			}
			r2, err := a.reg(raw, operands[1])
			if err != nil {
				return err
			}
			return a.appendBytes(byte(m.Op), isa.Pack(r1, r2))
		})
	case isa.FormRegShift:
		return a.expectOperands(raw, operands, 2, func() error {
			r, err := a.reg(raw, operands[0])
			if err != nil {
				return err
			}
			shift, err := a.immediate(raw, operands[1])
			if err != nil {
				return err
			}
			return a.appendBytes(byte(m.Op), byte(r), byte(shift&0xFF))
		})
	case isa.FormAddr:
		return a.expectOperands(raw, operands, 1, func() error {
			addr, err := a.target(raw, operands[0])
			if err != nil {
				return err
			}
			lo, hi := le16(addr)
			return a.appendBytes(byte(m.Op), lo, hi)
		})
	case isa.FormRegPort:
		return a.expectOperands(raw, operands, 2, func() error {
			r, err := a.reg(raw, operands[0])
			if err != nil {
				return err
			}
			port, err := a.immediate(raw, operands[1])
			if err != nil {
				return err
			}
			lo, hi := le16(port)
			return a.appendBytes(byte(m.Op), byte(r), lo, hi)
		})
	case isa.FormPortReg:
		return a.expectOperands(raw, operands, 2, func() error {
			port, err := a.immediate(raw, operands[0])
			if err != nil {
				return err
			}
			r, err := a.reg(raw, operands[1])
			if err != nil {
				return err
			}
			lo, hi := le16(port)
			return a.appendBytes(byte(m.Op), lo, hi, byte(r))
		})
	default:
		return a.err(raw, "internal: unhandled operand form for %q", mnemonic)
	}
}

// emitLoad distinguishes LOAD r, imm16 (opcode 0x01) from LOAD r, [addr]
// (opcode 0x02) by whether the second operand uses bracket syntax.
func (a *Assembler) emitLoad(raw string, operands []string) error {
	return a.expectOperands(raw, operands, 2, func() error {
		r, err := a.reg(raw, operands[0])
		if err != nil {
			return err
		}
		if addr, ok := parseMemoryOperand(operands[1]); ok {
			lo, hi := le16(addr)
			return a.appendBytes(byte(isa.OpLOADM), byte(r), lo, hi)
		}
		imm, err := a.immediate(raw, operands[1])
		if err != nil {
			return err
		}
		lo, hi := le16(imm)
		return a.appendBytes(byte(isa.OpLOAD), byte(r), lo, hi)
	})
}

func (a *Assembler) expectOperands(raw string, operands []string, n int, fn func() error) error {
	if len(operands) != n {
		return a.err(raw, "expected %d operand(s), got %d", n, len(operands))
	}
	return fn()
}

func (a *Assembler) reg(raw, tok string) (int, error) {
	r, ok := isRegister(tok)
	if !ok {
		return 0, a.err(raw, "invalid register %q", tok)
	}
	return r, nil
}

func (a *Assembler) immediate(raw, tok string) (uint16, error) {
	v, ok := parseNumber(tok)
	if !ok {
		return 0, a.err(raw, "invalid numeric literal %q", tok)
	}
	return v, nil
}

// target resolves a branch/call operand: a numeric literal is used
// as-is, otherwise tok is looked up as a label defined earlier in the
// file. An unresolved symbol is fatal.
func (a *Assembler) target(raw, tok string) (uint16, error) {
	if v, ok := parseNumber(tok); ok {
		return v, nil
	}
	if addr, ok := a.symbols.Lookup(tok); ok {
		return addr, nil
	}
	return 0, a.err(raw, "undefined label %q", tok)
}
