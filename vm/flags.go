package vm

import "github.com/simplecpu/simplecpu/isa"

// Flag calculation helpers for SimpleCPU's Z/C/N/O flags. All arithmetic
// happens modulo 2^16; these helpers do the wide-integer computation
// needed to derive carry and signed overflow.

func updateNZ(f *Flags, result uint16) {
	f.N = result&0x8000 != 0
	f.Z = result == 0
}

// execAddSub performs ADD/ADDI (sub=false) or SUB/SUBI (sub=true) on r,
// writes the result back, and sets Z, N, C, O from the full result.
func (c *CPU) execAddSub(sub bool, r int, a, b uint16) {
	var result uint16
	var carry, overflow bool

	if sub {
		result = a - b
		carry = a < b // borrow occurred
		overflow = (a^b)&(a^result)&0x8000 != 0
	} else {
		wide := uint32(a) + uint32(b)
		result = uint16(wide)
		carry = wide > 0xFFFF
		overflow = (a^result)&(b^result)&0x8000 != 0
	}

	updateNZ(&c.Flags, result)
	c.Flags.C = carry
	c.Flags.O = overflow
	c.SetReg(r, result)
}

// execCmp performs the SUB computation for flags only, per CMP/CMPI: no
// register is written.
func (c *CPU) execCmp(a, b uint16) {
	result := a - b
	updateNZ(&c.Flags, result)
	c.Flags.C = a < b
	c.Flags.O = (a^b)&(a^result)&0x8000 != 0
}

// execMul performs MUL: Z/N from the low 16 bits of the product, C from
// the product exceeding 16 bits, O always false.
func (c *CPU) execMul(r int, a, b uint16) {
	product := uint32(a) * uint32(b)
	result := uint16(product)
	updateNZ(&c.Flags, result)
	c.Flags.C = product > 0xFFFF
	c.Flags.O = false
	c.SetReg(r, result)
}

// execDiv performs DIV: r1 <- r1/r2, r2 <- r1 mod r2 (using the
// pre-division values of both), Z/N from the quotient, C and O cleared.
// The caller has already checked r2 != 0.
func (c *CPU) execDiv(r1, r2 int) {
	a, b := c.Reg(r1), c.Reg(r2)
	quotient, remainder := a/b, a%b
	updateNZ(&c.Flags, quotient)
	c.Flags.C = false
	c.Flags.O = false
	c.SetReg(r1, quotient)
	c.SetReg(r2, remainder)
}

// execIncDec performs INC/DEC: Z/N from the new value, C and O cleared
// (neither carry nor overflow is derived for a single-operand step).
func (c *CPU) execIncDec(dec bool, r int) {
	v := c.Reg(r)
	if dec {
		v--
	} else {
		v++
	}
	updateNZ(&c.Flags, v)
	c.Flags.C = false
	c.Flags.O = false
	c.SetReg(r, v)
}

// execLogic performs AND/OR/XOR: Z/N from the result, C and O cleared.
func (c *CPU) execLogic(op isa.Opcode, r1 int, a, b uint16) {
	var result uint16
	switch op {
	case isa.OpAND:
		result = a & b
	case isa.OpOR:
		result = a | b
	case isa.OpXOR:
		result = a ^ b
	}
	updateNZ(&c.Flags, result)
	c.Flags.C = false
	c.Flags.O = false
	c.SetReg(r1, result)
}

// execNot performs bitwise NOT on a single register.
func (c *CPU) execNot(r int) {
	result := ^c.Reg(r)
	updateNZ(&c.Flags, result)
	c.Flags.C = false
	c.Flags.O = false
	c.SetReg(r, result)
}

// execShift performs SHL/SHR: Z/N from the result, O always false, C is
// the last bit shifted off (clear if shift == 0).
func (c *CPU) execShift(right bool, r int, shift byte) {
	v := c.Reg(r)
	var result uint16
	var carry bool

	switch {
	case shift == 0:
		result = v
		carry = false
	case right:
		result = v >> shift
		if shift <= 16 {
			carry = (v>>(shift-1))&1 != 0
		}
	default: // left
		result = v << shift
		if shift <= 16 {
			carry = (v>>(16-shift))&1 != 0
		}
	}

	updateNZ(&c.Flags, result)
	c.Flags.C = carry
	c.Flags.O = false
	c.SetReg(r, result)
}
