package asm

import (
	"strings"

	"github.com/simplecpu/simplecpu/isa"
)

// Assembler performs one-pass translation of SimpleCPU source text into a
// flat byte image. It owns the output buffer and the symbol table; each
// Assemble call resets the buffer and starts a fresh table, and the
// table from the last call stays readable through Symbols.
//
// The one-pass design is an intentional limitation: a label is only
// visible to instructions on later lines. A branch to a label defined
// further down the file fails to resolve.
type Assembler struct {
	output  []byte
	symbols *SymbolTable
	line    int
}

// New returns a ready-to-use Assembler.
func New() *Assembler {
	return &Assembler{symbols: NewSymbolTable()}
}

// Symbols returns the label table built by the most recent Assemble
// call, for callers (the debugger's `break LABEL`/`mem LABEL`
// resolution) that want symbolic addresses after assembly succeeds.
func (a *Assembler) Symbols() *SymbolTable {
	return a.symbols
}

// Assemble translates source into a flat byte image. On any error, the
// first one aborts assembly; the partially accumulated output is
// discarded (the caller receives nil bytes).
func (a *Assembler) Assemble(source string) ([]byte, error) {
	a.output = a.output[:0]
	a.symbols = NewSymbolTable()

	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		a.line = i + 1
		if err := a.assembleLine(raw); err != nil {
			return nil, err
		}
	}
	return append([]byte(nil), a.output...), nil
}

// assembleLine strips comments and whitespace, splits off a label if
// present, tokenizes the remaining mnemonic and operands, and emits
// the encoded instruction.
func (a *Assembler) assembleLine(raw string) error {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimSpace(stripComment(trimmed))
	if trimmed == "" {
		return nil
	}

	instrText := trimmed
	if label, rest, hasLabel := splitLabel(trimmed); hasLabel {
		if err := a.defineLabel(label); err != nil {
			return a.err(raw, "%v", err)
		}
		instrText = rest
		if instrText == "" {
			return nil
		}
	}

	mnemonic, operandText := splitMnemonic(instrText)
	operands := splitOperands(operandText)
	for i, op := range operands {
		operands[i] = normalizeOperand(op)
	}

	return a.emit(raw, mnemonic, operands)
}

func (a *Assembler) defineLabel(name string) error {
	addr := isa.LoadAddress + uint16(len(a.output))
	return a.symbols.Define(name, addr)
}

func (a *Assembler) err(source, format string, args ...any) error {
	return newError(a.line, strings.TrimSpace(source), format, args...)
}

// outputLen reports the current output length, used both for label
// addresses and the 64 KiB overflow check.
func (a *Assembler) outputLen() int {
	return len(a.output)
}

// appendBytes writes b to the output, subject to the 64 KiB output cap;
// emission past the cap fails with an explicit error rather than
// silently truncating.
func (a *Assembler) appendBytes(b ...byte) error {
	if a.outputLen()+len(b) > isa.MaxOutputSize {
		return a.err("", "assembled output exceeds %d byte limit", isa.MaxOutputSize)
	}
	a.output = append(a.output, b...)
	return nil
}

func le16(v uint16) (lo, hi byte) {
	return byte(v), byte(v >> 8)
}
