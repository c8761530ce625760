package asm

import "fmt"

// Symbol table bounds.
const (
	MaxLabels    = 256
	MaxNameChars = 63
)

// Symbol is a single label-to-address binding.
type Symbol struct {
	Name    string
	Address uint16
}

// SymbolTable is a bounded, single-pass mapping from label name to a
// 16-bit address. Names are compared byte-wise after uppercasing.
// Lookup does not depend on insertion order, though Names reports names
// in definition order; a name's address never changes once it has been
// defined (redefinition is a Duplicate error).
type SymbolTable struct {
	symbols map[string]uint16
	order   []string
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]uint16, MaxLabels)}
}

// Define records name at address. It fails if the table is at capacity,
// the name is too long, or the name is already defined.
func (t *SymbolTable) Define(name string, address uint16) error {
	if len(name) > MaxNameChars {
		return fmt.Errorf("label %q exceeds %d characters", name, MaxNameChars)
	}
	if _, exists := t.symbols[name]; exists {
		return fmt.Errorf("duplicate label %q", name)
	}
	if len(t.symbols) >= MaxLabels {
		return fmt.Errorf("symbol table full (max %d labels)", MaxLabels)
	}
	t.symbols[name] = address
	t.order = append(t.order, name)
	return nil
}

// Lookup returns the address bound to name, if any.
func (t *SymbolTable) Lookup(name string) (uint16, bool) {
	addr, ok := t.symbols[name]
	return addr, ok
}

// Names returns defined label names in definition order, for tooling
// (the linter, the debugger's symbol resolver) that wants a stable walk
// order rather than map iteration order.
func (t *SymbolTable) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len reports how many labels are currently defined.
func (t *SymbolTable) Len() int {
	return len(t.symbols)
}
