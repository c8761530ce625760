package asm

import (
	"strconv"
	"strings"

	"github.com/simplecpu/simplecpu/isa"
)

// stripComment truncates s at the first ';' or '#', whichever comes
// first. Either character starts a comment that runs to end of line.
func stripComment(s string) string {
	if i := strings.IndexAny(s, ";#"); i >= 0 {
		return s[:i]
	}
	return s
}

// splitLabel splits a line at its first ':'. ok is false if there is no
// colon. The label text is trimmed and uppercased; the remainder is
// trimmed but left as-is for the caller to tokenize further.
func splitLabel(line string) (label, rest string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", line, false
	}
	label = strings.ToUpper(strings.TrimSpace(line[:i]))
	rest = strings.TrimSpace(line[i+1:])
	return label, rest, true
}

// splitMnemonic splits the instruction text at the first ASCII space into
// an uppercased mnemonic and the operand text, trimmed but otherwise
// untouched.
func splitMnemonic(s string) (mnemonic, operands string) {
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return strings.ToUpper(s), ""
	}
	return strings.ToUpper(s[:i]), strings.TrimSpace(s[i+1:])
}

// splitOperands splits an operand string at its first comma into at most
// two trimmed operand tokens. A string with no comma yields a single
// operand.
func splitOperands(s string) []string {
	if s == "" {
		return nil
	}
	i := strings.IndexByte(s, ',')
	if i < 0 {
		return []string{strings.TrimSpace(s)}
	}
	return []string{strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])}
}

// normalizeOperand uppercases operand text except when its first character
// is '0' (a numeric literal, possibly hex) or '[' (a memory/port form),
// leaving those untouched.
func normalizeOperand(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '0', '[':
		return s
	default:
		return strings.ToUpper(s)
	}
}

// parseNumber parses a decimal or 0x/0X-prefixed hexadecimal literal.
// Parsing fails if any non-whitespace trails the digits. Values that
// overflow 16 bits wrap (the literal is read into a wider integer and
// narrowed).
func parseNumber(tok string) (uint16, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, false
	}
	base := 10
	digits := tok
	if len(tok) > 1 && tok[0] == '0' && (tok[1] == 'x' || tok[1] == 'X') {
		base = 16
		digits = tok[2:]
	}
	if digits == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		// ParseUint fails on a non-digit character or on a literal too
		// large for 64 bits; a literal that fits in 64 bits but not in
		// 16 is accepted and wraps when narrowed to uint16 below.
		return 0, false
	}
	return uint16(v), true
}

// parseMemoryOperand recognizes the "[<number>]" form used by LOAD
// r,[addr] and STORE [addr],r. IN and OUT take their port as a bare
// numeric literal, not in this form. The closing ']' is required.
func parseMemoryOperand(s string) (uint16, bool) {
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return 0, false
	}
	return parseNumber(s[1 : len(s)-1])
}

// isRegister reports whether name (already uppercased) is one of the six
// register mnemonics, returning its index.
func isRegister(name string) (int, bool) {
	return isa.RegisterByName(name)
}
