package tools

import (
	"fmt"
	"strings"

	"github.com/simplecpu/simplecpu/isa"
)

// LintLevel is the severity of a single finding.
type LintLevel int

const (
	LintError LintLevel = iota
	LintWarning
)

func (l LintLevel) String() string {
	if l == LintError {
		return "error"
	}
	return "warning"
}

// LintIssue is one finding produced by Lint.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Message string
}

func (i LintIssue) String() string {
	return fmt.Sprintf("line %d: %s: %s", i.Line, i.Level, i.Message)
}

// Lint analyzes source for duplicate labels, unreferenced labels, and
// operand-count mismatches against isa.Table, reported as LintError or
// LintWarning depending on severity. It does not assemble the source:
// a program that fails Lint may still fail assembly for reasons Lint
// does not check (undefined forward references, malformed numeric
// literals), and a program that passes Lint is not guaranteed to
// assemble.
func Lint(source string) []LintIssue {
	var issues []LintIssue

	lines := tokenizeSource(source)
	defined := make(map[string]int)
	referenced := make(map[string]bool)

	for _, l := range lines {
		if l.Label != "" {
			if first, dup := defined[l.Label]; dup {
				issues = append(issues, LintIssue{
					Level:   LintError,
					Line:    l.Number,
					Message: fmt.Sprintf("duplicate label %q (first defined on line %d)", l.Label, first),
				})
			} else {
				defined[l.Label] = l.Number
			}
		}

		if l.Mnemonic == "" {
			continue
		}

		for _, op := range l.Operands {
			if name, ok := branchTargetCandidate(op); ok {
				referenced[name] = true
			}
		}

		if issue, ok := checkOperandCount(l); ok {
			issues = append(issues, issue)
		}
	}

	for name, declLine := range defined {
		if !referenced[name] {
			issues = append(issues, LintIssue{
				Level:   LintWarning,
				Line:    declLine,
				Message: fmt.Sprintf("label %q is never referenced", name),
			})
		}
	}

	return issues
}

// branchTargetCandidate reports whether op looks like a symbolic operand
// (as opposed to a register, numeric literal, or [addr]/[port] form) and
// so would resolve against the label table at assembly time.
func branchTargetCandidate(op string) (string, bool) {
	if op == "" {
		return "", false
	}
	if op[0] == '[' || op[0] == '0' {
		return "", false
	}
	upper := strings.ToUpper(op)
	if _, isReg := isa.RegisterByName(upper); isReg {
		return "", false
	}
	if op[0] >= '0' && op[0] <= '9' {
		return "", false
	}
	return upper, true
}

// checkOperandCount flags a mnemonic used with the wrong number of
// operands for its isa.Table entry (LOAD is special-cased to the same
// 2-operand count as every other RegImm16/RegAddr form).
func checkOperandCount(l line) (LintIssue, bool) {
	want := expectedOperandCount(l.Mnemonic)
	if want < 0 {
		return LintIssue{}, false // unknown mnemonic: assembly itself will catch it
	}
	if len(l.Operands) != want {
		return LintIssue{
			Level:   LintError,
			Line:    l.Number,
			Message: fmt.Sprintf("%s expects %d operand(s), found %d", l.Mnemonic, want, len(l.Operands)),
		}, true
	}
	return LintIssue{}, false
}

func expectedOperandCount(mnemonic string) int {
	if mnemonic == "LOAD" {
		return 2
	}
	m, ok := isa.Table[mnemonic]
	if !ok {
		return -1
	}
	switch m.Form {
	case isa.FormNone:
		return 0
	case isa.FormReg:
		return 1
	default:
		return 2
	}
}
