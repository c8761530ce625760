package tools

import (
	"strings"
	"testing"
)

func hasMessage(issues []LintIssue, substr string) bool {
	for _, i := range issues {
		if strings.Contains(i.Message, substr) {
			return true
		}
	}
	return false
}

func TestLint_DuplicateLabel(t *testing.T) {
	issues := Lint("A1: NOP\nA1: HLT\n")
	if !hasMessage(issues, "duplicate label") {
		t.Errorf("expected a duplicate label finding, got %v", issues)
	}
}

func TestLint_UnreferencedLabel(t *testing.T) {
	issues := Lint("UNUSED: NOP\nHLT\n")
	if !hasMessage(issues, "never referenced") {
		t.Errorf("expected an unreferenced label finding, got %v", issues)
	}
}

func TestLint_ReferencedLabelIsClean(t *testing.T) {
	issues := Lint("LOOP: INC A\nJMP LOOP\nHLT\n")
	if hasMessage(issues, "never referenced") {
		t.Errorf("LOOP is referenced by JMP; expected no unreferenced finding, got %v", issues)
	}
}

func TestLint_OperandCountMismatch(t *testing.T) {
	issues := Lint("ADD A\nHLT\n")
	if !hasMessage(issues, "expects 2 operand") {
		t.Errorf("expected an operand count finding for ADD A, got %v", issues)
	}
}

func TestLint_CorrectOperandCountIsClean(t *testing.T) {
	issues := Lint("ADD A, B\nHLT\n")
	if hasMessage(issues, "expects 2 operand") {
		t.Errorf("ADD A, B is well-formed; expected no operand count finding, got %v", issues)
	}
}
