package tools

import (
	"strings"
	"testing"
)

func TestFormat_AlignsMnemonicAndOperands(t *testing.T) {
	src := "LOOP: INC A\nJMP LOOP ; back to top\n"
	got := Format(src, nil)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 formatted lines, got %d: %q", len(lines), got)
	}
	if !strings.Contains(lines[0], "INC") || !strings.Contains(lines[0], "A") {
		t.Errorf("expected mnemonic and operand preserved, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "JMP") || !strings.Contains(lines[1], "LOOP") {
		t.Errorf("expected mnemonic and operand preserved, got %q", lines[1])
	}
	if !strings.Contains(lines[1], "back to top") {
		t.Errorf("expected comment preserved, got %q", lines[1])
	}

	opts := DefaultFormatOptions()
	if got := strings.Index(lines[1], "JMP"); got != opts.MnemonicColumn {
		t.Errorf("mnemonic at column %d, want %d: %q", got, opts.MnemonicColumn, lines[1])
	}
	if got := strings.Index(lines[1], "LOOP"); got != opts.OperandColumn {
		t.Errorf("operand at column %d, want %d: %q", got, opts.OperandColumn, lines[1])
	}
	if got := strings.Index(lines[1], ";"); got != opts.CommentColumn {
		t.Errorf("comment at column %d, want %d: %q", got, opts.CommentColumn, lines[1])
	}
}

func TestFormat_PreservesBlankLines(t *testing.T) {
	src := "NOP\n\nHLT\n"
	got := Format(src, nil)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 || lines[1] != "" {
		t.Fatalf("expected a preserved blank middle line, got %q", lines)
	}
}

func TestFormat_LabelOnlyLine(t *testing.T) {
	src := "START:\nNOP\n"
	got := Format(src, nil)
	lines := strings.Split(got, "\n")
	if lines[0] != "START:" {
		t.Errorf("expected bare label line preserved, got %q", lines[0])
	}
}
