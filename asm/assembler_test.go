package asm_test

import (
	"testing"

	"github.com/simplecpu/simplecpu/asm"
	"github.com/simplecpu/simplecpu/isa"
)

func assemble(t *testing.T, src string) []byte {
	t.Helper()
	out, err := asm.New().Assemble(src)
	if err != nil {
		t.Fatalf("Assemble(%q): %v", src, err)
	}
	return out
}

func TestAssemble_HelloHalt(t *testing.T) {
	src := "LOAD A, 0x48\nOUT 0xFF00, A\nHLT\n"
	got := assemble(t, src)
	want := []byte{
		byte(isa.OpLOAD), isa.RegA, 0x48, 0x00,
		byte(isa.OpOUT), 0x00, 0xFF, isa.RegA,
		byte(isa.OpHLT),
	}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestAssemble_CommentsAndBlankLinesYieldNoBytes(t *testing.T) {
	src := "; a comment\n\n   \n# another\nNOP\n"
	got := assemble(t, src)
	want := []byte{byte(isa.OpNOP)}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestAssemble_LabelOnlyLineDefinesAddressWithNoBytes(t *testing.T) {
	src := "NOP\nHERE:\nJMP HERE\n"
	got := assemble(t, src)
	// NOP (1 byte) then HERE is at offset 1 (addr 0x0101); JMP HERE
	// encodes that address.
	want := []byte{byte(isa.OpNOP), byte(isa.OpJMP), 0x01, 0x01}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestAssemble_LabelSharesLineWithInstruction(t *testing.T) {
	src := "LOOP: INC A\nJMP LOOP\n"
	got := assemble(t, src)
	want := []byte{
		byte(isa.OpINC), isa.RegA,
		byte(isa.OpJMP), 0x00, 0x01,
	}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestAssemble_ForwardReferenceFails(t *testing.T) {
	src := "JMP AHEAD\nAHEAD: HLT\n"
	_, err := asm.New().Assemble(src)
	if err == nil {
		t.Fatal("expected an error resolving a forward label reference")
	}
}

func TestAssemble_DuplicateLabelFails(t *testing.T) {
	src := "A1: NOP\nA1: NOP\n"
	_, err := asm.New().Assemble(src)
	if err == nil {
		t.Fatal("expected a duplicate label error")
	}
}

func TestAssemble_UnknownMnemonicFails(t *testing.T) {
	_, err := asm.New().Assemble("FROB A, B\n")
	if err == nil {
		t.Fatal("expected an unknown mnemonic error")
	}
}

func TestAssemble_StoreWithoutBracketsFails(t *testing.T) {
	_, err := asm.New().Assemble("STORE 0x1000, A\n")
	if err == nil {
		t.Fatal("expected an error: STORE requires a [addr] operand")
	}
}

func TestAssemble_LoadPicksOpcodeByOperandSyntax(t *testing.T) {
	imm := assemble(t, "LOAD A, 5\n")
	if imm[0] != byte(isa.OpLOAD) {
		t.Fatalf("LOAD A, 5 should encode opcode 0x%02X, got 0x%02X", isa.OpLOAD, imm[0])
	}

	mem := assemble(t, "LOAD A, [0x2000]\n")
	if mem[0] != byte(isa.OpLOADM) {
		t.Fatalf("LOAD A, [0x2000] should encode opcode 0x%02X, got 0x%02X", isa.OpLOADM, mem[0])
	}
}

func TestAssemble_CaseInsensitiveMnemonicsAndRegisters(t *testing.T) {
	got := assemble(t, "mov a, b\n")
	want := []byte{byte(isa.OpMOV), isa.Pack(isa.RegA, isa.RegB)}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestAssemble_HexAndDecimalLiterals(t *testing.T) {
	dec := assemble(t, "LOAD A, 10\n")
	hex := assemble(t, "LOAD A, 0x0A\n")
	if string(dec) != string(hex) {
		t.Fatalf("decimal and hex forms of 10 should encode identically: % X vs % X", dec, hex)
	}
}

func TestAssemble_OutputLengthMatchesPerInstructionSizes(t *testing.T) {
	src := "LOAD A, 1\nADD A, A\nHLT\n"
	got := assemble(t, src)
	// LOAD=4, ADD=2, HLT=1
	if len(got) != 7 {
		t.Fatalf("output length = %d, want 7", len(got))
	}
}

func TestAssemble_IdempotentAcrossReassembly(t *testing.T) {
	src := "LOAD A, 1\nLOOP: INC A\nCMPI A, 5\nJNZ LOOP\nHLT\n"
	first := assemble(t, src)
	second := assemble(t, src)
	if string(first) != string(second) {
		t.Fatalf("reassembling the same source produced different output:\n%X\n%X", first, second)
	}
}
