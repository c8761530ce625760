package vm_test

import (
	"bytes"
	"testing"

	"github.com/simplecpu/simplecpu/isa"
	"github.com/simplecpu/simplecpu/vm"
)

// TestScenario_HelloHalt loads a single register, writes it to STDOUT,
// and halts.
func TestScenario_HelloHalt(t *testing.T) {
	var out bytes.Buffer
	cpu := vm.New(vm.StdIO{Out: &out})
	cpu.Load([]byte{
		byte(isa.OpLOAD), isa.RegA, 0x48, 0x00,
		byte(isa.OpOUT), 0x00, 0xFF, isa.RegA,
		byte(isa.OpHLT),
	})

	mustRun(t, cpu)

	if out.String() != "H" {
		t.Fatalf("output = %q, want %q", out.String(), "H")
	}
	if cpu.A() != 0x0048 {
		t.Fatalf("A = 0x%04X, want 0x0048", cpu.A())
	}
	if !cpu.Halted {
		t.Fatal("expected halted")
	}
	if cpu.Cycles != 3 {
		t.Fatalf("cycles = %d, want 3", cpu.Cycles)
	}
}

// TestScenario_LoopCount counts a register up to 5 with a backward jump,
// assembled by hand since the loop needs byte offsets a single-pass
// assembler can actually resolve (the label is defined before the jump
// references it textually, by construction of the byte offsets below).
func TestScenario_LoopCount(t *testing.T) {
	// LOAD A, 0              ; addr 0x0100, size 4
	// LOOP: INC A            ; addr 0x0104, size 2
	// CMPI A, 5              ; addr 0x0106, size 4
	// JNZ LOOP               ; addr 0x010A, size 3 -> target 0x0104
	// HLT                    ; addr 0x010D
	cpu := vm.New(nil)
	cpu.Load([]byte{
		byte(isa.OpLOAD), isa.RegA, 0x00, 0x00,
		byte(isa.OpINC), isa.RegA,
		byte(isa.OpCMPI), isa.RegA, 0x05, 0x00,
		byte(isa.OpJNZ), 0x04, 0x01,
		byte(isa.OpHLT),
	})

	mustRun(t, cpu)

	if cpu.A() != 5 {
		t.Fatalf("A = %d, want 5", cpu.A())
	}
	if !cpu.Flags.Z {
		t.Fatal("expected Z=1 after the final CMPI")
	}
}

// TestScenario_CallRet exercises CALL/RET and the stack-backed return
// address.
func TestScenario_CallRet(t *testing.T) {
	// LOAD A, 10   ; 0x0100, size 4
	// CALL SUB     ; 0x0104, size 3 -> target 0x0108
	// HLT          ; 0x0107
	// SUB: ADDI A,1; 0x0108, size 4
	// RET          ; 0x010C
	cpu := vm.New(nil)
	cpu.Load([]byte{
		byte(isa.OpLOAD), isa.RegA, 10, 0,
		byte(isa.OpCALL), 0x08, 0x01,
		byte(isa.OpHLT),
		byte(isa.OpADDI), isa.RegA, 1, 0,
		byte(isa.OpRET),
	})

	mustRun(t, cpu)

	if cpu.A() != 11 {
		t.Fatalf("A = %d, want 11", cpu.A())
	}
	if cpu.SP() != vm.InitialSP {
		t.Fatalf("SP = 0x%04X, want restored 0x%04X", cpu.SP(), vm.InitialSP)
	}
}

// TestScenario_StackSwap pushes two registers and pops them back in
// reverse order, swapping their values, and checks SP is restored.
func TestScenario_StackSwap(t *testing.T) {
	cpu := vm.New(nil)
	cpu.Load([]byte{
		byte(isa.OpLOAD), isa.RegA, 1, 0,
		byte(isa.OpLOAD), isa.RegB, 2, 0,
		byte(isa.OpPUSH), isa.RegA,
		byte(isa.OpPUSH), isa.RegB,
		byte(isa.OpPOP), isa.RegA,
		byte(isa.OpPOP), isa.RegB,
		byte(isa.OpHLT),
	})

	mustRun(t, cpu)

	if cpu.A() != 2 || cpu.B() != 1 {
		t.Fatalf("A=%d B=%d, want A=2 B=1", cpu.A(), cpu.B())
	}
	if cpu.SP() != vm.InitialSP {
		t.Fatalf("SP = 0x%04X, want restored 0x%04X", cpu.SP(), vm.InitialSP)
	}
}

// TestScenario_TimerTick enables the timer, runs three NOPs, then reads
// the timer value, confirming it counts one tick per step including
// the read itself.
func TestScenario_TimerTick(t *testing.T) {
	cpu := vm.New(nil)
	cpu.Load([]byte{
		byte(isa.OpLOAD), isa.RegA, 1, 0,
		byte(isa.OpOUT), 0x02, 0xFF, isa.RegA, // enable timer
		byte(isa.OpNOP),
		byte(isa.OpNOP),
		byte(isa.OpNOP),
		byte(isa.OpIN), isa.RegB, 0x03, 0xFF,
		byte(isa.OpHLT),
	})

	mustRun(t, cpu)

	if cpu.B() != 4 {
		t.Fatalf("B = %d, want 4", cpu.B())
	}
}

func TestJmp_UnconditionalOverwritesPC(t *testing.T) {
	cpu := vm.New(nil)
	cpu.Load([]byte{
		byte(isa.OpJMP), 0x08, 0x01, // -> 0x0108
		byte(isa.OpHLT), // would execute at 0x0103 if JMP failed
		0, 0, 0, 0,
		byte(isa.OpLOAD), isa.RegA, 0x07, 0x00,
		byte(isa.OpHLT),
	})

	mustRun(t, cpu)

	if cpu.A() != 7 {
		t.Fatalf("A = %d, want 7 (JMP should have skipped the first HLT)", cpu.A())
	}
}

func TestConditionalJump_AdvancesPastOperandWhenNotTaken(t *testing.T) {
	cpu := vm.New(nil)
	cpu.Load([]byte{
		byte(isa.OpLOAD), isa.RegA, 1, 0,
		byte(isa.OpCMPI), isa.RegA, 1, 0, // sets Z=1
		byte(isa.OpJNZ), 0xFF, 0xFF, // not taken (Z=1), falls through
		byte(isa.OpLOAD), isa.RegB, 9, 0,
		byte(isa.OpHLT),
	})

	mustRun(t, cpu)

	if cpu.B() != 9 {
		t.Fatalf("B = %d, want 9 (fall-through after non-taken JNZ)", cpu.B())
	}
}

func TestUnknownOpcode_Traps(t *testing.T) {
	cpu := vm.New(nil)
	cpu.Load([]byte{0xEE})

	err := cpu.Run()
	if err == nil {
		t.Fatal("expected a trap error for an unknown opcode")
	}
	if !cpu.Halted {
		t.Fatal("CPU should be halted after an unknown-opcode trap")
	}
}

func TestNop_OnlyAdvancesPCAndCycles(t *testing.T) {
	cpu := vm.New(nil)
	cpu.Load([]byte{
		byte(isa.OpNOP), byte(isa.OpNOP), byte(isa.OpNOP), byte(isa.OpHLT),
	})

	for i := 0; i < 3; i++ {
		if err := cpu.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	if cpu.Cycles != 3 {
		t.Fatalf("cycles = %d, want 3", cpu.Cycles)
	}
	if cpu.PC() != vm.InitialPC+3 {
		t.Fatalf("PC = 0x%04X, want 0x%04X", cpu.PC(), vm.InitialPC+3)
	}
	if cpu.A() != 0 || cpu.B() != 0 {
		t.Fatal("NOP must not touch general-purpose registers")
	}
}
