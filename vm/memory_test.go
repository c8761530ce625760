package vm_test

import (
	"bytes"
	"testing"

	"github.com/simplecpu/simplecpu/isa"
	"github.com/simplecpu/simplecpu/vm"
)

func TestReadWrite16_RoundTrips(t *testing.T) {
	cpu := vm.New(nil)

	if err := cpu.Write16(0x1000, 0xBEEF); err != nil {
		t.Fatalf("Write16: %v", err)
	}
	got, err := cpu.Read16(0x1000)
	if err != nil {
		t.Fatalf("Read16: %v", err)
	}
	if got != 0xBEEF {
		t.Fatalf("got 0x%04X, want 0xBEEF", got)
	}
}

func TestStdout_WritesAndFlushesToHost(t *testing.T) {
	var buf bytes.Buffer
	cpu := vm.New(vm.StdIO{Out: &buf})

	if err := cpu.WriteByte(isa.PortStdout, 'H'); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	if buf.String() != "H" {
		t.Fatalf("host output = %q, want %q", buf.String(), "H")
	}
	// STDOUT bypasses RAM: the underlying cell is untouched.
	if cpu.Memory[isa.PortStdout] != 0 {
		t.Fatalf("RAM cell at STDOUT port was written: %v", cpu.Memory[isa.PortStdout])
	}
}

func TestStdin_EOFReadsAsZero(t *testing.T) {
	cpu := vm.New(vm.StdIO{In: bytes.NewReader(nil)})

	b, err := cpu.ReadByte(isa.PortStdin)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if b != 0 {
		t.Fatalf("got 0x%02X, want 0 at EOF", b)
	}
}

func TestTimerCtrl_EnableResetsValue(t *testing.T) {
	cpu := vm.New(nil)
	cpu.TimerValue = 77

	if err := cpu.WriteByte(isa.PortTimerCtrl, 1); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	if !cpu.TimerEnabled {
		t.Fatal("timer should be enabled")
	}
	if cpu.TimerValue != 0 {
		t.Fatalf("TimerValue = %d, want 0 after enabling", cpu.TimerValue)
	}
}

func TestPushPop_RoundTripsAndRestoresSP(t *testing.T) {
	cpu := vm.New(nil)
	sp := cpu.SP()

	if err := cpu.Push(0x4242); err != nil {
		t.Fatalf("Push: %v", err)
	}
	v, err := cpu.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if v != 0x4242 {
		t.Fatalf("popped 0x%04X, want 0x4242", v)
	}
	if cpu.SP() != sp {
		t.Fatalf("SP = 0x%04X, want restored 0x%04X", cpu.SP(), sp)
	}
}
