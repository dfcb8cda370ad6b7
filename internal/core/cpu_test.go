package core

import (
	"encoding/binary"
	"testing"

	"github.com/dtek-v/rv32emu/internal/journal"
	"github.com/dtek-v/rv32emu/internal/rvasm"
)

// testMemory is a minimal core.Device backed by a byte slice, standing in
// for SDRAM in tests that only exercise the execute unit.
type testMemory struct {
	data []byte
}

func newTestMemory(size int) *testMemory {
	return &testMemory{data: make([]byte, size)}
}

func (m *testMemory) Size() uint32 { return uint32(len(m.data)) }

func (m *testMemory) Load(offset uint32, size int) uint32 {
	var v uint32
	for i := 0; i < size; i++ {
		idx := int(offset) + i
		if idx >= len(m.data) {
			break
		}
		v |= uint32(m.data[idx]) << (8 * uint(i))
	}
	return v
}

func (m *testMemory) Store(offset uint32, size int, value uint32) {
	for i := 0; i < size; i++ {
		idx := int(offset) + i
		if idx >= len(m.data) {
			return
		}
		m.data[idx] = byte(value >> (8 * uint(i)))
	}
}

func assembleAt(mem *testMemory, addr uint32, words []uint32) {
	for i, w := range words {
		binary.LittleEndian.PutUint32(mem.data[addr+uint32(i*4):], w)
	}
}

func newTestCPU(memSize int) (*CPU, *testMemory) {
	bus := NewBus()
	mem := newTestMemory(memSize)
	bus.Attach(0, mem)
	cpu := NewCPU(bus)
	return cpu, mem
}

func TestFactorialOfEight(t *testing.T) {
	cpu, mem := newTestCPU(1024)

	const (
		loop = 8
		mul  = 24
		done = 40
		end  = 44
	)
	program := []uint32{
		rvasm.LI(rvasm.T0, 8),               // 0: li t0,8
		rvasm.LI(rvasm.T2, 1),                // 4: li t2,1
		rvasm.BEQ(rvasm.T0, rvasm.Zero, end-loop),   // 8: loop: beqz t0,end
		rvasm.ADDI(rvasm.T0, rvasm.T0, -1),   // 12: addi t0,t0,-1
		rvasm.MV(rvasm.T1, rvasm.T0),          // 16: mv t1,t0
		rvasm.MV(rvasm.TP, rvasm.T2),          // 20: mv tp,t2
		rvasm.BEQ(rvasm.T1, rvasm.Zero, done-mul), // 24: mul: beqz t1,done
		rvasm.ADD(rvasm.T2, rvasm.T2, rvasm.TP), // 28: add t2,t2,tp
		rvasm.ADDI(rvasm.T1, rvasm.T1, -1),    // 32: addi t1,t1,-1
		rvasm.JMP(mul - 36),                   // 36: j mul
		rvasm.JMP(loop - done),                // 40: done: j loop
		rvasm.JMP(0),                           // 44: end: j end
	}
	assembleAt(mem, 0, program)

	cpu.PC = 0
	for i := 0; i < 200; i++ {
		cpu.Clock()
	}

	if got := cpu.Regs.Get(RegT2); got != 40320 {
		t.Fatalf("t2 = %d, want 40320 (8!)", got)
	}
	if got := cpu.Regs.Get(RegZero); got != 0 {
		t.Fatalf("x0 = %d, want 0", got)
	}
}

func TestResetState(t *testing.T) {
	cpu, _ := newTestCPU(16)
	cpu.Regs.Set(RegA0, 123)
	cpu.CSR.Set(CSRMie, 0xFF)
	cpu.Reset()

	if cpu.PC != 4 {
		t.Fatalf("PC after reset = 0x%x, want 4", cpu.PC)
	}
	if !cpu.CSR.MIE() {
		t.Fatal("mstatus.MIE should be set after reset")
	}
	if cpu.Regs.Get(RegA0) != 0 {
		t.Fatal("registers should be zero after reset")
	}
}

func TestTrapAndMret(t *testing.T) {
	cpu, mem := newTestCPU(64)
	cpu.Reset()
	cpu.PC = 4

	// An ECALL at pc=4 should trap to pc=0 with mepc=4 (execECALL advances
	// PC to 8 before trapping, and trap entry subtracts 4 back off for an
	// internal cause) and mcause=11.
	assembleAt(mem, 4, []uint32{rvasm.ECALL})
	assembleAt(mem, 0, []uint32{rvasm.MRET})

	cpu.Clock() // execute ECALL
	if cpu.PC != 0 {
		t.Fatalf("PC after trap = 0x%x, want 0", cpu.PC)
	}
	if got := cpu.CSR.Get(CSRMcause); got != CauseEnvironmentCallFromMMode {
		t.Fatalf("mcause = %d, want %d", got, CauseEnvironmentCallFromMMode)
	}
	if got := cpu.CSR.Get(CSRMepc); got != 4 {
		t.Fatalf("mepc = %d, want 4", got)
	}
	if cpu.CSR.MIE() {
		t.Fatal("MIE should be cleared on trap entry")
	}
	if !cpu.CSR.MPIE() {
		t.Fatal("MPIE should hold the prior MIE (1) across the trap")
	}

	cpu.Clock() // execute MRET
	if cpu.PC != 4 {
		t.Fatalf("PC after mret = 0x%x, want 4 (mepc)", cpu.PC)
	}
	if !cpu.CSR.MIE() {
		t.Fatal("MIE should be restored from MPIE after mret")
	}
}

func TestExternalInterruptMasking(t *testing.T) {
	cpu, mem := newTestCPU(64)
	cpu.Reset()
	assembleAt(mem, 4, []uint32{rvasm.NOP})
	cpu.PC = 4

	sig := InterruptSignal{Cause: CauseTimerInterrupt, External: true}

	// MIE set but mie bit for this cause clear: no effect.
	cpu.HandleInterrupt(sig)
	if cpu.PC != 4 {
		t.Fatalf("PC changed despite mie bit being clear: 0x%x", cpu.PC)
	}

	// Enable the bit: the interrupt should now be taken, with mepc = pc
	// (external causes resume at the interrupted instruction, not past it).
	cpu.CSR.Set(CSRMie, 1<<CauseTimerInterrupt)
	cpu.HandleInterrupt(sig)
	if cpu.PC != 0 {
		t.Fatalf("PC after interrupt = 0x%x, want 0", cpu.PC)
	}
	if got := cpu.CSR.Get(CSRMepc); got != 4 {
		t.Fatalf("mepc = %d, want 4", got)
	}
	if got := cpu.CSR.Get(CSRMcause); got != (CauseTimerInterrupt | externalCauseBit) {
		t.Fatalf("mcause = 0x%x, want external timer cause", got)
	}
}

func TestDivisionByZero(t *testing.T) {
	cpu, mem := newTestCPU(16)
	cpu.Trace = journal.New()
	assembleAt(mem, 0, []uint32{rvasm.DIV(rvasm.A0, rvasm.A1, rvasm.A2)})
	cpu.Regs.Set(RegA1, 42)
	cpu.Regs.Set(RegA2, 0)
	cpu.PC = 0

	cpu.Clock()
	if got := cpu.Regs.Get(RegA0); got != 0xFFFFFFFF {
		t.Fatalf("DIV by zero = 0x%x, want 0xFFFFFFFF", got)
	}
	if cpu.Trace.Len() != 1 || cpu.Trace.Entries()[0].Kind != journal.DivisionByZero {
		t.Fatalf("expected one DivisionByZero journal entry, got %v", cpu.Trace.Entries())
	}
}

func TestOverflowDivision(t *testing.T) {
	cpu, mem := newTestCPU(16)
	assembleAt(mem, 0, []uint32{rvasm.DIV(rvasm.A0, rvasm.A1, rvasm.A2)})
	cpu.Regs.Set(RegA1, 0x80000000) // INT32_MIN
	cpu.Regs.Set(RegA2, 0xFFFFFFFF) // -1
	cpu.PC = 0

	cpu.Clock()
	if got := cpu.Regs.Get(RegA0); got != 0x80000000 {
		t.Fatalf("INT32_MIN / -1 = 0x%x, want 0x80000000 (dividend)", got)
	}
}

// Scenario 2: prime sieve. Writes 1 to every byte 0x100..0x163, then
// zeroes every non-prime index, using two nested loops (outer over
// candidates, inner over multiples) built with rvasm.Builder so branch
// offsets never need hand computation.
func TestPrimeSieve(t *testing.T) {
	cpu, mem := newTestCPU(0x200)

	const base = 0x100
	const n = 100 // sieve covers indices 0..99

	b := rvasm.NewBuilder(0)
	luiBase, addiBase := rvasm.LI32(rvasm.A0, base)
	b.Emit(luiBase).Emit(addiBase).
		Emit(rvasm.LI(rvasm.T6, n)).
		Emit(rvasm.LI(rvasm.T0, 0)).
		Label("init_loop").
		EmitRel("init_done", func(off int32) uint32 { return rvasm.BGE(rvasm.T0, rvasm.T6, off) }).
		Emit(rvasm.ADD(rvasm.T2, rvasm.A0, rvasm.T0)).
		Emit(rvasm.LI(rvasm.T3, 1)).
		Emit(rvasm.SB(rvasm.T2, rvasm.T3, 0)).
		Emit(rvasm.ADDI(rvasm.T0, rvasm.T0, 1)).
		EmitRel("init_loop", rvasm.JMP).
		Label("init_done").
		Emit(rvasm.LI(rvasm.T0, 0)).
		Emit(rvasm.ADD(rvasm.T2, rvasm.A0, rvasm.T0)).
		Emit(rvasm.SB(rvasm.T2, rvasm.Zero, 0)).
		Emit(rvasm.LI(rvasm.T0, 1)).
		Emit(rvasm.ADD(rvasm.T2, rvasm.A0, rvasm.T0)).
		Emit(rvasm.SB(rvasm.T2, rvasm.Zero, 0)).
		Emit(rvasm.LI(rvasm.T0, 2)).
		Label("outer").
		EmitRel("outer_done", func(off int32) uint32 { return rvasm.BGE(rvasm.T0, rvasm.T6, off) }).
		Emit(rvasm.ADD(rvasm.T2, rvasm.A0, rvasm.T0)).
		Emit(rvasm.LBU(rvasm.T3, rvasm.T2, 0)).
		EmitRel("outer_next", func(off int32) uint32 { return rvasm.BEQ(rvasm.T3, rvasm.Zero, off) }).
		Emit(rvasm.ADD(rvasm.T1, rvasm.T0, rvasm.T0)).
		Label("inner").
		EmitRel("inner_done", func(off int32) uint32 { return rvasm.BGE(rvasm.T1, rvasm.T6, off) }).
		Emit(rvasm.ADD(rvasm.T4, rvasm.A0, rvasm.T1)).
		Emit(rvasm.SB(rvasm.T4, rvasm.Zero, 0)).
		Emit(rvasm.ADD(rvasm.T1, rvasm.T1, rvasm.T0)).
		EmitRel("inner", rvasm.JMP).
		Label("inner_done").
		Label("outer_next").
		Emit(rvasm.ADDI(rvasm.T0, rvasm.T0, 1)).
		EmitRel("outer", rvasm.JMP).
		Label("outer_done").
		Label("spin").
		EmitRel("spin", rvasm.JMP)

	words, _ := b.Assemble()
	assembleAt(mem, 0, words)

	cpu.PC = 0
	for i := 0; i < 20000; i++ {
		cpu.Clock()
	}

	isPrime := func(v int) bool {
		if v < 2 {
			return false
		}
		for d := 2; d*d <= v; d++ {
			if v%d == 0 {
				return false
			}
		}
		return true
	}

	for i := 2; i < n; i++ {
		got := mem.Load(base+uint32(i), 1)
		want := uint32(0)
		if isPrime(i) {
			want = 1
		}
		if got != want {
			t.Fatalf("sieve byte for %d = %d, want %d (isPrime=%v)", i, got, want, isPrime(i))
		}
	}
}

func TestSWInvalidatesInstructionCache(t *testing.T) {
	// Scenario 5: write instructions into SDRAM starting at 0x100 via SW,
	// then JALR there and execute them. This specifically exercises
	// instruction-cache invalidation: the slots for 0x100 and 0x104 are
	// primed with the decode of the zeroed memory there, as if fetched
	// before the stores, so the stored words only run if each SW
	// invalidates the slot it overwrites.
	cpu, mem := newTestCPU(0x200)

	const storeBase = 0x100
	const afterAddr = 0x40

	// The two target words executed at 0x100: addi t0,zero,2 then
	// jalr zero,0(ra).
	targetWord0 := rvasm.LI(rvasm.T0, 2)
	targetWord1 := rvasm.JALR(rvasm.Zero, rvasm.RA, 0)

	luiBase, addiBase := rvasm.LI32(rvasm.A0, storeBase)
	luiW0, addiW0 := rvasm.LI32(rvasm.A1, targetWord0)
	luiW1, addiW1 := rvasm.LI32(rvasm.A1, targetWord1)
	luiRA, addiRA := rvasm.LI32(rvasm.RA, afterAddr)

	words := []uint32{
		luiBase, addiBase, // a0 = 0x100
		luiW0, addiW0, // a1 = word0
		rvasm.SW(rvasm.A0, rvasm.A1, 0), // store word0 at 0x100
		luiW1, addiW1, // a1 = word1
		rvasm.SW(rvasm.A0, rvasm.A1, 4), // store word1 at 0x104
		luiRA, addiRA,                   // ra = afterAddr
		rvasm.JALR(rvasm.Zero, rvasm.A0, 0), // jump into 0x100
	}
	assembleAt(mem, 0, words)
	assembleAt(mem, afterAddr, []uint32{rvasm.JMP(0)})
	cpu.ICache.Fill(storeBase, Decode(0))
	cpu.ICache.Fill(storeBase+4, Decode(0))

	cpu.PC = 0
	for i := 0; i < 50; i++ {
		cpu.Clock()
	}

	if got := cpu.Regs.Get(RegT0); got != 2 {
		t.Fatalf("t0 = %d, want 2 (instruction cache must observe the SW)", got)
	}
}
