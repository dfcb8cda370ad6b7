package core

import (
	"fmt"
	"log/slog"

	"github.com/dtek-v/rv32emu/internal/journal"
)

// SDRAM range the instruction cache covers. The execute unit does not
// restrict instruction fetch to this range — a program that jumps
// elsewhere on a real board would read whatever peripheral lives there —
// but only SDRAM is ever executable in practice, and only SDRAM stores
// mediated by the execute unit invalidate a cache slot.
const (
	SDRAMBase uint32 = 0x0000_0000
	SDRAMSize uint32 = 0x0400_0000 // 64 MiB
)

// trapVectorPC is the board's hardwired trap vector.
const trapVectorPC uint32 = 0

// CPU is the execute unit: registers, CSRs, PC, and the instruction cache,
// wired to a Bus. It owns no peripherals directly; those are attached to
// the Bus by the machine wiring layer.
type CPU struct {
	Regs RegisterFile
	CSR  CSRBlock
	PC   uint32

	Bus    *Bus
	ICache *ICache
	Trace  *journal.Journal // nil disables journaling
}

// NewCPU constructs an execute unit bound to bus. PC starts at 0 and
// registers are zero; call Reset to bring the CPU to the board's normal
// post-reset state (PC=4, MIE=1).
func NewCPU(bus *Bus) *CPU {
	return &CPU{
		Bus:    bus,
		ICache: NewICache(SDRAMBase, SDRAMSize),
	}
}

// Reset clears registers and CSRs, sets PC = 4 and mstatus.MIE = 1,
// mirroring the board's boot sequence where address 0 is unused.
func (cpu *CPU) Reset() {
	cpu.Regs.Reset()
	cpu.CSR.Reset()
	cpu.ICache.Reset()
	cpu.PC = 4
	cpu.CSR.SetMIE(true)
}

func (cpu *CPU) journal(kind journal.Kind, detail string) {
	cpu.Trace.Record(kind, cpu.PC, detail)
}

// fetch returns the decoded instruction at the current PC, using the
// instruction cache when possible, or an error if PC is misaligned.
func (cpu *CPU) fetch() (Instruction, error) {
	if cpu.PC&0x3 != 0 {
		return Instruction{}, fmt.Errorf("instruction address misaligned: pc=0x%08x", cpu.PC)
	}
	if ins, ok := cpu.ICache.Lookup(cpu.PC); ok {
		return ins, nil
	}
	word, _ := cpu.Bus.Load(cpu.PC, 4)
	ins := Decode(word)
	cpu.ICache.Fill(cpu.PC, ins)
	return ins, nil
}

// Clock performs one fetch-decode-execute step.
func (cpu *CPU) Clock() {
	ins, err := cpu.fetch()
	if err != nil {
		cpu.journal(journal.InstructionMisaligned, err.Error())
		cpu.trap(InterruptSignal{Cause: CauseInstructionAddressMisaligned})
		return
	}
	if ins.Op == OpIllegal {
		cpu.journal(journal.IllegalInstruction, fmt.Sprintf("raw=0x%08x", ins.Raw))
		slog.Warn("illegal instruction", "pc", fmt.Sprintf("0x%08x", cpu.PC), "raw", fmt.Sprintf("0x%08x", ins.Raw))
		cpu.trap(InterruptSignal{Cause: CauseIllegalInstruction})
		return
	}
	cpu.execute(ins)
}

// HandleInterrupt delivers an external interrupt if currently enabled.
// Masked or globally-disabled signals are dropped, not queued, per the
// board's level-triggered interrupt model.
func (cpu *CPU) HandleInterrupt(sig InterruptSignal) {
	if !cpu.CSR.MIE() {
		return
	}
	if sig.External && !cpu.CSR.MIEMasked(sig.Cause) {
		return
	}
	cpu.trap(sig)
}

// trap performs trap entry for the given signal: save mepc, set mcause,
// save/clear MIE, and redirect PC to the trap vector.
func (cpu *CPU) trap(sig InterruptSignal) {
	mepc := cpu.PC - 4
	if sig.External {
		mepc += 4
	}
	cpu.CSR.Set(CSRMepc, mepc)
	cpu.CSR.Set(CSRMcause, sig.McauseValue())
	cpu.CSR.SetMPIE(cpu.CSR.MIE())
	cpu.CSR.SetMIE(false)
	cpu.PC = trapVectorPC
	slog.Debug("trap entry", "cause", sig.McauseValue(), "external", sig.External, "mepc", fmt.Sprintf("0x%08x", mepc))
}

// mret performs MRET: PC <- mepc, MIE <- MPIE, MPIE <- 1.
func (cpu *CPU) mret() {
	cpu.PC = cpu.CSR.Get(CSRMepc)
	cpu.CSR.SetMIE(cpu.CSR.MPIE())
	cpu.CSR.SetMPIE(true)
}

// loadByte/loadHalfword/loadWord read from the bus, recording a journal
// entry and returning the documented sentinel when no peripheral owns
// the address.
func (cpu *CPU) loadByte(addr uint32) uint32 {
	v, ok := cpu.Bus.Load(addr, 1)
	if !ok {
		cpu.journal(journal.LoadOutOfBounds, fmt.Sprintf("addr=0x%08x size=1", addr))
	}
	return v
}

func (cpu *CPU) loadHalfword(addr uint32) uint32 {
	v, ok := cpu.Bus.Load(addr, 2)
	if !ok {
		cpu.journal(journal.LoadOutOfBounds, fmt.Sprintf("addr=0x%08x size=2", addr))
	}
	return v
}

func (cpu *CPU) loadWord(addr uint32) uint32 {
	v, ok := cpu.Bus.Load(addr, 4)
	if !ok {
		cpu.journal(journal.LoadOutOfBounds, fmt.Sprintf("addr=0x%08x size=4", addr))
	}
	return v
}

// storeByte/storeHalfword/storeWord write through the bus and invalidate
// the instruction cache slot covering addr, and for an unaligned halfword
// or word also the slot covering its last byte. This is the execute unit's
// mediated store path; direct peripheral writes from the host side (e.g.
// a driver poking a register) never go through here and so never
// invalidate the cache — acceptable because only SDRAM is executable.
func (cpu *CPU) storeByte(addr uint32, v uint32) {
	if !cpu.Bus.Store(addr, 1, v) {
		cpu.journal(journal.StoreOutOfBounds, fmt.Sprintf("addr=0x%08x size=1", addr))
	}
	cpu.ICache.Invalidate(addr)
}

func (cpu *CPU) storeHalfword(addr uint32, v uint32) {
	if !cpu.Bus.Store(addr, 2, v) {
		cpu.journal(journal.StoreOutOfBounds, fmt.Sprintf("addr=0x%08x size=2", addr))
	}
	cpu.ICache.Invalidate(addr)
	cpu.ICache.Invalidate(addr + 1)
}

func (cpu *CPU) storeWord(addr uint32, v uint32) {
	if !cpu.Bus.Store(addr, 4, v) {
		cpu.journal(journal.StoreOutOfBounds, fmt.Sprintf("addr=0x%08x size=4", addr))
	}
	cpu.ICache.Invalidate(addr)
	cpu.ICache.Invalidate(addr + 3)
}

// StoreAt bulk-loads a program image into the bus starting at addr, for
// use by a host loading SDRAM contents before running the machine. Goes
// through the mediated store path, so pre-existing cache slots for the
// loaded range are invalidated.
func (cpu *CPU) StoreAt(addr uint32, data []byte) {
	for i, b := range data {
		cpu.storeByte(addr+uint32(i), uint32(b))
	}
}
