package core

import (
	"fmt"

	"github.com/dtek-v/rv32emu/internal/journal"
)

// execute dispatches a decoded instruction to its semantic implementation.
// Every branch is responsible for leaving cpu.PC at the correct next
// value; sequential instructions advance it by 4 themselves rather than
// relying on a shared epilogue, matching the per-instruction-advances-PC
// style of the reference implementation this core is grounded on.
func (cpu *CPU) execute(ins Instruction) {
	switch ins.Op {
	case OpLUI:
		cpu.execLUI(ins)
	case OpAUIPC:
		cpu.execAUIPC(ins)
	case OpJAL:
		cpu.execJAL(ins)
	case OpJALR:
		cpu.execJALR(ins)
	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU:
		cpu.execBranch(ins)
	case OpLB, OpLH, OpLW, OpLBU, OpLHU:
		cpu.execLoad(ins)
	case OpSB, OpSH, OpSW:
		cpu.execStore(ins)
	case OpADDI, OpSLTI, OpSLTIU, OpXORI, OpORI, OpANDI, OpSLLI, OpSRLI, OpSRAI:
		cpu.execOpImm(ins)
	case OpADD, OpSUB, OpSLL, OpSLT, OpSLTU, OpXOR, OpSRL, OpSRA, OpOR, OpAND:
		cpu.execOp(ins)
	case OpMUL, OpMULH, OpMULHU, OpMULHSU, OpDIV, OpDIVU, OpREM, OpREMU:
		cpu.execMulDiv(ins)
	case OpCSRRW, OpCSRRS, OpCSRRC:
		cpu.execCSRReg(ins)
	case OpCSRRWI, OpCSRRCI:
		cpu.execCSRImmNoop(ins)
	case OpCSRRSI:
		cpu.execCSRRSI(ins)
	case OpECALL:
		cpu.execECALL()
	case OpMRET:
		cpu.mret()
	default:
		// Decode already rejects anything else; reaching here would be a
		// decoder bug, not a guest-reachable condition.
		panic(fmt.Sprintf("core: execute called on undecoded op for raw=0x%08x", ins.Raw))
	}
}

func (cpu *CPU) execLUI(ins Instruction) {
	cpu.Regs.Set(ins.Rd, uint32(ins.Imm))
	cpu.PC += 4
}

func (cpu *CPU) execAUIPC(ins Instruction) {
	cpu.Regs.Set(ins.Rd, cpu.PC+uint32(ins.Imm))
	cpu.PC += 4
}

func (cpu *CPU) execJAL(ins Instruction) {
	ret := cpu.PC + 4
	cpu.PC = uint32(int32(cpu.PC) + ins.Imm)
	cpu.Regs.Set(ins.Rd, ret)
}

func (cpu *CPU) execJALR(ins Instruction) {
	ret := cpu.PC + 4
	target := (cpu.Regs.Get(ins.Rs1) + uint32(ins.Imm)) &^ 1
	cpu.PC = target
	cpu.Regs.Set(ins.Rd, ret)
}

func (cpu *CPU) execBranch(ins Instruction) {
	a, b := cpu.Regs.Get(ins.Rs1), cpu.Regs.Get(ins.Rs2)
	var taken bool
	switch ins.Op {
	case OpBEQ:
		taken = a == b
	case OpBNE:
		taken = a != b
	case OpBLT:
		taken = int32(a) < int32(b)
	case OpBGE:
		taken = int32(a) >= int32(b)
	case OpBLTU:
		taken = a < b
	case OpBGEU:
		taken = a >= b
	}
	if taken {
		cpu.PC = uint32(int32(cpu.PC) + ins.Imm)
	} else {
		cpu.PC += 4
	}
}

func (cpu *CPU) execLoad(ins Instruction) {
	addr := cpu.Regs.Get(ins.Rs1) + uint32(ins.Imm)
	var v uint32
	switch ins.Op {
	case OpLB:
		v = uint32(int32(int8(cpu.loadByte(addr))))
	case OpLH:
		v = uint32(int32(int16(cpu.loadHalfword(addr))))
	case OpLW:
		v = cpu.loadWord(addr)
	case OpLBU:
		v = cpu.loadByte(addr)
	case OpLHU:
		v = cpu.loadHalfword(addr)
	}
	cpu.Regs.Set(ins.Rd, v)
	cpu.PC += 4
}

func (cpu *CPU) execStore(ins Instruction) {
	addr := cpu.Regs.Get(ins.Rs1) + uint32(ins.Imm)
	v := cpu.Regs.Get(ins.Rs2)
	switch ins.Op {
	case OpSB:
		cpu.storeByte(addr, v)
	case OpSH:
		cpu.storeHalfword(addr, v)
	case OpSW:
		cpu.storeWord(addr, v)
	}
	cpu.PC += 4
}

func (cpu *CPU) execOpImm(ins Instruction) {
	a := cpu.Regs.Get(ins.Rs1)
	imm := uint32(ins.Imm)
	var v uint32
	switch ins.Op {
	case OpADDI:
		v = a + imm
	case OpSLTI:
		v = boolToWord(int32(a) < ins.Imm)
	case OpSLTIU:
		v = boolToWord(a < imm)
	case OpXORI:
		v = a ^ imm
	case OpORI:
		v = a | imm
	case OpANDI:
		v = a & imm
	case OpSLLI:
		v = a << (ins.Shamt & 0x1F)
	case OpSRLI:
		v = a >> (ins.Shamt & 0x1F)
	case OpSRAI:
		v = uint32(int32(a) >> (ins.Shamt & 0x1F))
	}
	cpu.Regs.Set(ins.Rd, v)
	cpu.PC += 4
}

func (cpu *CPU) execOp(ins Instruction) {
	a, b := cpu.Regs.Get(ins.Rs1), cpu.Regs.Get(ins.Rs2)
	var v uint32
	switch ins.Op {
	case OpADD:
		v = a + b
	case OpSUB:
		v = a - b
	case OpSLL:
		v = a << (b & 0x1F)
	case OpSLT:
		v = boolToWord(int32(a) < int32(b))
	case OpSLTU:
		v = boolToWord(a < b)
	case OpXOR:
		v = a ^ b
	case OpSRL:
		v = a >> (b & 0x1F)
	case OpSRA:
		v = uint32(int32(a) >> (b & 0x1F))
	case OpOR:
		v = a | b
	case OpAND:
		v = a & b
	}
	cpu.Regs.Set(ins.Rd, v)
	cpu.PC += 4
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func (cpu *CPU) execMulDiv(ins Instruction) {
	a, b := cpu.Regs.Get(ins.Rs1), cpu.Regs.Get(ins.Rs2)
	var v uint32
	switch ins.Op {
	case OpMUL:
		v = a * b
	case OpMULH:
		v = uint32((int64(int32(a)) * int64(int32(b))) >> 32)
	case OpMULHU:
		v = uint32((uint64(a) * uint64(b)) >> 32)
	case OpMULHSU:
		v = uint32((int64(int32(a)) * int64(uint64(b))) >> 32)
	case OpDIV:
		sa, sb := int32(a), int32(b)
		switch {
		case sb == 0:
			cpu.journal(journal.DivisionByZero, fmt.Sprintf("dividend=%d", sa))
			v = 0xFFFFFFFF
		case sa == -0x80000000 && sb == -1:
			v = a
		default:
			v = uint32(sa / sb)
		}
	case OpDIVU:
		if b == 0 {
			cpu.journal(journal.DivisionByZero, fmt.Sprintf("dividend=%d", a))
			v = 0xFFFFFFFF
		} else {
			v = a / b
		}
	case OpREM:
		sa, sb := int32(a), int32(b)
		switch {
		case sb == 0:
			cpu.journal(journal.RemainderByZero, fmt.Sprintf("dividend=%d", sa))
			v = a
		case sa == -0x80000000 && sb == -1:
			v = 0
		default:
			v = uint32(sa % sb)
		}
	case OpREMU:
		if b == 0 {
			cpu.journal(journal.RemainderByZero, fmt.Sprintf("dividend=%d", a))
			v = a
		} else {
			v = a % b
		}
	}
	cpu.Regs.Set(ins.Rd, v)
	cpu.PC += 4
}

// journalCsrAccess records AccessUselessCsr when the CSR has no emulated
// behavior beyond storage, naming it by mnemonic.
func (cpu *CPU) journalCsrAccess(csr CSRAddr) {
	if !meaningfullyEmulated(csr) {
		cpu.journal(journal.AccessUselessCsr, csr.Name())
	}
}

func (cpu *CPU) execCSRReg(ins Instruction) {
	cpu.journalCsrAccess(ins.Csr)
	old := cpu.CSR.Get(ins.Csr)
	rs1 := cpu.Regs.Get(ins.Rs1)
	switch ins.Op {
	case OpCSRRW:
		cpu.CSR.Set(ins.Csr, rs1)
	case OpCSRRS:
		if ins.Rs1 != RegZero {
			cpu.CSR.Set(ins.Csr, old|rs1)
		}
	case OpCSRRC:
		if ins.Rs1 != RegZero {
			cpu.CSR.Set(ins.Csr, old&^rs1)
		}
	}
	cpu.Regs.Set(ins.Rd, old)
	cpu.PC += 4
}

// execCSRImmNoop handles CSRRWI and CSRRCI, which the board's ROM does not
// implement: the decoder recognizes them but execution is a no-op beyond
// advancing PC and noting it in the journal.
func (cpu *CPU) execCSRImmNoop(ins Instruction) {
	cpu.journal(journal.InstructionNotImplemented, fmt.Sprintf("raw=0x%08x", ins.Raw))
	cpu.PC += 4
}

// execCSRRSI implements the DTEK-V divergence: the 5-bit immediate is a
// bit index, not a bitmask, so the CSR is OR'd with 1<<imm rather than
// with the immediate's value directly.
func (cpu *CPU) execCSRRSI(ins Instruction) {
	cpu.journalCsrAccess(ins.Csr)
	old := cpu.CSR.Get(ins.Csr)
	cpu.CSR.Set(ins.Csr, old|(1<<ins.Zimm))
	cpu.Regs.Set(ins.Rd, old)
	cpu.PC += 4
}

func (cpu *CPU) execECALL() {
	cpu.PC += 4
	cpu.trap(InterruptSignal{Cause: CauseEnvironmentCallFromMMode})
}
