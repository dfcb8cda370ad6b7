// Package rvasm assembles raw RV32IM instruction words for use in tests.
// It is the inverse of internal/core's decoder: where Decode turns a word
// into an Instruction, these helpers turn a mnemonic and its operands
// into the word Decode expects.
package rvasm

// Reg is a bare register index, matching core.Reg without importing core
// (kept dependency-free so it can be used from any package's tests).
type Reg uint32

const (
	Zero Reg = 0
	RA   Reg = 1
	SP   Reg = 2
	GP   Reg = 3
	TP   Reg = 4
	T0   Reg = 5
	T1   Reg = 6
	T2   Reg = 7
	S0   Reg = 8
	S1   Reg = 9
	A0   Reg = 10
	A1   Reg = 11
	A2   Reg = 12
	A3   Reg = 13
	A4   Reg = 14
	A5   Reg = 15
	A6   Reg = 16
	A7   Reg = 17
	S2   Reg = 18
	T3   Reg = 28
	T4   Reg = 29
	T5   Reg = 30
	T6   Reg = 31
)

const (
	opLUI    = 0x37
	opAUIPC  = 0x17
	opJAL    = 0x6F
	opJALR   = 0x67
	opBranch = 0x63
	opLoad   = 0x03
	opStore  = 0x23
	opOpImm  = 0x13
	opOp     = 0x33
	opSystem = 0x73
)

func r(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return (funct7 << 25) | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

func i(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return (uint32(imm)<<20)&0xFFF00000 | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

func s(funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return ((u>>5)&0x7F)<<25 | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | ((u & 0x1F) << 7) | opStore
}

func b(funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	bit12 := (u >> 12) & 1
	bit11 := (u >> 11) & 1
	bits10_5 := (u >> 5) & 0x3F
	bits4_1 := (u >> 1) & 0xF
	return bit12<<31 | bits10_5<<25 | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | bits4_1<<8 | bit11<<7 | opBranch
}

func u(opcode, rd uint32, imm int32) uint32 {
	return (uint32(imm) & 0xFFFFF000) | (rd << 7) | opcode
}

func j(rd uint32, imm int32) uint32 {
	u32 := uint32(imm)
	bit20 := (u32 >> 20) & 1
	bits10_1 := (u32 >> 1) & 0x3FF
	bit11 := (u32 >> 11) & 1
	bits19_12 := (u32 >> 12) & 0xFF
	return bit20<<31 | bits10_1<<21 | bit11<<20 | bits19_12<<12 | (rd << 7) | opJAL
}

func LUI(rd Reg, imm int32) uint32   { return u(opLUI, uint32(rd), imm) }
func AUIPC(rd Reg, imm int32) uint32 { return u(opAUIPC, uint32(rd), imm) }
func JAL(rd Reg, imm int32) uint32   { return j(uint32(rd), imm) }
func JALR(rd, rs1 Reg, imm int32) uint32 {
	return i(opJALR, uint32(rd), 0x0, uint32(rs1), imm)
}

func BEQ(rs1, rs2 Reg, imm int32) uint32  { return b(0x0, uint32(rs1), uint32(rs2), imm) }
func BNE(rs1, rs2 Reg, imm int32) uint32  { return b(0x1, uint32(rs1), uint32(rs2), imm) }
func BLT(rs1, rs2 Reg, imm int32) uint32  { return b(0x4, uint32(rs1), uint32(rs2), imm) }
func BGE(rs1, rs2 Reg, imm int32) uint32  { return b(0x5, uint32(rs1), uint32(rs2), imm) }
func BLTU(rs1, rs2 Reg, imm int32) uint32 { return b(0x6, uint32(rs1), uint32(rs2), imm) }
func BGEU(rs1, rs2 Reg, imm int32) uint32 { return b(0x7, uint32(rs1), uint32(rs2), imm) }

func LB(rd, rs1 Reg, imm int32) uint32  { return i(opLoad, uint32(rd), 0x0, uint32(rs1), imm) }
func LH(rd, rs1 Reg, imm int32) uint32  { return i(opLoad, uint32(rd), 0x1, uint32(rs1), imm) }
func LW(rd, rs1 Reg, imm int32) uint32  { return i(opLoad, uint32(rd), 0x2, uint32(rs1), imm) }
func LBU(rd, rs1 Reg, imm int32) uint32 { return i(opLoad, uint32(rd), 0x4, uint32(rs1), imm) }
func LHU(rd, rs1 Reg, imm int32) uint32 { return i(opLoad, uint32(rd), 0x5, uint32(rs1), imm) }

func SB(rs1, rs2 Reg, imm int32) uint32 { return s(0x0, uint32(rs1), uint32(rs2), imm) }
func SH(rs1, rs2 Reg, imm int32) uint32 { return s(0x1, uint32(rs1), uint32(rs2), imm) }
func SW(rs1, rs2 Reg, imm int32) uint32 { return s(0x2, uint32(rs1), uint32(rs2), imm) }

func ADDI(rd, rs1 Reg, imm int32) uint32  { return i(opOpImm, uint32(rd), 0x0, uint32(rs1), imm) }
func SLTI(rd, rs1 Reg, imm int32) uint32  { return i(opOpImm, uint32(rd), 0x2, uint32(rs1), imm) }
func SLTIU(rd, rs1 Reg, imm int32) uint32 { return i(opOpImm, uint32(rd), 0x3, uint32(rs1), imm) }
func XORI(rd, rs1 Reg, imm int32) uint32  { return i(opOpImm, uint32(rd), 0x4, uint32(rs1), imm) }
func ORI(rd, rs1 Reg, imm int32) uint32   { return i(opOpImm, uint32(rd), 0x6, uint32(rs1), imm) }
func ANDI(rd, rs1 Reg, imm int32) uint32  { return i(opOpImm, uint32(rd), 0x7, uint32(rs1), imm) }
func SLLI(rd, rs1 Reg, shamt uint32) uint32 {
	return i(opOpImm, uint32(rd), 0x1, uint32(rs1), int32(shamt))
}
func SRLI(rd, rs1 Reg, shamt uint32) uint32 {
	return i(opOpImm, uint32(rd), 0x5, uint32(rs1), int32(shamt))
}
func SRAI(rd, rs1 Reg, shamt uint32) uint32 {
	return i(opOpImm, uint32(rd), 0x5, uint32(rs1), int32(shamt)|(0x20<<5))
}

func ADD(rd, rs1, rs2 Reg) uint32 { return r(opOp, uint32(rd), 0x0, uint32(rs1), uint32(rs2), 0x00) }
func SUB(rd, rs1, rs2 Reg) uint32 { return r(opOp, uint32(rd), 0x0, uint32(rs1), uint32(rs2), 0x20) }
func SLL(rd, rs1, rs2 Reg) uint32 { return r(opOp, uint32(rd), 0x1, uint32(rs1), uint32(rs2), 0x00) }
func SLT(rd, rs1, rs2 Reg) uint32 { return r(opOp, uint32(rd), 0x2, uint32(rs1), uint32(rs2), 0x00) }
func SLTU(rd, rs1, rs2 Reg) uint32 {
	return r(opOp, uint32(rd), 0x3, uint32(rs1), uint32(rs2), 0x00)
}
func XOR(rd, rs1, rs2 Reg) uint32 { return r(opOp, uint32(rd), 0x4, uint32(rs1), uint32(rs2), 0x00) }
func SRL(rd, rs1, rs2 Reg) uint32 { return r(opOp, uint32(rd), 0x5, uint32(rs1), uint32(rs2), 0x00) }
func SRA(rd, rs1, rs2 Reg) uint32 { return r(opOp, uint32(rd), 0x5, uint32(rs1), uint32(rs2), 0x20) }
func OR(rd, rs1, rs2 Reg) uint32  { return r(opOp, uint32(rd), 0x6, uint32(rs1), uint32(rs2), 0x00) }
func AND(rd, rs1, rs2 Reg) uint32 { return r(opOp, uint32(rd), 0x7, uint32(rs1), uint32(rs2), 0x00) }

func MUL(rd, rs1, rs2 Reg) uint32 { return r(opOp, uint32(rd), 0x0, uint32(rs1), uint32(rs2), 0x01) }
func MULH(rd, rs1, rs2 Reg) uint32 {
	return r(opOp, uint32(rd), 0x1, uint32(rs1), uint32(rs2), 0x01)
}
func MULHSU(rd, rs1, rs2 Reg) uint32 {
	return r(opOp, uint32(rd), 0x2, uint32(rs1), uint32(rs2), 0x01)
}
func MULHU(rd, rs1, rs2 Reg) uint32 {
	return r(opOp, uint32(rd), 0x3, uint32(rs1), uint32(rs2), 0x01)
}
func DIV(rd, rs1, rs2 Reg) uint32 { return r(opOp, uint32(rd), 0x4, uint32(rs1), uint32(rs2), 0x01) }
func DIVU(rd, rs1, rs2 Reg) uint32 {
	return r(opOp, uint32(rd), 0x5, uint32(rs1), uint32(rs2), 0x01)
}
func REM(rd, rs1, rs2 Reg) uint32 { return r(opOp, uint32(rd), 0x6, uint32(rs1), uint32(rs2), 0x01) }
func REMU(rd, rs1, rs2 Reg) uint32 {
	return r(opOp, uint32(rd), 0x7, uint32(rs1), uint32(rs2), 0x01)
}

func CSRRW(rd Reg, csr uint32, rs1 Reg) uint32 {
	return i(opSystem, uint32(rd), 0x1, uint32(rs1), int32(csr))
}
func CSRRS(rd Reg, csr uint32, rs1 Reg) uint32 {
	return i(opSystem, uint32(rd), 0x2, uint32(rs1), int32(csr))
}
func CSRRC(rd Reg, csr uint32, rs1 Reg) uint32 {
	return i(opSystem, uint32(rd), 0x3, uint32(rs1), int32(csr))
}
func CSRRWI(rd Reg, csr uint32, zimm uint32) uint32 {
	return i(opSystem, uint32(rd), 0x5, zimm, int32(csr))
}
func CSRRSI(rd Reg, csr uint32, zimm uint32) uint32 {
	return i(opSystem, uint32(rd), 0x6, zimm, int32(csr))
}
func CSRRCI(rd Reg, csr uint32, zimm uint32) uint32 {
	return i(opSystem, uint32(rd), 0x7, zimm, int32(csr))
}

const ECALL uint32 = 0x00000073
const MRET uint32 = 0x30200073

// NOP is the canonical ADDI x0, x0, 0 encoding.
const NOP uint32 = 0x00000013

// JMP encodes an unconditional jump to a PC-relative offset, discarding
// the return address (rd = x0).
func JMP(imm int32) uint32 { return JAL(Zero, imm) }

// LI loads a small immediate that fits in 12 bits via ADDI against x0.
// Callers needing a full 32-bit constant should emit LUI+ADDI themselves.
func LI(rd Reg, imm int32) uint32 { return ADDI(rd, Zero, imm) }

// MV copies rs1 into rd via ADDI rd, rs1, 0.
func MV(rd, rs1 Reg) uint32 { return ADDI(rd, rs1, 0) }

// LI32 returns the LUI+ADDI pair that loads the full 32-bit value val into
// rd, correcting the upper immediate for ADDI's sign extension the way a
// real assembler does.
func LI32(rd Reg, val uint32) (lui, addi uint32) {
	lo12 := val & 0xFFF
	lo := int32(lo12)
	if lo12&0x800 != 0 {
		lo -= 0x1000
	}
	upper := val - uint32(lo)
	return LUI(rd, int32(upper)), ADDI(rd, rd, lo)
}
