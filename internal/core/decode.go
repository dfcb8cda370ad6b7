package core

// Op identifies the semantic operation a decoded instruction performs.
type Op int

const (
	OpIllegal Op = iota

	OpLUI
	OpAUIPC
	OpJAL
	OpJALR

	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU

	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU

	OpSB
	OpSH
	OpSW

	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI

	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND

	OpMUL
	OpMULH
	OpMULHU
	OpMULHSU
	OpDIV
	OpDIVU
	OpREM
	OpREMU

	OpCSRRW
	OpCSRRS
	OpCSRRC
	OpCSRRWI
	OpCSRRSI
	OpCSRRCI

	OpECALL
	OpMRET
)

// RV32I/M opcode byte values (bits 0..6 of the instruction word).
const (
	opcodeLUI     uint32 = 0x37
	opcodeAUIPC   uint32 = 0x17
	opcodeJAL     uint32 = 0x6F
	opcodeJALR    uint32 = 0x67
	opcodeBranch  uint32 = 0x63
	opcodeLoad    uint32 = 0x03
	opcodeStore   uint32 = 0x23
	opcodeOpImm   uint32 = 0x13
	opcodeOp      uint32 = 0x33
	opcodeSystem  uint32 = 0x73
)

// MRET and ECALL are distinguished within opcodeSystem by their full raw
// encoding rather than by a funct3/funct7 split; the board ROM only ever
// emits these two exact words for the SYSTEM opcode.
const (
	rawECALL uint32 = 0x00000073
	rawMRET  uint32 = 0x30200073
)

func opcodeOf(w uint32) uint32 { return w & 0x7F }
func rdOf(w uint32) Reg        { return Reg((w >> 7) & 0x1F) }
func funct3Of(w uint32) uint32 { return (w >> 12) & 0x7 }
func rs1Of(w uint32) Reg       { return Reg((w >> 15) & 0x1F) }
func rs2Of(w uint32) Reg       { return Reg((w >> 20) & 0x1F) }
func funct7Of(w uint32) uint32 { return (w >> 25) & 0x7F }
func shamtOf(w uint32) uint32  { return (w >> 20) & 0x1F }
func csrOf(w uint32) CSRAddr   { return CSRAddr(w >> 20) }
func zimmOf(w uint32) uint32   { return (w >> 15) & 0x1F }

func signExtend(v uint32, bits int) int32 {
	shift := uint(32 - bits)
	return int32(v<<shift) >> shift
}

// immI extracts the I-type immediate: bits 31..20, sign-extended.
func immI(w uint32) int32 {
	return signExtend(w>>20, 12)
}

// immS extracts the S-type immediate: bits 31..25 | 11..7, sign-extended.
func immS(w uint32) int32 {
	v := ((w >> 25) << 5) | ((w >> 7) & 0x1F)
	return signExtend(v, 12)
}

// immB extracts the B-type immediate: a multiple of 2 within +-4KiB.
func immB(w uint32) int32 {
	v := (((w >> 31) & 1) << 12) |
		(((w >> 7) & 1) << 11) |
		(((w >> 25) & 0x3F) << 5) |
		(((w >> 8) & 0xF) << 1)
	return signExtend(v, 13)
}

// immU extracts the U-type immediate: bits 31..12 placed in the upper bits.
func immU(w uint32) int32 {
	return int32(w & 0xFFFFF000)
}

// immJ extracts the J-type immediate: a multiple of 2 within +-1MiB.
func immJ(w uint32) int32 {
	v := (((w >> 31) & 1) << 20) |
		(((w >> 12) & 0xFF) << 12) |
		(((w >> 20) & 1) << 11) |
		(((w >> 21) & 0x3FF) << 1)
	return signExtend(v, 21)
}

// Instruction is a decoded instruction. Only the fields relevant to Op are
// filled in; the rest stay zero (e.g. Rs2 for an I-type instruction).
type Instruction struct {
	Op     Op
	Rd     Reg
	Rs1    Reg
	Rs2    Reg
	Imm    int32
	Shamt  uint32
	Csr    CSRAddr
	Zimm   uint32
	Raw    uint32
}

// Decode parses a 32-bit word into a decoded instruction. Anything not in
// the supported RV32IM + Zicsr + MRET/ECALL subset decodes as OpIllegal.
func Decode(w uint32) Instruction {
	ins := Instruction{Raw: w}

	switch opcodeOf(w) {
	case opcodeLUI:
		ins.Op = OpLUI
		ins.Rd = rdOf(w)
		ins.Imm = immU(w)
	case opcodeAUIPC:
		ins.Op = OpAUIPC
		ins.Rd = rdOf(w)
		ins.Imm = immU(w)
	case opcodeJAL:
		ins.Op = OpJAL
		ins.Rd = rdOf(w)
		ins.Imm = immJ(w)
	case opcodeJALR:
		if funct3Of(w) != 0 {
			ins.Op = OpIllegal
			return ins
		}
		ins.Op = OpJALR
		ins.Rd, ins.Rs1 = rdOf(w), rs1Of(w)
		ins.Imm = immI(w)
	case opcodeBranch:
		ins.Rs1, ins.Rs2 = rs1Of(w), rs2Of(w)
		ins.Imm = immB(w)
		switch funct3Of(w) {
		case 0x0:
			ins.Op = OpBEQ
		case 0x1:
			ins.Op = OpBNE
		case 0x4:
			ins.Op = OpBLT
		case 0x5:
			ins.Op = OpBGE
		case 0x6:
			ins.Op = OpBLTU
		case 0x7:
			ins.Op = OpBGEU
		default:
			ins.Op = OpIllegal
		}
	case opcodeLoad:
		ins.Rd, ins.Rs1 = rdOf(w), rs1Of(w)
		ins.Imm = immI(w)
		switch funct3Of(w) {
		case 0x0:
			ins.Op = OpLB
		case 0x1:
			ins.Op = OpLH
		case 0x2:
			ins.Op = OpLW
		case 0x4:
			ins.Op = OpLBU
		case 0x5:
			ins.Op = OpLHU
		default:
			ins.Op = OpIllegal
		}
	case opcodeStore:
		ins.Rs1, ins.Rs2 = rs1Of(w), rs2Of(w)
		ins.Imm = immS(w)
		switch funct3Of(w) {
		case 0x0:
			ins.Op = OpSB
		case 0x1:
			ins.Op = OpSH
		case 0x2:
			ins.Op = OpSW
		default:
			ins.Op = OpIllegal
		}
	case opcodeOpImm:
		ins.Rd, ins.Rs1 = rdOf(w), rs1Of(w)
		ins.Imm = immI(w)
		if f3 := funct3Of(w); f3 == 0x1 || f3 == 0x5 {
			ins.Shamt = shamtOf(w)
		}
		switch funct3Of(w) {
		case 0x0:
			ins.Op = OpADDI
		case 0x2:
			ins.Op = OpSLTI
		case 0x3:
			ins.Op = OpSLTIU
		case 0x4:
			ins.Op = OpXORI
		case 0x6:
			ins.Op = OpORI
		case 0x7:
			ins.Op = OpANDI
		case 0x1:
			if funct7Of(w) == 0x00 {
				ins.Op = OpSLLI
			} else {
				ins.Op = OpIllegal
			}
		case 0x5:
			switch funct7Of(w) {
			case 0x00:
				ins.Op = OpSRLI
			case 0x20:
				ins.Op = OpSRAI
			default:
				ins.Op = OpIllegal
			}
		default:
			ins.Op = OpIllegal
		}
	case opcodeOp:
		ins.Rd, ins.Rs1, ins.Rs2 = rdOf(w), rs1Of(w), rs2Of(w)
		f3, f7 := funct3Of(w), funct7Of(w)
		switch {
		case f7 == 0x01:
			switch f3 {
			case 0x0:
				ins.Op = OpMUL
			case 0x1:
				ins.Op = OpMULH
			case 0x2:
				ins.Op = OpMULHSU
			case 0x3:
				ins.Op = OpMULHU
			case 0x4:
				ins.Op = OpDIV
			case 0x5:
				ins.Op = OpDIVU
			case 0x6:
				ins.Op = OpREM
			case 0x7:
				ins.Op = OpREMU
			default:
				ins.Op = OpIllegal
			}
		case f7 == 0x20 && f3 != 0x0 && f3 != 0x5:
			ins.Op = OpIllegal
		case f7 == 0x00 || f7 == 0x20:
			switch f3 {
			case 0x0:
				if f7 == 0x20 {
					ins.Op = OpSUB
				} else {
					ins.Op = OpADD
				}
			case 0x1:
				ins.Op = OpSLL
			case 0x2:
				ins.Op = OpSLT
			case 0x3:
				ins.Op = OpSLTU
			case 0x4:
				ins.Op = OpXOR
			case 0x5:
				if f7 == 0x20 {
					ins.Op = OpSRA
				} else {
					ins.Op = OpSRL
				}
			case 0x6:
				ins.Op = OpOR
			case 0x7:
				ins.Op = OpAND
			default:
				ins.Op = OpIllegal
			}
		default:
			ins.Op = OpIllegal
		}
	case opcodeSystem:
		switch w {
		case rawECALL:
			ins.Op = OpECALL
		case rawMRET:
			ins.Op = OpMRET
		default:
			ins.Csr = csrOf(w)
			ins.Rd, ins.Rs1 = rdOf(w), rs1Of(w)
			switch funct3Of(w) {
			case 0x1:
				ins.Op = OpCSRRW
			case 0x2:
				ins.Op = OpCSRRS
			case 0x3:
				ins.Op = OpCSRRC
			case 0x5:
				ins.Op = OpCSRRWI
				ins.Zimm = zimmOf(w)
			case 0x6:
				ins.Op = OpCSRRSI
				ins.Zimm = zimmOf(w)
			case 0x7:
				ins.Op = OpCSRRCI
				ins.Zimm = zimmOf(w)
			default:
				ins.Op = OpIllegal
			}
		}
	default:
		ins.Op = OpIllegal
	}

	return ins
}
