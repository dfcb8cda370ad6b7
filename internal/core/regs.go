// Package core implements the DTEK-V RV32IM decode/execute/bus core: the
// instruction decoder, the integer register file, the CSR block, the
// execute unit (including trap handling and the instruction cache), and
// the memory-mapped bus that dispatches to peripherals.
package core

import "fmt"

// Reg is a register index in the range 0..31. Register 0 is hard-wired to
// zero by the register file; the type itself does not enforce the range,
// callers derived from decode are already bounded by the 5-bit field they
// came from.
type Reg uint8

// Mnemonic names for the 32 integer registers, matching the ABI names the
// board's toolchain assembles against.
const (
	RegZero Reg = 0
	RegRA   Reg = 1
	RegSP   Reg = 2
	RegGP   Reg = 3
	RegTP   Reg = 4
	RegT0   Reg = 5
	RegT1   Reg = 6
	RegT2   Reg = 7
	RegS0   Reg = 8
	RegS1   Reg = 9
	RegA0   Reg = 10
	RegA1   Reg = 11
	RegA2   Reg = 12
	RegA3   Reg = 13
	RegA4   Reg = 14
	RegA5   Reg = 15
	RegA6   Reg = 16
	RegA7   Reg = 17
	RegS2   Reg = 18
	RegS3   Reg = 19
	RegS4   Reg = 20
	RegS5   Reg = 21
	RegS6   Reg = 22
	RegS7   Reg = 23
	RegS8   Reg = 24
	RegS9   Reg = 25
	RegS10  Reg = 26
	RegS11  Reg = 27
	RegT3   Reg = 28
	RegT4   Reg = 29
	RegT5   Reg = 30
	RegT6   Reg = 31
)

var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// String returns the ABI mnemonic for the register, e.g. "a0".
func (r Reg) String() string {
	if int(r) < len(regNames) {
		return regNames[r]
	}
	return fmt.Sprintf("x%d", r)
}

// RegisterFile holds the 32 architectural integer registers. Register 0
// always reads as zero; writes to it are discarded.
type RegisterFile struct {
	x [32]uint32
}

// Get reads a register.
func (rf *RegisterFile) Get(r Reg) uint32 {
	if r == RegZero {
		return 0
	}
	return rf.x[r]
}

// Set writes a register. Writes to register 0 are silently discarded.
func (rf *RegisterFile) Set(r Reg, v uint32) {
	if r == RegZero {
		return
	}
	rf.x[r] = v
}

// Reset clears registers 1..31 to zero.
func (rf *RegisterFile) Reset() {
	for i := range rf.x {
		rf.x[i] = 0
	}
}
