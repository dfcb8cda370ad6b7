package core

import "fmt"

// CSRAddr is a control-and-status register address in the range 0..4095.
type CSRAddr uint16

// MaxCSR is the highest representable CSR address.
const MaxCSR CSRAddr = 0xFFF

// The CSRs the DTEK-V board's ROM and the execute unit actually give
// meaning to. Everything else is storage-only.
const (
	CSRMstatus CSRAddr = 0x300
	CSRMie     CSRAddr = 0x304
	CSRMtvec   CSRAddr = 0x305
	CSRMepc    CSRAddr = 0x341
	CSRMcause  CSRAddr = 0x342
)

// Performance-counter CSRs that are valid addresses (reads/writes succeed)
// but carry no emulated behavior beyond storing whatever was last written.
// Named here, rather than left as bare hex, so debug-journal entries and
// test programs can refer to them by mnemonic.
const (
	CSRMcycle        CSRAddr = 0xB00
	CSRMcycleH       CSRAddr = 0xB80
	CSRMinstret      CSRAddr = 0xB02
	CSRMinstretH     CSRAddr = 0xB82
	CSRMhpmcounter3  CSRAddr = 0xB03
	CSRMhpmcounter4  CSRAddr = 0xB04
	CSRMhpmcounter5  CSRAddr = 0xB05
	CSRMhpmcounter6  CSRAddr = 0xB06
	CSRMhpmcounter7  CSRAddr = 0xB07
	CSRMhpmcounter8  CSRAddr = 0xB08
	CSRMhpmcounter9  CSRAddr = 0xB09
	CSRMhpmcounter3H CSRAddr = 0xB83
	CSRMhpmcounter4H CSRAddr = 0xB84
	CSRMhpmcounter5H CSRAddr = 0xB85
	CSRMhpmcounter6H CSRAddr = 0xB86
	CSRMhpmcounter7H CSRAddr = 0xB87
	CSRMhpmcounter8H CSRAddr = 0xB88
	CSRMhpmcounter9H CSRAddr = 0xB89
)

var csrNames = map[CSRAddr]string{
	CSRMstatus:       "mstatus",
	CSRMie:           "mie",
	CSRMtvec:         "mtvec",
	CSRMepc:          "mepc",
	CSRMcause:        "mcause",
	CSRMcycle:        "mcycle",
	CSRMcycleH:       "mcycleh",
	CSRMinstret:      "minstret",
	CSRMinstretH:     "minstreth",
	CSRMhpmcounter3:  "mhpmcounter3",
	CSRMhpmcounter4:  "mhpmcounter4",
	CSRMhpmcounter5:  "mhpmcounter5",
	CSRMhpmcounter6:  "mhpmcounter6",
	CSRMhpmcounter7:  "mhpmcounter7",
	CSRMhpmcounter8:  "mhpmcounter8",
	CSRMhpmcounter9:  "mhpmcounter9",
	CSRMhpmcounter3H: "mhpmcounter3h",
	CSRMhpmcounter4H: "mhpmcounter4h",
	CSRMhpmcounter5H: "mhpmcounter5h",
	CSRMhpmcounter6H: "mhpmcounter6h",
	CSRMhpmcounter7H: "mhpmcounter7h",
	CSRMhpmcounter8H: "mhpmcounter8h",
	CSRMhpmcounter9H: "mhpmcounter9h",
}

// Name returns the CSR's mnemonic if known, or a hex fallback.
func (c CSRAddr) Name() string {
	if name, ok := csrNames[c]; ok {
		return name
	}
	return fmt.Sprintf("0x%03x", uint16(c))
}

// mstatus bit positions used by the trap path.
const (
	mstatusMIEBit  = 3
	mstatusMPIEBit = 7
)

// meaningfullyEmulated reports whether the execute unit attaches behavior
// to this CSR beyond plain storage. Mirrors the original's classification
// of CSRs into "live" vs "valid but inert."
func meaningfullyEmulated(c CSRAddr) bool {
	switch c {
	case CSRMstatus, CSRMie, CSRMtvec, CSRMepc, CSRMcause:
		return true
	default:
		return false
	}
}

// CSRBlock is a flat array of 4096 32-bit CSR slots.
type CSRBlock struct {
	csrs [4096]uint32
}

// Get reads a CSR. Every address in range is readable; CSRs with no
// emulated behavior simply return whatever was last stored (zero initially).
func (b *CSRBlock) Get(c CSRAddr) uint32 {
	return b.csrs[c&0xFFF]
}

// Set writes a CSR unconditionally.
func (b *CSRBlock) Set(c CSRAddr, v uint32) {
	b.csrs[c&0xFFF] = v
}

// Reset clears every CSR slot.
func (b *CSRBlock) Reset() {
	for i := range b.csrs {
		b.csrs[i] = 0
	}
}

// MIE reports the mstatus.MIE bit (machine interrupt enable).
func (b *CSRBlock) MIE() bool {
	return b.Get(CSRMstatus)&(1<<mstatusMIEBit) != 0
}

// SetMIE sets or clears mstatus.MIE.
func (b *CSRBlock) SetMIE(on bool) {
	v := b.Get(CSRMstatus)
	if on {
		v |= 1 << mstatusMIEBit
	} else {
		v &^= 1 << mstatusMIEBit
	}
	b.Set(CSRMstatus, v)
}

// MPIE reports the mstatus.MPIE bit (prior MIE, saved across a trap).
func (b *CSRBlock) MPIE() bool {
	return b.Get(CSRMstatus)&(1<<mstatusMPIEBit) != 0
}

// SetMPIE sets or clears mstatus.MPIE.
func (b *CSRBlock) SetMPIE(on bool) {
	v := b.Get(CSRMstatus)
	if on {
		v |= 1 << mstatusMPIEBit
	} else {
		v &^= 1 << mstatusMPIEBit
	}
	b.Set(CSRMstatus, v)
}

// MIEMasked reports whether mie has the bit for the given external cause set.
func (b *CSRBlock) MIEMasked(cause uint32) bool {
	return b.Get(CSRMie)&(1<<cause) != 0
}
