package periph

import "github.com/dtek-v/rv32emu/internal/core"

const (
	switchOffData    = 0x0
	switchOffDir     = 0x4
	switchOffIntMask = 0x8
	switchOffEdgeCap = 0xC
	switchSize       = 0x10
	switchMask       = 0x3FF // 10 switches
)

// Switches models the board's ten-position switch bank: same four-word
// register layout as Button, with a bit per switch instead of a single
// pressed flag.
type Switches struct {
	state         uint32
	interruptMask uint32
	edgeCap       uint32
}

// NewSwitches creates a switch bank with every switch off.
func NewSwitches() *Switches {
	return &Switches{}
}

func (s *Switches) Size() uint32 { return switchSize }

func (s *Switches) Load(offset uint32, size int) uint32 {
	switch offset &^ 0x3 {
	case switchOffData:
		return loadFromWord(s.state&switchMask, offset&0x3, size)
	case switchOffIntMask:
		return loadFromWord(s.interruptMask, offset&0x3, size)
	case switchOffEdgeCap:
		return loadFromWord(s.edgeCap, offset&0x3, size)
	default:
		return 0
	}
}

func (s *Switches) Store(offset uint32, size int, value uint32) {
	switch offset &^ 0x3 {
	case switchOffData, switchOffDir:
		// Switch positions are driven externally; software cannot write them.
	case switchOffIntMask:
		s.interruptMask = storeIntoWord(s.interruptMask, offset&0x3, size, value)
	case switchOffEdgeCap:
		s.edgeCap = storeIntoWord(s.edgeCap, offset&0x3, size, value)
	}
}

// Set toggles switch index (0..9) and latches that switch's edge-capture
// bit, so a program masking in only one switch's interrupt still observes
// edges on it.
func (s *Switches) Set(index int, on bool) {
	if index < 0 || index > 9 {
		return
	}
	bit := uint32(1) << uint(index)
	if on {
		s.state |= bit
	} else {
		s.state &^= bit
	}
	s.edgeCap |= bit
}

// State returns the current switch bank, bits 0..9 meaningful.
func (s *Switches) State() uint32 { return s.state & switchMask }

// PollInterrupt implements core.InterruptSource.
func (s *Switches) PollInterrupt() (core.InterruptSignal, bool) {
	if s.edgeCap&s.interruptMask != 0 {
		return core.InterruptSignal{Cause: core.CauseSwitchInterrupt, External: true}, true
	}
	return core.InterruptSignal{}, false
}
