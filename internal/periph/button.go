package periph

import "github.com/dtek-v/rv32emu/internal/core"

const (
	buttonOffData    = 0x0
	buttonOffDir     = 0x4
	buttonOffIntMask = 0x8
	buttonOffEdgeCap = 0xC
	buttonSize       = 0x10
)

// Button models the board's single pushbutton: a DATA/DIRECTION/
// INTERRUPT_MASK/EDGE_CAP four-word register block with a sticky
// edge-capture latch and an externally driven Set API.
type Button struct {
	pressed       bool
	interruptMask uint32
	edgeCap       uint32
}

// NewButton creates a button in the released state.
func NewButton() *Button {
	return &Button{}
}

func (b *Button) Size() uint32 { return buttonSize }

func (b *Button) Load(offset uint32, size int) uint32 {
	switch offset &^ 0x3 {
	case buttonOffData:
		var data uint32
		if b.pressed {
			data = 1
		}
		return loadFromWord(data, offset&0x3, size)
	case buttonOffIntMask:
		return loadFromWord(b.interruptMask, offset&0x3, size)
	case buttonOffEdgeCap:
		return loadFromWord(b.edgeCap, offset&0x3, size)
	default:
		return 0
	}
}

func (b *Button) Store(offset uint32, size int, value uint32) {
	switch offset &^ 0x3 {
	case buttonOffData, buttonOffDir:
		// Direction is fixed by hardware; DATA is read-only from software.
	case buttonOffIntMask:
		b.interruptMask = storeIntoWord(b.interruptMask, offset&0x3, size, value)
	case buttonOffEdgeCap:
		b.edgeCap = storeIntoWord(b.edgeCap, offset&0x3, size, value)
	}
}

// Set updates the pressed state and latches the edge-capture bit,
// mirroring a real button press/release observed by the board.
func (b *Button) Set(pressed bool) {
	b.pressed = pressed
	b.edgeCap |= 1
}

// Pressed reports the button's current state, for host-side observation.
func (b *Button) Pressed() bool { return b.pressed }

// PollInterrupt implements core.InterruptSource.
func (b *Button) PollInterrupt() (core.InterruptSignal, bool) {
	if b.edgeCap&b.interruptMask != 0 {
		return core.InterruptSignal{Cause: core.CauseButtonInterrupt, External: true}, true
	}
	return core.InterruptSignal{}, false
}
