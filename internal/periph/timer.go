package periph

import "github.com/dtek-v/rv32emu/internal/core"

const (
	timerOffStatus     = 0x00
	timerOffControl    = 0x04
	timerOffPeriodLow  = 0x08
	timerOffPeriodHigh = 0x0C
	timerSize          = 0x20
)

const (
	timerStatusTimeOut = 1 << 0
	timerStatusRunning = 1 << 1

	timerControlIRQ   = 1 << 0
	timerControlCont  = 1 << 1
	timerControlStart = 1 << 2
	timerControlStop  = 1 << 3
)

// Timer models the board's countdown timer. It has no notion of wall
// clock time on its own: a host drives it with UpdateClock(ms), converting
// elapsed milliseconds into elapsed chip cycles at the configured nominal
// clock frequency.
type Timer struct {
	status     uint32
	control    uint32
	periodLow  uint32
	periodHigh uint32

	accumulator uint64
	lastMs      uint64
	haveLastMs  bool

	clockHz uint32
}

// NewTimer creates a stopped timer driven at clockHz (nominally 30MHz on
// the real board).
func NewTimer(clockHz uint32) *Timer {
	return &Timer{clockHz: clockHz}
}

func (t *Timer) Size() uint32 { return timerSize }

func (t *Timer) Load(offset uint32, size int) uint32 {
	switch offset &^ 0x3 {
	case timerOffStatus:
		return loadFromWord(t.status, offset&0x3, size)
	case timerOffControl:
		return loadFromWord(t.control, offset&0x3, size)
	case timerOffPeriodLow:
		return loadFromWord(t.periodLow, offset&0x3, size)
	case timerOffPeriodHigh:
		return loadFromWord(t.periodHigh, offset&0x3, size)
	default:
		return 0
	}
}

func (t *Timer) Store(offset uint32, size int, value uint32) {
	switch offset &^ 0x3 {
	case timerOffStatus:
		written := storeIntoWord(0, offset&0x3, size, value)
		// Writing a 1 to TIME_OUT clears the sticky bit; RUNNING is
		// read-only from software.
		if written&timerStatusTimeOut != 0 {
			t.status &^= timerStatusTimeOut
		}
	case timerOffControl:
		t.control = storeIntoWord(t.control, offset&0x3, size, value)
		if t.control&timerControlStop != 0 {
			t.status &^= timerStatusRunning
		} else if t.control&timerControlStart != 0 {
			t.status |= timerStatusRunning
			t.accumulator = 0
		}
	case timerOffPeriodLow:
		t.periodLow = storeIntoWord(t.periodLow, offset&0x3, size, value)
	case timerOffPeriodHigh:
		t.periodHigh = storeIntoWord(t.periodHigh, offset&0x3, size, value)
	}
}

// UpdateClock advances the timer's internal accumulator given the current
// wall-clock millisecond count. When running, elapsed milliseconds are
// converted to elapsed chip cycles; reaching PERIOD sets TIME_OUT and
// either wraps (CONT set) or stops the timer.
func (t *Timer) UpdateClock(nowMs uint64) {
	if !t.haveLastMs {
		t.lastMs = nowMs
		t.haveLastMs = true
		return
	}
	elapsedMs := nowMs - t.lastMs
	t.lastMs = nowMs
	if t.status&timerStatusRunning == 0 {
		return
	}
	cyclesPerMs := uint64(t.clockHz) / 1000
	t.accumulator += cyclesPerMs * elapsedMs

	period := t.period()
	if period == 0 {
		return
	}
	if t.accumulator >= period {
		t.status |= timerStatusTimeOut
		if t.control&timerControlCont != 0 {
			t.accumulator %= period
		} else {
			t.accumulator = 0
			t.status &^= timerStatusRunning
		}
	}
}

// period returns the effective 32-bit timeout period, formed from the low
// 16 bits of PERIOD_LOW (bits 0..15) and the low 16 bits of PERIOD_HIGH
// (bits 16..31), mirroring the original hardware's two-half period register.
func (t *Timer) period() uint64 {
	return uint64(t.periodLow&0xFFFF) | uint64(t.periodHigh&0xFFFF)<<16
}

// PollInterrupt implements core.InterruptSource.
func (t *Timer) PollInterrupt() (core.InterruptSignal, bool) {
	if t.status&timerStatusTimeOut != 0 && t.control&timerControlIRQ != 0 {
		return core.InterruptSignal{Cause: core.CauseTimerInterrupt, External: true}, true
	}
	return core.InterruptSignal{}, false
}
