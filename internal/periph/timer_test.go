package periph

import "testing"

func TestTimerCountsDownAndLatchesTimeout(t *testing.T) {
	tm := NewTimer(1000) // 1000 Hz, so 1 cycle per ms, for easy arithmetic
	tm.Store(0x08, 4, 10) // PERIOD_LOW = 10 cycles
	tm.Store(0x04, 4, timerControlStart)

	tm.UpdateClock(0) // establishes the baseline, no elapsed time yet
	tm.UpdateClock(5) // 5ms elapsed -> 5 cycles, below period
	if tm.status&timerStatusTimeOut != 0 {
		t.Fatal("TIME_OUT set before period elapsed")
	}

	tm.UpdateClock(11) // 6 more ms -> accumulator reaches 11 >= 10
	if tm.status&timerStatusTimeOut == 0 {
		t.Fatal("TIME_OUT not set after period elapsed")
	}
	if tm.status&timerStatusRunning != 0 {
		t.Fatal("timer without CONT should stop once TIME_OUT is latched")
	}
}

func TestTimerContinuousMode(t *testing.T) {
	tm := NewTimer(1000)
	tm.Store(0x08, 4, 10)
	tm.Store(0x04, 4, timerControlStart|timerControlCont)

	tm.UpdateClock(0)
	tm.UpdateClock(10)
	if tm.status&timerStatusRunning == 0 {
		t.Fatal("CONT timer should keep running after a timeout")
	}
}

func TestTimerInterruptRequiresIRQEnable(t *testing.T) {
	tm := NewTimer(1000)
	tm.Store(0x08, 4, 1)
	tm.Store(0x04, 4, timerControlStart)
	tm.UpdateClock(0)
	tm.UpdateClock(5)

	if _, pending := tm.PollInterrupt(); pending {
		t.Fatal("no interrupt expected without IRQ enable bit set")
	}

	tm.Store(0x04, 4, timerControlStart|timerControlIRQ)
	sig, pending := tm.PollInterrupt()
	if !pending || sig.Cause != 16 || !sig.External {
		t.Fatalf("expected external timer interrupt, got sig=%+v pending=%v", sig, pending)
	}
}

func TestTimerStatusAckClearsTimeout(t *testing.T) {
	tm := NewTimer(1000)
	tm.Store(0x08, 4, 1)
	tm.Store(0x04, 4, timerControlStart)
	tm.UpdateClock(0)
	tm.UpdateClock(5)

	if tm.status&timerStatusTimeOut == 0 {
		t.Fatal("expected TIME_OUT to be set")
	}
	tm.Store(0x00, 4, timerStatusTimeOut) // ack
	if tm.status&timerStatusTimeOut != 0 {
		t.Fatal("writing 1 to TIME_OUT should clear the sticky bit")
	}
}
