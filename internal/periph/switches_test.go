package periph

import "testing"

func TestSwitchesDataAndMask(t *testing.T) {
	s := NewSwitches()
	s.Set(0, true)
	s.Set(2, true)
	s.Set(9, true)

	const want = 1<<0 | 1<<2 | 1<<9
	if got := s.Load(0, 4); got != want {
		t.Fatalf("DATA = 0b%b, want 0b%b", got, want)
	}

	// Upper bits beyond the 10 switches always read as zero even if an
	// out-of-range index were somehow latched.
	s.Set(31, true) // out of range, ignored
	if got := s.Load(0, 4); got != want {
		t.Fatalf("DATA after out-of-range Set = 0b%b, want unchanged 0b%b", got, want)
	}
}

func TestSwitchesInterrupt(t *testing.T) {
	s := NewSwitches()
	s.Store(0x8, 4, 1<<5) // enable interrupt mask for switch 5 only
	s.Set(5, true)

	sig, pending := s.PollInterrupt()
	if !pending || sig.Cause != 17 || !sig.External {
		t.Fatalf("expected external switch interrupt, got sig=%+v pending=%v", sig, pending)
	}
}

func TestSwitchesInterruptPerSwitchEdge(t *testing.T) {
	s := NewSwitches()
	s.Store(0x8, 4, 1<<0) // only switch 0's edge is unmasked

	s.Set(5, true) // toggling switch 5 must not latch switch 0's edge bit
	if _, pending := s.PollInterrupt(); pending {
		t.Fatal("switch 5 toggling should not raise an interrupt masked to switch 0's edge")
	}

	s.Set(0, true)
	sig, pending := s.PollInterrupt()
	if !pending || sig.Cause != 17 || !sig.External {
		t.Fatalf("expected external switch interrupt after switch 0's edge, got sig=%+v pending=%v", sig, pending)
	}
}
