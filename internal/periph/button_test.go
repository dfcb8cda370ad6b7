package periph

import "testing"

func TestButtonDataReadOnly(t *testing.T) {
	b := NewButton()
	b.Set(true)

	if got := b.Load(0, 1); got != 1 {
		t.Fatalf("DATA byte 0 = %d, want 1 when pressed", got)
	}

	b.Store(0, 1, 0) // software cannot clear DATA directly
	if got := b.Load(0, 1); got != 1 {
		t.Fatalf("DATA store should be ignored, still want 1, got %d", got)
	}
}

func TestButtonEdgeCaptureAndInterrupt(t *testing.T) {
	b := NewButton()

	if _, pending := b.PollInterrupt(); pending {
		t.Fatal("no interrupt expected before any press or mask set")
	}

	b.Store(0x8, 4, 1) // INTERRUPT_MASK bit 0
	b.Set(true)        // press latches edge_cap bit 0

	sig, pending := b.PollInterrupt()
	if !pending {
		t.Fatal("expected a pending button interrupt after press with mask set")
	}
	if sig.Cause != 18 || !sig.External {
		t.Fatalf("unexpected signal %+v", sig)
	}

	b.Store(0xC, 4, 0) // software acknowledges by writing 0 to EDGE_CAP
	if _, pending := b.PollInterrupt(); pending {
		t.Fatal("interrupt should clear once edge_cap is acknowledged")
	}
}
