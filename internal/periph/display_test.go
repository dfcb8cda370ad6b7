package periph

import "testing"

func TestHexDisplayStrideAndReadback(t *testing.T) {
	h := NewHexDisplay()
	h.Store(0x00, 1, 0x90) // display 0
	h.Store(0x10, 1, 0x3F) // display 1
	h.Store(0x51, 1, 0xFF) // non-zero byte within display 5's stride, ignored

	if got := h.Get(0); got != 0x90 {
		t.Fatalf("display 0 = 0x%02x, want 0x90", got)
	}
	if got := h.Get(1); got != 0x3F {
		t.Fatalf("display 1 = 0x%02x, want 0x3f", got)
	}
	if got := h.Get(5); got != 0 {
		t.Fatalf("display 5 = 0x%02x, want 0 (write was to a non-zero byte offset)", got)
	}
	if got := h.Load(0x00, 1); got != 0 {
		t.Fatalf("hex display loads should always read 0, got %d", got)
	}
}

func TestLEDStripMasksUpperBits(t *testing.T) {
	l := NewLEDStrip()
	l.Store(0, 4, 0xFFFFFFFF)

	if got := l.Lamps(); got != 0x3FF {
		t.Fatalf("lamps = 0x%x, want 0x3ff (only 10 bits significant)", got)
	}
	if got := l.Load(0, 4); got != 0 {
		t.Fatalf("LED strip loads should always read 0, got %d", got)
	}
}
