package periph

import "testing"

type spyRenderer struct {
	pixels  map[uint32][3]uint8
	offsets []uint32
}

func newSpyRenderer() *spyRenderer {
	return &spyRenderer{pixels: map[uint32][3]uint8{}}
}

func (s *spyRenderer) SetPixel(index uint32, r, g, b uint8) {
	s.pixels[index] = [3]uint8{r, g, b}
}

func (s *spyRenderer) SetBufferOffset(offset uint32) {
	s.offsets = append(s.offsets, offset)
}

func TestVGABufferExpands332AndMirrorsForReadback(t *testing.T) {
	renderer := newSpyRenderer()
	channel := NewVGAChannel(renderer)
	buf := NewVGABuffer(channel, 0x100)

	// Pure red in 3-3-2: top 3 bits set, rest clear.
	buf.Store(10, 1, 0xE0)

	if got := buf.Load(10, 1); got != 0xE0 {
		t.Fatalf("readback = 0x%x, want 0xE0 (stores mirror for loads)", got)
	}
	px := renderer.pixels[10]
	if px[0] != 0xFF || px[1] != 0 || px[2] != 0 {
		t.Fatalf("expanded pixel = %v, want pure red (255,0,0)", px)
	}
}

func TestVGADMASwapStateMachine(t *testing.T) {
	channel := NewVGAChannel(newSpyRenderer())
	dma := NewVGADMA(channel)

	if got := dma.Load(0xC, 1) & 1; got != 0 {
		t.Fatal("swap-pending bit should be 0 before any BUFFER write")
	}

	dma.Store(0x04, 4, 0xAAAA) // BACK_BUFFER
	dma.Store(0x00, 1, 1)      // write to BUFFER schedules a swap

	if got := dma.Load(0xC, 1) & 1; got != 1 {
		t.Fatal("swap-pending bit should be 1 after a BUFFER write")
	}

	dma.HandleSwap()

	if got := dma.Load(0xC, 1) & 1; got != 0 {
		t.Fatal("swap-pending bit should clear after HandleSwap")
	}
	if got := dma.Load(0x00, 4); got != 0xAAAA {
		t.Fatalf("BUFFER after swap = 0x%x, want prior BACK_BUFFER 0xAAAA", got)
	}
}

func TestVGADMAResolutionIsFixedAndReadOnly(t *testing.T) {
	channel := NewVGAChannel(nil)
	dma := NewVGADMA(channel)

	want := uint32(240<<16 | 320)
	if got := dma.Load(0x08, 4); got != want {
		t.Fatalf("RESOLUTION = 0x%x, want 0x%x", got, want)
	}
	dma.Store(0x08, 4, 0)
	if got := dma.Load(0x08, 4); got != want {
		t.Fatal("RESOLUTION writes should be ignored")
	}
}
