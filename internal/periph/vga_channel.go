package periph

// Renderer is the display capability the host supplies to the VGA
// peripherals. The emulator never assumes anything about how pixels are
// actually presented; it only calls these two methods.
type Renderer interface {
	// SetPixel is called for every byte stored to the VGA framebuffer,
	// with index the byte offset into that range and rgb the 3-3-2 color
	// already expanded to 8 bits per channel.
	SetPixel(index uint32, r, g, b uint8)
	// SetBufferOffset is called by DMA's handle-swap with the newly
	// active buffer base.
	SetBufferOffset(offset uint32)
}

// VGAChannel is the state shared between Buffer and DMA: the swap state
// machine's pending flag and the renderer capability both peripherals
// drive. It is owned outside either peripheral and referenced by both,
// avoiding a cyclic ownership between the two.
type VGAChannel struct {
	renderer   Renderer
	isSwapping bool
}

// NewVGAChannel creates a channel bound to the given renderer. renderer
// may be nil (e.g. in tests that only care about register semantics).
func NewVGAChannel(renderer Renderer) *VGAChannel {
	return &VGAChannel{renderer: renderer}
}

func (c *VGAChannel) setPixel(index uint32, r, g, b uint8) {
	if c.renderer != nil {
		c.renderer.SetPixel(index, r, g, b)
	}
}

func (c *VGAChannel) setBufferOffset(offset uint32) {
	if c.renderer != nil {
		c.renderer.SetBufferOffset(offset)
	}
}

// expand332 turns a packed 3-3-2 RGB byte into 8-bit channels.
func expand332(v byte) (r, g, b uint8) {
	r3 := (v >> 5) & 0x7
	g3 := (v >> 2) & 0x7
	b2 := v & 0x3
	r = (r3 << 5) | (r3 << 2) | (r3 >> 1)
	g = (g3 << 5) | (g3 << 2) | (g3 >> 1)
	b = (b2 << 6) | (b2 << 4) | (b2 << 2) | b2
	return
}
