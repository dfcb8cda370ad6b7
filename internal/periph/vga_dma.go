package periph

const (
	vgaDMAOffBuffer        = 0x00
	vgaDMAOffBackBuffer    = 0x04
	vgaDMAOffResolution    = 0x08
	vgaDMAOffStatusControl = 0x0C
	vgaDMASize             = 0x10

	vgaDMAChipID = 17
)

// VGADMA schedules and performs the double-buffer swap for the VGA
// framebuffer. Writing BUFFER schedules a swap (Idle -> Pending); a host
// calling HandleSwap performs it (Pending -> Idle), exchanging BUFFER and
// BACK_BUFFER and publishing the new offset to the renderer. This models
// the refresh delay real hardware exhibits: software polls the pending
// bit to find out when it is safe to write the next frame.
type VGADMA struct {
	channel    *VGAChannel
	buffer     uint32
	backBuffer uint32
}

// NewVGADMA creates a DMA controller bound to channel.
func NewVGADMA(channel *VGAChannel) *VGADMA {
	return &VGADMA{channel: channel}
}

func (d *VGADMA) Size() uint32 { return vgaDMASize }

func (d *VGADMA) Load(offset uint32, size int) uint32 {
	switch offset &^ 0x3 {
	case vgaDMAOffBuffer:
		return loadFromWord(d.buffer, offset&0x3, size)
	case vgaDMAOffBackBuffer:
		return loadFromWord(d.backBuffer, offset&0x3, size)
	case vgaDMAOffResolution:
		return loadFromWord((240<<16)|320, offset&0x3, size)
	case vgaDMAOffStatusControl:
		return loadFromWord(d.statusControl(), offset&0x3, size)
	default:
		return 0
	}
}

func (d *VGADMA) statusControl() uint32 {
	var v uint32
	if d.channel.isSwapping {
		v |= 1 << 0
	}
	v |= 1 << 1 // addressing mode: always 1
	v |= 1 << 2 // enable
	v |= vgaDMAChipID << 24
	return v
}

func (d *VGADMA) Store(offset uint32, size int, value uint32) {
	switch offset &^ 0x3 {
	case vgaDMAOffBuffer:
		d.buffer = storeIntoWord(d.buffer, offset&0x3, size, value)
		d.channel.isSwapping = true
	case vgaDMAOffBackBuffer:
		d.backBuffer = storeIntoWord(d.backBuffer, offset&0x3, size, value)
	case vgaDMAOffResolution:
		// Read-only; writes ignored.
	case vgaDMAOffStatusControl:
		// Composed from other state; writes ignored.
	}
}

// HandleSwap performs a scheduled swap: exchanges BUFFER and BACK_BUFFER,
// publishes the new active buffer offset to the renderer, and clears the
// pending flag. A no-op when no swap is scheduled.
func (d *VGADMA) HandleSwap() {
	if !d.channel.isSwapping {
		return
	}
	d.buffer, d.backBuffer = d.backBuffer, d.buffer
	d.channel.setBufferOffset(d.buffer)
	d.channel.isSwapping = false
}
