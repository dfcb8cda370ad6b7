package periph

// SDRAM is the board's 64 MiB byte-addressable backing store. Bytes,
// halfwords and words may be accessed at any alignment; multi-byte
// accesses are little-endian reassemblies of the constituent bytes, so
// unaligned accesses are never a special case.
type SDRAM struct {
	data []byte
}

// NewSDRAM allocates an SDRAM of the given size in bytes.
func NewSDRAM(size uint32) *SDRAM {
	return &SDRAM{data: make([]byte, size)}
}

// Size implements core.Device.
func (s *SDRAM) Size() uint32 { return uint32(len(s.data)) }

// Load implements core.Device.
func (s *SDRAM) Load(offset uint32, size int) uint32 {
	var v uint32
	for i := 0; i < size; i++ {
		idx := offset + uint32(i)
		if int(idx) >= len(s.data) {
			break
		}
		v |= uint32(s.data[idx]) << (8 * uint(i))
	}
	return v
}

// Store implements core.Device.
func (s *SDRAM) Store(offset uint32, size int, value uint32) {
	for i := 0; i < size; i++ {
		idx := offset + uint32(i)
		if int(idx) >= len(s.data) {
			return
		}
		s.data[idx] = byte(value >> (8 * uint(i)))
	}
}

// Bytes returns the whole backing store, for a host that wants to inspect
// it directly (e.g. a test dumping the prime-sieve output bytes).
func (s *SDRAM) Bytes() []byte {
	return s.data
}
