// Package periph implements the DTEK-V peripheral models: SDRAM, the
// button and switch inputs, the hex displays, the LED strip, the UART,
// the timer, and the VGA framebuffer + DMA pair. Each type implements
// core.Device; a handful also implement core.InterruptSource.
package periph

// getByte extracts byte index i (0 = least significant) from a 32-bit word.
func getByte(word uint32, i int) uint32 {
	return (word >> (8 * uint(i))) & 0xFF
}

// setByte returns word with byte index i replaced by b.
func setByte(word uint32, i int, b uint32) uint32 {
	shift := 8 * uint(i)
	mask := uint32(0xFF) << shift
	return (word &^ mask) | ((b & 0xFF) << shift)
}

// loadFromWord implements Device.Load for a peripheral backed by a single
// in-memory 32-bit register, honoring sub-word reads.
func loadFromWord(word uint32, offsetInWord uint32, size int) uint32 {
	switch size {
	case 1:
		return getByte(word, int(offsetInWord))
	case 2:
		lo := getByte(word, int(offsetInWord))
		hi := getByte(word, int(offsetInWord)+1)
		return lo | (hi << 8)
	default:
		return word
	}
}

// storeIntoWord implements Device.Store for a single-register peripheral,
// returning the updated word.
func storeIntoWord(word uint32, offsetInWord uint32, size int, value uint32) uint32 {
	switch size {
	case 1:
		return setByte(word, int(offsetInWord), value)
	case 2:
		word = setByte(word, int(offsetInWord), value&0xFF)
		word = setByte(word, int(offsetInWord)+1, (value>>8)&0xFF)
		return word
	default:
		return value
	}
}
