package core

import "fmt"

// Device is the uniform interface every memory-mapped peripheral
// implements: byte/halfword/word load and store at an offset relative to
// the device's own base address.
type Device interface {
	// Load reads size bytes (1, 2, or 4) at offset and returns the
	// little-endian value.
	Load(offset uint32, size int) uint32
	// Store writes the low size bytes of value at offset.
	Store(offset uint32, size int, value uint32)
	// Size is the number of bytes the device's address range spans.
	Size() uint32
}

// InterruptSource is implemented by devices that can raise an external
// interrupt. The Bus polls every attached device implementing this each
// time Interrupt is called.
type InterruptSource interface {
	PollInterrupt() (InterruptSignal, bool)
}

// Sentinel values returned for loads from an address no peripheral owns,
// matching the board's tolerant-bus behavior.
const (
	sentinelByte     uint32 = 0xDE
	sentinelHalfword uint32 = 0xDEAD
	sentinelWord     uint32 = 0xDEADBEEF
)

func sentinelFor(size int) uint32 {
	switch size {
	case 1:
		return sentinelByte
	case 2:
		return sentinelHalfword
	default:
		return sentinelWord
	}
}

type binding struct {
	lo, hi uint32 // inclusive range
	dev    Device
}

// Bus dispatches byte/halfword/word transactions to the peripheral whose
// range covers the target address. Ranges may not overlap; a transaction
// to an address no peripheral owns returns the sentinel value (for loads)
// or is silently dropped (for stores), recording a journal entry either
// way — journaling is the caller's responsibility since the bus itself has
// no notion of a journal (kept in the execute unit, which does).
type Bus struct {
	bindings []binding
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Attach binds a device at [base, base+dev.Size()-1]. Panics if the new
// range overlaps an existing binding — this is a host programming error,
// not a guest-reachable condition, so it is not modeled as a recoverable
// Go error.
func (b *Bus) Attach(base uint32, dev Device) {
	size := dev.Size()
	if size == 0 {
		panic(fmt.Sprintf("core: device at 0x%08x has zero size", base))
	}
	hi := base + size - 1
	for _, e := range b.bindings {
		if base <= e.hi && e.lo <= hi {
			panic(fmt.Sprintf("core: device at 0x%08x..0x%08x overlaps existing binding at 0x%08x..0x%08x", base, hi, e.lo, e.hi))
		}
	}
	b.bindings = append(b.bindings, binding{lo: base, hi: hi, dev: dev})
}

// find returns the binding owning addr, or nil if none does.
func (b *Bus) find(addr uint32) *binding {
	for i := range b.bindings {
		e := &b.bindings[i]
		if addr >= e.lo && addr <= e.hi {
			return e
		}
	}
	return nil
}

// Load reads size bytes at addr. ok is false when no peripheral owns addr,
// in which case value is the documented sentinel.
func (b *Bus) Load(addr uint32, size int) (value uint32, ok bool) {
	e := b.find(addr)
	if e == nil {
		return sentinelFor(size), false
	}
	return e.dev.Load(addr-e.lo, size), true
}

// Store writes size bytes at addr. ok is false when no peripheral owns
// addr, in which case the store is silently dropped per the board's
// tolerant bus behavior.
func (b *Bus) Store(addr uint32, size int, value uint32) (ok bool) {
	e := b.find(addr)
	if e == nil {
		return false
	}
	e.dev.Store(addr-e.lo, size, value)
	return true
}

// Interrupt polls every attached device capable of raising one and
// returns the first pending signal found. Devices are polled in
// attachment order, which is deterministic but otherwise arbitrary: the
// board never attaches more than one peripheral whose interrupt can be
// pending at the same instant in the scenarios this core targets.
func (b *Bus) Interrupt() (InterruptSignal, bool) {
	for _, e := range b.bindings {
		if src, ok := e.dev.(InterruptSource); ok {
			if sig, pending := src.PollInterrupt(); pending {
				return sig, true
			}
		}
	}
	return InterruptSignal{}, false
}

// Device returns the device attached at exactly the given base address,
// or nil. Used by the machine wiring layer to reach a peripheral's
// external API (e.g. Button.Set) after attachment.
func (b *Bus) Device(base uint32) Device {
	for _, e := range b.bindings {
		if e.lo == base {
			return e.dev
		}
	}
	return nil
}
