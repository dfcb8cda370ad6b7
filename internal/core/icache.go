package core

// ICache is a lazy decoded-instruction cache covering the SDRAM address
// range, indexed by pc/4. A slot is either empty or holds the decode of
// the word currently stored at that SDRAM offset. It is purely a
// performance optimization: correctness never depends on a hit, only on
// invalidating a slot whenever the word underneath it changes via a
// store mediated by the execute unit. Slots are populated on demand in a
// map rather than preallocated for the whole range, since a program
// typically touches a small fraction of a 64 MiB address space.
type ICache struct {
	base uint32
	size uint32
	fill map[uint32]Instruction
}

// NewICache creates a cache over [base, base+size).
func NewICache(base, size uint32) *ICache {
	return &ICache{
		base: base,
		size: size,
		fill: make(map[uint32]Instruction),
	}
}

// covers reports whether addr falls inside the cached range.
func (c *ICache) covers(addr uint32) bool {
	return addr >= c.base && addr-c.base < c.size
}

// Lookup returns the cached decode for pc, if any.
func (c *ICache) Lookup(pc uint32) (Instruction, bool) {
	if !c.covers(pc) {
		return Instruction{}, false
	}
	ins, ok := c.fill[(pc-c.base)/4]
	return ins, ok
}

// Fill stores a decode for pc.
func (c *ICache) Fill(pc uint32, ins Instruction) {
	if !c.covers(pc) {
		return
	}
	c.fill[(pc-c.base)/4] = ins
}

// Invalidate clears the slot covering addr, if the cache covers it at all.
// Called on every store the execute unit performs; a no-op for addresses
// outside the cached range.
func (c *ICache) Invalidate(addr uint32) {
	if !c.covers(addr) {
		return
	}
	delete(c.fill, (addr-c.base)/4)
}

// Reset empties every slot.
func (c *ICache) Reset() {
	c.fill = make(map[uint32]Instruction)
}
