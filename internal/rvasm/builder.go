package rvasm

// Builder assembles a sequence of instructions that reference forward and
// backward labels by name, resolving branch/jump offsets in a second pass
// once every label's address is known. Hand-computing PC-relative offsets
// (as the factorial test does) is fine for a handful of instructions; a
// loop-heavy program like a sieve is much less error-prone built this way.
type Builder struct {
	base  uint32
	lines []line
}

type line struct {
	label string
	gen   func(pc uint32, labels map[string]uint32) uint32
}

// NewBuilder starts a program whose first instruction is placed at base.
func NewBuilder(base uint32) *Builder {
	return &Builder{base: base}
}

// Label marks the address of the next emitted instruction.
func (b *Builder) Label(name string) *Builder {
	b.lines = append(b.lines, line{label: name})
	return b
}

// Emit appends a fixed instruction word, independent of label resolution.
func (b *Builder) Emit(word uint32) *Builder {
	b.lines = append(b.lines, line{gen: func(uint32, map[string]uint32) uint32 { return word }})
	return b
}

// EmitRel appends an instruction built from a PC-relative offset to a
// label, e.g. for BEQ/BNE/JAL: gen(target-pc).
func (b *Builder) EmitRel(label string, gen func(offset int32) uint32) *Builder {
	b.lines = append(b.lines, line{gen: func(pc uint32, labels map[string]uint32) uint32 {
		return gen(int32(labels[label]) - int32(pc))
	}})
	return b
}

// Assemble resolves all labels and returns the instruction words in order,
// along with the address each label resolved to.
func (b *Builder) Assemble() ([]uint32, map[string]uint32) {
	labels := map[string]uint32{}
	addr := b.base
	for _, l := range b.lines {
		if l.label != "" {
			labels[l.label] = addr
			continue
		}
		addr += 4
	}

	words := make([]uint32, 0, len(b.lines))
	addr = b.base
	for _, l := range b.lines {
		if l.label != "" {
			continue
		}
		words = append(words, l.gen(addr, labels))
		addr += 4
	}
	return words, labels
}
