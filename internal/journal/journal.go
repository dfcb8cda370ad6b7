// Package journal implements the emulator's optional debug journal: an
// append-only record of anomalies (illegal instructions, out-of-bounds
// bus accesses, CSR misuse) that never alter guest-visible behavior but
// are useful to a developer or test watching the board run.
package journal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Kind classifies a journal entry.
type Kind int

const (
	AccessUselessCsr Kind = iota
	InstructionNotImplemented
	DivisionByZero
	RemainderByZero
	IllegalInstruction
	InstructionMisaligned
	LoadOutOfBounds
	StoreOutOfBounds
)

var kindNames = [...]string{
	"AccessUselessCsr",
	"InstructionNotImplemented",
	"DivisionByZero",
	"RemainderByZero",
	"IllegalInstruction",
	"InstructionMisaligned",
	"LoadOutOfBounds",
	"StoreOutOfBounds",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// severity groups kinds for the colorized Dump view. It has no bearing on
// emulated behavior.
func (k Kind) severity() int {
	switch k {
	case IllegalInstruction, InstructionMisaligned:
		return 2 // red
	case DivisionByZero, RemainderByZero, InstructionNotImplemented:
		return 1 // yellow
	default:
		return 0 // dim
	}
}

// Entry is a single journal record.
type Entry struct {
	Kind   Kind
	PC     uint32
	Detail string
}

func (e Entry) String() string {
	if e.Detail == "" {
		return fmt.Sprintf("pc=0x%08x %s", e.PC, e.Kind)
	}
	return fmt.Sprintf("pc=0x%08x %s: %s", e.PC, e.Kind, e.Detail)
}

// Journal is an append-only list of entries. A nil *Journal is valid and
// silently discards every Record call, matching the "compiled out in
// release" posture spec.md describes — callers that don't want journaling
// simply never allocate one.
type Journal struct {
	entries []Entry
}

// New creates an empty journal.
func New() *Journal {
	return &Journal{}
}

// Record appends an entry. Safe to call on a nil *Journal.
func (j *Journal) Record(kind Kind, pc uint32, detail string) {
	if j == nil {
		return
	}
	j.entries = append(j.entries, Entry{Kind: kind, PC: pc, Detail: detail})
}

// Entries returns every recorded entry in order.
func (j *Journal) Entries() []Entry {
	if j == nil {
		return nil
	}
	return j.entries
}

// Len reports how many entries have been recorded.
func (j *Journal) Len() int {
	if j == nil {
		return 0
	}
	return len(j.entries)
}

// Reset discards all recorded entries.
func (j *Journal) Reset() {
	if j == nil {
		return
	}
	j.entries = j.entries[:0]
}

var severityStyle = [...]string{
	0: "\x1b[2m",  // dim
	1: "\x1b[33m", // yellow
	2: "\x1b[31m", // red
}

// Dump writes every entry to w, one per line. When colorize is true the
// severity of each kind is conveyed with ANSI color; otherwise the color
// codes are stripped back out with ansi.Strip so the same formatting path
// serves both a terminal and a plain log file.
func (j *Journal) Dump(w io.Writer, colorize bool) {
	if j == nil {
		return
	}
	var b strings.Builder
	for _, e := range j.entries {
		style := severityStyle[e.Kind.severity()]
		line := style + e.String() + "\x1b[0m"
		if !colorize {
			line = ansi.Strip(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	io.WriteString(w, b.String())
}

// String renders the journal without color, for use in test failure
// messages and logs.
func (j *Journal) String() string {
	var b strings.Builder
	for _, e := range j.Entries() {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
