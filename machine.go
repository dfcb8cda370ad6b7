// Package rv32emu implements the CORE of a cycle-driven emulator for the
// DTEK-V educational board: an RV32IM, machine-mode-only processor with a
// fixed set of memory-mapped peripherals. Machine wires the decode/execute
// core (internal/core) to the peripheral models (internal/periph)
// according to the board's memory map (internal/board); a host drives it
// by calling Clock repeatedly and servicing interrupts, the timer, the
// UART, and VGA swaps between steps, as described in spec.md's driver
// loop.
package rv32emu

import (
	"github.com/dtek-v/rv32emu/internal/board"
	"github.com/dtek-v/rv32emu/internal/core"
	"github.com/dtek-v/rv32emu/internal/journal"
	"github.com/dtek-v/rv32emu/internal/periph"
)

// Machine owns the execute unit, the bus, and every peripheral. It is the
// single point a host program interacts with.
type Machine struct {
	CPU *core.CPU
	Bus *core.Bus

	SDRAM      *periph.SDRAM
	LEDStrip   *periph.LEDStrip
	Switches   *periph.Switches
	Timer      *periph.Timer
	UART       *periph.UART
	HexDisplay *periph.HexDisplay
	Button     *periph.Button
	VGADMA     *periph.VGADMA
	VGABuffer  *periph.VGABuffer

	vgaChannel *periph.VGAChannel
	cfg        *board.Config
}

// New constructs a Machine using the board's default memory map and no
// VGA renderer. Use NewWithConfig for a custom memory map or a real
// renderer.
func New() *Machine {
	return NewWithConfig(board.Default(), nil)
}

// NewWithConfig constructs a Machine from cfg, binding the VGA buffer and
// DMA to renderer (which may be nil, e.g. in tests that don't care about
// pixel output).
func NewWithConfig(cfg *board.Config, renderer periph.Renderer) *Machine {
	bus := core.NewBus()
	m := &Machine{
		Bus:        bus,
		SDRAM:      periph.NewSDRAM(cfg.SDRAM.Size),
		LEDStrip:   periph.NewLEDStrip(),
		Switches:   periph.NewSwitches(),
		Timer:      periph.NewTimer(cfg.ClockHz),
		UART:       periph.NewUART(),
		HexDisplay: periph.NewHexDisplay(),
		Button:     periph.NewButton(),
		vgaChannel: periph.NewVGAChannel(renderer),
		cfg:        cfg,
	}
	m.VGABuffer = periph.NewVGABuffer(m.vgaChannel, cfg.VGABuffer.Size)
	m.VGADMA = periph.NewVGADMA(m.vgaChannel)

	bus.Attach(cfg.SDRAM.Base, m.SDRAM)
	bus.Attach(cfg.LEDStrip.Base, m.LEDStrip)
	bus.Attach(cfg.Switch.Base, m.Switches)
	bus.Attach(cfg.Timer.Base, m.Timer)
	bus.Attach(cfg.UART.Base, m.UART)
	bus.Attach(cfg.HexDisplay.Base, m.HexDisplay)
	bus.Attach(cfg.Button.Base, m.Button)
	bus.Attach(cfg.VGADMA.Base, m.VGADMA)
	bus.Attach(cfg.VGABuffer.Base, m.VGABuffer)

	m.CPU = core.NewCPU(bus)
	m.CPU.Reset()

	return m
}

// EnableJournal turns on the debug journal; Journal returns nil until this
// is called, matching the journal's "compiled out by default" posture.
func (m *Machine) EnableJournal() {
	m.CPU.Trace = journal.New()
}

// Journal returns the debug journal, or nil if EnableJournal was never
// called.
func (m *Machine) Journal() *journal.Journal {
	return m.CPU.Trace
}

// Clock performs one fetch-decode-execute step.
func (m *Machine) Clock() {
	m.CPU.Clock()
}

// Run calls Clock n times.
func (m *Machine) Run(n int) {
	for i := 0; i < n; i++ {
		m.CPU.Clock()
	}
}

// PollInterrupt checks every peripheral capable of raising an external
// interrupt and delivers the first pending one found.
func (m *Machine) PollInterrupt() {
	if sig, ok := m.Bus.Interrupt(); ok {
		m.CPU.HandleInterrupt(sig)
	}
}

// StoreAt bulk-loads a program image into the bus starting at addr,
// invalidating any instruction cache entries the load overwrites.
func (m *Machine) StoreAt(addr uint32, data []byte) {
	m.CPU.StoreAt(addr, data)
}

// PC returns the execute unit's current program counter.
func (m *Machine) PC() uint32 { return m.CPU.PC }

// Reg returns the value of an architectural register.
func (m *Machine) Reg(r core.Reg) uint32 { return m.CPU.Regs.Get(r) }
