// Package board holds the DTEK-V memory map as data rather than as
// scattered literals, and an optional YAML loader for hosts that want to
// remap peripherals or resize SDRAM (for example, a test harness that
// shrinks SDRAM to keep test fixtures small).
package board

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Region describes one peripheral's placement in the address space.
type Region struct {
	Base uint32 `yaml:"base"`
	Size uint32 `yaml:"size"`
}

// Config is the full set of placement and timing parameters the machine
// wiring layer needs. Default returns the board's real layout; a YAML
// document overriding any subset of fields can be loaded with Load.
type Config struct {
	SDRAM      Region `yaml:"sdram"`
	LEDStrip   Region `yaml:"led_strip"`
	Switch     Region `yaml:"switch"`
	Timer      Region `yaml:"timer"`
	UART       Region `yaml:"uart"`
	HexDisplay Region `yaml:"hex_display"`
	Button     Region `yaml:"button"`
	VGADMA     Region `yaml:"vga_dma"`
	VGABuffer  Region `yaml:"vga_buffer"`

	// ClockHz is the nominal chip clock frequency the Timer peripheral
	// uses to convert milliseconds into cycle counts.
	ClockHz uint32 `yaml:"clock_hz"`
}

// Default returns the DTEK-V board's real memory map.
func Default() *Config {
	return &Config{
		SDRAM:      Region{Base: 0x0000_0000, Size: 0x0400_0000},
		LEDStrip:   Region{Base: 0x0400_0000, Size: 0x10},
		Switch:     Region{Base: 0x0400_0010, Size: 0x10},
		Timer:      Region{Base: 0x0400_0020, Size: 0x20},
		UART:       Region{Base: 0x0400_0040, Size: 0x08},
		HexDisplay: Region{Base: 0x0400_0050, Size: 0x60},
		Button:     Region{Base: 0x0400_00D0, Size: 0x10},
		VGADMA:     Region{Base: 0x0400_0100, Size: 0x10},
		VGABuffer:  Region{Base: 0x0800_0000, Size: 0x02_5800},
		ClockHz:    30_000_000,
	}
}

// Load reads a YAML config document from path, starting from Default and
// overriding only the fields present in the document.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("board: reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("board: parsing config: %w", err)
	}
	return cfg, nil
}
