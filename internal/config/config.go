// Package config loads c4go's optional TOML settings file, supplying
// defaults for VM memory layout, listing/trace toggles, and debugger
// behavior — all overridable by command-line flags. Grounded on
// lookbusy1344-arm_emulator/config's shape: one struct of `toml:"..."`
// tagged sections, a Default constructor, and a thin Load wrapper
// around BurntSushi/toml.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the top-level shape of a c4go config file.
type Config struct {
	Memory struct {
		StackWords   uint `toml:"stack_words"`
		HeapWords    uint `toml:"heap_words"`
		HeapPageSize uint `toml:"heap_page_size"`
		MemLimit     uint `toml:"mem_limit"`
	} `toml:"memory"`

	Run struct {
		Listing bool `toml:"listing"`
		Trace   bool `toml:"trace"`
		Dump    bool `toml:"dump"`
	} `toml:"run"`

	Debugger struct {
		Enabled        bool   `toml:"enabled"`
		HistorySize    int    `toml:"history_size"`
		ShowSource     bool   `toml:"show_source"`
		ShowRegisters  bool   `toml:"show_registers"`
		SourceContext  int    `toml:"source_context"`
		KeyQuit        string `toml:"key_quit"`
		KeyStep        string `toml:"key_step"`
		KeyContinue    string `toml:"key_continue"`
	} `toml:"debugger"`
}

// Default returns a Config with the values c4go runs with when no
// -config flag (or no matching section) is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Memory.StackWords = 1 << 16
	cfg.Memory.HeapWords = 1 << 16
	cfg.Memory.HeapPageSize = 4096
	cfg.Memory.MemLimit = 0

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowSource = true
	cfg.Debugger.ShowRegisters = true
	cfg.Debugger.SourceContext = 5
	cfg.Debugger.KeyQuit = "q"
	cfg.Debugger.KeyStep = "s"
	cfg.Debugger.KeyContinue = "c"
	return cfg
}

// Load reads and decodes the TOML file at path on top of Default(),
// leaving any field the file doesn't mention at its default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return cfg, nil
}
