// Package config loads the TOML configuration file read by cmd/simplecpu:
// execution limits, debugger display options, and trace formatting,
// scoped to the settings this machine actually has (no statistics, no
// disassembly context — SimpleCPU has neither).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the settings stored in the TOML file. cmd/simplecpu applies
// Execution.MaxCycles (the run/trace cycle cap) and Debugger.HistorySize;
// the other fields are loaded and saved but no command reads them.
type Config struct {
	// Execution settings bound a single run.
	Execution struct {
		MaxCycles   uint64 `toml:"max_cycles"`
		LoadAddress uint16 `toml:"load_address"`
		EnableTrace bool   `toml:"enable_trace"`
	} `toml:"execution"`

	// Debugger settings govern the interactive debug session.
	Debugger struct {
		HistorySize    int  `toml:"history_size"`
		AutoSaveBreaks bool `toml:"auto_save_breakpoints"`
		ShowSource     bool `toml:"show_source"`
		ShowRegisters  bool `toml:"show_registers"`
	} `toml:"debugger"`

	// Display settings describe register/memory/stack dump layout; the
	// dump functions use fixed widths and do not read them.
	Display struct {
		BytesPerLine int    `toml:"bytes_per_line"`
		StackWords   int    `toml:"stack_words"`
		NumberFormat string `toml:"number_format"` // hex, dec, both
	} `toml:"display"`

	// Trace settings for the `trace` CLI verb's output; the verb does not
	// read them and always prints to standard output.
	Trace struct {
		OutputFile string `toml:"output_file"`
		MaxEntries int    `toml:"max_entries"`
	} `toml:"trace"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 10_000_000
	cfg.Execution.LoadAddress = 0x0100
	cfg.Execution.EnableTrace = false

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.AutoSaveBreaks = true
	cfg.Debugger.ShowSource = true
	cfg.Debugger.ShowRegisters = true

	cfg.Display.BytesPerLine = 16
	cfg.Display.StackWords = 8
	cfg.Display.NumberFormat = "hex"

	cfg.Trace.OutputFile = ""
	cfg.Trace.MaxEntries = 1_000_000

	return cfg
}

// GetConfigPath returns the platform-specific config file path, under a
// simplecpu directory name.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "simplecpu")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "simplecpu")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file, falling back to
// DefaultConfig if none exists.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the given file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the given file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
