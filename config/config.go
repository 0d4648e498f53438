// Package config loads and saves zx16asm's persistent settings. The CLI
// reads the output defaults (which its flags override per invocation) and
// Diagnostics.ShowUnusedLabels; the listing, warnings-as-errors, verbose
// and memory settings are stored and loaded but not read by the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds zx16asm's user-configurable defaults.
type Config struct {
	// Output settings
	Output struct {
		Format      string `toml:"format"`       // bin, hex, verilog, mem
		VerilogName string `toml:"verilog_name"` // default --verilog-module
		SparseMem   bool   `toml:"sparse_mem"`   // default --mem-sparse
	} `toml:"output"`

	// Listing settings
	Listing struct {
		Enabled       bool `toml:"enabled"`
		BytesPerLine  int  `toml:"bytes_per_line"`
		ShowAddresses bool `toml:"show_addresses"`
	} `toml:"listing"`

	// Diagnostics settings
	Diagnostics struct {
		WarningsAsErrors bool `toml:"warnings_as_errors"`
		ShowUnusedLabels bool `toml:"show_unused_labels"`
		Verbose          bool `toml:"verbose"`
	} `toml:"diagnostics"`

	// Memory layout values (default to the ZX16 process constants in isa).
	// The assembler does not read them: section layout always uses the
	// isa constants.
	Memory struct {
		CodeStart int `toml:"code_start"`
		MMIOBase  int `toml:"mmio_base"`
	} `toml:"memory"`
}

// DefaultConfig returns zx16asm's built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Output.Format = "bin"
	cfg.Output.VerilogName = "program_memory"
	cfg.Output.SparseMem = false

	cfg.Listing.Enabled = false
	cfg.Listing.BytesPerLine = 8
	cfg.Listing.ShowAddresses = true

	cfg.Diagnostics.WarningsAsErrors = false
	cfg.Diagnostics.ShowUnusedLabels = true
	cfg.Diagnostics.Verbose = false

	cfg.Memory.CodeStart = 0x0020
	cfg.Memory.MMIOBase = 0xF000

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "zx16asm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "zx16asm.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "zx16asm")

	default:
		return "zx16asm.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "zx16asm.toml"
	}

	return filepath.Join(configDir, "zx16asm.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, falling back to
// DefaultConfig if the file does not exist.
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

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
