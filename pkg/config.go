package dup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents the dup configuration file
type Config struct {
	configPath string
	ini        *ini.File
}

// CompareConfig represents comparison configuration
type CompareConfig struct {
	ChunkSize string // Read size per file per step, human readable (default: "1M")
}

// ScanConfig represents scanning configuration
type ScanConfig struct {
	Recursive  bool     // Default recursion (default: false)
	Ignore     []string // Regular expressions for paths to skip
	IgnoreFile string   // File with one ignore pattern per line
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format   string // Default output format: human, json, fdupes
	Progress bool   // Show a progress line on terminals (default: true)
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// RemoveConfig represents removal configuration
type RemoveConfig struct {
	DryRun bool // Report removals without deleting (default: false)
}

// AllConfig represents all configuration options
type AllConfig struct {
	Compare *CompareConfig
	Scan    *ScanConfig
	Output  *OutputConfig
	Verbose *VerboseConfig
	Remove  *RemoveConfig
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/dup/config, or ~/.config/dup/config
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dup", "config")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "dup", "config")
	}
	return ""
}

// LoadConfig loads configuration from configPath. A missing file yields the defaults
// without creating anything on disk.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		configPath: configPath,
	}

	if configPath == "" {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, newOpError(KindConfig, "set default config", "", err)
		}
		return cfg, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, newOpError(KindConfig, "set default config", configPath, err)
		}
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, newOpError(KindConfig, "load config file", configPath, err)
	}
	cfg.ini = iniFile

	return cfg, nil
}

// Path returns the file the configuration was loaded from or will be saved to
func (c *Config) Path() string {
	return c.configPath
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	defaults := []struct {
		section, key, value string
	}{
		{SectionCompare, "chunk_size", DefaultChunkSizeHR},
		{SectionScan, "recursive", "false"},
		{SectionScan, "ignore", ""},
		{SectionScan, "ignore_file", ""},
		{SectionOutput, "format", FormatHuman},
		{SectionOutput, "progress", "true"},
		{SectionVerbose, "level", "0"},
		{SectionVerbose, "debug", ""},
		{SectionRemove, "dry_run", "false"},
	}

	for _, d := range defaults {
		section, err := c.ini.NewSection(d.section)
		if err != nil {
			return fmt.Errorf("failed to create %s section: %w", d.section, err)
		}
		if _, err := section.NewKey(d.key, d.value); err != nil {
			return fmt.Errorf("failed to set default %s.%s: %w", d.section, d.key, err)
		}
	}

	return nil
}

// GetCompareConfig returns the comparison configuration
func (c *Config) GetCompareConfig() *CompareConfig {
	compareConfig := &CompareConfig{
		ChunkSize: DefaultChunkSizeHR,
	}

	if c.ini.HasSection(SectionCompare) {
		section := c.ini.Section(SectionCompare)
		if section.HasKey("chunk_size") {
			if v := section.Key("chunk_size").String(); v != "" {
				compareConfig.ChunkSize = v
			}
		}
	}

	return compareConfig
}

// ChunkSizeBytes returns the configured chunk size in bytes
func (c *Config) ChunkSizeBytes() (int, error) {
	size, err := ParseHumanSize(c.GetCompareConfig().ChunkSize)
	if err != nil {
		return 0, newOpError(KindConfig, "parse compare.chunk_size", c.configPath, err)
	}
	return size, nil
}

// GetScanConfig returns the scanning configuration
func (c *Config) GetScanConfig() *ScanConfig {
	scanConfig := &ScanConfig{}

	if c.ini.HasSection(SectionScan) {
		section := c.ini.Section(SectionScan)
		if section.HasKey("recursive") {
			if recursive, err := section.Key("recursive").Bool(); err == nil {
				scanConfig.Recursive = recursive
			}
		}
		if section.HasKey("ignore") {
			for _, p := range section.Key("ignore").Strings(",") {
				if p != "" {
					scanConfig.Ignore = append(scanConfig.Ignore, p)
				}
			}
		}
		if section.HasKey("ignore_file") {
			scanConfig.IgnoreFile = section.Key("ignore_file").String()
		}
	}

	return scanConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format:   FormatHuman,
		Progress: true,
	}

	if c.ini.HasSection(SectionOutput) {
		section := c.ini.Section(SectionOutput)
		if section.HasKey("format") {
			outputConfig.Format = NormaliseFormat(section.Key("format").String())
		}
		if section.HasKey("progress") {
			if progress, err := section.Key("progress").Bool(); err == nil {
				outputConfig.Progress = progress
			}
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{}

	if c.ini.HasSection(SectionVerbose) {
		section := c.ini.Section(SectionVerbose)
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetRemoveConfig returns the removal configuration
func (c *Config) GetRemoveConfig() *RemoveConfig {
	removeConfig := &RemoveConfig{}

	if c.ini.HasSection(SectionRemove) {
		section := c.ini.Section(SectionRemove)
		if section.HasKey("dry_run") {
			if dryRun, err := section.Key("dry_run").Bool(); err == nil {
				removeConfig.DryRun = dryRun
			}
		}
	}

	return removeConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Compare: c.GetCompareConfig(),
		Scan:    c.GetScanConfig(),
		Output:  c.GetOutputConfig(),
		Verbose: c.GetVerboseConfig(),
		Remove:  c.GetRemoveConfig(),
	}
}

// Validate checks every value that has a restricted domain
func (c *Config) Validate() error {
	all := c.GetAllConfig()
	if _, err := c.ChunkSizeBytes(); err != nil {
		return err
	}
	if err := ValidateOutputFormat(all.Output.Format); err != nil {
		return newOpError(KindConfig, "validate output.format", c.configPath, err)
	}
	if err := ValidateVerboseLevel(all.Verbose.Level); err != nil {
		return newOpError(KindConfig, "validate verbose.level", c.configPath, err)
	}
	return nil
}

// Save writes the configuration to its path, creating the parent directory
func (c *Config) Save() error {
	if c.configPath == "" {
		return newOpError(KindConfig, "save config", "", fmt.Errorf("no config path"))
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return newOpError(KindConfig, "create config directory", filepath.Dir(c.configPath), err)
	}
	if err := c.ini.SaveTo(c.configPath); err != nil {
		return newOpError(KindConfig, "save config", c.configPath, err)
	}
	return nil
}

// overrideKeys maps override names to their section.key
var overrideKeys = map[string][2]string{
	"chunk_size":  {SectionCompare, "chunk_size"},
	"recursive":   {SectionScan, "recursive"},
	"ignore":      {SectionScan, "ignore"},
	"ignore_file": {SectionScan, "ignore_file"},
	"format":      {SectionOutput, "format"},
	"progress":    {SectionOutput, "progress"},
	"level":       {SectionVerbose, "level"},
	"debug":       {SectionVerbose, "debug"},
	"dry_run":     {SectionRemove, "dry_run"},
}

// ApplyOverrides applies command-line overrides to the configuration.
// Accepts strings like "chunk_size:4M", "format:json", "level:2", "debug:scan".
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("%w '%s', expected 'key:value'", ErrInvalidOverrideValue, override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		target, ok := overrideKeys[key]
		if !ok {
			return fmt.Errorf("%w: unsupported key '%s' (supported: chunk_size, recursive, ignore, ignore_file, format, progress, level, debug, dry_run)", ErrInvalidOverrideValue, key)
		}
		c.ini.Section(target[0]).Key(target[1]).SetValue(value)
	}

	return nil
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < VerboseQuiet || level > VerboseTrace {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}
