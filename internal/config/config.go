package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/baip-parser-go/pkg/baip"
)

//go:embed sample_config.toml
var sampleConfig string

// Parse contains the [parse] section: sources, timing and extraction.
type Parse struct {
	ThreadSleep    float64  `toml:"thread_sleep" yaml:"thread_sleep"`
	InboundDir     string   `toml:"inbound_dir" yaml:"inbound_dir"`
	ArchiveDir     string   `toml:"archive_dir" yaml:"archive_dir"`
	OutboundDir    string   `toml:"outbound_dir" yaml:"outbound_dir"`
	FileFilter     string   `toml:"file_filter" yaml:"file_filter"`
	SkipSheets     []string `toml:"skip_sheets" yaml:"skip_sheets"`
	CellsToExtract []string `toml:"cells_to_extract" yaml:"cells_to_extract"`
	CellOrder      []string `toml:"cell_order" yaml:"cell_order"`
	IgnoreIfEmpty  []string `toml:"ignore_if_empty" yaml:"ignore_if_empty"`
	Workers        int      `toml:"workers" yaml:"workers"`
	WordBoundary   bool     `toml:"word_boundary" yaml:"word_boundary"`
	WriteHeaders   bool     `toml:"write_headers" yaml:"write_headers"`
}

// Logging contains the [logging] section.
type Logging struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Config encapsulates all configuration values for the parser daemon.
type Config struct {
	Parse                 Parse               `toml:"parse" yaml:"parse"`
	CellMap               map[string][]string `toml:"cell_map" yaml:"cell_map"`
	CellFieldThresholds   map[string]int      `toml:"cell_field_thresholds" yaml:"cell_field_thresholds"`
	HeaderFieldLengths    map[string]int      `toml:"header_field_lengths" yaml:"header_field_lengths"`
	HeaderFieldThresholds map[string]int      `toml:"header_field_thresholds" yaml:"header_field_thresholds"`
	Logging               Logging             `toml:"logging" yaml:"logging"`
}

// Default returns a configuration with defaults applied. Every call
// allocates new containers.
func Default() Config {
	return Config{
		Parse: Parse{
			ThreadSleep:    2.0,
			SkipSheets:     []string{},
			CellsToExtract: []string{},
			CellOrder:      []string{},
			IgnoreIfEmpty:  []string{},
			Workers:        1,
			WordBoundary:   true,
			WriteHeaders:   true,
		},
		CellMap:               make(map[string][]string),
		CellFieldThresholds:   make(map[string]int),
		HeaderFieldLengths:    make(map[string]int),
		HeaderFieldThresholds: make(map[string]int),
		Logging: Logging{
			Level:  "info",
			Format: "auto",
		},
	}
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/baip-parser/config.toml")
}

// Load locates, parses, normalises and validates a configuration file. An
// empty path tries ./baip-parser.toml and then DefaultConfigPath.
func Load(path string) (*Config, string, error) {
	resolved, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, "", &ConfigurationError{Err: fmt.Errorf("open config: %w", err)}
	}
	defer file.Close()

	cfg, err := Decode(file, formatFor(resolved))
	if err != nil {
		return nil, "", err
	}
	return cfg, resolved, nil
}

// Decode reads a configuration in format ("toml" or "yaml") from r, then
// normalises and validates it.
func Decode(r io.Reader, format string) (*Config, error) {
	cfg := Default()

	switch format {
	case "yaml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, &ConfigurationError{Err: fmt.Errorf("parse config: %w", err)}
		}
	case "toml":
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, &ConfigurationError{Option: decodeErrorKey(err), Err: fmt.Errorf("parse config: %w", err)}
		}
	default:
		return nil, &ConfigurationError{Err: fmt.Errorf("unsupported config format %q", format)}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeErrorKey(err error) string {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		return strings.Join(decodeErr.Key(), ".")
	}
	return ""
}

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

func resolveConfigPath(path string) (string, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", &ConfigurationError{Err: err}
		}
		if _, err := os.Stat(expanded); err != nil {
			return "", &ConfigurationError{Err: fmt.Errorf("stat config: %w", err)}
		}
		return expanded, nil
	}

	candidates := []string{"baip-parser.toml"}
	if defaultPath, err := DefaultConfigPath(); err == nil {
		candidates = append(candidates, defaultPath)
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return expandPath(candidate)
		}
	}
	return "", &ConfigurationError{Err: fmt.Errorf("no configuration file found (tried %s): %w", strings.Join(candidates, ", "), fs.ErrNotExist)}
}

// Options converts the configuration into pipeline options.
func (c *Config) Options() baip.Options {
	opts := baip.DefaultOptions()
	opts.CellsToExtract = append(opts.CellsToExtract, c.Parse.CellsToExtract...)
	opts.SkipSheets = append(opts.SkipSheets, c.Parse.SkipSheets...)
	opts.CellOrder = append(opts.CellOrder, c.Parse.CellOrder...)
	opts.IgnoreIfEmpty = append(opts.IgnoreIfEmpty, c.Parse.IgnoreIfEmpty...)
	for cell, aliases := range c.CellMap {
		opts.CellMap[cell] = append([]string(nil), aliases...)
	}
	for cell, n := range c.CellFieldThresholds {
		opts.CellFieldThresholds[cell] = n
	}
	for header, n := range c.HeaderFieldLengths {
		opts.HeaderFieldLengths[header] = n
	}
	for header, n := range c.HeaderFieldThresholds {
		opts.HeaderFieldThresholds[header] = n
	}
	opts.WordBoundary = c.Parse.WordBoundary
	writeHeaders := c.Parse.WriteHeaders
	opts.WriteHeaders = &writeHeaders
	opts.Workers = c.Parse.Workers
	opts.OutputDir = c.Parse.OutboundDir
	return opts
}

// CreateSample writes a sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves "~" and makes pathValue absolute.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
