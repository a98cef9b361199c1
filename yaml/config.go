// Package yaml loads diffchunk.Settings from YAML files.
package yaml

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reviewboard/diffchunk"
	"gopkg.in/yaml.v3"
)

// Compile-time interface verification.
var _ diffchunk.Settings = (*Config)(nil)

// Config is the on-disk settings format.
type Config struct {
	Context            int               `yaml:"context_lines"`
	Highlight          bool              `yaml:"syntax_highlighting"`
	HighlightThreshold int               `yaml:"syntax_highlighting_threshold"`
	Lexers             map[string]string `yaml:"custom_lexers"`       // extension -> lexer name
	SpacePatterns      []string          `yaml:"include_space_patterns"`
	IgnoreWhitespace   bool              `yaml:"ignore_whitespace"`
	IntralineLimit     int               `yaml:"max_intraline_length"`
	Blacklist          []string          `yaml:"highlight_blacklist"`
	Checkers           []string          `yaml:"code_safety_checkers"` // empty enables all
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Context:            5,
		Highlight:          true,
		HighlightThreshold: 20000,
		IntralineLimit:     1000,
		Blacklist:          []string{".txt", ".log"},
	}
}

// Load reads settings from path. Keys missing from the file keep their
// defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads settings from r, rejecting unknown keys.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Context < 0 {
		return nil, fmt.Errorf("context_lines must not be negative, got %d", cfg.Context)
	}
	return cfg, nil
}

func (c *Config) ContextLines() int                { return c.Context }
func (c *Config) SyntaxHighlighting() bool         { return c.Highlight }
func (c *Config) SyntaxHighlightingThreshold() int { return c.HighlightThreshold }
func (c *Config) IncludeSpacePatterns() []string   { return c.SpacePatterns }
func (c *Config) IgnoreSpace() bool                { return c.IgnoreWhitespace }
func (c *Config) MaxIntralineLength() int          { return c.IntralineLimit }
func (c *Config) HighlightBlacklist() []string     { return c.Blacklist }
func (c *Config) CodeSafetyCheckers() []string     { return c.Checkers }

// CustomLexer looks up ext with or without its leading dot.
func (c *Config) CustomLexer(ext string) (string, bool) {
	if name, ok := c.Lexers[ext]; ok {
		return name, true
	}
	name, ok := c.Lexers[strings.TrimPrefix(ext, ".")]
	return name, ok
}
