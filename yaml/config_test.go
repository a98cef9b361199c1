package yaml_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reviewboard/diffchunk/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("empty input keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Decode(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, yaml.Default(), cfg)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Decode(strings.NewReader(`
context_lines: 3
syntax_highlighting: false
custom_lexers:
  .tmpl: go-html-template
  inc: php
include_space_patterns: ["*.py", "Makefile"]
ignore_whitespace: true
code_safety_checkers: [trojan_source]
`))
		require.NoError(t, err)

		assert.Equal(t, 3, cfg.ContextLines())
		assert.False(t, cfg.SyntaxHighlighting())
		assert.Equal(t, 20000, cfg.SyntaxHighlightingThreshold())
		assert.True(t, cfg.IgnoreSpace())
		assert.Equal(t, []string{"*.py", "Makefile"}, cfg.IncludeSpacePatterns())
		assert.Equal(t, []string{"trojan_source"}, cfg.CodeSafetyCheckers())
		assert.Equal(t, []string{".txt", ".log"}, cfg.HighlightBlacklist())
		assert.Equal(t, 1000, cfg.MaxIntralineLength())

		lexer, ok := cfg.CustomLexer(".tmpl")
		assert.True(t, ok)
		assert.Equal(t, "go-html-template", lexer)

		lexer, ok = cfg.CustomLexer(".inc")
		assert.True(t, ok)
		assert.Equal(t, "php", lexer)

		_, ok = cfg.CustomLexer(".go")
		assert.False(t, ok)
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Decode(strings.NewReader("context: 3\n"))
		assert.Error(t, err)
	})

	t.Run("negative context", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Decode(strings.NewReader("context_lines: -1\n"))
		assert.ErrorContains(t, err, "must not be negative")
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, yaml.Default(), cfg)
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("max_intraline_length: 80\n"), 0o644))

		cfg, err := yaml.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 80, cfg.MaxIntralineLength())
		assert.Equal(t, 5, cfg.ContextLines())
	})

	t.Run("invalid file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("context_lines: [\n"), 0o644))

		_, err := yaml.Load(path)
		assert.ErrorContains(t, err, path)
	})
}
