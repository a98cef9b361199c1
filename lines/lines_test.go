package lines_test

import (
	"testing"

	"github.com/reviewboard/diffchunk"
	"github.com/reviewboard/diffchunk/lines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLineEndings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "unix", input: "a\nb\n", expected: []string{"a\n", "b\n"}},
		{name: "no final newline", input: "a\nb", expected: []string{"a\n", "b"}},
		{name: "windows", input: "a\r\nb\r\n", expected: []string{"a\r\n", "b\r\n"}},
		{name: "old mac", input: "a\rb\r", expected: []string{"a\r", "b\r"}},
		{name: "doubled carriage return", input: "a\r\r\nb", expected: []string{"a\r\r\n", "b"}},
		{name: "mixed", input: "a\nb\r\nc\rd", expected: []string{"a\n", "b\r\n", "c\r", "d"}},
		{name: "blank lines", input: "\n\n", expected: []string{"\n", "\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []string
			for _, line := range lines.SplitLineEndings([]byte(tt.input)) {
				got = append(got, string(line))
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "", "c"}, lines.Split("a\r\nb\n\nc"))
	assert.Equal(t, []string{"a"}, lines.Split("a\n"))
	assert.Empty(t, lines.Split(""))
}

func TestNormalizeSpace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", lines.NormalizeSpace("  a \t b   c  "))
	assert.Equal(t, "", lines.NormalizeSpace(" \t "))
	assert.True(t, lines.IsBlank("\t  "))
	assert.False(t, lines.IsBlank(" x "))
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("uses utf-8 by default", func(t *testing.T) {
		t.Parallel()

		text, enc, err := lines.Decode([]byte("héllo"), nil)
		require.NoError(t, err)
		assert.Equal(t, "héllo", text)
		assert.Equal(t, "utf-8", enc)
	})

	t.Run("strips utf-8 byte order mark", func(t *testing.T) {
		t.Parallel()

		text, _, err := lines.Decode([]byte("\xef\xbb\xbfabc"), []string{"utf-8"})
		require.NoError(t, err)
		assert.Equal(t, "abc", text)
	})

	t.Run("falls through to the next candidate", func(t *testing.T) {
		t.Parallel()

		// "café" in Latin-1 is not valid UTF-8.
		text, enc, err := lines.Decode([]byte("caf\xe9"), []string{"utf-8", "iso-8859-15"})
		require.NoError(t, err)
		assert.Equal(t, "café", text)
		assert.Equal(t, "iso-8859-15", enc)
	})

	t.Run("skips unknown encoding names", func(t *testing.T) {
		t.Parallel()

		text, enc, err := lines.Decode([]byte("abc"), []string{"no-such-encoding", "utf-8"})
		require.NoError(t, err)
		assert.Equal(t, "abc", text)
		assert.Equal(t, "utf-8", enc)
	})

	t.Run("fails when no candidate decodes", func(t *testing.T) {
		t.Parallel()

		_, _, err := lines.Decode([]byte("caf\xe9"), []string{"utf-8"})
		require.Error(t, err)
		assert.ErrorIs(t, err, diffchunk.ErrUndecodable)
		assert.Contains(t, err.Error(), "utf-8")
	})
}
