package lipgloss_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	lg "github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/reviewboard/diffchunk"
	"github.com/reviewboard/diffchunk/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainWriter(buf *bytes.Buffer, width int) *lipgloss.Writer {
	r := lg.NewRenderer(buf)
	r.SetColorProfile(termenv.Ascii)
	return lipgloss.NewWriter(buf, r, width)
}

func TestWriter_WriteFile(t *testing.T) {
	t.Parallel()

	t.Run("side by side rows", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		f := &diffchunk.FileDiff{
			OrigFilename:     "a.go",
			ModifiedFilename: "b.go",
			Chunks: []diffchunk.Chunk{
				{
					Change: diffchunk.TagEqual,
					Lines:  []diffchunk.Row{{Row: 1, OldLine: 1, OldText: "x", NewLine: 1, NewText: "x"}},
				},
				{
					Change: diffchunk.TagReplace,
					Lines: []diffchunk.Row{{
						Row: 2, OldLine: 2, OldText: "a &lt; b", NewLine: 2, NewText: `<span class="k">if</span>`,
					}},
				},
				{
					Change: diffchunk.TagInsert,
					Lines:  []diffchunk.Row{{Row: 3, NewLine: 3, NewText: "\tnew"}},
				},
			},
			Counts: map[diffchunk.Tag]int{diffchunk.TagEqual: 1, diffchunk.TagReplace: 1, diffchunk.TagInsert: 1},
		}

		require.NoError(t, plainWriter(&buf, 10).WriteFile(context.Background(), f))

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 6)
		assert.Equal(t, "--- a.go", lines[0])
		assert.Equal(t, "+++ b.go", lines[1])
		assert.Equal(t, "   1 x          │    1   x", lines[2])
		assert.Equal(t, "   2 a < b      │    2 ~ if", lines[3])
		assert.Equal(t, "                │    3 +         ne", lines[4])
		assert.Equal(t, "1 insert, 1 replace, 1 equal", lines[5])
	})

	t.Run("folds collapsable chunks", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		f := &diffchunk.FileDiff{
			Chunks: []diffchunk.Chunk{{
				Change:      diffchunk.TagEqual,
				Collapsable: true,
				Lines:       make([]diffchunk.Row, 12),
				Meta: diffchunk.ChunkMeta{
					RightHeaders: []diffchunk.Header{{Line: 1, Text: "def a():"}, {Line: 7, Text: "def b():"}},
				},
			}},
		}

		require.NoError(t, plainWriter(&buf, 10).WriteFile(context.Background(), f))

		assert.Contains(t, buf.String(), "⋯ 12 unchanged lines in def b():")
		assert.Contains(t, buf.String(), "no lines")
	})

	t.Run("notes moves and code safety", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		f := &diffchunk.FileDiff{
			Chunks: []diffchunk.Chunk{{
				Change: diffchunk.TagDelete,
				Lines: []diffchunk.Row{{
					Row: 1, OldLine: 1, OldText: "moved line",
					Moved: &diffchunk.Moved{To: &diffchunk.MoveInfo{Line: 9, First: true}},
					CodeSafety: []diffchunk.CodeSafetyFinding{{
						CheckerID: "trojan_source",
						Result:    diffchunk.CodeSafetyResult{Warnings: []string{"bidi", "zws"}},
					}},
				}},
			}},
		}

		require.NoError(t, plainWriter(&buf, 10).WriteFile(context.Background(), f))

		assert.Contains(t, buf.String(), "moved to 9")
		assert.Contains(t, buf.String(), "⚠ trojan_source: bidi,zws")
	})

	t.Run("truncates long lines", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		f := &diffchunk.FileDiff{
			Chunks: []diffchunk.Chunk{{
				Change: diffchunk.TagEqual,
				Lines:  []diffchunk.Row{{Row: 1, OldLine: 1, OldText: "0123456789abc", NewLine: 1, NewText: "short"}},
			}},
		}

		require.NoError(t, plainWriter(&buf, 5).WriteFile(context.Background(), f))

		assert.Contains(t, buf.String(), "   1 01234 │    1   short")
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var buf bytes.Buffer
		f := &diffchunk.FileDiff{Chunks: []diffchunk.Chunk{{Change: diffchunk.TagEqual}}}

		assert.ErrorIs(t, plainWriter(&buf, 5).WriteFile(ctx, f), context.Canceled)
		assert.Empty(t, buf.String())
	})
}
