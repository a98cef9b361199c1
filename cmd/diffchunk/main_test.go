package main_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/reviewboard/diffchunk"
	main "github.com/reviewboard/diffchunk/cmd/diffchunk"
	"github.com/reviewboard/diffchunk/codesafety"
	"github.com/reviewboard/diffchunk/gitdiff"
	"github.com/reviewboard/diffchunk/jsonl"
	"github.com/reviewboard/diffchunk/lipgloss"
	"github.com/reviewboard/diffchunk/mock"
	"github.com/reviewboard/diffchunk/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n"

const origPatch = `diff --git a/f.txt b/f.txt
--- a/f.txt
+++ b/f.txt
@@ -1,5 +1,5 @@
 1
-2
+two
 3
 4
 5
`

const newPatch = origPatch + `@@ -6,5 +6,5 @@
 6
 7
 8
-9
+nine
 10
diff --git a/g.txt b/g.txt
new file mode 100644
--- /dev/null
+++ b/g.txt
@@ -0,0 +1 @@
+hello
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// recorder collects written files.
type recorder struct {
	mu    sync.Mutex
	files []*diffchunk.FileDiff
}

func (r *recorder) writer() *mock.ChunkWriter {
	return &mock.ChunkWriter{
		WriteFileFn: func(_ context.Context, f *diffchunk.FileDiff) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.files = append(r.files, f)
			return nil
		},
	}
}

func tags(f *diffchunk.FileDiff) []diffchunk.Tag {
	var out []diffchunk.Tag
	for _, c := range f.Chunks {
		out = append(out, c.Change)
	}
	return out
}

func TestApp_Diff_WritesChangedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.txt", "a\nb\n")
	newPath := writeFile(t, dir, "new.txt", "a\nc\n")

	var rec recorder
	app := &main.App{Settings: yaml.Default(), Writer: rec.writer()}

	err := app.Run(context.Background(), main.Command{Name: "diff", Args: []string{oldPath, newPath}})
	require.NoError(t, err)

	require.Len(t, rec.files, 1)
	f := rec.files[0]
	assert.Equal(t, oldPath, f.OrigFilename)
	assert.Equal(t, newPath, f.ModifiedFilename)
	assert.Equal(t, []diffchunk.Tag{diffchunk.TagEqual, diffchunk.TagReplace}, tags(f))
	assert.Equal(t, map[diffchunk.Tag]int{diffchunk.TagEqual: 1, diffchunk.TagReplace: 1}, f.Counts)
}

func TestApp_Diff_NoChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.txt", "same\n")
	newPath := writeFile(t, dir, "new.txt", "same\n")

	app := &main.App{
		Settings: yaml.Default(),
		Writer: &mock.ChunkWriter{
			WriteFileFn: func(context.Context, *diffchunk.FileDiff) error {
				t.Error("Writer should not be called without changes")
				return nil
			},
		},
	}

	err := app.Diff(context.Background(), oldPath, newPath)
	assert.Equal(t, diffchunk.ErrNoChanges, err)
}

func TestApp_Diff_FileNotFound(t *testing.T) {
	t.Parallel()

	app := &main.App{Settings: yaml.Default(), Writer: (&recorder{}).writer()}

	err := app.Diff(context.Background(), "/nonexistent/a", "/nonexistent/b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such file")
}

func TestApp_Diff_Undecodable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.txt", "caf\xe9\n")
	newPath := writeFile(t, dir, "new.txt", "cafe\n")

	app := &main.App{Settings: yaml.Default(), Writer: (&recorder{}).writer(), Encodings: []string{"utf-8"}}

	err := app.Diff(context.Background(), oldPath, newPath)
	assert.ErrorIs(t, err, diffchunk.ErrUndecodable)
}

func TestApp_Diff_WriterError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.txt", "a\n")
	newPath := writeFile(t, dir, "new.txt", "b\n")

	app := &main.App{
		Settings: yaml.Default(),
		Writer: &mock.ChunkWriter{
			WriteFileFn: func(context.Context, *diffchunk.FileDiff) error {
				return errors.New("broken pipe")
			},
		},
	}

	err := app.Diff(context.Background(), oldPath, newPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestApp_Interdiff_ShowsOnlyNewChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "f.txt", base)
	orig := writeFile(t, dir, "orig.patch", origPatch)
	mod := writeFile(t, dir, "new.patch", newPatch)

	var rec recorder
	app := &main.App{
		Settings: yaml.Default(),
		Writer:   rec.writer(),
		Patcher:  gitdiff.NewPatcher(nil),
		Safety:   codesafety.Default(nil),
		Jobs:     4,
		Validate: true,
	}

	err := app.Run(context.Background(), main.Command{Name: "interdiff", Base: dir, Args: []string{orig, mod}})
	require.NoError(t, err)

	require.Len(t, rec.files, 2)
	f := rec.files[0]
	assert.Equal(t, "f.txt", f.ModifiedFilename)
	require.Equal(t, []diffchunk.Tag{diffchunk.TagEqual, diffchunk.TagReplace, diffchunk.TagEqual}, tags(f))
	assert.Equal(t, 8, f.Chunks[0].NumLines())
	assert.Equal(t, "two", f.Chunks[0].Lines[1].NewText)
	assert.Equal(t, "9", f.Chunks[1].Lines[0].OldText)
	assert.Equal(t, "nine", f.Chunks[1].Lines[0].NewText)

	g := rec.files[1]
	assert.Equal(t, "g.txt", g.ModifiedFilename)
	require.Equal(t, []diffchunk.Tag{diffchunk.TagInsert}, tags(g))
	assert.Equal(t, "hello", g.Chunks[0].Lines[0].NewText)
}

func TestApp_Interdiff_SamePatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "f.txt", base)
	orig := writeFile(t, dir, "orig.patch", origPatch)
	again := writeFile(t, dir, "again.patch", origPatch)

	app := &main.App{
		Settings: yaml.Default(),
		Writer:   (&recorder{}).writer(),
		Patcher:  gitdiff.NewPatcher(nil),
	}

	err := app.Interdiff(context.Background(), dir, orig, again)
	assert.ErrorIs(t, err, diffchunk.ErrNoChanges)
}

func TestApp_Interdiff_ApplyError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	orig := writeFile(t, dir, "orig.patch", "")
	mod := writeFile(t, dir, "new.patch", "")

	app := &main.App{
		Settings: yaml.Default(),
		Writer:   (&recorder{}).writer(),
		Patcher: &mock.Patcher{
			ParseFn: func(io.Reader) ([]diffchunk.FilePatch, error) {
				return []diffchunk.FilePatch{{OldPath: "x.go", NewPath: "x.go"}}, nil
			},
			ApplyFn: func([]byte, diffchunk.FilePatch) ([]byte, error) {
				return nil, errors.New("hunk does not apply")
			},
		},
	}

	err := app.Interdiff(context.Background(), dir, orig, mod)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x.go: hunk does not apply")
}

func TestApp_Interdiff_PatchNotFound(t *testing.T) {
	t.Parallel()

	app := &main.App{Settings: yaml.Default(), Patcher: gitdiff.NewPatcher(nil)}

	err := app.Interdiff(context.Background(), t.TempDir(), "/nonexistent/a.patch", "/nonexistent/b.patch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such file")
}

func TestParse(t *testing.T) {
	t.Parallel()

	config := filepath.Join(t.TempDir(), "missing.yaml")

	t.Run("diff with jsonl output", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		app, cmd, err := main.Parse([]string{"-config", config, "-format", "jsonl", "-j", "2", "diff", "a", "b"}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Equal(t, main.Command{Name: "diff", Args: []string{"a", "b"}}, cmd)
		assert.IsType(t, &jsonl.Writer{}, app.Writer)
		assert.Equal(t, 2, app.Jobs)
		assert.Equal(t, 5, app.Settings.ContextLines())
	})

	t.Run("interdiff with pretty output", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		app, cmd, err := main.Parse([]string{"-config", config, "-encodings", "utf-8,latin1", "interdiff", "-base", "/src", "x.patch", "y.patch"}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Equal(t, main.Command{Name: "interdiff", Base: "/src", Args: []string{"x.patch", "y.patch"}}, cmd)
		assert.IsType(t, &lipgloss.Writer{}, app.Writer)
		assert.Equal(t, []string{"utf-8", "latin1"}, app.Encodings)
	})

	t.Run("reads settings", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "config.yaml", "context_lines: 2\n")
		var stdout, stderr bytes.Buffer
		app, _, err := main.Parse([]string{"-config", path, "diff", "a", "b"}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Equal(t, 2, app.Settings.ContextLines())
	})

	t.Run("rejects unknown checkers", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "config.yaml", "code_safety_checkers: [nope]\n")
		var stdout, stderr bytes.Buffer
		_, _, err := main.Parse([]string{"-config", path, "diff", "a", "b"}, &stdout, &stderr)

		assert.ErrorIs(t, err, codesafety.ErrUnknownChecker)
	})

	errorCases := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"frob", "a", "b"}},
		{name: "missing file", args: []string{"diff", "a"}},
		{name: "extra patch", args: []string{"interdiff", "a", "b", "c"}},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			_, _, err := main.Parse(append([]string{"-config", config}, tt.args...), &stdout, &stderr)

			assert.ErrorIs(t, err, main.ErrUsage)
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		_, _, err := main.Parse([]string{"-config", config, "-format", "xml", "diff", "a", "b"}, &stdout, &stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown format "xml"`)
	})
}
