// Command diffchunk renders the diff of two files, or the interdiff of two
// patches against a base tree, as chunks.
//
// Usage:
//
//	diffchunk [flags] diff OLD NEW
//	diffchunk [flags] interdiff -base DIR ORIG.patch NEW.patch
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/reviewboard/diffchunk"
	"github.com/reviewboard/diffchunk/chroma"
	"github.com/reviewboard/diffchunk/chunk"
	"github.com/reviewboard/diffchunk/codesafety"
	"github.com/reviewboard/diffchunk/fs"
	"github.com/reviewboard/diffchunk/gitdiff"
	"github.com/reviewboard/diffchunk/jsonl"
	"github.com/reviewboard/diffchunk/lipgloss"
	"github.com/reviewboard/diffchunk/yaml"
	"golang.org/x/sync/errgroup"
)

// ErrUsage is returned for malformed command lines.
var ErrUsage = errors.New("usage: diffchunk [flags] diff OLD NEW | interdiff -base DIR ORIG.patch NEW.patch")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, cmd, err := Parse(os.Args[1:], os.Stdout, os.Stderr)
	if err == nil {
		err = app.Run(ctx, cmd)
	}
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case errors.Is(err, diffchunk.ErrNoChanges):
		fmt.Fprintln(os.Stderr, "diffchunk: no changes")
	default:
		fmt.Fprintf(os.Stderr, "diffchunk: %v\n", err)
		os.Exit(1)
	}
}

// Command is a parsed subcommand.
type Command struct {
	Name string   // "diff" or "interdiff"
	Base string   // base directory for interdiff
	Args []string // files or patches
}

// Parse builds an App from command line arguments.
func Parse(args []string, stdout, stderr io.Writer) (*App, Command, error) {
	flags := flag.NewFlagSet("diffchunk", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		configPath = flags.String("config", fs.DefaultConfigPath(), "settings file")
		format     = flags.String("format", "pretty", "output format: pretty or jsonl")
		width      = flags.Int("width", lipgloss.DefaultColumnWidth, "column width of the pretty format")
		verbose    = flags.Bool("v", false, "log debug messages")
		jobs       = flags.Int("j", runtime.NumCPU(), "files diffed concurrently")
		encodings  = flags.String("encodings", "", "comma-separated encodings to try, in order")
		validate   = flags.Bool("validate", false, "check opcode invariants and panic on violation")
	)
	if err := flags.Parse(args); err != nil {
		return nil, Command{}, err
	}

	cmd, err := parseCommand(flags.Args(), stderr)
	if err != nil {
		return nil, Command{}, err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	settings, err := yaml.Load(*configPath)
	if err != nil {
		return nil, Command{}, err
	}
	safety := codesafety.Default(logger)
	if err := safety.Enable(settings.CodeSafetyCheckers()...); err != nil {
		return nil, Command{}, err
	}

	app := &App{
		Settings:    settings,
		Highlighter: chroma.NewHighlighter(settings, logger),
		Safety:      safety,
		Patcher:     gitdiff.NewPatcher(logger),
		Logger:      logger,
		Jobs:        *jobs,
		Validate:    *validate,
	}
	if *encodings != "" {
		app.Encodings = strings.Split(*encodings, ",")
	}
	switch *format {
	case "pretty":
		app.Writer = lipgloss.NewWriter(stdout, nil, *width)
	case "jsonl":
		app.Writer = jsonl.NewWriter(stdout)
	default:
		return nil, Command{}, fmt.Errorf("unknown format %q", *format)
	}
	return app, cmd, nil
}

func parseCommand(args []string, stderr io.Writer) (Command, error) {
	if len(args) == 0 {
		return Command{}, ErrUsage
	}
	cmd := Command{Name: args[0]}
	switch cmd.Name {
	case "diff":
		cmd.Args = args[1:]
	case "interdiff":
		flags := flag.NewFlagSet("interdiff", flag.ContinueOnError)
		flags.SetOutput(stderr)
		base := flags.String("base", ".", "directory both patches apply to")
		if err := flags.Parse(args[1:]); err != nil {
			return Command{}, err
		}
		cmd.Base, cmd.Args = *base, flags.Args()
	default:
		return Command{}, fmt.Errorf("%w: unknown command %q", ErrUsage, cmd.Name)
	}
	if len(cmd.Args) != 2 {
		return Command{}, ErrUsage
	}
	return cmd, nil
}

// App wires the chunk generator to its inputs and output.
type App struct {
	Settings    diffchunk.Settings
	Highlighter diffchunk.Highlighter       // optional
	Safety      diffchunk.CodeSafetyChecker // optional
	Writer      diffchunk.ChunkWriter
	Patcher     diffchunk.Patcher // required for interdiff
	Logger      *slog.Logger
	Jobs        int      // files diffed concurrently; 1 if unset
	Encodings   []string // decoding candidates for both sides
	Validate    bool
}

// Run executes cmd. It returns diffchunk.ErrNoChanges when no file has a
// change to show.
func (a *App) Run(ctx context.Context, cmd Command) error {
	switch cmd.Name {
	case "diff":
		return a.Diff(ctx, cmd.Args[0], cmd.Args[1])
	case "interdiff":
		return a.Interdiff(ctx, cmd.Base, cmd.Args[0], cmd.Args[1])
	}
	return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd.Name)
}

// Diff renders the diff between two files.
func (a *App) Diff(ctx context.Context, oldPath, newPath string) error {
	oldData, err := os.ReadFile(oldPath)
	if err != nil {
		return err
	}
	newData, err := os.ReadFile(newPath)
	if err != nil {
		return err
	}

	fd, err := a.generate(chunk.Request{
		Old:              oldData,
		New:              newData,
		OrigFilename:     oldPath,
		ModifiedFilename: newPath,
	})
	if err != nil {
		return err
	}
	return a.write(ctx, []*diffchunk.FileDiff{fd})
}

// Interdiff applies both patches to the files under baseDir and renders
// the differences between the results, limited to the lines either patch
// touches.
func (a *App) Interdiff(ctx context.Context, baseDir, origPatch, newPatch string) error {
	orig, err := a.readPatch(origPatch)
	if err != nil {
		return err
	}
	mod, err := a.readPatch(newPatch)
	if err != nil {
		return err
	}

	var paths []string
	for p := range orig {
		paths = append(paths, p)
	}
	for p := range mod {
		if _, ok := orig[p]; !ok {
			paths = append(paths, p)
		}
	}
	slices.Sort(paths)

	results := make([]*diffchunk.FileDiff, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.Jobs, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fd, err := a.interdiffFile(baseDir, path, orig, mod)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = fd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return a.write(ctx, results)
}

func (a *App) interdiffFile(baseDir, path string, orig, mod map[string]diffchunk.FilePatch) (*diffchunk.FileDiff, error) {
	origFP, inOrig := orig[path]
	modFP, inMod := mod[path]

	basePath := path
	for _, fp := range []diffchunk.FilePatch{origFP, modFP} {
		if fp.OldPath != "" {
			basePath = fp.OldPath
			break
		}
	}
	base, err := fs.ReadFile(filepath.Join(baseDir, basePath))
	if err != nil {
		return nil, err
	}

	oldSide, newSide := base, base
	req := chunk.Request{OrigFilename: path, ModifiedFilename: path, Interdiff: &chunk.Interdiff{}}
	if inOrig {
		if oldSide, err = a.Patcher.Apply(base, origFP); err != nil {
			return nil, err
		}
		req.Interdiff.OrigDiff = origFP.Raw
	}
	if inMod {
		if newSide, err = a.Patcher.Apply(base, modFP); err != nil {
			return nil, err
		}
		req.Interdiff.NewDiff = modFP.Raw
	}
	req.Old, req.New = oldSide, newSide
	return a.generate(req)
}

func (a *App) readPatch(path string) (map[string]diffchunk.FilePatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	patches, err := a.Patcher.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	byPath := make(map[string]diffchunk.FilePatch, len(patches))
	for _, p := range patches {
		byPath[p.Path()] = p
	}
	return byPath, nil
}

func (a *App) generate(req chunk.Request) (*diffchunk.FileDiff, error) {
	req.OldEncodings, req.NewEncodings = a.Encodings, a.Encodings

	opts := []chunk.Option{chunk.WithValidation(a.Validate)}
	if a.Highlighter != nil {
		opts = append(opts, chunk.WithHighlighter(a.Highlighter))
	}
	if a.Safety != nil {
		opts = append(opts, chunk.WithCodeSafety(a.Safety))
	}
	if a.Logger != nil {
		opts = append(opts, chunk.WithLogger(a.Logger))
	}

	res, err := chunk.NewGenerator(a.Settings, opts...).Generate(req)
	if err != nil {
		return nil, err
	}
	return res.Collect(req.OrigFilename, req.ModifiedFilename), nil
}

// write outputs the files that have changes, in order.
func (a *App) write(ctx context.Context, files []*diffchunk.FileDiff) error {
	written := 0
	for _, fd := range files {
		if !hasChanges(fd) {
			continue
		}
		if err := a.Writer.WriteFile(ctx, fd); err != nil {
			return err
		}
		written++
	}
	if written == 0 {
		return diffchunk.ErrNoChanges
	}
	return nil
}

func hasChanges(fd *diffchunk.FileDiff) bool {
	for _, c := range fd.Chunks {
		if c.Change != diffchunk.TagEqual {
			return true
		}
	}
	return false
}
