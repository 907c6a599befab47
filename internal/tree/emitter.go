// Package tree walks a directory depth-first and writes an indented text
// rendering of it, optionally with the contents of every text file inlined.
package tree

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/hashicorp/go-multierror"
)

const (
	// Indent is written once per depth level.
	Indent = "    "
	// DirMarker prefixes directory lines.
	DirMarker = "📁 "
	// FileMarker prefixes file lines.
	FileMarker = "📄 "
)

var (
	// ErrNotDirectory is returned when the root exists but is not a directory.
	ErrNotDirectory = errors.New("root is not a directory")
	// ErrWriteOutput wraps failures of the sink.
	ErrWriteOutput = errors.New("write output")
)

// PathStyle selects how an entry's path is printed.
type PathStyle string

const (
	// PathRelative prints the slash-separated path relative to the run root.
	PathRelative PathStyle = "relative"
	// PathName prints only the entry's own name.
	PathName PathStyle = "name"
)

// PathStyles lists the accepted PathStyle values.
var PathStyles = []string{string(PathRelative), string(PathName)}

// Options configures a single run.
type Options struct {
	Root          string
	InlineContent bool
	PathStyle     PathStyle
	// Excludes are globs matched against root-relative slash paths.
	Excludes []string
	// OutputPath names the sink file so it is never listed when it lies
	// inside the walked tree. Empty disables the check.
	OutputPath string
}

// LineKind tells a Console what a mirrored line represents.
type LineKind int

const (
	// LineDir is a directory entry.
	LineDir LineKind = iota
	// LineFile is a file entry, with a trailing ":" in content mode.
	LineFile
	// LineContent is one inlined line of a file.
	LineContent
	// LinePlaceholder replaces the content of a file that could not be read.
	LinePlaceholder
)

// Console receives a copy of every line written to the sink, without the
// trailing newline. Implementations must not fail the run.
type Console interface {
	Mirror(kind LineKind, line string)
}

// ConsoleFunc adapts a function to Console.
type ConsoleFunc func(kind LineKind, line string)

func (f ConsoleFunc) Mirror(kind LineKind, line string) { f(kind, line) }

type nopConsole struct{}

func (nopConsole) Mirror(LineKind, string) {}

// Result summarizes a completed run.
type Result struct {
	Dirs       int
	Files      int
	Unreadable int
	Excluded   int
	// ReadErrors aggregates the per-file failures that were replaced by a
	// placeholder line. Nil when every file was readable.
	ReadErrors error
}

// Emitter writes the tree rendering for one root.
type Emitter struct {
	opts    Options
	sink    io.Writer
	console Console
	logger  *log.Logger
	filter  pathFilter

	outputInfo os.FileInfo
	// ancestors holds the resolved paths of the directories currently being
	// walked. A symlink back into one of them is listed but not descended.
	ancestors map[string]struct{}
	result    Result
}

// NewEmitter builds an Emitter. A nil console or logger is replaced by a no-op.
func NewEmitter(opts Options, sink io.Writer, console Console, logger *log.Logger) *Emitter {
	if console == nil {
		console = nopConsole{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if opts.PathStyle == "" {
		opts.PathStyle = PathRelative
	}
	return &Emitter{
		opts:    opts,
		sink:    sink,
		console: console,
		logger:  logger,
		filter:  newPathFilter(opts.Excludes),
	}
}

// NormalizeRoot trims whitespace and trailing separators from a user-supplied
// root path. A path made only of separators collapses to a single one.
func NormalizeRoot(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	trimmed := strings.TrimRight(raw, `/\`)
	if trimmed == "" {
		return raw[:1]
	}
	return trimmed
}

// CheckRoot verifies that root exists, is a directory and can be listed.
func CheckRoot(root string) error {
	if strings.TrimSpace(root) == "" {
		return fmt.Errorf("root path is empty")
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}
	f, err := os.Open(root)
	if err != nil {
		return fmt.Errorf("open root: %w", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("list root: %w", err)
	}
	return nil
}

// Emit walks the root and writes one line per entry. Unreadable files are
// recovered with a placeholder line; root, listing and sink failures are
// returned as errors.
func (e *Emitter) Emit() (Result, error) {
	if err := CheckRoot(e.opts.Root); err != nil {
		return Result{}, err
	}
	absRoot, err := filepath.Abs(e.opts.Root)
	if err != nil {
		return Result{}, fmt.Errorf("resolve root: %w", err)
	}
	e.result = Result{}

	rootResolved := filepath.Clean(absRoot)
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		rootResolved = filepath.Clean(resolved)
	}
	e.ancestors = map[string]struct{}{rootResolved: {}}

	e.outputInfo = nil
	if e.opts.OutputPath != "" {
		if info, err := os.Stat(e.opts.OutputPath); err == nil {
			e.outputInfo = info
		}
	}

	if err := e.walkDir(absRoot, "", 0); err != nil {
		return e.result, err
	}
	return e.result, nil
}

func (e *Emitter) walkDir(absDir, relDir string, depth int) error {
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return fmt.Errorf("list %s: %w", absDir, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	prefix := strings.Repeat(Indent, depth)
	for _, entry := range entries {
		name := entry.Name()
		relPath := name
		if relDir != "" {
			relPath = relDir + "/" + name
		}
		fullPath := filepath.Join(absDir, name)

		// Stat follows symlinks, so a link to a directory is walked as one.
		// A dangling link fails here and is treated as an unreadable file.
		info, statErr := os.Stat(fullPath)
		isDir := statErr == nil && info.IsDir()

		if e.isOutputFile(info) {
			continue
		}
		if !e.filter.empty() && e.filter.match(relPath, isDir) {
			e.logger.Printf("exclude %s", relPath)
			e.result.Excluded++
			continue
		}

		display := e.displayPath(name, relPath)
		if isDir {
			if err := e.writeLine(LineDir, prefix+DirMarker+display+"/"); err != nil {
				return err
			}
			e.result.Dirs++

			nextDir := filepath.Clean(fullPath)
			if resolved, err := filepath.EvalSymlinks(nextDir); err == nil {
				nextDir = filepath.Clean(resolved)
			}
			if _, ok := e.ancestors[nextDir]; ok {
				e.logger.Printf("skip %s (symlink loop)", relPath)
				continue
			}
			e.ancestors[nextDir] = struct{}{}
			err := e.walkDir(fullPath, relPath, depth+1)
			delete(e.ancestors, nextDir)
			if err != nil {
				return err
			}
			continue
		}

		if err := e.emitFile(fullPath, relPath, prefix+FileMarker+display, depth); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitFile(fullPath, relPath, head string, depth int) error {
	e.result.Files++
	if !e.opts.InlineContent {
		return e.writeLine(LineFile, head)
	}
	if err := e.writeLine(LineFile, head+":"); err != nil {
		return err
	}

	contentPrefix := strings.Repeat(Indent, depth+1)
	lines, err := readTextLines(fullPath)
	if err != nil {
		e.logger.Printf("read %s: %v", relPath, err)
		e.result.Unreadable++
		e.result.ReadErrors = multierror.Append(e.result.ReadErrors, fmt.Errorf("%s: %w", relPath, err))
		return e.writeLine(LinePlaceholder, contentPrefix+fmt.Sprintf("[cannot read file: %v]", err))
	}
	for _, line := range lines {
		if _, err := io.WriteString(e.sink, contentPrefix+terminated(line)); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		e.console.Mirror(LineContent, contentPrefix+trimTerminator(line))
	}
	return nil
}

func (e *Emitter) writeLine(kind LineKind, line string) error {
	if _, err := io.WriteString(e.sink, line+"\n"); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	e.console.Mirror(kind, line)
	return nil
}

// displayPath picks the printed path. Names holding control characters are
// quoted so every entry stays on a single line.
func (e *Emitter) displayPath(name, relPath string) string {
	p := relPath
	if e.opts.PathStyle == PathName {
		p = name
	}
	if strings.ContainsFunc(p, unicode.IsControl) {
		return strconv.Quote(p)
	}
	return p
}

func (e *Emitter) isOutputFile(info os.FileInfo) bool {
	return info != nil && e.outputInfo != nil && os.SameFile(info, e.outputInfo)
}
