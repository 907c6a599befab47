package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"struktur/internal/config"
	"struktur/internal/tree"
)

// PrintError writes err to w with the ERROR: prefix.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, newStyles(w).errPrefix(), err)
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(w, "struktur: ", 0)
}

func runStruktur(cmd *cobra.Command, f *rootFlags) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	cfg, err := config.Load(config.Options{
		ConfigPath: f.ConfigPath,
		Overrides:  f.overrides(cmd),
	})
	if err != nil {
		return exitErr(ExitConfigInvalid, err)
	}
	logger := newLogger(stderr, cfg.Verbose)
	prompter := newPrompter(cmd.InOrStdin(), stderr)

	root := tree.NormalizeRoot(cfg.RootDir)
	if root == "" {
		if f.NonInteractive {
			return exitErr(ExitConfigInvalid, errors.New("CONFIG_INVALID: root folder not set\nPass: --root <dir>\nOr set env: STRUKTUR_ROOT=<dir>"))
		}
		root, err = prompter.AskRoot()
		if err != nil {
			return exitErr(ExitGenericError, err)
		}
	}

	inline := true
	switch {
	case cfg.InlineContent != nil:
		inline = *cfg.InlineContent
	case !f.NonInteractive:
		inline, err = prompter.AskInline(true)
		if err != nil {
			return exitErr(ExitGenericError, err)
		}
	}

	// A bad root must fail before the output file is touched.
	if err := tree.CheckRoot(root); err != nil {
		return exitErr(ExitRootInaccessible, fmt.Errorf("root directory inaccessible: %w", err))
	}

	st := newStyles(stdout)
	var console tree.Console
	if !f.Quiet {
		console = consoleMirror{w: stdout, st: st}
	}
	opts := tree.Options{
		Root:          root,
		InlineContent: inline,
		PathStyle:     tree.PathStyle(cfg.PathStyle),
		Excludes:      cfg.PathExcludes,
		OutputPath:    cfg.OutputPath,
	}
	logger.Printf("walking %s (inline=%t, path_style=%s) into %s", root, inline, opts.PathStyle, cfg.OutputPath)

	res, err := writeOutput(cfg.OutputPath, opts, console, logger)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, st.success("✅ Output saved to "+cfg.OutputPath))
	fmt.Fprintf(stdout, "  %s %s %s\n", st.stat("dirs", res.Dirs), st.stat("files", res.Files), st.stat("unreadable", res.Unreadable))
	if res.Unreadable > 0 {
		fmt.Fprintln(stderr, st.warnPrefix(), fmt.Sprintf("%d file(s) could not be read; placeholders were written in their place", res.Unreadable))
		fmt.Fprint(stderr, readErrorList(res.ReadErrors))
	}
	return nil
}

// readErrorList renders the per-file failures collected during the walk as
// a bulleted list.
func readErrorList(err error) string {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return ""
	}
	merr.ErrorFormat = multierror.ListFormatFunc
	return merr.Error()
}

// writeOutput truncates the output file, streams the tree into it and makes
// sure it is flushed and closed on every path.
func writeOutput(path string, opts tree.Options, console tree.Console, logger *log.Logger) (res tree.Result, err error) {
	out, err := os.Create(path)
	if err != nil {
		return res, exitErr(ExitOutputFailure, fmt.Errorf("create output: %w", err))
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = exitErr(ExitOutputFailure, fmt.Errorf("close output: %w", cerr))
		}
	}()

	w := bufio.NewWriter(out)
	res, err = tree.NewEmitter(opts, w, console, logger).Emit()
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("%w: %w", tree.ErrWriteOutput, ferr)
	}
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, tree.ErrWriteOutput):
		return res, exitErr(ExitOutputFailure, err)
	default:
		return res, exitErr(ExitGenericError, fmt.Errorf("traversal failed: %w", err))
	}
}
