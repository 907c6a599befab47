package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"struktur/internal/config"
)

// Exit codes
const (
	ExitSuccess          = 0
	ExitGenericError     = 1
	ExitConfigInvalid    = 2
	ExitRootInaccessible = 3
	ExitOutputFailure    = 4
)

// ExitError carries a process exit code through cobra's RunE.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func exitErr(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitGenericError
}

// rootFlags holds the flags of the root command.
type rootFlags struct {
	Root           string
	Output         string
	Content        bool
	PathStyle      string
	Excludes       []string
	ConfigPath     string
	NonInteractive bool
	Quiet          bool
	Verbose        bool
}

// overrides turns the flags the user actually set into config overrides.
func (f *rootFlags) overrides(cmd *cobra.Command) *config.Overrides {
	o := &config.Overrides{}
	flags := cmd.Flags()
	if flags.Changed("root") {
		o.RootDir = &f.Root
	}
	if flags.Changed("output") {
		o.OutputPath = &f.Output
	}
	if flags.Changed("content") {
		o.InlineContent = &f.Content
	}
	if flags.Changed("path-style") {
		o.PathStyle = &f.PathStyle
	}
	if flags.Changed("exclude") {
		o.PathExcludes = f.Excludes
	}
	if flags.Changed("verbose") {
		o.Verbose = &f.Verbose
	}
	return o
}

// NewRootCmd builds the struktur command tree.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "struktur",
		Short: "Write a directory tree, optionally with file contents, to a text file",
		Long: "struktur walks a folder depth-first and writes every directory and file to output.txt,\n" +
			"indented by depth. In content mode the text of each file is inlined under its path.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStruktur(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.Root, "root", "", "folder to walk (prompted when empty)")
	flags.StringVarP(&f.Output, "output", "o", config.DefaultOutputPath, "output file, truncated on every run")
	flags.BoolVar(&f.Content, "content", true, "inline file contents (prompted when not set)")
	flags.StringVar(&f.PathStyle, "path-style", "relative", "printed path form: relative|name")
	flags.StringArrayVar(&f.Excludes, "exclude", nil, "glob of root-relative paths to leave out (repeatable)")
	flags.BoolVar(&f.NonInteractive, "non-interactive", false, "never prompt; fail when the root folder is not configured")
	flags.BoolVarP(&f.Quiet, "quiet", "q", false, "do not mirror the tree to the console")
	flags.BoolVarP(&f.Verbose, "verbose", "v", false, "log diagnostics to stderr")
	cmd.PersistentFlags().StringVar(&f.ConfigPath, "config", config.DefaultConfigFile, "config file path (.toml, .yaml or .yml)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd(f))
	return cmd
}

// Execute runs the root command; map the error with ExitCode.
func Execute() error {
	return NewRootCmd().Execute()
}
