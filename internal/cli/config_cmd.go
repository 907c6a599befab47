package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"struktur/internal/config"
)

func newConfigCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.WriteTemplate(f.ConfigPath, force); err != nil {
				return exitErr(ExitGenericError, err)
			}
			st := newStyles(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), st.success("Wrote "+f.ConfigPath))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	var format string
	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective config (file, dotenv and env applied)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.Options{
				ConfigPath:   f.ConfigPath,
				SkipValidate: true,
			})
			if err != nil {
				return exitErr(ExitConfigInvalid, err)
			}
			out := config.FormatFor(f.ConfigPath)
			switch format {
			case "":
			case string(config.FormatTOML), string(config.FormatYAML):
				out = config.Format(format)
			default:
				return exitErr(ExitGenericError, fmt.Errorf("unknown format %q; allowed: toml, yaml", format))
			}
			return config.Encode(cmd.OutOrStdout(), cfg, out)
		},
	}
	printCmd.Flags().StringVar(&format, "format", "", "output format: toml|yaml (default: from --config extension)")

	cmd.AddCommand(initCmd)
	cmd.AddCommand(printCmd)
	return cmd
}
