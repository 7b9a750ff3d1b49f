package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpost/internal/configloader"
	"github.com/yaklabco/mdpost/internal/ui/pretty"
	"github.com/yaklabco/mdpost/pkg/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
	}
	cmd.AddCommand(newConfigShowCommand(), newConfigEnvCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var sources bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration after merging defaults, the system, user and
project files, --config and MDPOST_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, result, err := loadConfigResult(cmd, &config.Config{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if sources {
				writeSources(out, result.LoadedFrom)
			}

			data, err := result.Config.ToYAML()
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&sources, "sources", false, "list the files that were loaded")
	return cmd
}

func writeSources(w io.Writer, loaded []string) {
	if len(loaded) == 0 {
		fmt.Fprintln(w, "# sources: defaults only")
		return
	}
	for _, path := range loaded {
		fmt.Fprintf(w, "# source: %s\n", path)
	}
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables mdpost reads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			_, err := io.WriteString(out, formatEnvTable(stylesFor(cmd, out), terminalWidth(out, 0)))
			return err
		},
	}
}

func formatEnvTable(styles *pretty.Styles, width int) string {
	vars := configloader.ListEnvVars()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	tbl := &pretty.Table{Headers: []string{"Variable", "Description"}}
	for _, name := range names {
		tbl.Rows = append(tbl.Rows, []string{name, vars[name]})
	}
	return pretty.NewTableFormatter(styles, styles.ColorEnabled, width).FormatTable(tbl)
}
