package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpost/internal/logging"
	"github.com/yaklabco/mdpost/pkg/config"
	"github.com/yaklabco/mdpost/pkg/editor"
	"github.com/yaklabco/mdpost/pkg/fsutil"
	"github.com/yaklabco/mdpost/pkg/workspace"
)

type formatFlags struct {
	selection string
	write     bool
	yaml      bool
	diff      bool
}

// formatOutcome is the --yaml output of the format command.
type formatOutcome struct {
	Command string `yaml:"command"`
	Applied bool   `yaml:"applied"`
	Caret   int    `yaml:"caret"`
	Content string `yaml:"content"`
}

// cliSurface is the editing surface of a one-shot format command: it holds
// the selection given on the command line and receives the caret.
type cliSurface struct {
	start, end int
	focused    bool
}

func (s *cliSurface) Selection() (int, int) { return s.start, s.end }

func (s *cliSurface) SetSelection(start, end int) { s.start, s.end = start, end }

func (s *cliSurface) Focus() { s.focused = true }

func newFormatCommand() *cobra.Command {
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "format COMMAND [file|-]",
		Short: "Apply a toolbar formatting command to Markdown text",
		Long: `Apply one of the editor toolbar commands to a file or standard input and
print the result. The selection is given in characters as START:END, or a
single offset for a caret.

Commands: ` + commandList() + `

Examples:
  mdpost format bold post.md --selection 6:11
  echo "title" | mdpost format heading1
  mdpost format codeBlock post.md --selection 42 --write
  mdpost format quote post.md --selection 10 --diff`,
		Args: cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveDefault
			}
			return commandNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 2 {
				path = args[1]
			}
			return runFormat(cmd, args[0], path, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.selection, "selection", "s", "", "selection as START:END or caret offset (default: end of input)")
	cmd.Flags().BoolVar(&flags.write, "write", false, "write the result back to the file")
	cmd.Flags().BoolVar(&flags.yaml, "yaml", false, "print command, applied flag, caret and content as YAML")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a unified diff instead of the result")
	cmd.MarkFlagsMutuallyExclusive("yaml", "diff")

	return cmd
}

func runFormat(cmd *cobra.Command, name, path string, flags *formatFlags) error {
	if _, ok := editor.ParseCommand(name); !ok {
		return fmt.Errorf("unknown command %q; valid commands: %s", name, commandList())
	}
	if flags.write && (path == "" || path == "-") {
		return errors.New("--write needs a file argument")
	}

	ctx, cfg, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}

	content, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	surface := &cliSurface{}
	surface.start, surface.end, err = parseSelection(flags.selection, []rune(string(content)))
	if err != nil {
		return err
	}

	queue := workspace.NewCommitQueue()
	binding := workspace.NewValueBinding(string(content))
	mode, _ := workspace.ParseViewMode(cfg.ViewMode)
	if !mode.ShowsEditor() {
		mode = workspace.ViewSplit
	}
	sess := workspace.NewSession(binding, workspace.WithScheduler(queue), workspace.WithViewMode(mode))
	sess.Attach(surface)

	applied := sess.Format(name)
	queue.Flush()

	result := binding.Value()
	logging.FromContext(ctx).Debug("format applied",
		"command", name, "applied", applied, "caret", surface.start)

	if flags.write {
		info, statErr := os.Stat(path)
		perm := os.FileMode(0o644)
		if statErr == nil {
			perm = info.Mode().Perm()
		}
		if err := fsutil.WriteAtomic(ctx, path, []byte(result), perm); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	out := cmd.OutOrStdout()
	if flags.yaml {
		return config.EncodeYAML(out, formatOutcome{Command: name, Applied: applied, Caret: surface.start, Content: result})
	}
	if flags.diff {
		label := path
		if label == "" || label == "-" {
			label = "stdin"
		}
		fmt.Fprint(out, stylesFor(cmd, out).FormatDiff(label, content, []byte(result)))
	} else if !flags.write {
		fmt.Fprint(out, result)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "caret %d\n", surface.start)
	return nil
}

// parseSelection parses START:END or a single caret offset. An empty selection
// places the caret at the end of content.
func parseSelection(sel string, content []rune) (int, int, error) {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return len(content), len(content), nil
	}

	startStr, endStr, hasEnd := strings.Cut(sel, ":")
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid selection %q: %w", sel, err)
	}
	end := start
	if hasEnd {
		end, err = strconv.Atoi(strings.TrimSpace(endStr))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid selection %q: %w", sel, err)
		}
	}
	if start < 0 || end < 0 {
		return 0, 0, fmt.Errorf("invalid selection %q: offsets must not be negative", sel)
	}
	return start, end, nil
}

func commandNames() []string {
	cmds := editor.Commands()
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = string(c)
	}
	return names
}

func commandList() string {
	return strings.Join(commandNames(), ", ")
}
