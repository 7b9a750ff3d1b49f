package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpost/pkg/config"
	"github.com/yaklabco/mdpost/pkg/highlight"
	"github.com/yaklabco/mdpost/pkg/preview"
	"github.com/yaklabco/mdpost/pkg/render"
)

type previewFlags struct {
	html    bool
	width   int
	enable  []string
	disable []string
}

func newPreviewCommand() *cobra.Command {
	var cfg config.Config
	flags := &previewFlags{}

	cmd := &cobra.Command{
		Use:   "preview [file|-]",
		Short: "Preview a Markdown file in the terminal",
		Long: `Render a Markdown file for the terminal: styled headings, lists, quotes,
tables and syntax highlighted code blocks with line numbers. Reads standard
input when no file (or "-") is given.

Examples:
  mdpost preview post.md
  cat post.md | mdpost preview
  mdpost preview post.md --html      # print the HTML fragment instead`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runPreview(cmd, path, &cfg, flags)
		},
	}

	cmd.Flags().StringVar(&cfg.Theme, "theme", "", "syntax highlighting theme")
	cmd.Flags().BoolVar(&flags.html, "html", false, "print the HTML fragment")
	cmd.Flags().IntVarP(&flags.width, "width", "w", 0, "wrap width (default: terminal width)")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "extensions to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "extensions to disable")

	return cmd
}

func runPreview(cmd *cobra.Command, path string, cfg *config.Config, flags *previewFlags) error {
	cfg.Extensions = extensionOverrides(flags.enable, flags.disable)

	ctx, finalCfg, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	content, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	engine := preview.NewEngine(finalCfg)
	out := cmd.OutOrStdout()

	if flags.html {
		res, err := engine.Render(ctx, content)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		_, err = out.Write(res.HTML)
		return err
	}

	doc, err := engine.Parse(ctx, content)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return newTerminalRenderer(cmd, out, finalCfg, flags.width).Render(out, doc)
}

// newTerminalRenderer builds a terminal renderer for out. A positive width
// overrides the detected terminal width.
func newTerminalRenderer(cmd *cobra.Command, out io.Writer, cfg *config.Config, width int) *render.Terminal {
	if width <= 0 {
		width = terminalWidth(out, 0)
	}
	return render.NewTerminal(
		highlight.New(cfg.Theme),
		stylesFor(cmd, out),
		render.WithWidth(width),
	)
}
