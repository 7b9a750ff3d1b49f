// Package cli provides the Cobra command structure for mdpost.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpost/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root mdpost command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "mdpost",
		Short: "Write, preview and publish Markdown blog posts",
		Long: `mdpost renders Markdown blog posts: GitHub Flavored Markdown, math and
syntax highlighted code blocks with line numbers and titles.

It previews posts in the terminal or as HTML, re-renders on every save,
applies editor toolbar commands, renders whole trees of posts in parallel,
and serves a render, format and post API with live websocket previews.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newPreviewCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newFormatCommand())
	rootCmd.AddCommand(newPostCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	// Apply styled help formatting.
	ApplyHelp(rootCmd, &color)

	return rootCmd
}
