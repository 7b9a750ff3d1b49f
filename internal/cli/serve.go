package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpost/internal/logging"
	"github.com/yaklabco/mdpost/internal/server"
	"github.com/yaklabco/mdpost/pkg/config"
	"github.com/yaklabco/mdpost/pkg/preview"
)

func newServeCommand() *cobra.Command {
	var cfg config.Config
	var noPosts bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render, format and post API over HTTP",
		Long: `Start the HTTP server. It exposes:

  POST /api/render         render Markdown to HTML
  POST /api/format         apply a toolbar command to a selection
  GET  /api/commands       list toolbar commands
  GET  /ws/preview         live preview over a websocket
  POST /api/posts          create a post
  GET  /api/posts[/{id}]   list or fetch posts
  POST /api/posts/description   queue a description job
  GET  /api/jobs/{id}      poll a description job

Examples:
  mdpost serve
  mdpost serve --addr :9000 --driver memory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, &cfg, noPosts)
		},
	}

	cmd.Flags().StringVar(&cfg.Server.Addr, "addr", "", "listen address (default "+config.DefaultAddr+")")
	cmd.Flags().StringVar(&cfg.Database.Driver, "driver", "", "post store driver: sqlite3 or memory")
	cmd.Flags().StringVar(&cfg.Database.DSN, "dsn", "", "post store data source name")
	cmd.Flags().StringVar(&cfg.Theme, "theme", "", "syntax highlighting theme")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "description workers (0 = auto)")
	cmd.Flags().BoolVar(&noPosts, "no-posts", false, "serve only the render and format endpoints")

	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config, noPosts bool) (err error) {
	ctx, finalCfg, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	var opts []server.Option
	if !noPosts {
		backend, err := openPosts(ctx, finalCfg)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, backend.Close())
		}()
		opts = append(opts, server.WithPosts(backend.Service))
	}

	srv := server.New(preview.NewEngine(finalCfg), opts...)
	logger.Debug("starting server", "posts", !noPosts, logging.FieldTheme, finalCfg.Theme)
	return srv.ListenAndServe(ctx, finalCfg.Server.Addr, nil)
}
