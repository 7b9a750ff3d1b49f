package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpost/internal/logging"
	"github.com/yaklabco/mdpost/internal/ui/pretty"
	"github.com/yaklabco/mdpost/pkg/config"
	"github.com/yaklabco/mdpost/pkg/post"
)

// DriverMemory selects the in-process post store.
const DriverMemory = "memory"

// postBackend bundles a post service with the resources backing it.
type postBackend struct {
	Service    *post.Service
	dispatcher *post.Dispatcher
	closeStore func() error
}

// Close stops the job workers and closes the store.
func (b *postBackend) Close() error {
	b.dispatcher.Close()
	if b.closeStore != nil {
		return b.closeStore()
	}
	return nil
}

// openPosts builds the post service described by cfg.
func openPosts(ctx context.Context, cfg *config.Config) (*postBackend, error) {
	logger := logging.FromContext(ctx)

	var (
		store      post.Store
		closeStore func() error
	)
	switch cfg.Database.Driver {
	case DriverMemory:
		store = post.NewMemoryStore()
	default:
		db, err := post.OpenSQLite(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		bunStore := post.NewBunStore(db)
		if err := bunStore.Migrate(ctx); err != nil {
			_ = bunStore.Close()
			return nil, err
		}
		store, closeStore = bunStore, bunStore.Close
	}
	logger.Debug("post store ready", "driver", cfg.Database.Driver)

	dispatcher := post.NewDispatcher(ctx, cfg.Workers())
	svc := post.NewService(store, dispatcher,
		post.NewExcerptDescriber(cfg.Describer.MaxLength),
		post.WithNotifier(post.LogNotifier{Logger: logger}),
		post.WithDescriptionLength(cfg.Describer.MaxLength),
	)
	return &postBackend{Service: svc, dispatcher: dispatcher, closeStore: closeStore}, nil
}

// withPosts loads configuration, opens the post backend and runs fn.
func withPosts(cmd *cobra.Command, fn func(ctx context.Context, svc *post.Service) error) (err error) {
	ctx, cfg, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}
	backend, err := openPosts(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, backend.Close())
	}()
	return fn(ctx, backend.Service)
}

func newPostCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create and inspect blog posts",
		Long: `Manage posts in the configured store (database.driver and database.dsn).
Titles are limited to 100 characters, descriptions to 200 and content to
10000.`,
	}

	cmd.AddCommand(
		newPostCreateCommand(),
		newPostListCommand(),
		newPostShowCommand(),
		newPostDescribeCommand(),
	)
	return cmd
}

func newPostCreateCommand() *cobra.Command {
	var (
		title       string
		description string
		generate    bool
	)

	cmd := &cobra.Command{
		Use:   "create FILE|-",
		Short: "Create a post from a Markdown file",
		Example: `  mdpost post create post.md --title "Auth in Go" --description "Comparing auth methods"
  mdpost post create post.md --title "Auth in Go" --generate-description`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return withPosts(cmd, func(ctx context.Context, svc *post.Service) error {
				in := post.Input{Title: title, Description: description, Content: string(content)}
				if generate {
					desc, err := describe(ctx, svc, in.Content)
					if err != nil {
						return err
					}
					in.Description = desc
				}
				created, err := svc.Create(ctx, in)
				if err != nil {
					return postError(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), created.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "post title (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "post description")
	cmd.Flags().BoolVar(&generate, "generate-description", false, "generate the description from the content")
	cmd.MarkFlagsMutuallyExclusive("description", "generate-description")

	return cmd
}

func newPostListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPosts(cmd, func(ctx context.Context, svc *post.Service) error {
				posts, err := svc.List(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(posts) == 0 {
					fmt.Fprintln(out, "No posts")
					return nil
				}
				_, err = io.WriteString(out, formatPostTable(stylesFor(cmd, out), listWidth(out), posts))
				return err
			})
		},
	}
}

// listWidth fits tables to the terminal. Redirected output is not fitted so
// scripts see every column in full.
func listWidth(out io.Writer) int {
	if !isTerminal(out) {
		return math.MaxInt32
	}
	return terminalWidth(out, 0)
}

func formatPostTable(styles *pretty.Styles, width int, posts []post.Post) string {
	tbl := &pretty.Table{
		Headers: []string{"ID", "Created", "Title", "Description"},
		Fixed:   map[int]bool{0: true, 1: true},
	}
	for _, p := range posts {
		tbl.Rows = append(tbl.Rows, []string{
			p.ID.String(),
			p.CreatedAt.Local().Format(time.DateTime),
			p.Title,
			truncateRunes(p.Description, 48),
		})
	}
	return pretty.NewTableFormatter(styles, styles.ColorEnabled, width).FormatTable(tbl)
}

func newPostShowCommand() *cobra.Command {
	var metaOnly bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print a post as YAML front matter followed by its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id %q: %w", args[0], err)
			}
			return withPosts(cmd, func(ctx context.Context, svc *post.Service) error {
				p, err := svc.Get(ctx, id)
				if err != nil {
					return postError(err)
				}
				return writePost(cmd.OutOrStdout(), p, metaOnly)
			})
		},
	}

	cmd.Flags().BoolVar(&metaOnly, "meta", false, "print only the metadata")
	return cmd
}

func writePost(w io.Writer, p post.Post, metaOnly bool) error {
	var meta bytes.Buffer
	if err := config.EncodeYAML(&meta, p); err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}
	if metaOnly {
		_, err := meta.WriteTo(w)
		return err
	}
	_, err := fmt.Fprintf(w, "---\n%s---\n\n%s", meta.Bytes(), p.Content)
	return err
}

func newPostDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe FILE|-",
		Short: "Generate a description for Markdown content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return withPosts(cmd, func(ctx context.Context, svc *post.Service) error {
				desc, err := describe(ctx, svc, string(content))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), desc)
				return nil
			})
		},
	}
}

// describe runs a description job and waits for its output.
func describe(ctx context.Context, svc *post.Service, content string) (string, error) {
	id, err := svc.GenerateDescription(ctx, content)
	if err != nil {
		return "", postError(err)
	}
	logging.FromContext(ctx).Debug("description job queued", logging.FieldJob, id)
	return svc.Description(ctx, id)
}

// postError flattens validation failures into one line per field.
func postError(err error) error {
	var verr *post.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	return fmt.Errorf("invalid post: %s", strings.Join(verr.Messages(), "; "))
}

func truncateRunes(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes-1]) + "…"
}
