package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	// Registers the sqlite3 database/sql driver.
	_ "github.com/mattn/go-sqlite3"
)

// BunStore persists posts using a Bun-backed database.
type BunStore struct {
	db *bun.DB
}

type postModel struct {
	bun.BaseModel `bun:"table:posts"`

	ID          uuid.UUID `bun:",pk,type:uuid"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description,notnull"`
	Content     string    `bun:"content,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}

// NewBunStore constructs a store over db.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

// OpenSQLite opens a sqlite database at dsn and wraps it in Bun.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Migrate creates the posts table if it does not exist.
func (s *BunStore) Migrate(ctx context.Context) error {
	if s.db == nil {
		return errors.New("post: bun store requires a database")
	}
	if _, err := s.db.NewCreateTable().Model((*postModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *BunStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create inserts p.
func (s *BunStore) Create(ctx context.Context, p Post) (Post, error) {
	if s.db == nil {
		return Post{}, errors.New("post: bun store requires a database")
	}
	model := modelFromPost(p)
	if _, err := s.db.NewInsert().Model(&model).Exec(ctx); err != nil {
		return Post{}, fmt.Errorf("insert post: %w", err)
	}
	return s.Get(ctx, p.ID)
}

// Get returns the post with id.
func (s *BunStore) Get(ctx context.Context, id uuid.UUID) (Post, error) {
	if s.db == nil {
		return Post{}, errors.New("post: bun store requires a database")
	}
	var model postModel
	if err := s.db.NewSelect().Model(&model).Where("id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, fmt.Errorf("select post: %w", err)
	}
	return model.toPost(), nil
}

// List returns all posts newest first.
func (s *BunStore) List(ctx context.Context) ([]Post, error) {
	if s.db == nil {
		return nil, errors.New("post: bun store requires a database")
	}
	var models []postModel
	if err := s.db.NewSelect().Model(&models).Order("created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	out := make([]Post, 0, len(models))
	for i := range models {
		out = append(out, models[i].toPost())
	}
	sortNewestFirst(out)
	return out, nil
}

func modelFromPost(p Post) postModel {
	return postModel{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		CreatedAt:   p.CreatedAt.UTC(),
	}
}

func (m *postModel) toPost() Post {
	return Post{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}
