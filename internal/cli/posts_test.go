package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdpost/internal/ui/pretty"
	"github.com/yaklabco/mdpost/pkg/post"
)

func TestFormatPostTable_KeepsFullIDs(t *testing.T) {
	t.Parallel()

	p := post.Post{
		ID:          uuid.MustParse("ecd45e83-a54e-46bc-956d-fc074ef2fb09"),
		Title:       strings.Repeat("Authentication ", 6),
		Description: strings.Repeat("Compare auth methods ", 5),
		CreatedAt:   time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
	}

	for _, width := range []int{40, 80, defaultTermWidth} {
		out := formatPostTable(pretty.NewStyles(false), width, []post.Post{p})
		assert.Contains(t, out, p.ID.String(), "width %d", width)
	}
}

func TestListWidth_NotFittedOffTerminal(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	p := post.Post{ID: uuid.New(), Title: "Auth in Go", Description: "Compare auth methods in Go services"}
	out := formatPostTable(pretty.NewStyles(false), listWidth(&buf), []post.Post{p})

	assert.Contains(t, out, p.ID.String())
	assert.Contains(t, out, p.Description)
}
