package pretty_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdpost/internal/ui/pretty"
)

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sum     pretty.Summary
		want    []string
		notWant []string
	}{
		{
			name: "written and unchanged",
			sum: pretty.Summary{
				Discovered: 10, Rendered: 10, Written: 3, Unchanged: 7,
				Bytes: 2048, Duration: 1500 * time.Microsecond,
			},
			want:    []string{"Summary", "Files found:", "10", "Files written:", "3", "Files unchanged:", "7", "2.0 KiB", "1.5ms", "Render complete"},
			notWant: []string{"Files failed:"},
		},
		{
			name:    "failures",
			sum:     pretty.Summary{Discovered: 4, Rendered: 3, Written: 3, Errored: 1, Bytes: 12},
			want:    []string{"Files failed:", "12 B", "Render failed for 1 file"},
			notWant: []string{"Render complete"},
		},
		{
			name: "dry run",
			sum:  pretty.Summary{Discovered: 2, Rendered: 2, DryRun: true},
			want: []string{"Dry run complete"},
		},
	}

	styles := pretty.NewStyles(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := styles.FormatSummary(tt.sum)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, out, nw)
			}
		})
	}
}

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name string
		sum  pretty.Summary
		want string
	}{
		{name: "nothing found", sum: pretty.Summary{}, want: "No markdown files found\n"},
		{name: "single file", sum: pretty.Summary{Discovered: 1, Rendered: 1, Written: 1}, want: "Rendered 1 file (1 written)\n"},
		{
			name: "mixed",
			sum:  pretty.Summary{Discovered: 12, Rendered: 11, Written: 2, Unchanged: 9, Empty: 1, Errored: 1},
			want: "Rendered 11 files (2 written, 9 unchanged, 1 empty), 1 failed\n",
		},
		{name: "dry run", sum: pretty.Summary{Discovered: 2, Rendered: 2, DryRun: true}, want: "Rendered 2 files (dry run)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.sum))
		})
	}
}

func TestFormatSummary_ColorKeepsText(t *testing.T) {
	t.Parallel()

	out := pretty.NewStyles(true).FormatSummaryOneLine(pretty.Summary{Discovered: 1, Rendered: 1, Written: 1})
	assert.Contains(t, out, "written")
	assert.Contains(t, out, "file")
}
