// Package workspace coordinates an editing surface and a rendered preview
// over a caller-owned text value.
package workspace

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdpost/pkg/config"
)

// ViewMode selects which surfaces are visible.
type ViewMode string

// View modes.
const (
	ViewEditor  ViewMode = config.ViewEditor
	ViewPreview ViewMode = config.ViewPreview
	ViewSplit   ViewMode = config.ViewSplit
)

// ViewModes returns every view mode in selector order.
func ViewModes() []ViewMode {
	return []ViewMode{ViewEditor, ViewPreview, ViewSplit}
}

// ParseViewMode parses a view mode name, case-insensitively.
func ParseViewMode(s string) (ViewMode, error) {
	mode := ViewMode(strings.ToLower(strings.TrimSpace(s)))
	if !mode.IsValid() {
		return "", fmt.Errorf("unknown view mode %q (want editor, preview or split)", s)
	}
	return mode, nil
}

// IsValid reports whether m is a known view mode.
func (m ViewMode) IsValid() bool {
	switch m {
	case ViewEditor, ViewPreview, ViewSplit:
		return true
	default:
		return false
	}
}

// ShowsEditor reports whether the editing surface is visible.
func (m ViewMode) ShowsEditor() bool {
	return m == ViewEditor || m == ViewSplit
}

// ShowsPreview reports whether the rendered surface is visible.
func (m ViewMode) ShowsPreview() bool {
	return m == ViewPreview || m == ViewSplit
}

func (m ViewMode) String() string {
	return string(m)
}
