// Package briefing loads the strategic context document.
package briefing

import (
	"context"
	"fmt"
	"os"
	"strings"

	"NewsScanner/internal/ports"
)

// FileSource reads the briefing from a markdown file on every scan, so
// edits take effect without a restart.
type FileSource struct {
	Path string
}

var _ ports.ContextSource = FileSource{}

// Load returns the briefing text. A missing or empty file is a
// configuration failure: no scan can classify without criteria.
func (f FileSource) Load(_ context.Context) (string, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read strategic context %s: %w", f.Path, err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("strategic context %s is empty", f.Path)
	}
	return text, nil
}
