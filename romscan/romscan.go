// Package romscan looks for calculator ROM dumps on disk.
package romscan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/skinpad/skinpad/layout"
)

type Found struct {
	Path       string
	Calculator layout.Calculator
}

// Callbacks report progress. Either may be nil.
type Callbacks struct {
	OnDirectory func(dir string)
	OnFound     func(f Found)
}

// Guess tells the model of a ROM dump from its file name and size: the
// name must mention "TI" and the model number, and the size must be the
// model's full ROM size.
func Guess(name string, size int64) (layout.Calculator, bool) {
	upper := strings.ToUpper(name)
	if !strings.Contains(upper, "TI") {
		return layout.Calculator{}, false
	}

	for _, c := range layout.Calculators {
		if size == c.ROMSize && strings.Contains(upper, c.Tag) {
			return c, true
		}
	}

	return layout.Calculator{}, false
}

// Scan walks roots breadth first and returns every file Guess recognizes,
// in visiting order. Symlinked directories below the roots are not
// followed. Unreadable entries are logged and skipped. Scan stops with
// ctx's error once ctx is done.
func Scan(ctx context.Context, roots []string, cb Callbacks) ([]Found, error) {
	queue := make([]string, 0, len(roots))
	seen := make(map[string]bool)

	for _, root := range roots {
		if root == "" {
			continue
		}

		root = filepath.Clean(root)
		if seen[root] {
			continue
		}

		seen[root] = true
		queue = append(queue, root)
	}

	result := make([]Found, 0)

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("rom scan stopped: %w", err)
		}

		next := queue[0]
		queue = queue[1:]

		info, err := os.Stat(next)
		if err != nil {
			slog.Debug("Skipping path", "path", next, "error", err)

			continue
		}

		if !info.IsDir() {
			if f, ok := check(next, info); ok {
				result = append(result, f)

				if cb.OnFound != nil {
					cb.OnFound(f)
				}
			}

			continue
		}

		if cb.OnDirectory != nil {
			cb.OnDirectory(next)
		}

		entries, err := os.ReadDir(next)
		if err != nil {
			slog.Warn("Could not list directory", "path", next, "error", err)
		}

		for _, entry := range entries {
			if entry.Type()&os.ModeSymlink != 0 {
				continue
			}

			queue = append(queue, filepath.Join(next, entry.Name()))
		}
	}

	return result, nil
}

func check(path string, info os.FileInfo) (Found, bool) {
	if !info.Mode().IsRegular() {
		return Found{}, false
	}

	calc, ok := Guess(info.Name(), info.Size())
	if !ok {
		return Found{}, false
	}

	return Found{Path: path, Calculator: calc}, true
}
