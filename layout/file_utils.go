package layout

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

func GetBinaryPath() string {
	//nolint:dogsled
	_, b, _, _ := runtime.Caller(0)

	// Root folder of this project
	fp := filepath.Join(filepath.Dir(b), "..")

	return fp
}

// OpenPath opens path as given, falling back to the project root for
// relative paths that do not exist in the working directory.
func OpenPath(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err == nil {
		slog.Debug("Opened path", "path", path)

		return file, nil
	}

	if filepath.IsAbs(path) || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not open file %s: %w", path, err)
	}

	rooted := filepath.Join(GetBinaryPath(), path)
	slog.Debug("Opening path relative to project root", "path", rooted)

	file, err = os.Open(rooted)
	if err != nil {
		return nil, fmt.Errorf("could not open file %s: %w", path, err)
	}

	return file, nil
}
