package skinpad

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/skinpad/skinpad/db"
	"github.com/skinpad/skinpad/layout"
	"github.com/skinpad/skinpad/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(t.Context())

	return out.String(), err
}

func TestLayoutCommand(t *testing.T) {
	out, err := run(t, "layout", "--model", "ti86", "--width", "480", "--height", "800", "--zoom=false")
	require.NoError(t, err)

	assert.Contains(t, out, `skin "TI-86", 50 buttons`)
	assert.Regexp(t, `view\s+0,\s+0 -\s+480, 800  \(480x800\)`, out)
	assert.Contains(t, out, "per emulated pixel")
}

func TestHitCommand(t *testing.T) {
	t.Run("lands on a button", func(t *testing.T) {
		out, err := run(t, "hit", "--model", "ti86", "--width", "480", "--height", "800", "60", "357")
		require.NoError(t, err)
		assert.Contains(t, out, "F1 (0x15)")
	})

	t.Run("misses every button", func(t *testing.T) {
		out, err := run(t, "hit", "--model", "ti86", "--width", "480", "--height", "800", "5", "5")
		require.NoError(t, err)
		assert.Contains(t, out, "no button")
	})

	t.Run("rejects a bad coordinate", func(t *testing.T) {
		_, err := run(t, "hit", "--model", "ti86", "x", "5")
		require.Error(t, err)
	})

	t.Run("rejects an unknown model", func(t *testing.T) {
		_, err := run(t, "hit", "--model", "ti89", "1", "5")
		require.ErrorContains(t, err, "unknown calculator model")
	})
}

func TestReplayCommand(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "press.touch")
	pngOut := filepath.Join(dir, "last.png")
	journalOut := filepath.Join(dir, "journal.sqlite")

	require.NoError(t, os.WriteFile(script, []byte("frame\ndown 0 0:60,357\nup 0 0:60,357\n"), 0o644))

	out, err := run(t, "replay", "--model", "ti86", "--width", "480", "--height", "800",
		"--script", script, "--png", pngOut, "--out", journalOut)
	require.NoError(t, err)

	assert.Contains(t, out, "events 2, transitions 2, frames 3, delivered 2")
	assert.FileExists(t, pngOut)

	storage, err := db.NewStorageFromPath(journalOut)
	require.NoError(t, err)

	defer storage.Close()

	counts, err := storage.GatherAll()
	require.NoError(t, err)
	assert.Equal(t, []model.KeyCount{{Code: layout.KeyF1, Presses: 1}}, counts)
}

func TestScanCommand(t *testing.T) {
	dir := t.TempDir()

	f, err := os.Create(filepath.Join(dir, "ti86.rom"))
	require.NoError(t, err)
	require.NoError(t, f.Truncate(0x40000))
	require.NoError(t, f.Close())

	out, err := run(t, "scan", "--quiet", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ti86")
	assert.Contains(t, out, filepath.Join(dir, "ti86.rom"))
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	paths := []string{filepath.Join(dir, "a.sqlite"), filepath.Join(dir, "b.sqlite")}

	for _, p := range paths {
		storage, err := db.NewStorageFromPath(p)
		require.NoError(t, err)
		require.NoError(t, storage.Store(model.KeyTransition{Code: layout.KeyEnter, Pressed: true}))
		storage.Close()
	}

	merged := filepath.Join(dir, "merged.sqlite")

	_, err := run(t, "merge", "-f", paths[0], "-f", paths[1], "-o", merged)
	require.NoError(t, err)

	storage, err := db.NewStorageFromPath(merged)
	require.NoError(t, err)

	defer storage.Close()

	counts, err := storage.GatherAll()
	require.NoError(t, err)
	assert.Equal(t, []model.KeyCount{{Code: layout.KeyEnter, Presses: 2}}, counts)

	_, err = run(t, "merge", "-f", paths[0], "-o", merged)
	require.ErrorContains(t, err, "already exists")
}

func TestFlagValue(t *testing.T) {
	assert.Equal(t, "a,b", flagValue([]any{"a", "b"}))
	assert.Equal(t, "480", flagValue(480))
}

// resetLogLevel puts --log-level back to its default and unset state.
func resetLogLevel(t *testing.T) {
	t.Helper()

	f := rootCmd.PersistentFlags().Lookup("log-level")
	require.NoError(t, f.Value.Set(f.DefValue))
	f.Changed = false
}

func TestFlagsFromEnvironment(t *testing.T) {
	t.Cleanup(func() { resetLogLevel(t) })

	for _, name := range []string{"SKINPAD_LOG_LEVEL", "SKINPAD_LOGLEVEL"} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, "loud")
			resetLogLevel(t)

			_, err := run(t, "layout", "--model", "ti86", "--width", "480", "--height", "800")
			require.ErrorContains(t, err, `bad log level "loud"`)
		})
	}
}
