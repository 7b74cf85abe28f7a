package ports_test

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/skinpad/skinpad/touchlog/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readChanLines(c <-chan string) []string {
	result := make([]string, 0)

	for line := range c {
		result = append(result, line)
	}

	return result
}

func TestReadFile(t *testing.T) {
	t.Run("should handle non-empty file", func(t *testing.T) {
		c := ports.ReadFile(strings.NewReader("down 0 0:1,1\nup 0 0:1,1\n"))

		assert.Equal(t, []string{"down 0 0:1,1", "up 0 0:1,1"}, readChanLines(c))
	})

	t.Run("should handle empty file", func(t *testing.T) {
		c := ports.ReadFile(strings.NewReader(""))

		assert.Equal(t, []string{}, readChanLines(c))
	})
}

func TestReadFiles(t *testing.T) {
	testCases := []struct {
		name     string
		inputs   []string
		expected []string
	}{
		{"two non-empty files", []string{"aa\nbb\ncc\n", "ab\nba\ncd\n"}, []string{"aa", "ab", "ba", "bb", "cc", "cd"}},
		{"first file empty", []string{"", "aa\nbb\n"}, []string{"aa", "bb"}},
		{"second file empty", []string{"aa\nbb\n", ""}, []string{"aa", "bb"}},
		{"no files", nil, []string{}},
	}

	for _, tc := range testCases {
		t.Run("should handle "+tc.name, func(t *testing.T) {
			readers := make([]*strings.Reader, len(tc.inputs))
			for i, in := range tc.inputs {
				readers[i] = strings.NewReader(in)
			}

			c := ports.ReadFiles(toReaders(readers)...)

			lines := readChanLines(c)
			slices.Sort(lines)

			assert.Equal(t, tc.expected, lines)
		})
	}
}

func TestLooksLikeTouchBridge(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"/dev/tty.usbmodem12301", true},
		{"/dev/tty.usbserial-A50285BI", true},
		{"/dev/ttyACM0", true},
		{"/dev/ttyUSB1", true},
		{"/dev/ttyp1", false},
		{"/dev/ttyS0", false},
		{"/home/user/tty.usbmodem12301", false},
	}

	for _, v := range testCases {
		t.Run(v.path, func(t *testing.T) {
			assert.Equal(t, v.expected, ports.LooksLikeTouchBridge(v.path))
		})
	}
}

func TestMonitoringDeviceReader(t *testing.T) {
	opener := &FakeOpener{contents: map[string]string{
		"/dev/ttyACM0": "down 0 0:1,1\nup 0 0:1,1\n",
		"/dev/ttyUSB0": "cancel\n",
	}}

	list := func() ([]string, error) {
		return []string{"/dev/ttyS0", "/dev/ttyUSB0", "/dev/ttyACM0", "/dev/ttyACM9"}, nil
	}

	reader := ports.NewMonitoringDeviceReader(opener, list, 10*time.Millisecond)

	found, err := reader.FindDevices()
	require.NoError(t, err)
	assert.Equal(t, []string{"/dev/ttyACM0", "/dev/ttyACM9", "/dev/ttyUSB0"}, found)

	ctx, cancel := context.WithCancel(context.Background())
	c := reader.Channel(ctx)

	// Devices that ended are reopened on later polls, so lines may repeat.
	seen := make(map[string]bool)
	timeout := time.After(5 * time.Second)

	for len(seen) < 3 {
		select {
		case line := <-c:
			seen[line] = true
		case <-timeout:
			require.FailNow(t, "timed out waiting for device lines", "seen: %v", seen)
		}
	}

	cancel()

	for range c {
	}

	assert.Equal(t, map[string]bool{"cancel": true, "down 0 0:1,1": true, "up 0 0:1,1": true}, seen)
	assert.Subset(t, opener.Opened(), []string{"/dev/ttyACM0", "/dev/ttyUSB0"})
	assert.Empty(t, reader.Devices())
}
