// Package ports reads touch lines from serial touch bridges, files and
// stdin.
package ports

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const DefaultBaudRate = 115200

// Open opens a serial touch bridge. The returned closer logs close errors.
func Open(path string, baudRate int) (io.Reader, func(), error) {
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: baudRate,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not open %s: %w", path, err)
	}

	// A bridge only talks while somebody touches the screen.
	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		slog.Warn("Could not disable read timeout", "path", path, "error", err)
	}

	closer := func() {
		if err := port.Close(); err != nil {
			slog.Error("Could not close port", "path", path, "error", err)
		}
	}

	return port, closer, nil
}

// ReadFile sends every line of r and closes the channel at EOF.
func ReadFile(r io.Reader) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			out <- scanner.Text()
		}

		if err := scanner.Err(); err != nil {
			slog.Error("Could not read lines", "error", err)
		}
	}()

	return out
}

// ReadFiles reads all readers at once, line by line. The channel closes
// when every reader is exhausted.
func ReadFiles(readers ...io.Reader) <-chan string {
	out := make(chan string)

	var wg sync.WaitGroup

	for _, r := range readers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for line := range ReadFile(r) {
				out <- line
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// OpenFiles opens every path as a serial port and merges their lines.
func OpenFiles(paths []string, baudRate int) (<-chan string, func(), error) {
	readers := make([]io.Reader, 0, len(paths))
	closers := make([]func(), 0, len(paths))

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, path := range paths {
		r, c, err := Open(path, baudRate)
		if err != nil {
			closeAll()

			return nil, func() {}, err
		}

		readers = append(readers, r)
		closers = append(closers, c)
	}

	return ReadFiles(readers...), closeAll, nil
}

// LooksLikeTouchBridge reports whether a device path is a USB serial
// adapter of the kind touch bridges enumerate as.
func LooksLikeTouchBridge(path string) bool {
	if filepath.Dir(path) != "/dev" {
		return false
	}

	name := filepath.Base(path)

	for _, prefix := range []string{"tty.usbmodem", "tty.usbserial", "ttyACM", "ttyUSB"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return false
}

// GetAvailableDevices lists serial ports that look like touch bridges.
func GetAvailableDevices() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("could not get list of serial ports: %w", err)
	}

	result := make([]string, 0)

	for _, n := range names {
		if LooksLikeTouchBridge(n) {
			result = append(result, n)
		}
	}

	return result, nil
}

// SerialOpener opens devices as serial ports.
type SerialOpener struct {
	BaudRate int
}

func (o SerialOpener) Open(path string) (io.ReadCloser, error) {
	port, err := serial.Open(path, &serial.Mode{BaudRate: o.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}

	return port, nil
}

var _ DeviceOpener = SerialOpener{}

const defaultPollingInterval = 5 * time.Second
