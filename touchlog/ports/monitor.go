package ports

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.bug.st/serial"
)

type DeviceOpener interface {
	Open(path string) (io.ReadCloser, error)
}

// MonitoringDeviceReader polls for touch bridges and reads every one that
// shows up until it disconnects.
type MonitoringDeviceReader struct {
	devicesList map[string]io.ReadCloser
	lock        sync.RWMutex
	readers     sync.WaitGroup

	opener    DeviceOpener
	listPorts func() ([]string, error)
	accept    func(path string) bool

	pollingInterval time.Duration
}

func DefaultMonitoringDeviceReader(baudRate int) *MonitoringDeviceReader {
	return NewMonitoringDeviceReader(SerialOpener{BaudRate: baudRate}, serial.GetPortsList, defaultPollingInterval)
}

// NewMonitoringDeviceReader takes the port lister so devices can come from
// somewhere other than the serial subsystem.
func NewMonitoringDeviceReader(opener DeviceOpener, listPorts func() ([]string, error), interval time.Duration) *MonitoringDeviceReader {
	return &MonitoringDeviceReader{
		devicesList:     make(map[string]io.ReadCloser),
		opener:          opener,
		listPorts:       listPorts,
		accept:          LooksLikeTouchBridge,
		pollingInterval: interval,
	}
}

// Close closes every open device.
func (r *MonitoringDeviceReader) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for path, device := range r.devicesList {
		if err := device.Close(); err != nil {
			return fmt.Errorf("error closing device %s: %w", path, err)
		}

		delete(r.devicesList, path)
	}

	return nil
}

// Devices lists the open devices, sorted.
func (r *MonitoringDeviceReader) Devices() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	result := make([]string, 0, len(r.devicesList))
	for path := range r.devicesList {
		result = append(result, path)
	}

	slices.Sort(result)

	return result
}

func (r *MonitoringDeviceReader) forget(devicePath string, device io.ReadCloser) {
	r.lock.Lock()
	defer r.lock.Unlock()

	// A device closed by Close is already gone.
	if current, exists := r.devicesList[devicePath]; !exists || current != device {
		return
	}

	if err := device.Close(); err != nil {
		slog.Warn("Could not close device", "path", devicePath, "error", err)
	}

	delete(r.devicesList, devicePath)
	slog.Info("Device removed", "path", devicePath)
}

// AddDevice opens devicePath and forwards its lines to out until it ends
// or ctx is done.
func (r *MonitoringDeviceReader) AddDevice(ctx context.Context, devicePath string, out chan<- string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, exists := r.devicesList[devicePath]; exists {
		slog.Debug("Device already open, skipping", "path", devicePath)

		return nil
	}

	device, err := r.opener.Open(devicePath)
	if err != nil {
		return fmt.Errorf("error opening device %s: %w", devicePath, err)
	}

	r.devicesList[devicePath] = device
	r.readers.Add(1)

	go func() {
		defer r.readers.Done()

		slog.Info("Device loop started", "path", devicePath)

		lines := ReadFile(device)

		for line := range lines {
			select {
			case out <- line:
			case <-ctx.Done():
				// Closing the device ends the read; drain what is in flight.
				r.forget(devicePath, device)

				for range lines {
				}

				return
			}
		}

		r.forget(devicePath, device)
	}()

	return nil
}

// FindDevices returns touch bridges that are not open yet.
func (r *MonitoringDeviceReader) FindDevices() ([]string, error) {
	names, err := r.listPorts()
	if err != nil {
		return nil, fmt.Errorf("could not get list of serial ports: %w", err)
	}

	r.lock.RLock()
	defer r.lock.RUnlock()

	result := make([]string, 0)

	for _, name := range names {
		if _, open := r.devicesList[name]; open || !r.accept(name) {
			continue
		}

		result = append(result, name)
	}

	slices.Sort(result)

	return result, nil
}

// Channel starts polling. Lines from every device arrive on the returned
// channel, which closes once ctx is done.
func (r *MonitoringDeviceReader) Channel(ctx context.Context) <-chan string {
	out := make(chan string, 5)

	go func() {
		slog.Info("Monitoring started")

		defer slog.Info("End monitoring")
		defer close(out)

		ticker := time.NewTicker(r.pollingInterval)
		defer ticker.Stop()

		for {
			r.poll(ctx, out)

			select {
			case <-ctx.Done():
				if err := r.Close(); err != nil {
					slog.Error("Could not close devices", "error", err)
				}

				r.readers.Wait()

				return
			case <-ticker.C:
			}
		}
	}()

	return out
}

func (r *MonitoringDeviceReader) poll(ctx context.Context, out chan<- string) {
	devices, err := r.FindDevices()
	if err != nil {
		slog.Error("Error finding devices", "error", err)

		return
	}

	for _, devicePath := range devices {
		slog.Info("Found device", "path", devicePath)

		if err := r.AddDevice(ctx, devicePath, out); err != nil {
			slog.Error("Could not add device", "path", devicePath, "error", err)
		}
	}
}
