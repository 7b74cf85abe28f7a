package ports_test

import (
	"errors"
	"io"
	"strings"
	"sync"
)

type fakeDevice struct {
	io.Reader
}

func (d *fakeDevice) Close() error {
	return nil
}

// FakeOpener serves canned contents per device path.
type FakeOpener struct {
	lock     sync.Mutex
	contents map[string]string
	opened   []string
}

func (o *FakeOpener) Open(path string) (io.ReadCloser, error) {
	o.lock.Lock()
	defer o.lock.Unlock()

	content, ok := o.contents[path]
	if !ok {
		return nil, errors.New("no such device")
	}

	o.opened = append(o.opened, path)

	return &fakeDevice{Reader: strings.NewReader(content)}, nil
}

func (o *FakeOpener) Opened() []string {
	o.lock.Lock()
	defer o.lock.Unlock()

	return append([]string(nil), o.opened...)
}

func toReaders(rs []*strings.Reader) []io.Reader {
	result := make([]io.Reader, len(rs))
	for i, r := range rs {
		result[i] = r
	}

	return result
}
