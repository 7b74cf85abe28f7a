package routes_test

import (
	"image"
	"iter"
	"testing"

	"github.com/skinpad/skinpad/buttons"
	"github.com/skinpad/skinpad/layout"
	"github.com/skinpad/skinpad/model"
	"github.com/skinpad/skinpad/skins"
	"github.com/stretchr/testify/require"
)

// SimpleStorageMock is a simple manual mock implementation of the Storage interface.
type SimpleStorageMock struct {
	ReturnStats []model.KeyCount
	ReturnError error
	CallCount   int
}

func (m *SimpleStorageMock) GatherAll() ([]model.KeyCount, error) {
	m.CallCount++

	return m.ReturnStats, m.ReturnError
}

func (m *SimpleStorageMock) AllIterator() (iter.Seq[model.KeyTransitionWithTimestamp], error) {
	return func(func(model.KeyTransitionWithTimestamp) bool) {}, nil
}

func (m *SimpleStorageMock) Close() {}

func (m *SimpleStorageMock) Store(model.KeyTransition) error {
	return nil
}

// TrackerMock is a simple mock implementation of the Tracker interface.
type TrackerMock struct {
	ReturnCombos []model.Chord
	CallCount    int
	LastCode     model.KeyCode
}

func (m *TrackerMock) HandleKeyNow(model.KeyCode, bool, bool) {}

func (m *TrackerMock) GatherCombos(code model.KeyCode) []model.Chord {
	m.CallCount++
	m.LastCode = code

	return m.ReturnCombos
}

// LayoutMock serves a fixed geometry.
type LayoutMock struct {
	G     layout.Geometry
	OK    bool
	Model *buttons.Model
}

func (m *LayoutMock) Geometry() (layout.Geometry, bool) {
	return m.G, m.OK
}

func (m *LayoutMock) Buttons() *buttons.Model {
	return m.Model
}

// defaultLayout lays the built-in skin out at 480x800.
func defaultLayout(t *testing.T) *LayoutMock {
	t.Helper()

	skin := skins.Default()

	g, err := layout.Compute(skin, image.Pt(480, 800), image.Pt(128, 64), false)
	require.NoError(t, err)

	return &LayoutMock{G: g, OK: true, Model: buttons.New(skin.Buttons)}
}
