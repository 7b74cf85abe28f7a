package db

import (
	"iter"

	"github.com/skinpad/skinpad/model"
)

// Storage is the journal of transitions delivered to the engine.
type Storage interface {
	Store(t model.KeyTransition) error
	GatherAll() ([]model.KeyCount, error)
	AllIterator() (iter.Seq[model.KeyTransitionWithTimestamp], error)
	Close()
}

// Tracker aggregates transitions as they happen and answers per-key queries.
type Tracker interface {
	HandleKeyNow(code model.KeyCode, pressed bool, verbose bool)
	GatherCombos(code model.KeyCode) []model.Chord
}
