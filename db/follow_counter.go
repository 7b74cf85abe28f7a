package db

import (
	"iter"
	"log/slog"
	"sync"

	"github.com/skinpad/skinpad/model"
)

// FollowCounter counts which key is pressed right after each key. Like
// ChordTracker it answers with nothing until the journal is replayed.
type FollowCounter struct {
	lastKey   model.KeyCode
	hasLast   bool
	counts    map[model.KeyCode]map[model.KeyCode]int
	loaded    bool
	pending   []liveKey
	stateLock sync.RWMutex
}

func newFollowCounter() *FollowCounter {
	return &FollowCounter{
		counts: make(map[model.KeyCode]map[model.KeyCode]int),
	}
}

func NewFollowCounterFromDB(storage Storage) (*FollowCounter, error) {
	counter := newFollowCounter()

	iterator, err := storage.AllIterator()
	if err != nil {
		return nil, err
	}

	go counter.initCounter(iterator)

	return counter, nil
}

func (fc *FollowCounter) HandleKeyNow(code model.KeyCode, pressed bool, verbose bool) {
	fc.stateLock.Lock()
	defer fc.stateLock.Unlock()

	if !fc.loaded {
		fc.pending = append(fc.pending, liveKey{code: code, pressed: pressed, verbose: verbose})

		return
	}

	fc.handleKey(code, pressed, verbose)
}

// Loaded reports whether the journal replay has finished.
func (fc *FollowCounter) Loaded() bool {
	fc.stateLock.RLock()
	defer fc.stateLock.RUnlock()

	return fc.loaded
}

// GatherCombos returns, for every key pressed right after code, the pair
// [next, code] and how often it happened.
func (fc *FollowCounter) GatherCombos(code model.KeyCode) []model.Chord {
	fc.stateLock.RLock()
	defer fc.stateLock.RUnlock()

	if !fc.loaded {
		return []model.Chord{}
	}

	counts := fc.counts[code]
	result := make([]model.Chord, 0, len(counts))

	for k, v := range counts {
		result = append(result, model.Chord{
			Codes:   []model.KeyCode{k, code},
			Pressed: v,
		})
	}

	return result
}

func (fc *FollowCounter) initCounter(items iter.Seq[model.KeyTransitionWithTimestamp]) {
	for item := range items {
		fc.stateLock.Lock()
		fc.handleKey(item.Code, item.Pressed, false)
		fc.stateLock.Unlock()
	}

	fc.stateLock.Lock()
	defer fc.stateLock.Unlock()

	for _, k := range fc.pending {
		fc.handleKey(k.code, k.pressed, k.verbose)
	}

	fc.pending = nil
	fc.loaded = true
}

func (fc *FollowCounter) handleKey(code model.KeyCode, pressed, verbose bool) {
	if !pressed {
		return
	}

	if fc.hasLast {
		if _, exists := fc.counts[fc.lastKey]; !exists {
			fc.counts[fc.lastKey] = make(map[model.KeyCode]int)
		}

		if verbose {
			slog.Info("key press sequence",
				"current", code,
				"previous", fc.lastKey)
		}

		fc.counts[fc.lastKey][code]++
	}

	fc.lastKey = code
	fc.hasLast = true
}
