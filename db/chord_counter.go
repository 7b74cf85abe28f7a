package db

import (
	"iter"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/skinpad/skinpad/model"
)

// staleAfter bounds how long a key counts as held without a release.
const staleAfter = 10 * time.Second

// maxCode is one past the largest key code a chord bitmask can hold.
const maxCode = 128

type keyState struct {
	timeWhen time.Time
	pressed  bool
}

// liveKey is a transition seen while the journal is still being replayed.
type liveKey struct {
	code     model.KeyCode
	pressed  bool
	timeWhen time.Time
	verbose  bool
}

// ChordTracker counts the sets of keys held together whenever a key goes
// down, as happens when two fingers work the keypad at once. Until the
// journal has been replayed it answers with no chords and holds live keys
// back, so they land after every historical one.
type ChordTracker struct {
	chordCounts map[ChordBitmask]*model.Chord
	curState    map[model.KeyCode]*keyState
	minChordLen int
	loaded      bool
	pending     []liveKey
	stateLock   sync.RWMutex
}

func newChordTracker(minChordLen int) *ChordTracker {
	return &ChordTracker{
		chordCounts: make(map[ChordBitmask]*model.Chord),
		curState:    make(map[model.KeyCode]*keyState),
		minChordLen: minChordLen,
	}
}

// NewChordTrackerFromDB replays the journal into a new tracker in the
// background; the tracker is usable immediately.
func NewChordTrackerFromDB(storage Storage, showProgress bool) (*ChordTracker, error) {
	tracker := newChordTracker(2)

	iterator, err := storage.AllIterator()
	if err != nil {
		return nil, err
	}

	go tracker.initChordCounter(iterator, showProgress)

	return tracker, nil
}

func (c *ChordTracker) HandleKeyNow(code model.KeyCode, pressed bool, verbose bool) {
	c.stateLock.Lock()
	defer c.stateLock.Unlock()

	if !c.loaded {
		c.pending = append(c.pending, liveKey{code: code, pressed: pressed, timeWhen: time.Now(), verbose: verbose})

		return
	}

	c.handleKey(code, pressed, time.Now(), verbose)
}

// Loaded reports whether the journal replay has finished.
func (c *ChordTracker) Loaded() bool {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	return c.loaded
}

// GatherCombos returns every chord that includes code.
func (c *ChordTracker) GatherCombos(code model.KeyCode) []model.Chord {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	if !c.loaded {
		return []model.Chord{}
	}

	result := make([]model.Chord, 0, len(c.chordCounts))

	for _, v := range c.chordCounts {
		if slices.Contains(v.Codes, code) {
			result = append(result, model.Chord{Codes: slices.Clone(v.Codes), Pressed: v.Pressed})
		}
	}

	return result
}

// handleKey must be called with stateLock held.
func (c *ChordTracker) handleKey(code model.KeyCode, pressed bool, timeWhen time.Time, verbose bool) {
	if code < 0 || code >= maxCode {
		slog.Warn("Key code out of chord range", "code", code)

		return
	}

	c.curState[code] = &keyState{pressed: pressed, timeWhen: timeWhen}

	if !pressed {
		return
	}

	held := make([]model.KeyCode, 0)

	for k, p := range c.curState {
		// A key still down long after its press most likely lost its release.
		if p.pressed && timeWhen.Sub(p.timeWhen) > staleAfter {
			if verbose {
				slog.Info("ignoring stale key",
					"code", k,
					"staleness", timeWhen.Sub(p.timeWhen))
			}

			p.pressed = false
		}

		if p.pressed {
			held = append(held, k)
		}
	}

	if len(held) < c.minChordLen {
		return
	}

	slices.Sort(held)
	id := ChordKeyID(held)

	v, ok := c.chordCounts[id]
	if !ok {
		v = &model.Chord{Codes: held, Pressed: 1}
		c.chordCounts[id] = v
	} else {
		v.Pressed++
	}

	if verbose {
		slog.Info("chord counting",
			"keyCount", len(held),
			"pressed", v.Pressed,
			"codes", held)
	}
}

func (c *ChordTracker) initChordCounter(items iter.Seq[model.KeyTransitionWithTimestamp], showProgress bool) {
	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(-1, "Scanning history...")
	}

	for item := range items {
		if bar != nil {
			if err := bar.Add(1); err != nil {
				slog.Error("could not update progress bar", "error", err)
			}
		}

		c.stateLock.Lock()
		c.handleKey(item.Code, item.Pressed, item.Timestamp, false)
		c.stateLock.Unlock()
	}

	if bar != nil {
		if err := bar.Finish(); err != nil {
			slog.Error("could not finish progress bar", "error", err)
		}
	}

	c.stateLock.Lock()
	defer c.stateLock.Unlock()

	for _, k := range c.pending {
		c.handleKey(k.code, k.pressed, k.timeWhen, k.verbose)
	}

	slog.Debug("Chord history loaded", "liveKeys", len(c.pending))

	c.pending = nil
	c.loaded = true
}

type ChordBitmask struct {
	High uint64
	Low  uint64
}

// ChordKeyID sets one bit per key code in the chord. Codes must be below 128.
func ChordKeyID(codes []model.KeyCode) ChordBitmask {
	result := ChordBitmask{}

	for _, code := range codes {
		if code < 64 {
			result.Low |= 1 << code
		} else {
			result.High |= 1 << (code % 64)
		}
	}

	return result
}
