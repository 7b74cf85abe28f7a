package db_test

import (
	"cmp"
	"slices"
	"testing"
	"time"

	"github.com/skinpad/skinpad/db"
	"github.com/skinpad/skinpad/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(code model.KeyCode) model.KeyTransition {
	return model.KeyTransition{Code: code, Pressed: true}
}

func release(code model.KeyCode) model.KeyTransition {
	return model.KeyTransition{Code: code, Pressed: false}
}

func memoryStorage(t *testing.T) *db.SQLiteStorage {
	t.Helper()

	storage, err := db.NewStorageFromPath(":memory:")
	require.NoError(t, err)
	t.Cleanup(storage.Close)

	return storage
}

// storeSequence journals transitions 100ms apart.
func storeSequence(t *testing.T, storage *db.SQLiteStorage, transitions ...model.KeyTransition) {
	t.Helper()

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, tr := range transitions {
		require.NoError(t, storage.StoreAt(tr, ts))
		ts = ts.Add(100 * time.Millisecond)
	}
}

func sortChords(chords []model.Chord) {
	slices.SortFunc(chords, func(a, b model.Chord) int {
		return cmp.Or(
			-cmp.Compare(a.Pressed, b.Pressed),
			slices.Compare(a.Codes, b.Codes),
		)
	})
}

func TestStoreAndGather(t *testing.T) {
	storage := memoryStorage(t)

	items, err := storage.GatherAll()
	require.NoError(t, err)
	assert.Empty(t, items)

	for range 5 {
		require.NoError(t, storage.Store(press(0x0D)))
		require.NoError(t, storage.Store(release(0x0D)))
	}

	require.NoError(t, storage.Store(press(0x15)))

	items, err = storage.GatherAll()
	require.NoError(t, err)
	assert.Equal(t, []model.KeyCount{
		{Code: 0x0D, Presses: 5},
		{Code: 0x15, Presses: 1},
	}, items)
}

func TestAllIterator(t *testing.T) {
	storage := memoryStorage(t)
	storeSequence(t, storage, press(1), press(2), release(1), release(2))

	items, err := storage.AllIterator()
	require.NoError(t, err)

	got := make([]model.KeyTransition, 0)
	var last time.Time

	for item := range items {
		got = append(got, model.KeyTransition{Code: item.Code, Pressed: item.Pressed})

		assert.True(t, item.Timestamp.After(last))
		last = item.Timestamp
	}

	assert.Equal(t, []model.KeyTransition{press(1), press(2), release(1), release(2)}, got)
}

func TestMerge(t *testing.T) {
	first := memoryStorage(t)
	second := memoryStorage(t)
	output := memoryStorage(t)

	storeSequence(t, first, press(1), release(1))
	storeSequence(t, second, press(1), release(1), press(2), release(2))

	require.NoError(t, db.Merge([]*db.SQLiteStorage{first, second}, output))

	items, err := output.GatherAll()
	require.NoError(t, err)
	assert.Equal(t, []model.KeyCount{{Code: 1, Presses: 2}, {Code: 2, Presses: 1}}, items)
}

func TestChordTracker(t *testing.T) {
	t.Run("empty journal has no chords", func(t *testing.T) {
		tracker, err := db.NewChordTrackerFromDB(memoryStorage(t), false)
		require.NoError(t, err)

		assert.Empty(t, tracker.GatherCombos(1))
	})

	t.Run("counts keys held together", func(t *testing.T) {
		storage := memoryStorage(t)
		storeSequence(t, storage,
			press(0x00), press(0x15), release(0x15), press(0x16), release(0x16), release(0x00),
			press(0x15), release(0x15),
		)

		tracker, err := db.NewChordTrackerFromDB(storage, false)
		require.NoError(t, err)

		var chords []model.Chord

		require.Eventually(t, func() bool {
			chords = tracker.GatherCombos(0x00)

			return len(chords) == 2
		}, time.Second, 10*time.Millisecond)

		sortChords(chords)
		assert.Equal(t, []model.Chord{
			{Codes: []model.KeyCode{0x00, 0x15}, Pressed: 1},
			{Codes: []model.KeyCode{0x00, 0x16}, Pressed: 1},
		}, chords)

		assert.Len(t, tracker.GatherCombos(0x15), 1)
		assert.Empty(t, tracker.GatherCombos(0x17))
	})

	t.Run("live presses form chords", func(t *testing.T) {
		tracker, err := db.NewChordTrackerFromDB(memoryStorage(t), false)
		require.NoError(t, err)
		require.Eventually(t, tracker.Loaded, time.Second, 10*time.Millisecond)

		tracker.HandleKeyNow(0x00, true, false)
		tracker.HandleKeyNow(0x15, true, false)
		assert.Len(t, tracker.GatherCombos(0x15), 1)

		tracker.HandleKeyNow(0x15, false, false)
		tracker.HandleKeyNow(0x16, true, false)
		assert.Len(t, tracker.GatherCombos(0x00), 2)

		tracker.HandleKeyNow(200, true, false)
		assert.Empty(t, tracker.GatherCombos(200))
	})

	t.Run("live keys wait for the history", func(t *testing.T) {
		storage := &GatedStorage{
			History: history(press(0x00), press(0x16)),
			Release: make(chan struct{}),
		}

		tracker, err := db.NewChordTrackerFromDB(storage, false)
		require.NoError(t, err)

		tracker.HandleKeyNow(0x15, true, false)
		assert.False(t, tracker.Loaded())
		assert.Empty(t, tracker.GatherCombos(0x00), "nothing is served while loading")

		close(storage.Release)
		require.Eventually(t, tracker.Loaded, time.Second, 10*time.Millisecond)

		// The historical keys are long stale when the live press lands.
		assert.Equal(t, []model.Chord{{Codes: []model.KeyCode{0x00, 0x16}, Pressed: 1}}, tracker.GatherCombos(0x00))
		assert.Empty(t, tracker.GatherCombos(0x15))
	})
}

// history timestamps transitions 100ms apart, starting well in the past.
func history(transitions ...model.KeyTransition) []model.KeyTransitionWithTimestamp {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	result := make([]model.KeyTransitionWithTimestamp, 0, len(transitions))

	for _, tr := range transitions {
		result = append(result, model.KeyTransitionWithTimestamp{Code: tr.Code, Pressed: tr.Pressed, Timestamp: ts})
		ts = ts.Add(100 * time.Millisecond)
	}

	return result
}

func TestChordKeyID(t *testing.T) {
	assert.Equal(t, db.ChordBitmask{Low: 0b101}, db.ChordKeyID([]model.KeyCode{0, 2}))
	assert.Equal(t, db.ChordBitmask{High: 1, Low: 1 << 63}, db.ChordKeyID([]model.KeyCode{63, 64}))
	assert.Equal(t, db.ChordKeyID([]model.KeyCode{'+', '7'}), db.ChordKeyID([]model.KeyCode{'7', '+'}))
}

func TestFollowCounter(t *testing.T) {
	storage := memoryStorage(t)
	storeSequence(t, storage,
		press(1), release(1), press(2), release(2),
		press(1), release(1), press(2), release(2),
		press(1), release(1), press(3), release(3),
	)

	counter, err := db.NewFollowCounterFromDB(storage)
	require.NoError(t, err)

	var follows []model.Chord

	require.Eventually(t, func() bool {
		follows = counter.GatherCombos(1)

		return len(follows) == 2
	}, time.Second, 10*time.Millisecond)

	sortChords(follows)
	assert.Equal(t, []model.Chord{
		{Codes: []model.KeyCode{2, 1}, Pressed: 2},
		{Codes: []model.KeyCode{3, 1}, Pressed: 1},
	}, follows)

	counter.HandleKeyNow(1, true, false)
	assert.Equal(t, []model.Chord{{Codes: []model.KeyCode{1, 3}, Pressed: 1}}, counter.GatherCombos(3))
}

func TestFollowCounterWhileLoading(t *testing.T) {
	storage := &GatedStorage{
		History: history(press(1), release(1), press(2), release(2)),
		Release: make(chan struct{}),
	}

	counter, err := db.NewFollowCounterFromDB(storage)
	require.NoError(t, err)

	done := make(chan struct{})

	go func() {
		counter.HandleKeyNow(3, true, false)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("live key blocked on the history replay")
	}

	assert.False(t, counter.Loaded())
	assert.Empty(t, counter.GatherCombos(1))

	close(storage.Release)
	require.Eventually(t, counter.Loaded, time.Second, 10*time.Millisecond)

	assert.Equal(t, []model.Chord{{Codes: []model.KeyCode{2, 1}, Pressed: 1}}, counter.GatherCombos(1))
	assert.Equal(t, []model.Chord{{Codes: []model.KeyCode{3, 2}, Pressed: 1}}, counter.GatherCombos(2))
}
