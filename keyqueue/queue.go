// Package keyqueue carries key transitions from touch handling to the draw cycle.
package keyqueue

import (
	"sync"

	"github.com/skinpad/skinpad/model"
)

// Queue is a FIFO of key transitions, safe for concurrent use.
type Queue struct {
	lock  sync.Mutex
	items []model.KeyTransition
}

func New() *Queue {
	return &Queue{}
}

func (q *Queue) Push(t model.KeyTransition) {
	q.lock.Lock()
	defer q.lock.Unlock()

	q.items = append(q.items, t)
}

// Pop removes the oldest transition.
func (q *Queue) Pop() (model.KeyTransition, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()

	if len(q.items) == 0 {
		return model.KeyTransition{}, false
	}

	t := q.items[0]
	q.items[0] = model.KeyTransition{}
	q.items = q.items[1:]

	if len(q.items) == 0 {
		// Let the backing array go once drained.
		q.items = nil
	}

	return t, true
}

func (q *Queue) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()

	return len(q.items)
}

// Clear drops every pending transition and returns how many there were.
func (q *Queue) Clear() int {
	q.lock.Lock()
	defer q.lock.Unlock()

	n := len(q.items)
	q.items = nil

	return n
}
