package keypad

import (
	"log/slog"
	"sync"

	"github.com/skinpad/skinpad/keyqueue"
	"github.com/skinpad/skinpad/model"
)

// journal feeds delivered transitions to a Recorder from its own goroutine.
// push never blocks; Store runs outside the keypad lock.
type journal struct {
	recorder Recorder
	queue    *keyqueue.Queue
	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

func newJournal(r Recorder) *journal {
	j := &journal{
		recorder: r,
		queue:    keyqueue.New(),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go j.run()

	return j
}

func (j *journal) push(t model.KeyTransition) {
	j.queue.Push(t)

	select {
	case j.wake <- struct{}{}:
	default:
	}
}

func (j *journal) run() {
	defer close(j.done)

	for {
		select {
		case <-j.wake:
			j.drain()
		case <-j.stop:
			j.drain()

			return
		}
	}
}

func (j *journal) drain() {
	for {
		t, ok := j.queue.Pop()
		if !ok {
			return
		}

		if err := j.recorder.Store(t); err != nil {
			slog.Error("Could not record transition", "transition", t, "error", err)
		}
	}
}

// close records everything pushed so far and stops the goroutine.
func (j *journal) close() {
	j.once.Do(func() { close(j.stop) })
	<-j.done
}
