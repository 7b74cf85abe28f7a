package touchlog_test

import (
	"github.com/skinpad/skinpad/model"
)

// TargetMock records events and reports a fixed transition count for each.
type TargetMock struct {
	Events      []model.TouchEvent
	Transitions int
}

func (t *TargetMock) HandleTouch(ev model.TouchEvent) int {
	t.Events = append(t.Events, ev)

	return t.Transitions
}

type RecorderMock struct {
	Stored []model.KeyTransition
}

func (r *RecorderMock) Store(t model.KeyTransition) error {
	r.Stored = append(r.Stored, t)

	return nil
}
