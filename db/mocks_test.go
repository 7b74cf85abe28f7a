package db_test

import (
	"iter"

	"github.com/skinpad/skinpad/model"
)

// GatedStorage yields History from AllIterator only once Release is closed.
type GatedStorage struct {
	History []model.KeyTransitionWithTimestamp
	Release chan struct{}
}

func (s *GatedStorage) Store(model.KeyTransition) error {
	return nil
}

func (s *GatedStorage) GatherAll() ([]model.KeyCount, error) {
	return []model.KeyCount{}, nil
}

func (s *GatedStorage) AllIterator() (iter.Seq[model.KeyTransitionWithTimestamp], error) {
	return func(yield func(model.KeyTransitionWithTimestamp) bool) {
		<-s.Release

		for _, item := range s.History {
			if !yield(item) {
				return
			}
		}
	}, nil
}

func (s *GatedStorage) Close() {}
