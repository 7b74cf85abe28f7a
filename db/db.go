package db

import (
	"database/sql"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/skinpad/skinpad/model"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db}
}

func InitDBStorage(db *sql.DB) error {
	sqlStmt := `
	create table if not exists transitions(code int, pressed bool, ts datetime);`

	_, err := db.Exec(sqlStmt)
	if err != nil {
		return fmt.Errorf("could not create transitions table: %w", err)
	}

	sqlStmt = `create index if not exists transitions_tsix on transitions (ts ASC);`

	_, err = db.Exec(sqlStmt)
	if err != nil {
		return fmt.Errorf("could not create transitions index: %w", err)
	}

	return nil
}

// NewStorageFromPath opens (creating if needed) the journal at path.
// ":memory:" gives a throwaway journal.
func NewStorageFromPath(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}

	// An in-memory database lives as long as its one connection.
	db.SetMaxOpenConns(1)

	err = InitDBStorage(db)
	if err != nil {
		db.Close()

		return nil, err
	}

	slog.Debug("Opened journal", "path", path)

	return NewStorage(db), nil
}

func (s *SQLiteStorage) Store(t model.KeyTransition) error {
	_, err := s.db.Exec(`insert into transitions(code, pressed, ts)
	    values(?, ?, datetime('now', 'subsec'))`,
		int(t.Code), t.Pressed)
	if err != nil {
		return fmt.Errorf("could not store %s: %w", t, err)
	}

	return nil
}

// StoreAt journals a transition with an explicit timestamp, as when
// importing a recorded session.
func (s *SQLiteStorage) StoreAt(t model.KeyTransition, ts time.Time) error {
	_, err := s.db.Exec(`insert into transitions(code, pressed, ts) values(?, ?, ?)`,
		int(t.Code), t.Pressed, ts)
	if err != nil {
		return fmt.Errorf("could not store %s: %w", t, err)
	}

	return nil
}

// GatherAll counts presses per key code.
func (s *SQLiteStorage) GatherAll() ([]model.KeyCount, error) {
	rows, err := s.db.Query(
		`select code, count(*) as cnt
        from transitions
        where pressed = true
        group by code
        order by code`)
	if err != nil {
		return nil, fmt.Errorf("could not count presses: %w", err)
	}

	defer rows.Close()

	result := make([]model.KeyCount, 0)

	for rows.Next() {
		var code, count int

		err = rows.Scan(&code, &count)
		if err != nil {
			return nil, fmt.Errorf("could not read press count: %w", err)
		}

		result = append(result, model.KeyCount{Code: model.KeyCode(code), Presses: count})
	}

	return result, rows.Err()
}

// AllIterator yields every journaled transition, oldest first.
func (s *SQLiteStorage) AllIterator() (iter.Seq[model.KeyTransitionWithTimestamp], error) {
	rows, err := s.db.Query(
		`select code, pressed, ts
        from transitions
        order by ts, rowid`)
	if err != nil {
		return nil, fmt.Errorf("could not read transitions: %w", err)
	}

	return func(yield func(model.KeyTransitionWithTimestamp) bool) {
		defer rows.Close()

		for rows.Next() {
			var (
				code    int
				pressed bool
				ts      time.Time
			)

			if err := rows.Scan(&code, &pressed, &ts); err != nil {
				slog.Error("Could not read transition", "error", err)

				return
			}

			if !yield(model.KeyTransitionWithTimestamp{Code: model.KeyCode(code), Pressed: pressed, Timestamp: ts}) {
				return
			}
		}
	}, nil
}

// Merge copies every transition of the inputs into output.
func Merge(inputs []*SQLiteStorage, output *SQLiteStorage) error {
	for _, input := range inputs {
		items, err := input.AllIterator()
		if err != nil {
			return err
		}

		for item := range items {
			t := model.KeyTransition{Code: item.Code, Pressed: item.Pressed}
			if err := output.StoreAt(t, item.Timestamp); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *SQLiteStorage) Close() {
	if err := s.db.Close(); err != nil {
		slog.Error("Could not close journal", "error", err)
	}
}
