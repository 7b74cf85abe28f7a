// Package touchlog feeds touch lines into a keypad, live from a touch
// bridge or from a replay script.
package touchlog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/skinpad/skinpad/logging"
	"github.com/skinpad/skinpad/model"
	"github.com/skinpad/skinpad/screen"
	"github.com/skinpad/skinpad/touchlog/parser"
)

// Target receives touch events.
type Target interface {
	HandleTouch(ev model.TouchEvent) int
}

// Player is a Target that can also be drawn, as a keypad is.
type Player interface {
	Target
	Draw(c screen.Canvas) screen.Outcome
	Pending() int
}

type Stats struct {
	Events      int
	Transitions int
	Skipped     int
	Frames      int
	Delivered   int
}

// TouchLogLoop hands every event line to target until lines closes or ctx
// is done. Malformed lines are logged and skipped; frame directives are
// ignored since the live draw loop runs on its own clock.
func TouchLogLoop(ctx context.Context, lines <-chan string, target Target, verbose bool) (Stats, error) {
	ctx = logging.AppendCtx(ctx, slog.String(logging.PackageName, "touchlog"))

	var stats Stats

	for {
		select {
		case <-ctx.Done():
			return stats, fmt.Errorf("touch loop stopped: %w", ctx.Err())
		case line, ok := <-lines:
			if !ok {
				slog.InfoContext(ctx, "Touch input closed", "events", stats.Events)

				return stats, nil
			}

			entry, err := parser.ParseLine(line)
			if err != nil {
				slog.WarnContext(ctx, "Skipping line", "line", line, "error", err)

				stats.Skipped++

				continue
			}

			if entry == nil || entry.Kind != parser.KindEvent {
				continue
			}

			n := target.HandleTouch(entry.Event)
			stats.Events++
			stats.Transitions += n

			if verbose {
				slog.InfoContext(ctx, "Touch event", "event", line, "transitions", n)
			}
		}
	}
}

// ReadScript parses a whole replay script. Unlike the live loop it fails
// on the first malformed line.
func ReadScript(r io.Reader) ([]parser.Entry, error) {
	result := make([]parser.Entry, 0)
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		entry, err := parser.ParseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if entry != nil {
			result = append(result, *entry)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read script: %w", err)
	}

	return result, nil
}

// Replay runs a script through p, drawing onto c for every frame
// directive. Transitions still queued at the end are drawn out so that
// every one of them reaches the engine. onFrame, if set, sees every
// outcome.
func Replay(ctx context.Context, entries []parser.Entry, p Player, c screen.Canvas, onFrame func(screen.Outcome)) (Stats, error) {
	var stats Stats

	draw := func() screen.Outcome {
		out := p.Draw(c)

		stats.Frames++
		if out.Delivered {
			stats.Delivered++
		}

		if onFrame != nil {
			onFrame(out)
		}

		return out
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("replay stopped: %w", err)
		}

		switch entry.Kind {
		case parser.KindEvent:
			stats.Events++
			stats.Transitions += p.HandleTouch(entry.Event)
		case parser.KindFrame:
			for range entry.Frames {
				draw()
			}
		}
	}

	for p.Pending() > 0 {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("replay stopped: %w", err)
		}

		if !draw().Delivered {
			slog.Warn("Engine stopped taking transitions", "pending", p.Pending())

			break
		}
	}

	return stats, nil
}
