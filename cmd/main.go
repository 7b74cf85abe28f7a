package main

import (
	"log/slog"
	"os"

	"github.com/skinpad/skinpad/cmd/skinpad"
	"github.com/skinpad/skinpad/logging"
)

func main() {
	slog.SetDefault(logging.NewLogger(os.Stderr, slog.LevelInfo))

	skinpad.Execute()
}
