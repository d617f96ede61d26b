package asm

import (
	"context"
	"log/slog"
)

// LevelTrace sits below Debug and is used for per-line chatter.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Trace logs msg at LevelTrace on the default logger.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
