package logger

import (
	"log/slog"
	"os"
)

var log *slog.Logger

func init() {
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// normalize tolerates a bare trailing value (usually an error) instead of a
// key/value pair, which is the common call shape in repositories.
func normalize(args []any) []any {
	if len(args)%2 != 0 {
		last := args[len(args)-1]
		args = append(args[:len(args)-1:len(args)-1], "error", last)
	}
	return args
}

func Info(msg string, args ...any) {
	log.Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
}
