package logger

import (
	"log/slog"
	"os"
)

var log *slog.Logger

// Init configures the package-level logger. Development gets debug level,
// everything else info.
func Init(environment string) {
	level := slog.LevelInfo
	if environment == "development" {
		level = slog.LevelDebug
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(log)
}

func ensure() *slog.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

// normalize lets call sites pass bare errors alongside key/value pairs.
func normalize(args []any) []any {
	out := make([]any, 0, len(args))
	for _, a := range args {
		if err, ok := a.(error); ok {
			out = append(out, slog.Any("error", err))
			continue
		}
		out = append(out, a)
	}
	return out
}

func Debug(msg string, args ...any) {
	ensure().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	ensure().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	ensure().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	ensure().Error(msg, normalize(args)...)
}

func Fatal(msg string, args ...any) {
	ensure().Error(msg, normalize(args)...)
	os.Exit(1)
}
