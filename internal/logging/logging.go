// Package logging строит zerolog логгер процесса
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New создает логгер; format "json" пишет JSON строки, иначе консольный вывод
func New(level, format string, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var w io.Writer = out
	if format != "json" {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    out != os.Stderr && out != os.Stdout,
		}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Int("pid", os.Getpid()).Logger()
}

// Nop возвращает логгер, который ничего не пишет (для тестов)
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
