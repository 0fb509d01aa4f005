package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init configures the package logger for the given app environment.
// Development gets a console writer with debug level, everything else JSON at info.
func Init(environment string) {
	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel

	if strings.EqualFold(environment, "development") {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		level = zerolog.DebugLevel
	}

	SetOutput(out, level)
}

// SetOutput swaps the underlying writer, mostly for tests.
func SetOutput(w io.Writer, level zerolog.Level) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	l := zerolog.New(w).With().Timestamp().Logger().Level(level)

	mu.Lock()
	base = l
	mu.Unlock()
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := base
	return &l
}

func Debug(msg string, args ...any) { write(current().Debug(), msg, args) }

func Info(msg string, args ...any) { write(current().Info(), msg, args) }

func Warn(msg string, args ...any) { write(current().Warn(), msg, args) }

func Error(msg string, args ...any) { write(current().Error(), msg, args) }

// Fatal logs and exits the process.
func Fatal(msg string, args ...any) {
	write(current().WithLevel(zerolog.FatalLevel), msg, args)
	os.Exit(1)
}

// write turns args into fields: errors go to "error", string keys pair with the
// next value, anything left over is collected under "extra".
func write(e *zerolog.Event, msg string, args []any) {
	if e == nil {
		return
	}

	var extra []any
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case error:
			e = e.Err(v)
		case string:
			if i+1 < len(args) {
				if err, ok := args[i+1].(error); ok {
					e = e.AnErr(v, err)
				} else {
					e = e.Interface(v, args[i+1])
				}
				i++
				continue
			}
			extra = append(extra, v)
		default:
			extra = append(extra, fmt.Sprint(v))
		}
	}

	if len(extra) > 0 {
		e = e.Interface("extra", extra)
	}

	e.Msg(msg)
}
