package interleave

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/jellevandenhooff/interleave/internal/gate"
	"github.com/jellevandenhooff/interleave/internal/prettylog"
)

var (
	logLevelFlag  = flag.String("interleave-log-level", "ERROR", "interleave slog log level")
	logFormatFlag = flag.String("interleave-logformat", "pretty", "interleave log output format (raw|pretty)")
)

// logger returns the package logger, built once from the flags on first use.
var logger = sync.OnceValue(func() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevelFlag)); err != nil {
		panic("bad interleave-log-level " + *logLevelFlag)
	}
	return MakeLogger(ConsoleWriter(os.Stderr), level)
})

// MakeLogger builds a JSON slog logger whose records are annotated with the
// ID of the goroutine that logged them.
func MakeLogger(out io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(wrapHandler{inner: handler})
}

type wrapHandler struct {
	inner slog.Handler
}

func (w wrapHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return w.inner.Enabled(ctx, level)
}

func (w wrapHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(slog.Int64("goroutine", gate.GoroutineID()))
	return w.inner.Handle(ctx, r)
}

func (w wrapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return wrapHandler{inner: w.inner.WithAttrs(attrs)}
}

func (w wrapHandler) WithGroup(name string) slog.Handler {
	return wrapHandler{inner: w.inner.WithGroup(name)}
}

// ConsoleWriter wraps out according to the -interleave-logformat flag, either
// passing JSON log lines through raw or rendering them for people.
func ConsoleWriter(out io.Writer) io.Writer {
	switch *logFormatFlag {
	case "raw":
		return out
	case "pretty":
		return prettylog.NewWriter(out)
	default:
		panic(fmt.Sprintf("bad interleave-logformat %q", *logFormatFlag))
	}
}
