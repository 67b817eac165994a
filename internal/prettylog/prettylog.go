// Package prettylog renders the JSON lines produced by slog's JSON handler as
// single-line colored console output. Lines that do not parse as JSON pass
// through untouched.
package prettylog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

const (
	colorBold = 1

	colorRed = iota + 30
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
	colorCyan

	colorDarkGray = 90
)

type Writer struct {
	mu      sync.Mutex
	out     io.Writer
	noColor bool
}

// NewWriter returns a Writer rendering to out. Color is enabled when stdout
// is a terminal, honoring NO_COLOR and FORCE_COLOR.
func NewWriter(out io.Writer) *Writer {
	noColor := os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" ||
		(!isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()))
	if os.Getenv("FORCE_COLOR") != "" {
		noColor = false
	}
	return &Writer{out: out, noColor: noColor}
}

func (w *Writer) colorize(s string, color int) string {
	if w.noColor {
		return s
	}
	return "\x1b[" + strconv.Itoa(color) + "m" + s + "\x1b[0m"
}

func levelColor(level string) int {
	switch level {
	case "DEBUG":
		return colorMagenta
	case "INFO":
		return colorGreen
	case "WARN":
		return colorYellow
	case "ERROR":
		return colorRed
	default:
		return colorDarkGray
	}
}

// Write renders one JSON log line.
func (w *Writer) Write(p []byte) (int, error) {
	var evt map[string]any
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	if err := d.Decode(&evt); err != nil {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.out.Write(p)
	}

	var buf bytes.Buffer

	if ts, ok := evt[slog.TimeKey].(string); ok {
		// Keep only the time-of-day part of the RFC 3339 timestamp.
		if idx := strings.IndexByte(ts, 'T'); idx != -1 {
			ts = strings.TrimRight(ts[idx+1:], "Z")
		}
		buf.WriteString(w.colorize(ts, colorDarkGray))
		buf.WriteByte(' ')
	}

	level, _ := evt[slog.LevelKey].(string)
	if level == "" {
		level = "????"
	}
	buf.WriteString(w.colorize(fmt.Sprintf("%-5s", level), levelColor(level)))
	buf.WriteByte(' ')

	if msg, ok := evt[slog.MessageKey].(string); ok {
		buf.WriteString(w.colorize(msg, colorBold))
	}

	fields := make([]string, 0, len(evt))
	for field := range evt {
		switch field {
		case slog.TimeKey, slog.LevelKey, slog.MessageKey, slog.SourceKey:
			continue
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		buf.WriteByte(' ')
		buf.WriteString(w.colorize(field+"=", colorCyan))
		buf.WriteString(formatValue(evt[field]))
	}
	buf.WriteByte('\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.out.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		if needsQuote(v) {
			return strconv.Quote(v)
		}
		return v
	case json.Number:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	for i := range s {
		if s[i] < 0x20 || s[i] > 0x7e || s[i] == ' ' || s[i] == '\\' || s[i] == '"' {
			return true
		}
	}
	return false
}
