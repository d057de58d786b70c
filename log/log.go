package log

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"
)

// DefaultTimeFormat prints wall-clock time down to the microsecond.
const DefaultTimeFormat = "[15:04:05.000000]"

type PrettyHandlerOptions struct {
	SlogOpts slog.HandlerOptions
	// Optional timezone to use for logging. If nil, local timezone is used.
	TimeZone *time.Location
	// Optional time layout. Defaults to DefaultTimeFormat.
	TimeFormat string
}

// PrettyHandler writes one colored line per record:
//
//	[15:04:05.000000] [-] INFO message {"key":"value"}
type PrettyHandler struct {
	l          *log.Logger
	opts       slog.HandlerOptions
	timeZone   *time.Location
	timeFormat string
	attrs      []slog.Attr
	group      string
}

// Tag returns the severity prefix for a level.
func Tag(level slog.Level) string {
	switch level {
	case slog.LevelInfo:
		return "[-]"
	case slog.LevelWarn:
		return "[!]"
	case slog.LevelError:
		return "[x]"
	default:
		return "[~]"
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	level := Tag(r.Level) + " " + r.Level.String()

	switch r.Level {
	case slog.LevelDebug:
		level = color.MagentaString(level)
	case slog.LevelInfo:
		level = color.BlueString(level)
	case slog.LevelWarn:
		level = color.YellowString(level)
	case slog.LevelError:
		level = color.RedString(level)
	}

	fields := make(map[string]interface{}, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		addField(fields, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addField(fields, h.group, a)
		return true
	})

	var err error
	var b []byte
	if len(fields) > 0 {
		b, err = json.Marshal(fields)
		if err != nil {
			return err
		}
	}

	// Convert time to specified timezone if set
	logTime := r.Time
	if h.timeZone != nil {
		logTime = logTime.In(h.timeZone)
	}

	timeStr := logTime.Format(h.timeFormat)
	msg := color.CyanString(r.Message)

	if len(b) == 0 {
		h.l.Println(timeStr, level, msg)
		return nil
	}
	h.l.Println(timeStr, level, msg, color.HiBlackString(string(b)))

	return nil
}

func addField(fields map[string]interface{}, group string, a slog.Attr) {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	if errVal, ok := a.Value.Any().(error); ok {
		fields[key] = errVal.Error()
	} else {
		fields[key] = a.Value.Any()
	}
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.group = strings.TrimPrefix(h.group+"."+name, ".")
	return &h2
}

func NewPrettyHandler(
	out io.Writer,
	opts PrettyHandlerOptions,
) *PrettyHandler {
	timeFormat := opts.TimeFormat
	if timeFormat == "" {
		timeFormat = DefaultTimeFormat
	}

	h := &PrettyHandler{
		l:          log.New(out, "", 0),
		opts:       opts.SlogOpts,
		timeZone:   opts.TimeZone,
		timeFormat: timeFormat,
	}

	return h
}

// Helper function to create a new handler with UTC timezone
func NewUTCPrettyHandler(
	out io.Writer,
	opts PrettyHandlerOptions,
) *PrettyHandler {
	opts.TimeZone = time.UTC
	return NewPrettyHandler(out, opts)
}

// ParseLevel maps a config value ("debug", "info", "warn", "error") to a level.
// Unknown values fall back to debug.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelDebug
	}
	return level
}
