// Package logging provides the slog handler used by cjsongen. Records are
// written through zerolog, either as JSON lines or as console text.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/rs/zerolog"
)

// Options configures NewHandler.
type Options struct {
	Level slog.Level
	JSON  bool // JSON lines instead of console text
	Color bool // console text only
}

// Handler translates slog.Record into zerolog.Event.
type Handler struct {
	logger zerolog.Logger
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

// NewHandler returns a handler writing to w.
func NewHandler(w io.Writer, opts Options) *Handler {
	if !opts.JSON {
		w = zerolog.ConsoleWriter{Out: w, NoColor: !opts.Color, PartsExclude: []string{zerolog.TimestampFieldName}}
	}
	return &Handler{
		logger: zerolog.New(w),
		level:  opts.Level,
	}
}

// New returns a logger backed by NewHandler.
func New(w io.Writer, opts Options) *slog.Logger {
	return slog.New(NewHandler(w, opts))
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func zerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	e := h.logger.WithLevel(zerologLevel(r.Level))

	attr2e := func(attr slog.Attr) bool {
		attr.Value = attr.Value.Resolve()
		switch attr.Value.Kind() {
		case slog.KindBool:
			e.Bool(attr.Key, attr.Value.Bool())
		case slog.KindDuration:
			e.Dur(attr.Key, attr.Value.Duration())
		case slog.KindFloat64:
			e.Float64(attr.Key, attr.Value.Float64())
		case slog.KindInt64:
			e.Int64(attr.Key, attr.Value.Int64())
		case slog.KindString:
			e.Str(attr.Key, attr.Value.String())
		case slog.KindTime:
			e.Time(attr.Key, attr.Value.Time())
		case slog.KindUint64:
			e.Uint64(attr.Key, attr.Value.Uint64())
		case slog.KindGroup:
			e.Str(attr.Key, attr.Value.String())
		default:
			if err, ok := attr.Value.Any().(error); ok {
				e.AnErr(attr.Key, err)
			} else {
				e.Interface(attr.Key, attr.Value.Any())
			}
		}
		return true
	}

	if len(h.groups) > 0 {
		e.Strs("logger", h.groups)
	}
	for _, attr := range h.attrs {
		attr2e(attr)
	}
	r.Attrs(attr2e)

	e.Msg(r.Message)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nested := h.clone()
	nested.attrs = append(nested.attrs, attrs...)
	return nested
}

func (h *Handler) WithGroup(name string) slog.Handler {
	nested := h.clone()
	nested.groups = append(nested.groups, name)
	return nested
}

func (h *Handler) clone() *Handler {
	return &Handler{
		logger: h.logger,
		level:  h.level,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}
