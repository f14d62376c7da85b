package logging

import (
	"context"
	"log/slog"
)

type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanoutHandler(handlers ...slog.Handler) slog.Handler {
	filtered := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			filtered = append(filtered, h)
		}
	}
	if len(filtered) == 0 {
		return NoopHandler{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &fanoutHandler{handlers: filtered}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for idx, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		rec := record
		if idx < len(h.handlers)-1 {
			rec = record.Clone()
		}
		if err := handler.Handle(ctx, rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}

// rangeHandler forwards records whose level falls in [lo, hi). A zero hi
// means no upper bound.
type rangeHandler struct {
	next    slog.Handler
	lo, hi  slog.Level
	bounded bool
}

func newRangeHandler(next slog.Handler, lo, hi slog.Level) slog.Handler {
	return &rangeHandler{next: next, lo: lo, hi: hi, bounded: hi != 0}
}

func (h *rangeHandler) accepts(level slog.Level) bool {
	if level < h.lo {
		return false
	}
	return !h.bounded || level < h.hi
}

func (h *rangeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.accepts(level) && h.next.Enabled(ctx, level)
}

func (h *rangeHandler) Handle(ctx context.Context, record slog.Record) error {
	if !h.accepts(record.Level) {
		return nil
	}
	return h.next.Handle(ctx, record)
}

func (h *rangeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &rangeHandler{next: h.next.WithAttrs(attrs), lo: h.lo, hi: h.hi, bounded: h.bounded}
}

func (h *rangeHandler) WithGroup(name string) slog.Handler {
	return &rangeHandler{next: h.next.WithGroup(name), lo: h.lo, hi: h.hi, bounded: h.bounded}
}
