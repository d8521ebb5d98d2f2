package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// DefaultComponent is stamped on JSON records that carry no component of their own.
const DefaultComponent = "subfetch"

const jsonTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// jsonHandler emits one JSON object per record with a top-level component
// field. Records logged through a component-less logger get DefaultComponent
// so log shippers can always partition on it.
type jsonHandler struct {
	inner        slog.Handler
	hasComponent bool
}

func newJSONHandler(w io.Writer, lvl slog.Leveler, addSource bool) slog.Handler {
	return &jsonHandler{inner: slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: rewriteJSONAttr,
	})}
}

func rewriteJSONAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return attr
	}
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() != slog.KindTime {
			return attr
		}
		return slog.String("ts", attr.Value.Time().UTC().Format(jsonTimeLayout))
	case slog.LevelKey:
		return slog.String(slog.LevelKey, strings.ToLower(attr.Value.String()))
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			return slog.String("caller", fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return attr
}

func (h *jsonHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *jsonHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.hasComponent || recordHasComponent(record) {
		return h.inner.Handle(ctx, record)
	}
	stamped := record.Clone()
	stamped.AddAttrs(slog.String(FieldComponent, DefaultComponent))
	return h.inner.Handle(ctx, stamped)
}

func (h *jsonHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	has := h.hasComponent
	for _, attr := range attrs {
		if attr.Key == FieldComponent {
			has = true
		}
	}
	return &jsonHandler{inner: h.inner.WithAttrs(attrs), hasComponent: has}
}

// WithGroup pins the component before opening the group; anything added
// afterwards would otherwise nest under the group name.
func (h *jsonHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	inner := h.inner
	if !h.hasComponent {
		inner = inner.WithAttrs([]slog.Attr{slog.String(FieldComponent, DefaultComponent)})
	}
	return &jsonHandler{inner: inner.WithGroup(name), hasComponent: true}
}

func recordHasComponent(record slog.Record) bool {
	found := false
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == FieldComponent {
			found = true
			return false
		}
		return true
	})
	return found
}
