package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders one header line per record followed by an indented
// "key: value" line for every remaining field. Component, session, request
// and stage attributes are lifted into the header.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool
	prefix    string
	preset    []field
}

type field struct {
	key   string
	value slog.Value
}

var headerKeys = []string{FieldComponent, FieldSessionID, FieldRequestID, FieldStage}

func newPrettyHandler(w io.Writer, lvl slog.Leveler, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := slices.Clone(h.preset)
	record.Attrs(func(attr slog.Attr) bool {
		fields = collect(fields, h.prefix, attr)
		return true
	})

	header := make(map[string]string, len(headerKeys))
	body := make([]field, 0, len(fields))
	index := make(map[string]int, len(fields))
	for _, f := range fields {
		if slices.Contains(headerKeys, f.key) {
			if _, ok := header[f.key]; !ok {
				header[f.key] = plainString(f.value)
			}
			continue
		}
		if i, ok := index[f.key]; ok {
			body[i].value = f.value
			continue
		}
		index[f.key] = len(body)
		body = append(body, f)
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var sb strings.Builder
	sb.WriteString(formatTimestamp(ts))
	sb.WriteByte(' ')
	sb.WriteString(levelLabel(record.Level))
	if component := header[FieldComponent]; component != "" {
		fmt.Fprintf(&sb, " [%s]", component)
	}
	if subject := composeSubject(header[FieldSessionID], header[FieldRequestID], header[FieldStage]); subject != "" {
		sb.WriteByte(' ')
		sb.WriteString(subject)
	}
	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}
	sb.WriteString(" – ")
	sb.WriteString(message)
	if h.addSource {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&sb, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	sb.WriteByte('\n')
	for _, f := range body {
		fmt.Fprintf(&sb, "    - %s: %s\n", f.key, formatField(f.key, f.value))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

// composeSubject renders "Session 1a2b3c4d (stage)" or, for exports,
// "Export 5e6f7a8b (stage)" in console headers.
func composeSubject(sessionID, requestID, stage string) string {
	label, id := "Session", strings.TrimSpace(sessionID)
	if rid := strings.TrimSpace(requestID); rid != "" {
		label, id = "Export", rid
	}
	stage = strings.TrimSpace(stage)
	if len(id) > 8 {
		id = id[:8]
	}
	switch {
	case id != "" && stage != "":
		return label + " " + id + " (" + stage + ")"
	case id != "":
		return label + " " + id
	default:
		return stage
	}
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.preset = slices.Clone(h.preset)
	for _, attr := range attrs {
		next.preset = collect(next.preset, h.prefix, attr)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = joinKey(h.prefix, name)
	return &next
}

// collect flattens attr into dst, joining nested group keys with dots.
func collect(dst []field, prefix string, attr slog.Attr) []field {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner = joinKey(prefix, attr.Key)
		}
		for _, member := range value.Group() {
			dst = collect(dst, inner, member)
		}
		return dst
	}
	key := joinKey(prefix, attr.Key)
	if key == "" {
		return dst
	}
	return append(dst, field{key: key, value: value})
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "." + key
	}
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}
