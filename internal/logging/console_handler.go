package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleState is shared by a handler and every clone derived from it so
// writes stay serialized and repeated info fields are tracked per job.
type consoleState struct {
	mu      sync.Mutex
	writer  io.Writer
	repeats map[string]map[string]string
}

type consoleHandler struct {
	state     *consoleState
	level     *slog.LevelVar
	addSource bool
	attrs     []slog.Attr
	groups    []string
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{
		state:     &consoleState{writer: w, repeats: make(map[string]map[string]string)},
		level:     lvl,
		addSource: addSource,
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}

	fields := make([]field, 0, record.NumAttrs()+len(h.attrs))
	for _, attr := range h.attrs {
		flattenAttr(&fields, h.groups, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&fields, h.groups, attr)
		return true
	})
	fields = dedupeFields(fields)

	header := recordHeader{
		time:    record.Time,
		level:   record.Level,
		message: strings.TrimSpace(record.Message),
	}
	if header.time.IsZero() {
		header.time = time.Now()
	}
	if header.message == "" {
		header.message = "(no message)"
	}
	if h.addSource {
		header.source = recordSource(record)
	}
	body := make([]field, 0, len(fields))
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			header.component = attrString(f.value)
			continue
		case FieldJobID:
			header.jobID = attrString(f.value)
		case FieldStage:
			header.stage = attrString(f.value)
		}
		body = append(body, f)
	}

	var buf bytes.Buffer
	buf.Grow(256 + len(body)*32)
	header.write(&buf)
	buf.WriteByte('\n')

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	if record.Level < slog.LevelInfo {
		writeDebugFields(&buf, fields)
	} else {
		h.writeInfoFields(&buf, header, body)
	}
	_, err := h.state.writer.Write(buf.Bytes())
	return err
}

// writeInfoFields renders the highlighted subset. Fields whose value did not
// change since the last info line for the same job are dropped; warnings and
// errors always print in full.
func (h *consoleHandler) writeInfoFields(buf *bytes.Buffer, header recordHeader, attrs []field) {
	shown, hidden := selectInfoFields(attrs, infoAttrLimit, false)
	if key := infoSummaryKey(header.component, header.jobID); key != "" && len(shown) > 0 {
		seen := h.state.repeats[key]
		if seen == nil {
			seen = make(map[string]string)
			h.state.repeats[key] = seen
		}
		kept := shown[:0]
		for _, f := range shown {
			prev, ok := seen[f.label]
			seen[f.label] = f.value
			if ok && prev == f.value && header.level <= slog.LevelInfo {
				continue
			}
			kept = append(kept, f)
		}
		shown = kept
	}
	for _, f := range shown {
		buf.WriteString("    - ")
		buf.WriteString(f.label)
		buf.WriteString(": ")
		buf.WriteString(f.value)
		buf.WriteByte('\n')
	}
	if hidden > 0 {
		buf.WriteString("    + ")
		buf.WriteString(strconv.Itoa(hidden))
		if hidden == 1 {
			buf.WriteString(" more field hidden\n")
		} else {
			buf.WriteString(" more fields hidden\n")
		}
	}
}

func writeDebugFields(buf *bytes.Buffer, attrs []field) {
	for _, f := range attrs {
		buf.WriteString("    ")
		buf.WriteString(f.key)
		buf.WriteString(": ")
		buf.WriteString(formatValue(f.value))
		buf.WriteByte('\n')
	}
}

type recordHeader struct {
	time      time.Time
	level     slog.Level
	component string
	jobID     string
	stage     string
	message   string
	source    *slog.Source
}

// write renders "<ts> LEVEL [component] Job <id> (stage) – message [file:line]".
func (r recordHeader) write(buf *bytes.Buffer) {
	buf.WriteString(formatTimestamp(r.time))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(r.level))
	if r.component != "" {
		buf.WriteString(" [" + r.component + "]")
	}
	if subject := r.subject(); subject != "" {
		buf.WriteString(" " + subject)
	}
	buf.WriteString(" – ")
	buf.WriteString(r.message)
	if r.source != nil && r.source.File != "" {
		buf.WriteString(" [" + filepath.Base(r.source.File) + ":" + strconv.Itoa(r.source.Line) + "]")
	}
}

func (r recordHeader) subject() string {
	jobID := strings.TrimSpace(r.jobID)
	stage := strings.TrimSpace(r.stage)
	if len(jobID) > 8 {
		jobID = jobID[:8]
	}
	switch {
	case jobID != "" && stage != "":
		return "Job " + jobID + " (" + stage + ")"
	case jobID != "":
		return "Job " + jobID
	default:
		return stage
	}
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

type field struct {
	key   string
	value slog.Value
}

// dedupeFields keeps the first position of each key with the last value.
func dedupeFields(fields []field) []field {
	if len(fields) < 2 {
		return fields
	}
	index := make(map[string]int, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if f.key == "" {
			continue
		}
		if pos, ok := index[f.key]; ok {
			out[pos].value = f.value
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func flattenAttr(dst *[]field, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = append(append([]string(nil), prefix...), attr.Key)
		}
		for _, child := range value.Group() {
			flattenAttr(dst, next, child)
		}
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(prefix, ".")
		if attr.Key != "" {
			key += "." + attr.Key
		}
	}
	*dst = append(*dst, field{key: key, value: value})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// recordSource mirrors slog.Record.Source (Go 1.25+) for older toolchains.
func recordSource(r slog.Record) *slog.Source {
	if r.PC == 0 {
		return nil
	}
	fs := runtime.CallersFrames([]uintptr{r.PC})
	f, _ := fs.Next()
	return &slog.Source{Function: f.Function, File: f.File, Line: f.Line}
}
