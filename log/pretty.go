package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty text handler. Styles are bound
// to a renderer for the handler's writer, so colors are dropped when the
// writer is not a terminal.
type palette struct {
	key, str, num, yes, no, dur, time lipgloss.Style

	trace, debug, info, warn, error lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		time:  fg("4"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		error: fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.error
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyTextHandler writes logfmt-like records with unquoted, colorized
// values.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  *palette
	prefix string // dotted group path
	attrs  []byte // preformatted WithAttrs
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyTextHandler {
	return &prettyTextHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: newPalette(w),
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		h.builtin(&buf, slog.Time(slog.TimeKey, r.Time))
	}

	h.builtin(&buf, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			h.builtin(&buf, slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	h.builtin(&buf, slog.String(slog.MessageKey, r.Message))

	if len(h.attrs) > 0 {
		buf.WriteByte(' ')
		buf.Write(h.attrs)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	var buf bytes.Buffer

	buf.Write(h.attrs)

	for _, a := range attrs {
		h.writeAttr(&buf, h.prefix, a)
	}

	c := *h
	c.attrs = bytes.TrimLeft(buf.Bytes(), " ")

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// builtin writes one of the record's built-in attributes after passing it
// through ReplaceAttr.
func (h *prettyTextHandler) builtin(buf *bytes.Buffer, a slog.Attr) {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Key == slog.LevelKey {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteByte('=')

		var level slog.Level
		if l, ok := a.Value.Any().(slog.Level); ok {
			level = l
		} else {
			level = slog.Level(ParseLevel(a.Value.String()))
		}

		buf.WriteString(h.style.level(level).Render(a.Value.String()))

		return
	}

	h.writeAttr(buf, "", a)
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			h.writeAttr(buf, prefix, g)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.style.key.Render(prefix + a.Key))
	buf.WriteByte('=')
	buf.WriteString(h.value(a.Value))
}

func (h *prettyTextHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.style.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")

	case slog.KindDuration:
		return h.style.dur.Render(v.String())

	case slog.KindTime:
		return h.style.time.Render(v.Time().Format(DefaultTimeLayout))

	default:
		return h.style.str.Render(v.String())
	}
}

// prettyJSONHandler indents the records produced by a [slog.JSONHandler].
type prettyJSONHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	buf   *bytes.Buffer
	inner slog.Handler
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyJSONHandler {
	buf := new(bytes.Buffer)

	return &prettyJSONHandler{
		mu:    &sync.Mutex{},
		w:     w,
		buf:   buf,
		inner: slog.NewJSONHandler(buf, opts),
	}
}

func (h *prettyJSONHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *prettyJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()

	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(h.buf.Bytes()), "", "  "); err != nil {
		return err
	}

	out.WriteByte('\n')

	_, err := h.w.Write(out.Bytes())

	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.inner = h.inner.WithAttrs(attrs)

	return &c
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.inner = h.inner.WithGroup(name)

	return &c
}
