package log

import (
	"io"
	"strings"
	"testing"
	"time"
)

func TestConfig_Options(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelWarn),
		WithFormat(FormatText),
		WithCaller(true),
		WithPretty(false),
		nil,
	)

	if c.level != LevelWarn {
		t.Errorf("expected level warn, got %v", c.level)
	}

	if c.format != FormatText {
		t.Errorf("expected format text, got %v", c.format)
	}

	if !c.caller || c.pretty {
		t.Errorf("expected caller on and pretty off, got %v and %v", c.caller, c.pretty)
	}
}

func TestConfig_Defaults(t *testing.T) {
	c := makeConfig(nil)

	if c.output != io.Discard {
		t.Errorf("expected nil output to become io.Discard, got %T", c.output)
	}

	if c.level != DefaultLevel || c.format != DefaultFormat {
		t.Errorf("expected %v/%v, got %v/%v", DefaultLevel, DefaultFormat, c.level, c.format)
	}

	if c.caller != DefaultCaller || c.pretty != DefaultPretty {
		t.Errorf("expected caller %v and pretty %v", DefaultCaller, DefaultPretty)
	}

	if c.layout != DefaultTimeLayout {
		t.Errorf("expected layout %q, got %q", DefaultTimeLayout, c.layout)
	}
}

func TestConfig_OptionsCopy(t *testing.T) {
	base := makeConfig(nil)
	derived := apply(base, WithLevel(LevelError))

	if base.level != DefaultLevel {
		t.Errorf("expected base level to stay %v, got %v", DefaultLevel, base.level)
	}

	if derived.level != LevelError {
		t.Errorf("expected derived level error, got %v", derived.level)
	}
}

func TestConfig_formatTime(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339", "RFC3339", "2026-03-14T09:26:53Z"},
		{"rfc3339_nano", "rfc3339-nano", "2026-03-14T09:26:53.589793238Z"},
		{"kitchen", "Kitchen", "9:26AM"},
		{"millis", "ms", "Mar 14 09:26:53.589"},
		{"custom", "2006/01/02", "2026/03/14"},
		{"custom_verbatim", "  15h04", "  09h26"},
		{"none", "none", ""},
		{"empty", "", ""},
		{"whitespace", " \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})

			if got := c.formatTime(now); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestConfig_handler_TraceLevelName(t *testing.T) {
	var buf strings.Builder

	l := Make(&buf,
		WithLevel(LevelTrace),
		WithFormat(FormatText),
		WithPretty(false),
		WithTimeLayout("none"),
	)
	l.Trace("deep")

	if got := buf.String(); got != "level=TRACE msg=deep\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func BenchmarkConfig_formatTime(b *testing.B) {
	c := WithTimeLayout("RFC3339Nano")(config{})
	now := time.Now()

	for b.Loop() {
		_ = c.formatTime(now)
	}
}
