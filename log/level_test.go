package log

import (
	"slices"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{" Info ", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(2)},
		{"verbose", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	got := slices.Collect(Levels())
	want := []string{"trace", "debug", "info", "warn", "error"}

	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if s := Level(2).String(); s != "info+2" {
		t.Errorf("expected info+2, got %q", s)
	}

	for _, name := range want {
		if s := ParseLevel(name).String(); s != name {
			t.Errorf("expected %q to round trip, got %q", name, s)
		}
	}
}

func TestLevel_Text(t *testing.T) {
	var l Level
	if err := l.UnmarshalText([]byte("warn")); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if l != LevelWarn {
		t.Errorf("expected warn, got %v", l)
	}

	b, err := LevelTrace.MarshalText()
	if err != nil || string(b) != "trace" {
		t.Errorf("expected trace, got %q (%v)", b, err)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"TEXT", FormatText},
		{" text ", FormatText},
		{"xml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"json", "text"}) {
		t.Errorf("unexpected formats %v", got)
	}

	var f Format
	if err := f.UnmarshalText([]byte("text")); err != nil || f != FormatText {
		t.Errorf("expected text, got %v (%v)", f, err)
	}

	if s := Format(7).String(); s != "format(7)" {
		t.Errorf("expected format(7), got %q", s)
	}
}
