//go:build !pprof

package profile

import "testing"

func TestProfiler_Disabled(t *testing.T) {
	if m := Modes(); len(m) != 0 {
		t.Errorf("expected no modes without the %s tag, got %v", Tag, m)
	}

	for _, p := range []Profiler{
		{},
		{Mode: "cpu", Path: t.TempDir()},
		{Mode: "unknown", Quiet: true},
	} {
		s := p.Start()
		if _, ok := s.(ignore); !ok {
			t.Errorf("%+v: expected a no-op stopper, got %T", p, s)
		}

		s.Stop()
	}
}
