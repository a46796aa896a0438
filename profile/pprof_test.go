//go:build pprof

package profile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestModes(t *testing.T) {
	m := Modes()
	if !slices.IsSorted(m) || !slices.Contains(m, "cpu") {
		t.Errorf("expected sorted modes including cpu, got %v", m)
	}
}

func TestProfiler_CPU(t *testing.T) {
	dir := t.TempDir()

	Profiler{Mode: "cpu", Path: dir, Quiet: true}.Start().Stop()

	if _, err := os.Stat(filepath.Join(dir, "cpu.pprof")); err != nil {
		t.Errorf("expected cpu profile: %v", err)
	}

	if _, ok := (Profiler{Mode: "bogus"}).Start().(ignore); !ok {
		t.Error("expected unknown mode to be ignored")
	}
}
