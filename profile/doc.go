// Package profile provides optional runtime profiling for mbsym.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only when the
// binary is built with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Profiler.Start] returns a no-op [Stopper] and [Modes]
// is empty.
//
// # Modes
//
// allocs, block, clock, cpu, goroutine, heap, mem, mutex, thread and trace.
// The mode name selects the profile written, e.g. cpu.pprof.
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/mbsym"}
//	defer p.Start().Stop()
//
// Profiling the generation of a large model from the command line:
//
//	mbsym --pprof-mode=cpu -s model.yaml emit > model.set
//	go tool pprof -http=: ~/.cache/mbsym/pprof/cpu.pprof
//
// When built with the tag, [net/http/pprof] handlers are also registered on
// [net/http.DefaultServeMux].
package profile
