package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Stopper stops a running profile and flushes it to disk.
type Stopper interface{ Stop() }

// Profiler selects a profiling mode and the directory profiles are written
// to.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Start starts profiling and returns a Stopper that ends it.
//
// If the binary was built without the pprof tag, or Mode is empty or
// unknown, Start does nothing. The returned Stopper is always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p.Mode, p.Path, p.Quiet)
}

type ignore struct{}

func (ignore) Stop() {}
