// Package pipeline is LUNIR's façade: two job factories (Compiler,
// Decompiler) that build up a compilation or decompilation request through
// a fluent chain of setters and only allow Run once every required input
// has been supplied. Go has no phantom-typed builder the way the reference
// implementation's Rust does; readiness here is tracked with boolean
// presence flags, and Run returns errors.IncompleteJob when a required
// input is missing instead of failing to compile.
package pipeline

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// OptimizationLevel is the closed set of optimization levels a job can be
// tagged with. The core carries no optimizer (the reference
// implementation's RVSDG sketch is explicitly out of scope), so this is
// presently a stored preference with no defined transformation — callers
// that do add an optimizing pass downstream can branch on it.
type OptimizationLevel int

const (
	// Moderate is the default: applying neither the conservative None
	// (do nothing) nor the aggressive All level.
	Moderate OptimizationLevel = iota
	All
	None
)

func (l OptimizationLevel) String() string {
	switch l {
	case All:
		return "all"
	case None:
		return "none"
	default:
		return "moderate"
	}
}

// liveJobs is the shared, atomically-updated counter backing job_count: it
// is incremented once per job handed out by a factory and decremented
// exactly once when that job is run or explicitly closed, mirroring the
// reference implementation's Arc<Weak<()>> live-count without relying on
// Go having any equivalent of a weak-reference destructor.
type liveJobs struct {
	count int64
}

func (l *liveJobs) acquire() { atomic.AddInt64(&l.count, 1) }
func (l *liveJobs) release() { atomic.AddInt64(&l.count, -1) }
func (l *liveJobs) load() int { return int(atomic.LoadInt64(&l.count)) }

// released is a job's own one-shot release guard: CompareAndSwap ensures
// that however many times a job value has been copied by its fluent
// builder chain, only the first Run or Close call among those copies
// actually decrements the shared counter.
type released struct {
	done int32
}

func (r *released) fire(l *liveJobs) {
	if atomic.CompareAndSwapInt32(&r.done, 0, 1) {
		l.release()
	}
}

// Close retires the job's slot in its Compiler's job_count without running
// it. Like Run, only the first Run or Close among a job's copies counts.
func (j CompilationJob) Close() { j.released.fire(j.jobs) }

// Close retires the job's slot in its Decompiler's job_count without
// running it. Like Run, only the first Run or Close among a job's copies
// counts.
func (j DecompilationJob) Close() { j.released.fire(j.jobs) }

func newJobID() uuid.UUID { return uuid.New() }

// ParseOptimizationLevel parses the lowercase spellings of OptimizationLevel
// ("all", "moderate", "none"), defaulting to Moderate for an empty string so
// that config files may omit the field entirely.
func ParseOptimizationLevel(s string) (OptimizationLevel, error) {
	switch s {
	case "", "moderate":
		return Moderate, nil
	case "all":
		return All, nil
	case "none":
		return None, nil
	default:
		return Moderate, fmt.Errorf("unknown optimization level %q", s)
	}
}
