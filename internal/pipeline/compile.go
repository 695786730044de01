package pipeline

import (
	"github.com/google/uuid"

	"lunir/internal/ast"
	"lunir/internal/errors"
	"lunir/internal/il"
)

// Serializer maps a finished IL chunk to the bytes of some concrete
// bytecode format. LUNIR ships no concrete format encoder (§1 Non-goals);
// callers supply their own.
type Serializer func(il.Chunk) []byte

// CompilationJob carries a compile request's inputs as they're attached.
// Run only succeeds once both Tree and Serializer have been called.
type CompilationJob struct {
	id                uuid.UUID
	optimizationLevel OptimizationLevel
	tree              ast.Statement
	hasTree           bool
	serializer        Serializer
	hasSerializer     bool
	jobs              *liveJobs
	released          *released
}

// OptimizationLevel attaches an optimization preference to the job.
func (j CompilationJob) OptimizationLevel(level OptimizationLevel) CompilationJob {
	j.optimizationLevel = level
	return j
}

// Tree attaches the source AST to be compiled.
func (j CompilationJob) Tree(tree ast.Statement) CompilationJob {
	j.tree = tree
	j.hasTree = true
	return j
}

// Serializer attaches the function that turns a lowered IL chunk into
// bytes.
func (j CompilationJob) Serializer(s Serializer) CompilationJob {
	j.serializer = s
	j.hasSerializer = true
	return j
}

// Run consumes the job and produces bytecode. AST→IL lowering is
// explicitly outside the core's scope (spec §2: "tree → lowering (not in
// core) → IL chunk → format serializer → bytes"), so a fully-built job
// still cannot produce output today — this mirrors the reference
// implementation's own `run()`, which is equally unimplemented. Run still
// enforces and reports the IncompleteJob precondition, and still retires
// the job's slot in job_count, since both of those behaviors are fully
// specified regardless of the lowering gap.
func (j CompilationJob) Run() ([]byte, error) {
	defer j.released.fire(j.jobs)

	if !j.hasTree || !j.hasSerializer {
		return nil, errors.New(errors.IncompleteJob, "CompilationJob.Run called before both Tree and Serializer were attached")
	}

	return nil, errors.New(errors.Unimplemented, "AST→IL lowering is not part of the core pipeline; supply a pre-lowered chunk to Serializer's caller directly")
}

// Compiler is a factory for CompilationJobs.
type Compiler struct {
	jobs *liveJobs
}

// NewCompiler returns a ready Compiler with zero live jobs.
func NewCompiler() *Compiler {
	return &Compiler{jobs: &liveJobs{}}
}

// CreateJob returns a new, empty CompilationJob tracked by this Compiler's
// job_count.
func (c *Compiler) CreateJob() CompilationJob {
	c.jobs.acquire()
	return CompilationJob{
		id:                newJobID(),
		optimizationLevel: Moderate,
		jobs:              c.jobs,
		released:          &released{},
	}
}

// JobCount reports the number of jobs created by this Compiler (or by
// fluent-chaining one of its jobs) that have not yet been Run or Close'd.
func (c *Compiler) JobCount() int { return c.jobs.load() }
