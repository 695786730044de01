package pipeline

import (
	"github.com/google/uuid"

	"lunir/internal/ast"
	"lunir/internal/cir"
	"lunir/internal/errors"
	"lunir/internal/il"
	"lunir/internal/lifter"
)

// SourceVisitor is what a DecompilationJob needs from a reconstructor: an
// ast.Visitor capable of walking the lifted StatBlock, plus a way to pull
// the accumulated text back out once the walk is done.
type SourceVisitor interface {
	ast.Visitor
	Source() string
}

// DecompilationJob carries a decompile request's inputs as they're
// attached. Run only succeeds once both Chunk and Reconstructor have been
// called.
//
// The reference builder's chunk() step takes a bare IlChunk; lifting one
// also needs the owning function's constant pool and declared stack size
// (neither of which an instruction sequence carries on its own), so Chunk
// here takes the il.Function alongside its body — the narrowest extension
// that makes the documented two-input builder actually liftable, the same
// kind of gap StatAssign fills on the AST side (see DESIGN.md).
type DecompilationJob struct {
	id                uuid.UUID
	optimizationLevel OptimizationLevel
	function          *il.Function
	instructions      []il.Instruction
	hasChunk          bool
	reconstructor     SourceVisitor
	hasReconstructor  bool
	jobs              *liveJobs
	released          *released
}

// OptimizationLevel attaches an optimization preference to the job.
func (j DecompilationJob) OptimizationLevel(level OptimizationLevel) DecompilationJob {
	j.optimizationLevel = level
	return j
}

// Chunk attaches the IL chunk (and its owning function's metadata) to be
// decompiled.
func (j DecompilationJob) Chunk(function *il.Function, chunk il.Chunk) DecompilationJob {
	j.function = function
	j.instructions = chunk.Inner()
	j.hasChunk = true
	return j
}

// Reconstructor attaches the source-reconstruction visitor to run over the
// lifted AST.
func (j DecompilationJob) Reconstructor(v SourceVisitor) DecompilationJob {
	j.reconstructor = v
	j.hasReconstructor = true
	return j
}

// Run consumes the job: it validates the chunk's control flow via CIR
// (catching a malformed jump target before the lifter ever sees it), lifts
// the instruction sequence into a StatBlock, walks it with the attached
// reconstructor, and returns the accumulated source text.
func (j DecompilationJob) Run() (string, error) {
	defer j.released.fire(j.jobs)

	if !j.hasChunk || !j.hasReconstructor {
		return "", errors.New(errors.IncompleteJob, "DecompilationJob.Run called before both Chunk and Reconstructor were attached")
	}

	if _, err := cir.Build(il.New(j.instructions)); err != nil {
		return "", err
	}

	block, err := lifter.Lift(j.function, j.instructions)
	if err != nil {
		return "", err
	}

	j.reconstructor.VisitStatBlock(block)
	return j.reconstructor.Source(), nil
}

// Decompiler is a factory for DecompilationJobs.
type Decompiler struct {
	jobs *liveJobs
}

// NewDecompiler returns a ready Decompiler with zero live jobs.
func NewDecompiler() *Decompiler {
	return &Decompiler{jobs: &liveJobs{}}
}

// CreateJob returns a new, empty DecompilationJob tracked by this
// Decompiler's job_count.
func (d *Decompiler) CreateJob() DecompilationJob {
	d.jobs.acquire()
	return DecompilationJob{
		id:                newJobID(),
		optimizationLevel: Moderate,
		jobs:              d.jobs,
		released:          &released{},
	}
}

// JobCount reports the number of jobs created by this Decompiler (or by
// fluent-chaining one of its jobs) that have not yet been Run or Close'd.
func (d *Decompiler) JobCount() int { return d.jobs.load() }
