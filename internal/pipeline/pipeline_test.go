package pipeline

import (
	"strings"
	"testing"

	"lunir/internal/errors"
	"lunir/internal/il"
	"lunir/internal/reconstructor"
)

func TestDecompilationJobIncompleteWithoutChunk(t *testing.T) {
	d := NewDecompiler()
	_, err := d.CreateJob().Reconstructor(reconstructor.New()).Run()
	if !errors.Is(err, errors.IncompleteJob) {
		t.Fatalf("expected IncompleteJob, got %v", err)
	}
}

func TestDecompilationJobIncompleteWithoutReconstructor(t *testing.T) {
	d := NewDecompiler()
	function := &il.Function{MaxStackSize: 1}
	chunk := il.New([]il.Instruction{il.Return{ResultStart: 0, ResultCount: 0}})
	_, err := d.CreateJob().Chunk(function, chunk).Run()
	if !errors.Is(err, errors.IncompleteJob) {
		t.Fatalf("expected IncompleteJob, got %v", err)
	}
}

func TestDecompilationJobRunProducesSource(t *testing.T) {
	d := NewDecompiler()
	function := &il.Function{
		MaxStackSize: 1,
		Constants:    []il.Constant{il.ConstantString{Value: "x"}},
	}
	chunk := il.New([]il.Instruction{
		il.Load{Dest: 0, Src: il.Immediate{Value: 1}},
		il.SetGlobal{Src: 0, Constant: 0},
	})

	source, err := d.CreateJob().Chunk(function, chunk).Reconstructor(reconstructor.New()).Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(source, "x = 1") {
		t.Fatalf("expected source to contain assignment, got %q", source)
	}
}

func TestDecompilationJobRunRejectsBadJumpTarget(t *testing.T) {
	d := NewDecompiler()
	function := &il.Function{MaxStackSize: 1}
	chunk := il.New([]il.Instruction{
		il.Jump{Branch: il.JumpBranch{Start: 0, End: 99}},
		il.Return{ResultStart: 0, ResultCount: 0},
	})

	_, err := d.CreateJob().Chunk(function, chunk).Reconstructor(reconstructor.New()).Run()
	if !errors.Is(err, errors.InvalidJumpTarget) {
		t.Fatalf("expected InvalidJumpTarget, got %v", err)
	}
}

func TestDecompilerJobCountTracksLiveJobs(t *testing.T) {
	d := NewDecompiler()
	if d.JobCount() != 0 {
		t.Fatalf("expected 0 live jobs, got %d", d.JobCount())
	}

	job := d.CreateJob()
	if d.JobCount() != 1 {
		t.Fatalf("expected 1 live job after CreateJob, got %d", d.JobCount())
	}

	function := &il.Function{MaxStackSize: 1}
	chunk := il.New([]il.Instruction{il.Return{ResultStart: 0, ResultCount: 0}})
	if _, err := job.Chunk(function, chunk).Reconstructor(reconstructor.New()).Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if d.JobCount() != 0 {
		t.Fatalf("expected 0 live jobs after Run, got %d", d.JobCount())
	}
}

func TestDecompilerJobCountDecrementsOnceAcrossFluentCopies(t *testing.T) {
	d := NewDecompiler()
	base := d.CreateJob()
	withChunk := base.Chunk(&il.Function{MaxStackSize: 1}, il.New([]il.Instruction{il.Return{}}))
	withBoth := withChunk.Reconstructor(reconstructor.New())

	if _, err := withBoth.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if d.JobCount() != 0 {
		t.Fatalf("expected 0 live jobs, got %d", d.JobCount())
	}

	// Running a sibling copy of the same lineage must not double-decrement
	// (or under-decrement) the shared counter.
	if _, err := withChunk.Reconstructor(reconstructor.New()).Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if d.JobCount() != 0 {
		t.Fatalf("expected 0 live jobs after running a sibling copy, got %d", d.JobCount())
	}
}

func TestCompilationJobIncompleteWithoutInputs(t *testing.T) {
	c := NewCompiler()
	_, err := c.CreateJob().Run()
	if !errors.Is(err, errors.IncompleteJob) {
		t.Fatalf("expected IncompleteJob, got %v", err)
	}
}

func TestRunAllDecompilationJobs(t *testing.T) {
	d := NewDecompiler()
	function := &il.Function{MaxStackSize: 1}

	var thunks []func() (string, error)
	for i := 0; i < 3; i++ {
		job := d.CreateJob().
			Chunk(function, il.New([]il.Instruction{il.Return{ResultStart: 0, ResultCount: 0}})).
			Reconstructor(reconstructor.New())
		thunks = append(thunks, job.Run)
	}

	results, err := RunAll(thunks)
	if err != nil {
		t.Fatalf("RunAll returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if !strings.Contains(r, "return") {
			t.Fatalf("expected each result to contain a return statement, got %q", r)
		}
	}
}
