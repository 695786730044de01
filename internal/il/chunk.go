package il

import (
	"fmt"
	"strings"
)

// Chunk is an ordered sequence of Instruction. Structural equality and
// insertion order are part of its contract: CIR relies on stable PC indices
// into a Chunk, and on being able to tell whether two Chunks (candidate
// basic blocks) are identical.
type Chunk struct {
	instructions []Instruction
}

// New builds a Chunk from an instruction sequence, copying the slice so the
// caller's backing array can't mutate the chunk afterwards.
func New(seq []Instruction) Chunk {
	cp := make([]Instruction, len(seq))
	copy(cp, seq)
	return Chunk{instructions: cp}
}

// FromSlice is the equivalent of the reference implementation's
// `From<&[Instruction]>`: it builds a Chunk from a sub-slice of a larger
// instruction sequence, used by CIR when it carves out basic blocks.
func FromSlice(seq []Instruction) Chunk {
	return New(seq)
}

// Inner returns the chunk's instructions for read access. The returned
// slice must not be mutated by callers outside this package.
func (c Chunk) Inner() []Instruction {
	return c.instructions
}

// Len reports the number of instructions in the chunk.
func (c Chunk) Len() int {
	return len(c.instructions)
}

// Equal reports whether two chunks hold structurally identical instruction
// sequences, in the same order.
func (c Chunk) Equal(other Chunk) bool {
	if len(c.instructions) != len(other.instructions) {
		return false
	}
	for i := range c.instructions {
		if c.instructions[i] != other.instructions[i] {
			return false
		}
	}
	return true
}

// Key returns a content-addressed, deterministic string key for the chunk,
// suitable for deduplicating structurally identical blocks (CIR's
// graph_get_or_insert) without relying on Chunk being directly usable as a
// map key (it holds a slice, so it isn't comparable that way).
func (c Chunk) Key() string {
	var b strings.Builder
	for _, instr := range c.instructions {
		fmt.Fprintf(&b, "%#v\x00", instr)
	}
	return b.String()
}

// String renders the chunk as assembly-like text, one instruction per line.
// This format is advisory: it is stable for a given input, but it is not a
// wire format and is not guaranteed to roundtrip.
func (c Chunk) String() string {
	var b strings.Builder
	for _, instr := range c.instructions {
		b.WriteString(instr.String())
		b.WriteByte('\n')
	}
	return b.String()
}
