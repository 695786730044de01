package il

import "testing"

func TestValueEquality(t *testing.T) {
	a := StackIndex{Index: 3}
	b := StackIndex{Index: 3}
	if Value(a) != Value(b) {
		t.Fatalf("expected equal StackIndex values")
	}

	var v1 Value = ConstantIndex{Index: 1}
	var v2 Value = Immediate{Value: 1}
	if v1 == v2 {
		t.Fatalf("different Value variants must not compare equal even with the same numeric payload")
	}
}

func TestChunkEqualityAndDedup(t *testing.T) {
	seq := []Instruction{
		Load{Dest: 0, Src: StackIndex{Index: 1}},
		Return{ResultStart: 0, ResultCount: 1},
	}

	a := New(seq)
	b := New(seq)

	if !a.Equal(b) {
		t.Fatalf("expected structurally identical chunks to be Equal")
	}
	if a.Key() != b.Key() {
		t.Fatalf("expected structurally identical chunks to share a dedup Key")
	}

	c := New([]Instruction{Load{Dest: 0, Src: StackIndex{Index: 2}}})
	if a.Equal(c) {
		t.Fatalf("expected different chunks to compare unequal")
	}
}

func TestDebugFormattingIsStablePerInput(t *testing.T) {
	chunk := New([]Instruction{
		BinaryOp{Op: Add, Dest: 0, Left: ConstantIndex{Index: 0}, Right: ConstantIndex{Index: 1}},
		ConditionalJump{
			Branch:    JumpBranch{Start: 1, End: 3, Offset: 2},
			Condition: Condition{Kind: Lt, Left: StackIndex{Index: 0}, Right: Immediate{Value: 10}},
		},
	})

	first := chunk.String()
	second := chunk.String()
	if first != second {
		t.Fatalf("Debug-style formatting must be stable across calls for the same input")
	}
	if first == "" {
		t.Fatalf("expected non-empty rendering")
	}
}
