package lifter

import (
	"testing"

	"lunir/internal/ast"
	"lunir/internal/errors"
	"lunir/internal/il"
)

func TestLiftReturnWithPrepopulatedStack(t *testing.T) {
	// S6: lifting Return(result_start=0, result_count=2) with
	// stack[0]=Identifier("a"), stack[1]=Identifier("b") yields a
	// StatBlock whose sole statement is StatReturn{results=[a, b]}.
	stack := NewStack(2)
	if err := stack.Set(0, &ast.Identifier{Name: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := stack.Set(1, &ast.Identifier{Name: "b"}); err != nil {
		t.Fatal(err)
	}

	function := &il.Function{MaxStackSize: 2}
	instructions := []il.Instruction{il.Return{ResultStart: 0, ResultCount: 2}}

	block, err := NewWithStack(function, instructions, stack).Lift()
	if err != nil {
		t.Fatalf("Lift returned error: %v", err)
	}
	if len(block.Body) != 1 {
		t.Fatalf("expected exactly one statement, got %d", len(block.Body))
	}
	ret, ok := block.Body[0].(*ast.StatReturn)
	if !ok {
		t.Fatalf("expected *ast.StatReturn, got %T", block.Body[0])
	}
	if len(ret.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ret.Results))
	}
	if id, ok := ret.Results[0].(*ast.Identifier); !ok || id.Name != "a" {
		t.Fatalf("result[0] = %#v, want Identifier(a)", ret.Results[0])
	}
	if id, ok := ret.Results[1].(*ast.Identifier); !ok || id.Name != "b" {
		t.Fatalf("result[1] = %#v, want Identifier(b)", ret.Results[1])
	}
}

func TestLiftLoadImmediate(t *testing.T) {
	function := &il.Function{MaxStackSize: 1}
	instructions := []il.Instruction{il.Load{Dest: 0, Src: il.Immediate{Value: 42}}}
	block, err := Lift(function, instructions)
	if err != nil {
		t.Fatalf("Lift returned error: %v", err)
	}
	if len(block.Body) != 0 {
		t.Fatalf("Load should not emit a statement, got %d", len(block.Body))
	}
}

func TestLiftGetGlobalAndSetGlobal(t *testing.T) {
	function := &il.Function{
		MaxStackSize: 1,
		Constants:    []il.Constant{il.ConstantString{Value: "x"}},
	}
	instructions := []il.Instruction{
		il.Load{Dest: 0, Src: il.Immediate{Value: 1}},
		il.SetGlobal{Src: 0, Constant: 0},
	}
	block, err := Lift(function, instructions)
	if err != nil {
		t.Fatalf("Lift returned error: %v", err)
	}
	if len(block.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(block.Body))
	}
	assign, ok := block.Body[0].(*ast.StatAssign)
	if !ok {
		t.Fatalf("expected *ast.StatAssign, got %T", block.Body[0])
	}
	g, ok := assign.Target.(*ast.GlobalSymbol)
	if !ok || g.Name != "x" {
		t.Fatalf("assign target = %#v, want GlobalSymbol(x)", assign.Target)
	}
}

func TestLiftBinaryOp(t *testing.T) {
	function := &il.Function{MaxStackSize: 1}
	instructions := []il.Instruction{
		il.BinaryOp{
			Op:    il.Add,
			Dest:  0,
			Left:  il.Immediate{Value: 1},
			Right: il.Immediate{Value: 2},
		},
		il.Return{ResultStart: 0, ResultCount: 1},
	}
	block, err := Lift(function, instructions)
	if err != nil {
		t.Fatalf("Lift returned error: %v", err)
	}
	ret := block.Body[0].(*ast.StatReturn)
	bin, ok := ret.Results[0].(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpression, got %T", ret.Results[0])
	}
	if bin.Kind != ast.Add {
		t.Fatalf("bin.Kind = %v, want Add", bin.Kind)
	}
}

func TestLiftStackUnderflowDoesNotPanic(t *testing.T) {
	function := &il.Function{MaxStackSize: 0}
	instructions := []il.Instruction{il.Load{Dest: 5, Src: il.Nil{}}}
	block, err := Lift(function, instructions)
	if err == nil {
		t.Fatalf("expected an error for an out-of-range stack index, got nil")
	}
	if block != nil {
		t.Fatalf("expected a nil StatBlock on failure, got %#v", block)
	}
	if !errors.Is(err, errors.StackUnderflow) {
		t.Fatalf("expected StackUnderflow, got %v", err)
	}
}

func TestLiftConstantOutOfRangeDoesNotPanic(t *testing.T) {
	function := &il.Function{MaxStackSize: 1, Constants: nil}
	instructions := []il.Instruction{il.GetGlobal{Dest: 0, Constant: 3}}
	_, err := Lift(function, instructions)
	if !errors.Is(err, errors.ConstantOutOfRange) {
		t.Fatalf("expected ConstantOutOfRange, got %v", err)
	}
}

func TestLiftUnsupportedInstructionDoesNotPanic(t *testing.T) {
	function := &il.Function{MaxStackSize: 1}
	instructions := []il.Instruction{unknownInstruction{}}
	_, err := Lift(function, instructions)
	if !errors.Is(err, errors.UnsupportedInstruction) {
		t.Fatalf("expected UnsupportedInstruction, got %v", err)
	}
}

func TestLiftControlTransferInstructionsAreSkipped(t *testing.T) {
	function := &il.Function{MaxStackSize: 1}
	instructions := []il.Instruction{
		il.Jump{Branch: il.JumpBranch{Start: 0, End: 2, Offset: 2}},
		il.Return{ResultStart: 0, ResultCount: 0},
	}
	block, err := Lift(function, instructions)
	if err != nil {
		t.Fatalf("Lift returned error: %v", err)
	}
	if len(block.Body) != 1 {
		t.Fatalf("expected exactly one statement (the Return), got %d", len(block.Body))
	}
}

func TestLiftCallWithFixedArgsStoresResultWhenNotVariadicReturn(t *testing.T) {
	function := &il.Function{MaxStackSize: 3}
	instructions := []il.Instruction{
		il.Load{Dest: 0, Src: il.Immediate{Value: 0}}, // placeholder for callee
		il.Load{Dest: 1, Src: il.Immediate{Value: 10}},
		il.Load{Dest: 2, Src: il.Immediate{Value: 20}},
		il.Call{
			Callee:     0,
			NumArgs:    il.OptVariableNumber{N: 3},
			NumReturns: il.OptVariableNumber{N: 1},
		},
		il.Return{ResultStart: 0, ResultCount: 1},
	}
	block, err := Lift(function, instructions)
	if err != nil {
		t.Fatalf("Lift returned error: %v", err)
	}
	ret := block.Body[len(block.Body)-1].(*ast.StatReturn)
	call, ok := ret.Results[0].(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected *ast.CallExpression, got %T", ret.Results[0])
	}
	if len(call.Arguments) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(call.Arguments))
	}
}

func TestLiftCallWithVariadicReturnEmitsStatement(t *testing.T) {
	function := &il.Function{MaxStackSize: 2}
	instructions := []il.Instruction{
		il.Load{Dest: 0, Src: il.Immediate{Value: 0}},
		il.Call{
			Callee:     0,
			NumArgs:    il.OptVariableNumber{N: 1},
			NumReturns: il.OptVariableTop{},
		},
	}
	block, err := Lift(function, instructions)
	if err != nil {
		t.Fatalf("Lift returned error: %v", err)
	}
	if len(block.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(block.Body))
	}
	if _, ok := block.Body[0].(*ast.StatExpr); !ok {
		t.Fatalf("expected *ast.StatExpr wrapping the call, got %T", block.Body[0])
	}
}

func TestLiftIntrinsicBitAnd(t *testing.T) {
	function := &il.Function{MaxStackSize: 1}
	instructions := []il.Instruction{
		il.Intrinsic{
			Dest: 0,
			Kind: il.BitAnd{Left: il.Immediate{Value: 1}, Right: il.Immediate{Value: 2}},
		},
		il.Return{ResultStart: 0, ResultCount: 1},
	}
	block, err := Lift(function, instructions)
	if err != nil {
		t.Fatalf("Lift returned error: %v", err)
	}
	ret := block.Body[0].(*ast.StatReturn)
	call, ok := ret.Results[0].(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected *ast.CallExpression, got %T", ret.Results[0])
	}
	sym, ok := call.Function.(*ast.GlobalSymbol)
	if !ok || sym.Name != "bit32.band" {
		t.Fatalf("call.Function = %#v, want GlobalSymbol(bit32.band)", call.Function)
	}
}

type unknownInstruction struct{}

func (unknownInstruction) isInstruction() {}
func (unknownInstruction) String() string { return "unknown" }
