// Package lifter implements LUNIR's C5 component: a symbolic interpreter
// that translates a linear IL instruction sequence for a single function
// body into a StatBlock, by stepping an expression Stack the way the
// reference VM would step its register file.
package lifter

import (
	"lunir/internal/ast"
	"lunir/internal/errors"
	"lunir/internal/il"
)

// Lifter holds the state of a single in-progress lift: the function whose
// constant pool and stack size govern the lift, the instruction sequence
// being processed, and the expression stack being stepped.
type Lifter struct {
	function     *il.Function
	instructions []il.Instruction
	stack        *Stack
}

// New returns a Lifter with a freshly seeded stack sized to function's
// MaxStackSize.
func New(function *il.Function, instructions []il.Instruction) *Lifter {
	return &Lifter{
		function:     function,
		instructions: instructions,
		stack:        NewStack(int(function.MaxStackSize)),
	}
}

// NewWithStack returns a Lifter that steps the given pre-populated stack
// instead of seeding a fresh one — used by callers (and tests) that need to
// lift a function body starting from known register contents, e.g. a
// continuation whose locals were established by an earlier block.
func NewWithStack(function *il.Function, instructions []il.Instruction, stack *Stack) *Lifter {
	return &Lifter{function: function, instructions: instructions, stack: stack}
}

// Lift translates the instruction sequence into a StatBlock. On any
// failure it returns the taxonomy-typed error and a nil StatBlock: no
// partial block is ever returned.
func Lift(function *il.Function, instructions []il.Instruction) (*ast.StatBlock, error) {
	return New(function, instructions).Lift()
}

// Lift runs the symbolic interpretation loop described in the core's
// per-instruction semantics, processing instructions strictly in PC order.
func (l *Lifter) Lift() (*ast.StatBlock, error) {
	result := &ast.StatBlock{}

	for pc, instr := range l.instructions {
		if err := l.step(result, instr); err != nil {
			return nil, errors.WithPC(err, pc)
		}
	}

	return result, nil
}

func (l *Lifter) step(result *ast.StatBlock, instr il.Instruction) error {
	switch inst := instr.(type) {
	case il.Load:
		return l.liftLoad(inst)
	case il.GetGlobal:
		return l.liftGetGlobal(inst)
	case il.SetGlobal:
		return l.liftSetGlobal(result, inst)
	case il.GetTable:
		return l.liftGetTable(inst)
	case il.BinaryOp:
		return l.liftBinaryOp(inst)
	case il.UnaryOp:
		return l.liftUnaryOp(inst)
	case il.Intrinsic:
		return l.liftIntrinsic(inst)
	case il.NewTable:
		return l.liftNewTable(inst)
	case il.Call:
		return l.liftCall(result, inst)
	case il.Return:
		return l.liftReturn(result, inst)
	case il.Jump, il.JumpNot, il.ConditionalJump:
		// Control-transfer terminators are CIR's responsibility (§4.5), not
		// the lifter's: they carry no stack-mutation semantics here and are
		// skipped, so a sequence that still contains them (the decompile
		// pipeline passes the whole function body) lifts as if they were
		// absent.
		return nil
	default:
		return errors.Newf(errors.UnsupportedInstruction, "instruction %#v not supported", instr)
	}
}

func (l *Lifter) liftLoad(inst il.Load) error {
	if err := l.stack.VerifyIndex(inst.Dest); err != nil {
		return err
	}
	v, err := l.valueToAST(inst.Src)
	if err != nil {
		return err
	}
	return l.stack.Set(inst.Dest, v)
}

func (l *Lifter) liftGetGlobal(inst il.GetGlobal) error {
	if err := l.stack.VerifyIndex(inst.Dest); err != nil {
		return err
	}
	v, err := l.constantIndexToAST(inst.Constant)
	if err != nil {
		return err
	}
	return l.stack.Set(inst.Dest, v)
}

func (l *Lifter) liftSetGlobal(result *ast.StatBlock, inst il.SetGlobal) error {
	name, err := l.constantName(inst.Constant)
	if err != nil {
		return err
	}
	v, err := l.stack.Get(inst.Src)
	if err != nil {
		return err
	}
	result.Body = append(result.Body, &ast.StatAssign{
		Target: &ast.GlobalSymbol{Name: name},
		Value:  v,
	})
	return nil
}

func (l *Lifter) liftGetTable(inst il.GetTable) error {
	if err := l.stack.VerifyIndex(inst.Dest); err != nil {
		return err
	}
	table, err := l.stack.Get(inst.Source)
	if err != nil {
		return err
	}
	key, err := l.valueToAST(inst.Key)
	if err != nil {
		return err
	}
	return l.stack.Set(inst.Dest, &ast.IndexOp{Table: table, Key: key})
}

func (l *Lifter) liftBinaryOp(inst il.BinaryOp) error {
	if err := l.stack.VerifyIndex(inst.Dest); err != nil {
		return err
	}
	left, err := l.valueToAST(inst.Left)
	if err != nil {
		return err
	}
	right, err := l.valueToAST(inst.Right)
	if err != nil {
		return err
	}
	return l.stack.Set(inst.Dest, &ast.BinaryExpression{
		Kind:  mapBinaryOpKind(inst.Op),
		Left:  left,
		Right: right,
	})
}

func (l *Lifter) liftUnaryOp(inst il.UnaryOp) error {
	if err := l.stack.VerifyIndex(inst.Dest); err != nil {
		return err
	}
	operand, err := l.valueToAST(inst.Operand)
	if err != nil {
		return err
	}
	return l.stack.Set(inst.Dest, &ast.UnaryExpression{
		Kind:  mapUnaryOpKind(inst.Op),
		Value: operand,
	})
}

func (l *Lifter) liftIntrinsic(inst il.Intrinsic) error {
	if err := l.stack.VerifyIndex(inst.Dest); err != nil {
		return err
	}
	call, err := l.intrinsicToAST(inst.Kind)
	if err != nil {
		return err
	}
	return l.stack.Set(inst.Dest, call)
}

func (l *Lifter) liftNewTable(inst il.NewTable) error {
	if err := l.stack.VerifyIndex(inst.Dest); err != nil {
		return err
	}
	var table ast.Expression
	if inst.ArraySize > 0 && inst.TableSize == 0 {
		table = &ast.TableExpression{Array: []ast.Expression{}}
	} else {
		table = &ast.TableExpression{HashMap: []ast.TableEntry{}}
	}
	return l.stack.Set(inst.Dest, table)
}

func (l *Lifter) liftCall(result *ast.StatBlock, inst il.Call) error {
	n, err := l.callArgCount(inst)
	if err != nil {
		return err
	}

	selfOffset := 0
	if inst.SelfCall {
		selfOffset = 1
	}

	start := inst.Callee + 1 + selfOffset
	end := inst.Callee + n
	if end < start {
		end = start
	}

	args := make([]ast.Expression, 0, end-start)
	for i := start; i < end; i++ {
		v, err := l.stack.Get(i)
		if err != nil {
			return err
		}
		args = append(args, v)
	}

	callee, err := l.stack.Get(inst.Callee)
	if err != nil {
		return err
	}

	callExpr := &ast.CallExpression{
		Function:  callee,
		Arguments: args,
		IsSelf:    inst.SelfCall,
	}

	maxIndex := l.stack.Len() - 1
	for i := inst.Callee + selfOffset; i <= maxIndex; i++ {
		if err := l.stack.Shadow(i); err != nil {
			return err
		}
	}

	if _, variable := inst.NumReturns.(il.OptVariableTop); variable {
		result.Body = append(result.Body, ast.ToStatement(callExpr))
		return nil
	}
	return l.stack.Set(inst.Callee, callExpr)
}

func (l *Lifter) callArgCount(inst il.Call) (int, error) {
	switch na := inst.NumArgs.(type) {
	case il.OptVariableNumber:
		return na.N, nil
	case il.OptVariableTop:
		return int(l.function.MaxStackSize) - inst.Callee, nil
	default:
		return 0, errors.Newf(errors.Unimplemented, "unrecognized call argument arity %#v", inst.NumArgs)
	}
}

func (l *Lifter) liftReturn(result *ast.StatBlock, inst il.Return) error {
	if inst.ResultCount > 0 {
		if err := l.stack.VerifyIndex(inst.ResultStart + inst.ResultCount - 1); err != nil {
			return err
		}
	}

	results := make([]ast.Expression, 0, inst.ResultCount)
	for i := inst.ResultStart; i < inst.ResultStart+inst.ResultCount; i++ {
		v, err := l.stack.Get(i)
		if err != nil {
			return err
		}
		results = append(results, v)
	}
	result.Body = append(result.Body, &ast.StatReturn{Results: results})

	maxIndex := l.stack.Len() - 1
	for i := inst.ResultStart + 1; i <= maxIndex; i++ {
		if err := l.stack.Shadow(i); err != nil {
			return err
		}
	}
	return nil
}

// valueToAST is the common shim lowering an IL operand to an Expression:
// Booleans/Immediates/Nil map to leaf literals, ConstantIndex delegates to
// the constant pool, and StackIndex clones whatever the stack currently
// holds at that slot.
func (l *Lifter) valueToAST(v il.Value) (ast.Expression, error) {
	switch val := v.(type) {
	case il.Nil:
		return &ast.Nil{}, nil
	case il.Boolean:
		return &ast.Boolean{Value: val.Value}, nil
	case il.Immediate:
		return &ast.Number{Value: float64(val.Value)}, nil
	case il.ConstantIndex:
		return l.constantIndexToAST(val.Index)
	case il.StackIndex:
		return l.stack.Get(val.Index)
	default:
		return nil, errors.Newf(errors.Unimplemented, "unrecognized IL value %#v", v)
	}
}

func (l *Lifter) constantIndexToAST(idx int) (ast.Expression, error) {
	if idx < 0 || idx >= len(l.function.Constants) {
		return nil, errors.Newf(errors.ConstantOutOfRange, "constant index %d out of range (pool size %d)", idx, len(l.function.Constants))
	}
	return l.constantToAST(l.function.Constants[idx])
}

func (l *Lifter) constantName(idx int) (string, error) {
	if idx < 0 || idx >= len(l.function.Constants) {
		return "", errors.Newf(errors.ConstantOutOfRange, "constant index %d out of range (pool size %d)", idx, len(l.function.Constants))
	}
	cs, ok := l.function.Constants[idx].(il.ConstantString)
	if !ok {
		return "", errors.Newf(errors.Unimplemented, "constant index %d is not a string constant", idx)
	}
	return cs.Value, nil
}

// constantToAST recursively lowers a Constant; a Constant::Table lowering
// that fails on any element aborts the whole table with
// UnimplementedTableElement rather than propagating the element's own
// error kind, per the core's documented constant_to_ast contract.
func (l *Lifter) constantToAST(c il.Constant) (ast.Expression, error) {
	switch cv := c.(type) {
	case il.ConstantNil:
		return &ast.Nil{}, nil
	case il.ConstantBoolean:
		return &ast.Boolean{Value: cv.Value}, nil
	case il.ConstantNumber:
		return &ast.Number{Value: cv.Value}, nil
	case il.ConstantString:
		return &ast.String{Value: cv.Value}, nil
	case il.ConstantFunction:
		return nil, errors.New(errors.Unimplemented, "nested function constants are not yet lowered")
	case il.ConstantTable:
		return l.tableToAST(cv.Value)
	default:
		return nil, errors.Newf(errors.Unimplemented, "unrecognized constant %#v", c)
	}
}

func (l *Lifter) tableToAST(t il.Table) (ast.Expression, error) {
	if t.IsArray() {
		elems := make([]ast.Expression, len(t.Array))
		for i, v := range t.Array {
			e, err := l.valueToAST(v)
			if err != nil {
				return nil, errors.Newf(errors.UnimplementedTableElement, "array element %d: %s", i, err)
			}
			elems[i] = e
		}
		return &ast.TableExpression{Array: elems}, nil
	}

	entries := make([]ast.TableEntry, len(t.Entries))
	for i, te := range t.Entries {
		k, err := l.valueToAST(te.Key)
		if err != nil {
			return nil, errors.Newf(errors.UnimplementedTableElement, "map entry %d key: %s", i, err)
		}
		v, err := l.valueToAST(te.Value)
		if err != nil {
			return nil, errors.Newf(errors.UnimplementedTableElement, "map entry %d value: %s", i, err)
		}
		entries[i] = ast.TableEntry{Key: k, Value: v}
	}
	return &ast.TableExpression{HashMap: entries}, nil
}

func mapBinaryOpKind(k il.BinaryOpKind) ast.BinaryExpressionKind {
	switch k {
	case il.Add:
		return ast.Add
	case il.Sub:
		return ast.Sub
	case il.Mul:
		return ast.Mul
	case il.Div:
		return ast.Div
	case il.Mod:
		return ast.Mod
	case il.Pow:
		return ast.Pow
	case il.Concat:
		return ast.Concat
	default:
		return ast.Add
	}
}

func mapUnaryOpKind(k il.UnaryOpKind) ast.UnaryExpressionKind {
	switch k {
	case il.Len:
		return ast.Len
	case il.Not:
		return ast.Not
	case il.Neg:
		return ast.Neg
	default:
		return ast.Neg
	}
}

// intrinsicToAST lowers a bitwise Intrinsic to a call over the
// corresponding bit32 built-in, the convention the core spec names as its
// example (bit32.band for BitAnd).
func (l *Lifter) intrinsicToAST(kind il.IntrinsicKind) (*ast.CallExpression, error) {
	switch k := kind.(type) {
	case il.BitAnd:
		return l.intrinsicCall("bit32.band", k.Left, k.Right)
	case il.BitOr:
		return l.intrinsicCall("bit32.bor", k.Left, k.Right)
	case il.BitXor:
		return l.intrinsicCall("bit32.bxor", k.Left, k.Right)
	case il.BitNot:
		return l.intrinsicCall("bit32.bnot", k.Operand)
	case il.LeftShift:
		return l.intrinsicCall("bit32.lshift", k.Left, k.Right)
	case il.RightShift:
		return l.intrinsicCall("bit32.rshift", k.Left, k.Right)
	default:
		return nil, errors.Newf(errors.Unimplemented, "unrecognized intrinsic kind %#v", kind)
	}
}

func (l *Lifter) intrinsicCall(symbol string, operands ...il.Value) (*ast.CallExpression, error) {
	args := make([]ast.Expression, len(operands))
	for i, v := range operands {
		e, err := l.valueToAST(v)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	return &ast.CallExpression{
		Function:  &ast.GlobalSymbol{Name: symbol},
		Arguments: args,
	}, nil
}
