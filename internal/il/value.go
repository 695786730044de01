// Package il models LUNIR's stack-oriented intermediate language: the
// register-file-plus-constant-pool representation that sits between Lua
// bytecode and the AST.
package il

import "fmt"

// Value is an IL instruction operand. The concrete variants are plain,
// comparable structs so that Value (and anything built from it) is hashable
// and totally equal by structure, per the IL's equality contract.
type Value interface {
	isValue()
	fmt.Stringer
}

// Nil is the nil operand.
type Nil struct{}

func (Nil) isValue()        {}
func (Nil) String() string  { return "nil" }

// Boolean is a literal true/false operand.
type Boolean struct {
	Value bool
}

func (Boolean) isValue() {}
func (b Boolean) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// ConstantIndex refers to a slot in the enclosing function's constant pool.
type ConstantIndex struct {
	Index int
}

func (ConstantIndex) isValue() {}
func (c ConstantIndex) String() string { return fmt.Sprintf("%d", c.Index) }

// Immediate is a literal 32-bit signed integer embedded directly in an
// instruction (as opposed to being pulled from the constant pool).
type Immediate struct {
	Value int32
}

func (Immediate) isValue() {}
func (i Immediate) String() string { return fmt.Sprintf("%d", i.Value) }

// StackIndex refers to a register in the expression stack / VM register
// file.
type StackIndex struct {
	Index int
}

func (StackIndex) isValue()  {}
func (s StackIndex) String() string { return fmt.Sprintf("%d", s.Index) }
