package ast

// Visitor is the single AST tree-walk abstraction every core pass uses:
// polymorphic over the full capability set, with leaf methods
// (VisitBool/VisitString/.../VisitGlobalSymbol) that BaseVisitor implements
// as no-ops, and composite methods
// (VisitExpr/VisitStat/VisitBinary/...) that have a default implementation
// on BaseVisitor delegating to the matching Walk* free function. Concrete
// visitors embed *BaseVisitor and override only the nodes they care about.
type Visitor interface {
	VisitExpr(node Expression)
	VisitStat(node Statement)
	VisitStatBlock(node *StatBlock)

	VisitBool(node *Boolean)
	VisitString(node *String)
	VisitNumber(node *Number)
	VisitNil(node *Nil)
	VisitIdentifier(node *Identifier)
	VisitGlobalSymbol(node *GlobalSymbol)

	VisitBinary(node *BinaryExpression)
	VisitUnary(node *UnaryExpression)
	VisitCall(node *CallExpression)
	VisitFunction(node *FunctionExpression)
	VisitIndexOp(node *IndexOp)
	VisitTable(node *TableExpression)
	VisitReturn(node *StatReturn)
	VisitAssign(node *StatAssign)
	VisitShadowed(node *ShadowExpression)
}

// BaseVisitor supplies the default, recursing implementation of every
// composite Visitor method. Self must be set to the embedding concrete
// visitor (see NewBaseVisitor) so that recursion re-enters the concrete
// type's overrides instead of getting stuck calling BaseVisitor's own
// defaults — Go's embedding doesn't give virtual dispatch on its own, so
// this "self" field is the standard stand-in for it.
type BaseVisitor struct {
	Self Visitor
}

// NewBaseVisitor returns a BaseVisitor whose defaults recurse back through
// self, the concrete visitor embedding it.
func NewBaseVisitor(self Visitor) *BaseVisitor {
	return &BaseVisitor{Self: self}
}

func (b *BaseVisitor) VisitExpr(node Expression)         { WalkExpression(b.Self, node) }
func (b *BaseVisitor) VisitStat(node Statement)          { WalkStatement(b.Self, node) }
func (b *BaseVisitor) VisitStatBlock(node *StatBlock)    { WalkStatBlock(b.Self, node) }
func (b *BaseVisitor) VisitBinary(node *BinaryExpression) { WalkBinary(b.Self, node) }
func (b *BaseVisitor) VisitUnary(node *UnaryExpression)  { WalkUnary(b.Self, node) }
func (b *BaseVisitor) VisitCall(node *CallExpression)    { WalkCall(b.Self, node) }
func (b *BaseVisitor) VisitFunction(node *FunctionExpression) { WalkFunction(b.Self, node) }
func (b *BaseVisitor) VisitIndexOp(node *IndexOp)        { WalkIndexOp(b.Self, node) }
func (b *BaseVisitor) VisitTable(node *TableExpression)  { WalkTable(b.Self, node) }
func (b *BaseVisitor) VisitReturn(node *StatReturn)      { WalkReturn(b.Self, node) }
func (b *BaseVisitor) VisitAssign(node *StatAssign)      { WalkAssign(b.Self, node) }

// VisitShadowed short-circuits when the slot is shadowed: no children are
// visited, since the value has been consumed and must not be re-printed.
func (b *BaseVisitor) VisitShadowed(node *ShadowExpression) {
	if !node.IsShadowed {
		b.Self.VisitExpr(node.Value)
	}
}

// Leaf methods have no meaningful generic default; BaseVisitor's versions
// are no-ops so that a concrete visitor which genuinely has nothing to do
// for, say, Nil literals doesn't have to stub it out itself.
func (b *BaseVisitor) VisitBool(node *Boolean)                 {}
func (b *BaseVisitor) VisitString(node *String)                {}
func (b *BaseVisitor) VisitNumber(node *Number)                {}
func (b *BaseVisitor) VisitNil(node *Nil)                      {}
func (b *BaseVisitor) VisitIdentifier(node *Identifier)        {}
func (b *BaseVisitor) VisitGlobalSymbol(node *GlobalSymbol)    {}

// WalkExpression dispatches to the capability method matching node's
// concrete type, in the same shape as the reference implementation's
// `walk_expression` match over its Expression enum.
func WalkExpression(v Visitor, node Expression) {
	switch n := node.(type) {
	case *BinaryExpression:
		v.VisitBinary(n)
	case *Boolean:
		v.VisitBool(n)
	case *CallExpression:
		v.VisitCall(n)
	case *FunctionExpression:
		v.VisitFunction(n)
	case *GlobalSymbol:
		v.VisitGlobalSymbol(n)
	case *Identifier:
		v.VisitIdentifier(n)
	case *IndexOp:
		v.VisitIndexOp(n)
	case *Nil:
		v.VisitNil(n)
	case *Number:
		v.VisitNumber(n)
	case *String:
		v.VisitString(n)
	case *TableExpression:
		v.VisitTable(n)
	case *UnaryExpression:
		v.VisitUnary(n)
	case *ShadowExpression:
		v.VisitShadowed(n)
	}
}

// WalkStatement dispatches a statement to its capability method. StatExpr
// has no dedicated capability method of its own — it dispatches straight
// into VisitExpr on its wrapped value, matching the reference
// implementation.
func WalkStatement(v Visitor, node Statement) {
	switch n := node.(type) {
	case *StatBlock:
		v.VisitStatBlock(n)
	case *StatExpr:
		v.VisitExpr(n.Value)
	case *StatReturn:
		v.VisitReturn(n)
	case *StatAssign:
		v.VisitAssign(n)
	}
}

// WalkStatBlock visits each statement in the block in document order.
func WalkStatBlock(v Visitor, node *StatBlock) {
	for _, stat := range node.Body {
		v.VisitStat(stat)
	}
}

// WalkReturn visits each returned expression in positional order.
func WalkReturn(v Visitor, node *StatReturn) {
	for _, e := range node.Results {
		v.VisitExpr(e)
	}
}

// WalkAssign visits the target, then the value.
func WalkAssign(v Visitor, node *StatAssign) {
	v.VisitExpr(node.Target)
	v.VisitExpr(node.Value)
}

// WalkBinary visits the left operand, then the right.
func WalkBinary(v Visitor, node *BinaryExpression) {
	v.VisitExpr(node.Left)
	v.VisitExpr(node.Right)
}

// WalkUnary visits the operand.
func WalkUnary(v Visitor, node *UnaryExpression) {
	v.VisitExpr(node.Value)
}

// WalkIndexOp visits the table, then the key.
func WalkIndexOp(v Visitor, node *IndexOp) {
	v.VisitExpr(node.Table)
	v.VisitExpr(node.Key)
}

// WalkTable visits an Array form element-wise, or a HashMap form
// key-then-value in insertion order.
func WalkTable(v Visitor, node *TableExpression) {
	if node.Array != nil {
		for _, e := range node.Array {
			v.VisitExpr(e)
		}
		return
	}
	for _, entry := range node.HashMap {
		v.VisitExpr(entry.Key)
		v.VisitExpr(entry.Value)
	}
}

// WalkCall visits the callee, then each argument in positional order.
func WalkCall(v Visitor, node *CallExpression) {
	v.VisitExpr(node.Function)
	for _, arg := range node.Arguments {
		v.VisitExpr(arg)
	}
}

// WalkFunction visits the optional self_arg, then the parameter list, then
// the function body (when present).
func WalkFunction(v Visitor, node *FunctionExpression) {
	if node.SelfArg != nil {
		v.VisitExpr(node.SelfArg)
	}
	for _, p := range node.Parameters {
		v.VisitExpr(p)
	}
	if node.Body != nil {
		v.VisitStatBlock(node.Body)
	}
}
