// Package reconstructor implements LUNIR's C4 component: an AST visitor
// that materialises Lua source text from an Expression/Statement tree,
// subject to a small set of formatting options.
package reconstructor

import (
	"fmt"
	"strings"

	"lunir/internal/ast"
)

// Settings is the closed, stably-defaulted configuration for a
// Reconstructor. The zero value is not a valid Settings — start from
// DefaultSettings or NoHeaderSettings and override individual fields.
type Settings struct {
	// UseSemicolons appends ';' at the end of every statement. Redundant
	// when UseNewline is false, since a ';' separator is emitted either way.
	UseSemicolons bool

	// UseNewline appends '\n' after each statement. When false, all
	// output lands on a single line and ';' is always used as the
	// statement separator regardless of UseSemicolons.
	UseNewline bool

	// UseTabs indents with one tab per level instead of spaces.
	UseTabs bool

	// SpaceCount is spaces per indent level; ignored when UseTabs is true.
	SpaceCount int

	// CustomHeader, when HasCustomHeader is set, is prepended as a single
	// `-- ...` comment line above the reconstructed source.
	CustomHeader string
	// HasCustomHeader distinguishes "no header" from an explicitly empty
	// header string.
	HasCustomHeader bool
}

// DefaultSettings returns LUNIR's stable defaults: semicolons and newlines
// on, 4-space indentation, and the standard attribution header.
func DefaultSettings() Settings {
	return Settings{
		UseSemicolons:   true,
		UseNewline:      true,
		UseTabs:         false,
		SpaceCount:      4,
		CustomHeader:    "Decompiled with LUNIR (https://github.com/lunir-project/lunir)",
		HasCustomHeader: true,
	}
}

// NoHeaderSettings returns DefaultSettings with the attribution header
// suppressed — useful for golden-output comparisons in tests.
func NoHeaderSettings() Settings {
	s := DefaultSettings()
	s.HasCustomHeader = false
	s.CustomHeader = ""
	return s
}

// Reconstructor walks an AST and writes Lua source text into an internal
// buffer. It embeds *ast.BaseVisitor and overrides every leaf method, the
// printing composites (VisitUnary, VisitBinary, VisitCall, VisitIndexOp,
// VisitReturn, VisitAssign) and VisitStat. VisitExpr, VisitStatBlock,
// VisitShadowed, VisitTable and VisitFunction keep BaseVisitor's default
// Walk* delegation, so table and function expressions emit only their
// walked children, with no surrounding table or function syntax.
type Reconstructor struct {
	*ast.BaseVisitor

	source   strings.Builder
	settings Settings
}

// New returns a Reconstructor configured with DefaultSettings.
func New() *Reconstructor {
	return NewWithSettings(DefaultSettings())
}

// NewWithSettings returns a Reconstructor configured with the given
// Settings.
func NewWithSettings(settings Settings) *Reconstructor {
	r := &Reconstructor{settings: settings}
	r.BaseVisitor = ast.NewBaseVisitor(r)
	return r
}

// Reconstruct runs the reconstructor over a single statement tree and
// returns the final source text, including the header if configured. It is
// a pure function of (node, settings): repeated calls with an equal tree
// and settings produce byte-identical output.
func Reconstruct(node ast.Statement, settings Settings) string {
	r := NewWithSettings(settings)
	r.VisitStat(node)
	return r.Source()
}

// Source returns the accumulated text, prefixed with the configured header
// comment if any.
func (r *Reconstructor) Source() string {
	if r.settings.HasCustomHeader {
		return fmt.Sprintf("-- %s\n%s", r.settings.CustomHeader, r.source.String())
	}
	return r.source.String()
}

func (r *Reconstructor) VisitBool(node *ast.Boolean) {
	if node.Value {
		r.source.WriteString("true")
	} else {
		r.source.WriteString("false")
	}
}

func (r *Reconstructor) VisitString(node *ast.String) {
	r.source.WriteByte('"')
	r.source.WriteString(ast.SanitizeSpecial(node.Value))
	r.source.WriteByte('"')
}

func (r *Reconstructor) VisitNumber(node *ast.Number) {
	r.source.WriteString(formatNumber(node.Value))
}

func (r *Reconstructor) VisitNil(*ast.Nil) {
	r.source.WriteString("nil")
}

func (r *Reconstructor) VisitIdentifier(node *ast.Identifier) {
	r.source.WriteString(node.Name)
}

func (r *Reconstructor) VisitGlobalSymbol(node *ast.GlobalSymbol) {
	r.source.WriteString(node.Name)
}

func (r *Reconstructor) VisitUnary(node *ast.UnaryExpression) {
	r.source.WriteString(node.Kind.String())
	r.VisitExpr(node.Value)
}

func (r *Reconstructor) VisitBinary(node *ast.BinaryExpression) {
	r.VisitExpr(node.Left)
	fmt.Fprintf(&r.source, " %s ", node.Kind)
	r.VisitExpr(node.Right)
}

func (r *Reconstructor) VisitCall(node *ast.CallExpression) {
	r.VisitExpr(node.Function)
	r.source.WriteByte('(')
	for i, arg := range node.Arguments {
		if i > 0 {
			r.source.WriteString(", ")
		}
		r.VisitExpr(arg)
	}
	r.source.WriteByte(')')
}

func (r *Reconstructor) VisitIndexOp(node *ast.IndexOp) {
	r.VisitExpr(node.Table)

	if s, ok := node.Key.(*ast.String); ok {
		if ast.CanIdentify(s.Value) {
			r.source.WriteByte('.')
			r.source.WriteString(s.Value)
			return
		}
		r.source.WriteString(`["`)
		r.source.WriteString(ast.SanitizeSpecial(s.Value))
		r.source.WriteString(`"]`)
		return
	}

	r.source.WriteByte('[')
	r.VisitExpr(node.Key)
	r.source.WriteByte(']')
}

func (r *Reconstructor) VisitReturn(node *ast.StatReturn) {
	r.source.WriteString("return ")
	last := len(node.Results) - 1
	for i, v := range node.Results {
		r.VisitExpr(v)
		if i < last {
			r.source.WriteString(", ")
		}
	}
}

func (r *Reconstructor) VisitAssign(node *ast.StatAssign) {
	r.VisitExpr(node.Target)
	r.source.WriteString(" = ")
	r.VisitExpr(node.Value)
}

// VisitStat dispatches the statement body, then appends the configured
// statement suffix. This mirrors the reference implementation's own
// visit_stat override, which is the one composite method it overrides
// rather than accepting the tree-walk default.
func (r *Reconstructor) VisitStat(node ast.Statement) {
	ast.WalkStatement(r, node)

	if r.settings.UseNewline {
		if r.settings.UseSemicolons {
			r.source.WriteByte(';')
		}
		r.source.WriteByte('\n')
	} else {
		r.source.WriteByte(';')
	}
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
