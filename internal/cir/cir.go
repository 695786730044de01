// Package cir reconstructs a labelled control-flow graph from a linear IL
// instruction sequence: partition into basic blocks, then link them with
// edges derived from each block's terminator, splitting a block in two
// whenever a jump targets its interior instead of its start.
package cir

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"lunir/internal/errors"
	"lunir/internal/il"
)

// Node is a CIR vertex: a basic block (an il.Chunk) plus the integer ID
// gonum's graph package requires.
type Node struct {
	id    int64
	Block il.Chunk
}

func (n *Node) ID() int64 { return n.id }

// Edge is a CIR edge: the boolean label distinguishes the taken/default
// branch (true) from the negated/fall-through branch (false). gonum's own
// simple.Edge carries no payload, so CIR defines its own.
type Edge struct {
	F, T  graph.Node
	Taken bool
}

func (e Edge) From() graph.Node         { return e.F }
func (e Edge) To() graph.Node           { return e.T }
func (e Edge) ReversedEdge() graph.Edge { return Edge{F: e.T, T: e.F, Taken: e.Taken} }

// Graph wraps the gonum directed graph built by Build.
type Graph struct {
	g *simple.DirectedGraph
}

// Underlying exposes the gonum graph for traversal (topological sort,
// shortest path, dot rendering, ...).
func (cg *Graph) Underlying() *simple.DirectedGraph { return cg.g }

// Blocks returns every vertex's block, in no particular order.
func (cg *Graph) Blocks() []il.Chunk {
	var out []il.Chunk
	nodes := cg.g.Nodes()
	for nodes.Next() {
		out = append(out, nodes.Node().(*Node).Block)
	}
	return out
}

// span is a currently-live basic block: the half-open PC range [start, end)
// it covers and the vertex currently holding it. origStart identifies the
// stage-1 block it descends from, so that repeated splits of the same
// original block can find whichever remaining piece still holds its
// terminator.
type span struct {
	start, end int
	origStart  int
	node       *Node
}

type builder struct {
	instrs      []il.Instruction
	g           *simple.DirectedGraph
	nextID      int64
	byKey       map[string]*Node // content-addressed dedup (graph_get_or_insert)
	byStart     map[int]*span    // current span starting at a given PC
	spansByOrig map[int]*span    // origStart -> span currently holding that block's terminator
	allSpans    []*span          // all live spans, kept sorted by start
}

func newBuilder(instrs []il.Instruction) *builder {
	return &builder{
		instrs:      instrs,
		g:           simple.NewDirectedGraph(),
		byKey:       make(map[string]*Node),
		byStart:     make(map[int]*span),
		spansByOrig: make(map[int]*span),
	}
}

// getOrInsert is graph_get_or_insert: two structurally identical blocks
// share a single vertex.
func (b *builder) getOrInsert(chunk il.Chunk) *Node {
	key := chunk.Key()
	if n, ok := b.byKey[key]; ok {
		return n
	}
	n := &Node{id: b.nextID, Block: chunk}
	b.nextID++
	b.byKey[key] = n
	b.g.AddNode(n)
	return n
}

func (b *builder) addSpan(sp *span) {
	b.byStart[sp.start] = sp
	b.allSpans = append(b.allSpans, sp)
	sort.Slice(b.allSpans, func(i, j int) bool { return b.allSpans[i].start < b.allSpans[j].start })
}

func (b *builder) removeSpan(sp *span) {
	delete(b.byStart, sp.start)
	for i, s := range b.allSpans {
		if s == sp {
			b.allSpans = append(b.allSpans[:i], b.allSpans[i+1:]...)
			break
		}
	}
}

// rawBlock is a stage-1 partition result: [start, end) into the chunk's
// instruction sequence.
type rawBlock struct {
	start, end int
}

func isTerminator(instr il.Instruction) bool {
	switch instr.(type) {
	case il.Jump, il.JumpNot, il.ConditionalJump:
		return true
	default:
		return false
	}
}

func partition(instrs []il.Instruction) []rawBlock {
	var blocks []rawBlock
	start := 0
	for idx, instr := range instrs {
		if isTerminator(instr) {
			blocks = append(blocks, rawBlock{start: start, end: idx + 1})
			start = idx + 1
		}
	}
	if start < len(instrs) {
		blocks = append(blocks, rawBlock{start: start, end: len(instrs)})
	}
	return blocks
}

// Build reconstructs the control-flow graph for a single function's linear
// instruction sequence.
func Build(chunk il.Chunk) (*Graph, error) {
	instrs := chunk.Inner()
	raw := partition(instrs)

	b := newBuilder(instrs)
	for _, rb := range raw {
		node := b.getOrInsert(il.FromSlice(instrs[rb.start:rb.end]))
		sp := &span{start: rb.start, end: rb.end, origStart: rb.start, node: node}
		b.addSpan(sp)
		b.spansByOrig[rb.start] = sp
	}

	for _, rb := range raw {
		terminator := instrs[rb.end-1]
		from := b.spansByOrig[rb.start].node

		switch t := terminator.(type) {
		case il.Jump:
			if err := b.handleEdge(from, t.Branch.End, true); err != nil {
				return nil, err
			}
		case il.ConditionalJump:
			if err := b.handleEdge(from, t.Branch.End, true); err != nil {
				return nil, err
			}
			if err := b.handleEdge(from, t.Branch.Start+1, false); err != nil {
				return nil, err
			}
		case il.JumpNot:
			if err := b.handleEdge(from, t.Branch.End, false); err != nil {
				return nil, err
			}
			if err := b.handleEdge(from, t.Branch.Start+1, true); err != nil {
				return nil, err
			}
		default:
			// Other terminators (including Return) add no edge.
		}
	}

	return &Graph{g: b.g}, nil
}

// handleEdge adds a labelled edge from -> block-starting-at(targetPC),
// splitting a containing block first if targetPC falls in its interior.
func (b *builder) handleEdge(from *Node, targetPC int, taken bool) error {
	if sp, ok := b.byStart[targetPC]; ok {
		b.g.SetEdge(Edge{F: from, T: sp.node, Taken: taken})
		return nil
	}

	for _, sp := range b.allSpans {
		if sp.start < targetPC && targetPC < sp.end {
			trailing := b.split(sp, targetPC)
			b.g.SetEdge(Edge{F: from, T: trailing.node, Taken: taken})
			return nil
		}
	}

	return errors.Newf(errors.InvalidJumpTarget, "no block contains target pc %d", targetPC)
}

// split divides sp at targetPC into leading=[sp.start,targetPC) and
// trailing=[targetPC,sp.end), rewires any edge already touching sp.node to
// the appropriate half, and removes the pre-split vertex. It returns the
// trailing span, since that is always where a jump into the split point
// should land (the leading edge into it is only added here).
func (b *builder) split(sp *span, targetPC int) *span {
	leadingChunk := il.FromSlice(b.instrs[sp.start:targetPC])
	trailingChunk := il.FromSlice(b.instrs[targetPC:sp.end])
	leadingNode := b.getOrInsert(leadingChunk)
	trailingNode := b.getOrInsert(trailingChunk)

	b.g.SetEdge(Edge{F: leadingNode, T: trailingNode, Taken: true})
	b.rewireIncident(sp.node, leadingNode, trailingNode)
	b.g.RemoveNode(sp.node.ID())

	b.removeSpan(sp)
	leading := &span{start: sp.start, end: targetPC, origStart: sp.origStart, node: leadingNode}
	trailing := &span{start: targetPC, end: sp.end, origStart: sp.origStart, node: trailingNode}
	b.addSpan(leading)
	b.addSpan(trailing)
	b.spansByOrig[sp.origStart] = trailing

	return trailing
}

// rewireIncident retargets every edge touching old (before it is removed):
// incoming edges now point at leading, outgoing edges (old's own
// terminator edges, if already inserted) now originate from trailing —
// since the split point is always strictly before the terminator — and a
// self-loop becomes trailing -> leading.
func (b *builder) rewireIncident(old, leading, trailing *Node) {
	type touch struct {
		from, to graph.Node
		taken    bool
	}
	var touches []touch
	seen := make(map[[2]int64]bool)

	to := b.g.To(old.ID())
	for to.Next() {
		p := to.Node()
		e := b.g.Edge(p.ID(), old.ID()).(Edge)
		key := [2]int64{p.ID(), old.ID()}
		if !seen[key] {
			seen[key] = true
			touches = append(touches, touch{from: p, to: old, taken: e.Taken})
		}
	}
	from := b.g.From(old.ID())
	for from.Next() {
		s := from.Node()
		e := b.g.Edge(old.ID(), s.ID()).(Edge)
		key := [2]int64{old.ID(), s.ID()}
		if !seen[key] {
			seen[key] = true
			touches = append(touches, touch{from: old, to: s, taken: e.Taken})
		}
	}

	for _, t := range touches {
		b.g.RemoveEdge(t.from.ID(), t.to.ID())
		switch {
		case t.from.ID() == old.ID() && t.to.ID() == old.ID():
			b.g.SetEdge(Edge{F: trailing, T: leading, Taken: t.taken})
		case t.to.ID() == old.ID():
			b.g.SetEdge(Edge{F: t.from, T: leading, Taken: t.taken})
		case t.from.ID() == old.ID():
			b.g.SetEdge(Edge{F: trailing, T: t.to, Taken: t.taken})
		}
	}
}
