package parser

import (
	"fmt"

	"github.com/viant/actflow/model/graph"
)

type blockKind int

const (
	blockDecision blockKind = iota
	blockLoop
)

// frame is one entry of the open-block stack. Blocks left open at end of
// input are popped and closed through exactly the same close* code path as
// their explicit terminator.
type frame struct {
	kind blockKind

	// decision block
	decisionID string
	joinID     string
	hasElse    bool

	// loop block
	entryID string
}

// builder accumulates nodes and transitions while the parser walks the
// document. pendingFrom/pendingCond describe the dangling edge waiting for
// its target: the next entered node receives an inbound edge from pendingFrom
// carrying pendingCond.
type builder struct {
	definition  *graph.Definition
	byID        map[string]*graph.Node
	pendingFrom string
	pendingCond string
	last        string
	stack       []*frame
	decisions   int
	joins       int
	loops       int
	starts      int
}

func newBuilder(id, name string) *builder {
	return &builder{
		definition: &graph.Definition{ID: id, Name: name},
		byID:       map[string]*graph.Node{},
	}
}

// node returns an existing node by id (then by label) or nil.
func (b *builder) node(ref string) *graph.Node {
	if existing, ok := b.byID[ref]; ok {
		return existing
	}
	for _, candidate := range b.definition.Nodes {
		if candidate.Label == ref {
			return candidate
		}
	}
	return nil
}

// ensureNode returns the node registered under ref, creating it on first
// mention. Used for arrow operands, which address one shared node per name.
func (b *builder) ensureNode(ref string) *graph.Node {
	if existing, ok := b.byID[ref]; ok {
		return existing
	}
	created := &graph.Node{ID: ref, Label: ref}
	b.byID[ref] = created
	b.definition.Nodes = append(b.definition.Nodes, created)
	return created
}

// addActivity creates a fresh node for an activity statement; a repeated
// label gets a numeric suffix so ids stay unique and deterministic.
func (b *builder) addActivity(label string) *graph.Node {
	id := label
	for n := 2; ; n++ {
		if _, taken := b.byID[id]; !taken {
			break
		}
		id = fmt.Sprintf("%s#%d", label, n)
	}
	created := &graph.Node{ID: id, Label: label}
	b.byID[id] = created
	b.definition.Nodes = append(b.definition.Nodes, created)
	return created
}

func (b *builder) addSynthetic(id, label string) *graph.Node {
	created := &graph.Node{ID: id, Label: label}
	b.byID[id] = created
	b.definition.Nodes = append(b.definition.Nodes, created)
	return created
}

func (b *builder) link(from, to, condition string) {
	b.definition.Transitions = append(b.definition.Transitions, &graph.Transition{
		From:      from,
		To:        to,
		Condition: condition,
	})
}

// enter wires the node into the sequential flow and makes it the new dangling
// source.
func (b *builder) enter(node *graph.Node) {
	if b.pendingFrom != "" {
		b.link(b.pendingFrom, node.ID, b.pendingCond)
	}
	b.pendingFrom = node.ID
	b.pendingCond = ""
	b.last = node.ID
}

// breakFlow ends the current chain (stop/end markers).
func (b *builder) breakFlow() {
	b.pendingFrom = ""
	b.pendingCond = ""
}

func (b *builder) addStartPoint(nodeID string) {
	b.definition.StartPoints = append(b.definition.StartPoints, &graph.StartPoint{NodeID: nodeID})
}

// openDecision starts an if block: a synthetic decision node is inserted into
// the flow and the first branch is armed with its label.
func (b *builder) openDecision(condition, branchLabel string) {
	b.decisions++
	b.joins++
	decision := b.addSynthetic(fmt.Sprintf("decision%d", b.decisions), condition)
	join := b.addSynthetic(fmt.Sprintf("join%d", b.joins), "")
	b.enter(decision)
	b.stack = append(b.stack, &frame{
		kind:       blockDecision,
		decisionID: decision.ID,
		joinID:     join.ID,
	})
	b.armBranch(branchLabel)
}

// armBranch points the dangling edge back at the decision node so the next
// statement becomes the branch head, its inbound edge labelled with the
// branch label.
func (b *builder) armBranch(label string) {
	f := b.top(blockDecision)
	if f == nil {
		return
	}
	b.pendingFrom = f.decisionID
	b.pendingCond = label
}

// closeBranch routes the branch tail into the join node. An empty branch
// yields a direct decision-to-join edge carrying the branch label; a branch
// that ended with a stop marker contributes no edge.
func (b *builder) closeBranch() {
	f := b.top(blockDecision)
	if f == nil {
		return
	}
	if b.pendingFrom != "" {
		b.link(b.pendingFrom, f.joinID, b.pendingCond)
	}
	b.pendingFrom = ""
	b.pendingCond = ""
}

// nextBranch handles elseif/else: close the running branch, arm the next one.
func (b *builder) nextBranch(label string, isElse bool) {
	f := b.top(blockDecision)
	if f == nil {
		return
	}
	b.closeBranch()
	if isElse {
		f.hasElse = true
	}
	b.armBranch(label)
}

// closeDecision terminates the block: the running branch is closed, a missing
// else becomes an unconditional fall-through to the join, and the join node
// carries the flow on.
func (b *builder) closeDecision() {
	f := b.pop(blockDecision)
	if f == nil {
		return
	}
	b.closeBranch2(f)
	if !f.hasElse {
		b.link(f.decisionID, f.joinID, "")
	}
	b.pendingFrom = f.joinID
	b.pendingCond = ""
}

// closeBranch2 is closeBranch against an already-popped frame.
func (b *builder) closeBranch2(f *frame) {
	if b.pendingFrom != "" {
		b.link(b.pendingFrom, f.joinID, b.pendingCond)
	}
	b.pendingFrom = ""
	b.pendingCond = ""
}

// openLoop starts a repeat block with a synthetic loop-entry node.
func (b *builder) openLoop() {
	b.loops++
	entry := b.addSynthetic(fmt.Sprintf("repeat%d", b.loops), "repeat")
	b.enter(entry)
	b.stack = append(b.stack, &frame{kind: blockLoop, entryID: entry.ID})
}

// closeLoop terminates a repeat block: the predicate becomes the back-edge
// from the last body node to the loop entry; the last body node stays the
// dangling source so the following statement forms the loop's exit edge. A
// synthetic close at end of input passes an empty predicate, which produces
// no back-edge (an unconditional self transition is never legal).
func (b *builder) closeLoop(predicate string) {
	f := b.pop(blockLoop)
	if f == nil {
		return
	}
	if predicate != "" && b.pendingFrom != "" {
		b.link(b.pendingFrom, f.entryID, predicate)
	}
	b.pendingCond = ""
}

// closeOpenBlocks synthetically closes every block left open at end of input
// using the same close paths as explicit terminators.
func (b *builder) closeOpenBlocks() {
	for len(b.stack) > 0 {
		f := b.stack[len(b.stack)-1]
		switch f.kind {
		case blockDecision:
			b.closeDecision()
		case blockLoop:
			b.closeLoop("")
		}
	}
}

// top returns the innermost open frame of the given kind only when it is the
// top of the stack; block keywords belonging to an outer frame while an inner
// one is open are treated as stray and ignored.
func (b *builder) top(kind blockKind) *frame {
	if len(b.stack) == 0 {
		return nil
	}
	f := b.stack[len(b.stack)-1]
	if f.kind != kind {
		return nil
	}
	return f
}

func (b *builder) pop(kind blockKind) *frame {
	f := b.top(kind)
	if f == nil {
		return nil
	}
	b.stack = b.stack[:len(b.stack)-1]
	return f
}

// attachNote appends note text to the named node (by id, then label) or, when
// ref is empty, to the most recently touched node. Action metadata embedded
// in the note is decoded once, here.
func (b *builder) attachNote(ref, text string) {
	var target *graph.Node
	if ref != "" {
		target = b.node(ref)
	}
	if target == nil && b.last != "" {
		target = b.byID[b.last]
	}
	if target == nil {
		return
	}
	if target.Note != "" {
		target.Note += "\n" + text
	} else {
		target.Note = text
	}
	if action := graph.ParseAction(text); action != nil {
		target.Action = action
	}
}
