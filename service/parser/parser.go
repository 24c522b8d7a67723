// Package parser turns activity-diagram text (@startuml ... @enduml) into a
// workflow definition graph. The parser is recovery oriented: malformed or
// unterminated constructs never fail a document - open blocks are closed
// synthetically at end of input and unknown lines are skipped. The only hard
// failure is a nil document.
package parser

import (
	"errors"
	"strings"

	"github.com/viant/actflow/model/graph"
	"github.com/viant/parsly"
)

// ErrNilDocument is returned when Parse receives a nil document. This is the
// parser's only hard failure; structural issues are recovered silently.
var ErrNilDocument = errors.New("parser: nil document")

// Parse builds a workflow definition from diagram text, assigning the given
// id and display name. Labels are captured verbatim and are never interpreted
// as pattern syntax.
func Parse(data []byte, id, name string) (*graph.Definition, error) {
	if data == nil {
		return nil, ErrNilDocument
	}
	p := &parser{
		cursor:  parsly.NewCursor("", data, 0),
		builder: newBuilder(id, name),
	}
	p.parse()
	p.builder.closeOpenBlocks()
	return p.builder.definition, nil
}

type parser struct {
	cursor  *parsly.Cursor
	builder *builder
	done    bool
}

func (p *parser) parse() {
	for p.cursor.HasMore() && !p.done {
		p.statement(p.consumeLine())
	}
}

func (p *parser) statement(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}
	if strings.HasPrefix(trimmed, "'") || strings.HasPrefix(trimmed, "//") {
		return
	}
	if p.cosmetic(trimmed) {
		return
	}
	if strings.HasPrefix(trimmed, ":") || hasColorTag(trimmed) {
		p.activity(trimmed)
		return
	}
	if strings.HasPrefix(trimmed, "[*]") {
		p.startEdge(trimmed)
		return
	}

	lc := parsly.NewCursor("", []byte(trimmed), 0)
	match := lc.MatchAfterOptional(tokWS,
		tokStartUml, tokEndUml,
		tokEndIf, tokElseIf, tokElse, tokIf,
		tokRepeat, tokNote, tokEnd, tokStart, tokStop)
	rest := strings.TrimSpace(trimmed[lc.Pos:])

	switch match.Code {
	case startUmlCode:
	case endUmlCode:
		p.done = true
	case ifCode:
		condition, after := parenAndRest(rest)
		p.builder.openDecision(condition, branchLabel(after, condition))
	case elseIfCode:
		condition, after := parenAndRest(rest)
		p.builder.nextBranch(branchLabel(after, condition), false)
	case elseCode:
		if keyword(rest, "if") {
			condition, after := parenAndRest(rest[2:])
			p.builder.nextBranch(branchLabel(after, condition), false)
			return
		}
		label, _ := parenAndRest(rest)
		if label == "" {
			label = "else"
		}
		p.builder.nextBranch(label, true)
	case endIfCode:
		p.builder.closeDecision()
	case repeatCode:
		if keyword(rest, "while") {
			predicate, _ := parenAndRest(rest)
			p.builder.closeLoop(predicate)
			return
		}
		p.builder.openLoop()
	case noteCode:
		p.note(rest)
	case endCode:
		if keyword(rest, "note") {
			return // stray end note
		}
		p.builder.breakFlow()
	case stopCode:
		p.builder.breakFlow()
	case startCode:
		p.startMarker()
	default:
		p.arrow(trimmed)
	}
}

// startMarker handles the `start` keyword: a cosmetic start node opening a
// fresh chain, recorded as a start point.
func (p *parser) startMarker() {
	p.builder.breakFlow()
	node := p.builder.addActivity("start")
	p.builder.enter(node)
	p.builder.addStartPoint(node.ID)
}

// startEdge handles lines beginning with the [*] pseudo state: bare [*] is an
// end marker, `[*] --> X` declares X as a start point.
func (p *parser) startEdge(trimmed string) {
	rest := strings.TrimSpace(trimmed[len("[*]"):])
	if rest == "" {
		p.builder.breakFlow()
		return
	}
	op, pos := findArrow(rest)
	if pos != 0 {
		return
	}
	target := strings.TrimSpace(rest[len(op):])
	if idx := strings.Index(target, ":"); idx >= 0 {
		target = strings.TrimSpace(target[:idx])
	}
	if target == "" || target == "[*]" {
		return
	}
	node := p.builder.ensureNode(target)
	p.builder.addStartPoint(node.ID)
	p.builder.pendingFrom = node.ID
	p.builder.pendingCond = ""
	p.builder.last = node.ID
}

// arrow handles explicit transition statements such as `A --> B` or
// `C <- D : label`. Both glyph directions connect the left operand to the
// right one; a trailing `: text` becomes the transition condition.
func (p *parser) arrow(trimmed string) {
	op, pos := findArrow(trimmed)
	if pos <= 0 {
		return // not an arrow statement; skipped
	}
	left := strings.TrimSpace(trimmed[:pos])
	right := strings.TrimSpace(trimmed[pos+len(op):])
	var condition string
	if idx := strings.Index(right, ":"); idx >= 0 {
		condition = strings.TrimSpace(right[idx+1:])
		right = strings.TrimSpace(right[:idx])
	}
	if left == "" || right == "" {
		return
	}
	if right == "[*]" {
		p.builder.ensureNode(left)
		p.builder.breakFlow()
		return
	}
	from := p.builder.ensureNode(left)
	to := p.builder.ensureNode(right)
	p.builder.link(from.ID, to.ID, condition)
	p.builder.pendingFrom = to.ID
	p.builder.pendingCond = ""
	p.builder.last = to.ID
}

// activity handles `:Label;` statements, including a leading color tag, a
// trailing stereotype and labels spanning multiple lines up to the ';'
// terminator.
func (p *parser) activity(trimmed string) {
	body := trimmed
	if body[0] == '#' {
		idx := strings.Index(body, ":")
		if idx < 0 {
			return
		}
		body = body[idx:]
	}
	body = body[1:] // drop leading ':'

	label := body
	terminated := false
	if idx := strings.Index(body, ";"); idx >= 0 {
		label = body[:idx]
		terminated = true
	}
	for !terminated && p.cursor.HasMore() {
		line := p.consumeLine()
		if idx := strings.Index(line, ";"); idx >= 0 {
			label += "\n" + line[:idx]
			terminated = true
			break
		}
		label += "\n" + line
	}

	node := p.builder.addActivity(label)
	p.builder.enter(node)
}

// note handles inline and block notes. rest is the text after the `note`
// keyword, e.g. `left of OrderCreated : send it` or `right` followed by body
// lines up to `end note`.
func (p *parser) note(rest string) {
	if idx := strings.Index(rest, ":"); idx >= 0 {
		ref := noteRef(rest[:idx])
		p.builder.attachNote(ref, strings.TrimSpace(rest[idx+1:]))
		return
	}

	ref := noteRef(rest)
	var lines []string
	for p.cursor.HasMore() {
		line := p.consumeLine()
		folded := strings.ToLower(strings.TrimSpace(line))
		if folded == "end note" || folded == "endnote" {
			break
		}
		lines = append(lines, line)
	}
	// line breaks inside the body are preserved
	p.builder.attachNote(ref, strings.Join(lines, "\n"))
}

// cosmetic skips styling and pragma directives, including `{`-delimited
// blocks, without breaking the surrounding parse.
func (p *parser) cosmetic(trimmed string) bool {
	folded := strings.ToLower(trimmed)
	if folded == "<style>" {
		p.skipUntil("</style>")
		return true
	}
	for _, prefix := range cosmeticPrefixes {
		if strings.HasPrefix(folded, prefix) {
			if strings.HasSuffix(trimmed, "{") {
				p.skipUntil("}")
			}
			return true
		}
	}
	return false
}

var cosmeticPrefixes = []string{
	"skinparam", "skin ", "!pragma", "pragma ", "title", "scale ",
	"hide ", "caption", "header", "footer", "mainframe",
}

func (p *parser) skipUntil(terminator string) {
	for p.cursor.HasMore() {
		if strings.EqualFold(strings.TrimSpace(p.consumeLine()), terminator) {
			return
		}
	}
}

// ---------------- low-level helpers ----------------

// consumeLine consumes bytes until newline (inclusive) and returns the line
// without the trailing newline or carriage return.
func (p *parser) consumeLine() string {
	cur := p.cursor
	start := cur.Pos
	for cur.Pos < cur.InputSize {
		if cur.Input[cur.Pos] == '\n' {
			line := string(cur.Input[start:cur.Pos])
			cur.Pos++
			return strings.TrimSuffix(line, "\r")
		}
		cur.Pos++
	}
	return strings.TrimSuffix(string(cur.Input[start:]), "\r")
}

var arrowOps = []string{"<--", "-->", "<-", "->"}

// findArrow returns the earliest arrow operator in s and its position, or
// ("", -1). Longer glyphs win at the same position.
func findArrow(s string) (string, int) {
	best, bestPos := "", -1
	for _, op := range arrowOps {
		pos := strings.Index(s, op)
		if pos == -1 {
			continue
		}
		if bestPos == -1 || pos < bestPos || (pos == bestPos && len(op) > len(best)) {
			best, bestPos = op, pos
		}
	}
	return best, bestPos
}

// parenAndRest extracts the content of the first balanced parenthesis group
// and returns it together with the remainder after the closing brace.
func parenAndRest(s string) (string, string) {
	start := strings.Index(s, "(")
	if start == -1 {
		return "", s
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[start+1 : i], s[i+1:]
			}
		}
	}
	// unterminated group: take the remainder
	return s[start+1:], ""
}

// branchLabel extracts the `then (label)` branch label; when absent the
// branch condition doubles as its label.
func branchLabel(after, condition string) string {
	rest := strings.TrimSpace(after)
	if keyword(rest, "then") {
		if label, _ := parenAndRest(rest); label != "" {
			return label
		}
	}
	return condition
}

// keyword reports whether s begins with the given case-insensitive keyword
// followed by a word boundary.
func keyword(s, kw string) bool {
	if len(s) < len(kw) || !strings.EqualFold(s[:len(kw)], kw) {
		return false
	}
	return len(s) == len(kw) || !isWordChar(s[len(kw)])
}

// hasColorTag reports a `#color:Label;` activity statement.
func hasColorTag(trimmed string) bool {
	if !strings.HasPrefix(trimmed, "#") {
		return false
	}
	idx := strings.Index(trimmed, ":")
	if idx <= 1 {
		return false
	}
	for _, r := range trimmed[1:idx] {
		if r == ' ' || r == '\t' {
			return false
		}
	}
	return true
}

func noteRef(meta string) string {
	folded := strings.ToLower(meta)
	idx := strings.Index(folded, " of ")
	if idx == -1 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(meta[idx+4:]), `"`)
}
