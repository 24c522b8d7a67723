package parser

import (
	"bytes"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes (start at 1 to avoid clash with parsly.EOF).
const (
	whitespaceCode = iota + 1
	startUmlCode
	endUmlCode
	ifCode
	elseIfCode
	elseCode
	endIfCode
	repeatCode
	noteCode
	endCode
	startCode
	stopCode
)

// Token definitions. Keywords use a boundary-aware matcher so that an
// activity named "ifx" is never mistaken for an if block.
var (
	tokWS       = parsly.NewToken(whitespaceCode, "WS", matcher.NewWhiteSpace())
	tokStartUml = parsly.NewToken(startUmlCode, "StartUml", matcher.NewFragment("@startuml"))
	tokEndUml   = parsly.NewToken(endUmlCode, "EndUml", matcher.NewFragment("@enduml"))

	tokIf     = parsly.NewToken(ifCode, "If", newKeywordMatcher("if"))
	tokElseIf = parsly.NewToken(elseIfCode, "ElseIf", newKeywordMatcher("elseif"))
	tokElse   = parsly.NewToken(elseCode, "Else", newKeywordMatcher("else"))
	tokEndIf  = parsly.NewToken(endIfCode, "EndIf", newKeywordMatcher("endif"))
	tokRepeat = parsly.NewToken(repeatCode, "Repeat", newKeywordMatcher("repeat"))
	tokNote   = parsly.NewToken(noteCode, "Note", newKeywordMatcher("note"))
	tokEnd    = parsly.NewToken(endCode, "End", newKeywordMatcher("end"))
	tokStart  = parsly.NewToken(startCode, "Start", newKeywordMatcher("start"))
	tokStop   = parsly.NewToken(stopCode, "Stop", newKeywordMatcher("stop"))
)

// keywordMatcher matches a case-insensitive keyword followed by a word
// boundary (end of line, whitespace, '(' or ';').
type keywordMatcher struct {
	keyword []byte
}

func newKeywordMatcher(keyword string) parsly.Matcher {
	return &keywordMatcher{keyword: []byte(keyword)}
}

func (m *keywordMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos+len(m.keyword) > size {
		return 0
	}
	if !bytes.EqualFold(input[pos:pos+len(m.keyword)], m.keyword) {
		return 0
	}
	next := pos + len(m.keyword)
	if next < size && isWordChar(input[next]) {
		return 0
	}
	return len(m.keyword)
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
