// Package parse turns recipe source text into a [recipe.Recipe].
//
// The grammar is small:
//
//	recipe     := words '{' rule* '}'
//	rule       := input ('->' action)* ';'
//	input      := '$' word | ingredient ('+' ingredient)*
//	ingredient := ('[' text ']')? words
//	action     := '<>' | '$' word | words ('&' ingredient ('+' ingredient)*)?
//
// Names are runs of whitespace-separated words and are normalized to single
// spaces, so "chop   coarsely" and "chop coarsely" intern to the same symbol.
// A '#' starts a comment that runs to the end of the line.
package parse

import (
	"fmt"
	"strings"
)

// TokenType is the kind of a lexical token.
type TokenType int

const (
	EOF TokenType = iota
	LCURLY
	RCURLY
	ARROW  // "->"
	SEMI   // ";"
	PLUS   // "+"
	AMP    // "&"
	AMOUNT // "[...]", Text holds the trimmed contents
	JOIN   // "$name", Text holds the name
	DONE   // "<>"
	WORD
)

var tokenNames = map[TokenType]string{
	EOF:    "end of input",
	LCURLY: "'{'",
	RCURLY: "'}'",
	ARROW:  "'->'",
	SEMI:   "';'",
	PLUS:   "'+'",
	AMP:    "'&'",
	AMOUNT: "amount",
	JOIN:   "join point",
	DONE:   "'<>'",
	WORD:   "name",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a lexical token with its byte span in the source.
type Token struct {
	Type  TokenType
	Text  string
	Start int
	End   int
}

// Error is a lexical or syntax error at a source position. Line and Col are
// 1-based.
type Error struct {
	Offset int
	Line   int
	Col    int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

func newError(src string, offset int, format string, args ...any) *Error {
	if offset > len(src) {
		offset = len(src)
	}
	line := 1 + strings.Count(src[:offset], "\n")
	col := offset - strings.LastIndex(src[:offset], "\n")
	return &Error{Offset: offset, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

var punctuation = map[byte]TokenType{'{': LCURLY, '}': RCURLY, ';': SEMI, '+': PLUS, '&': AMP}

type lexer struct {
	src string
	cur int
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

// isWordByte reports whether b can appear inside a word. '-' and '<' are
// handled separately because they may start "->" or "<>".
func isWordByte(b byte) bool {
	if isSpace(b) {
		return false
	}
	switch b {
	case '{', '}', '[', ']', ';', '+', '&', '$', '#':
		return false
	}
	return true
}

func (l *lexer) peekAt(i int) byte {
	if l.cur+i >= len(l.src) {
		return 0
	}
	return l.src[l.cur+i]
}

func (l *lexer) skipSpaceAndComments() {
	for l.cur < len(l.src) {
		b := l.src[l.cur]
		switch {
		case isSpace(b):
			l.cur++
		case b == '#':
			for l.cur < len(l.src) && l.src[l.cur] != '\n' {
				l.cur++
			}
		default:
			return
		}
	}
}

func (l *lexer) startsOperator() bool {
	return (l.peekAt(0) == '-' && l.peekAt(1) == '>') || (l.peekAt(0) == '<' && l.peekAt(1) == '>')
}

func (l *lexer) next() (Token, error) {
	l.skipSpaceAndComments()
	start := l.cur
	if l.cur >= len(l.src) {
		return Token{Type: EOF, Start: start, End: start}, nil
	}

	b := l.src[l.cur]
	if tt, ok := punctuation[b]; ok {
		l.cur++
		return Token{Type: tt, Text: l.src[start:l.cur], Start: start, End: l.cur}, nil
	}

	switch {
	case b == '-' && l.peekAt(1) == '>':
		l.cur += 2
		return Token{Type: ARROW, Text: "->", Start: start, End: l.cur}, nil
	case b == '<' && l.peekAt(1) == '>':
		l.cur += 2
		return Token{Type: DONE, Text: "<>", Start: start, End: l.cur}, nil
	case b == '[':
		end := strings.IndexByte(l.src[l.cur:], ']')
		if end < 0 {
			return Token{}, newError(l.src, start, "unterminated amount")
		}
		text := strings.TrimSpace(l.src[l.cur+1 : l.cur+end])
		l.cur += end + 1
		if text == "" {
			return Token{}, newError(l.src, start, "empty amount")
		}
		return Token{Type: AMOUNT, Text: strings.Join(strings.Fields(text), " "), Start: start, End: l.cur}, nil
	case b == ']':
		return Token{}, newError(l.src, start, "unexpected ']'")
	case b == '$':
		l.cur++
		for l.cur < len(l.src) && isWordByte(l.src[l.cur]) && !l.startsOperator() {
			l.cur++
		}
		if l.cur == start+1 {
			return Token{}, newError(l.src, start, "join point needs a name after '$'")
		}
		return Token{Type: JOIN, Text: l.src[start+1 : l.cur], Start: start, End: l.cur}, nil
	}

	for l.cur < len(l.src) && isWordByte(l.src[l.cur]) && !l.startsOperator() {
		l.cur++
	}
	if l.cur == start {
		return Token{}, newError(l.src, start, "unexpected character %q", b)
	}
	return Token{Type: WORD, Text: l.src[start:l.cur], Start: start, End: l.cur}, nil
}

// Scan splits src into tokens, ending with an EOF token.
func Scan(src string) ([]Token, error) {
	l := &lexer{src: src}
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}
