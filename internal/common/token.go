package common

import (
	"fmt"

	"github.com/graph-gophers/graphql-engine/errors"
)

type TokenKind int

const (
	EOF TokenKind = iota
	Name
	Int
	Float
	String
	BlockString
	Bang
	Dollar
	Amp
	ParenL
	ParenR
	Spread
	Colon
	Equals
	At
	BracketL
	BracketR
	BraceL
	Pipe
	BraceR
)

var tokenNames = [...]string{
	EOF:         "<EOF>",
	Name:        "Name",
	Int:         "Int",
	Float:       "Float",
	String:      "String",
	BlockString: "BlockString",
	Bang:        "!",
	Dollar:      "$",
	Amp:         "&",
	ParenL:      "(",
	ParenR:      ")",
	Spread:      "...",
	Colon:       ":",
	Equals:      "=",
	At:          "@",
	BracketL:    "[",
	BracketR:    "]",
	BraceL:      "{",
	Pipe:        "|",
	BraceR:      "}",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a lexical token. Value is the name, the number's source text or the decoded
// string for literal kinds, and empty for punctuation.
type Token struct {
	Kind  TokenKind
	Value string
	Span  errors.Span
}

func (t Token) String() string {
	switch t.Kind {
	case Name, Int, Float:
		return fmt.Sprintf("%q", t.Value)
	case String, BlockString:
		return "string " + fmt.Sprintf("%q", t.Value)
	case EOF:
		return "<EOF>"
	}
	return fmt.Sprintf("%q", t.Kind.String())
}
