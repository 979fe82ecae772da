// Package dsl implements the CODSL textual language: a lexer and a
// recursive-descent parser that declares ontologies and functors and
// executes algebra operations over them.
//
// Syntax:
//
//	ONTOLOGY <name> {
//	    OBJECT <name> : <domain> {
//	        attributes: [<attr>, ...]
//	        semantic: "<description>"
//	    }
//	    MORPHISM <name> : <source> -> <target> {
//	        type: <FUNCTIONAL|CAUSAL|STRUCTURAL|TEMPORAL>
//	        semantic: "<description>"
//	    }
//	}
//
//	FUNCTOR <name> : <source> -> <target> {
//	    MAP OBJECT <src> -> <tgt>
//	    MAP MORPHISM <src> -> <tgt>
//	    RULE "<semantic rule>"
//	}
//
//	OPERATION {
//	    <result> = COPRODUCT(<a>, <b>)
//	    <result> = PRODUCT(<a>, <b>)
//	    <result> = DIFFERENCE(<a>, <b>)
//	    <result> = PULLBACK(<a>, <b>, <c>, <f>, <g>)
//	    <result> = PUSHOUT(<a>, <b>, <s>, <f>, <g>)
//	    <result> = COMPOSE(<g>, <f>)
//	}
//
//	VALIDATE <target> WITH <level>
//
// Comments start with '#' and run to end of line.
package dsl

import "fmt"

// TokenType classifies lexer output.
type TokenType int

const (
	TokenKeyword TokenType = iota
	TokenIdentifier
	TokenString
	TokenSymbol
	TokenNumber
	TokenEOF
)

var tokenTypeNames = map[TokenType]string{
	TokenKeyword:    "keyword",
	TokenIdentifier: "identifier",
	TokenString:     "string",
	TokenSymbol:     "symbol",
	TokenNumber:     "number",
	TokenEOF:        "end of input",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexeme with its source position.
type Token struct {
	Type   TokenType
	Value  string
	Line   int
	Column int
}

// keywords recognized by the lexer. Lowercase entries are block field
// names; uppercase entries are declaration and operation keywords.
var keywords = map[string]struct{}{
	"ONTOLOGY":   {},
	"OBJECT":     {},
	"MORPHISM":   {},
	"FUNCTOR":    {},
	"OPERATION":  {},
	"VALIDATE":   {},
	"WITH":       {},
	"MAP":        {},
	"RULE":       {},
	"COPRODUCT":  {},
	"PRODUCT":    {},
	"PULLBACK":   {},
	"PUSHOUT":    {},
	"DIFFERENCE": {},
	"COMPOSE":    {},
	"attributes": {},
	"semantic":   {},
	"type":       {},
}

// Error is a lexing, parsing, or execution error carrying the source
// position it occurred at.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message)
}

func errorf(line, column int, format string, args ...any) *Error {
	return &Error{Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}
