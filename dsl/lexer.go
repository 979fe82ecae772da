package dsl

import "strings"

// Lexer turns CODSL source into tokens.
type Lexer struct {
	source string
	pos    int
	line   int
	column int
}

// NewLexer creates a lexer over source.
func NewLexer(source string) *Lexer {
	return &Lexer{source: source, line: 1, column: 1}
}

// Tokenize scans the whole input. The returned slice always ends with
// a TokenEOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token

	for l.pos < len(l.source) {
		l.skipSpace()
		if l.pos >= len(l.source) {
			break
		}

		ch := l.source[l.pos]

		switch {
		case ch == '#':
			l.skipLine()

		case ch == '\n':
			l.advanceLine()

		case ch == '"':
			tok, err := l.readString()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)

		case strings.ContainsRune("{}[]():,->=", rune(ch)):
			tokens = append(tokens, l.readSymbol())

		case isIdentStart(ch):
			tokens = append(tokens, l.readIdentifier())

		case ch >= '0' && ch <= '9':
			tokens = append(tokens, l.readNumber())

		default:
			return nil, errorf(l.line, l.column, "unexpected character %q", ch)
		}
	}

	tokens = append(tokens, Token{Type: TokenEOF, Line: l.line, Column: l.column})
	return tokens, nil
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.source) {
		switch l.source[l.pos] {
		case ' ', '\t', '\r':
			l.pos++
			l.column++
		default:
			return
		}
	}
}

func (l *Lexer) skipLine() {
	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		l.pos++
	}
	if l.pos < len(l.source) {
		l.advanceLine()
	}
}

func (l *Lexer) advanceLine() {
	l.pos++
	l.line++
	l.column = 1
}

func (l *Lexer) readString() (Token, error) {
	startLine, startCol := l.line, l.column
	l.pos++ // opening quote
	l.column++
	start := l.pos

	for l.pos < len(l.source) && l.source[l.pos] != '"' {
		if l.source[l.pos] == '\n' {
			l.line++
			l.column = 0
		}
		l.pos++
		l.column++
	}
	if l.pos >= len(l.source) {
		return Token{}, errorf(startLine, startCol, "unterminated string")
	}

	value := l.source[start:l.pos]
	l.pos++ // closing quote
	l.column++
	return Token{Type: TokenString, Value: value, Line: startLine, Column: startCol}, nil
}

func (l *Lexer) readSymbol() Token {
	startCol := l.column

	if l.source[l.pos] == '-' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '>' {
		l.pos += 2
		l.column += 2
		return Token{Type: TokenSymbol, Value: "->", Line: l.line, Column: startCol}
	}

	value := string(l.source[l.pos])
	l.pos++
	l.column++
	return Token{Type: TokenSymbol, Value: value, Line: l.line, Column: startCol}
}

func (l *Lexer) readIdentifier() Token {
	startCol := l.column
	start := l.pos

	for l.pos < len(l.source) && isIdentPart(l.source[l.pos]) {
		l.pos++
		l.column++
	}

	value := l.source[start:l.pos]
	typ := TokenIdentifier
	if _, ok := keywords[value]; ok {
		typ = TokenKeyword
	}
	return Token{Type: typ, Value: value, Line: l.line, Column: startCol}
}

func (l *Lexer) readNumber() Token {
	startCol := l.column
	start := l.pos

	for l.pos < len(l.source) && (l.source[l.pos] >= '0' && l.source[l.pos] <= '9' || l.source[l.pos] == '.') {
		l.pos++
		l.column++
	}

	return Token{Type: TokenNumber, Value: l.source[start:l.pos], Line: l.line, Column: startCol}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || ch >= '0' && ch <= '9'
}
