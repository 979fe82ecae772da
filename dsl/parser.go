package dsl

import (
	"fmt"
	"strings"

	"github.com/c360studio/codsl/ontology"
)

// ValidationRequest is a parsed VALIDATE directive. Execution is left
// to the caller, which owns the validator and its LLM client.
type ValidationRequest struct {
	Target string
	Level  string
	Line   int
	Column int
}

// Program is the result of running a CODSL source: the declared
// ontologies and functors plus the values derived by OPERATION blocks.
type Program struct {
	Categories  map[string]*ontology.Category
	Functors    map[string]*ontology.Functor
	Results     map[string]*ontology.Category
	ResultOrder []string
	Validations []ValidationRequest
}

// Execute lexes, parses, and runs source in one pass. OPERATION blocks
// are evaluated as they are parsed, so later operations can reference
// earlier results.
func Execute(source string) (*Program, error) {
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// Parser consumes a token stream and builds a Program.
type Parser struct {
	tokens  []Token
	pos     int
	program *Program
}

// NewParser creates a parser over tokens, which must end with a
// TokenEOF token.
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens: tokens,
		program: &Program{
			Categories: make(map[string]*ontology.Category),
			Functors:   make(map[string]*ontology.Functor),
			Results:    make(map[string]*ontology.Category),
		},
	}
}

// Parse runs all declarations to completion.
func (p *Parser) Parse() (*Program, error) {
	for !p.atEnd() {
		tok := p.peek()
		var err error

		switch {
		case p.check(TokenKeyword, "ONTOLOGY"):
			err = p.parseOntology()
		case p.check(TokenKeyword, "FUNCTOR"):
			err = p.parseFunctor()
		case p.check(TokenKeyword, "OPERATION"):
			err = p.parseOperation()
		case p.check(TokenKeyword, "VALIDATE"):
			err = p.parseValidation()
		default:
			err = errorf(tok.Line, tok.Column, "expected declaration, got %s %q", tok.Type, tok.Value)
		}

		if err != nil {
			return nil, err
		}
	}
	return p.program, nil
}

func (p *Parser) parseOntology() error {
	p.advance() // ONTOLOGY
	name, err := p.consume(TokenIdentifier, "")
	if err != nil {
		return err
	}
	if _, exists := p.program.Categories[name.Value]; exists {
		return errorf(name.Line, name.Column, "ontology %q already declared", name.Value)
	}
	if _, err := p.consume(TokenSymbol, "{"); err != nil {
		return err
	}

	cat := ontology.NewCategory(name.Value, "Ontology: "+name.Value)

	for !p.check(TokenSymbol, "}") {
		switch {
		case p.check(TokenKeyword, "OBJECT"):
			obj, err := p.parseObject()
			if err != nil {
				return err
			}
			if err := cat.AddObject(obj); err != nil {
				tok := p.previous()
				return errorf(tok.Line, tok.Column, "object %q: %v", obj.Name, err)
			}
		case p.check(TokenKeyword, "MORPHISM"):
			morph, err := p.parseMorphism()
			if err != nil {
				return err
			}
			if err := cat.AddMorphism(morph); err != nil {
				tok := p.previous()
				return errorf(tok.Line, tok.Column, "morphism %q: %v", morph.Name, err)
			}
		default:
			tok := p.peek()
			return errorf(tok.Line, tok.Column, "expected OBJECT, MORPHISM, or }, got %q", tok.Value)
		}
	}

	if _, err := p.consume(TokenSymbol, "}"); err != nil {
		return err
	}
	p.program.Categories[name.Value] = cat
	return nil
}

func (p *Parser) parseObject() (ontology.Object, error) {
	p.advance() // OBJECT
	name, err := p.consume(TokenIdentifier, "")
	if err != nil {
		return ontology.Object{}, err
	}
	if _, err := p.consume(TokenSymbol, ":"); err != nil {
		return ontology.Object{}, err
	}
	domain, err := p.consume(TokenIdentifier, "")
	if err != nil {
		return ontology.Object{}, err
	}

	obj := ontology.Object{Name: name.Value, Domain: domain.Value}

	if !p.check(TokenSymbol, "{") {
		return obj, nil
	}
	p.advance()

	for !p.check(TokenSymbol, "}") {
		switch {
		case p.check(TokenKeyword, "attributes"):
			p.advance()
			if _, err := p.consume(TokenSymbol, ":"); err != nil {
				return ontology.Object{}, err
			}
			attrs, err := p.parseAttributeList()
			if err != nil {
				return ontology.Object{}, err
			}
			obj.Attributes = attrs
		case p.check(TokenKeyword, "semantic"):
			semantic, err := p.parseSemanticField()
			if err != nil {
				return ontology.Object{}, err
			}
			obj.Semantic = semantic
		default:
			tok := p.peek()
			return ontology.Object{}, errorf(tok.Line, tok.Column, "expected attributes, semantic, or }, got %q", tok.Value)
		}
	}

	_, err = p.consume(TokenSymbol, "}")
	return obj, err
}

// parseAttributeList reads [a, b, ...]. Entries may be identifiers,
// numbers, or strings; a number immediately followed by an identifier
// (e.g. 5MW) is joined into one attribute.
func (p *Parser) parseAttributeList() ([]string, error) {
	if _, err := p.consume(TokenSymbol, "["); err != nil {
		return nil, err
	}

	var attrs []string
	for !p.check(TokenSymbol, "]") {
		tok := p.peek()
		switch tok.Type {
		case TokenIdentifier, TokenString:
			attrs = append(attrs, tok.Value)
			p.advance()
		case TokenNumber:
			value := tok.Value
			p.advance()
			if next := p.peek(); next.Type == TokenIdentifier && next.Line == tok.Line && next.Column == tok.Column+len(tok.Value) {
				value += next.Value
				p.advance()
			}
			attrs = append(attrs, value)
		default:
			return nil, errorf(tok.Line, tok.Column, "expected attribute, got %q", tok.Value)
		}

		if p.check(TokenSymbol, ",") {
			p.advance()
		}
	}

	_, err := p.consume(TokenSymbol, "]")
	return attrs, err
}

func (p *Parser) parseSemanticField() (string, error) {
	p.advance() // semantic
	if _, err := p.consume(TokenSymbol, ":"); err != nil {
		return "", err
	}
	tok, err := p.consume(TokenString, "")
	if err != nil {
		return "", err
	}
	return tok.Value, nil
}

func (p *Parser) parseMorphism() (ontology.Morphism, error) {
	p.advance() // MORPHISM
	name, err := p.consume(TokenIdentifier, "")
	if err != nil {
		return ontology.Morphism{}, err
	}
	if _, err := p.consume(TokenSymbol, ":"); err != nil {
		return ontology.Morphism{}, err
	}
	source, err := p.consume(TokenIdentifier, "")
	if err != nil {
		return ontology.Morphism{}, err
	}
	if _, err := p.consume(TokenSymbol, "->"); err != nil {
		return ontology.Morphism{}, err
	}
	target, err := p.consume(TokenIdentifier, "")
	if err != nil {
		return ontology.Morphism{}, err
	}

	morph := ontology.Morphism{
		Name:   name.Value,
		Source: source.Value,
		Target: target.Value,
		Type:   ontology.Structural,
	}

	if !p.check(TokenSymbol, "{") {
		return morph, nil
	}
	p.advance()

	for !p.check(TokenSymbol, "}") {
		switch {
		case p.check(TokenKeyword, "type"):
			p.advance()
			if _, err := p.consume(TokenSymbol, ":"); err != nil {
				return ontology.Morphism{}, err
			}
			typeTok, err := p.consume(TokenIdentifier, "")
			if err != nil {
				return ontology.Morphism{}, err
			}
			morphType, err := ontology.ParseMorphismType(strings.ToUpper(typeTok.Value))
			if err != nil {
				return ontology.Morphism{}, errorf(typeTok.Line, typeTok.Column, "%v", err)
			}
			morph.Type = morphType
		case p.check(TokenKeyword, "semantic"):
			semantic, err := p.parseSemanticField()
			if err != nil {
				return ontology.Morphism{}, err
			}
			morph.Semantic = semantic
		default:
			tok := p.peek()
			return ontology.Morphism{}, errorf(tok.Line, tok.Column, "expected type, semantic, or }, got %q", tok.Value)
		}
	}

	_, err = p.consume(TokenSymbol, "}")
	return morph, err
}

func (p *Parser) parseFunctor() error {
	p.advance() // FUNCTOR
	name, err := p.consume(TokenIdentifier, "")
	if err != nil {
		return err
	}
	if _, err := p.consume(TokenSymbol, ":"); err != nil {
		return err
	}
	sourceName, err := p.consume(TokenIdentifier, "")
	if err != nil {
		return err
	}
	if _, err := p.consume(TokenSymbol, "->"); err != nil {
		return err
	}
	targetName, err := p.consume(TokenIdentifier, "")
	if err != nil {
		return err
	}

	source, err := p.lookupCategory(sourceName)
	if err != nil {
		return err
	}
	target, err := p.lookupCategory(targetName)
	if err != nil {
		return err
	}

	if _, err := p.consume(TokenSymbol, "{"); err != nil {
		return err
	}

	f := ontology.NewFunctor(name.Value, source, target)

	for !p.check(TokenSymbol, "}") {
		switch {
		case p.check(TokenKeyword, "MAP"):
			p.advance()
			var dest map[string]string
			switch {
			case p.check(TokenKeyword, "OBJECT"):
				dest = f.ObjectMap
			case p.check(TokenKeyword, "MORPHISM"):
				dest = f.MorphismMap
			default:
				tok := p.peek()
				return errorf(tok.Line, tok.Column, "expected OBJECT or MORPHISM after MAP, got %q", tok.Value)
			}
			p.advance()
			src, err := p.consume(TokenIdentifier, "")
			if err != nil {
				return err
			}
			if _, err := p.consume(TokenSymbol, "->"); err != nil {
				return err
			}
			tgt, err := p.consume(TokenIdentifier, "")
			if err != nil {
				return err
			}
			dest[src.Value] = tgt.Value
		case p.check(TokenKeyword, "RULE"):
			p.advance()
			rule, err := p.consume(TokenString, "")
			if err != nil {
				return err
			}
			f.Rules = append(f.Rules, rule.Value)
		default:
			tok := p.peek()
			return errorf(tok.Line, tok.Column, "expected MAP, RULE, or }, got %q", tok.Value)
		}
	}

	if _, err := p.consume(TokenSymbol, "}"); err != nil {
		return err
	}
	p.program.Functors[name.Value] = f
	return nil
}

func (p *Parser) parseOperation() error {
	p.advance() // OPERATION
	if _, err := p.consume(TokenSymbol, "{"); err != nil {
		return err
	}

	for !p.check(TokenSymbol, "}") {
		if err := p.parseAssignment(); err != nil {
			return err
		}
	}

	_, err := p.consume(TokenSymbol, "}")
	return err
}

func (p *Parser) parseAssignment() error {
	resultName, err := p.consume(TokenIdentifier, "")
	if err != nil {
		return err
	}
	if _, err := p.consume(TokenSymbol, "="); err != nil {
		return err
	}

	opTok := p.peek()
	if opTok.Type != TokenKeyword {
		return errorf(opTok.Line, opTok.Column, "expected operation keyword, got %q", opTok.Value)
	}
	p.advance()

	args, err := p.parseArgList()
	if err != nil {
		return err
	}

	switch opTok.Value {
	case "COPRODUCT", "PRODUCT", "DIFFERENCE":
		a, b, err := p.twoCategories(opTok, args)
		if err != nil {
			return err
		}
		var result *ontology.Category
		switch opTok.Value {
		case "COPRODUCT":
			result = ontology.Coproduct(a, b)
		case "PRODUCT":
			result = ontology.Product(a, b)
		case "DIFFERENCE":
			result = ontology.Difference(a, b)
		}
		result.Name = resultName.Value
		p.storeResult(resultName.Value, result)

	case "PULLBACK", "PUSHOUT":
		if len(args) != 5 {
			return errorf(opTok.Line, opTok.Column, "%s takes 5 arguments, got %d", opTok.Value, len(args))
		}
		a, err := p.lookupCategory(args[0])
		if err != nil {
			return err
		}
		b, err := p.lookupCategory(args[1])
		if err != nil {
			return err
		}
		c, err := p.lookupCategory(args[2])
		if err != nil {
			return err
		}
		f, err := p.lookupFunctor(args[3])
		if err != nil {
			return err
		}
		g, err := p.lookupFunctor(args[4])
		if err != nil {
			return err
		}

		var result *ontology.Category
		if opTok.Value == "PULLBACK" {
			result, err = ontology.Pullback(a, b, c, f, g)
		} else {
			result, err = ontology.Pushout(a, b, c, f, g)
		}
		if err != nil {
			return errorf(opTok.Line, opTok.Column, "%s: %v", opTok.Value, err)
		}
		result.Name = resultName.Value
		p.storeResult(resultName.Value, result)

	case "COMPOSE":
		if len(args) != 2 {
			return errorf(opTok.Line, opTok.Column, "COMPOSE takes 2 arguments, got %d", len(args))
		}
		g, err := p.lookupFunctor(args[0])
		if err != nil {
			return err
		}
		f, err := p.lookupFunctor(args[1])
		if err != nil {
			return err
		}
		composed, err := ontology.Compose(g, f)
		if err != nil {
			return errorf(opTok.Line, opTok.Column, "COMPOSE: %v", err)
		}
		composed.Name = resultName.Value
		p.program.Functors[resultName.Value] = composed

	default:
		return errorf(opTok.Line, opTok.Column, "unknown operation %q", opTok.Value)
	}

	return nil
}

// parseArgList reads (a, b, ...) as identifier tokens.
func (p *Parser) parseArgList() ([]Token, error) {
	if _, err := p.consume(TokenSymbol, "("); err != nil {
		return nil, err
	}

	var args []Token
	for !p.check(TokenSymbol, ")") {
		arg, err := p.consume(TokenIdentifier, "")
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.check(TokenSymbol, ",") {
			p.advance()
		}
	}

	_, err := p.consume(TokenSymbol, ")")
	return args, err
}

func (p *Parser) twoCategories(opTok Token, args []Token) (*ontology.Category, *ontology.Category, error) {
	if len(args) != 2 {
		return nil, nil, errorf(opTok.Line, opTok.Column, "%s takes 2 arguments, got %d", opTok.Value, len(args))
	}
	a, err := p.lookupCategory(args[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := p.lookupCategory(args[1])
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func (p *Parser) parseValidation() error {
	tok := p.peek()
	p.advance() // VALIDATE
	target, err := p.consume(TokenIdentifier, "")
	if err != nil {
		return err
	}
	if _, err := p.consume(TokenKeyword, "WITH"); err != nil {
		return err
	}
	level, err := p.consume(TokenIdentifier, "")
	if err != nil {
		return err
	}

	p.program.Validations = append(p.program.Validations, ValidationRequest{
		Target: target.Value,
		Level:  strings.ToLower(level.Value),
		Line:   tok.Line,
		Column: tok.Column,
	})
	return nil
}

// lookupCategory resolves name against declared ontologies, then
// derived results.
func (p *Parser) lookupCategory(tok Token) (*ontology.Category, error) {
	if cat, ok := p.program.Categories[tok.Value]; ok {
		return cat, nil
	}
	if cat, ok := p.program.Results[tok.Value]; ok {
		return cat, nil
	}
	return nil, errorf(tok.Line, tok.Column, "unknown ontology %q", tok.Value)
}

func (p *Parser) lookupFunctor(tok Token) (*ontology.Functor, error) {
	if f, ok := p.program.Functors[tok.Value]; ok {
		return f, nil
	}
	return nil, errorf(tok.Line, tok.Column, "unknown functor %q", tok.Value)
}

func (p *Parser) storeResult(name string, cat *ontology.Category) {
	if _, exists := p.program.Results[name]; !exists {
		p.program.ResultOrder = append(p.program.ResultOrder, name)
	}
	p.program.Results[name] = cat
}

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) previous() Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() Token {
	tok := p.tokens[p.pos]
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) check(typ TokenType, value string) bool {
	tok := p.peek()
	if tok.Type != typ {
		return false
	}
	return value == "" || tok.Value == value
}

func (p *Parser) consume(typ TokenType, value string) (Token, error) {
	if p.check(typ, value) {
		return p.advance(), nil
	}
	tok := p.peek()
	want := typ.String()
	if value != "" {
		want = fmt.Sprintf("%s %q", want, value)
	}
	return Token{}, errorf(tok.Line, tok.Column, "expected %s, got %s %q", want, tok.Type, tok.Value)
}

func (p *Parser) atEnd() bool {
	return p.tokens[p.pos].Type == TokenEOF
}
