// Package parser is loom's lowerer: a recursive-descent, precedence-climbing
// front end that turns a token stream into internal/ast constructor values.
// It never executes anything — internal/interp does that — it only builds
// the tree the evaluator will walk.
package parser

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/errors"
	"github.com/loomlang/loom/internal/lexer"
)

// Parser holds the cursor and shared state for one lowering pass. A single
// Parser is used for one LowerFunction or LowerModule call; it is not
// reentrant across goroutines.
type Parser struct {
	cur      *Cursor
	source   string
	registry *ast.Registry
}

func newParser(source string, registry *ast.Registry) *Parser {
	return &Parser{
		cur:      NewCursor(lexer.Tokenize(source)),
		source:   source,
		registry: registry,
	}
}

func (p *Parser) errorf(pos lexer.Position, format string, args ...any) error {
	return errors.New(pos, p.source, format, args...)
}

// expect consumes the current token if it matches t, else returns a
// SyntaxError describing what was expected.
func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	tok := p.cur.Current()
	if tok.Type != t {
		return lexer.Token{}, p.errorf(tok.Pos, "expected %s, found %s %q", t, tok.Type, tok.Literal)
	}
	return p.cur.Next(), nil
}

// LowerFunction lowers source as a single bare function body (a statement
// list with no surrounding `fn` declaration) into an ast.Function with the
// given parameter names and an empty contract table. This is the form
// used by the scenarios in SPEC_FULL.md §8, where a function's body is
// written directly with no enclosing declaration.
func LowerFunction(source string, params []string) (*ast.Function, error) {
	registry := ast.NewRegistry()
	p := newParser(source, registry)

	body, err := p.parseStatements(lexer.EOF)
	if err != nil {
		return nil, err
	}
	if !p.cur.AtEOF() {
		tok := p.cur.Current()
		return nil, p.errorf(tok.Pos, "unexpected trailing token %s %q", tok.Type, tok.Literal)
	}

	return &ast.Function{Params: params, Body: body}, nil
}

// MustLowerFunction is LowerFunction's panicking form, for use at package
// init time (e.g. by generated builder files) where a lowering failure is
// a programmer error, not a runtime condition — see SPEC_FULL.md §7.
func MustLowerFunction(source string, params []string) ast.FunctionBuilder {
	fn, err := LowerFunction(source, params)
	if err != nil {
		panic(err)
	}
	return func() *ast.Function {
		clone := *fn
		return &clone
	}
}

// LowerModule lowers a sequence of top-level `fn name(params) { ... }`
// items, each optionally preceded by a `#[contract(...)]` attribute, into
// a Registry of builders keyed by function name. Functions may call one
// another (including themselves) in any order: every name is registered
// before any builder is invoked, so forward and mutual references resolve
// at call time — see ast.Registry's doc comment.
func LowerModule(source string) (*ast.Registry, error) {
	registry := ast.NewRegistry()
	p := newParser(source, registry)

	for !p.cur.AtEOF() {
		var contractAttr map[string]*ast.Contract
		if p.cur.Current().Type == lexer.HASH {
			attr, err := p.parseAttribute()
			if err != nil {
				return nil, err
			}
			contractAttr = attr
		}

		if err := p.parseFunctionDecl(contractAttr); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// parseFunctionDecl parses `fn name(p1, p2) { ... }` and registers its
// builder under name in p.registry.
func (p *Parser) parseFunctionDecl(contracts map[string]*ast.Contract) error {
	if _, err := p.expect(lexer.FN); err != nil {
		return err
	}
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return err
	}
	name := nameTok.Literal

	if _, err := p.expect(lexer.LPAREN); err != nil {
		return err
	}
	var params []string
	for p.cur.Current().Type != lexer.RPAREN {
		if len(params) > 0 {
			if _, err := p.expect(lexer.COMMA); err != nil {
				return err
			}
		}
		paramTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return err
		}
		params = append(params, paramTok.Literal)
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return err
	}

	if _, err := p.expect(lexer.LBRACE); err != nil {
		return err
	}
	body, err := p.parseStatements(lexer.RBRACE)
	if err != nil {
		return err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return err
	}

	registry := p.registry
	fnName := name
	fnParams := params
	fnBody := body
	fnContracts := contracts
	registry.Define(fnName, func() *ast.Function {
		return &ast.Function{Name: fnName, Params: fnParams, Body: fnBody, Contracts: fnContracts}
	})

	return nil
}
