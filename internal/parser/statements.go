package parser

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/lexer"
)

// parseStatements parses statements until the terminator token (or EOF) is
// reached. The terminator itself is left for the caller to consume.
func (p *Parser) parseStatements(term lexer.TokenType) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for p.cur.Current().Type != term && !p.cur.AtEOF() {
		stmt, err := p.parseStatement(term)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// parseStatement classifies and parses one statement. The alternatives, in
// order: a `let` binding (plain or indexed), a bare assignment (plain or
// indexed, recognized by speculative lookahead for `=`), and finally an
// expression statement.
//
// The expression-statement semicolon rule: a trailing semicolon is consumed
// when present; when absent, the statement is accepted only if it is the
// final statement before the terminator, or the expression is one of the
// forms that never require a semicolon (block, conditional, loop, vector).
func (p *Parser) parseStatement(term lexer.TokenType) (ast.Statement, error) {
	if p.cur.Current().Type == lexer.LET {
		return p.parseLetStatement()
	}

	// Bare assignment: NAME = expr; or NAME[index] = expr;
	mark := p.cur.Mark()
	if nameTok, ok := p.cur.TryMatch(lexer.IDENT); ok {
		if _, ok := p.cur.TryMatch(lexer.LBRACK); ok {
			index, err := p.parseExpression()
			if err == nil {
				if _, ok := p.cur.TryMatch(lexer.RBRACK); ok {
					if _, ok := p.cur.TryMatch(lexer.ASSIGN); ok {
						return p.finishIndexedAssignment(nameTok, index)
					}
				}
			}
		} else if _, ok := p.cur.TryMatch(lexer.ASSIGN); ok {
			return p.finishAssignment(nameTok)
		}
		p.cur.Reset(mark)
	}

	expr, needsSemi, err := p.parseExpressionInfo()
	if err != nil {
		return nil, err
	}
	if _, ok := p.cur.TryMatch(lexer.SEMICOLON); !ok {
		atEnd := p.cur.Current().Type == term || p.cur.AtEOF()
		if !atEnd && needsSemi {
			tok := p.cur.Current()
			return nil, p.errorf(tok.Pos, "expected ; after expression, found %s %q", tok.Type, tok.Literal)
		}
	}
	return &ast.ExprStatement{BaseNode: ast.BaseNode{Position: expr.Pos()}, Expr: expr}, nil
}

// parseLetStatement parses `let [mut] NAME = expr;` and
// `let [mut] NAME[index] = expr;`. Both lower to the same assignment nodes a
// bare write does; `let` and `mut` are surface syntax only, since binding
// semantics are decided by the environment (bind innermost when unbound,
// update the owning frame otherwise).
func (p *Parser) parseLetStatement() (ast.Statement, error) {
	if _, err := p.expect(lexer.LET); err != nil {
		return nil, err
	}
	p.cur.TryMatch(lexer.MUT)

	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	if _, ok := p.cur.TryMatch(lexer.LBRACK); ok {
		index, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBRACK); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.ASSIGN); err != nil {
			return nil, err
		}
		return p.finishIndexedAssignment(nameTok, index)
	}

	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	return p.finishAssignment(nameTok)
}

// finishAssignment parses the right-hand side and trailing semicolon of a
// plain assignment whose `NAME =` prefix has already been consumed.
func (p *Parser) finishAssignment(nameTok lexer.Token) (ast.Statement, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.Assignment{
		BaseNode: ast.BaseNode{Position: nameTok.Pos},
		Name:     nameTok.Literal,
		Value:    value,
	}, nil
}

// finishIndexedAssignment parses the right-hand side and trailing semicolon
// of an indexed assignment whose `NAME[index] =` prefix has already been
// consumed.
func (p *Parser) finishIndexedAssignment(nameTok lexer.Token, index ast.Expression) (ast.Statement, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.IndexedAssignment{
		BaseNode: ast.BaseNode{Position: nameTok.Pos},
		Name:     nameTok.Literal,
		Index:    index,
		Value:    value,
	}, nil
}
