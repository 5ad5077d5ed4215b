package parser

import (
	"strconv"
	"strings"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/lexer"
)

// parseExpression parses one full expression, discarding the
// needs-semicolon flag callers of sub-expressions never care about.
func (p *Parser) parseExpression() (ast.Expression, error) {
	expr, _, err := p.parseExpressionInfo()
	return expr, err
}

// parseExpressionInfo parses one full expression and reports whether the
// expression, used as a non-final statement, requires a trailing semicolon.
// Blocks, conditionals, loops and vector literals do not; everything else
// does. A trailing `.method(args)` chain can follow any alternative
// (`[1, 2].len()` is legal), and the result of such a fold is a bare
// expression again, so it requires a semicolon.
func (p *Parser) parseExpressionInfo() (ast.Expression, bool, error) {
	expr, needsSemi, err := p.parseAlternatives()
	if err != nil {
		return nil, false, err
	}
	folded, err := p.parseMethodCalls(expr)
	if err != nil {
		return nil, false, err
	}
	if folded != expr {
		needsSemi = true
	}
	return folded, needsSemi, nil
}

// parseAlternatives tries the expression alternatives in a fixed order
// before falling through to the precedence tiers: function call, vector
// literal, if, block, ranged-for, while. Each speculative try rewinds the
// cursor on failure.
func (p *Parser) parseAlternatives() (ast.Expression, bool, error) {
	if call, ok, err := p.tryParseCall(); ok || err != nil {
		return call, true, err
	}
	if vec, ok, err := p.tryParseVector(); ok || err != nil {
		return vec, false, err
	}

	tok := p.cur.Current()
	switch tok.Type {
	case lexer.IF:
		expr, err := p.parseIf()
		return expr, false, err
	case lexer.LBRACE:
		expr, err := p.parseBlock()
		return expr, false, err
	case lexer.FOR:
		expr, err := p.parseRangedFor("")
		return expr, false, err
	case lexer.WHILE:
		expr, err := p.parseWhile("")
		return expr, false, err
	case lexer.TAG:
		switch p.cur.Peek(1).Type {
		case lexer.FOR:
			p.cur.Next()
			expr, err := p.parseRangedFor(tok.Literal)
			return expr, false, err
		case lexer.WHILE:
			p.cur.Next()
			expr, err := p.parseWhile(tok.Literal)
			return expr, false, err
		}
		return nil, false, p.errorf(tok.Pos, "contract tag %q must be followed by a loop", tok.Literal)
	}

	expr, err := p.parseTier4()
	return expr, true, err
}

// tryParseCall speculatively parses `name(arg, ...)`. A bare identifier not
// followed by an opening parenthesis rewinds and reports no match; once the
// parenthesis is consumed the parse is committed and failures are real
// errors.
func (p *Parser) tryParseCall() (ast.Expression, bool, error) {
	mark := p.cur.Mark()
	nameTok, ok := p.cur.TryMatch(lexer.IDENT)
	if !ok {
		return nil, false, nil
	}
	if _, ok := p.cur.TryMatch(lexer.LPAREN); !ok {
		p.cur.Reset(mark)
		return nil, false, nil
	}

	var args []ast.Expression
	for p.cur.Current().Type != lexer.RPAREN {
		if len(args) > 0 {
			if _, err := p.expect(lexer.COMMA); err != nil {
				return nil, true, err
			}
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, true, err
		}
		args = append(args, arg)
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, true, err
	}

	return &ast.FunctionCall{
		BaseNode: ast.BaseNode{Position: nameTok.Pos},
		Name:     nameTok.Literal,
		Args:     args,
		Registry: p.registry,
	}, true, nil
}

// tryParseVector parses the two vector literal forms, with or without the
// `vec!` prefix: the element sequence `[e1, e2, ...]` and the repeat
// shorthand `[expr; count]`, whose count must be a plain integer literal so
// the vector's length is known at lowering time.
func (p *Parser) tryParseVector() (ast.Expression, bool, error) {
	mark := p.cur.Mark()
	tok := p.cur.Current()

	switch tok.Type {
	case lexer.VEC:
		p.cur.Next()
		if _, ok := p.cur.TryMatch(lexer.BANG); !ok {
			p.cur.Reset(mark)
			return nil, false, nil
		}
		if _, err := p.expect(lexer.LBRACK); err != nil {
			return nil, true, err
		}
	case lexer.LBRACK:
		p.cur.Next()
	default:
		return nil, false, nil
	}

	pos := tok.Pos
	if _, ok := p.cur.TryMatch(lexer.RBRACK); ok {
		return &ast.Vector{BaseNode: ast.BaseNode{Position: pos}}, true, nil
	}

	first, err := p.parseExpression()
	if err != nil {
		return nil, true, err
	}

	if _, ok := p.cur.TryMatch(lexer.SEMICOLON); ok {
		countTok, err := p.expect(lexer.INT)
		if err != nil {
			return nil, true, err
		}
		count, convErr := strconv.Atoi(countTok.Literal)
		if convErr != nil {
			return nil, true, p.errorf(countTok.Pos, "vector repeat count must be a plain integer literal, found %q", countTok.Literal)
		}
		if _, err := p.expect(lexer.RBRACK); err != nil {
			return nil, true, err
		}
		elems := make([]ast.Expression, count)
		for i := range elems {
			elems[i] = first
		}
		return &ast.Vector{BaseNode: ast.BaseNode{Position: pos}, Elements: elems}, true, nil
	}

	elems := []ast.Expression{first}
	for {
		if _, ok := p.cur.TryMatch(lexer.RBRACK); ok {
			break
		}
		if _, err := p.expect(lexer.COMMA); err != nil {
			return nil, true, err
		}
		elem, err := p.parseExpression()
		if err != nil {
			return nil, true, err
		}
		elems = append(elems, elem)
	}
	return &ast.Vector{BaseNode: ast.BaseNode{Position: pos}, Elements: elems}, true, nil
}

// parseIf parses `if cond { ... }` with an optional `else if` chain or
// trailing `else { ... }`. The else branch of an `else if` is another If
// node; a bare else is a Block.
func (p *Parser) parseIf() (ast.Expression, error) {
	ifTok, err := p.expect(lexer.IF)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	then, err := p.parseStatements(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}

	var elseExpr ast.Expression
	if _, ok := p.cur.TryMatch(lexer.ELSE); ok {
		if p.cur.Current().Type == lexer.IF {
			elseExpr, err = p.parseIf()
		} else {
			elseExpr, err = p.parseBlock()
		}
		if err != nil {
			return nil, err
		}
	}

	return &ast.If{
		BaseNode:  ast.BaseNode{Position: ifTok.Pos},
		Condition: cond,
		Then:      then,
		Else:      elseExpr,
	}, nil
}

// parseBlock parses `{ stmt; ...; expr }`.
func (p *Parser) parseBlock() (ast.Expression, error) {
	braceTok, err := p.expect(lexer.LBRACE)
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return &ast.Block{BaseNode: ast.BaseNode{Position: braceTok.Pos}, Statements: stmts}, nil
}

// parseRangedFor parses `for ident in start..end { ... }`. The contract tag,
// if any, has already been consumed by the caller.
func (p *Parser) parseRangedFor(tag string) (ast.Expression, error) {
	forTok, err := p.expect(lexer.FOR)
	if err != nil {
		return nil, err
	}
	iterTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IN); err != nil {
		return nil, err
	}
	start, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.DOTDOT); err != nil {
		return nil, err
	}
	end, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseStatements(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}

	return &ast.RangedFor{
		BaseNode: ast.BaseNode{Position: forTok.Pos},
		Tag:      tag,
		Iterator: iterTok.Literal,
		Start:    start,
		End:      end,
		Body:     body,
	}, nil
}

// parseWhile parses `while cond { ... }`. The contract tag, if any, has
// already been consumed by the caller.
func (p *Parser) parseWhile(tag string) (ast.Expression, error) {
	whileTok, err := p.expect(lexer.WHILE)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseStatements(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}

	return &ast.WhileLoop{
		BaseNode:  ast.BaseNode{Position: whileTok.Pos},
		Tag:       tag,
		Condition: cond,
		Body:      body,
	}, nil
}

// --- Precedence tiers ------------------------------------------------------
//
// Tier 1 binds tightest (* / & |), tier 4 loosest (&& ||). Each tier parses
// a lower-tier operand, then folds operators of its own tier left to right.
// Before each fold the cursor is marked; if the right-hand operand fails to
// parse, the cursor rewinds to the last good point and the tier returns what
// it has, leaving the unconsumed tokens to the caller.

// parseTier4 folds && and || over tier-3 operands.
func (p *Parser) parseTier4() (ast.Expression, error) {
	left, err := p.parseTier3()
	if err != nil {
		return nil, err
	}
	for {
		var kind ast.OpKind
		switch p.cur.Current().Type {
		case lexer.AMPAMP:
			kind = ast.And
		case lexer.PIPEPIPE:
			kind = ast.Or
		default:
			return left, nil
		}
		mark := p.cur.Mark()
		opTok := p.cur.Next()
		right, err := p.parseTier3()
		if err != nil {
			p.cur.Reset(mark)
			return left, nil
		}
		left = &ast.Operation{BaseNode: ast.BaseNode{Position: opTok.Pos}, Kind: kind, Left: left, Right: right}
	}
}

// parseTier3 folds the comparison operators over tier-2 operands. The lexer
// already distinguishes the two-character forms (== != <= >=) from the
// one-character ones, so no character-level lookahead is needed here.
func (p *Parser) parseTier3() (ast.Expression, error) {
	left, err := p.parseTier2()
	if err != nil {
		return nil, err
	}
	for {
		var kind ast.OpKind
		switch p.cur.Current().Type {
		case lexer.EQ:
			kind = ast.Eq
		case lexer.NOTEQ:
			kind = ast.Ne
		case lexer.LTE:
			kind = ast.Lte
		case lexer.GTE:
			kind = ast.Gte
		case lexer.LT:
			kind = ast.Lt
		case lexer.GT:
			kind = ast.Gt
		default:
			return left, nil
		}
		mark := p.cur.Mark()
		opTok := p.cur.Next()
		right, err := p.parseTier2()
		if err != nil {
			p.cur.Reset(mark)
			return left, nil
		}
		left = &ast.Operation{BaseNode: ast.BaseNode{Position: opTok.Pos}, Kind: kind, Left: left, Right: right}
	}
}

// parseTier2 folds + and - over tier-1 operands.
func (p *Parser) parseTier2() (ast.Expression, error) {
	left, err := p.parseTier1()
	if err != nil {
		return nil, err
	}
	for {
		var kind ast.OpKind
		switch p.cur.Current().Type {
		case lexer.PLUS:
			kind = ast.Add
		case lexer.MINUS:
			kind = ast.Sub
		default:
			return left, nil
		}
		mark := p.cur.Mark()
		opTok := p.cur.Next()
		right, err := p.parseTier1()
		if err != nil {
			p.cur.Reset(mark)
			return left, nil
		}
		left = &ast.Operation{BaseNode: ast.BaseNode{Position: opTok.Pos}, Kind: kind, Left: left, Right: right}
	}
}

// parseTier1 folds * / & | over value operands.
func (p *Parser) parseTier1() (ast.Expression, error) {
	left, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	for {
		var kind ast.OpKind
		switch p.cur.Current().Type {
		case lexer.STAR:
			kind = ast.Mul
		case lexer.SLASH:
			kind = ast.Div
		case lexer.AMP:
			kind = ast.BitAnd
		case lexer.PIPE:
			kind = ast.BitOr
		default:
			return left, nil
		}
		mark := p.cur.Mark()
		opTok := p.cur.Next()
		right, err := p.parseValue()
		if err != nil {
			p.cur.Reset(mark)
			return left, nil
		}
		left = &ast.Operation{BaseNode: ast.BaseNode{Position: opTok.Pos}, Kind: kind, Left: left, Right: right}
	}
}

// parseValue parses the tier operand forms: indexed access `name[index]`,
// bare identifier (a Reference, or a Bool literal for true/false), numeric,
// char and string literals, and parenthesized sub-expressions, then folds
// any trailing `.method(args)` calls onto the parsed value. Parenthesized
// sub-expressions re-enter the full expression parser, so a function call or
// block is a legal operand when wrapped in parentheses.
func (p *Parser) parseValue() (ast.Expression, error) {
	base, err := p.parseBaseValue()
	if err != nil {
		return nil, err
	}
	return p.parseMethodCalls(base)
}

// parseMethodCalls folds postfix `.method(args)` chains onto base. A dot
// not followed by an identifier and an opening parenthesis is left for the
// caller.
func (p *Parser) parseMethodCalls(base ast.Expression) (ast.Expression, error) {
	for p.cur.Current().Type == lexer.DOT &&
		p.cur.Peek(1).Type == lexer.IDENT &&
		p.cur.Peek(2).Type == lexer.LPAREN {
		p.cur.Next() // .
		methodTok := p.cur.Next()
		p.cur.Next() // (

		var args []ast.Expression
		for p.cur.Current().Type != lexer.RPAREN {
			if len(args) > 0 {
				if _, err := p.expect(lexer.COMMA); err != nil {
					return nil, err
				}
			}
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}

		base = &ast.MethodCall{
			BaseNode: ast.BaseNode{Position: methodTok.Pos},
			Receiver: base,
			Method:   methodTok.Literal,
			Args:     args,
		}
	}
	return base, nil
}

func (p *Parser) parseBaseValue() (ast.Expression, error) {
	tok := p.cur.Current()
	switch tok.Type {
	case lexer.IDENT:
		if p.cur.Peek(1).Type == lexer.LBRACK {
			p.cur.Next() // name
			p.cur.Next() // [
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACK); err != nil {
				return nil, err
			}
			return &ast.IndexedAccessExpression{
				BaseNode: ast.BaseNode{Position: tok.Pos},
				Name:     tok.Literal,
				Index:    index,
			}, nil
		}
		p.cur.Next()
		switch tok.Literal {
		case "true":
			return &ast.Bool{BaseNode: ast.BaseNode{Position: tok.Pos}, Value: true}, nil
		case "false":
			return &ast.Bool{BaseNode: ast.BaseNode{Position: tok.Pos}, Value: false}, nil
		}
		return &ast.Reference{BaseNode: ast.BaseNode{Position: tok.Pos}, Name: tok.Literal}, nil
	case lexer.INT:
		p.cur.Next()
		return p.parseIntToken(tok)
	case lexer.FLOAT:
		p.cur.Next()
		return p.parseFloatToken(tok)
	case lexer.CHAR:
		p.cur.Next()
		runes := []rune(tok.Literal)
		var ch rune
		if len(runes) > 0 {
			ch = runes[0]
		}
		return &ast.Char{BaseNode: ast.BaseNode{Position: tok.Pos}, Value: ch}, nil
	case lexer.STRING:
		p.cur.Next()
		return &ast.String{BaseNode: ast.BaseNode{Position: tok.Pos}, Value: tok.Literal}, nil
	case lexer.LPAREN:
		p.cur.Next()
		expr, _, err := p.parseExpressionInfo()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.errorf(tok.Pos, "expected a value, found %s %q", tok.Type, tok.Literal)
	}
}

var intSuffixWidths = map[string]ast.IntWidth{
	"i8": ast.I8, "i16": ast.I16, "i32": ast.I32, "i64": ast.I64, "isize": ast.Isize,
	"u8": ast.U8, "u16": ast.U16, "u32": ast.U32, "u64": ast.U64, "usize": ast.Usize,
}

// parseIntToken converts an INT token into an Integer literal. A width
// suffix (7u8, 10i64) selects the width; an unsuffixed literal defaults to
// I32.
func (p *Parser) parseIntToken(tok lexer.Token) (ast.Expression, error) {
	lit := tok.Literal
	digits := lit
	width := ast.I32
	if i := strings.IndexFunc(lit, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
		suffix := lit[i:]
		w, ok := intSuffixWidths[suffix]
		if !ok {
			return nil, p.errorf(tok.Pos, "unknown integer width suffix %q", suffix)
		}
		digits = lit[:i]
		width = w
	}

	var value int64
	if width.Unsigned() {
		u, err := strconv.ParseUint(digits, 10, 64)
		if err != nil {
			return nil, p.errorf(tok.Pos, "invalid integer literal %q", lit)
		}
		value = int64(u)
	} else {
		v, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return nil, p.errorf(tok.Pos, "invalid integer literal %q", lit)
		}
		value = v
	}

	return &ast.Integer{BaseNode: ast.BaseNode{Position: tok.Pos}, Width: width, Value: value}, nil
}

// parseFloatToken converts a FLOAT token into a Float literal. An f32/f64
// suffix selects the width; the default is F64.
func (p *Parser) parseFloatToken(tok lexer.Token) (ast.Expression, error) {
	lit := tok.Literal
	width := ast.F64
	switch {
	case strings.HasSuffix(lit, "f32"):
		width = ast.F32
		lit = strings.TrimSuffix(lit, "f32")
	case strings.HasSuffix(lit, "f64"):
		lit = strings.TrimSuffix(lit, "f64")
	}
	value, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, p.errorf(tok.Pos, "invalid float literal %q", tok.Literal)
	}
	return &ast.Float{BaseNode: ast.BaseNode{Position: tok.Pos}, Width: width, Value: value}, nil
}
