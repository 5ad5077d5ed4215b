package parser

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/lexer"
)

// parseAttribute parses a contract attribute preceding a function
// declaration:
//
//	#[contract(tag: { pre_condition: f, maintenance_condition: g, ... }, ...)]
//
// Each tag maps to a Contract whose condition slots name sibling functions
// in the same module. Condition keys other than pre_condition,
// maintenance_condition and post_condition are accepted and ignored, so a
// payload can carry auxiliary annotations without breaking lowering.
func (p *Parser) parseAttribute() (map[string]*ast.Contract, error) {
	if _, err := p.expect(lexer.HASH); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACK); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if nameTok.Literal != "contract" {
		return nil, p.errorf(nameTok.Pos, "unknown attribute %q, expected contract", nameTok.Literal)
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	contracts := make(map[string]*ast.Contract)
	for p.cur.Current().Type != lexer.RPAREN {
		if len(contracts) > 0 {
			if _, err := p.expect(lexer.COMMA); err != nil {
				return nil, err
			}
		}
		tagTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		contract, err := p.parseContractBody()
		if err != nil {
			return nil, err
		}
		contracts[tagTok.Literal] = contract
	}

	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACK); err != nil {
		return nil, err
	}
	return contracts, nil
}

// parseContractBody parses the `{ condition_key: function_ident, ... }` map
// for one tag.
func (p *Parser) parseContractBody() (*ast.Contract, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	contract := &ast.Contract{}
	first := true
	for p.cur.Current().Type != lexer.RBRACE {
		if !first {
			if _, err := p.expect(lexer.COMMA); err != nil {
				return nil, err
			}
		}
		first = false

		keyTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		fnTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}

		ref := &ast.ConditionRef{
			Name:    fnTok.Literal,
			Builder: registryBuilder(p.registry, fnTok.Literal),
		}
		switch keyTok.Literal {
		case "pre_condition":
			contract.Pre = ref
		case "maintenance_condition":
			contract.Maintenance = ref
		case "post_condition":
			contract.Post = ref
		}
	}

	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return contract, nil
}

// registryBuilder defers the lookup of a condition function to invocation
// time, so an attribute can name a function declared later in the module.
func registryBuilder(registry *ast.Registry, name string) ast.FunctionBuilder {
	return func() *ast.Function {
		return registry.MustLookup(name)()
	}
}
