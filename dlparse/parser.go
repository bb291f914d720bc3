package dlparse

import "fmt"

// Parse reads the full Datalog source text dlemit.Program produces (or any
// text in the same grammar) into a Document.
func Parse(src string) (Document, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return Document{}, err
	}
	return p.parseDocument()
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(k tokenKind) (token, error) {
	if p.tok.kind != k {
		return token{}, fmt.Errorf("dlparse: unexpected token %q (kind %d)", p.tok.text, p.tok.kind)
	}
	t := p.tok
	return t, p.advance()
}

func (p *parser) parseDocument() (Document, error) {
	var doc Document
	var pendingLabel string
	haveLabel := false

	for p.tok.kind != tokEOF {
		switch p.tok.kind {
		case tokComment:
			pendingLabel = p.tok.text
			haveLabel = true
			if err := p.advance(); err != nil {
				return Document{}, err
			}
		case tokDecl:
			decl, err := p.parseDecl()
			if err != nil {
				return Document{}, err
			}
			doc.Decls = append(doc.Decls, decl)
			haveLabel = false
		case tokOutput:
			if err := p.advance(); err != nil {
				return Document{}, err
			}
			name, err := p.expect(tokIdent)
			if err != nil {
				return Document{}, err
			}
			doc.Outputs = append(doc.Outputs, name.text)
			haveLabel = false
		case tokIdent:
			stmt, isRule, err := p.parseRuleOrFact()
			if err != nil {
				return Document{}, err
			}
			if isRule {
				r := stmt.(Rule)
				if haveLabel {
					r.Label = pendingLabel
				}
				doc.Rules = append(doc.Rules, r)
			} else {
				doc.Facts = append(doc.Facts, stmt.(Fact))
			}
			haveLabel = false
		default:
			return Document{}, fmt.Errorf("dlparse: unexpected token %q at top level", p.tok.text)
		}
	}
	return doc, nil
}

func (p *parser) parseDecl() (Decl, error) {
	if err := p.advance(); err != nil { // consume '.decl'
		return Decl{}, err
	}
	name, err := p.expect(tokIdent)
	if err != nil {
		return Decl{}, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return Decl{}, err
	}
	var args []DeclArg
	for p.tok.kind != tokRParen {
		argName, err := p.expect(tokIdent)
		if err != nil {
			return Decl{}, err
		}
		if _, err := p.expect(tokColon); err != nil {
			return Decl{}, err
		}
		typeName, err := p.expect(tokIdent)
		if err != nil {
			return Decl{}, err
		}
		args = append(args, DeclArg{Name: argName.text, Type: typeName.text})
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return Decl{}, err
			}
		}
	}
	if _, err := p.expect(tokRParen); err != nil {
		return Decl{}, err
	}
	return Decl{Name: name.text, Args: args}, nil
}

// parseRuleOrFact parses one top-level `Name(...) ...` statement: either a
// fact (`Name(args).`) or a rule (`Name(args) :- body....`).
func (p *parser) parseRuleOrFact() (any, bool, error) {
	head, err := p.parseAtom()
	if err != nil {
		return nil, false, err
	}
	if p.tok.kind == tokDot {
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		return Fact{Atom: head}, false, nil
	}
	if _, err := p.expect(tokImplies); err != nil {
		return nil, false, err
	}
	var body []Clause
	for {
		clause, err := p.parseClause()
		if err != nil {
			return nil, false, err
		}
		body = append(body, clause)
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, false, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(tokDot); err != nil {
		return nil, false, err
	}
	return Rule{Head: head, Body: body}, true, nil
}

// parseClause parses one rule-body element: an atom (`Name(args)`), or an
// infix comparison (`term OP term`). Both start with a term, so this
// backtracks to a saved lexer/token position if the atom parse fails.
func (p *parser) parseClause() (Clause, error) {
	if p.tok.kind == tokIdent {
		savedLex, savedTok := *p.lex, p.tok
		if atom, err := p.parseAtom(); err == nil {
			return atom, nil
		}
		*p.lex, p.tok = savedLex, savedTok
	}
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	op, err := p.expect(tokOp)
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return Infix{Lhs: lhs, Op: op.text, Rhs: rhs}, nil
}

func (p *parser) parseAtom() (Atom, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return Atom{}, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return Atom{}, err
	}
	var args []Term
	for p.tok.kind != tokRParen {
		t, err := p.parseTerm()
		if err != nil {
			return Atom{}, err
		}
		args = append(args, t)
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return Atom{}, err
			}
		}
	}
	if _, err := p.expect(tokRParen); err != nil {
		return Atom{}, err
	}
	return Atom{Predicate: name.text, Args: args}, nil
}

func (p *parser) parseTerm() (Term, error) {
	switch p.tok.kind {
	case tokString:
		s := Symbol(p.tok.text)
		return s, p.advance()
	case tokNumber:
		n := Number(p.tok.text)
		return n, p.advance()
	case tokIdent:
		v := Variable(p.tok.text)
		return v, p.advance()
	default:
		return nil, fmt.Errorf("dlparse: unexpected token %q where a term was expected", p.tok.text)
	}
}
