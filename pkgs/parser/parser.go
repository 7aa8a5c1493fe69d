// Package parser implements a hand-written recursive descent parser
// over a lexer.Cursor, assembling an ast.File. It trusts the lexer to
// have handled indentation and tokenization correctly and focuses
// purely on assembling the tree.
package parser

import (
	"github.com/nyan-lang/nyan/pkgs/ast"
	"github.com/nyan-lang/nyan/pkgs/lexer"
	"github.com/nyan-lang/nyan/pkgs/langerr"
	"github.com/nyan-lang/nyan/pkgs/source"
)

// Parser holds a token cursor for one source unit.
type Parser struct {
	unit   *source.Unit
	cursor *lexer.Cursor
}

// Parse tokenizes and parses unit's text into an ast.File, or returns
// the first ASTError/TokenizeError encountered.
func Parse(unit *source.Unit, opts ...lexer.Option) (*ast.File, error) {
	lx := lexer.New(unit, opts...)
	tokens, err := lx.Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{unit: unit, cursor: lexer.NewCursor(unit, tokens)}
	return p.parseFile()
}

func (p *Parser) parseFile() (*ast.File, error) {
	file := &ast.File{}
	for {
		p.skipBlankLines()
		tok, err := p.cursor.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.EndFile {
			return file, nil
		}
		obj, err := p.parseObjectDecl()
		if err != nil {
			return nil, err
		}
		file.Objects = append(file.Objects, obj)
	}
}

// skipBlankLines consumes any stray EndLine tokens between top-level
// declarations (the lexer only ever emits these between statements,
// never inside one).
func (p *Parser) skipBlankLines() {
	for {
		tok, err := p.cursor.Peek()
		if err != nil || tok.Kind != lexer.EndLine {
			return
		}
		_, _ = p.cursor.Next()
	}
}

// parseObjectDecl parses:
//
//	Id ('<' IdList '>')? ('[' InhMods ']')? '(' IdList ')' ':' EndLine
//	Indent MemberOrPass (MemberOrPass)* (Dedent | EndFile)
func (p *Parser) parseObjectDecl() (*ast.ObjectDecl, error) {
	nameTok, err := p.expect(lexer.Id)
	if err != nil {
		return nil, err
	}
	decl := &ast.ObjectDecl{
		Name:     p.ident(nameTok),
		Location: loc(p.unit, nameTok),
	}

	if err := p.maybeParsePatchTargets(decl); err != nil {
		return nil, err
	}
	if err := p.maybeParseInheritanceMods(decl); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	parents, err := p.parseIdList(lexer.RParen)
	if err != nil {
		return nil, err
	}
	decl.Parents = parents
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Colon); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.EndLine); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Indent); err != nil {
		return nil, err
	}

	if err := p.parseBody(decl); err != nil {
		return nil, err
	}

	// Dedent or EndFile ends the body; either is acceptable (EndFile
	// for a file whose last object is also at top level).
	tok, err := p.cursor.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.Dedent {
		_, _ = p.cursor.Next()
	} else if tok.Kind != lexer.EndFile {
		return nil, p.unexpected(tok, "Dedent or end of file")
	}
	return decl, nil
}

func (p *Parser) maybeParsePatchTargets(decl *ast.ObjectDecl) error {
	tok, err := p.cursor.Peek()
	if err != nil {
		return err
	}
	if tok.Kind != lexer.LAngle {
		return nil
	}
	_, _ = p.cursor.Next()
	ids, err := p.parseIdList(lexer.RAngle)
	if err != nil {
		return err
	}
	decl.PatchTargets = ids
	_, err = p.expect(lexer.RAngle)
	return err
}

func (p *Parser) maybeParseInheritanceMods(decl *ast.ObjectDecl) error {
	tok, err := p.cursor.Peek()
	if err != nil {
		return err
	}
	if tok.Kind != lexer.LBracket {
		return nil
	}
	_, _ = p.cursor.Next()

	for {
		tok, err := p.cursor.Peek()
		if err != nil {
			return err
		}
		if tok.Kind == lexer.RBracket {
			break
		}
		opTok, err := p.expect(lexer.Operator)
		if err != nil {
			return err
		}
		if opTok.Text != "+" {
			return langerr.New(langerr.AST, loc(p.unit, opTok),
				"inheritance modification only supports '+', got %q", opTok.Text)
		}
		idTok, err := p.expect(lexer.Id)
		if err != nil {
			return err
		}
		decl.InheritanceAdd = append(decl.InheritanceAdd, ast.InheritMod{
			Op:   ast.InheritAdd,
			Name: p.ident(idTok),
		})
		tok, err = p.cursor.Peek()
		if err != nil {
			return err
		}
		if tok.Kind == lexer.Comma {
			_, _ = p.cursor.Next()
			continue
		}
		break
	}
	_, err = p.expect(lexer.RBracket)
	return err
}

// parseIdList parses a comma-separated identifier list terminated by
// (but not consuming) the given closing token kind.
func (p *Parser) parseIdList(closing lexer.Kind) ([]ast.Ident, error) {
	var ids []ast.Ident
	tok, err := p.cursor.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == closing {
		return ids, nil
	}
	for {
		idTok, err := p.expect(lexer.Id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, p.ident(idTok))
		tok, err := p.cursor.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.Comma {
			_, _ = p.cursor.Next()
			continue
		}
		return ids, nil
	}
}

// parseBody parses one-or-more MemberOrPass lines. `pass` alone
// produces a zero-member object; otherwise every line is a member.
func (p *Parser) parseBody(decl *ast.ObjectDecl) error {
	first := true
	for {
		tok, err := p.cursor.Peek()
		if err != nil {
			return err
		}
		if tok.Kind == lexer.Dedent || tok.Kind == lexer.EndFile {
			if first {
				return p.unexpected(tok, "'pass' or at least one member declaration")
			}
			return nil
		}
		if tok.Kind == lexer.Pass {
			_, _ = p.cursor.Next()
			if _, err := p.expect(lexer.EndLine); err != nil {
				return err
			}
			first = false
			continue
		}
		member, err := p.parseMemberDecl()
		if err != nil {
			return err
		}
		decl.Members = append(decl.Members, member)
		first = false
	}
}

// parseMemberDecl parses:
//
//	Id (':' Id)? (Operator ValueAtom)? EndLine
func (p *Parser) parseMemberDecl() (*ast.MemberDecl, error) {
	nameTok, err := p.expect(lexer.Id)
	if err != nil {
		return nil, err
	}
	member := &ast.MemberDecl{Name: p.ident(nameTok), Location: loc(p.unit, nameTok)}

	tok, err := p.cursor.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.Colon {
		_, _ = p.cursor.Next()
		typeExpr, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		member.DeclaredType = typeExpr
	}

	tok, err = p.cursor.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.Operator {
		_, _ = p.cursor.Next()
		op := ast.OpFromText(tok.Text)
		if op == ast.OpInvalid {
			return nil, langerr.New(langerr.AST, loc(p.unit, tok), "unknown operator %q", tok.Text)
		}
		member.HasOp = true
		member.Operation = op
		valExpr, err := p.parseValueAtom()
		if err != nil {
			return nil, err
		}
		member.Value = valExpr
	}

	if member.DeclaredType == nil && !member.HasOp {
		return nil, langerr.New(langerr.AST, member.Location,
			"member %q needs a declared type, an operation, or both", member.Name.Name)
	}

	if _, err := p.expect(lexer.EndLine); err != nil {
		return nil, err
	}
	return member, nil
}

// parseValueAtom parses a scalar atom (Id/Int/Float/String) or a
// container literal: `{` atom (',' atom)* `}` for a Set, or `<` atom
// (',' atom)* `>` for an OrderedSet. Container literals supplement the
// BNF's bare value-atom so the set/orderedset member syntax used
// throughout example sources is actually parseable.
func (p *Parser) parseValueAtom() (*ast.ValueExpr, error) {
	tok, err := p.cursor.Peek()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case lexer.LBrace:
		return p.parseContainerLiteral(lexer.LBrace, lexer.RBrace)
	case lexer.LAngle:
		return p.parseContainerLiteral(lexer.LAngle, lexer.RAngle)
	default:
		valTok, err := p.expectOneOf(lexer.Id, lexer.Int, lexer.Float, lexer.String)
		if err != nil {
			return nil, err
		}
		return &ast.ValueExpr{TokenKind: valTok.Kind, Text: valTok.Text, Location: loc(p.unit, valTok)}, nil
	}
}

func (p *Parser) parseContainerLiteral(open, close lexer.Kind) (*ast.ValueExpr, error) {
	openTok, err := p.expect(open)
	if err != nil {
		return nil, err
	}
	expr := &ast.ValueExpr{TokenKind: open, Location: loc(p.unit, openTok)}
	tok, err := p.cursor.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != close {
		for {
			elem, err := p.parseValueAtom()
			if err != nil {
				return nil, err
			}
			expr.Elements = append(expr.Elements, elem)
			tok, err := p.cursor.Peek()
			if err != nil {
				return nil, err
			}
			if tok.Kind == lexer.Comma {
				_, _ = p.cursor.Next()
				continue
			}
			break
		}
	}
	if _, err := p.expect(close); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseTypeExpr parses `Id ('(' TypeExpr ')')?` per the grammar
// summary in the spec (payload in parens, not angle brackets, to stay
// disjoint from patch-target syntax).
func (p *Parser) parseTypeExpr() (*ast.TypeExpr, error) {
	nameTok, err := p.expect(lexer.Id)
	if err != nil {
		return nil, err
	}
	expr := &ast.TypeExpr{Name: p.ident(nameTok), Location: loc(p.unit, nameTok)}

	tok, err := p.cursor.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.LParen {
		_, _ = p.cursor.Next()
		payload, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		expr.Payload = payload
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	tok, err := p.cursor.Next()
	if err != nil {
		return lexer.Token{}, err
	}
	if tok.Kind != k {
		return lexer.Token{}, p.unexpected(tok, k.String())
	}
	return tok, nil
}

func (p *Parser) expectOneOf(kinds ...lexer.Kind) (lexer.Token, error) {
	tok, err := p.cursor.Next()
	if err != nil {
		return lexer.Token{}, err
	}
	for _, k := range kinds {
		if tok.Kind == k {
			return tok, nil
		}
	}
	return lexer.Token{}, p.unexpected(tok, "a value literal")
}

func (p *Parser) unexpected(tok lexer.Token, expected string) error {
	return langerr.New(langerr.AST, loc(p.unit, tok), "expected %s, got %s %q", expected, tok.Kind, tok.Text)
}

func (p *Parser) ident(tok lexer.Token) ast.Ident {
	return ast.Ident{Name: tok.Text, Location: loc(p.unit, tok)}
}

func loc(u *source.Unit, tok lexer.Token) source.Location {
	return source.Location{Unit: u, Line: tok.Line, Column: tok.Column}
}
