// Package ast defines the nyan syntax tree: a file is a list of object
// declarations, each carrying its originating token for diagnostics.
package ast

import (
	"github.com/nyan-lang/nyan/pkgs/lexer"
	"github.com/nyan-lang/nyan/pkgs/source"
)

// File is the root AST node: every object declaration found in one
// source unit, in declaration order.
type File struct {
	Objects []*ObjectDecl
}

// InheritOp is the operator used in an inheritance-modification clause
// (`[+Parent, ...]` on a patch). Only Add is presently valid; any other
// operator is rejected by the parser.
type InheritOp int

const (
	InheritAdd InheritOp = iota
)

// InheritMod is one `(+ Id)` entry of a patch's `[...]` clause.
type InheritMod struct {
	Op   InheritOp
	Name Ident
}

// Ident is a bare identifier reference together with the location it
// was written at, used for every name an AST node needs to resolve
// later (parents, patch targets, type names, value references).
type Ident struct {
	Name     string
	Location source.Location
}

// ObjectDecl is one top-level object declaration.
type ObjectDecl struct {
	Name           Ident
	PatchTargets   []Ident
	InheritanceAdd []InheritMod
	Parents        []Ident
	Members        []*MemberDecl
	Location       source.Location
}

// MemberDecl is one member line inside an object body. At least one
// of DeclaredType or (Operation, Value) must be present — the parser
// rejects a bare name with neither.
type MemberDecl struct {
	Name        Ident
	DeclaredType *TypeExpr // nil if not declared here
	Operation   Op
	HasOp       bool
	Value       *ValueExpr // nil if HasOp is false
	Location    source.Location
}

// TypeExpr is a parsed type expression: a bare name, or a container
// name carrying a payload type expression.
type TypeExpr struct {
	Name     Ident
	Payload  *TypeExpr // non-nil only for container kinds
	Location source.Location
}

// ValueExpr is an unresolved literal, identifier, or container literal
// appearing on the right-hand side of an operator; the semantic pass
// turns it into a concrete value.Value once types are known.
//
// A scalar atom (Id/Int/Float/String) carries Text and leaves Elements
// nil. A container literal carries TokenKind == lexer.LBrace (a Set,
// written `{a, b}`) or lexer.LAngle (an OrderedSet, written `<a, b>`)
// and holds its member atoms in Elements; Text is unused.
type ValueExpr struct {
	TokenKind lexer.Kind
	Text      string
	Elements  []*ValueExpr
	Location  source.Location
}

// Op is the operator a MemberDecl's value clause was written with.
// Parser-level Op is purely syntactic; the semantic pass validates it
// against the permitted-operation table for the member's actual type.
type Op int

const (
	OpInvalid Op = iota
	OpAssign
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpAddAssign
	OpSubtractAssign
	OpMultiplyAssign
	OpDivideAssign
	OpUnionAssign
	OpIntersectAssign
)

var opText = map[string]Op{
	"=":  OpAssign,
	"+":  OpAdd,
	"-":  OpSubtract,
	"*":  OpMultiply,
	"/":  OpDivide,
	"+=": OpAddAssign,
	"-=": OpSubtractAssign,
	"*=": OpMultiplyAssign,
	"/=": OpDivideAssign,
	"|=": OpUnionAssign,
	"&=": OpIntersectAssign,
}

// OpFromText maps an Operator token's literal text to an Op, or
// OpInvalid if the text is not a recognized operator.
func OpFromText(text string) Op {
	if op, ok := opText[text]; ok {
		return op
	}
	return OpInvalid
}

func (o Op) String() string {
	for text, op := range opText {
		if op == o {
			return text
		}
	}
	return "<invalid-op>"
}
