package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyan-lang/nyan/pkgs/ast"
	"github.com/nyan-lang/nyan/pkgs/lexer"
	"github.com/nyan-lang/nyan/pkgs/parser"
	"github.com/nyan-lang/nyan/pkgs/source"
)

// astCmpOpts ignores source.Location throughout the tree: it carries
// an unexported line index inside *source.Unit that go-cmp can't read,
// and it is a diagnostic handle, not part of a declaration's structure.
var astCmpOpts = cmp.Options{cmpopts.IgnoreTypes(source.Location{})}

func parse(t *testing.T, text string) *ast.File {
	t.Helper()
	file, err := parser.Parse(source.New("<test>", text))
	require.NoError(t, err)
	return file
}

func TestParse_SimpleObject(t *testing.T) {
	file := parse(t, "First():\n    member : int = 17\n")
	require.Len(t, file.Objects, 1)
	decl := file.Objects[0]
	assert.Equal(t, "First", decl.Name.Name)
	require.Len(t, decl.Members, 1)
	m := decl.Members[0]
	assert.Equal(t, "member", m.Name.Name)
	require.NotNil(t, m.DeclaredType)
	assert.Equal(t, "int", m.DeclaredType.Name.Name)
	assert.True(t, m.HasOp)
	assert.Equal(t, ast.OpAssign, m.Operation)
	assert.Equal(t, "17", m.Value.Text)
}

func TestParse_ParentsAndPass(t *testing.T) {
	file := parse(t, "A():\n    pass\nB():\n    pass\nC(A, B):\n    pass\n")
	require.Len(t, file.Objects, 3)
	c := file.Objects[2]
	require.Len(t, c.Parents, 2)
	assert.Equal(t, "A", c.Parents[0].Name)
	assert.Equal(t, "B", c.Parents[1].Name)
	assert.Empty(t, c.Members)
}

func TestParse_PatchWithTargetsAndOp(t *testing.T) {
	file := parse(t, "First():\n    member : int = 17\nFirstPatch<First>():\n    member += 7\n")
	patch := file.Objects[1]
	require.Len(t, patch.PatchTargets, 1)
	assert.Equal(t, "First", patch.PatchTargets[0].Name)
	m := patch.Members[0]
	assert.Nil(t, m.DeclaredType)
	assert.True(t, m.HasOp)
	assert.Equal(t, ast.OpAddAssign, m.Operation)
	assert.Equal(t, "7", m.Value.Text)
}

func TestParse_InheritanceModification(t *testing.T) {
	file := parse(t, "A():\n    pass\nB():\n    pass\nC<A>[+B]():\n    pass\n")
	decl := file.Objects[2]
	require.Len(t, decl.InheritanceAdd, 1)
	assert.Equal(t, "B", decl.InheritanceAdd[0].Name.Name)
}

func TestParse_ContainerLiterals(t *testing.T) {
	file := parse(t, "Base():\n    m : set(int) = {1, 2, 3}\n    o : orderedset(int) = <1, 2, 3>\n")
	members := file.Objects[0].Members
	require.Len(t, members, 2)

	setExpr := members[0].Value
	assert.Equal(t, lexer.LBrace, setExpr.TokenKind)
	require.Len(t, setExpr.Elements, 3)
	assert.Equal(t, "1", setExpr.Elements[0].Text)

	orderedExpr := members[1].Value
	assert.Equal(t, lexer.LAngle, orderedExpr.TokenKind)
	require.Len(t, orderedExpr.Elements, 3)
}

func TestParse_ContainerTypeExpr(t *testing.T) {
	file := parse(t, "Base():\n    m : set(int) = {1}\n")
	typeExpr := file.Objects[0].Members[0].DeclaredType
	assert.Equal(t, "set", typeExpr.Name.Name)
	require.NotNil(t, typeExpr.Payload)
	assert.Equal(t, "int", typeExpr.Payload.Name.Name)
}

func TestParse_MemberMissingTypeAndOp(t *testing.T) {
	_, err := parser.Parse(source.New("<test>", "A():\n    member\n"))
	require.Error(t, err)
}

func TestParse_BadInheritanceOperator(t *testing.T) {
	_, err := parser.Parse(source.New("<test>", "A():\n    pass\nB<A>[-A]():\n    pass\n"))
	require.Error(t, err)
}

func TestParse_EmptyBodyRequiresPassOrMember(t *testing.T) {
	_, err := parser.Parse(source.New("<test>", "A():\n"))
	require.Error(t, err)
}

// Two token-for-token equivalent sources (one with an extra blank and
// comment line, which the lexer discards before indentation ever sees
// them) must parse to the same AST shape.
func TestParse_StructurallyEquivalentSourcesProduceSameAST(t *testing.T) {
	a := parse(t, "A(Root):\n    member : int = 17\n    other += 3\n")
	b := parse(t, "\n# a comment\nA(Root):\n    member : int = 17\n\n    other += 3\n")

	if diff := cmp.Diff(a, b, astCmpOpts...); diff != "" {
		t.Errorf("AST mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_DivergentSourcesProduceDifferentAST(t *testing.T) {
	a := parse(t, "A(Root):\n    member : int = 17\n")
	b := parse(t, "A(Root):\n    member : int = 18\n")

	assert.NotEqual(t, "", cmp.Diff(a, b, astCmpOpts...))
}
