package value_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyan-lang/nyan/pkgs/ast"
	"github.com/nyan-lang/nyan/pkgs/source"
	"github.com/nyan-lang/nyan/pkgs/types"
	"github.com/nyan-lang/nyan/pkgs/value"
)

// fakeAncestry answers descendant queries from an explicit
// child -> parents map, enough to exercise Object/Container subtyping
// without a real database.
type fakeAncestry struct {
	parents map[types.ObjectRef][]types.ObjectRef
}

func (a fakeAncestry) IsDescendantOf(x, y types.ObjectRef) bool {
	if x == y {
		return true
	}
	for _, p := range a.parents[x] {
		if a.IsDescendantOf(p, y) {
			return true
		}
	}
	return false
}

func TestPermittedOps_IntAndFloat(t *testing.T) {
	anc := fakeAncestry{}
	assert.True(t, value.PermittedOps(types.Prim(types.Int), ast.OpAddAssign, types.Prim(types.Int), anc))
	assert.True(t, value.PermittedOps(types.Prim(types.Int), ast.OpAddAssign, types.Prim(types.Float), anc))
	assert.False(t, value.PermittedOps(types.Prim(types.Int), ast.OpAddAssign, types.Prim(types.Text), anc))
	assert.False(t, value.PermittedOps(types.Prim(types.Int), ast.OpUnionAssign, types.Prim(types.Int), anc))
}

func TestPermittedOps_TextOnlyAssignAndAdd(t *testing.T) {
	anc := fakeAncestry{}
	textT := types.Prim(types.Text)
	assert.True(t, value.PermittedOps(textT, ast.OpAssign, textT, anc))
	assert.True(t, value.PermittedOps(textT, ast.OpAddAssign, textT, anc))
	assert.False(t, value.PermittedOps(textT, ast.OpSubtractAssign, textT, anc))
}

func TestPermittedOps_ObjectRequiresDescendant(t *testing.T) {
	anc := fakeAncestry{parents: map[types.ObjectRef][]types.ObjectRef{
		"child": {"parent"},
	}}
	parentT := types.ObjType("parent")
	childT := types.ObjType("child")
	otherT := types.ObjType("other")
	assert.True(t, value.PermittedOps(parentT, ast.OpAssign, childT, anc))
	assert.False(t, value.PermittedOps(parentT, ast.OpAssign, otherT, anc))
}

func TestPermittedOps_SetVsOrderedSetUnion(t *testing.T) {
	anc := fakeAncestry{}
	setT := types.ContainerType(types.Set, types.Prim(types.Int))
	orderedT := types.ContainerType(types.OrderedSet, types.Prim(types.Int))
	assert.True(t, value.PermittedOps(setT, ast.OpUnionAssign, setT, anc))
	assert.False(t, value.PermittedOps(orderedT, ast.OpUnionAssign, orderedT, anc))
	assert.True(t, value.PermittedOps(orderedT, ast.OpAddAssign, orderedT, anc))
}

func TestInt_ApplyArithmetic(t *testing.T) {
	v, err := value.Int(17).Apply(ast.OpAddAssign, value.Int(7), source.Location{})
	require.NoError(t, err)
	assert.Equal(t, value.Int(24), v)

	v, err = v.Apply(ast.OpAddAssign, value.Int(7), source.Location{})
	require.NoError(t, err)
	v, err = v.Apply(ast.OpAddAssign, value.Int(7), source.Location{})
	require.NoError(t, err)
	assert.Equal(t, value.Int(38), v)
}

func TestInt_DivideTruncatesTowardZero(t *testing.T) {
	v, err := value.Int(-7).Apply(ast.OpDivideAssign, value.Int(2), source.Location{})
	require.NoError(t, err)
	assert.Equal(t, value.Int(-3), v)
}

func TestInt_DivideByZero(t *testing.T) {
	_, err := value.Int(1).Apply(ast.OpDivideAssign, value.Int(0), source.Location{})
	require.Error(t, err)
}

func TestInt_OverflowDetected(t *testing.T) {
	_, err := value.Int(9223372036854775807).Apply(ast.OpAddAssign, value.Int(1), source.Location{})
	require.Error(t, err)
}

func TestFloat_DivideByZeroIsInf(t *testing.T) {
	v, err := value.Float(1).Apply(ast.OpDivideAssign, value.Float(0), source.Location{})
	require.NoError(t, err)
	assert.True(t, float64(v.(value.Float)) > 1e300 || float64(v.(value.Float)) == math.Inf(1))
}

func TestSet_UnionSubtractIntersect(t *testing.T) {
	intT := types.Prim(types.Int)
	a, err := value.NewSet(intT, value.Int(1), value.Int(2), value.Int(3))
	require.NoError(t, err)
	b, err := value.NewSet(intT, value.Int(2), value.Int(3), value.Int(4))
	require.NoError(t, err)

	union, err := a.Apply(ast.OpUnionAssign, b, source.Location{})
	require.NoError(t, err)
	assert.Equal(t, 4, union.(*value.Set).Len())

	sub, err := a.Apply(ast.OpSubtractAssign, b, source.Location{})
	require.NoError(t, err)
	assert.Equal(t, 1, sub.(*value.Set).Len())

	inter, err := a.Apply(ast.OpIntersectAssign, b, source.Location{})
	require.NoError(t, err)
	assert.Equal(t, 2, inter.(*value.Set).Len())
}

func TestSet_EqualsIgnoresOrder(t *testing.T) {
	intT := types.Prim(types.Int)
	a, err := value.NewSet(intT, value.Int(1), value.Int(2))
	require.NoError(t, err)
	b, err := value.NewSet(intT, value.Int(2), value.Int(1))
	require.NoError(t, err)
	assert.True(t, a.Equals(b))
}

func TestOrderedSet_AddAssignMovesExistingToEnd(t *testing.T) {
	intT := types.Prim(types.Int)
	base, err := value.NewOrderedSet(intT, value.Int(1), value.Int(2), value.Int(3))
	require.NoError(t, err)
	add, err := value.NewOrderedSet(intT, value.Int(2), value.Int(4))
	require.NoError(t, err)

	next, err := base.Apply(ast.OpAddAssign, add, source.Location{})
	require.NoError(t, err)
	os := next.(*value.OrderedSet)
	var got []int64
	for _, e := range os.Elements() {
		got = append(got, int64(e.(value.Int)))
	}
	assert.Equal(t, []int64{1, 3, 2, 4}, got)
}

func TestOrderedSet_EqualsRequiresOrder(t *testing.T) {
	intT := types.Prim(types.Int)
	a, err := value.NewOrderedSet(intT, value.Int(1), value.Int(2))
	require.NoError(t, err)
	b, err := value.NewOrderedSet(intT, value.Int(2), value.Int(1))
	require.NoError(t, err)
	assert.False(t, a.Equals(b))
}

// Applying the same union in two different argument orders must leave
// a Set holding the identical element tree, compared deeply (not just
// by Len) since Value is itself a tree of concrete scalar types.
func TestSet_UnionIsCommutativeDeepEqual(t *testing.T) {
	intT := types.Prim(types.Int)
	a, err := value.NewSet(intT, value.Int(1), value.Int(2))
	require.NoError(t, err)
	b, err := value.NewSet(intT, value.Int(2), value.Int(3))
	require.NoError(t, err)

	ab, err := a.Apply(ast.OpUnionAssign, b, source.Location{})
	require.NoError(t, err)
	ba, err := b.Apply(ast.OpUnionAssign, a, source.Location{})
	require.NoError(t, err)

	if diff := cmp.Diff(ab.(*value.Set).Elements(), ba.(*value.Set).Elements()); diff != "" {
		t.Errorf("union element set mismatch (-ab +ba):\n%s", diff)
	}
}

// Building the same OrderedSet in one NewOrderedSet call or via two
// incremental AddAssign applies must produce the same element tree.
func TestOrderedSet_IncrementalBuildMatchesOneShot(t *testing.T) {
	intT := types.Prim(types.Int)
	oneShot, err := value.NewOrderedSet(intT, value.Int(1), value.Int(2), value.Int(3))
	require.NoError(t, err)

	step1, err := value.NewOrderedSet(intT, value.Int(1))
	require.NoError(t, err)
	step2, err := value.NewOrderedSet(intT, value.Int(2))
	require.NoError(t, err)
	step3, err := value.NewOrderedSet(intT, value.Int(3))
	require.NoError(t, err)

	built, err := step1.Apply(ast.OpAddAssign, step2, source.Location{})
	require.NoError(t, err)
	built, err = built.(*value.OrderedSet).Apply(ast.OpAddAssign, step3, source.Location{})
	require.NoError(t, err)

	if diff := cmp.Diff(oneShot.Elements(), built.(*value.OrderedSet).Elements()); diff != "" {
		t.Errorf("incremental build diverged from one-shot construction (-oneShot +built):\n%s", diff)
	}
}

func TestOrderedSet_NotHashable(t *testing.T) {
	_, err := (&value.OrderedSet{}).Hash()
	require.Error(t, err)
}
