package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyan-lang/nyan/pkgs/ast"
	"github.com/nyan-lang/nyan/pkgs/object"
	"github.com/nyan-lang/nyan/pkgs/source"
	"github.com/nyan-lang/nyan/pkgs/types"
	"github.com/nyan-lang/nyan/pkgs/value"
)

// fakeStore plays both Linearizer and Resolver for a tiny, hand-built
// object graph, so pkgs/object can be tested without pkgs/database.
type fakeStore struct {
	objects map[string]*object.Object
	lins    map[string][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]*object.Object), lins: make(map[string][]string)}
}

func (s *fakeStore) Get(fqon string) (*object.Object, bool) {
	o, ok := s.objects[fqon]
	return o, ok
}

func (s *fakeStore) Linearization(fqon string) ([]string, error) {
	return s.lins[fqon], nil
}

func (s *fakeStore) add(fqon string, parents []string, lin []string) *object.Object {
	o := object.New(fqon, source.Location{}, s, s)
	o.ParentNames = parents
	s.objects[fqon] = o
	s.lins[fqon] = lin
	return o
}

func TestGetMember_WalksLinearizationMostDerivedFirst(t *testing.T) {
	s := newFakeStore()
	parent := s.add("Parent", nil, []string{"Parent"})
	parent.AddMember(&object.Member{Name: "hp", RHSValue: value.Int(10)})
	parent.Members["hp"].SetResolved(value.Int(10))

	child := s.add("Child", []string{"Parent"}, []string{"Child", "Parent"})

	m, owner, ok := child.GetMember("hp")
	require.True(t, ok)
	assert.Equal(t, "Parent", owner.FQON)
	v, ok := m.Resolved()
	require.True(t, ok)
	assert.Equal(t, value.Int(10), v)
}

func TestGetMember_ChildOverridesParent(t *testing.T) {
	s := newFakeStore()
	parent := s.add("Parent", nil, []string{"Parent"})
	parent.AddMember(&object.Member{Name: "hp"})
	parent.Members["hp"].SetResolved(value.Int(10))

	child := s.add("Child", []string{"Parent"}, []string{"Child", "Parent"})
	child.AddMember(&object.Member{Name: "hp"})
	child.Members["hp"].SetResolved(value.Int(99))

	v, ok := child.EffectiveValue("hp")
	require.True(t, ok)
	assert.Equal(t, value.Int(99), v)
}

func TestHasMember_DirectOnly(t *testing.T) {
	s := newFakeStore()
	parent := s.add("Parent", nil, []string{"Parent"})
	parent.AddMember(&object.Member{Name: "hp"})
	child := s.add("Child", []string{"Parent"}, []string{"Child", "Parent"})

	assert.True(t, parent.HasMember("hp"))
	assert.False(t, child.HasMember("hp"))
}

func TestMemberNames_UnionAcrossAncestry(t *testing.T) {
	s := newFakeStore()
	parent := s.add("Parent", nil, []string{"Parent"})
	parent.AddMember(&object.Member{Name: "hp"})
	child := s.add("Child", []string{"Parent"}, []string{"Child", "Parent"})
	child.AddMember(&object.Member{Name: "mp"})

	assert.Equal(t, []string{"hp", "mp"}, child.MemberNames())
}

func TestParents_ResolvesToObjects(t *testing.T) {
	s := newFakeStore()
	s.add("Parent", nil, []string{"Parent"})
	child := s.add("Child", []string{"Parent"}, []string{"Child", "Parent"})

	parents := child.Parents()
	require.Len(t, parents, 1)
	assert.Equal(t, "Parent", parents[0].FQON)
}

func TestPretty_PassWhenNoMembers(t *testing.T) {
	s := newFakeStore()
	o := s.add("Empty", nil, []string{"Empty"})
	assert.Equal(t, "Empty():\n    pass\n", o.Pretty())
}

func TestPretty_RendersDeclaredTypeAndValue(t *testing.T) {
	s := newFakeStore()
	o := s.add("First", nil, []string{"First"})
	intType := types.Prim(types.Int)
	o.AddMember(&object.Member{
		Name:         "member",
		DeclaredType: &intType,
		HasOp:        true,
		Operation:    ast.OpAssign,
		RHSValue:     value.Int(17),
	})
	o.Members["member"].SetResolved(value.Int(17))

	assert.Equal(t, "First():\n    member : int = 17\n", o.Pretty())
}
