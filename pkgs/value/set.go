package value

import (
	"sort"
	"strings"

	"github.com/nyan-lang/nyan/pkgs/ast"
	"github.com/nyan-lang/nyan/pkgs/source"
	"github.com/nyan-lang/nyan/pkgs/types"
)

// Set is an unordered collection of unique, hashable values. Equality
// is element-set equality — order never matters.
type Set struct {
	elementType types.T
	byHash      map[string]Value
}

// NewSet builds a Set of the given element type from elems, rejecting
// duplicates silently the way a mathematical set would (last write
// for a given hash wins, matching the non-hashable-checked insert
// semantics used throughout this package).
func NewSet(elementType types.T, elems ...Value) (*Set, error) {
	s := &Set{elementType: elementType, byHash: make(map[string]Value, len(elems))}
	for _, e := range elems {
		if err := s.insert(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Set) insert(v Value) error {
	h, err := v.Hash()
	if err != nil {
		return err
	}
	s.byHash[h] = v
	return nil
}

func (s *Set) Type() types.T { return types.ContainerType(types.Set, s.elementType) }

func (s *Set) Copy() Value {
	out := &Set{elementType: s.elementType, byHash: make(map[string]Value, len(s.byHash))}
	for h, v := range s.byHash {
		out.byHash[h] = v.Copy()
	}
	return out
}

// Hash of a Set is never taken: sets cannot nest inside sets, per the
// permitted-operation table, so this only guards against an
// unreachable internal misuse.
func (s *Set) Hash() (string, error) {
	return "", valueErr(source.Location{}, "a Set is not hashable")
}

func (s *Set) sortedHashes() []string {
	hashes := make([]string, 0, len(s.byHash))
	for h := range s.byHash {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)
	return hashes
}

func (s *Set) Display() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, h := range s.sortedHashes() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.byHash[h].Display())
	}
	b.WriteByte('}')
	return b.String()
}

func (s *Set) Repr() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, h := range s.sortedHashes() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.byHash[h].Repr())
	}
	b.WriteByte('}')
	return b.String()
}

// Equals is element-set equality: same hashes, regardless of order.
func (s *Set) Equals(other Value) bool {
	o, ok := other.(*Set)
	if !ok || len(s.byHash) != len(o.byHash) {
		return false
	}
	for h := range s.byHash {
		if _, ok := o.byHash[h]; !ok {
			return false
		}
	}
	return true
}

// Apply implements Assign, AddAssign/UnionAssign (aliases on Set),
// SubtractAssign, and IntersectAssign, per spec.md §4.E and §9(a)/(b).
func (s *Set) Apply(op ast.Op, rhs Value, loc source.Location) (Value, error) {
	r, ok := rhs.(*Set)
	if !ok {
		return nil, internalf(loc, "Set.Apply: unexpected rhs type %T", rhs)
	}
	switch op {
	case ast.OpAssign:
		return r.Copy(), nil
	case ast.OpAddAssign, ast.OpUnionAssign:
		out := s.Copy().(*Set)
		for h, v := range r.byHash {
			out.byHash[h] = v
		}
		return out, nil
	case ast.OpSubtractAssign:
		out := s.Copy().(*Set)
		for h := range r.byHash {
			delete(out.byHash, h)
		}
		return out, nil
	case ast.OpIntersectAssign:
		out := &Set{elementType: s.elementType, byHash: make(map[string]Value)}
		for h, v := range s.byHash {
			if _, ok := r.byHash[h]; ok {
				out.byHash[h] = v
			}
		}
		return out, nil
	default:
		return nil, internalf(loc, "Set.Apply: unsupported op %v", op)
	}
}

// Elements returns the set's members in a deterministic (sorted by
// hash) order, for callers that need to enumerate it.
func (s *Set) Elements() []Value {
	hashes := s.sortedHashes()
	out := make([]Value, len(hashes))
	for i, h := range hashes {
		out[i] = s.byHash[h]
	}
	return out
}

// Contains reports whether v (by hash) is a member of the set.
func (s *Set) Contains(v Value) (bool, error) {
	h, err := v.Hash()
	if err != nil {
		return false, err
	}
	_, ok := s.byHash[h]
	return ok, nil
}

func (s *Set) Len() int { return len(s.byHash) }
