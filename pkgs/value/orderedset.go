package value

import (
	"strings"

	"github.com/nyan-lang/nyan/pkgs/ast"
	"github.com/nyan-lang/nyan/pkgs/source"
	"github.com/nyan-lang/nyan/pkgs/types"
)

// OrderedSet is an insertion-ordered sequence of unique values: fast
// membership via a hash index, insertion order preserved via a slice.
// This is the pairing spec.md §9 asks for ("pair a hash set with a
// doubly-linked list, or a single order-preserving hash map") — here
// realized as a slice plus a hash→index map, which is simpler than a
// linked list while keeping O(1) membership and O(1) amortized
// append; moving an already-present element to the end is O(n).
type OrderedSet struct {
	elementType types.T
	order       []Value
	index       map[string]int // hash -> position in order
}

// NewOrderedSet builds an OrderedSet of elementType from elems, in
// the given order, rejecting duplicate hashes by keeping only the
// first occurrence.
func NewOrderedSet(elementType types.T, elems ...Value) (*OrderedSet, error) {
	os := &OrderedSet{elementType: elementType, index: make(map[string]int, len(elems))}
	for _, e := range elems {
		if err := os.append(e); err != nil {
			return nil, err
		}
	}
	return os, nil
}

func (os *OrderedSet) append(v Value) error {
	h, err := v.Hash()
	if err != nil {
		return err
	}
	if _, exists := os.index[h]; exists {
		return nil
	}
	os.index[h] = len(os.order)
	os.order = append(os.order, v)
	return nil
}

// moveToEnd appends v, relocating it to the end if already present —
// the documented AddAssign behavior for OrderedSet (spec.md §4.E).
func (os *OrderedSet) moveToEnd(v Value) error {
	h, err := v.Hash()
	if err != nil {
		return err
	}
	if i, exists := os.index[h]; exists {
		os.order = append(os.order[:i], os.order[i+1:]...)
		for hh, idx := range os.index {
			if idx > i {
				os.index[hh] = idx - 1
			}
		}
		delete(os.index, h)
	}
	os.index[h] = len(os.order)
	os.order = append(os.order, v)
	return nil
}

func (os *OrderedSet) Type() types.T {
	return types.ContainerType(types.OrderedSet, os.elementType)
}

func (os *OrderedSet) Copy() Value {
	out := &OrderedSet{
		elementType: os.elementType,
		order:       make([]Value, len(os.order)),
		index:       make(map[string]int, len(os.index)),
	}
	for i, v := range os.order {
		out.order[i] = v.Copy()
	}
	for h, i := range os.index {
		out.index[h] = i
	}
	return out
}

// Hash is never taken on an OrderedSet: like Set, it cannot nest
// inside another container under the permitted-operation table.
func (os *OrderedSet) Hash() (string, error) {
	return "", valueErr(source.Location{}, "an OrderedSet is not hashable")
}

func (os *OrderedSet) Display() string {
	var b strings.Builder
	b.WriteByte('<')
	for i, v := range os.order {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.Display())
	}
	b.WriteByte('>')
	return b.String()
}

func (os *OrderedSet) Repr() string {
	var b strings.Builder
	b.WriteByte('<')
	for i, v := range os.order {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.Repr())
	}
	b.WriteByte('>')
	return b.String()
}

// Equals requires both element-set equality AND order equality,
// unlike Set.
func (os *OrderedSet) Equals(other Value) bool {
	o, ok := other.(*OrderedSet)
	if !ok || len(os.order) != len(o.order) {
		return false
	}
	for i := range os.order {
		if !os.order[i].Equals(o.order[i]) {
			return false
		}
	}
	return true
}

// Apply implements Assign, AddAssign (append-unique, moving an
// existing element to the end), SubtractAssign (remove ignoring
// order), and IntersectAssign (preserving the left operand's order).
// UnionAssign is rejected at the PermittedOps level — callers should
// never reach it here (spec.md §4.E: "UnionAssign forbidden (use
// AddAssign)").
func (os *OrderedSet) Apply(op ast.Op, rhs Value, loc source.Location) (Value, error) {
	r, ok := rhs.(*OrderedSet)
	if !ok {
		return nil, internalf(loc, "OrderedSet.Apply: unexpected rhs type %T", rhs)
	}
	switch op {
	case ast.OpAssign:
		return r.Copy(), nil
	case ast.OpAddAssign:
		out := os.Copy().(*OrderedSet)
		for _, v := range r.order {
			if err := out.moveToEnd(v); err != nil {
				return nil, err
			}
		}
		return out, nil
	case ast.OpSubtractAssign:
		out := &OrderedSet{elementType: os.elementType, index: make(map[string]int)}
		removeHashes := make(map[string]struct{}, len(r.order))
		for _, v := range r.order {
			h, err := v.Hash()
			if err != nil {
				return nil, err
			}
			removeHashes[h] = struct{}{}
		}
		for _, v := range os.order {
			h, err := v.Hash()
			if err != nil {
				return nil, err
			}
			if _, remove := removeHashes[h]; remove {
				continue
			}
			out.index[h] = len(out.order)
			out.order = append(out.order, v)
		}
		return out, nil
	case ast.OpIntersectAssign:
		out := &OrderedSet{elementType: os.elementType, index: make(map[string]int)}
		for _, v := range os.order {
			h, err := v.Hash()
			if err != nil {
				return nil, err
			}
			if _, inRHS := r.index[h]; inRHS {
				out.index[h] = len(out.order)
				out.order = append(out.order, v)
			}
		}
		return out, nil
	default:
		return nil, internalf(loc, "OrderedSet.Apply: unsupported op %v", op)
	}
}

// Elements returns the sequence in insertion order.
func (os *OrderedSet) Elements() []Value {
	out := make([]Value, len(os.order))
	copy(out, os.order)
	return out
}

func (os *OrderedSet) Len() int { return len(os.order) }
