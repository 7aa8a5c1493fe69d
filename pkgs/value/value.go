// Package value implements the nyan tagged value model: Int, Float,
// Text, Filename, ObjectRef, Set, and OrderedSet, together with the
// per-variant permitted-operation application described in spec.md
// §4.E. Callers are expected to have already type-checked
// (lhsType, op, rhsType) against PermittedOps before calling Apply —
// Apply itself only implements the arithmetic/set-algebra, not the
// type discipline.
package value

import (
	"github.com/nyan-lang/nyan/pkgs/ast"
	"github.com/nyan-lang/nyan/pkgs/langerr"
	"github.com/nyan-lang/nyan/pkgs/source"
	"github.com/nyan-lang/nyan/pkgs/types"
)

// Value is the interface every tagged variant implements.
type Value interface {
	// Type returns this value's type descriptor.
	Type() types.T
	// Copy returns an independent deep copy.
	Copy() Value
	// Equals reports value equality (Set: element-set equality;
	// OrderedSet: element AND order equality).
	Equals(other Value) bool
	// Hash returns a hash usable as a Set element key, or an error if
	// this value's variant (or one of its elements) is not hashable.
	Hash() (string, error)
	// Display renders the value for human-facing output.
	Display() string
	// Repr renders the value as nyan source syntax, e.g. for
	// round-tripping a pretty-printed object back through the lexer.
	Repr() string
	// Apply performs op against rhs, returning the new effective
	// value. The caller must have already validated (op, rhs.Type())
	// against PermittedOps for this variant.
	Apply(op ast.Op, rhs Value, loc source.Location) (Value, error)
}

// PermittedOps reports whether op is allowed on a member whose
// declared type is declaredType, given an operand of type rhsType.
// This is the table from spec.md §4.E, keyed on primitive/container
// shape rather than on a live Value so the loader can consult it
// during type-checking before any Value exists.
func PermittedOps(declaredType types.T, op ast.Op, rhsType types.T, anc types.Ancestry) bool {
	numeric := func(t types.T) bool { return t.Primitive == types.Int || t.Primitive == types.Float }

	switch declaredType.Primitive {
	case types.Int, types.Float:
		if !numeric(rhsType) {
			return false
		}
		switch op {
		case ast.OpAssign, ast.OpAddAssign, ast.OpSubtractAssign, ast.OpMultiplyAssign, ast.OpDivideAssign:
			return true
		}
		return false
	case types.Text:
		if rhsType.Primitive != types.Text {
			return false
		}
		return op == ast.OpAssign || op == ast.OpAddAssign
	case types.Filename:
		if rhsType.Primitive != types.Filename && rhsType.Primitive != types.Text {
			return false
		}
		return op == ast.OpAssign
	case types.Object:
		if rhsType.Primitive != types.Object {
			return false
		}
		if op != ast.OpAssign {
			return false
		}
		return rhsType.IsChildOf(declaredType, anc)
	case types.Container:
		if rhsType.Primitive != types.Container || rhsType.Container != declaredType.Container {
			return false
		}
		if !rhsType.Element.IsChildOf(*declaredType.Element, anc) {
			return false
		}
		switch declaredType.Container {
		case types.Set:
			switch op {
			case ast.OpAssign, ast.OpAddAssign, ast.OpUnionAssign, ast.OpSubtractAssign, ast.OpIntersectAssign:
				return true
			}
			return false
		case types.OrderedSet:
			switch op {
			case ast.OpAssign, ast.OpAddAssign, ast.OpSubtractAssign, ast.OpIntersectAssign:
				return true
			}
			return false
		}
	}
	return false
}

func internalf(loc source.Location, format string, args ...any) error {
	return langerr.Internalf(loc, format, args...)
}

func valueErr(loc source.Location, format string, args ...any) error {
	return langerr.New(langerr.Value, loc, format, args...)
}
