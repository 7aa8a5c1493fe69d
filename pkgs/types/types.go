// Package types implements the nyan type descriptor model: primitive
// kinds, container kinds, and object targets, plus the subtype and
// containment relations the loader type-checks members against.
package types

import "fmt"

// Primitive is the base kind of a type descriptor.
type Primitive int

const (
	Text Primitive = iota
	Filename
	Int
	Float
	Object
	Container
)

func (p Primitive) String() string {
	switch p {
	case Text:
		return "text"
	case Filename:
		return "file"
	case Int:
		return "int"
	case Float:
		return "float"
	case Object:
		return "object"
	case Container:
		return "container"
	default:
		return "unknown"
	}
}

// ContainerKind distinguishes the container shapes a Container type
// can carry. Single is used for every non-container type, so
// IsContainer(k) can be checked uniformly.
type ContainerKind int

const (
	Single ContainerKind = iota
	Set
	OrderedSet
)

func (c ContainerKind) String() string {
	switch c {
	case Single:
		return "single"
	case Set:
		return "set"
	case OrderedSet:
		return "orderedset"
	default:
		return "unknown"
	}
}

// ObjectRef is a non-owning reference to an object by its fully
// qualified name. The zero value (empty string) means "any object" —
// the spec's Object(None) sentinel.
type ObjectRef string

// IsAny reports whether this ref means "no specific target".
func (r ObjectRef) IsAny() bool { return r == "" }

// T is a type descriptor. Exactly one of the invariants below holds
// depending on Primitive:
//   - Container: Element is required, describing the payload type.
//   - Object: Target may be the zero value, meaning "any object".
//   - otherwise: Element and Target are unused.
type T struct {
	Primitive Primitive
	Container ContainerKind
	Element   *T        // required iff Primitive == Container
	Target    ObjectRef // only meaningful iff Primitive == Object
}

// Prim builds a descriptor for one of the scalar primitives.
func Prim(p Primitive) T {
	return T{Primitive: p, Container: Single}
}

// ObjType builds an object-typed descriptor with the given target
// (empty target means "any object").
func ObjType(target ObjectRef) T {
	return T{Primitive: Object, Container: Single, Target: target}
}

// ContainerType builds a Set/OrderedSet descriptor wrapping element.
func ContainerType(kind ContainerKind, element T) T {
	return T{Primitive: Container, Container: kind, Element: &element}
}

func (t T) String() string {
	switch t.Primitive {
	case Container:
		return fmt.Sprintf("%s(%s)", t.Container, t.Element.String())
	case Object:
		if t.Target.IsAny() {
			return "object"
		}
		return string(t.Target)
	default:
		return t.Primitive.String()
	}
}

// IsPrimitive reports whether t is one of the scalar kinds (not an
// object reference and not a container).
func (t T) IsPrimitive() bool {
	switch t.Primitive {
	case Text, Filename, Int, Float:
		return true
	default:
		return false
	}
}

// IsContainer reports whether t is a container of the given kind.
func (t T) IsContainer(kind ContainerKind) bool {
	return t.Primitive == Container && t.Container == kind
}

// Ancestry answers "is a a descendant of (or equal to) b" for object
// targets, abstracting over however the caller's object graph is
// represented (the loader supplies an implementation backed by
// linearization).
type Ancestry interface {
	IsDescendantOf(a, b ObjectRef) bool
}

// IsChildOf reports whether t is usable wherever u is expected,
// following spec.md §4.F's relation:
//   - both non-primitive: true if u is Object(any); if both Object,
//     true iff t.Target is a descendant of u.Target; if both
//     Container, kinds must match and element types must recurse.
//   - otherwise: true iff the two kinds are identical.
func (t T) IsChildOf(u T, anc Ancestry) bool {
	tNonPrim := t.Primitive == Object || t.Primitive == Container
	uNonPrim := u.Primitive == Object || u.Primitive == Container
	if tNonPrim && uNonPrim {
		if t.Primitive != u.Primitive {
			return false
		}
		switch t.Primitive {
		case Object:
			if u.Target.IsAny() {
				return true
			}
			return anc.IsDescendantOf(t.Target, u.Target)
		case Container:
			if t.Container != u.Container {
				return false
			}
			return t.Element.IsChildOf(*u.Element, anc)
		}
		return false
	}
	return t.Primitive == u.Primitive
}

// CanBeIn reports whether a value of type t may be stored inside
// container type u (u must itself be a Container whose element type t
// is a child of).
func (t T) CanBeIn(u T, anc Ancestry) bool {
	if u.Primitive != Container {
		return false
	}
	return t.IsChildOf(*u.Element, anc)
}
