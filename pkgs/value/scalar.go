package value

import (
	"strconv"

	"github.com/nyan-lang/nyan/pkgs/ast"
	"github.com/nyan-lang/nyan/pkgs/source"
	"github.com/nyan-lang/nyan/pkgs/types"
)

// Int is a 64-bit signed integer value.
type Int int64

func (v Int) Type() types.T        { return types.Prim(types.Int) }
func (v Int) Copy() Value          { return v }
func (v Int) Display() string      { return strconv.FormatInt(int64(v), 10) }
func (v Int) Repr() string         { return v.Display() }
func (v Int) Hash() (string, error) { return "i:" + v.Display(), nil }

func (v Int) Equals(other Value) bool {
	switch o := other.(type) {
	case Int:
		return v == o
	case Float:
		return float64(v) == float64(o)
	default:
		return false
	}
}

// Apply implements Int's AddAssign/SubtractAssign/MultiplyAssign/
// DivideAssign against an Int or Float rhs (PermittedOps allows a
// Float rhs on a declared-Int member; Apply truncates it to an Int
// first, and checks the result for overflow).
// DivideAssign truncates toward zero (Go's native integer division),
// per the open question in spec.md §9(c).
func (v Int) Apply(op ast.Op, rhs Value, loc source.Location) (Value, error) {
	r, ok := rhs.(Int)
	if !ok {
		if f, ok := rhs.(Float); ok {
			r = Int(f)
		} else {
			return nil, internalf(loc, "Int.Apply: unexpected rhs type %T", rhs)
		}
	}
	switch op {
	case ast.OpAssign:
		return r, nil
	case ast.OpAddAssign:
		sum := int64(v) + int64(r)
		if (r > 0 && sum < int64(v)) || (r < 0 && sum > int64(v)) {
			return nil, valueErr(loc, "integer overflow in %d + %d", v, r)
		}
		return Int(sum), nil
	case ast.OpSubtractAssign:
		diff := int64(v) - int64(r)
		if (r < 0 && diff < int64(v)) || (r > 0 && diff > int64(v)) {
			return nil, valueErr(loc, "integer overflow in %d - %d", v, r)
		}
		return Int(diff), nil
	case ast.OpMultiplyAssign:
		product := int64(v) * int64(r)
		if v != 0 && product/int64(v) != int64(r) {
			return nil, valueErr(loc, "integer overflow in %d * %d", v, r)
		}
		return Int(product), nil
	case ast.OpDivideAssign:
		if r == 0 {
			return nil, valueErr(loc, "division by zero")
		}
		return Int(int64(v) / int64(r)), nil
	default:
		return nil, internalf(loc, "Int.Apply: unsupported op %v", op)
	}
}

// Float is a 64-bit IEEE-754 floating point value.
type Float float64

func (v Float) Type() types.T   { return types.Prim(types.Float) }
func (v Float) Copy() Value     { return v }
func (v Float) Display() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v Float) Repr() string    { return v.Display() }
func (v Float) Hash() (string, error) {
	return "f:" + v.Display(), nil
}

func (v Float) Equals(other Value) bool {
	switch o := other.(type) {
	case Float:
		return v == o
	case Int:
		return float64(v) == float64(o)
	default:
		return false
	}
}

// Apply follows IEEE-754 semantics for all four arithmetic ops,
// including division by zero producing +/-Inf or NaN rather than an
// error (per spec.md §4.E: "Division by zero ... for Float → IEEE
// behavior").
func (v Float) Apply(op ast.Op, rhs Value, loc source.Location) (Value, error) {
	var r float64
	switch o := rhs.(type) {
	case Float:
		r = float64(o)
	case Int:
		r = float64(o)
	default:
		return nil, internalf(loc, "Float.Apply: unexpected rhs type %T", rhs)
	}
	switch op {
	case ast.OpAssign:
		return Float(r), nil
	case ast.OpAddAssign:
		return v + Float(r), nil
	case ast.OpSubtractAssign:
		return v - Float(r), nil
	case ast.OpMultiplyAssign:
		return v * Float(r), nil
	case ast.OpDivideAssign:
		return v / Float(r), nil
	default:
		return nil, internalf(loc, "Float.Apply: unsupported op %v", op)
	}
}

// Text is a UTF-8 string value.
type Text string

func (v Text) Type() types.T   { return types.Prim(types.Text) }
func (v Text) Copy() Value     { return v }
func (v Text) Display() string { return string(v) }
func (v Text) Repr() string    { return strconv.Quote(string(v)) }
func (v Text) Hash() (string, error) {
	return "t:" + string(v), nil
}

func (v Text) Equals(other Value) bool {
	o, ok := other.(Text)
	return ok && v == o
}

func (v Text) Apply(op ast.Op, rhs Value, loc source.Location) (Value, error) {
	r, ok := rhs.(Text)
	if !ok {
		return nil, internalf(loc, "Text.Apply: unexpected rhs type %T", rhs)
	}
	switch op {
	case ast.OpAssign:
		return r, nil
	case ast.OpAddAssign:
		return v + r, nil
	default:
		return nil, internalf(loc, "Text.Apply: unsupported op %v", op)
	}
}

// Filename is a string value tagged as a file path reference.
type Filename string

func (v Filename) Type() types.T   { return types.Prim(types.Filename) }
func (v Filename) Copy() Value     { return v }
func (v Filename) Display() string { return string(v) }
func (v Filename) Repr() string    { return strconv.Quote(string(v)) }
func (v Filename) Hash() (string, error) {
	return "fn:" + string(v), nil
}

func (v Filename) Equals(other Value) bool {
	o, ok := other.(Filename)
	return ok && v == o
}

// Apply only ever sees Assign (PermittedOps rejects anything else),
// and accepts either a Filename or a Text rhs.
func (v Filename) Apply(op ast.Op, rhs Value, loc source.Location) (Value, error) {
	if op != ast.OpAssign {
		return nil, internalf(loc, "Filename.Apply: unsupported op %v", op)
	}
	switch r := rhs.(type) {
	case Filename:
		return r, nil
	case Text:
		return Filename(r), nil
	default:
		return nil, internalf(loc, "Filename.Apply: unexpected rhs type %T", rhs)
	}
}

// ObjectRef is a non-owning reference into the namespace; it is only
// valid while that namespace is alive.
type ObjectRef struct {
	FQON   string
	Target types.ObjectRef
}

func (v ObjectRef) Type() types.T   { return types.ObjType(v.Target) }
func (v ObjectRef) Copy() Value     { return v }
func (v ObjectRef) Display() string { return v.FQON }
func (v ObjectRef) Repr() string    { return v.FQON }
func (v ObjectRef) Hash() (string, error) {
	return "o:" + v.FQON, nil
}

func (v ObjectRef) Equals(other Value) bool {
	o, ok := other.(ObjectRef)
	return ok && v.FQON == o.FQON
}

func (v ObjectRef) Apply(op ast.Op, rhs Value, loc source.Location) (Value, error) {
	if op != ast.OpAssign {
		return nil, internalf(loc, "ObjectRef.Apply: unsupported op %v", op)
	}
	r, ok := rhs.(ObjectRef)
	if !ok {
		return nil, internalf(loc, "ObjectRef.Apply: unexpected rhs type %T", rhs)
	}
	return r, nil
}
