package database

import (
	"math"
	"strconv"

	"github.com/nyan-lang/nyan/pkgs/ast"
	"github.com/nyan-lang/nyan/pkgs/langerr"
	"github.com/nyan-lang/nyan/pkgs/lexer"
	"github.com/nyan-lang/nyan/pkgs/object"
	"github.com/nyan-lang/nyan/pkgs/source"
	"github.com/nyan-lang/nyan/pkgs/types"
	"github.com/nyan-lang/nyan/pkgs/value"
)

// semanticContext carries the per-Load scratch state pass 2 needs
// beyond what Database itself stores permanently.
type semanticContext struct {
	db *Database
}

// resolveRootObject type-checks every member declared directly on a
// non-patch object, requiring that each one's effective type is known
// (declared here or inherited) and, on first introduction, that a
// concrete Assign value is supplied.
func (sc *semanticContext) resolveRootObject(decl *ast.ObjectDecl) error {
	obj := sc.db.objects[decl.Name.Name]
	for _, md := range decl.Members {
		if err := sc.resolveRootMember(obj, md); err != nil {
			return err
		}
	}
	return nil
}

func (sc *semanticContext) resolveRootMember(obj *object.Object, md *ast.MemberDecl) error {
	var declaredType *types.T
	if md.DeclaredType != nil {
		t, err := sc.resolveType(md.DeclaredType)
		if err != nil {
			return err
		}
		declaredType = &t
	} else if existing, _, ok := obj.GetMember(md.Name.Name); ok && existing.DeclaredType != nil {
		declaredType = existing.DeclaredType
	} else {
		return langerr.New(langerr.Type, md.Location,
			"member %q needs a declared type on first introduction", md.Name.Name)
	}

	m := &object.Member{Name: md.Name.Name, DeclaredType: declaredType, Location: md.Location}
	if md.HasOp {
		rhs, rhsType, err := sc.resolveValueExpr(md.Value, *declaredType)
		if err != nil {
			return err
		}
		if !value.PermittedOps(*declaredType, md.Operation, rhsType, sc.db) {
			return langerr.New(langerr.Type, md.Location,
				"operator %q is not permitted between %s and %s", md.Operation, declaredType, rhsType)
		}
		m.HasOp = true
		m.Operation = md.Operation
		m.RHSValue = rhs
	}
	obj.AddMember(m)
	return nil
}

// resolvePatchObject type-checks every member declared on a patch
// object: each must already exist (inherited or direct) on every one
// of the patch's targets, with an agreeing declared type, and the
// patch must supply an operation (a type-only redeclaration makes no
// sense for a patch, since it never introduces a member).
func (sc *semanticContext) resolvePatchObject(decl *ast.ObjectDecl) error {
	obj := sc.db.objects[decl.Name.Name]
	if len(obj.PatchTargets) == 0 {
		return nil
	}
	targets := make([]*object.Object, len(obj.PatchTargets))
	for i, fqon := range obj.PatchTargets {
		t, ok := sc.db.Get(fqon)
		if !ok {
			return langerr.Internalf(decl.Location, "patch target %q vanished after resolution", fqon)
		}
		targets[i] = t
	}

	for _, md := range decl.Members {
		var declaredType *types.T
		for _, t := range targets {
			existing, _, ok := t.GetMember(md.Name.Name)
			if !ok || existing.DeclaredType == nil {
				return langerr.New(langerr.Type, md.Location,
					"patch target %q has no member %q", t.FQON, md.Name.Name)
			}
			if declaredType == nil {
				declaredType = existing.DeclaredType
			} else if !declaredType.IsChildOf(*existing.DeclaredType, sc.db) || !existing.DeclaredType.IsChildOf(*declaredType, sc.db) {
				return langerr.New(langerr.Type, md.Location,
					"patch targets disagree on the type of member %q", md.Name.Name)
			}
		}
		if !md.HasOp {
			return langerr.New(langerr.AST, md.Location,
				"a patch member must supply an operation, got a bare redeclaration of %q", md.Name.Name)
		}
		rhs, rhsType, err := sc.resolveValueExpr(md.Value, *declaredType)
		if err != nil {
			return err
		}
		if !value.PermittedOps(*declaredType, md.Operation, rhsType, sc.db) {
			return langerr.New(langerr.Type, md.Location,
				"operator %q is not permitted between %s and %s", md.Operation, declaredType, rhsType)
		}
		obj.AddMember(&object.Member{
			Name:         md.Name.Name,
			DeclaredType: declaredType,
			HasOp:        true,
			Operation:    md.Operation,
			RHSValue:     rhs,
			Location:     md.Location,
		})
	}
	return nil
}

// resolveEffectiveValues computes and caches the effective value of
// every member obj declares directly. A bare Assign seeds a fresh
// introduction; any other operation must be layering on top of a
// value already resolved by an ancestor earlier in the topological
// order (a root object re-declaring an inherited member directly,
// without going through a patch).
func (sc *semanticContext) resolveEffectiveValues(obj *object.Object) error {
	for name, m := range obj.Members {
		if _, ok := m.Resolved(); ok {
			continue
		}
		if !m.HasOp {
			return langerr.New(langerr.Type, m.Location,
				"member %q has no value to resolve", name)
		}
		if m.Operation == ast.OpAssign {
			m.SetResolved(m.RHSValue)
			continue
		}
		ancestorValue, ok := sc.ancestorEffectiveValue(obj, name)
		if !ok {
			return langerr.New(langerr.Type, m.Location,
				"member %q is introduced without a concrete assigned value", name)
		}
		next, err := ancestorValue.Apply(m.Operation, m.RHSValue, m.Location)
		if err != nil {
			return err
		}
		m.SetResolved(next)
	}
	return nil
}

// ancestorEffectiveValue looks up name's resolved value along obj's
// parents (not obj itself, whose own entry for name is the one being
// resolved right now).
func (sc *semanticContext) ancestorEffectiveValue(obj *object.Object, name string) (value.Value, bool) {
	for _, p := range obj.Parents() {
		if v, ok := p.EffectiveValue(name); ok {
			return v, true
		}
	}
	return nil, false
}

// resolveType turns a parsed TypeExpr into a type descriptor,
// resolving container payloads recursively and object names against
// the store.
func (sc *semanticContext) resolveType(te *ast.TypeExpr) (types.T, error) {
	switch te.Name.Name {
	case "text":
		return requireNoPayload(te, types.Prim(types.Text))
	case "file":
		return requireNoPayload(te, types.Prim(types.Filename))
	case "int":
		return requireNoPayload(te, types.Prim(types.Int))
	case "float":
		return requireNoPayload(te, types.Prim(types.Float))
	case "set", "orderedset":
		if te.Payload == nil {
			return types.T{}, langerr.New(langerr.Type, te.Location,
				"container type %q requires a payload type", te.Name.Name)
		}
		elem, err := sc.resolveType(te.Payload)
		if err != nil {
			return types.T{}, err
		}
		kind := types.Set
		if te.Name.Name == "orderedset" {
			kind = types.OrderedSet
		}
		return types.ContainerType(kind, elem), nil
	default:
		if te.Payload != nil {
			return types.T{}, langerr.New(langerr.Type, te.Location,
				"%q is not a container type and cannot take a payload", te.Name.Name)
		}
		fqon, err := resolveIdent(sc.db, te.Name)
		if err != nil {
			return types.T{}, err
		}
		return types.ObjType(types.ObjectRef(fqon)), nil
	}
}

func requireNoPayload(te *ast.TypeExpr, t types.T) (types.T, error) {
	if te.Payload != nil {
		return types.T{}, langerr.New(langerr.Type, te.Location,
			"%q is not a container type and cannot take a payload", te.Name.Name)
	}
	return t, nil
}

// resolveValueExpr constructs a concrete value.Value from a parsed
// ValueExpr, given the member's declared type (needed to know what
// element type a container literal's atoms should resolve to).
func (sc *semanticContext) resolveValueExpr(ve *ast.ValueExpr, declaredType types.T) (value.Value, types.T, error) {
	switch ve.TokenKind {
	case lexer.Int:
		n, err := parseIntLiteral(ve.Text)
		if err != nil {
			return nil, types.T{}, langerr.New(langerr.Value, ve.Location, "%s", err.Error())
		}
		return value.Int(n), types.Prim(types.Int), nil
	case lexer.Float:
		f, err := strconv.ParseFloat(ve.Text, 64)
		if err != nil {
			return nil, types.T{}, langerr.New(langerr.Value, ve.Location, "malformed float literal %q", ve.Text)
		}
		return value.Float(f), types.Prim(types.Float), nil
	case lexer.String:
		if declaredType.Primitive == types.Filename {
			return value.Filename(ve.Text), types.Prim(types.Filename), nil
		}
		return value.Text(ve.Text), types.Prim(types.Text), nil
	case lexer.Id:
		// inf/nan are identifiers lexically, but the grammar
		// reinterprets them as float values wherever a numeric type
		// is demanded, rather than resolving them as object names.
		if (declaredType.Primitive == types.Int || declaredType.Primitive == types.Float) &&
			(ve.Text == "inf" || ve.Text == "nan") {
			f := math.Inf(1)
			if ve.Text == "nan" {
				f = math.NaN()
			}
			return value.Float(f), types.Prim(types.Float), nil
		}
		fqon, err := resolveIdent(sc.db, ast.Ident{Name: ve.Text, Location: ve.Location})
		if err != nil {
			return nil, types.T{}, err
		}
		return value.ObjectRef{FQON: fqon, Target: types.ObjectRef(fqon)}, types.ObjType(types.ObjectRef(fqon)), nil
	case lexer.LBrace:
		elemType := types.Prim(types.Text)
		if declaredType.IsContainer(types.Set) {
			elemType = *declaredType.Element
		}
		elems, err := sc.resolveElements(ve.Elements, elemType)
		if err != nil {
			return nil, types.T{}, err
		}
		s, err := value.NewSet(elemType, elems...)
		if err != nil {
			return nil, types.T{}, wrapValueErr(ve.Location, err)
		}
		return s, types.ContainerType(types.Set, elemType), nil
	case lexer.LAngle:
		elemType := types.Prim(types.Text)
		if declaredType.IsContainer(types.OrderedSet) {
			elemType = *declaredType.Element
		}
		elems, err := sc.resolveElements(ve.Elements, elemType)
		if err != nil {
			return nil, types.T{}, err
		}
		os, err := value.NewOrderedSet(elemType, elems...)
		if err != nil {
			return nil, types.T{}, wrapValueErr(ve.Location, err)
		}
		return os, types.ContainerType(types.OrderedSet, elemType), nil
	default:
		return nil, types.T{}, langerr.Internalf(ve.Location, "resolveValueExpr: unexpected token kind %v", ve.TokenKind)
	}
}

func (sc *semanticContext) resolveElements(exprs []*ast.ValueExpr, elemType types.T) ([]value.Value, error) {
	out := make([]value.Value, len(exprs))
	for i, e := range exprs {
		v, _, err := sc.resolveValueExpr(e, elemType)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func wrapValueErr(loc source.Location, err error) error {
	if le, ok := err.(*langerr.LangError); ok {
		return le
	}
	return langerr.New(langerr.Value, loc, "%s", err.Error())
}

func parseIntLiteral(text string) (int64, error) {
	sign := ""
	t := text
	if len(t) > 0 && (t[0] == '+' || t[0] == '-') {
		if t[0] == '-' {
			sign = "-"
		}
		t = t[1:]
	}
	base := 10
	if len(t) > 1 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X') {
		base = 16
		t = t[2:]
	}
	return strconv.ParseInt(sign+t, base, 64)
}
