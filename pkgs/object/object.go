// Package object implements the nyan object and member model: an
// Object carries its parents, patch targets, inheritance-add list,
// and member table; a Member carries a declared type, an operation
// queue entry, and its resolved effective value. Linearization and
// cross-object resolution are delegated to collaborators supplied by
// the database package, so this package never imports pkgs/linearize
// or pkgs/database itself — it only consumes the small interfaces it
// needs.
package object

import (
	"sort"

	"github.com/nyan-lang/nyan/pkgs/ast"
	"github.com/nyan-lang/nyan/pkgs/source"
	"github.com/nyan-lang/nyan/pkgs/types"
	"github.com/nyan-lang/nyan/pkgs/value"
)

// Linearizer produces an object's C3 linearization — its own FQON
// first, most-derived to most-ancestral. Implemented by pkgs/linearize
// and injected so Object stays free of that package's import.
type Linearizer interface {
	Linearization(fqon string) ([]string, error)
}

// Resolver looks another object up by FQON, for member/parent walks
// that cross object boundaries. Implemented by pkgs/database.
type Resolver interface {
	Get(fqon string) (*Object, bool)
}

// Member is one named slot on an Object: a patch or declaration of a
// single member, before and after resolution.
type Member struct {
	Name         string
	DeclaredType *types.T // nil if this op-only entry doesn't (re)declare the type
	HasOp        bool
	Operation    ast.Op
	RHSValue     value.Value // resolved rhs operand; nil if HasOp is false
	Location     source.Location

	// resolved is cached once this member's effective value has been
	// computed by the database's semantic pass; nil beforehand.
	resolved value.Value
}

// SetResolved caches this member's effective value. The database
// loader's resolution pass sets it first; Database.Apply overwrites it
// each time a patch is applied to this member.
func (m *Member) SetResolved(v value.Value) { m.resolved = v }

// Resolved returns the cached effective value and whether one has
// been computed yet.
func (m *Member) Resolved() (value.Value, bool) { return m.resolved, m.resolved != nil }

// Object is one declared or patched nyan object.
type Object struct {
	FQON           string
	ParentNames    []string // as written, unresolved to objects
	PatchTargets   []string
	InheritanceAdd []string // additional parents contributed by a patch
	Members        map[string]*Member
	Location       source.Location

	lin Linearizer
	res Resolver
}

// New builds an Object with no parents, patch targets or members; the
// caller fills in ParentNames/PatchTargets/InheritanceAdd afterwards
// (the database loader then resolves those names to FQONs in place).
// lin and res are the collaborators used by Linearization/GetMember to
// walk beyond this single object.
func New(fqon string, loc source.Location, lin Linearizer, res Resolver) *Object {
	return &Object{
		FQON:     fqon,
		Members:  make(map[string]*Member),
		Location: loc,
		lin:      lin,
		res:      res,
	}
}

// AddMember registers a (possibly partial) member declaration,
// replacing any entry of the same name. The database loader calls this
// once per MemberDecl in this object's own declaration; Database.Apply
// calls it to give a patch target its own entry for a member it had
// only inherited.
func (o *Object) AddMember(m *Member) {
	o.Members[m.Name] = m
}

// HasMember reports whether name is declared directly on this object
// (not searching ancestors).
func (o *Object) HasMember(name string) bool {
	_, ok := o.Members[name]
	return ok
}

// GetMember returns the Member declaration for name found by walking
// this object's linearization from most-derived to most-ancestral,
// returning the first (i.e. nearest) declaration.
func (o *Object) GetMember(name string) (*Member, *Object, bool) {
	lin, err := o.linearization()
	if err != nil {
		return nil, nil, false
	}
	for _, fqon := range lin {
		obj := o
		if fqon != o.FQON {
			obj, _ = o.res.Get(fqon)
			if obj == nil {
				continue
			}
		}
		if m, ok := obj.Members[name]; ok {
			return m, obj, true
		}
	}
	return nil, nil, false
}

// MemberNames returns every member name reachable from this object
// (across its whole linearization), sorted for deterministic
// iteration (e.g. for Pretty()).
func (o *Object) MemberNames() []string {
	lin, err := o.linearization()
	if err != nil {
		lin = []string{o.FQON}
	}
	seen := make(map[string]bool)
	var names []string
	for _, fqon := range lin {
		obj := o
		if fqon != o.FQON {
			obj, _ = o.res.Get(fqon)
			if obj == nil {
				continue
			}
		}
		for n := range obj.Members {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Parents returns this object's direct parents, resolved to Objects
// in declared order, skipping any that fail to resolve (the loader's
// name-resolution pass is responsible for catching that earlier).
func (o *Object) Parents() []*Object {
	out := make([]*Object, 0, len(o.ParentNames))
	for _, name := range o.ParentNames {
		if p, ok := o.res.Get(name); ok {
			out = append(out, p)
		}
	}
	return out
}

// Linearization returns this object's full C3 linearization (most
// derived to most ancestral, itself first).
func (o *Object) Linearization() ([]string, error) {
	return o.linearization()
}

func (o *Object) linearization() ([]string, error) {
	return o.lin.Linearization(o.FQON)
}

// EffectiveValue returns the resolved value of member name as seen
// from this object, i.e. the result of layering every contributing
// patch's operation from the most ancestral introduction down to
// (and including) this object. It does not recompute anything: the
// database's semantic pass populates Member.resolved during loading,
// and this simply looks it up along the linearization.
func (o *Object) EffectiveValue(name string) (value.Value, bool) {
	m, _, ok := o.GetMember(name)
	if !ok {
		return nil, false
	}
	return m.Resolved()
}
