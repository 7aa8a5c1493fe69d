package database

import (
	"github.com/nyan-lang/nyan/pkgs/langerr"
	"github.com/nyan-lang/nyan/pkgs/object"
	"github.com/nyan-lang/nyan/pkgs/source"
)

// Apply applies a patch's stored operations to each of its targets'
// current effective values, mutating the store in place. It may be
// called more than once; each call layers its operations on top of
// whatever the target's member currently evaluates to (so a repeated
// AddAssign patch keeps accumulating — this is the primitive a
// transaction/view layer built on this core would use to realize
// "apply this patch" as a distinct, repeatable action from loading).
//
// Apply is not safe to call concurrently with any other store
// mutation or query, matching the store's single-threaded contract.
func (db *Database) Apply(patchFQON string) error {
	patch, ok := db.Get(patchFQON)
	if !ok {
		return langerr.New(langerr.Name, source.Location{}, "unresolved name %q", patchFQON)
	}
	if len(patch.PatchTargets) == 0 {
		return langerr.New(langerr.Type, patch.Location, "%q is not a patch (no patch targets)", patchFQON)
	}

	for _, targetFQON := range patch.PatchTargets {
		target, ok := db.Get(targetFQON)
		if !ok {
			return langerr.Internalf(patch.Location, "patch target %q vanished", targetFQON)
		}
		for name, patchMember := range patch.Members {
			if err := applyOne(target, name, patchMember); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyOne(target *object.Object, name string, patchMember *object.Member) error {
	current, ok := target.EffectiveValue(name)
	if !ok {
		return langerr.New(langerr.Type, patchMember.Location, "patch target has no member %q", name)
	}
	next, err := current.Apply(patchMember.Operation, patchMember.RHSValue, patchMember.Location)
	if err != nil {
		return err
	}

	if target.HasMember(name) {
		target.Members[name].SetResolved(next)
		return nil
	}

	// The member is presently only inherited: give target its own
	// shadowing entry so the ancestor's declaration is left untouched.
	declaredType := patchMember.DeclaredType
	if declaredType == nil {
		if m, _, ok := target.GetMember(name); ok {
			declaredType = m.DeclaredType
		}
	}
	shadow := &object.Member{
		Name:         name,
		DeclaredType: declaredType,
		Location:     patchMember.Location,
	}
	shadow.SetResolved(next)
	target.AddMember(shadow)
	return nil
}
