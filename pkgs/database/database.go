// Package database implements the nyan loader and store: the
// two-pass semantic pass that turns a parsed ast.File into Objects
// installed in a Namespace, the C3-driven topological ordering that
// pass 2 runs in, and the Database API (new/load/get) the rest of a
// driver program is built on.
package database

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/nyan-lang/nyan/internal/obslog"
	"github.com/nyan-lang/nyan/pkgs/ast"
	"github.com/nyan-lang/nyan/pkgs/langerr"
	"github.com/nyan-lang/nyan/pkgs/linearize"
	"github.com/nyan-lang/nyan/pkgs/namespace"
	"github.com/nyan-lang/nyan/pkgs/object"
	"github.com/nyan-lang/nyan/pkgs/parser"
	"github.com/nyan-lang/nyan/pkgs/source"
	"github.com/nyan-lang/nyan/pkgs/types"
)

// Database is the in-memory object store. It is not safe for
// concurrent mutation; concurrent read-only queries on a store with no
// in-flight Load are fine.
type Database struct {
	tree    *namespace.Tree
	objects map[string]*object.Object
	lin     *linearize.Linearizer
	log     obslog.Logger
}

// Option configures a Database at construction time.
type Option func(*Database)

// WithLogger attaches a logger used only for informational messages
// about load progress (objects declared, cache invalidation) — never
// consulted for correctness. Omitting it defaults to slog.Default().
func WithLogger(l obslog.Logger) Option {
	return func(db *Database) { db.log = l }
}

// New returns an empty store.
func New(opts ...Option) *Database {
	db := &Database{
		tree:    namespace.NewTree(),
		objects: make(map[string]*object.Object),
		log:     obslog.Default(),
	}
	for _, o := range opts {
		o(db)
	}
	db.lin = linearize.New(graphView{db})
	return db
}

// Get looks up an object by its fully-qualified name.
func (db *Database) Get(fqon string) (*object.Object, bool) {
	obj, ok := db.objects[fqon]
	return obj, ok
}

// All returns every loaded FQON, sorted.
func (db *Database) All() []string {
	return db.tree.All()
}

// Linearization implements object.Linearizer by delegating to the
// store's own linearizer, so every Object constructed by this package
// shares one cache that gets discarded wholesale whenever a Load
// declares new objects or rolls back (see resetLinearizer).
func (db *Database) Linearization(fqon string) ([]string, error) {
	return db.lin.Linearization(fqon)
}

// IsDescendantOf implements types.Ancestry: a is a descendant of (or
// equal to) b iff b appears anywhere in a's own linearization.
func (db *Database) IsDescendantOf(a, b types.ObjectRef) bool {
	if a == b {
		return true
	}
	lin, err := db.lin.Linearization(string(a))
	if err != nil {
		return false
	}
	for _, fqon := range lin {
		if fqon == string(b) {
			return true
		}
	}
	return false
}

// resetLinearizer discards the cached linearizer, forcing every
// subsequent Linearization call to recompute from the current object
// graph — the "invalidate wholesale" cache policy spec.md §9 asks for.
func (db *Database) resetLinearizer() {
	db.lin = linearize.New(graphView{db})
	db.log.Debug("linearization cache invalidated", "object_count", len(db.objects))
}

// graphView adapts Database to linearize.Graph.
type graphView struct{ db *Database }

func (g graphView) DirectParents(fqon string) []string {
	obj, ok := g.db.objects[fqon]
	if !ok {
		return nil
	}
	return append(append([]string(nil), obj.ParentNames...), obj.InheritanceAdd...)
}

func (g graphView) Location(fqon string) source.Location {
	if obj, ok := g.db.objects[fqon]; ok {
		return obj.Location
	}
	return source.Location{}
}

// Load parses logical_name/text and installs every object it
// declares. Either every declaration is installed and type-checked,
// or none is: on any error the store is rolled back to exactly its
// pre-call state.
func (db *Database) Load(logicalName, text string) error {
	unit := source.New(logicalName, text)
	file, err := parser.Parse(unit)
	if err != nil {
		return err
	}

	snapshot := make(map[string]*object.Object, len(db.objects))
	for k, v := range db.objects {
		snapshot[k] = v
	}

	db.log.Info("loading source unit", "name", logicalName, "objects", len(file.Objects))
	if loadErr := db.loadFile(file); loadErr != nil {
		db.log.Warn("load failed, rolling back", "name", logicalName, "error", loadErr.Error())
		db.objects = snapshot
		db.tree = namespace.NewTree()
		for fqon := range db.objects {
			db.tree.Declare(fqon)
		}
		db.resetLinearizer()
		return loadErr
	}
	db.log.Info("load complete", "name", logicalName, "total_objects", len(db.objects))
	return nil
}

func (db *Database) loadFile(file *ast.File) error {
	// Pass 1: declare. Every object gets a live stub in the store
	// before any name resolution happens, so later objects in the
	// same file (and cross-references within it) can see siblings
	// regardless of declaration order.
	for _, decl := range file.Objects {
		fqon := decl.Name.Name
		if _, exists := db.objects[fqon]; exists {
			return langerr.New(langerr.Name, decl.Location, "object %q is already declared", fqon)
		}
		obj := object.New(fqon, decl.Location, db, db)
		obj.ParentNames = identNames(decl.Parents)
		obj.PatchTargets = identNames(decl.PatchTargets)
		for _, im := range decl.InheritanceAdd {
			obj.InheritanceAdd = append(obj.InheritanceAdd, im.Name.Name)
		}
		db.objects[fqon] = obj
		db.tree.Declare(fqon)
	}
	db.resetLinearizer()

	declByFQON := make(map[string]*ast.ObjectDecl, len(file.Objects))
	for _, decl := range file.Objects {
		declByFQON[decl.Name.Name] = decl
	}

	// Pass 2, step 1: resolve parent/patch-target/inheritance-mod
	// names to canonical FQONs, and validate the resulting parent
	// graph actually linearizes (cycle/merge check, doubling as the
	// topological sort driver).
	for _, decl := range file.Objects {
		obj := db.objects[decl.Name.Name]
		if err := resolveNameList(db, obj.ParentNames, decl.Parents); err != nil {
			return err
		}
		if err := resolveNameList(db, obj.PatchTargets, decl.PatchTargets); err != nil {
			return err
		}
		for i, im := range decl.InheritanceAdd {
			resolved, err := resolveIdent(db, im.Name)
			if err != nil {
				return err
			}
			obj.InheritanceAdd[i] = resolved
		}
	}

	order, err := topologicalOrder(file.Objects)
	if err != nil {
		return err
	}
	for _, fqon := range order {
		if _, err := db.lin.Linearization(fqon); err != nil {
			return err
		}
	}

	sc := &semanticContext{db: db}

	// Pass 2, step 2: resolve and type-check root (non-patch) objects
	// first, in topological order, so a patch processed afterward can
	// always see a fully-resolved target.
	for _, fqon := range order {
		decl := declByFQON[fqon]
		if len(decl.PatchTargets) == 0 {
			if err := sc.resolveRootObject(decl); err != nil {
				return err
			}
		}
	}
	for _, decl := range file.Objects {
		if len(decl.PatchTargets) > 0 {
			if err := sc.resolvePatchObject(decl); err != nil {
				return err
			}
		}
	}

	// Pass 3 (root only): compute and cache each newly introduced
	// member's effective value by walking its linearization from the
	// most ancestral declaration forward.
	for _, fqon := range order {
		decl := declByFQON[fqon]
		if len(decl.PatchTargets) == 0 {
			if err := sc.resolveEffectiveValues(db.objects[fqon]); err != nil {
				return err
			}
		}
	}
	return nil
}

func identNames(ids []ast.Ident) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}
	return names
}

// resolveNameList resolves each raw name in place against the store,
// using the matching Ident (for location) from the original decl for
// diagnostics.
func resolveNameList(db *Database, names []string, ids []ast.Ident) error {
	for i, id := range ids {
		resolved, err := resolveIdent(db, id)
		if err != nil {
			return err
		}
		names[i] = resolved
	}
	return nil
}

// resolveIdent resolves a bare or dotted name to a canonical FQON: an
// exact match first, then (for a bare name) a search for a uniquely
// named object anywhere in the store.
func resolveIdent(db *Database, id ast.Ident) (string, error) {
	if _, ok := db.objects[id.Name]; ok {
		return id.Name, nil
	}
	var matches []string
	suffix := "." + id.Name
	for fqon := range db.objects {
		if fqon == id.Name || (len(fqon) > len(suffix) && fqon[len(fqon)-len(suffix):] == suffix) {
			matches = append(matches, fqon)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		sort.Strings(matches)
		return "", langerr.New(langerr.Name, id.Location,
			"%q is ambiguous among %v", id.Name, matches)
	}
	return "", langerr.New(langerr.Name, id.Location, "unresolved name %q", id.Name).
		WithSuggestions(suggest(id.Name, db.All()))
}

func suggest(name string, candidates []string) []string {
	ranks := fuzzy.RankFindNormalizedFold(name, candidates)
	sort.Sort(ranks)
	var out []string
	for i, r := range ranks {
		if i >= 3 {
			break
		}
		out = append(out, r.Target)
	}
	return out
}

// topologicalOrder returns the new file's objects ordered so every
// object's parents (among the new set) precede it — parents outside
// this file are assumed already fully resolved.
func topologicalOrder(decls []*ast.ObjectDecl) ([]string, error) {
	inFile := make(map[string]bool, len(decls))
	for _, d := range decls {
		inFile[d.Name.Name] = true
	}
	indegree := make(map[string]int, len(decls))
	dependents := make(map[string][]string)
	for _, d := range decls {
		indegree[d.Name.Name] = 0
	}
	for _, d := range decls {
		for _, p := range d.Parents {
			if inFile[p.Name] {
				indegree[d.Name.Name]++
				dependents[p.Name] = append(dependents[p.Name], d.Name.Name)
			}
		}
	}
	var ready []string
	for _, d := range decls {
		if indegree[d.Name.Name] == 0 {
			ready = append(ready, d.Name.Name)
		}
	}
	sort.Strings(ready)
	var order []string
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		var newlyReady []string
		for _, dep := range dependents[n] {
			indegree[dep]--
			if indegree[dep] == 0 {
				newlyReady = append(newlyReady, dep)
			}
		}
		sort.Strings(newlyReady)
		ready = append(ready, newlyReady...)
		sort.Strings(ready)
	}
	if len(order) != len(decls) {
		return nil, langerr.New(langerr.Inheritance, decls[0].Location,
			"inheritance cycle detected among objects declared in this file")
	}
	return order, nil
}
