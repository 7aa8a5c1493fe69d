// Package linearize implements C3 linearization over the nyan object
// graph: given an object's direct parents (themselves already
// linearized), it computes a single, deterministic method-resolution
// order, the same algorithm Python and Dylan use for multiple
// inheritance. Results are cached per FQON since an object's
// linearization never changes once all its ancestors are loaded.
package linearize

import (
	"strings"

	"github.com/nyan-lang/nyan/pkgs/langerr"
	"github.com/nyan-lang/nyan/pkgs/source"
)

// Graph is the minimal view of the object graph the linearizer needs:
// direct parents (in declared order) for any FQON it is asked about.
// pkgs/database implements this over its loaded objects.
type Graph interface {
	DirectParents(fqon string) []string
	Location(fqon string) source.Location
}

// Linearizer computes and caches C3 linearizations over a Graph.
type Linearizer struct {
	graph Graph
	cache map[string][]string
}

// New builds a Linearizer over graph. The graph must be fully
// populated (every object's direct parents known) before the first
// call to Linearization — linearization order is undefined for a
// graph still being declared.
func New(graph Graph) *Linearizer {
	return &Linearizer{graph: graph, cache: make(map[string][]string)}
}

// Linearization returns fqon's full C3 linearization: fqon itself
// first, then its ancestors from most to least derived, with multiple
// inheritance resolved according to C3 merge. Returns an
// Inheritance-kind error if the parents are inconsistent (no valid
// merge exists) or a cycle is detected.
func (lz *Linearizer) Linearization(fqon string) ([]string, error) {
	if cached, ok := lz.cache[fqon]; ok {
		return cached, nil
	}
	visiting := make(map[string]bool)
	lin, err := lz.linearize(fqon, visiting)
	if err != nil {
		return nil, err
	}
	lz.cache[fqon] = lin
	return lin, nil
}

func (lz *Linearizer) linearize(fqon string, visiting map[string]bool) ([]string, error) {
	if cached, ok := lz.cache[fqon]; ok {
		return cached, nil
	}
	if visiting[fqon] {
		return nil, langerr.New(langerr.Inheritance, lz.graph.Location(fqon),
			"inheritance cycle detected involving %q", fqon)
	}
	visiting[fqon] = true
	defer delete(visiting, fqon)

	parents := lz.graph.DirectParents(fqon)
	if len(parents) == 0 {
		lin := []string{fqon}
		lz.cache[fqon] = lin
		return lin, nil
	}

	sequences := make([][]string, 0, len(parents)+1)
	for _, p := range parents {
		plin, err := lz.linearize(p, visiting)
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, append([]string(nil), plin...))
	}
	sequences = append(sequences, append([]string(nil), parents...))

	merged, err := merge(sequences)
	if err != nil {
		return nil, langerr.New(langerr.Inheritance, lz.graph.Location(fqon),
			"cannot linearize %q: %s", fqon, err.Error())
	}
	lin := append([]string{fqon}, merged...)
	lz.cache[fqon] = lin
	return lin, nil
}

// merge implements the C3 merge step: repeatedly take the head of the
// first sequence that does not appear in the tail of any sequence,
// append it to the result, and strip it from every sequence; repeat
// until all sequences are empty. Returns an error naming the
// offending candidates if no valid order exists.
func merge(sequences [][]string) ([]string, error) {
	var result []string
	for {
		sequences = dropEmpty(sequences)
		if len(sequences) == 0 {
			return result, nil
		}
		var head string
		found := false
		for _, seq := range sequences {
			candidate := seq[0]
			if !inAnyTail(sequences, candidate) {
				head = candidate
				found = true
				break
			}
		}
		if !found {
			return nil, inconsistentMergeError(sequences)
		}
		result = append(result, head)
		for i, seq := range sequences {
			sequences[i] = removeFirst(seq, head)
		}
	}
}

func dropEmpty(sequences [][]string) [][]string {
	out := sequences[:0]
	for _, s := range sequences {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func inAnyTail(sequences [][]string, candidate string) bool {
	for _, seq := range sequences {
		for _, x := range seq[1:] {
			if x == candidate {
				return true
			}
		}
	}
	return false
}

func removeFirst(seq []string, value string) []string {
	if len(seq) > 0 && seq[0] == value {
		return seq[1:]
	}
	return seq
}

func inconsistentMergeError(sequences [][]string) error {
	heads := make([]string, 0, len(sequences))
	for _, s := range sequences {
		heads = append(heads, s[0])
	}
	return &mergeError{heads: heads}
}

type mergeError struct{ heads []string }

func (e *mergeError) Error() string {
	return "inconsistent precedence order among " + strings.Join(e.heads, ", ")
}
