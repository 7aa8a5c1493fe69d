// Package langerr defines the single structured error type used
// throughout the nyan core: LangError, tagged with a Kind and carrying
// a source Location sufficient to reproduce the offending line.
package langerr

import (
	"fmt"

	"github.com/nyan-lang/nyan/pkgs/source"
)

// Kind distinguishes the categories of failure the core can report.
type Kind int

const (
	// Tokenize covers bad characters, bad indentation, unterminated
	// strings, and out-of-range numeric literals.
	Tokenize Kind = iota
	// AST covers unexpected tokens and missing grammar constructs.
	AST
	// Name covers unresolved identifiers (parents, patch targets,
	// type names, value references).
	Name
	// Type covers rhs/declared-type mismatches, disallowed operators,
	// and patch targets missing a member.
	Type
	// Inheritance covers C3 cycles, unmergeable linearizations, and
	// patch target disagreement.
	Inheritance
	// Value covers divide-by-zero, integer overflow, and hashing a
	// non-hashable value.
	Value
	// Internal marks an unreachable branch being reached — a bug.
	Internal
)

func (k Kind) String() string {
	switch k {
	case Tokenize:
		return "TokenizeError"
	case AST:
		return "ASTError"
	case Name:
		return "NameError"
	case Type:
		return "TypeError"
	case Inheritance:
		return "InheritanceError"
	case Value:
		return "ValueError"
	case Internal:
		return "InternalError"
	default:
		return "LangError"
	}
}

// LangError is the sum type for every failure the core can surface.
// It is a leaf error: the core never wraps a third-party error, so
// Unwrap always returns nil.
type LangError struct {
	Kind     Kind
	Message  string
	Location source.Location

	// Suggestions holds up to a few candidate FQONs close to an
	// unresolved name, populated only for Kind == Name.
	Suggestions []string
}

// New builds a LangError of the given kind at the given location.
func New(kind Kind, loc source.Location, format string, args ...any) *LangError {
	return &LangError{Kind: kind, Message: fmt.Sprintf(format, args...), Location: loc}
}

// WithSuggestions attaches candidate name suggestions and returns the
// same error for chaining.
func (e *LangError) WithSuggestions(names []string) *LangError {
	e.Suggestions = names
	return e
}

// Error implements the error interface, rendering a Rust/Clang-style
// snippet so the location is reproducible without re-reading the file.
func (e *LangError) Error() string {
	line := e.Location.LineContent()
	msg := fmt.Sprintf("%s: %s\n  --> %s", e.Kind, e.Message, e.Location)
	if line != "" {
		msg += fmt.Sprintf("\n   | %s", line)
		if e.Location.Column > 0 && e.Location.Column <= len(line)+1 {
			msg += fmt.Sprintf("\n   | %s^", spaces(e.Location.Column-1))
		}
	}
	for _, s := range e.Suggestions {
		msg += fmt.Sprintf("\n   = did you mean %q?", s)
	}
	return msg
}

// Unwrap always returns nil: LangError is a leaf, never a wrapper.
func (e *LangError) Unwrap() error { return nil }

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// Internalf constructs an Internal-kind error — reaching one is a bug,
// not a user-triggerable condition.
func Internalf(loc source.Location, format string, args ...any) *LangError {
	return New(Internal, loc, format, args...)
}
