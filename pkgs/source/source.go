// Package source holds loaded source text keyed by a logical name and
// provides line lookup for diagnostics.
package source

import (
	"strconv"
	"strings"
)

// Unit is an immutable piece of source text, identified by a logical
// name (usually a file path, but never read from disk by this
// package — the caller supplies already-loaded text).
type Unit struct {
	Name  string
	Text  string
	lines []string
}

// New splits text into lines once, up front, so Line is O(1).
func New(name, text string) *Unit {
	return &Unit{
		Name:  name,
		Text:  text,
		lines: strings.Split(text, "\n"),
	}
}

// Line returns the 1-based line's content, or "" if out of range.
func (u *Unit) Line(n int) string {
	if n < 1 || n > len(u.lines) {
		return ""
	}
	return u.lines[n-1]
}

// LineCount returns the number of lines in the unit.
func (u *Unit) LineCount() int {
	return len(u.lines)
}

// Location is a diagnostic handle: a position within a Unit.
type Location struct {
	Unit   *Unit
	Line   int
	Column int
}

// String renders "name:line:column", the form used throughout
// LangError messages.
func (l Location) String() string {
	name := "<unknown>"
	if l.Unit != nil {
		name = l.Unit.Name
	}
	return name + ":" + strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}

// LineContent returns the source line this location points at, for
// display in an error snippet (empty string if the unit is nil or the
// line is out of range).
func (l Location) LineContent() string {
	if l.Unit == nil {
		return ""
	}
	return l.Unit.Line(l.Line)
}
