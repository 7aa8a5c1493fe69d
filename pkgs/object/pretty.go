package object

import (
	"fmt"
	"sort"
	"strings"
)

// Pretty renders a human-readable, indented view of this object: its
// parents, then every member it declares directly, each with its
// effective value if one has been resolved. It is informative only —
// re-lexing this output is not guaranteed to reproduce the original
// source (no round-trip is promised).
func (o *Object) Pretty() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s):\n", o.FQON, strings.Join(o.ParentNames, ", "))

	names := make([]string, 0, len(o.Members))
	for name := range o.Members {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		b.WriteString("    pass\n")
		return b.String()
	}
	for _, name := range names {
		m := o.Members[name]
		b.WriteString("    ")
		b.WriteString(name)
		if m.DeclaredType != nil {
			b.WriteString(" : ")
			b.WriteString(m.DeclaredType.String())
		}
		if v, ok := m.Resolved(); ok {
			b.WriteString(" = ")
			b.WriteString(v.Repr())
		} else if m.HasOp {
			fmt.Fprintf(&b, " %s <unresolved>", m.Operation)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
