// Command nyan is a small demonstration driver over the nyan core: it
// loads source files into a database.Database and lets a caller query
// linearizations and effective member values. Persistence, a
// view/transaction layer, and anything beyond this thin CLI shell are
// explicitly out of scope for the core this command wraps.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
