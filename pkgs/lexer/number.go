package lexer

import (
	"fmt"
	"strconv"
	"strings"
)

// checkIntRange reports an error if text does not fit in a signed
// 64-bit integer, matching the grammar's optional-sign / 0 /
// 0x-prefixed / decimal integer shapes.
func checkIntRange(text string) error {
	base := 10
	t := text
	sign := ""
	if strings.HasPrefix(t, "+") || strings.HasPrefix(t, "-") {
		sign = t[:1]
		t = t[1:]
	}
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		base = 16
		t = t[2:]
	}
	_, err := strconv.ParseInt(sign+t, base, 64)
	if err != nil {
		return fmt.Errorf("integer literal %q is out of range for a 64-bit signed integer", text)
	}
	return nil
}
