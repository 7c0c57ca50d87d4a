package container

import (
	"fmt"
	"strings"
)

const maxFormatted = 32

// Format renders the handle's contents in iteration order, eliding anything
// past the first few dozen elements.
func Format(h *Handle) string {
	var b strings.Builder
	b.WriteString("{ ")
	n := 0
	it := h.Iterate()
	for k, v, ok := it.Next(); ok; k, v, ok = it.Next() {
		if n > 0 {
			b.WriteString(", ")
		}
		if n == maxFormatted {
			b.WriteString("...")
			break
		}
		if h.desc.Associative {
			fmt.Fprintf(&b, "%v = %v", k, v)
		} else {
			fmt.Fprintf(&b, "%v", v)
		}
		n++
	}
	if n == 0 {
		b.WriteString("empty")
	}
	b.WriteString(" }")
	return b.String()
}
