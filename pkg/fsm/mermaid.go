package fsm

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Mermaid renders the table as a Mermaid stateDiagram-v2, marking the given
// initial state and routing terminal states to the final marker. Output is
// deterministic: sources are sorted, destinations keep table order.
func (t Table[S]) Mermaid(initial S) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	fmt.Fprintf(&sb, "\t[*] --> %s\n", string(initial))

	for _, from := range slices.Sorted(maps.Keys(t)) {
		for _, to := range t[from] {
			fmt.Fprintf(&sb, "\t%s --> %s\n", string(from), string(to))
		}
	}

	for _, state := range t.States() {
		if t.IsTerminal(state) {
			fmt.Fprintf(&sb, "\t%s --> [*]\n", string(state))
		}
	}
	return sb.String()
}
