package ponder

import (
	"fmt"
	"strings"
)

// Display prefixes used by Format.
const (
	prefixThought  = "💭 Thought"
	prefixRevision = "🔄 Revision"
	prefixBranch   = "🌿 Branch"
)

// Format renders a thought as a single display line, e.g.
//
//	💭 Thought 2/5: consider the edge cases
//	🔄 Revision 3/5 (revising thought 1): the premise was wrong
//	🌿 Branch 4/6 (from thought 2, ID: alt): try the other approach
//
// total is the estimate to show, normally the effective total from Record.
func Format(t Thought, total int) string {
	var b strings.Builder
	switch {
	case t.IsRevision:
		b.WriteString(prefixRevision)
		fmt.Fprintf(&b, " %d/%d", t.Number, total)
		if t.RevisesNumber != nil {
			fmt.Fprintf(&b, " (revising thought %d)", *t.RevisesNumber)
		}
	case t.IsBranch():
		b.WriteString(prefixBranch)
		fmt.Fprintf(&b, " %d/%d (from thought %d, ID: %s)", t.Number, total, *t.BranchFromNumber, t.BranchID)
	default:
		b.WriteString(prefixThought)
		fmt.Fprintf(&b, " %d/%d", t.Number, total)
	}
	b.WriteString(": ")
	b.WriteString(t.Text)
	return b.String()
}
