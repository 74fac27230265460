package pinned

import (
	"fmt"
	"strings"

	"github.com/bnema/depsync/internal/ports"
)

type conflictSource interface {
	Conflicts() []Conflict
}

type Analyzer struct{}

var _ ports.ConflictAnalyzer = Analyzer{}

// Analyze lists every package pinned to competing versions, one pin per
// line. It returns an empty string for resolvers it cannot inspect.
func (Analyzer) Analyze(resolver ports.Resolver) string {
	source, ok := resolver.(conflictSource)
	if !ok {
		return ""
	}

	var b strings.Builder
	for i, conflict := range source.Conflicts() {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "conflict: %s\n", conflict.Name)
		for _, pin := range conflict.Pins {
			fmt.Fprintf(&b, "  %s (%s)\n", pin.NormalizedVersion(), strings.Join(pin.Environments, ", "))
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}
