package ports

import (
	"context"

	"github.com/bnema/depsync/internal/domain"
)

// Resolver reports false from Resolve when the graph has conflicts; the
// graph then stays queryable for a ConflictAnalyzer. Attach adds
// dependencies from another source and must be called before Resolve.
type Resolver interface {
	Attach(deps []domain.Dependency)
	Resolve(ctx context.Context, silent bool) (bool, error)
	ApplyEnvironments(tags []string)
	Records() domain.DesiredSet
}

type ConflictAnalyzer interface {
	Analyze(resolver Resolver) string
}
