package ports

import (
	"context"

	"github.com/bnema/depsync/internal/domain"
)

// PackageManager returns the process status code. A non-nil error means the
// process could not be run at all.
type PackageManager interface {
	Remove(ctx context.Context, records []domain.PackageRecord) (int, error)
	Install(ctx context.Context, records []domain.PackageRecord) (int, error)
}

type PackageManagerFactory interface {
	ForEnvironment(env domain.Environment) PackageManager
}
