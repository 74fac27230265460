package ports

import (
	"context"

	"github.com/bnema/depsync/internal/domain"
)

type EnvironmentLocator interface {
	Locate(ctx context.Context, cfg domain.EnvironmentConfig) (domain.Environment, error)
}
