package ports

import (
	"context"

	"github.com/bnema/depsync/internal/domain"
)

type Converter interface {
	Load(ctx context.Context, path string) ([]domain.Dependency, error)
	LoadResolver(ctx context.Context, path string) (Resolver, error)
}

type ConverterRegistry interface {
	Converter(format string) (Converter, error)
}
