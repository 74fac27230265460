// Package pipfilelock reads Pipfile.lock documents. The "default" section
// maps to the main environment and "develop" to dev.
package pipfilelock

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bnema/depsync/internal/adapters/resolver/pinned"
	"github.com/bnema/depsync/internal/domain"
	"github.com/bnema/depsync/internal/ports"
	"github.com/rs/zerolog"
)

const (
	Format = "pipfilelock"

	envDev = "dev"
)

type lockSchema struct {
	Default map[string]entrySchema `json:"default"`
	Develop map[string]entrySchema `json:"develop"`
}

type entrySchema struct {
	Version string `json:"version"`
}

type Converter struct {
	log zerolog.Logger
}

var _ ports.Converter = (*Converter)(nil)

func NewConverter(logger zerolog.Logger) *Converter {
	return &Converter{log: logger}
}

func (c *Converter) Load(ctx context.Context, path string) ([]domain.Dependency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read Pipfile.lock: %w", err)
	}

	var lock lockSchema
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("decode Pipfile.lock %s: %w", path, err)
	}

	deps := c.section(lock.Default, domain.DefaultEnvironment)
	deps = append(deps, c.section(lock.Develop, envDev)...)
	return deps, nil
}

func (c *Converter) LoadResolver(ctx context.Context, path string) (ports.Resolver, error) {
	deps, err := c.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	return pinned.New(deps, c.log), nil
}

func (c *Converter) section(entries map[string]entrySchema, env string) []domain.Dependency {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make([]domain.Dependency, 0, len(names))
	for _, name := range names {
		version := strings.TrimSpace(entries[name].Version)
		if version == "" {
			// vcs and path entries carry no pin
			c.log.Debug().Str("dependency", name).Str("env", env).Msg("skip entry without version")
			continue
		}
		deps = append(deps, domain.Dependency{
			Name:         name,
			Constraint:   version,
			Environments: []string{env},
		})
	}
	return deps
}
