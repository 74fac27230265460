package lockfile

import (
	"fmt"
	"strings"

	"github.com/bnema/depsync/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version" yaml:"version"`
	Packages []packageSchema `toml:"package" yaml:"package"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported lockfile schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type packageSchema struct {
	Name    string   `toml:"name" yaml:"name"`
	Version string   `toml:"version" yaml:"version"`
	Envs    []string `toml:"envs,omitempty" yaml:"envs,omitempty"`
}

func (s fileSchema) dependencies() ([]domain.Dependency, error) {
	deps := make([]domain.Dependency, 0, len(s.Packages))
	for i, entry := range s.Packages {
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("package #%d: name is required", i+1)
		}
		if domain.NormalizeVersion(entry.Version) == "" {
			return nil, fmt.Errorf("package %q: %w: version is required", entry.Name, domain.ErrInvalidRecord)
		}
		if !domain.IsExactVersion(entry.Version) {
			return nil, fmt.Errorf("package %q: %w: version %q is not an exact pin", entry.Name, domain.ErrInvalidRecord, entry.Version)
		}

		envs := entry.Envs
		if len(envs) == 0 {
			envs = []string{domain.DefaultEnvironment}
		}
		deps = append(deps, domain.Dependency{
			Name:         entry.Name,
			Constraint:   entry.Version,
			Environments: append([]string(nil), envs...),
		})
	}

	return deps, nil
}

func toSchema(deps []domain.Dependency) fileSchema {
	file := fileSchema{Version: currentSchemaVersion, Packages: make([]packageSchema, 0, len(deps))}
	for _, dep := range deps {
		record := dep.Record()
		file.Packages = append(file.Packages, packageSchema{
			Name:    record.Name,
			Version: record.NormalizedVersion(),
			Envs:    record.Environments,
		})
	}
	return file
}
