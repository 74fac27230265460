// Package pinned resolves dependency graphs whose packages are already
// pinned to exact versions, such as lockfiles and installed environments.
// Resolution merges repeated pins and reports names pinned to more than one
// version as conflicts.
package pinned

import (
	"context"

	"github.com/bnema/depsync/internal/domain"
	"github.com/bnema/depsync/internal/ports"
	"github.com/rs/zerolog"
)

type Conflict struct {
	Name string
	Pins []domain.PackageRecord
}

type Resolver struct {
	deps      []domain.Dependency
	records   domain.DesiredSet
	conflicts []Conflict
	resolved  bool
	log       zerolog.Logger
}

var _ ports.Resolver = (*Resolver)(nil)

func New(deps []domain.Dependency, logger zerolog.Logger) *Resolver {
	return &Resolver{
		deps: append([]domain.Dependency(nil), deps...),
		log:  logger,
	}
}

// Attach appends deps after the seeded ones. They take part in the next
// Resolve like any other pin, so a disagreeing version is a conflict.
func (r *Resolver) Attach(deps []domain.Dependency) {
	r.deps = append(r.deps, deps...)
}

func (r *Resolver) Resolve(ctx context.Context, silent bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	logger := r.log
	if silent {
		logger = zerolog.Nop()
	}

	index := make(map[string]int, len(r.deps))
	pins := make(map[string][]domain.PackageRecord, len(r.deps))
	records := make(domain.DesiredSet, 0, len(r.deps))
	var conflictOrder []string

	for _, dep := range r.deps {
		record := dep.Record()
		key := record.Key()

		at, seen := index[key]
		if !seen {
			index[key] = len(records)
			records = append(records, record)
			pins[key] = []domain.PackageRecord{record}
			continue
		}

		if records[at].NormalizedVersion() == record.NormalizedVersion() {
			records[at].Environments = mergeEnvironments(records[at].Environments, record.Environments)
			logger.Debug().Str("dependency", record.Name).Msg("merged repeated pin")
			continue
		}

		if len(pins[key]) == 1 {
			conflictOrder = append(conflictOrder, key)
		}
		pins[key] = append(pins[key], record)
		logger.Debug().
			Str("dependency", record.Name).
			Str("pinned", records[at].NormalizedVersion()).
			Str("conflicting", record.NormalizedVersion()).
			Msg("conflicting pin")
	}

	r.conflicts = make([]Conflict, 0, len(conflictOrder))
	for _, key := range conflictOrder {
		r.conflicts = append(r.conflicts, Conflict{Name: records[index[key]].Name, Pins: pins[key]})
	}

	r.resolved = len(r.conflicts) == 0
	if r.resolved {
		r.records = records
	} else {
		r.records = nil
	}
	logger.Debug().Int("packages", len(records)).Int("conflicts", len(r.conflicts)).Msg("graph built")

	return r.resolved, nil
}

// ApplyEnvironments keeps only records tagged with at least one of tags and
// narrows their environments to those tags.
func (r *Resolver) ApplyEnvironments(tags []string) {
	filtered := make(domain.DesiredSet, 0, len(r.records))
	for _, record := range r.records {
		if !record.InAnyEnvironment(tags) {
			continue
		}
		record.Environments = intersect(record.Environments, tags)
		filtered = append(filtered, record)
	}
	r.records = filtered
}

func (r *Resolver) Records() domain.DesiredSet {
	return append(domain.DesiredSet(nil), r.records...)
}

func (r *Resolver) Conflicts() []Conflict {
	return append([]Conflict(nil), r.conflicts...)
}

func mergeEnvironments(left, right []string) []string {
	merged := append([]string(nil), left...)
	for _, env := range right {
		if !contains(merged, env) {
			merged = append(merged, env)
		}
	}
	return merged
}

func intersect(envs, tags []string) []string {
	result := make([]string, 0, len(envs))
	for _, env := range envs {
		if contains(tags, env) {
			result = append(result, env)
		}
	}
	return result
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
