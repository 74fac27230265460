package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const DefaultEnvironment = "main"

var (
	nameSeparators = regexp.MustCompile(`[-_.]+`)
	versionRange   = regexp.MustCompile(`[<>~!*,=\s]`)
)

// PackageRecord is one resolved package pinned to a single version.
// Version may still carry an equality operator; see NormalizeVersion.
type PackageRecord struct {
	Name         string
	Version      string
	Environments []string
}

func (r PackageRecord) Key() string {
	return CanonicalName(r.Name)
}

func (r PackageRecord) NormalizedVersion() string {
	return NormalizeVersion(r.Version)
}

func (r PackageRecord) String() string {
	return fmt.Sprintf("%s@%s", r.Name, r.NormalizedVersion())
}

func (r PackageRecord) InAnyEnvironment(tags []string) bool {
	for _, env := range r.Environments {
		for _, tag := range tags {
			if env == tag {
				return true
			}
		}
	}
	return false
}

func (r PackageRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	if r.NormalizedVersion() == "" {
		return fmt.Errorf("%w: version is required for %s", ErrInvalidRecord, r.Name)
	}
	if !IsExactVersion(r.Version) {
		return fmt.Errorf("%w: %s is pinned to %q, not an exact version", ErrInvalidRecord, r.Name, r.Version)
	}
	return nil
}

// Dependency is the raw shape converters produce: a name and a version
// constraint that may still carry an operator prefix such as "==".
type Dependency struct {
	Name         string
	Constraint   string
	Environments []string
}

func (d Dependency) Record() PackageRecord {
	envs := append([]string(nil), d.Environments...)
	if len(envs) == 0 {
		envs = []string{DefaultEnvironment}
	}

	return PackageRecord{
		Name:         strings.TrimSpace(d.Name),
		Version:      strings.TrimSpace(d.Constraint),
		Environments: envs,
	}
}

// CanonicalName folds case and collapses runs of "-", "_" and "." so that
// "Foo_Bar" and "foo-bar" name the same package.
func CanonicalName(name string) string {
	return nameSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// IsExactVersion reports whether version names a single release once its
// equality operator is stripped. Ranges, exclusions and wildcards do not.
func IsExactVersion(version string) bool {
	normalized := NormalizeVersion(version)
	return normalized != "" && !versionRange.MatchString(normalized)
}

// NormalizeVersion strips equality operators ("=", "==", "===") around a
// pinned version.
func NormalizeVersion(version string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(version), "="))
}
