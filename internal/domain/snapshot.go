package domain

import "strings"

// InstalledSnapshot maps canonical package names to normalized versions.
// It is captured once per session and never refreshed.
type InstalledSnapshot map[string]string

func NewSnapshot(deps []Dependency) InstalledSnapshot {
	snapshot := make(InstalledSnapshot, len(deps))
	for _, dep := range deps {
		if strings.TrimSpace(dep.Name) == "" {
			continue
		}
		snapshot[CanonicalName(dep.Name)] = NormalizeVersion(dep.Constraint)
	}
	return snapshot
}

func (s InstalledSnapshot) Lookup(name string) (string, bool) {
	version, ok := s[CanonicalName(name)]
	return version, ok
}
