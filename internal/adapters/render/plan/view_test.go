package plan

import (
	"testing"
	"time"

	"github.com/bnema/depsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name, version string) domain.PackageRecord {
	return domain.PackageRecord{Name: name, Version: version, Environments: []string{domain.DefaultEnvironment}}
}

func TestRenderPlanWithInstallsAndUpdates(t *testing.T) {
	output, err := Render(domain.SessionReport{
		Source:       "lockfile:depsync.lock",
		Environments: []string{"main", "dev"},
		Plan: domain.Plan{
			ToInstall: []domain.PackageRecord{record("requests", "2.31.0"), record("six", "1.16.0")},
			ToRemove:  []domain.PackageRecord{record("requests", "2.31.0")},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "source: lockfile:depsync.lock")
	assert.Contains(t, output, "envs: main, dev")
	assert.Contains(t, output, "remove (1)")
	assert.Contains(t, output, "- requests")
	assert.Contains(t, output, "install (2)")
	assert.Contains(t, output, "~ requests@2.31.0")
	assert.Contains(t, output, "+ six@1.16.0")
}

func TestRenderEmptyPlan(t *testing.T) {
	output, err := Render(domain.SessionReport{
		Source:       "lockfile:depsync.lock",
		Environments: []string{"main"},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Environment is up to date.")
	assert.NotContains(t, output, "install (")
}

func TestRenderConflict(t *testing.T) {
	output, err := Render(domain.SessionReport{
		Source:   "lockfile:depsync.lock",
		Conflict: "conflict: pkgA\n  1.0 (main)",
	})

	require.NoError(t, err)
	assert.Contains(t, output, "conflict was found")
	assert.Contains(t, output, "conflict: pkgA")
	assert.NotContains(t, output, "up to date")
}

func TestRenderHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	output, err := RenderHistory([]domain.SessionSummary{
		{
			ID:           "sess-1",
			Source:       "lockfile:depsync.lock",
			Environments: []string{"main"},
			Outcome:      domain.OutcomeSuccess,
			ToInstall:    2,
			ToRemove:     1,
			StartedAt:    now.Add(-2 * time.Hour),
			FinishedAt:   now.Add(-2*time.Hour + 1500*time.Millisecond),
		},
		{
			ID:           "sess-2",
			Source:       "pipfilelock:Pipfile.lock",
			Environments: []string{"main"},
			FailedIn:     domain.StateInstalling,
			Outcome:      domain.OutcomeExecutionFailed,
			Error:        "install packages: exit status 1",
			StartedAt:    now.Add(-30 * time.Second),
			FinishedAt:   now.Add(-20 * time.Second),
		},
	}, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "sessions: 2")
	assert.Contains(t, output, "sess-1")
	assert.Contains(t, output, "success")
	assert.Contains(t, output, "install: 2  remove: 1  took: 1.5s  2h ago")
	assert.Contains(t, output, "execution_failed")
	assert.Contains(t, output, "failed in installing: install packages: exit status 1")
	assert.Contains(t, output, "just now")
}

func TestRenderHistoryEmpty(t *testing.T) {
	output, err := RenderHistory(nil, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "No sessions recorded.")
}
