package application

import (
	"testing"

	"github.com/bnema/depsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanInstallsEverythingIntoEmptyEnvironment(t *testing.T) {
	t.Parallel()

	desired := domain.DesiredSet{record("pkgA", "1.0"), record("pkgB", "2.0")}

	plan := Plan(desired, domain.InstalledSnapshot{})

	assert.Equal(t, []domain.PackageRecord{record("pkgA", "1.0"), record("pkgB", "2.0")}, plan.ToInstall)
	assert.Empty(t, plan.ToRemove)
}

func TestPlanSkipsSatisfiedPackages(t *testing.T) {
	t.Parallel()

	plan := Plan(domain.DesiredSet{record("pkgA", "1.0")}, domain.InstalledSnapshot{"pkga": "1.0"})

	assert.Empty(t, plan.ToInstall)
	assert.Empty(t, plan.ToRemove)
	assert.True(t, plan.Empty())
}

func TestPlanUpdateRemovesAndReinstallsDesiredRecord(t *testing.T) {
	t.Parallel()

	desired := record("pkgA", "2.0")

	plan := Plan(domain.DesiredSet{desired}, domain.InstalledSnapshot{"pkga": "1.0"})

	assert.Equal(t, []domain.PackageRecord{desired}, plan.ToInstall)
	assert.Equal(t, []domain.PackageRecord{desired}, plan.ToRemove)
}

func TestPlanNormalizesEqualityOperators(t *testing.T) {
	t.Parallel()

	installed := domain.NewSnapshot([]domain.Dependency{{Name: "requests", Constraint: "==2.31.0"}})

	plan := Plan(domain.DesiredSet{record("Requests", "==2.31.0")}, installed)

	assert.True(t, plan.Empty())
}

func TestPlanLeavesUndeclaredPackagesUntouched(t *testing.T) {
	t.Parallel()

	installed := domain.InstalledSnapshot{"pkga": "1.0", "stray": "9.9"}

	plan := Plan(domain.DesiredSet{record("pkgA", "2.0")}, installed)

	for _, batch := range [][]domain.PackageRecord{plan.ToInstall, plan.ToRemove} {
		for _, r := range batch {
			assert.NotEqual(t, "stray", r.Key())
		}
	}
}

func TestPlanPreservesDesiredOrder(t *testing.T) {
	t.Parallel()

	desired := domain.DesiredSet{
		record("zeta", "1.0"),
		record("alpha", "2.0"),
		record("mid", "3.0"),
		record("beta", "1.0"),
	}
	installed := domain.InstalledSnapshot{"alpha": "1.0", "beta": "1.0"}

	plan := Plan(desired, installed)

	require.Len(t, plan.ToInstall, 3)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, domain.DesiredSet(plan.ToInstall).Names())
	assert.Equal(t, []string{"alpha"}, domain.DesiredSet(plan.ToRemove).Names())
}

func TestPlanUpdatePairingHasOneEntryPerBatch(t *testing.T) {
	t.Parallel()

	desired := domain.DesiredSet{record("a", "2.0"), record("b", "3.0"), record("c", "1.0")}
	installed := domain.InstalledSnapshot{"a": "1.0", "b": "1.0", "c": "1.0"}

	plan := Plan(desired, installed)

	for _, name := range []string{"a", "b"} {
		assert.Equal(t, 1, countNamed(plan.ToInstall, name), name)
		assert.Equal(t, 1, countNamed(plan.ToRemove, name), name)
	}
	assert.Zero(t, countNamed(plan.ToInstall, "c"))
	assert.Zero(t, countNamed(plan.ToRemove, "c"))
}

func TestPlanDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	desired := domain.DesiredSet{record("pkgA", "==2.0")}
	installed := domain.InstalledSnapshot{"pkga": "1.0"}

	_ = Plan(desired, installed)

	assert.Equal(t, domain.DesiredSet{record("pkgA", "==2.0")}, desired)
	assert.Equal(t, domain.InstalledSnapshot{"pkga": "1.0"}, installed)
}

func record(name, version string) domain.PackageRecord {
	return domain.PackageRecord{Name: name, Version: version, Environments: []string{"main"}}
}

func countNamed(records []domain.PackageRecord, name string) int {
	count := 0
	for _, r := range records {
		if r.Name == name {
			count++
		}
	}
	return count
}
