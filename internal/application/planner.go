package application

import "github.com/bnema/depsync/internal/domain"

// Plan classifies every desired record against the installed snapshot:
// missing records are installed, matching versions are skipped and
// differing versions are removed then reinstalled. Installed packages that
// are not desired are never touched.
func Plan(desired domain.DesiredSet, installed domain.InstalledSnapshot) domain.Plan {
	plan := domain.Plan{
		ToInstall: make([]domain.PackageRecord, 0, len(desired)),
		ToRemove:  make([]domain.PackageRecord, 0),
	}

	for _, record := range desired {
		current, ok := installed.Lookup(record.Name)
		if !ok {
			plan.ToInstall = append(plan.ToInstall, record)
			continue
		}
		if current == record.NormalizedVersion() {
			continue
		}

		plan.ToRemove = append(plan.ToRemove, record)
		plan.ToInstall = append(plan.ToInstall, record)
	}

	return plan
}
