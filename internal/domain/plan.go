package domain

// Plan is the pair of batches that converges an environment toward a
// DesiredSet. Both slices keep the DesiredSet order.
type Plan struct {
	ToInstall []PackageRecord
	ToRemove  []PackageRecord
}

func (p Plan) Empty() bool {
	return len(p.ToInstall) == 0 && len(p.ToRemove) == 0
}

// Updates returns the records that are both removed and reinstalled.
func (p Plan) Updates() []PackageRecord {
	removed := make(map[string]struct{}, len(p.ToRemove))
	for _, record := range p.ToRemove {
		removed[record.Key()] = struct{}{}
	}

	updates := make([]PackageRecord, 0, len(p.ToRemove))
	for _, record := range p.ToInstall {
		if _, ok := removed[record.Key()]; ok {
			updates = append(updates, record)
		}
	}
	return updates
}

type Phase string

const (
	PhaseRemove  Phase = "remove"
	PhaseInstall Phase = "install"
)
