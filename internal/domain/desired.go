package domain

import "fmt"

// DesiredSet is the ordered, environment-filtered output of a resolver.
type DesiredSet []PackageRecord

func (d DesiredSet) Validate() error {
	seen := make(map[string]struct{}, len(d))
	for _, record := range d {
		if err := record.Validate(); err != nil {
			return err
		}
		key := record.Key()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePackage, record.Name)
		}
		seen[key] = struct{}{}
	}

	return nil
}

func (d DesiredSet) Names() []string {
	names := make([]string, 0, len(d))
	for _, record := range d {
		names = append(names, record.Name)
	}
	return names
}
