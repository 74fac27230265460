package ports

import (
	"context"

	"github.com/bnema/depsync/internal/domain"
)

type SessionJournal interface {
	Record(ctx context.Context, report domain.SessionReport) error
	List(ctx context.Context, limit int) ([]domain.SessionSummary, error)
}
