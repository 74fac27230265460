package application

import (
	"context"

	"github.com/bnema/depsync/internal/domain"
	"github.com/bnema/depsync/internal/ports"
	"github.com/rs/zerolog"
)

// Executor applies a plan through a PackageManager: the remove batch first,
// then the install batch, stopping at the first non-zero status.
type Executor struct {
	Logger  zerolog.Logger
	OnPhase func(domain.Phase)
}

func (e Executor) Execute(ctx context.Context, plan domain.Plan, manager ports.PackageManager) error {
	if len(plan.ToRemove) > 0 {
		e.enter(domain.PhaseRemove)
		e.Logger.Info().Int("packages", len(plan.ToRemove)).Msg("removing old packages...")
		code, err := manager.Remove(ctx, plan.ToRemove)
		if err != nil || code != 0 {
			return &domain.ExecutionError{Phase: domain.PhaseRemove, Code: code, Err: err}
		}
	}

	if len(plan.ToInstall) > 0 {
		e.enter(domain.PhaseInstall)
		e.Logger.Info().Int("packages", len(plan.ToInstall)).Msg("installation...")
		code, err := manager.Install(ctx, plan.ToInstall)
		if err != nil || code != 0 {
			return &domain.ExecutionError{Phase: domain.PhaseInstall, Code: code, Err: err}
		}
	}

	return nil
}

func (e Executor) enter(phase domain.Phase) {
	if e.OnPhase != nil {
		e.OnPhase(phase)
	}
}
