package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/depsync/internal/domain"
	"github.com/bnema/depsync/internal/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Source struct {
	Format string
	Path   string
}

func (s Source) String() string {
	return fmt.Sprintf("%s:%s", s.Format, s.Path)
}

type Request struct {
	Source Source
	// Attach lists extra dependency sources merged into the Source graph
	// before resolution.
	Attach       []Source
	Environments []string
	Silent       bool
	Environment  domain.EnvironmentConfig
	DryRun       bool
}

// SessionContext carries everything a single session needs from its caller,
// so that sessions with different settings can share one process.
type SessionContext struct {
	Logger  zerolog.Logger
	Request Request
}

type SessionDeps struct {
	Converters ports.ConverterRegistry
	Installed  ports.Converter
	Analyzer   ports.ConflictAnalyzer
	Locator    ports.EnvironmentLocator
	Managers   ports.PackageManagerFactory
	Journal    ports.SessionJournal
	Clock      ports.Clock
	NewID      func() string
}

type InstallSession struct {
	converters ports.ConverterRegistry
	installed  ports.Converter
	analyzer   ports.ConflictAnalyzer
	locator    ports.EnvironmentLocator
	managers   ports.PackageManagerFactory
	journal    ports.SessionJournal
	clock      ports.Clock
	newID      func() string
}

func NewInstallSession(deps SessionDeps) *InstallSession {
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}

	return &InstallSession{
		converters: deps.Converters,
		installed:  deps.Installed,
		analyzer:   deps.Analyzer,
		locator:    deps.Locator,
		managers:   deps.Managers,
		journal:    deps.Journal,
		clock:      deps.Clock,
		newID:      deps.NewID,
	}
}

// Run drives one session from resolution to installation. Every failure is
// terminal; the returned report is filled in either way.
func (s *InstallSession) Run(ctx context.Context, sc SessionContext) (domain.SessionReport, error) {
	req := sc.Request
	report := domain.SessionReport{
		ID:           s.newID(),
		Source:       req.Source.String(),
		Environments: append([]string(nil), req.Environments...),
		StartedAt:    s.clock.Now(),
	}
	logger := sc.Logger.With().Str("session", report.ID).Logger()

	err := s.run(ctx, logger, req, &report)

	report.FinishedAt = s.clock.Now()
	report.Outcome = domain.OutcomeFor(err)
	if err != nil {
		report.FailedIn = report.State
		report.State = domain.StateFailed
		report.Error = err.Error()
	} else {
		report.State = domain.StateDone
	}
	logger.Debug().Str("state", string(report.State)).Str("outcome", string(report.Outcome)).Msg("session finished")

	if s.journal != nil {
		if journalErr := s.journal.Record(context.WithoutCancel(ctx), report); journalErr != nil {
			logger.Warn().Err(journalErr).Msg("record session in journal")
		}
	}

	return report, err
}

func (s *InstallSession) attach(ctx context.Context, logger zerolog.Logger, resolver ports.Resolver, sources []Source) error {
	for _, source := range sources {
		logger.Info().Str("format", source.Format).Str("path", source.Path).Msg("attach dependencies")
		converter, err := s.converters.Converter(source.Format)
		if err != nil {
			return fmt.Errorf("select converter for %s: %w", source, err)
		}

		deps, err := converter.Load(ctx, source.Path)
		if err != nil {
			return fmt.Errorf("load attached dependencies %s: %w", source, err)
		}
		resolver.Attach(deps)
	}

	return nil
}

func (s *InstallSession) run(ctx context.Context, logger zerolog.Logger, req Request, report *domain.SessionReport) error {
	enter := func(state domain.SessionState) {
		report.State = state
		logger.Debug().Str("state", string(state)).Msg("session state")
	}

	enter(domain.StateResolving)
	converter, err := s.converters.Converter(req.Source.Format)
	if err != nil {
		return fmt.Errorf("select converter: %w", err)
	}

	logger.Info().Str("format", req.Source.Format).Str("path", req.Source.Path).Msg("get dependencies")
	resolver, err := converter.LoadResolver(ctx, req.Source.Path)
	if err != nil {
		return fmt.Errorf("load dependencies: %w", err)
	}
	if err := s.attach(ctx, logger, resolver, req.Attach); err != nil {
		return err
	}

	logger.Info().Msg("build dependencies graph...")
	resolved, err := resolver.Resolve(ctx, req.Silent)
	if err != nil {
		return fmt.Errorf("resolve dependencies: %w", err)
	}
	if !resolved {
		enter(domain.StateConflict)
		description := strings.TrimSpace(s.analyzer.Analyze(resolver))
		report.Conflict = description
		logger.Warn().Msg("conflict was found")
		return &domain.ConflictError{Description: description}
	}
	enter(domain.StateResolved)

	enter(domain.StateFiltering)
	resolver.ApplyEnvironments(req.Environments)
	desired := resolver.Records()
	if err := desired.Validate(); err != nil {
		return fmt.Errorf("validate resolved graph: %w", err)
	}

	enter(domain.StateLocatingEnv)
	env, err := s.locator.Locate(ctx, req.Environment)
	if err != nil {
		if !errors.Is(err, domain.ErrEnvironmentNotFound) {
			err = fmt.Errorf("%w: %w", domain.ErrEnvironmentNotFound, err)
		}
		return fmt.Errorf("locate environment: %w", err)
	}
	logger.Debug().Str("path", env.Executable).Str("lib", env.LibPath).Msg("chosen environment")

	enter(domain.StateSnapshotting)
	deps, err := s.installed.Load(ctx, env.LibPath)
	if err != nil {
		return fmt.Errorf("load installed packages: %w: %w", domain.ErrSnapshotUnavailable, err)
	}
	installed := domain.NewSnapshot(deps)

	enter(domain.StatePlanning)
	plan := Plan(desired, installed)
	report.Plan = plan
	for _, record := range plan.ToRemove {
		old, _ := installed.Lookup(record.Name)
		logger.Debug().
			Str("dependency", record.Name).
			Str("old", old).
			Str("new", record.NormalizedVersion()).
			Msg("dependency will be updated")
	}

	if req.DryRun {
		return nil
	}

	executor := Executor{
		Logger: logger.With().Str("executable", env.Executable).Logger(),
		OnPhase: func(phase domain.Phase) {
			switch phase {
			case domain.PhaseRemove:
				enter(domain.StateRemoving)
			case domain.PhaseInstall:
				enter(domain.StateInstalling)
			}
		},
	}
	if err := executor.Execute(ctx, plan, s.managers.ForEnvironment(env)); err != nil {
		return err
	}

	logger.Info().Msg("installed")
	return nil
}
