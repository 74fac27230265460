package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bnema/depsync/internal/adapters/converter/installed"
	"github.com/bnema/depsync/internal/adapters/converter/lockfile"
	"github.com/bnema/depsync/internal/adapters/converter/registry"
	"github.com/bnema/depsync/internal/adapters/environment/python"
	sqlitejournal "github.com/bnema/depsync/internal/adapters/journal/sqlite"
	"github.com/bnema/depsync/internal/adapters/pkgmanager/pip"
	planrender "github.com/bnema/depsync/internal/adapters/render/plan"
	"github.com/bnema/depsync/internal/adapters/resolver/pinned"
	"github.com/bnema/depsync/internal/application"
	"github.com/bnema/depsync/internal/domain"
	"github.com/bnema/depsync/internal/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type sessionJournal interface {
	ports.SessionJournal
	Close() error
}

type lockfileWriter interface {
	Dump(ctx context.Context, path string, deps []domain.Dependency) error
}

// app holds constructors rather than instances: the logger and output
// writers are only known once flags are parsed.
type app struct {
	converters      func(zerolog.Logger) ports.ConverterRegistry
	installed       func(zerolog.Logger) ports.Converter
	locator         func(zerolog.Logger) ports.EnvironmentLocator
	managers        func(stdout, stderr io.Writer, logger zerolog.Logger) ports.PackageManagerFactory
	lockfileWriter  func(format string, logger zerolog.Logger) (lockfileWriter, error)
	openJournal     func(ctx context.Context, path string) (sessionJournal, error)
	planRenderer    func(domain.SessionReport) (string, error)
	historyRenderer func([]domain.SessionSummary, planrender.RenderOptions) (string, error)
	newID           func() string
	now             func() time.Time
}

func wireApp() *app {
	return &app{
		converters: func(logger zerolog.Logger) ports.ConverterRegistry {
			return registry.Default(logger)
		},
		installed: func(logger zerolog.Logger) ports.Converter {
			return installed.NewConverter(logger)
		},
		locator: func(logger zerolog.Logger) ports.EnvironmentLocator {
			return python.NewLocator(logger)
		},
		managers: func(stdout, stderr io.Writer, logger zerolog.Logger) ports.PackageManagerFactory {
			return pip.Factory{Stdout: stdout, Stderr: stderr, Logger: logger}
		},
		lockfileWriter: newLockfileWriter,
		openJournal: func(ctx context.Context, path string) (sessionJournal, error) {
			return sqlitejournal.Open(ctx, path)
		},
		planRenderer:    planrender.Render,
		historyRenderer: planrender.RenderHistory,
		newID:           uuid.NewString,
		now:             time.Now,
	}
}

func newLockfileWriter(format string, logger zerolog.Logger) (lockfileWriter, error) {
	switch format {
	case lockfile.FormatTOML:
		return lockfile.NewConverter(lockfile.CodecTOML, logger), nil
	case lockfile.FormatYAML:
		return lockfile.NewConverter(lockfile.CodecYAML, logger), nil
	default:
		return nil, fmt.Errorf("%w %q (writable: %s, %s)", domain.ErrUnknownFormat, format, lockfile.FormatTOML, lockfile.FormatYAML)
	}
}

func (a *app) newSession(stdout, stderr io.Writer, logger zerolog.Logger, journal ports.SessionJournal) *application.InstallSession {
	return application.NewInstallSession(application.SessionDeps{
		Converters: a.converters(logger),
		Installed:  a.installed(logger),
		Analyzer:   pinned.Analyzer{},
		Locator:    a.locator(logger),
		Managers:   a.managers(stdout, stderr, logger),
		Journal:    journal,
		Clock:      clockFunc(a.now),
		NewID:      a.newID,
	})
}

type clockFunc func() time.Time

func (f clockFunc) Now() time.Time {
	return f()
}
