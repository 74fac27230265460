// Package pip drives "python -m pip" for a single interpreter.
package pip

import (
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/bnema/depsync/internal/domain"
	"github.com/bnema/depsync/internal/ports"
	"github.com/rs/zerolog"
)

const exitCommandNotFound = 127

type runFunc func(stdout, stderr io.Writer, name string, args ...string) (int, error)

type Manager struct {
	executable string
	run        runFunc
	stdout     io.Writer
	stderr     io.Writer
	log        zerolog.Logger
}

var _ ports.PackageManager = (*Manager)(nil)

func NewManager(executable string, stdout, stderr io.Writer, logger zerolog.Logger) *Manager {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	return &Manager{
		executable: executable,
		run:        runCommand,
		stdout:     stdout,
		stderr:     stderr,
		log:        logger,
	}
}

// Remove uninstalls by name; the version of each record is informational.
func (m *Manager) Remove(ctx context.Context, records []domain.PackageRecord) (int, error) {
	args := []string{"-m", "pip", "uninstall", "--yes"}
	for _, record := range records {
		args = append(args, record.Name)
	}
	return m.invoke(ctx, args)
}

// Install pins every record to its exact version and skips dependency
// resolution, which already happened upstream.
func (m *Manager) Install(ctx context.Context, records []domain.PackageRecord) (int, error) {
	args := []string{"-m", "pip", "install", "--no-deps"}
	for _, record := range records {
		args = append(args, record.Name+"=="+record.NormalizedVersion())
	}
	return m.invoke(ctx, args)
}

// invoke refuses to start once ctx is done, but a started process always
// runs to completion.
func (m *Manager) invoke(ctx context.Context, args []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return exitCommandNotFound, err
	}

	m.log.Debug().Str("executable", m.executable).Strs("args", args).Msg("spawn package manager")
	return m.run(m.stdout, m.stderr, m.executable, args...)
}

func runCommand(stdout, stderr io.Writer, name string, args ...string) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return exitCommandNotFound, err
}

type Factory struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger zerolog.Logger
}

var _ ports.PackageManagerFactory = Factory{}

func (f Factory) ForEnvironment(env domain.Environment) ports.PackageManager {
	return NewManager(env.Executable, f.Stdout, f.Stderr, f.Logger)
}
