package python

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bnema/depsync/internal/domain"
	"github.com/bnema/depsync/internal/ports"
	"github.com/rs/zerolog"
)

const purelibScript = `import sysconfig; print(sysconfig.get_paths()["purelib"])`

var interpreterNames = []string{"python3", "python"}

type runFunc func(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)

type Locator struct {
	run      runFunc
	lookPath func(file string) (string, error)
	goos     string
	log      zerolog.Logger
}

var _ ports.EnvironmentLocator = (*Locator)(nil)

func NewLocator(logger zerolog.Logger) *Locator {
	return &Locator{
		run:      runInterpreter,
		lookPath: exec.LookPath,
		goos:     runtime.GOOS,
		log:      logger,
	}
}

func (l *Locator) Locate(ctx context.Context, cfg domain.EnvironmentConfig) (domain.Environment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Environment{}, err
	}

	if venv := strings.TrimSpace(cfg.Venv); venv != "" {
		return l.locateVenv(ctx, venv)
	}

	executable, err := l.executable(strings.TrimSpace(cfg.Python))
	if err != nil {
		return domain.Environment{}, err
	}

	libPath, err := l.queryLibPath(ctx, executable)
	if err != nil {
		return domain.Environment{}, err
	}

	return domain.Environment{Executable: executable, LibPath: libPath}, nil
}

func (l *Locator) locateVenv(ctx context.Context, venv string) (domain.Environment, error) {
	root, err := filepath.Abs(venv)
	if err != nil {
		return domain.Environment{}, fmt.Errorf("%w: resolve venv %q: %w", domain.ErrEnvironmentNotFound, venv, err)
	}

	executable := filepath.Join(root, "bin", "python")
	libPattern := filepath.Join(root, "lib", "python*", "site-packages")
	if l.goos == "windows" {
		executable = filepath.Join(root, "Scripts", "python.exe")
		libPattern = filepath.Join(root, "Lib", "site-packages")
	}

	if _, err := os.Stat(executable); err != nil {
		return domain.Environment{}, fmt.Errorf("%w: venv interpreter: %w", domain.ErrEnvironmentNotFound, err)
	}

	matches, err := filepath.Glob(libPattern)
	if err != nil {
		return domain.Environment{}, fmt.Errorf("%w: venv library: %w", domain.ErrEnvironmentNotFound, err)
	}
	if len(matches) == 1 {
		return domain.Environment{Executable: executable, LibPath: matches[0]}, nil
	}

	l.log.Debug().Str("venv", root).Int("candidates", len(matches)).Msg("ask interpreter for library path")
	libPath, err := l.queryLibPath(ctx, executable)
	if err != nil {
		return domain.Environment{}, err
	}

	return domain.Environment{Executable: executable, LibPath: libPath}, nil
}

func (l *Locator) executable(configured string) (string, error) {
	if configured != "" {
		path, err := l.lookPath(configured)
		if err != nil {
			return "", fmt.Errorf("%w: interpreter %q: %w", domain.ErrEnvironmentNotFound, configured, err)
		}
		return path, nil
	}

	for _, name := range interpreterNames {
		path, err := l.lookPath(name)
		if err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: no %s on PATH", domain.ErrEnvironmentNotFound, strings.Join(interpreterNames, " or "))
}

func (l *Locator) queryLibPath(ctx context.Context, executable string) (string, error) {
	stdout, stderr, err := l.run(ctx, executable, "-c", purelibScript)
	if err != nil {
		if stderr != "" {
			return "", fmt.Errorf("%w: query %s: %w: %s", domain.ErrEnvironmentNotFound, executable, err, stderr)
		}
		return "", fmt.Errorf("%w: query %s: %w", domain.ErrEnvironmentNotFound, executable, err)
	}

	libPath := strings.TrimSpace(stdout)
	if libPath == "" {
		return "", fmt.Errorf("%w: %s reported no library path", domain.ErrEnvironmentNotFound, executable)
	}

	return libPath, nil
}

func runInterpreter(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}
