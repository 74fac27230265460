package python

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/bnema/depsync/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateVenvUsesSitePackages(t *testing.T) {
	t.Parallel()

	venv := makeVenv(t, "python3.12")
	locator := &Locator{
		run: func(context.Context, string, ...string) (string, string, error) {
			t.Fatal("interpreter must not be queried when site-packages is unambiguous")
			return "", "", nil
		},
		lookPath: exec.LookPath,
		goos:     "linux",
		log:      zerolog.Nop(),
	}

	env, err := locator.Locate(context.Background(), domain.EnvironmentConfig{Venv: venv, Python: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(venv, "bin", "python"), env.Executable)
	assert.Equal(t, filepath.Join(venv, "lib", "python3.12", "site-packages"), env.LibPath)
}

func TestLocateVenvAsksInterpreterWhenAmbiguous(t *testing.T) {
	t.Parallel()

	venv := makeVenv(t, "python3.11", "python3.12")
	var gotName string
	var gotArgs []string
	locator := &Locator{
		run: func(_ context.Context, name string, args ...string) (string, string, error) {
			gotName = name
			gotArgs = args
			return "/venv/lib/python3.12/site-packages\n", "", nil
		},
		goos: "linux",
		log:  zerolog.Nop(),
	}

	env, err := locator.Locate(context.Background(), domain.EnvironmentConfig{Venv: venv})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(venv, "bin", "python"), gotName)
	assert.Equal(t, []string{"-c", purelibScript}, gotArgs)
	assert.Equal(t, "/venv/lib/python3.12/site-packages", env.LibPath)
}

func TestLocateVenvWithoutInterpreter(t *testing.T) {
	t.Parallel()

	locator := &Locator{goos: "linux", log: zerolog.Nop()}

	_, err := locator.Locate(context.Background(), domain.EnvironmentConfig{Venv: t.TempDir()})
	require.ErrorIs(t, err, domain.ErrEnvironmentNotFound)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocateSearchesPathInOrder(t *testing.T) {
	t.Parallel()

	var looked []string
	locator := &Locator{
		lookPath: func(file string) (string, error) {
			looked = append(looked, file)
			if file == "python" {
				return "/usr/bin/python", nil
			}
			return "", exec.ErrNotFound
		},
		run: func(_ context.Context, name string, _ ...string) (string, string, error) {
			assert.Equal(t, "/usr/bin/python", name)
			return "/usr/lib/python3/dist-packages\n", "", nil
		},
		log: zerolog.Nop(),
	}

	env, err := locator.Locate(context.Background(), domain.EnvironmentConfig{})
	require.NoError(t, err)
	assert.Equal(t, []string{"python3", "python"}, looked)
	assert.Equal(t, domain.Environment{Executable: "/usr/bin/python", LibPath: "/usr/lib/python3/dist-packages"}, env)
}

func TestLocateWithoutAnyInterpreter(t *testing.T) {
	t.Parallel()

	locator := &Locator{
		lookPath: func(string) (string, error) { return "", exec.ErrNotFound },
		log:      zerolog.Nop(),
	}

	_, err := locator.Locate(context.Background(), domain.EnvironmentConfig{})
	require.ErrorIs(t, err, domain.ErrEnvironmentNotFound)
	assert.ErrorContains(t, err, "no python3 or python on PATH")
}

func TestLocateConfiguredInterpreterQueryFailure(t *testing.T) {
	t.Parallel()

	locator := &Locator{
		lookPath: func(file string) (string, error) { return "/opt/" + file, nil },
		run: func(context.Context, string, ...string) (string, string, error) {
			return "", "ModuleNotFoundError: sysconfig", errors.New("exit status 1")
		},
		log: zerolog.Nop(),
	}

	_, err := locator.Locate(context.Background(), domain.EnvironmentConfig{Python: "python3.12"})
	require.ErrorIs(t, err, domain.ErrEnvironmentNotFound)
	assert.ErrorContains(t, err, "/opt/python3.12")
	assert.ErrorContains(t, err, "ModuleNotFoundError")
}

func makeVenv(t *testing.T, pythons ...string) string {
	t.Helper()

	venv := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(venv, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(venv, "bin", "python"), nil, 0o755))
	for _, python := range pythons {
		require.NoError(t, os.MkdirAll(filepath.Join(venv, "lib", python, "site-packages"), 0o755))
	}
	return venv
}
