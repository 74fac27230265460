package lockfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/depsync/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlFixture = `version = 1

[[package]]
name = "requests"
version = "==2.31.0"

[[package]]
name = "pytest"
version = "8.0.0"
envs = ["dev", "test"]
`

const yamlFixture = `version: 1
package:
  - name: requests
    version: "==2.31.0"
  - name: pytest
    version: "8.0.0"
    envs: [dev, test]
`

func TestConverterLoadsBothCodecs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		codec   Codec
		fixture string
	}{
		{name: "toml", codec: CodecTOML, fixture: tomlFixture},
		{name: "yaml", codec: CodecYAML, fixture: yamlFixture},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFixture(t, tt.fixture)
			deps, err := NewConverter(tt.codec, zerolog.Nop()).Load(context.Background(), path)
			require.NoError(t, err)

			assert.Equal(t, []domain.Dependency{
				{Name: "requests", Constraint: "==2.31.0", Environments: []string{"main"}},
				{Name: "pytest", Constraint: "8.0.0", Environments: []string{"dev", "test"}},
			}, deps)
		})
	}
}

func TestConverterLoadResolverSeedsPinnedResolver(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, tomlFixture)
	resolver, err := NewConverter(CodecTOML, zerolog.Nop()).LoadResolver(context.Background(), path)
	require.NoError(t, err)

	resolved, err := resolver.Resolve(context.Background(), true)
	require.NoError(t, err)
	require.True(t, resolved)

	resolver.ApplyEnvironments([]string{"test"})
	records := resolver.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "pytest", records[0].Name)
}

func TestConverterRejectsNewerSchema(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "version = 2\n")
	_, err := NewConverter(CodecTOML, zerolog.Nop()).Load(context.Background(), path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported lockfile schema version 2")
}

func TestConverterRejectsPackageWithoutVersion(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "[[package]]\nname = \"six\"\n")
	_, err := NewConverter(CodecTOML, zerolog.Nop()).Load(context.Background(), path)
	require.ErrorIs(t, err, domain.ErrInvalidRecord)
	assert.ErrorContains(t, err, `package "six"`)
	assert.ErrorContains(t, err, "version is required")
}

func TestConverterRejectsRangeConstraints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		codec   Codec
		fixture string
	}{
		{name: "toml lower bound", codec: CodecTOML, fixture: "[[package]]\nname = \"six\"\nversion = \">=1.0\"\n"},
		{name: "toml wildcard", codec: CodecTOML, fixture: "[[package]]\nname = \"six\"\nversion = \"==1.*\"\n"},
		{name: "yaml compatible release", codec: CodecYAML, fixture: "package:\n  - name: six\n    version: \"~=1.16\"\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFixture(t, tt.fixture)
			_, err := NewConverter(tt.codec, zerolog.Nop()).Load(context.Background(), path)
			require.ErrorIs(t, err, domain.ErrInvalidRecord)
			assert.ErrorContains(t, err, "not an exact pin")
		})
	}
}

func TestConverterMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewConverter(CodecTOML, zerolog.Nop()).Load(context.Background(), filepath.Join(t.TempDir(), "missing.lock"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestConverterDumpThenLoad(t *testing.T) {
	t.Parallel()

	for _, codec := range []Codec{CodecTOML, CodecYAML} {
		path := filepath.Join(t.TempDir(), "nested", "depsync.lock")
		converter := NewConverter(codec, zerolog.Nop())

		err := converter.Dump(context.Background(), path, []domain.Dependency{
			{Name: "six", Constraint: "==1.16.0", Environments: []string{"main"}},
		})
		require.NoError(t, err, string(codec))

		deps, err := converter.Load(context.Background(), path)
		require.NoError(t, err, string(codec))
		assert.Equal(t, []domain.Dependency{{Name: "six", Constraint: "1.16.0", Environments: []string{"main"}}}, deps)
	}
}

func TestConverterUnsupportedCodec(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, tomlFixture)
	_, err := NewConverter(Codec("ini"), zerolog.Nop()).Load(context.Background(), path)
	require.ErrorIs(t, err, ErrUnsupportedCodec)
}

func writeFixture(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "depsync.lock")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
