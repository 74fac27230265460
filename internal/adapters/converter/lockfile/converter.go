package lockfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/depsync/internal/adapters/resolver/pinned"
	"github.com/bnema/depsync/internal/domain"
	"github.com/bnema/depsync/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Codec string

const (
	CodecTOML Codec = "toml"
	CodecYAML Codec = "yaml"

	FormatTOML = "lockfile"
	FormatYAML = "lockfile-yaml"

	lockFileMode = 0o644
	lockDirMode  = 0o755
	tempPattern  = ".depsync-*.lock.tmp"
)

var ErrUnsupportedCodec = errors.New("unsupported lockfile codec")

type Converter struct {
	codec Codec
	log   zerolog.Logger
}

var _ ports.Converter = (*Converter)(nil)

func NewConverter(codec Codec, logger zerolog.Logger) *Converter {
	return &Converter{codec: codec, log: logger}
}

func (c *Converter) Load(ctx context.Context, path string) ([]domain.Dependency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lockfile: %w", err)
	}

	file, err := c.decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode lockfile %s: %w", path, err)
	}
	if err := file.validateVersion(); err != nil {
		return nil, err
	}
	file.applyDefaults()

	deps, err := file.dependencies()
	if err != nil {
		return nil, fmt.Errorf("lockfile %s: %w", path, err)
	}

	return deps, nil
}

func (c *Converter) LoadResolver(ctx context.Context, path string) (ports.Resolver, error) {
	deps, err := c.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	return pinned.New(deps, c.log), nil
}

// Dump writes deps to path atomically.
func (c *Converter) Dump(ctx context.Context, path string, deps []domain.Dependency) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := c.encode(toSchema(deps))
	if err != nil {
		return fmt.Errorf("encode lockfile: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), lockDirMode); err != nil {
		return fmt.Errorf("create lockfile directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return fmt.Errorf("create temp lockfile: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp lockfile: %w", err)
	}

	if err := tempFile.Chmod(lockFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp lockfile: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp lockfile: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace lockfile: %w", err)
	}
	cleanup = false

	return nil
}

func (c *Converter) decode(data []byte) (fileSchema, error) {
	var file fileSchema
	switch c.codec {
	case CodecTOML:
		if err := toml.Unmarshal(data, &file); err != nil {
			return fileSchema{}, err
		}
	case CodecYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fileSchema{}, err
		}
	default:
		return fileSchema{}, fmt.Errorf("%w: %q", ErrUnsupportedCodec, c.codec)
	}
	return file, nil
}

func (c *Converter) encode(file fileSchema) ([]byte, error) {
	switch c.codec {
	case CodecTOML:
		return toml.Marshal(file)
	case CodecYAML:
		return yaml.Marshal(file)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCodec, c.codec)
	}
}
