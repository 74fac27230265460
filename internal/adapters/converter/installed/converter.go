// Package installed lists the distributions present in a Python library
// directory by reading their dist-info and egg-info metadata.
package installed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/depsync/internal/adapters/resolver/pinned"
	"github.com/bnema/depsync/internal/domain"
	"github.com/bnema/depsync/internal/ports"
	"github.com/rs/zerolog"
)

const (
	Format = "installed"

	distInfoSuffix = ".dist-info"
	eggInfoSuffix  = ".egg-info"
	distMetadata   = "METADATA"
	eggMetadata    = "PKG-INFO"
)

type Converter struct {
	log zerolog.Logger
}

var _ ports.Converter = (*Converter)(nil)

func NewConverter(logger zerolog.Logger) *Converter {
	return &Converter{log: logger}
}

func (c *Converter) Load(ctx context.Context, path string) ([]domain.Dependency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read library directory: %w", err)
	}

	deps := make([]domain.Dependency, 0, len(entries))
	for _, entry := range entries {
		metadataPath, ok := metadataFile(path, entry)
		if !ok {
			continue
		}

		name, version, err := readMetadata(metadataPath)
		if err != nil {
			c.log.Debug().Err(err).Str("path", metadataPath).Msg("skip unreadable metadata")
			continue
		}
		if name == "" || version == "" {
			c.log.Debug().Str("path", metadataPath).Msg("skip metadata without name or version")
			continue
		}

		deps = append(deps, domain.Dependency{
			Name:         name,
			Constraint:   "==" + version,
			Environments: []string{domain.DefaultEnvironment},
		})
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

func metadataFile(root string, entry os.DirEntry) (string, bool) {
	name := entry.Name()
	switch {
	case entry.IsDir() && strings.HasSuffix(name, distInfoSuffix):
		return filepath.Join(root, name, distMetadata), true
	case entry.IsDir() && strings.HasSuffix(name, eggInfoSuffix):
		return filepath.Join(root, name, eggMetadata), true
	case entry.Type().IsRegular() && strings.HasSuffix(name, eggInfoSuffix):
		return filepath.Join(root, name), true
	default:
		return "", false
	}
}

// readMetadata parses the RFC 822 header block of a core metadata file.
func readMetadata(path string) (string, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	header, err := textproto.NewReader(bufio.NewReader(file)).ReadMIMEHeader()
	if err != nil && !errors.Is(err, io.EOF) {
		return "", "", fmt.Errorf("parse metadata: %w", err)
	}

	return strings.TrimSpace(header.Get("Name")), strings.TrimSpace(header.Get("Version")), nil
}
