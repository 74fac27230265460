// Package registry maps format identifiers to converters.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/depsync/internal/adapters/converter/installed"
	"github.com/bnema/depsync/internal/adapters/converter/lockfile"
	"github.com/bnema/depsync/internal/adapters/converter/pipfilelock"
	"github.com/bnema/depsync/internal/domain"
	"github.com/bnema/depsync/internal/ports"
	"github.com/rs/zerolog"
)

type Registry struct {
	converters map[string]ports.Converter
}

var _ ports.ConverterRegistry = (*Registry)(nil)

func New() *Registry {
	return &Registry{converters: map[string]ports.Converter{}}
}

func Default(logger zerolog.Logger) *Registry {
	r := New()
	r.Register(lockfile.FormatTOML, lockfile.NewConverter(lockfile.CodecTOML, logger))
	r.Register(lockfile.FormatYAML, lockfile.NewConverter(lockfile.CodecYAML, logger))
	r.Register(pipfilelock.Format, pipfilelock.NewConverter(logger))
	r.Register(installed.Format, installed.NewConverter(logger))
	return r
}

func (r *Registry) Register(format string, converter ports.Converter) {
	r.converters[normalizeFormat(format)] = converter
}

func (r *Registry) Converter(format string) (ports.Converter, error) {
	converter, ok := r.converters[normalizeFormat(format)]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", domain.ErrUnknownFormat, format, strings.Join(r.Formats(), ", "))
	}
	return converter, nil
}

func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.converters))
	for format := range r.converters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}
