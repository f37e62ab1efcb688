// Package catalog loads the static, versioned subject catalog that the
// tracker's working state is built on. Catalogs are read-only reference
// data and may be written as JSON, YAML or TOML.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alexanderramin/polymath/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default.json
var defaultCatalog []byte

// ErrInvalidCatalog indicates the catalog failed validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Catalog is a loaded catalog: its version tag and the base tier map.
type Catalog struct {
	Version string
	Tiers   domain.TierMap
}

// Parse decodes, validates and converts catalog data in the given format.
func Parse(data []byte, format Format) (*Catalog, error) {
	var doc Document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s catalog: %w", format, err)
	}

	if errs := Validate(&doc); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	return &Catalog{Version: doc.Version, Tiers: Convert(&doc)}, nil
}

// LoadFile reads a catalog file, choosing the decoder from its extension.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data, FormatFromPath(path))
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog, FormatJSON)
}

// Source yields the base catalog. Every call returns a fresh tier map the
// caller may mutate.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// FileSource loads the catalog from a path, falling back to the bundled
// catalog when the path is empty.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Path == "" {
		return Default()
	}
	return LoadFile(s.Path)
}

// StaticSource serves a fixed catalog. Load hands out deep copies.
type StaticSource struct {
	Catalog *Catalog
}

func (s StaticSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Catalog == nil {
		return nil, fmt.Errorf("static source has no catalog: %w", ErrInvalidCatalog)
	}
	return &Catalog{Version: s.Catalog.Version, Tiers: s.Catalog.Tiers.Clone()}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("catalog validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, msg)
}
