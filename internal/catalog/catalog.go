// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ykrasik/jaci-sub001/internal/issue"
	"github.com/ykrasik/jaci-sub001/pkg/cueutil"
)

const (
	// FormatCUE is a CUE catalog (.cue).
	FormatCUE Format = "cue"
	// FormatTOML is a TOML catalog (.toml).
	FormatTOML Format = "toml"
	// FormatYAML is a YAML catalog (.yaml or .yml).
	FormatYAML Format = "yaml"

	schemaPath = "#Catalog"
)

// ErrUnknownFormat is returned for a catalog file with an unsupported extension.
var ErrUnknownFormat = errors.New("unknown catalog format")

//go:embed catalog_schema.cue
var catalogSchema []byte

type (
	// Format is a catalog file format.
	Format string

	// Catalog is a parsed catalog document.
	Catalog struct {
		Directories []Directory `json:"directories,omitempty"`
		Commands    []Command   `json:"commands,omitempty"`

		// Source is the file the catalog was read from, if any.
		Source string `json:"-"`
	}

	// Directory describes a directory of the hierarchy.
	Directory struct {
		Path        string `json:"path"`
		Description string `json:"description,omitempty"`
	}

	// Command is a script command.
	Command struct {
		Name        string  `json:"name"`
		Path        string  `json:"path,omitempty"`
		Description string  `json:"description,omitempty"`
		Params      []Param `json:"params,omitempty"`
		Script      string  `json:"script"`
	}

	// Param declares one command parameter.
	Param struct {
		Name            string   `json:"name"`
		Type            string   `json:"type"`
		Description     string   `json:"description,omitempty"`
		Optional        bool     `json:"optional,omitempty"`
		Default         any      `json:"default,omitempty"`
		Accepts         []string `json:"accepts,omitempty"`
		DirectoriesOnly bool     `json:"directories_only,omitempty"`
	}
)

// FormatOf returns the format of a catalog file from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q (use .cue, .toml, .yaml or .yml)", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		ctx := issue.NewErrorContext().
			WithOperation("load catalog").
			WithResource(path).
			Wrap(err)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			ctx.WithSuggestion("Check the catalogs list in your configuration").
				WithIssue(issue.CatalogNotFoundId)
		case errors.Is(err, fs.ErrPermission):
			ctx.WithSuggestion("Check the file permissions").
				WithIssue(issue.PermissionDeniedId)
		}
		return nil, ctx.BuildError()
	}

	format, err := FormatOf(path)
	if err == nil {
		var cat *Catalog
		if cat, err = Parse(data, format, path); err == nil {
			cat.Source = path
			return cat, nil
		}
	}
	return nil, issue.NewErrorContext().
		WithOperation("parse catalog").
		WithResource(path).
		WithSuggestion("Run 'jaci catalog validate " + path + "' to list every problem").
		WithIssue(issue.CatalogParseErrorId).
		Wrap(err).
		BuildError()
}

// IsPattern reports whether a catalog entry is a glob pattern rather than
// a file path.
func IsPattern(entry string) bool {
	return strings.ContainsAny(entry, "*?[{")
}

// Expand resolves the catalog entries to file paths. Plain paths are kept
// as given, glob patterns (doublestar syntax, "**" included) are replaced
// by the files they match in lexical order. A pattern matching nothing
// contributes no files. A file listed twice is kept at its first position.
func Expand(entries []string) ([]string, error) {
	paths := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	for _, entry := range entries {
		if !IsPattern(entry) {
			add(entry)
			continue
		}
		matches, err := doublestar.FilepathGlob(entry, doublestar.WithFilesOnly())
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("expand catalog pattern").
				WithResource(entry).
				WithSuggestion("Check the pattern syntax, e.g. 'catalogs/**/*.cue'").
				WithIssue(issue.CatalogNotFoundId).
				Wrap(err).
				BuildError()
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return paths, nil
}

// LoadAll loads every catalog in paths, stopping at the first failure.
// Entries may be glob patterns, see Expand.
func LoadAll(paths []string) ([]*Catalog, error) {
	paths, err := Expand(paths)
	if err != nil {
		return nil, err
	}
	cats := make([]*Catalog, 0, len(paths))
	for _, p := range paths {
		cat, err := Load(p)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

// Parse parses a catalog document and validates it against the catalog
// schema. filename is used in error messages only.
func Parse(data []byte, format Format, filename string) (*Catalog, error) {
	opts := []cueutil.Option{cueutil.WithFilename(filename), cueutil.WithConcrete()}

	var (
		result *cueutil.ParseResult[Catalog]
		err    error
	)
	switch format {
	case FormatCUE:
		result, err = cueutil.ParseAndDecode[Catalog](catalogSchema, data, schemaPath, opts...)
	case FormatTOML:
		if err = cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
			return nil, err
		}
		var doc map[string]any
		if err = toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: invalid TOML: %w", filename, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		result, err = cueutil.DecodeValue[Catalog](catalogSchema, schemaPath, doc, opts...)
	case FormatYAML:
		if err = cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
			return nil, err
		}
		var doc map[string]any
		if err = yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: invalid YAML: %w", filename, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		result, err = cueutil.DecodeValue[Catalog](catalogSchema, schemaPath, doc, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// Dir returns the directory scripts of the catalog run in: the directory
// of its source file, or "" for the process working directory.
func (c *Catalog) Dir() string {
	if c.Source == "" {
		return ""
	}
	return filepath.Dir(c.Source)
}
