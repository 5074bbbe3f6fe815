package discovery

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/spf13/afero"

	"github.com/cmmoran/dtogen/internal/model"
)

// Request selects the schema files and the types to mirror from them.
type Request struct {
	// Paths are schema files or directories. Directories are walked for
	// .yaml, .yml and .json files in lexical order.
	Paths []string

	// Includes are qualified names or patterns. Empty means every type.
	// A pattern uses "*" for one namespace segment and "**" for any number.
	Includes []string

	// Excludes remove matching types after includes are applied.
	Excludes []string
}

var schemaExtensions = []string{".yaml", ".yml", ".json"}

// LoadFile reads and parses one schema file.
func LoadFile(fs afero.Fs, path string) (*SchemaFile, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, wrapDiscovery(err, "read schema %s", path)
	}
	sf, err := Parse(data)
	if err != nil {
		return nil, wrapDiscovery(err, "schema %s", path)
	}
	return sf, nil
}

// schemaFiles expands paths into the list of schema files to read.
func schemaFiles(fs afero.Fs, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, discoveryErrorf("no schema paths given")
	}
	var files []string
	for _, p := range paths {
		info, err := fs.Stat(p)
		if err != nil {
			return nil, wrapDiscovery(err, "schema path %s", p)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = afero.Walk(fs, p, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && slices.Contains(schemaExtensions, strings.ToLower(filepath.Ext(path))) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, wrapDiscovery(err, "walk %s", p)
		}
	}
	return files, nil
}

// Discover loads the schema files named by req and returns the descriptors
// of the selected types, in schema order.
func Discover(ctx context.Context, fs afero.Fs, req Request) ([]*model.TypeDescriptor, error) {
	log := slog.Default().With("component", "discovery")

	files, err := schemaFiles(fs, req.Paths)
	if err != nil {
		return nil, err
	}

	var all []*model.TypeDescriptor
	seen := make(map[string]string)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sf, err := LoadFile(fs, file)
		if err != nil {
			return nil, err
		}
		for _, entry := range sf.Types {
			if prev, ok := seen[entry.Name]; ok {
				return nil, discoveryErrorf("type %s declared in %s and %s", entry.Name, prev, file)
			}
			seen[entry.Name] = file

			d, err := describe(log, file, entry)
			if err != nil {
				return nil, err
			}
			all = append(all, d)
		}
		log.With("path", file, "types", len(sf.Types)).Debug("schema loaded")
	}

	selected, err := filter(all, req.Includes, req.Excludes)
	if err != nil {
		return nil, err
	}
	log.With("declared", len(all), "selected", len(selected)).Debug("discovery finished")
	return selected, nil
}

func describe(log *slog.Logger, file string, entry TypeEntry) (*model.TypeDescriptor, error) {
	if !isQualifiedName(entry.Name) {
		return nil, discoveryErrorf("%s: invalid type name %q", file, entry.Name)
	}
	d := &model.TypeDescriptor{QualifiedName: entry.Name, Source: file}
	names := make(map[string]struct{}, len(entry.Fields))
	for _, f := range entry.Fields {
		if f.Static {
			continue
		}
		if !isIdentifier(f.Name) {
			return nil, discoveryErrorf("%s: %s: invalid field name %q", file, entry.Name, f.Name)
		}
		if _, dup := names[f.Name]; dup {
			return nil, discoveryErrorf("%s: %s: duplicate field %s", file, entry.Name, f.Name)
		}
		names[f.Name] = struct{}{}

		shape, err := ParseTypeExpr(f.Type)
		if err != nil {
			log.With("type", entry.Name, "field", f.Name, "error", err).Warn("unparseable field type")
			shape = model.Invalid(f.Type)
		}
		d.Fields = append(d.Fields, model.FieldDescriptor{Name: f.Name, Shape: shape})
	}
	return d, nil
}

// filter applies includes then excludes. A literal include naming a type
// that was not declared is an error; a pattern matching nothing is not.
func filter(all []*model.TypeDescriptor, includes, excludes []string) ([]*model.TypeDescriptor, error) {
	declared := make(map[string]struct{}, len(all))
	for _, d := range all {
		declared[d.QualifiedName] = struct{}{}
	}
	for _, inc := range includes {
		if isPattern(inc) {
			continue
		}
		if _, ok := declared[inc]; !ok {
			return nil, discoveryErrorf("type %s not found", inc)
		}
	}

	out := make([]*model.TypeDescriptor, 0, len(all))
	for _, d := range all {
		if len(includes) > 0 {
			ok, err := matchAny(includes, d.QualifiedName)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		skip, err := matchAny(excludes, d.QualifiedName)
		if err != nil {
			return nil, err
		}
		if !skip {
			out = append(out, d)
		}
	}
	return out, nil
}

func isPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// matchAny matches a qualified name against patterns, treating namespace
// segments like path segments.
func matchAny(patterns []string, qualified string) (bool, error) {
	name := strings.ReplaceAll(qualified, ".", "/")
	for _, p := range patterns {
		ok, err := doublestar.Match(strings.ReplaceAll(p, ".", "/"), name)
		if err != nil {
			return false, wrapDiscovery(err, "pattern %q", p)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
