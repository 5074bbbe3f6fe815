package manifest

import (
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/dtogen/internal/emitter"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Manifest records the artifacts written by the last generation run.
type Manifest struct {
	Suffix        string             `yaml:"suffix" json:"suffix"`
	PackageSuffix string             `yaml:"package_suffix" json:"package_suffix"`
	Artifacts     []emitter.Artifact `yaml:"artifacts" json:"artifacts"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "unmarshal manifest")
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return errors.Wrap(err, "create manifest directory")
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}

	if err := afero.WriteFile(fs, path, data, filePerm); err != nil {
		return errors.Wrap(err, "write manifest")
	}

	return nil
}

// Record replaces the artifact list with the artifacts of report, sorted by path.
func (m *Manifest) Record(report *emitter.Report) {
	m.Artifacts = append(m.Artifacts[:0], report.Generated...)
	m.sort()
}

// Retain keeps tracking artifacts that were not regenerated, so a later
// pruning run still knows about them.
func (m *Manifest) Retain(artifacts ...emitter.Artifact) {
	m.Artifacts = append(m.Artifacts, artifacts...)
	m.sort()
}

func (m *Manifest) sort() {
	slices.SortFunc(m.Artifacts, func(a, b emitter.Artifact) int {
		return strings.Compare(a.Path, b.Path)
	})
	m.Artifacts = slices.CompactFunc(m.Artifacts, func(a, b emitter.Artifact) bool {
		return a.Path == b.Path
	})
}

// Stale lists the artifacts of previous that m does not contain.
func (m *Manifest) Stale(previous *Manifest) []emitter.Artifact {
	if previous == nil {
		return nil
	}
	current := make(map[string]struct{}, len(m.Artifacts))
	for _, a := range m.Artifacts {
		current[a.Path] = struct{}{}
	}
	var stale []emitter.Artifact
	for _, a := range previous.Artifacts {
		if _, ok := current[a.Path]; !ok {
			stale = append(stale, a)
		}
	}
	return stale
}

// Prune removes stale artifacts below root, then any namespace directory
// left empty by the removal. Artifacts already gone are skipped.
func Prune(fs afero.Fs, root string, stale []emitter.Artifact) ([]string, error) {
	var removed []string
	for _, a := range stale {
		if !filepath.IsLocal(filepath.FromSlash(a.Path)) {
			return removed, errors.Newf("refusing to prune %q outside of %s", a.Path, root)
		}
		p := filepath.Join(root, filepath.FromSlash(a.Path))
		if err := fs.Remove(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return removed, errors.Wrapf(err, "prune %s", a.Path)
		}
		removed = append(removed, a.Path)

		for dir := path.Dir(a.Path); dir != "." && dir != "/"; dir = path.Dir(dir) {
			full := filepath.Join(root, filepath.FromSlash(dir))
			empty, err := afero.IsEmpty(fs, full)
			if err != nil || !empty {
				break
			}
			if err := fs.Remove(full); err != nil {
				break
			}
		}
	}
	return removed, nil
}
