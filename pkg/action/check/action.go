package check

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/cmmoran/dtogen/internal/discovery"
	"github.com/cmmoran/dtogen/internal/emitter"
	"github.com/cmmoran/dtogen/internal/model"
	"github.com/cmmoran/dtogen/pkg/generator"
	"github.com/cmmoran/dtogen/pkg/manifest"
)

// timestampLine matches the generation time in the class comment, the only
// line that differs between two runs over the same schema.
var timestampLine = regexp.MustCompile(`(?m)^ \* \d{4}-\d{2}-\d{2} \d{2}:\d{2}$`)

// Result lists the artifacts that a generate run would change.
type Result struct {
	Checked int
	Missing []string          // would be created
	Stale   []string          // would be rewritten
	Orphans []string          // recorded by the last run but no longer generated
	Diffs   map[string]string // per stale artifact, -on disk +regenerated
}

// UpToDate reports whether generate would leave the output untouched.
func (r *Result) UpToDate() bool {
	return len(r.Missing) == 0 && len(r.Stale) == 0 && len(r.Orphans) == 0
}

// Run regenerates the transfer types of opts into memory and compares them
// with the files below opts.OutDir, ignoring the generation timestamp.
func Run(ctx context.Context, fs afero.Fs, opts *generator.Options) (*Result, error) {
	opts.Normalize()

	descriptors, err := discovery.Discover(ctx, fs, opts.DiscoveryRequest())
	if err != nil {
		return nil, err
	}

	mem := afero.NewMemMapFs()
	e := emitter.New(mem, opts.OutDir, model.NewMirrorSet(descriptors), opts.EmitterConfig())
	report, err := e.EmitAll(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{Diffs: make(map[string]string)}
	for _, a := range report.Generated {
		p := filepath.Join(opts.OutDir, filepath.FromSlash(a.Path))
		want, err := afero.ReadFile(mem, p)
		if err != nil {
			return nil, errors.Wrapf(err, "read regenerated %s", a.Path)
		}
		got, err := afero.ReadFile(fs, p)
		if errors.Is(err, os.ErrNotExist) {
			res.Missing = append(res.Missing, a.Path)
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", a.Path)
		}
		res.Checked++

		gotText, wantText := mask(got), mask(want)
		if gotText != wantText {
			res.Stale = append(res.Stale, a.Path)
			res.Diffs[a.Path] = cmp.Diff(gotText, wantText)
		}
	}

	previous, err := manifest.Load(fs, opts.ManifestPath())
	if err != nil {
		return nil, err
	}
	current := &manifest.Manifest{}
	current.Record(report)
	for _, a := range current.Stale(previous) {
		exists, err := afero.Exists(fs, filepath.Join(opts.OutDir, filepath.FromSlash(a.Path)))
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", a.Path)
		}
		if exists {
			res.Orphans = append(res.Orphans, a.Path)
		}
	}

	return res, nil
}

func mask(b []byte) string {
	return timestampLine.ReplaceAllString(string(b), " * <timestamp>")
}
