package generate

import (
	"context"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/cmmoran/dtogen/internal/discovery"
	"github.com/cmmoran/dtogen/internal/emitter"
	"github.com/cmmoran/dtogen/internal/model"
	"github.com/cmmoran/dtogen/pkg/generator"
	"github.com/cmmoran/dtogen/pkg/manifest"
)

// Run discovers the model types selected by opts and writes their transfer
// types below opts.OutDir. The manifest is only updated, and stale artifacts
// only pruned, when every type was generated.
func Run(ctx context.Context, fs afero.Fs, opts *generator.Options) (*emitter.Report, error) {
	opts.Normalize()
	log := slog.Default().With("out_dir", opts.OutDir)

	descriptors, err := discovery.Discover(ctx, fs, opts.DiscoveryRequest())
	if err != nil {
		return nil, err
	}
	log.With("types", len(descriptors)).Debug("model types discovered")

	previous, err := manifest.Load(fs, opts.ManifestPath())
	if err != nil {
		return nil, err
	}

	e := emitter.New(fs, opts.OutDir, model.NewMirrorSet(descriptors), opts.EmitterConfig())
	report, err := e.EmitAll(ctx)
	if err != nil {
		return report, err
	}

	current := &manifest.Manifest{Suffix: opts.Suffix, PackageSuffix: opts.PackageSuffix}
	current.Record(report)

	stale := current.Stale(previous)
	if opts.Prune {
		removed, err := manifest.Prune(fs, opts.OutDir, stale)
		if err != nil {
			return report, err
		}
		for _, p := range removed {
			log.With("path", p).Info("stale transfer type removed")
		}
	} else if len(stale) > 0 {
		log.With("stale", len(stale)).Warn("stale transfer types left in place, run with --prune to remove them")
		current.Retain(stale...)
	}

	if err := current.Save(fs, opts.ManifestPath()); err != nil {
		return report, err
	}

	log.With("generated", len(report.Generated)).Info("transfer types generated")
	return report, nil
}
