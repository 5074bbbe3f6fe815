package emitter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/cmmoran/dtogen/internal/model"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Artifact is one generated transfer type.
type Artifact struct {
	Type string `yaml:"type" json:"type"` // qualified model name
	Path string `yaml:"path" json:"path"` // slash-separated, relative to the output root
}

// Failure is a type whose emission was aborted.
type Failure struct {
	Type string
	Err  error
}

// Report summarizes one EmitAll run.
type Report struct {
	Generated []Artifact
	Failures  []Failure
}

func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Err returns nil when every type was emitted, otherwise an error naming the
// failed types. The first failure is kept as the cause.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	names := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		names[i] = f.Type
	}
	return errors.Wrapf(r.Failures[0].Err, "%d of %d types failed (%s)",
		len(r.Failures), len(r.Failures)+len(r.Generated), strings.Join(names, ", "))
}

// Emitter writes the transfer types of one MirrorSet below Root. It is the
// per-run context: it owns one Stream per type and is not reusable across
// runs.
type Emitter struct {
	Root string

	fs       afero.Fs
	cfg      Config
	set      *model.MirrorSet
	renderer *Renderer
	streams  map[string]*Stream
	log      *slog.Logger
}

func New(fs afero.Fs, root string, set *model.MirrorSet, cfg Config) *Emitter {
	cfg = cfg.normalize()
	return &Emitter{
		Root:     root,
		fs:       fs,
		cfg:      cfg,
		set:      set,
		renderer: NewRenderer(set, cfg),
		streams:  make(map[string]*Stream),
		log:      slog.Default().With("component", "emitter"),
	}
}

// RelPath is the slash-separated location of d's transfer type below Root.
func (e *Emitter) RelPath(d *model.TypeDescriptor) string {
	dir := strings.ReplaceAll(e.renderer.MirrorNamespace(d.Namespace()), ".", "/")
	return path.Join(dir, e.renderer.MirrorName(d.SimpleName())+"."+e.cfg.Extension)
}

// EmitAll emits every descriptor of the set in order. A failing type is
// recorded and the run goes on; the returned error is Report.Err. The
// context is only checked between types.
func (e *Emitter) EmitAll(ctx context.Context) (*Report, error) {
	report := &Report{}
	for _, d := range e.set.Descriptors() {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, "generation interrupted")
		}
		l := e.log.With("type", d.QualifiedName)
		if err := e.EmitType(d); err != nil {
			l.With("error", err).Error("transfer type not generated")
			report.Failures = append(report.Failures, Failure{Type: d.QualifiedName, Err: err})
			continue
		}
		l.With("path", e.RelPath(d), "fields", len(d.Fields)).Debug("transfer type generated")
		report.Generated = append(report.Generated, Artifact{Type: d.QualifiedName, Path: e.RelPath(d)})
	}
	return report, report.Err()
}

// EmitType writes the complete transfer type for d and closes its stream.
// Field types are all rendered before anything touches the sink, so a
// resolution failure leaves no artifact behind.
func (e *Emitter) EmitType(d *model.TypeDescriptor) (err error) {
	ns := d.Namespace()
	types := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		t, rerr := e.renderer.RenderTypeReference(ns, f.Shape)
		if rerr != nil {
			return errors.Wrapf(rerr, "%s#%s", d.QualifiedName, f.Name)
		}
		types[i] = t
	}

	st := e.stream(d)
	defer func() {
		if err != nil {
			st.abort()
		}
	}()

	dir := filepath.Dir(st.Path)
	if mkErr := e.fs.MkdirAll(dir, dirPerm); mkErr != nil {
		return errors.Mark(errors.Wrapf(mkErr, "create %s", dir), ErrDirectoryCreation)
	}
	if err = st.Advance(StatePackageDirectoryEnsured); err != nil {
		return err
	}

	if err = st.WriteLines(e.header(d)...); err != nil {
		return err
	}
	if err = st.Advance(StateHeaderWritten); err != nil {
		return err
	}

	for i, f := range d.Fields {
		if err = st.WriteLines(
			"\t/**",
			fmt.Sprintf("\t * @see %s#%s", d.QualifiedName, f.Name),
			"\t */",
			fmt.Sprintf("\tprivate %s %s;", types[i], f.Name),
			"",
		); err != nil {
			return err
		}
	}
	if err = st.Advance(StateFieldsWritten); err != nil {
		return err
	}

	for i, f := range d.Fields {
		if err = st.WriteLines(accessorLines(d, f, types[i])...); err != nil {
			return err
		}
	}
	if err = st.WriteLines("}"); err != nil {
		return err
	}
	if err = st.Advance(StateAccessorsWritten); err != nil {
		return err
	}

	return st.Close()
}

func (e *Emitter) header(d *model.TypeDescriptor) []string {
	return []string{
		fmt.Sprintf("package %s;", e.renderer.MirrorNamespace(d.Namespace())),
		"",
		"import java.io.Serializable;",
		"",
		"/**",
		" * " + e.cfg.Banner,
		" * " + e.cfg.Now().Format(timestampLayout),
		" */",
		fmt.Sprintf("public class %s implements Serializable {", e.renderer.MirrorName(d.SimpleName())),
		"",
		"\tprivate static final long serialVersionUID = 1L;",
		"",
	}
}

func accessorLines(d *model.TypeDescriptor, f model.FieldDescriptor, typ string) []string {
	get, set := AccessorName(f), MutatorName(f)
	return []string{
		"\t/**",
		fmt.Sprintf("\t * @see %s#%s()", d.QualifiedName, get),
		"\t */",
		fmt.Sprintf("\tpublic %s %s() {", typ, get),
		fmt.Sprintf("\t\treturn this.%s;", f.Name),
		"\t}",
		"",
		"\t/**",
		fmt.Sprintf("\t * @see %s#%s(%s)", d.QualifiedName, set, f.Shape.RawSimpleName()),
		"\t */",
		fmt.Sprintf("\tpublic void %s(%s %s) {", set, typ, f.Name),
		fmt.Sprintf("\t\tthis.%s = %s;", f.Name, f.Name),
		"\t}",
		"",
	}
}

// stream returns the stream of d, creating it on first use.
func (e *Emitter) stream(d *model.TypeDescriptor) *Stream {
	if st, ok := e.streams[d.QualifiedName]; ok {
		return st
	}
	p := filepath.Join(e.Root, filepath.FromSlash(e.RelPath(d)))
	st := newStream(p, func() (io.WriteCloser, error) {
		return e.fs.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	})
	e.streams[d.QualifiedName] = st
	return st
}
