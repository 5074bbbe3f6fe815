package emitter

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/dtogen/internal/model"
)

// Renderer computes the textual reference to a field type as seen from a
// mirror type. It only reads the MirrorSet.
type Renderer struct {
	cfg      Config
	set      *model.MirrorSet
	implicit map[string]bool
}

func NewRenderer(set *model.MirrorSet, cfg Config) *Renderer {
	cfg = cfg.normalize()
	implicit := map[string]bool{"": true}
	for _, ns := range cfg.ImplicitNamespaces {
		implicit[ns] = true
	}
	return &Renderer{cfg: cfg, set: set, implicit: implicit}
}

// MirrorNamespace returns the namespace the transfer type of a model in ns lives in.
func (r *Renderer) MirrorNamespace(ns string) string {
	if ns == "" {
		return r.cfg.PackageSuffix
	}
	return ns + "." + r.cfg.PackageSuffix
}

// MirrorName returns the simple name of the transfer type for a model name.
func (r *Renderer) MirrorName(name string) string {
	return name + r.cfg.Suffix
}

// RenderTypeReference renders shape as referenced from a field declared in
// contextNamespace:
//
//	Simple         prefix + Name (+ suffix when mirrored)
//	Array          rendered element + "[]" per dimension
//	Parameterized  prefix + raw Name + "<" + args + ">"
//
// The raw container of a Parameterized shape is never suffixed; only its
// arguments may be.
func (r *Renderer) RenderTypeReference(contextNamespace string, shape *model.Shape) (string, error) {
	var sb strings.Builder
	if err := r.render(&sb, contextNamespace, shape); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *Renderer) render(sb *strings.Builder, ctx string, shape *model.Shape) error {
	if shape == nil {
		return errors.Wrap(ErrTypeResolution, "missing shape")
	}

	switch shape.Kind {
	case model.KindSimple:
		sb.WriteString(r.qualifier(ctx, shape.Ref))
		sb.WriteString(shape.Ref.Name)
		if r.set.Contains(shape.Ref) {
			sb.WriteString(r.cfg.Suffix)
		}
		return nil

	case model.KindArray:
		if shape.Elem != nil && shape.Elem.Kind == model.KindArray {
			return errors.Wrapf(ErrTypeResolution, "nested array element in %s", shape)
		}
		if err := r.render(sb, ctx, shape.Elem); err != nil {
			return err
		}
		sb.WriteString(strings.Repeat("[]", shape.Dims))
		return nil

	case model.KindParameterized:
		sb.WriteString(r.qualifier(ctx, shape.Ref))
		sb.WriteString(shape.Ref.Name)
		sb.WriteByte('<')
		for i, arg := range shape.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := r.render(sb, ctx, arg); err != nil {
				return err
			}
		}
		sb.WriteByte('>')
		return nil

	default:
		return errors.Wrapf(ErrTypeResolution, "cannot classify %q (%s)", shape.Raw, shape.Kind)
	}
}

// qualifier returns the namespace prefix, dot included, for ref.
func (r *Renderer) qualifier(ctx string, ref model.TypeRef) string {
	if r.implicit[ref.Namespace] {
		return ""
	}
	if r.set.Contains(ref) {
		if ref.Namespace == ctx {
			return ""
		}
		return r.MirrorNamespace(ref.Namespace) + "."
	}
	return ref.Namespace + "."
}
