package discovery

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/dtogen/internal/model"
)

const beanSchema = `
types:
  - name: fr.maven.dto.bean.Bean
    fields:
      - name: name
        type: java.lang.String
      - name: active
        type: boolean
      - name: COUNT
        type: int
        static: true
  - name: fr.maven.dto.bean.Bean2
    fields:
      - name: bean
        type: fr.maven.dto.bean.Bean
      - name: beans
        type: java.util.List<fr.maven.dto.bean.Bean>
`

const otherSchema = `{"types": [{"name": "fr.maven.dto.other.Other", "fields": [{"name": "raw", "type": "java.util.List<?>"}]}, {"name": "Plain"}]}`

func schemaFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/schemas/bean.yaml", []byte(beanSchema), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/schemas/nested/other.json", []byte(otherSchema), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/schemas/README.md", []byte("not a schema"), 0o644))
	return fs
}

func names(ds []*model.TypeDescriptor) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.QualifiedName
	}
	return out
}

func TestParse(t *testing.T) {
	sf, err := Parse([]byte(beanSchema))
	require.NoError(t, err)
	require.Len(t, sf.Types, 2)

	assert.Equal(t, "fr.maven.dto.bean.Bean", sf.Types[0].Name)
	require.Len(t, sf.Types[0].Fields, 3)
	assert.True(t, sf.Types[0].Fields[2].Static)
	assert.Equal(t, "java.util.List<fr.maven.dto.bean.Bean>", sf.Types[1].Fields[1].Type)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("types: [unclosed"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClassDiscovery))
}

func TestMarshalRoundTrip(t *testing.T) {
	sf, err := Parse([]byte(beanSchema))
	require.NoError(t, err)

	data, err := Marshal(sf)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, sf, again)
}

func TestDiscoverDirectory(t *testing.T) {
	ds, err := Discover(context.Background(), schemaFs(t), Request{Paths: []string{"/schemas"}})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"fr.maven.dto.bean.Bean",
		"fr.maven.dto.bean.Bean2",
		"fr.maven.dto.other.Other",
		"Plain",
	}, names(ds))

	bean := ds[0]
	assert.Equal(t, "/schemas/bean.yaml", bean.Source)
	require.Len(t, bean.Fields, 2, "static fields are dropped")
	assert.Equal(t, "name", bean.Fields[0].Name)
	assert.True(t, bean.Fields[1].Shape.IsBoolean())

	bean2 := ds[1]
	assert.Equal(t, model.KindParameterized, bean2.Fields[1].Shape.Kind)

	other := ds[2]
	require.Len(t, other.Fields, 1)
	assert.Equal(t, model.KindInvalid, other.Fields[0].Shape.Args[0].Kind)

	assert.Empty(t, ds[3].Fields)
	assert.Equal(t, "", ds[3].Namespace())
}

func TestDiscoverFilters(t *testing.T) {
	tests := []struct {
		name     string
		includes []string
		excludes []string
		want     []string
	}{
		{
			name:     "literal include",
			includes: []string{"fr.maven.dto.bean.Bean2"},
			want:     []string{"fr.maven.dto.bean.Bean2"},
		},
		{
			name:     "single segment wildcard",
			includes: []string{"fr.maven.dto.bean.*"},
			want:     []string{"fr.maven.dto.bean.Bean", "fr.maven.dto.bean.Bean2"},
		},
		{
			name:     "any depth",
			includes: []string{"fr.**"},
			want:     []string{"fr.maven.dto.bean.Bean", "fr.maven.dto.bean.Bean2", "fr.maven.dto.other.Other"},
		},
		{
			name:     "exclude",
			excludes: []string{"fr.maven.dto.bean.*", "Plain"},
			want:     []string{"fr.maven.dto.other.Other"},
		},
		{
			name:     "pattern matching nothing",
			includes: []string{"org.**"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Discover(context.Background(), schemaFs(t), Request{
				Paths:    []string{"/schemas"},
				Includes: tt.includes,
				Excludes: tt.excludes,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(ds))
		})
	}
}

func TestDiscoverErrors(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		req    Request
	}{
		{
			name: "no paths",
			req:  Request{},
		},
		{
			name: "missing path",
			req:  Request{Paths: []string{"/missing.yaml"}},
		},
		{
			name: "unknown literal include",
			req:  Request{Paths: []string{"/s.yaml"}, Includes: []string{"fr.Missing"}},
		},
		{
			name: "bad pattern",
			req:  Request{Paths: []string{"/s.yaml"}, Includes: []string{"fr.[a"}},
		},
		{
			name:   "duplicate type",
			schema: "types: [{name: a.B}, {name: a.B}]",
			req:    Request{Paths: []string{"/s.yaml"}},
		},
		{
			name:   "duplicate field",
			schema: "types: [{name: a.B, fields: [{name: x, type: int}, {name: x, type: long}]}]",
			req:    Request{Paths: []string{"/s.yaml"}},
		},
		{
			name:   "invalid type name",
			schema: "types: [{name: 'a..B'}]",
			req:    Request{Paths: []string{"/s.yaml"}},
		},
		{
			name:   "invalid field name",
			schema: "types: [{name: a.B, fields: [{name: 'not valid', type: int}]}]",
			req:    Request{Paths: []string{"/s.yaml"}},
		},
		{
			name:   "malformed yaml",
			schema: "types: {",
			req:    Request{Paths: []string{"/s.yaml"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			schema := tt.schema
			if schema == "" {
				schema = "types: [{name: fr.Bean}]"
			}
			require.NoError(t, afero.WriteFile(fs, "/s.yaml", []byte(schema), 0o644))

			_, err := Discover(context.Background(), fs, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrClassDiscovery), "got %v", err)
		})
	}
}

func TestDiscoverUnparseableFieldType(t *testing.T) {
	fs := afero.NewMemMapFs()
	schema := "types: [{name: a.B, fields: [{name: x, type: 'java.util.List<>'}]}]"
	require.NoError(t, afero.WriteFile(fs, "/s.yaml", []byte(schema), 0o644))

	ds, err := Discover(context.Background(), fs, Request{Paths: []string{"/s.yaml"}})
	require.NoError(t, err)
	require.Len(t, ds, 1)

	shape := ds[0].Fields[0].Shape
	assert.Equal(t, model.KindInvalid, shape.Kind)
	assert.Equal(t, "java.util.List<>", shape.Raw)
}

func TestDiscoverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Discover(ctx, schemaFs(t), Request{Paths: []string{"/schemas"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiscoverNonASCIINames(t *testing.T) {
	fs := afero.NewMemMapFs()
	schema := `
types:
  - name: fr.café.Bean
  - name: fr.café.Holder
    fields:
      - name: größe
        type: java.util.List<fr.café.Bean>
`
	require.NoError(t, afero.WriteFile(fs, "/s.yaml", []byte(schema), 0o644))

	ds, err := Discover(context.Background(), fs, Request{Paths: []string{"/s.yaml"}})
	require.NoError(t, err)
	require.Len(t, ds, 2)

	shape := ds[1].Fields[0].Shape
	require.Equal(t, model.KindParameterized, shape.Kind)
	assert.Equal(t, model.TypeRef{Namespace: "fr.café", Name: "Bean"}, shape.Args[0].Ref)
}
