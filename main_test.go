package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/dtogen/pkg/action/generate"
	. "github.com/cmmoran/dtogen/pkg/generator"
)

func TestGenerate(ttt *testing.T) {
	inDir := "testdata/fixtures/canonical"
	outDir := "testdata/fixtures/expectations"
	type args struct {
		opts []Option
	}
	tests := []struct {
		name string
		dir  string
		args args
	}{
		{
			name: "generate with defaults",
			dir:  "defaults",
		},
		{
			name: "generate with suffix=Out",
			dir:  "suffix",
			args: args{opts: []Option{WithSuffix("Out")}},
		},
		{
			name: "generate with include pattern",
			dir:  "include",
			args: args{opts: []Option{WithIncludes("fr.maven.dto.bean.*")}},
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			// schemas are read from disk, output stays in memory
			sink := afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(afero.NewOsFs()), afero.NewMemMapFs())
			genDir := filepath.Join(t.TempDir(), "out")

			opts := NewOptions().Apply(append([]Option{
				WithSchemas(inDir),
				WithOutDir(genDir),
				WithClock(func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }),
			}, tt.args.opts...)...)

			report, err := generate.Run(context.Background(), sink, opts)
			require.NoError(t, err)

			expectDir := filepath.Join(outDir, tt.dir)
			var expected []string
			err = filepath.WalkDir(expectDir, func(path string, d fs.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return err
				}
				rel, err := filepath.Rel(expectDir, path)
				if err != nil {
					return err
				}
				expected = append(expected, filepath.ToSlash(rel))
				return nil
			})
			require.NoError(t, err)

			var generated []string
			for _, a := range report.Generated {
				generated = append(generated, a.Path)
			}
			require.ElementsMatch(t, expected, generated)

			for _, rel := range expected {
				expectedBytes, err := os.ReadFile(filepath.Join(expectDir, filepath.FromSlash(rel)))
				require.NoError(t, err)
				got, err := afero.ReadFile(sink, filepath.Join(genDir, filepath.FromSlash(rel)))
				require.NoError(t, err)

				diff := cmp.Diff(string(expectedBytes), string(got))
				require.EqualValuesf(t, string(expectedBytes), string(got), "%s: diff = %s", rel, diff)
			}
		})
	}
}
