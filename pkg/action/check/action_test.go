package check

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/dtogen/pkg/action/generate"
	"github.com/cmmoran/dtogen/pkg/generator"
)

const schema = `
types:
  - name: fr.maven.dto.bean.Bean
    fields:
      - name: name
        type: java.lang.String
  - name: fr.maven.dto.bean.Bean2
    fields:
      - name: bean
        type: fr.maven.dto.bean.Bean
`

const (
	beanFile  = "fr/maven/dto/bean/dto/BeanDTO.java"
	bean2File = "fr/maven/dto/bean/dto/Bean2DTO.java"
)

func options(at time.Time, extra ...generator.Option) *generator.Options {
	opts := []generator.Option{
		generator.WithSchemas("/project/schema.yaml"),
		generator.WithOutDir("/project/out"),
		generator.WithClock(func() time.Time { return at }),
	}
	return generator.NewOptions().Apply(append(opts, extra...)...)
}

// generated returns a project whose output was generated on 2024-03-01.
func generated(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/schema.yaml", []byte(schema), 0o644))
	_, err := generate.Run(context.Background(), fs, options(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)))
	require.NoError(t, err)
	return fs
}

var later = time.Date(2025, 7, 14, 18, 5, 0, 0, time.UTC)

func TestRunUpToDate(t *testing.T) {
	fs := generated(t)

	res, err := Run(context.Background(), fs, options(later))
	require.NoError(t, err)
	assert.True(t, res.UpToDate())
	assert.Equal(t, 2, res.Checked)
	assert.Empty(t, res.Diffs)
}

func TestRunStale(t *testing.T) {
	fs := generated(t)
	p := "/project/out/" + bean2File
	data, err := afero.ReadFile(fs, p)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, p, append(data, "// edited\n"...), 0o644))

	res, err := Run(context.Background(), fs, options(later))
	require.NoError(t, err)
	assert.False(t, res.UpToDate())
	assert.Equal(t, []string{bean2File}, res.Stale)
	assert.Contains(t, res.Diffs[bean2File], "// edited")
	assert.NotContains(t, res.Diffs, beanFile)
}

func TestRunMissing(t *testing.T) {
	fs := generated(t)
	require.NoError(t, fs.Remove("/project/out/"+beanFile))

	res, err := Run(context.Background(), fs, options(later))
	require.NoError(t, err)
	assert.False(t, res.UpToDate())
	assert.Equal(t, []string{beanFile}, res.Missing)
	assert.Equal(t, 1, res.Checked)
}

func TestRunOrphans(t *testing.T) {
	fs := generated(t)

	res, err := Run(context.Background(), fs, options(later, generator.WithExcludes("fr.maven.dto.bean.Bean2")))
	require.NoError(t, err)
	assert.False(t, res.UpToDate())
	assert.Equal(t, []string{bean2File}, res.Orphans)
	assert.Empty(t, res.Stale)
}

func TestRunNothingGenerated(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/schema.yaml", []byte(schema), 0o644))

	res, err := Run(context.Background(), fs, options(later))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{beanFile, bean2File}, res.Missing)
	assert.Zero(t, res.Checked)
}

func TestMask(t *testing.T) {
	in := "/**\n * banner\n * 2024-03-01 09:30\n */\n"
	assert.Equal(t, "/**\n * banner\n * <timestamp>\n */\n", mask([]byte(in)))
	assert.Equal(t, "\t * 2024-03-01 09:30\n", mask([]byte("\t * 2024-03-01 09:30\n")), "member comments are not masked")
}
