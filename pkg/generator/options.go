package generator

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/cmmoran/dtogen/internal/discovery"
	"github.com/cmmoran/dtogen/internal/emitter"
)

// Options control discovery and emission.
//
// Schemas           – schema files or directories to read
// Includes          – qualified names or patterns to mirror; empty means all
// Excludes          – qualified names or patterns to skip
// OutDir            – root of the generated source tree
// Suffix            – appended to every mirrored type name
// PackageSuffix     – namespace segment appended to every mirrored namespace
// Extension         – file extension of generated artifacts, without the dot
// ImplicitNamespaces – namespaces whose types are written unqualified
// Banner            – first line of the generated class comment
// Manifest          – run manifest file name, relative to OutDir
// Prune             – remove artifacts of the previous run that were not regenerated
type Options struct {
	Schemas            []string `json:"schemas,omitempty" yaml:"schemas,omitempty" toml:"schemas,omitempty" mapstructure:"schemas,omitempty"`
	Includes           []string `json:"includes,omitempty" yaml:"includes,omitempty" toml:"includes,omitempty" mapstructure:"includes,omitempty"`
	Excludes           []string `json:"excludes,omitempty" yaml:"excludes,omitempty" toml:"excludes,omitempty" mapstructure:"excludes,omitempty"`
	OutDir             string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	Suffix             string   `json:"suffix,omitempty" yaml:"suffix,omitempty" toml:"suffix,omitempty" mapstructure:"suffix,omitempty"`
	PackageSuffix      string   `json:"package_suffix,omitempty" yaml:"package_suffix,omitempty" toml:"package_suffix,omitempty" mapstructure:"package_suffix,omitempty"`
	Extension          string   `json:"extension,omitempty" yaml:"extension,omitempty" toml:"extension,omitempty" mapstructure:"extension,omitempty"`
	ImplicitNamespaces []string `json:"implicit_namespaces,omitempty" yaml:"implicit_namespaces,omitempty" toml:"implicit_namespaces,omitempty" mapstructure:"implicit_namespaces,omitempty"`
	Banner             string   `json:"banner,omitempty" yaml:"banner,omitempty" toml:"banner,omitempty" mapstructure:"banner,omitempty"`
	Manifest           string   `json:"manifest,omitempty" yaml:"manifest,omitempty" toml:"manifest,omitempty" mapstructure:"manifest,omitempty"`
	Prune              bool     `json:"prune,omitempty" yaml:"prune,omitempty" toml:"prune,omitempty" mapstructure:"prune,omitempty"`

	now func() time.Time
}

const (
	DefaultSchemaDir = "schema"
	DefaultOutDir    = "target/generated-sources"
	DefaultManifest  = ".dtogen-manifest.yaml"
)

func NewOptions() *Options {
	return &Options{
		Schemas:            []string{DefaultSchemaDir},
		OutDir:             DefaultOutDir,
		Suffix:             emitter.DefaultSuffix,
		PackageSuffix:      emitter.DefaultPackageSuffix,
		Extension:          emitter.DefaultExtension,
		ImplicitNamespaces: append([]string(nil), emitter.DefaultImplicitNamespaces...),
		Banner:             emitter.DefaultBanner,
		Manifest:           DefaultManifest,
	}
}

// Normalize fills empty values with defaults and trims list entries.
// Comma separated list entries are split, so "a.*,b.*" from an environment
// variable reads the same as two flags. ImplicitNamespaces falls back to
// java.lang only when nil; an empty non-nil list means no implicit
// namespace besides the empty one.
func (o *Options) Normalize() {
	o.Schemas = splitList(o.Schemas)
	o.Includes = splitList(o.Includes)
	o.Excludes = splitList(o.Excludes)
	if o.ImplicitNamespaces != nil {
		o.ImplicitNamespaces = append([]string{}, splitList(o.ImplicitNamespaces)...)
	}

	if len(o.Schemas) == 0 {
		o.Schemas = []string{DefaultSchemaDir}
	}
	if len(o.OutDir) == 0 {
		o.OutDir = DefaultOutDir
	}
	o.OutDir = filepath.Clean(o.OutDir)
	if o.Suffix == "" {
		o.Suffix = emitter.DefaultSuffix
	}
	if o.PackageSuffix == "" {
		o.PackageSuffix = emitter.DefaultPackageSuffix
	}
	o.Extension = strings.TrimPrefix(o.Extension, ".")
	if o.Extension == "" {
		o.Extension = emitter.DefaultExtension
	}
	if o.ImplicitNamespaces == nil {
		o.ImplicitNamespaces = append([]string(nil), emitter.DefaultImplicitNamespaces...)
	}
	if o.Banner == "" {
		o.Banner = emitter.DefaultBanner
	}
	if o.Manifest == "" {
		o.Manifest = DefaultManifest
	}
}

func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ManifestPath is where the run manifest lives.
func (o *Options) ManifestPath() string {
	return filepath.Join(o.OutDir, o.Manifest)
}

// EmitterConfig is the emitter configuration these options describe.
func (o *Options) EmitterConfig() emitter.Config {
	cfg := emitter.DefaultConfig()
	cfg.Suffix = o.Suffix
	cfg.PackageSuffix = o.PackageSuffix
	cfg.Extension = o.Extension
	cfg.ImplicitNamespaces = append([]string{}, o.ImplicitNamespaces...)
	cfg.Banner = o.Banner
	if o.now != nil {
		cfg.Now = o.now
	}
	return cfg
}

// DiscoveryRequest is the discovery request these options describe.
func (o *Options) DiscoveryRequest() discovery.Request {
	return discovery.Request{
		Paths:    o.Schemas,
		Includes: o.Includes,
		Excludes: o.Excludes,
	}
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithSchemas(paths ...string) Option { return func(o *Options) { o.Schemas = paths } }
func WithOutDir(d string) Option         { return func(o *Options) { o.OutDir = d } }
func WithSuffix(s string) Option         { return func(o *Options) { o.Suffix = s } }
func WithPackageSuffix(s string) Option  { return func(o *Options) { o.PackageSuffix = s } }
func WithExtension(e string) Option      { return func(o *Options) { o.Extension = e } }
func WithBanner(b string) Option         { return func(o *Options) { o.Banner = b } }
func WithManifest(name string) Option    { return func(o *Options) { o.Manifest = name } }
func WithPrune() Option                  { return func(o *Options) { o.Prune = true } }
func WithImplicit(ns ...string) Option   { return func(o *Options) { o.ImplicitNamespaces = append([]string{}, ns...) } }
func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.now = now }
}
func WithIncludes(names ...string) Option {
	return func(o *Options) {
		for _, n := range names {
			o.Includes = append(o.Includes, strings.TrimSpace(n))
		}
	}
}
func WithExcludes(names ...string) Option {
	return func(o *Options) {
		for _, n := range names {
			o.Excludes = append(o.Excludes, strings.TrimSpace(n))
		}
	}
}

// Apply runs opts against o and normalizes the result.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	o.Normalize()
	return o
}
