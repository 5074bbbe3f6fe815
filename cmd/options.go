package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cmmoran/dtogen/internal/emitter"
	"github.com/cmmoran/dtogen/pkg/generator"
)

// optionFlags maps generator option keys to the flags that set them.
var optionFlags = map[string]string{
	"schemas":             "schema",
	"includes":            "include",
	"excludes":            "exclude",
	"out_dir":             "output-directory",
	"suffix":              "suffix",
	"package_suffix":      "package-suffix",
	"extension":           "extension",
	"implicit_namespaces": "implicit",
	"banner":              "banner",
	"manifest":            "manifest",
	"prune":               "prune",
}

func addOptionFlags(flags *pflag.FlagSet) {
	flags.StringSliceP("schema", "s", []string{generator.DefaultSchemaDir}, "schema files or directories to read")
	flags.StringSliceP("include", "i", []string{}, "qualified names or patterns of the types to mirror (default all)")
	flags.StringSliceP("exclude", "x", []string{}, "qualified names or patterns of the types to skip")
	flags.StringP("output-directory", "o", generator.DefaultOutDir, "root of the generated source tree")
	flags.String("suffix", emitter.DefaultSuffix, "suffix appended to every transfer type name")
	flags.String("package-suffix", emitter.DefaultPackageSuffix, "namespace segment appended to every transfer type package")
	flags.String("extension", emitter.DefaultExtension, "file extension of generated sources")
	flags.StringSlice("implicit", emitter.DefaultImplicitNamespaces, "namespaces whose types are written without qualifier")
	flags.String("banner", emitter.DefaultBanner, "first line of the generated class comment")
	flags.String("manifest", generator.DefaultManifest, "run manifest file name, relative to the output directory")
	flags.Bool("prune", false, "remove transfer types generated by the previous run that are no longer generated")
}

// bindOptionFlags binds the running command's flags, so commands sharing
// flag names do not steal each other's bindings.
func bindOptionFlags(flags *pflag.FlagSet) error {
	for key, name := range optionFlags {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "bind flag %s", name)
		}
	}
	return nil
}

// loadOptions decodes flags, environment and config files into generator options.
func loadOptions() (*generator.Options, error) {
	opts := generator.NewOptions()
	if err := viper.Unmarshal(opts); err != nil {
		return nil, errors.Wrap(err, "decode options")
	}
	opts.Normalize()
	return opts, nil
}
