package emitter

import (
	"time"
)

const (
	DefaultSuffix        = "DTO"
	DefaultPackageSuffix = "dto"
	DefaultExtension     = "java"
	DefaultBanner        = "This class was generated by dtogen."

	timestampLayout = "2006-01-02 15:04"
)

// DefaultImplicitNamespaces lists the namespaces whose types never need a
// qualifier in generated source. The empty namespace (primitives, default
// package) is always implicit and need not be listed.
var DefaultImplicitNamespaces = []string{"java.lang"}

// Config controls naming and layout of the generated transfer types.
//
// Suffix             – appended to a mirrored type's simple name.
// PackageSuffix      – appended to a model namespace to form its mirror namespace.
// Extension          – file extension of generated sources, without the dot.
// ImplicitNamespaces – namespaces rendered without qualifier.
// Banner             – first line of the generated class doc comment.
// Now                – clock used for the header timestamp.
type Config struct {
	Suffix             string
	PackageSuffix      string
	Extension          string
	ImplicitNamespaces []string
	Banner             string
	Now                func() time.Time
}

func DefaultConfig() Config {
	return Config{
		Suffix:             DefaultSuffix,
		PackageSuffix:      DefaultPackageSuffix,
		Extension:          DefaultExtension,
		ImplicitNamespaces: append([]string(nil), DefaultImplicitNamespaces...),
		Banner:             DefaultBanner,
		Now:                time.Now,
	}
}

// normalize fills zero values with defaults. ImplicitNamespaces is left as
// given when non-nil so callers can opt out of java.lang.
func (c Config) normalize() Config {
	if c.Suffix == "" {
		c.Suffix = DefaultSuffix
	}
	if c.PackageSuffix == "" {
		c.PackageSuffix = DefaultPackageSuffix
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if c.ImplicitNamespaces == nil {
		c.ImplicitNamespaces = append([]string(nil), DefaultImplicitNamespaces...)
	}
	if c.Banner == "" {
		c.Banner = DefaultBanner
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}
