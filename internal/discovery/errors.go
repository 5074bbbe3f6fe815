package discovery

import (
	"github.com/cockroachdb/errors"
)

// ErrClassDiscovery marks every failure to produce the descriptor set: an
// unreadable or malformed schema, a duplicate type, a requested type that
// does not exist or a bad pattern.
var ErrClassDiscovery = errors.New("class discovery")

func discoveryErrorf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrClassDiscovery)
}

func wrapDiscovery(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrClassDiscovery)
}
