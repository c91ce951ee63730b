package linker

import "errors"

// ErrNoMatch marks a well-formed but empty result set. Resolvers use it
// internally to log misses apart from transport failures; it never crosses
// the Link boundary, which narrows every failure to a false result.
var ErrNoMatch = errors.New("no match found")
