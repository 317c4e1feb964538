package repositories

import "errors"

// ErrNotFound marks lookups and guarded writes that matched no row. Repositories
// wrap it with %w so callers can route on errors.Is instead of matching message
// text.
var ErrNotFound = errors.New("not found")
