package api

import "errors"

// ErrSearcherRequired is returned when a handler is built without a searcher.
var ErrSearcherRequired = errors.New("searcher required")
