package domain

import "errors"

var ErrCatalogUnavailable = errors.New("provider catalog unavailable")
var ErrInvalidCatalog = errors.New("invalid provider catalog")
var ErrUnknownBackend = errors.New("unknown catalog backend")
var ErrCacheMiss = errors.New("catalog cache miss")
