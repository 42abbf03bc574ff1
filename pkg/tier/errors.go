package tier

import "errors"

var (
	// ErrUnknownTier is returned when a key is not present in the catalog.
	ErrUnknownTier = errors.New("unknown support tier")

	ErrInvalidCatalog = errors.New("invalid tier catalog")
)
