package catalog

import "errors"

var (
	// ErrProductNotFound is returned when no product has the requested id
	ErrProductNotFound = errors.New("catalog: product not found")

	// ErrDuplicateProduct is returned when the catalog document repeats an id
	ErrDuplicateProduct = errors.New("catalog: duplicate product id")
)
