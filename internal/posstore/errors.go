// internal/posstore/errors.go
package posstore

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("product not found")
	ErrValidation = errors.New("invalid product data")
	ErrDuplicate  = errors.New("duplicate product id")
	// ErrNoSnapshot is returned by a Persister with nothing saved yet.
	ErrNoSnapshot = errors.New("no snapshot saved")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
