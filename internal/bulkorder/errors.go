package bulkorder

import (
	"errors"
)

var (
	ErrNotFound          = errors.New("bulk order not found")
	ErrForbidden         = errors.New("administrator access required")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// ValidationError reports caller input that was rejected before any write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// ProductNotFoundError reports a line item whose product does not resolve in
// the catalog. It matches ErrNotFound with errors.Is.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return "Product with ID " + e.ProductID + " not found"
}

func (e *ProductNotFoundError) Is(target error) bool { return target == ErrNotFound }
