package repository

import "errors"

var (
	// ErrNotFound is returned by every lookup, update and delete that targets a missing row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write hits a unique index.
	ErrDuplicate = errors.New("duplicate")
	// ErrQuantityLimit is returned when a cart merge would push a row past model.MaxCartQuantity.
	ErrQuantityLimit = errors.New("quantity limit exceeded")
)
