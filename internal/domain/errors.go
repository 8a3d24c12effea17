package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnknownShop is returned for storefront values outside the enumeration.
	ErrUnknownShop = errors.New("unknown shop")
	// ErrStoreImmutable is returned when an update tries to move a customer to another store.
	ErrStoreImmutable = errors.New("store cannot be changed after creation")
)
