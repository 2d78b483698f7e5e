package orm

import "errors"

// ErrNotFound is returned when a query expects exactly one row but finds none.
var ErrNotFound = errors.New("orm: not found")

// ErrNoPrimaryKey is returned by Update when the primary key is still zero.
var ErrNoPrimaryKey = errors.New("orm: primary key value is required")
