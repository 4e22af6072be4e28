package repository

import "errors"

var (
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is a unique constraint violation.
	ErrDuplicate = errors.New("repository: duplicate entry")
	// ErrForeignKey is a reference to a row that does not exist.
	ErrForeignKey = errors.New("repository: foreign key violation")
)
