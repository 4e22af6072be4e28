package services

import (
	"errors"
	"fmt"

	repo "github.com/baharkarakas/shelfhub/internal/repository"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
	// ErrInvalidCredentials is the only message a failed login reveals.
	ErrInvalidCredentials = errors.New("Please enter a correct username and password. Note that both fields may be case-sensitive.")
	ErrConstraint         = errors.New("constraint violation")
)

func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrDuplicate), errors.Is(err, repo.ErrForeignKey):
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	return err
}
