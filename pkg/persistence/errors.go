package persistence

import "errors"

// Standard persistence error types that all implementations should use.
var (
	// ErrProjectNotFound indicates a project snapshot was not found by the given identifier.
	ErrProjectNotFound = errors.New("project not found")

	// ErrFavoriteNotFound indicates no favorite exists for the given project.
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// IsNotFound checks if an error indicates a missing project or favorite.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProjectNotFound) || errors.Is(err, ErrFavoriteNotFound)
}
