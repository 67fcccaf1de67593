package identity

import (
	"errors"
	"fmt"
	"unicode/utf8"

	internalstrings "github.com/amonks/quadrant/internal/strings"
)

// MaxNameLength is the longest allowed identity or role name, in characters.
const MaxNameLength = 30

var (
	// ErrEmptyName is returned when an identity or role name is blank.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrNameTooLong is returned when a name exceeds MaxNameLength.
	ErrNameTooLong = errors.New("name exceeds maximum length")

	// ErrIdentityNotFound is returned when an identity with the given ID doesn't exist.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrAmbiguousIdentity is returned when a reference matches several identities.
	ErrAmbiguousIdentity = errors.New("ambiguous identity reference")

	// ErrRoleNotFound is returned when a role with the given ID doesn't exist.
	ErrRoleNotFound = errors.New("role not found")

	// ErrNoDefaultIdentity is returned when no identity is marked default.
	ErrNoDefaultIdentity = errors.New("no default identity")

	// ErrDeleteDefault is returned when deleting the default identity.
	ErrDeleteDefault = errors.New("cannot delete the default identity")

	// ErrNotLoaded is returned when a Store is used before Load.
	ErrNotLoaded = errors.New("identity store not loaded")
)

// ValidateName checks that an identity or role name is non-blank and short enough.
func ValidateName(name string) error {
	if internalstrings.IsBlank(name) {
		return ErrEmptyName
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return fmt.Errorf("%w: %d > %d", ErrNameTooLong, n, MaxNameLength)
	}
	return nil
}
