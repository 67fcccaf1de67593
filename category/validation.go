package category

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	internalstrings "github.com/amonks/quadrant/internal/strings"
)

// MaxNameLength is the longest allowed category name, in characters.
const MaxNameLength = 30

var (
	// ErrEmptyName is returned when a category name is blank.
	ErrEmptyName = errors.New("category name cannot be empty")

	// ErrNameTooLong is returned when a category name exceeds MaxNameLength.
	ErrNameTooLong = errors.New("category name exceeds maximum length")

	// ErrDuplicateName is returned when an identity already has a category with the name.
	ErrDuplicateName = errors.New("category name already exists")

	// ErrInvalidColor is returned when a color is not in the palette.
	ErrInvalidColor = errors.New("invalid category color")

	// ErrReservedCategory is returned when deleting the uncategorized sentinel.
	ErrReservedCategory = errors.New("cannot delete the uncategorized category")

	// ErrCategoryNotFound is returned when a category with the given ID doesn't exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrAmbiguousCategory is returned when a reference matches several categories.
	ErrAmbiguousCategory = errors.New("ambiguous category reference")

	// ErrNotLoaded is returned when a Store is used before Load.
	ErrNotLoaded = errors.New("category store not loaded")
)

// ValidateName checks that a category name is non-blank and short enough.
func ValidateName(name string) error {
	if internalstrings.IsBlank(name) {
		return ErrEmptyName
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(name)); n > MaxNameLength {
		return fmt.Errorf("%w: %d > %d", ErrNameTooLong, n, MaxNameLength)
	}
	return nil
}

// ValidateColor checks that a color is in the palette.
func ValidateColor(color Color) error {
	if !color.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	return nil
}

// ParseColor parses a color name case-insensitively.
func ParseColor(input string) (Color, error) {
	color := Color(internalstrings.NormalizeLowerTrimSpace(input))
	if err := ValidateColor(color); err != nil {
		return "", err
	}
	return color, nil
}

// nameTaken reports whether another category of identityID already uses name.
func nameTaken(categories []Category, identityID, name, exceptID string) bool {
	for _, c := range categories {
		if c.ID != exceptID && c.IdentityID == identityID && c.Name == name {
			return true
		}
	}
	return false
}
