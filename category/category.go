// Package category manages todo categories and resolves category
// references to display values.
//
// Categories are stored as one flat collection under the @categories key.
// Names are unique within an identity. A todo may point at a category that
// no longer exists; such dangling references resolve to "Uncategorized".
package category

import (
	"slices"
	"time"
)

// UncategorizedID is the reserved id standing for "no category".
const UncategorizedID = "uncategorized"

// UncategorizedName is the display name for todos without a category.
const UncategorizedName = "Uncategorized"

// Color is a named category color.
type Color string

const (
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
	ColorGray   Color = "gray"
	ColorBlack  Color = "black"
	ColorCyan   Color = "cyan"
	ColorTeal   Color = "teal"
)

// DefaultColor is used for uncategorized todos and new categories without a color.
const DefaultColor = ColorGray

var colorHex = map[Color]string{
	ColorRed:    "#ef4444",
	ColorOrange: "#f97316",
	ColorYellow: "#eab308",
	ColorGreen:  "#22c55e",
	ColorBlue:   "#3b82f6",
	ColorPurple: "#a855f7",
	ColorPink:   "#ec4899",
	ColorGray:   "#6b7280",
	ColorBlack:  "#000000",
	ColorCyan:   "#06b6d4",
	ColorTeal:   "#14b8a6",
}

// ValidColors returns all valid colors in palette order.
func ValidColors() []Color {
	return []Color{
		ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple,
		ColorPink, ColorGray, ColorBlack, ColorCyan, ColorTeal,
	}
}

// IsValid returns true if the color is in the palette.
func (c Color) IsValid() bool {
	return slices.Contains(ValidColors(), c)
}

// Hex returns the display hex for the color, or the default color's hex
// for unknown colors.
func (c Color) Hex() string {
	if hex, ok := colorHex[c]; ok {
		return hex
	}
	return colorHex[DefaultColor]
}

// Category groups todos for one identity.
type Category struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      Color     `json:"color"`
	IdentityID string    `json:"identityId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
