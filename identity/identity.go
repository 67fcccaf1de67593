// Package identity manages the personal identities todos belong to and the
// roles attached to them.
//
// Once any identity exists exactly one of them is the default. The default
// identity receives the todos, categories and roles of identities that are
// deleted, so it cannot itself be deleted.
package identity

import "time"

// DefaultName is the name of the identity created on first run.
const DefaultName = "Default"

// DefaultRoleName is the name of the role created alongside the first identity.
const DefaultRoleName = "Default"

// UnknownIdentityName is displayed for dangling identity references.
const UnknownIdentityName = "Unknown identity"

// UnknownRoleName is displayed for dangling role references.
const UnknownRoleName = "Unknown role"

// Identity is a persona owning todos and categories.
type Identity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	IsDefault bool      `json:"isDefault"`
	Roles     []Role    `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Role is a named hat an identity can wear.
type Role struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IdentityID string `json:"identityId"`
}
