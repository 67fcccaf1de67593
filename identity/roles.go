package identity

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/amonks/quadrant/internal/ids"
	"github.com/amonks/quadrant/storage"
)

// Roles returns every role in stored order.
func (s *Store) Roles() []Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.roles)
}

// RolesFor returns the roles owned by identityID.
func (s *Store) RolesFor(identityID string) []Role {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []Role
	for _, role := range s.roles {
		if role.IdentityID == identityID {
			result = append(result, role)
		}
	}
	return result
}

// RoleName returns the role's name, or UnknownRoleName for unknown ids.
func (s *Store) RoleName(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := roleIndex(s.roles, id); idx >= 0 {
		return s.roles[idx].Name
	}
	return UnknownRoleName
}

// AddRole creates a role owned by identityID.
func (s *Store) AddRole(ctx context.Context, identityID, name string) (*Role, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	known := indexOf(s.identities, identityID) >= 0
	s.mu.Unlock()
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrIdentityNotFound, identityID)
	}

	var created Role
	err := s.applyRoles(ctx, func(roles []Role, now time.Time) ([]Role, error) {
		created = Role{
			ID:         uniqueRoleID(roles, name, now),
			Name:       strings.TrimSpace(name),
			IdentityID: identityID,
		}
		return append(roles, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateRole renames a role.
func (s *Store) UpdateRole(ctx context.Context, id, name string) (*Role, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	var updated Role
	err := s.applyRoles(ctx, func(roles []Role, now time.Time) ([]Role, error) {
		idx := roleIndex(roles, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrRoleNotFound, id)
		}
		roles[idx].Name = strings.TrimSpace(name)
		updated = roles[idx]
		return roles, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteRole removes a role.
func (s *Store) DeleteRole(ctx context.Context, id string) error {
	return s.applyRoles(ctx, func(roles []Role, now time.Time) ([]Role, error) {
		idx := roleIndex(roles, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrRoleNotFound, id)
		}
		return slices.Delete(roles, idx, idx+1), nil
	})
}

// ReassignRoles moves every role owned by from to to.
func (s *Store) ReassignRoles(ctx context.Context, from, to string) (int, error) {
	count := 0
	err := s.applyRoles(ctx, func(roles []Role, now time.Time) ([]Role, error) {
		for i := range roles {
			if roles[i].IdentityID == from {
				roles[i].IdentityID = to
				count++
			}
		}
		if count == 0 {
			return nil, nil
		}
		return roles, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ResolveRole finds a role of identityID by exact name or unique id prefix.
func (s *Store) ResolveRole(identityID, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrRoleNotFound
	}
	owned := s.RolesFor(identityID)

	idList := make([]string, 0, len(owned))
	for _, role := range owned {
		if role.Name == ref {
			return role.ID, nil
		}
		idList = append(idList, role.ID)
	}
	match, found, ambiguous := ids.MatchPrefixNormalized(ids.NormalizeUniqueIDs(idList), ref)
	if !found || ambiguous {
		return "", fmt.Errorf("%w: %s", ErrRoleNotFound, ref)
	}
	return match, nil
}

func (s *Store) applyRoles(ctx context.Context, fn func(roles []Role, now time.Time) ([]Role, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	next, err := fn(slices.Clone(s.roles), s.now())
	if err != nil || next == nil {
		return err
	}
	if err := storage.Save(ctx, s.gw, storage.KeyRoles, next); err != nil {
		s.logger.Error("save roles", "error", err)
		return fmt.Errorf("write roles: %w", err)
	}
	s.roles = next
	return nil
}

func roleIndex(roles []Role, id string) int {
	return slices.IndexFunc(roles, func(role Role) bool {
		return role.ID == id
	})
}

func uniqueRoleID(roles []Role, name string, now time.Time) string {
	for {
		id := ids.New(name, now)
		if roleIndex(roles, id) < 0 {
			return id
		}
	}
}
