package identity

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/amonks/quadrant/internal/ids"
	"github.com/amonks/quadrant/internal/logging"
	"github.com/amonks/quadrant/storage"
)

// Store owns the identity and role collections. Each collection lives under
// its own key and is written whole before the in-memory copy is replaced.
//
// Identity.Roles is not persisted with the identity; it is filled from the
// role collection whenever an identity is read.
type Store struct {
	gw     storage.Gateway
	logger *slog.Logger
	now    func() time.Time

	mu         sync.Mutex
	identities []Identity
	roles      []Role
	loaded     bool
}

// Options configures a Store.
type Options struct {
	Logger *slog.Logger
	Now    func() time.Time
}

// NewStore returns a store backed by gw. Call Load before use.
func NewStore(gw storage.Gateway, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{gw: gw, logger: opts.Logger, now: opts.Now}
}

// Load reads identities and roles from the gateway.
func (s *Store) Load(ctx context.Context) error {
	identities, err := storage.LoadList[Identity](ctx, s.gw, storage.KeyIdentities)
	if err != nil {
		s.logger.Error("load identities", "error", err)
		return fmt.Errorf("load identities: %w", err)
	}
	roles, err := storage.LoadList[Role](ctx, s.gw, storage.KeyRoles)
	if err != nil {
		s.logger.Error("load roles", "error", err)
		return fmt.Errorf("load roles: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities = identities
	s.roles = roles
	s.loaded = true
	return nil
}

// All returns every identity in stored order.
func (s *Store) All() []Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Identity, 0, len(s.identities))
	for _, identity := range s.identities {
		result = append(result, s.withRoles(identity))
	}
	return result
}

// Get returns the identity with the exact id.
func (s *Store) Get(id string) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.identities, id)
	if idx < 0 {
		return Identity{}, fmt.Errorf("%w: %s", ErrIdentityNotFound, id)
	}
	return s.withRoles(s.identities[idx]), nil
}

// Name returns the identity's name, or UnknownIdentityName for unknown ids.
func (s *Store) Name(id string) string {
	identity, err := s.Get(id)
	if err != nil {
		return UnknownIdentityName
	}
	return identity.Name
}

// Resolve finds an identity by exact name or unique id prefix.
func (s *Store) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrIdentityNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idList := make([]string, 0, len(s.identities))
	for _, identity := range s.identities {
		if identity.Name == ref {
			return identity.ID, nil
		}
		idList = append(idList, identity.ID)
	}
	match, found, ambiguous := ids.MatchPrefixNormalized(ids.NormalizeUniqueIDs(idList), ref)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrIdentityNotFound, ref)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousIdentity, ref)
	}
	return match, nil
}

// Default returns the default identity.
func (s *Store) Default() (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, identity := range s.identities {
		if identity.IsDefault {
			return s.withRoles(identity), nil
		}
	}
	return Identity{}, ErrNoDefaultIdentity
}

// Draft holds the fields of a new identity.
type Draft struct {
	Name   string
	Avatar string

	// IsDefault makes the new identity the default. The first identity
	// always becomes the default.
	IsDefault bool
}

// Add creates an identity.
func (s *Store) Add(ctx context.Context, draft Draft) (*Identity, error) {
	if err := ValidateName(draft.Name); err != nil {
		return nil, err
	}

	var created Identity
	err := s.applyIdentities(ctx, func(identities []Identity, now time.Time) ([]Identity, error) {
		created = Identity{
			ID:        uniqueID(identities, draft.Name, now),
			Name:      strings.TrimSpace(draft.Name),
			Avatar:    draft.Avatar,
			IsDefault: draft.IsDefault || len(identities) == 0,
			Roles:     []Role{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if created.IsDefault {
			for i := range identities {
				if identities[i].IsDefault {
					identities[i].IsDefault = false
					identities[i].UpdatedAt = now
				}
			}
		}
		return append(identities, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateOptions configures fields to update on an identity.
// Nil pointers mean "don't update this field".
type UpdateOptions struct {
	Name   *string
	Avatar *string
}

// Update merges opts into an identity.
func (s *Store) Update(ctx context.Context, id string, opts UpdateOptions) (*Identity, error) {
	if opts.Name != nil {
		if err := ValidateName(*opts.Name); err != nil {
			return nil, err
		}
	}

	var updated Identity
	err := s.applyIdentities(ctx, func(identities []Identity, now time.Time) ([]Identity, error) {
		idx := indexOf(identities, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrIdentityNotFound, id)
		}
		if opts.Name != nil {
			identities[idx].Name = strings.TrimSpace(*opts.Name)
		}
		if opts.Avatar != nil {
			identities[idx].Avatar = *opts.Avatar
		}
		identities[idx].UpdatedAt = now
		updated = identities[idx]
		return identities, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetDefault marks id as the default identity and clears the flag on
// every other identity.
func (s *Store) SetDefault(ctx context.Context, id string) error {
	return s.applyIdentities(ctx, func(identities []Identity, now time.Time) ([]Identity, error) {
		if indexOf(identities, id) < 0 {
			return nil, fmt.Errorf("%w: %s", ErrIdentityNotFound, id)
		}
		for i := range identities {
			identities[i].IsDefault = identities[i].ID == id
			identities[i].UpdatedAt = now
		}
		return identities, nil
	})
}

// Fallback checks that id may be deleted and returns the id of the default
// identity that should inherit its records.
func (s *Store) Fallback(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fallback(s.identities, id)
}

func fallback(identities []Identity, id string) (string, error) {
	idx := indexOf(identities, id)
	if idx < 0 {
		return "", fmt.Errorf("%w: %s", ErrIdentityNotFound, id)
	}
	if identities[idx].IsDefault {
		return "", ErrDeleteDefault
	}
	for _, identity := range identities {
		if identity.IsDefault {
			return identity.ID, nil
		}
	}
	return "", ErrNoDefaultIdentity
}

// Delete removes a non-default identity and returns the default identity's
// id. Records owned by the removed identity are not touched here.
func (s *Store) Delete(ctx context.Context, id string) (string, error) {
	var defaultID string
	err := s.applyIdentities(ctx, func(identities []Identity, now time.Time) ([]Identity, error) {
		var err error
		defaultID, err = fallback(identities, id)
		if err != nil {
			return nil, err
		}
		return slices.DeleteFunc(identities, func(identity Identity) bool {
			return identity.ID == id
		}), nil
	})
	if err != nil {
		return "", err
	}
	return defaultID, nil
}

// EnsureDefault makes sure a default identity exists. On first run it
// creates a "Default" identity with a "Default" role; if identities exist
// but none is default, the first one is promoted. It reports whether
// anything changed.
func (s *Store) EnsureDefault(ctx context.Context) (Identity, bool, error) {
	if current, err := s.Default(); err == nil {
		return current, false, nil
	}

	s.mu.Lock()
	empty := len(s.identities) == 0
	var firstID string
	if !empty {
		firstID = s.identities[0].ID
	}
	s.mu.Unlock()

	if !empty {
		if err := s.SetDefault(ctx, firstID); err != nil {
			return Identity{}, false, err
		}
		current, err := s.Default()
		return current, true, err
	}

	created, err := s.Add(ctx, Draft{Name: DefaultName, IsDefault: true})
	if err != nil {
		return Identity{}, false, err
	}
	if _, err := s.AddRole(ctx, created.ID, DefaultRoleName); err != nil {
		return Identity{}, false, err
	}
	current, err := s.Get(created.ID)
	return current, true, err
}

// applyIdentities runs fn over a copy of the identities and commits the result.
func (s *Store) applyIdentities(ctx context.Context, fn func(identities []Identity, now time.Time) ([]Identity, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	next, err := fn(slices.Clone(s.identities), s.now())
	if err != nil || next == nil {
		return err
	}
	if err := storage.Save(ctx, s.gw, storage.KeyIdentities, next); err != nil {
		s.logger.Error("save identities", "error", err)
		return fmt.Errorf("write identities: %w", err)
	}
	s.identities = next
	return nil
}

// withRoles returns identity with Roles filled from the role collection.
// The caller holds s.mu.
func (s *Store) withRoles(identity Identity) Identity {
	identity.Roles = []Role{}
	for _, role := range s.roles {
		if role.IdentityID == identity.ID {
			identity.Roles = append(identity.Roles, role)
		}
	}
	return identity
}

func indexOf(identities []Identity, id string) int {
	return slices.IndexFunc(identities, func(identity Identity) bool {
		return identity.ID == id
	})
}

func uniqueID(identities []Identity, name string, now time.Time) string {
	for {
		id := ids.New(name, now)
		if indexOf(identities, id) < 0 {
			return id
		}
	}
}
