package category

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

// Store owns the category collection. Mutations are written through the
// gateway before the in-memory copy is replaced.
type Store struct {
	gw     storage.Gateway
	logger *slog.Logger
	now    func() time.Time

	mu         sync.Mutex
	categories []Category
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

// Load reads the collection from the gateway.
func (s *Store) Load(ctx context.Context) error {
	categories, err := storage.LoadList[Category](ctx, s.gw, storage.KeyCategories)
	if err != nil {
		s.logger.Error("load categories", "error", err)
		return fmt.Errorf("load categories: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
	s.loaded = true
	return nil
}

// All returns every category in stored order.
func (s *Store) All() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.categories)
}

// ForIdentity returns the categories owned by identityID.
func (s *Store) ForIdentity(identityID string) []Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []Category
	for _, c := range s.categories {
		if c.IdentityID == identityID {
			result = append(result, c)
		}
	}
	return result
}

// Get returns the category with the exact id.
func (s *Store) Get(id string) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.categories, id)
	if idx < 0 {
		return Category{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	return s.categories[idx], nil
}

// Name resolves an optional category id to a display name. Empty ids, the
// uncategorized sentinel and dangling ids all resolve to UncategorizedName.
func (s *Store) Name(id string) string {
	if c, ok := s.lookup(id); ok {
		return c.Name
	}
	return UncategorizedName
}

// Color resolves an optional category id to its color, falling back to
// DefaultColor the same way Name does.
func (s *Store) Color(id string) Color {
	if c, ok := s.lookup(id); ok && c.Color.IsValid() {
		return c.Color
	}
	return DefaultColor
}

func (s *Store) lookup(id string) (Category, bool) {
	if id == "" || id == UncategorizedID {
		return Category{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.categories, id)
	if idx < 0 {
		return Category{}, false
	}
	return s.categories[idx], true
}

// Resolve finds a category of identityID by id, unique id prefix or exact name.
func (s *Store) Resolve(identityID, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrCategoryNotFound
	}
	owned := s.ForIdentity(identityID)

	for _, c := range owned {
		if c.Name == ref {
			return c.ID, nil
		}
	}

	idList := make([]string, 0, len(owned))
	for _, c := range owned {
		idList = append(idList, c.ID)
	}
	match, found, ambiguous := ids.MatchPrefixNormalized(ids.NormalizeUniqueIDs(idList), ref)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrCategoryNotFound, ref)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousCategory, ref)
	}
	return match, nil
}

// Draft holds the fields of a new category.
type Draft struct {
	Name       string
	Color      Color
	IdentityID string
}

// Add creates a category. The trimmed name must be unique within the
// identity; comparison is case-sensitive.
func (s *Store) Add(ctx context.Context, draft Draft) (*Category, error) {
	if err := ValidateName(draft.Name); err != nil {
		return nil, err
	}
	if draft.Color == "" {
		draft.Color = DefaultColor
	}
	if err := ValidateColor(draft.Color); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(draft.Name)

	var created Category
	err := s.apply(ctx, func(categories []Category, now time.Time) ([]Category, error) {
		if nameTaken(categories, draft.IdentityID, name, "") {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		created = Category{
			ID:         uniqueID(categories, name, now),
			Name:       name,
			Color:      draft.Color,
			IdentityID: draft.IdentityID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return append(categories, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateOptions configures fields to update on a category.
// Nil pointers mean "don't update this field".
type UpdateOptions struct {
	Name  *string
	Color *Color
}

// Update merges opts into a category, keeping names unique per identity.
func (s *Store) Update(ctx context.Context, id string, opts UpdateOptions) (*Category, error) {
	if opts.Name != nil {
		if err := ValidateName(*opts.Name); err != nil {
			return nil, err
		}
	}
	if opts.Color != nil {
		if err := ValidateColor(*opts.Color); err != nil {
			return nil, err
		}
	}

	var updated Category
	err := s.apply(ctx, func(categories []Category, now time.Time) ([]Category, error) {
		idx := indexOf(categories, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
		}
		c := categories[idx]
		if opts.Name != nil {
			name := strings.TrimSpace(*opts.Name)
			if nameTaken(categories, c.IdentityID, name, c.ID) {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
			}
			c.Name = name
		}
		if opts.Color != nil {
			c.Color = *opts.Color
		}
		c.UpdatedAt = now
		categories[idx] = c
		updated = c
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a category. Todos pointing at it keep the dangling id and
// display as uncategorized.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == UncategorizedID {
		return ErrReservedCategory
	}
	return s.apply(ctx, func(categories []Category, now time.Time) ([]Category, error) {
		idx := indexOf(categories, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
		}
		return slices.Delete(categories, idx, idx+1), nil
	})
}

// ReassignIdentity moves every category owned by from to to. A moved
// category whose name clashes with one already owned by to gets a numeric
// suffix.
func (s *Store) ReassignIdentity(ctx context.Context, from, to string) (int, error) {
	count := 0
	err := s.apply(ctx, func(categories []Category, now time.Time) ([]Category, error) {
		for i := range categories {
			if categories[i].IdentityID != from {
				continue
			}
			name := categories[i].Name
			for n := 2; nameTaken(categories, to, name, categories[i].ID); n++ {
				name = fmt.Sprintf("%s (%d)", categories[i].Name, n)
			}
			categories[i].Name = name
			categories[i].IdentityID = to
			categories[i].UpdatedAt = now
			count++
		}
		if count == 0 {
			return nil, nil
		}
		return categories, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// apply runs fn over a copy of the collection and commits the result.
// fn returns a nil slice when nothing changed.
func (s *Store) apply(ctx context.Context, fn func(categories []Category, now time.Time) ([]Category, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	next, err := fn(slices.Clone(s.categories), s.now())
	if err != nil || next == nil {
		return err
	}
	if err := storage.Save(ctx, s.gw, storage.KeyCategories, next); err != nil {
		s.logger.Error("save categories", "error", err)
		return fmt.Errorf("write categories: %w", err)
	}
	s.categories = next
	return nil
}

func indexOf(categories []Category, id string) int {
	return slices.IndexFunc(categories, func(c Category) bool {
		return c.ID == id
	})
}

func uniqueID(categories []Category, name string, now time.Time) string {
	for {
		id := ids.New(name, now)
		if indexOf(categories, id) < 0 {
			return id
		}
	}
}
