package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amonks/quadrant/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()

	gw := storage.NewMemory()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store := NewStore(gw, Options{Now: func() time.Time {
		now = now.Add(time.Second)
		return now
	}})
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	return store, gw
}

func mustAdd(t *testing.T, store *Store, draft Draft) *Identity {
	t.Helper()

	created, err := store.Add(context.Background(), draft)
	if err != nil {
		t.Fatalf("failed to add identity %q: %v", draft.Name, err)
	}
	return created
}

func defaultCount(identities []Identity) int {
	n := 0
	for _, identity := range identities {
		if identity.IsDefault {
			n++
		}
	}
	return n
}

func TestStore_DefaultBeforeFirstRun(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Default(); !errors.Is(err, ErrNoDefaultIdentity) {
		t.Fatalf("expected ErrNoDefaultIdentity, got %v", err)
	}
}

func TestStore_FirstIdentityBecomesDefault(t *testing.T) {
	store, _ := newTestStore(t)

	first := mustAdd(t, store, Draft{Name: "Me"})
	second := mustAdd(t, store, Draft{Name: "Work"})

	if !first.IsDefault || second.IsDefault {
		t.Fatalf("expected only the first identity to be default")
	}
	got, err := store.Default()
	if err != nil || got.ID != first.ID {
		t.Fatalf("Default() = %+v, %v", got, err)
	}
}

func TestStore_AddAsDefault(t *testing.T) {
	store, _ := newTestStore(t)
	mustAdd(t, store, Draft{Name: "Me"})
	work := mustAdd(t, store, Draft{Name: "Work", IsDefault: true})

	if n := defaultCount(store.All()); n != 1 {
		t.Fatalf("expected exactly one default, got %d", n)
	}
	if got, _ := store.Default(); got.ID != work.ID {
		t.Fatalf("expected Work to be default, got %s", got.Name)
	}
}

func TestStore_SetDefault(t *testing.T) {
	store, _ := newTestStore(t)
	a := mustAdd(t, store, Draft{Name: "A"})
	b := mustAdd(t, store, Draft{Name: "B"})
	c := mustAdd(t, store, Draft{Name: "C"})

	for _, target := range []*Identity{c, b, a} {
		if err := store.SetDefault(context.Background(), target.ID); err != nil {
			t.Fatalf("failed to set default: %v", err)
		}
		all := store.All()
		if n := defaultCount(all); n != 1 {
			t.Fatalf("expected exactly one default, got %d", n)
		}
		if got, _ := store.Default(); got.ID != target.ID {
			t.Fatalf("expected %s to be default, got %s", target.Name, got.Name)
		}
	}

	if err := store.SetDefault(context.Background(), "missing"); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	me := mustAdd(t, store, Draft{Name: "Me"})
	work := mustAdd(t, store, Draft{Name: "Work"})

	if _, err := store.Delete(context.Background(), me.ID); !errors.Is(err, ErrDeleteDefault) {
		t.Fatalf("expected ErrDeleteDefault, got %v", err)
	}
	if _, err := store.Delete(context.Background(), "missing"); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}

	fallbackID, err := store.Delete(context.Background(), work.ID)
	if err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if fallbackID != me.ID {
		t.Fatalf("expected fallback %s, got %s", me.ID, fallbackID)
	}
	if n := len(store.All()); n != 1 {
		t.Fatalf("expected 1 identity left, got %d", n)
	}
}

func TestStore_DeleteWithoutDefault(t *testing.T) {
	gw := storage.NewMemory()
	seed := []Identity{{ID: "aaaa1111", Name: "A"}, {ID: "bbbb2222", Name: "B"}}
	if err := storage.Save(context.Background(), gw, storage.KeyIdentities, seed); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	store := NewStore(gw, Options{})
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if _, err := store.Fallback("aaaa1111"); !errors.Is(err, ErrNoDefaultIdentity) {
		t.Fatalf("expected ErrNoDefaultIdentity, got %v", err)
	}
	if _, err := store.Delete(context.Background(), "aaaa1111"); !errors.Is(err, ErrNoDefaultIdentity) {
		t.Fatalf("expected ErrNoDefaultIdentity, got %v", err)
	}
	if n := len(store.All()); n != 2 {
		t.Fatalf("failed delete should leave identities alone, got %d", n)
	}
}

func TestStore_EnsureDefaultFirstRun(t *testing.T) {
	store, _ := newTestStore(t)

	created, changed, err := store.EnsureDefault(context.Background())
	if err != nil {
		t.Fatalf("failed to ensure default: %v", err)
	}
	if !changed {
		t.Fatalf("expected first run to create an identity")
	}
	if created.Name != DefaultName || !created.IsDefault {
		t.Fatalf("unexpected identity: %+v", created)
	}
	if len(created.Roles) != 1 || created.Roles[0].Name != DefaultRoleName {
		t.Fatalf("expected default role, got %+v", created.Roles)
	}

	again, changed, err := store.EnsureDefault(context.Background())
	if err != nil {
		t.Fatalf("failed to ensure default: %v", err)
	}
	if changed || again.ID != created.ID {
		t.Fatalf("second call should be a no-op, got %+v changed=%v", again, changed)
	}
}

func TestStore_EnsureDefaultPromotesFirst(t *testing.T) {
	gw := storage.NewMemory()
	seed := []Identity{{ID: "aaaa1111", Name: "A"}, {ID: "bbbb2222", Name: "B"}}
	if err := storage.Save(context.Background(), gw, storage.KeyIdentities, seed); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	store := NewStore(gw, Options{})
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	got, changed, err := store.EnsureDefault(context.Background())
	if err != nil {
		t.Fatalf("failed to ensure default: %v", err)
	}
	if !changed || got.ID != "aaaa1111" {
		t.Fatalf("expected A to be promoted, got %+v changed=%v", got, changed)
	}
}

func TestStore_UpdateAndName(t *testing.T) {
	store, _ := newTestStore(t)
	me := mustAdd(t, store, Draft{Name: "Me"})

	name := "Myself"
	avatar := "🦊"
	updated, err := store.Update(context.Background(), me.ID, UpdateOptions{Name: &name, Avatar: &avatar})
	if err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	if updated.Name != "Myself" || updated.Avatar != "🦊" {
		t.Fatalf("unexpected identity: %+v", updated)
	}
	if got := store.Name(me.ID); got != "Myself" {
		t.Fatalf("Name() = %q", got)
	}
	if got := store.Name("missing"); got != UnknownIdentityName {
		t.Fatalf("Name(missing) = %q", got)
	}

	blank := " "
	if _, err := store.Update(context.Background(), me.ID, UpdateOptions{Name: &blank}); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestStore_Roles(t *testing.T) {
	store, _ := newTestStore(t)
	me := mustAdd(t, store, Draft{Name: "Me"})
	work := mustAdd(t, store, Draft{Name: "Work"})

	parent, err := store.AddRole(context.Background(), me.ID, "Parent")
	if err != nil {
		t.Fatalf("failed to add role: %v", err)
	}
	if _, err := store.AddRole(context.Background(), work.ID, "Engineer"); err != nil {
		t.Fatalf("failed to add role: %v", err)
	}
	if _, err := store.AddRole(context.Background(), "missing", "Ghost"); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}

	if roles := store.RolesFor(me.ID); len(roles) != 1 || roles[0].ID != parent.ID {
		t.Fatalf("unexpected roles for me: %+v", roles)
	}
	if got, _ := store.Get(me.ID); len(got.Roles) != 1 {
		t.Fatalf("expected identity to carry its roles, got %+v", got.Roles)
	}

	if _, err := store.UpdateRole(context.Background(), parent.ID, "Guardian"); err != nil {
		t.Fatalf("failed to rename role: %v", err)
	}
	if got := store.RoleName(parent.ID); got != "Guardian" {
		t.Fatalf("RoleName() = %q", got)
	}
	if got := store.RoleName("missing"); got != UnknownRoleName {
		t.Fatalf("RoleName(missing) = %q", got)
	}

	count, err := store.ReassignRoles(context.Background(), work.ID, me.ID)
	if err != nil {
		t.Fatalf("failed to reassign roles: %v", err)
	}
	if count != 1 || len(store.RolesFor(me.ID)) != 2 {
		t.Fatalf("expected both roles on me, count=%d", count)
	}

	if err := store.DeleteRole(context.Background(), parent.ID); err != nil {
		t.Fatalf("failed to delete role: %v", err)
	}
	if err := store.DeleteRole(context.Background(), parent.ID); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestStore_Resolve(t *testing.T) {
	store, _ := newTestStore(t)
	me := mustAdd(t, store, Draft{Name: "Me"})

	if got, err := store.Resolve("Me"); err != nil || got != me.ID {
		t.Fatalf("resolve by name: %q, %v", got, err)
	}
	if got, err := store.Resolve(me.ID[:3]); err != nil || got != me.ID {
		t.Fatalf("resolve by prefix: %q, %v", got, err)
	}
	if _, err := store.Resolve("nobody"); !errors.Is(err, ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}

func TestStore_FailedWriteKeepsState(t *testing.T) {
	store, gw := newTestStore(t)
	mustAdd(t, store, Draft{Name: "Me"})
	work := mustAdd(t, store, Draft{Name: "Work"})

	boom := errors.New("disk full")
	gw.FailSet(storage.KeyIdentities, boom)
	if err := store.SetDefault(context.Background(), work.ID); !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
	if got, _ := store.Default(); got.ID == work.ID {
		t.Fatalf("default changed despite failed write")
	}
}

func TestStore_RequiresLoad(t *testing.T) {
	store := NewStore(storage.NewMemory(), Options{})
	if _, err := store.Add(context.Background(), Draft{Name: "Me"}); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}
