package storage

// Key names one persisted collection.
type Key string

const (
	KeyTodos           Key = "@todos"
	KeyCategories      Key = "@categories"
	KeyIdentities      Key = "@identities"
	KeyRoles           Key = "@roles"
	KeySearchHistory   Key = "@search_history"
	KeyFilterTemplates Key = "@filter_templates"
	KeyAppState        Key = "@app_state"
	KeyBackups         Key = "@backups"
)

// Keys returns every known key.
func Keys() []Key {
	return []Key{
		KeyTodos,
		KeyCategories,
		KeyIdentities,
		KeyRoles,
		KeySearchHistory,
		KeyFilterTemplates,
		KeyAppState,
		KeyBackups,
	}
}

// IsValid returns true if the key is a known collection.
func (k Key) IsValid() bool {
	for _, valid := range Keys() {
		if k == valid {
			return true
		}
	}
	return false
}

func (k Key) String() string {
	return string(k)
}
