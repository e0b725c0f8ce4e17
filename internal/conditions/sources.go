package conditions

// ContentSource answers key-value and relationship queries about content
// items. Implementations are expected to be in-process and non-blocking;
// evaluation wraps every call so a fault resolves to "value absent".
type ContentSource interface {
	// Meta returns the attached record for key on the given item.
	Meta(itemID int64, key string) (any, bool, error)

	// Ancestors returns the ancestor chain of an item, nearest first.
	Ancestors(itemID int64) ([]int64, error)

	// Terms returns the taxonomy term IDs attached to an item. An empty
	// taxonomy means all taxonomies.
	Terms(itemID int64, taxonomy string) ([]int64, error)

	// Author returns the author user ID of an item.
	Author(itemID int64) (int64, bool, error)
}

// UserSource answers key-value queries about users.
type UserSource interface {
	Meta(userID int64, key string) (any, bool, error)
}

// OptionSource answers process-wide option lookups.
type OptionSource interface {
	Option(name string) (any, bool, error)
}

// Sources bundles the collaborators an evaluation pass reads from. Any nil
// member simply answers "absent".
type Sources struct {
	Content ContentSource
	Users   UserSource
	Options OptionSource
}

// safeLookup runs a key-value lookup and contains every failure mode:
// errors and panics both resolve to "value absent".
func safeLookup(fn func() (any, bool, error)) (v any, ok bool) {
	defer func() {
		if recover() != nil {
			v, ok = nil, false
		}
	}()
	v, ok, err := fn()
	if err != nil || !ok {
		return nil, false
	}
	return v, true
}

func (s Sources) contentMeta(itemID int64, key string) (any, bool) {
	if s.Content == nil || itemID == 0 || key == "" {
		return nil, false
	}
	return safeLookup(func() (any, bool, error) { return s.Content.Meta(itemID, key) })
}

func (s Sources) userMeta(userID int64, key string) (any, bool) {
	if s.Users == nil || userID == 0 || key == "" {
		return nil, false
	}
	return safeLookup(func() (any, bool, error) { return s.Users.Meta(userID, key) })
}

func (s Sources) option(name string) (any, bool) {
	if s.Options == nil || name == "" {
		return nil, false
	}
	return safeLookup(func() (any, bool, error) { return s.Options.Option(name) })
}

func (s Sources) ancestors(itemID int64) []int64 {
	if s.Content == nil || itemID == 0 {
		return nil
	}
	v, ok := safeLookup(func() (any, bool, error) {
		ids, err := s.Content.Ancestors(itemID)
		return ids, true, err
	})
	if !ok {
		return nil
	}
	ids, _ := v.([]int64)
	return ids
}

func (s Sources) terms(itemID int64, taxonomy string) []int64 {
	if s.Content == nil || itemID == 0 {
		return nil
	}
	v, ok := safeLookup(func() (any, bool, error) {
		ids, err := s.Content.Terms(itemID, taxonomy)
		return ids, true, err
	})
	if !ok {
		return nil
	}
	ids, _ := v.([]int64)
	return ids
}

func (s Sources) author(itemID int64) (int64, bool) {
	if s.Content == nil || itemID == 0 {
		return 0, false
	}
	v, ok := safeLookup(func() (any, bool, error) {
		id, found, err := s.Content.Author(itemID)
		return id, found, err
	})
	if !ok {
		return 0, false
	}
	id, _ := v.(int64)
	return id, id != 0
}
