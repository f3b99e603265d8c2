package catalog

import "context"

// MemStore keeps the last snapshot in memory. Useful for tests and for
// running without touching disk.
type MemStore struct {
	items []MenuItem
	saved bool
	saves int
	err   error
}

func NewMemStore(seed ...MenuItem) *MemStore {
	s := &MemStore{}
	if len(seed) > 0 {
		s.items = cloneItems(seed)
		s.saved = true
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Load(ctx context.Context) ([]MenuItem, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	if !s.saved {
		return nil, false, nil
	}
	return cloneItems(s.items), true, nil
}

func (s *MemStore) Save(ctx context.Context, items []MenuItem) error {
	if s.err != nil {
		return s.err
	}
	s.items = cloneItems(items)
	s.saved = true
	s.saves++
	return nil
}

// FailWith makes every following Load and Save return err until it is
// called again with nil.
func (s *MemStore) FailWith(err error) { s.err = err }

// Saves reports how many snapshots have been written.
func (s *MemStore) Saves() int { return s.saves }

// Snapshot returns a copy of the last saved items.
func (s *MemStore) Snapshot() []MenuItem { return cloneItems(s.items) }
