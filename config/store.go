package config

import "sync"

// Store is read once at start-up and written on every change.
type Store struct {
	mu       sync.Mutex
	path     string
	settings *Settings
}

func OpenStore(path string) (*Store, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, settings: s}, nil
}

func (st *Store) Path() string { return st.path }

// Settings returns a copy of the current settings.
func (st *Store) Settings() *Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.settings.Clone()
}

// Update applies fn to a copy, validates and saves it, and only then
// makes it current. A failed update leaves the store unchanged.
func (st *Store) Update(fn func(*Settings)) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.settings.Clone()
	fn(next)
	if err := next.Validate(); err != nil {
		return err
	}
	if err := next.Save(st.path); err != nil {
		return err
	}
	st.settings = next
	return nil
}
