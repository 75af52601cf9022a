package store

import "github.com/dmitrijs2005/keepers/internal/models"

// Ready reports whether Initialize has completed.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Snapshot returns a copy of the whole state. It is the zero Document before
// Initialize.
func (s *Store) Snapshot() models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) Collection(id string) (models.Collection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.state.Find(id)
	if i < 0 {
		return models.Collection{}, false
	}
	return s.state.Collections[i].Clone(), true
}

func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

func (s *Store) IsActive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Find(id) >= 0 && s.state.Settings.Active.Contains(id)
}

// ActiveCollections returns copies of the active collections in order.
func (s *Store) ActiveCollections() []models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Collection
	for _, c := range s.state.Collections {
		if s.state.Settings.Active.Contains(c.ID) {
			out = append(out, c.Clone())
		}
	}
	return out
}
