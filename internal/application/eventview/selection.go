package eventview

import "sync"

// Selection is the ordered, deduplicated set of calendars currently shown.
// Order is selection order, which is also display order.
type Selection struct {
	mu  sync.Mutex
	ids []string
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Add appends id when absent. Returns true when the selection changed.
func (s *Selection) Add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.ids {
		if existing == id {
			return false
		}
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove drops id. Returns true when the selection changed.
func (s *Selection) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Replace swaps the whole selection, deduplicating while keeping order.
// Used when restoring a persisted selection.
func (s *Selection) Replace(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{}, len(ids))
	s.ids = s.ids[:0]
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

// IDs returns a copy of the selection in order.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of selected calendars.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
