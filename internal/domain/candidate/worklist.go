package candidate

import "fmt"

// Worklist is the ordered working set of candidates between extraction and
// commit. It is not safe for concurrent use; the owning pipeline serializes
// access.
type Worklist struct {
	items []Candidate
}

// Replace swaps the entire working set for a fresh extraction result. A
// second extraction discards unacted-on candidates from the first.
func (w *Worklist) Replace(items []Candidate) {
	w.items = make([]Candidate, len(items))
	copy(w.items, items)
}

// Items returns a copy of the working set in order.
func (w *Worklist) Items() []Candidate {
	out := make([]Candidate, len(w.items))
	copy(out, w.items)
	return out
}

// Len returns the number of candidates.
func (w *Worklist) Len() int {
	return len(w.items)
}

// Get returns the candidate at index.
func (w *Worklist) Get(index int) (Candidate, error) {
	if index < 0 || index >= len(w.items) {
		return Candidate{}, fmt.Errorf("candidate index %d out of range (have %d)", index, len(w.items))
	}
	return w.items[index], nil
}

// Edit merges patch onto the candidate at index.
func (w *Worklist) Edit(index int, patch Patch) (Candidate, error) {
	if index < 0 || index >= len(w.items) {
		return Candidate{}, fmt.Errorf("candidate index %d out of range (have %d)", index, len(w.items))
	}
	w.items[index] = w.items[index].Apply(patch)
	return w.items[index], nil
}

// ToggleEditing flips the editing flag at index; nothing else changes.
func (w *Worklist) ToggleEditing(index int) error {
	if index < 0 || index >= len(w.items) {
		return fmt.Errorf("candidate index %d out of range (have %d)", index, len(w.items))
	}
	w.items[index].IsEditing = !w.items[index].IsEditing
	return nil
}

// SetDestination records the destination calendar at index. Any id is
// accepted, even one outside the current selection; an unknown calendar
// surfaces later as a provider rejection at commit time.
func (w *Worklist) SetDestination(index int, calendarID string) error {
	if index < 0 || index >= len(w.items) {
		return fmt.Errorf("candidate index %d out of range (have %d)", index, len(w.items))
	}
	w.items[index].ChosenCalendarID = calendarID
	return nil
}

// Remove drops the candidate at index. Irreversible.
func (w *Worklist) Remove(index int) error {
	if index < 0 || index >= len(w.items) {
		return fmt.Errorf("candidate index %d out of range (have %d)", index, len(w.items))
	}
	w.items = append(w.items[:index], w.items[index+1:]...)
	return nil
}

// RemoveByID drops the candidate with the given ID, wherever it now sits.
// Returns false when no candidate carries that ID.
func (w *Worklist) RemoveByID(id string) bool {
	for i, c := range w.items {
		if c.ID == id {
			w.items = append(w.items[:i], w.items[i+1:]...)
			return true
		}
	}
	return false
}

// ByID returns the candidate with the given ID.
func (w *Worklist) ByID(id string) (Candidate, bool) {
	for _, c := range w.items {
		if c.ID == id {
			return c, true
		}
	}
	return Candidate{}, false
}
