package model

// Store is the append-only transcript. There is no way to remove or replace an entry.
type Store struct {
	entries []Entry
}

// Append adds e at the end and returns its index
func (s *Store) Append(e Entry) int {
	s.entries = append(s.entries, e)
	return len(s.entries) - 1
}

func (s *Store) Len() int {
	return len(s.entries)
}

// At returns the entry at index i. It panics when i is out of range, like a slice.
func (s *Store) At(i int) Entry {
	return s.entries[i]
}

// Entries returns a copy of the transcript in insertion order
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// LastAnswer returns the most recent successful bot answer
func (s *Store) LastAnswer() (Entry, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].IsAnswer() {
			return s.entries[i], true
		}
	}
	return Entry{}, false
}
