// Package cart holds the per-session shopping cart and its persistence.
package cart

import "sync"

// Line is one product in the cart. A cart never holds two lines for the same
// product and never holds a line with a non-positive quantity.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Store is an ordered collection of cart lines. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	lines []Line
}

// NewStore returns a store seeded with lines. Lines are merged with Add
// semantics, so duplicates and non-positive quantities are normalised away.
func NewStore(lines ...Line) *Store {
	s := &Store{}
	for _, l := range lines {
		s.Add(l.ProductID, l.Quantity)
	}
	return s
}

// Add increments the quantity of an existing line or appends a new one.
// Non-positive quantities are ignored.
func (s *Store) Add(productID string, quantity int) {
	if quantity <= 0 || productID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(productID); i >= 0 {
		s.lines[i].Quantity += quantity
		return
	}
	s.lines = append(s.lines, Line{ProductID: productID, Quantity: quantity})
}

// UpdateQuantity replaces the quantity of a line. A quantity of zero or less
// removes the line. Unknown products are left alone.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		s.removeAt(i)
		return
	}
	s.lines[i].Quantity = quantity
}

// Remove drops the line for productID if present.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(productID); i >= 0 {
		s.removeAt(i)
	}
}

// Subtract takes the given quantities off the matching lines and drops lines
// that reach zero. Lines added or raised after the snapshot was taken keep
// the difference.
func (s *Store) Subtract(lines []Line) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range lines {
		i := s.indexOf(l.ProductID)
		if i < 0 || l.Quantity <= 0 {
			continue
		}
		s.lines[i].Quantity -= l.Quantity
		if s.lines[i].Quantity <= 0 {
			s.removeAt(i)
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Quantity returns the quantity held for productID, or 0.
func (s *Store) Quantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(productID); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

// Len returns the number of lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// ProductIDs returns the product ids in line order.
func (s *Store) ProductIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.lines))
	for i, l := range s.lines {
		ids[i] = l.ProductID
	}
	return ids
}

func (s *Store) indexOf(productID string) int {
	for i, l := range s.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
}
