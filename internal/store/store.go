// Package store is the authoritative ordered collection of elements. Order in
// the store is paint order: the first record is painted first (bottom) and
// the last record is painted last (top).
package store

import (
	"fmt"
	"log/slog"
	"strconv"

	"easel/internal/element"
)

// Persister receives the full store after every mutation.
type Persister interface {
	Save(elems []element.Element) error
}

type Store struct {
	elems   []element.Element
	counter int
	persist Persister
	log     *slog.Logger
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func New(p Persister, opts ...Option) *Store {
	s := &Store{
		elems:   make([]element.Element, 0),
		persist: p,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create assigns the next id, appends the record on top and persists.
func (s *Store) Create(kind element.Kind, attrs element.Element) string {
	s.counter++
	attrs.ID = fmt.Sprintf("el-%d", s.counter)
	attrs.Kind = kind
	if kind != element.Text {
		attrs.Text = ""
	}
	s.elems = append(s.elems, attrs)
	s.Reindex()
	s.save()
	return attrs.ID
}

// Update applies p to the record with the given id. Absent ids are ignored.
func (s *Store) Update(id string, p element.Patch) bool {
	i := s.IndexOf(id)
	if i < 0 {
		return false
	}
	p.Apply(&s.elems[i])
	s.save()
	return true
}

// Put overwrites the record with the same id, keeping its store position.
func (s *Store) Put(e element.Element) bool {
	i := s.IndexOf(e.ID)
	if i < 0 {
		return false
	}
	e.Kind = s.elems[i].Kind
	e.ZIndex = s.elems[i].ZIndex
	s.elems[i] = e
	s.save()
	return true
}

func (s *Store) Delete(id string) bool {
	i := s.IndexOf(id)
	if i < 0 {
		return false
	}
	s.elems = append(s.elems[:i], s.elems[i+1:]...)
	s.Reindex()
	s.save()
	return true
}

// MoveUp swaps the record with the one painted directly above it.
func (s *Store) MoveUp(id string) bool {
	i := s.IndexOf(id)
	if i < 0 || i == len(s.elems)-1 {
		return false
	}
	s.swap(i, i+1)
	return true
}

// MoveDown swaps the record with the one painted directly below it.
func (s *Store) MoveDown(id string) bool {
	i := s.IndexOf(id)
	if i <= 0 {
		return false
	}
	s.swap(i, i-1)
	return true
}

func (s *Store) swap(i, j int) {
	s.elems[i], s.elems[j] = s.elems[j], s.elems[i]
	s.Reindex()
	s.save()
}

// Reindex sets each record's ZIndex to its 1-based store position.
func (s *Store) Reindex() {
	for i := range s.elems {
		s.elems[i].ZIndex = i + 1
	}
}

// Replace swaps in a whole new sequence, as done on load. The id counter is
// reseeded from the loaded ids. Nothing is persisted.
func (s *Store) Replace(elems []element.Element) {
	s.elems = make([]element.Element, len(elems))
	copy(s.elems, elems)
	s.counter = 0
	for _, e := range s.elems {
		if n := idSuffix(e.ID); n > s.counter {
			s.counter = n
		}
	}
	s.Reindex()
}

func (s *Store) IndexOf(id string) int {
	for i := range s.elems {
		if s.elems[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) Get(id string) (element.Element, bool) {
	i := s.IndexOf(id)
	if i < 0 {
		return element.Element{}, false
	}
	return s.elems[i], true
}

func (s *Store) Len() int { return len(s.elems) }

// Elements returns a copy of the records in paint order.
func (s *Store) Elements() []element.Element {
	out := make([]element.Element, len(s.elems))
	copy(out, s.elems)
	return out
}

// Counter is the last id number handed out.
func (s *Store) Counter() int { return s.counter }

// Save writes the current state through the persister.
func (s *Store) Save() error {
	if s.persist == nil {
		return nil
	}
	return s.persist.Save(s.Elements())
}

func (s *Store) save() {
	if err := s.Save(); err != nil {
		s.log.Warn("persist store", "elements", len(s.elems), "error", err)
	}
}

// idSuffix parses the trailing digits of an id; anything else counts as 0.
func idSuffix(id string) int {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(id[i:])
	if err != nil {
		return 0
	}
	return n
}
