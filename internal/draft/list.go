package draft

import (
	"fmt"
	"sort"
)

// Entry is a record kept in a List. WithField returns an updated copy.
type Entry[E any] interface {
	WithField(field, value string) (E, error)
}

// List is an ordered, editable list of entries.
type List[E Entry[E]] struct {
	items []E
}

// NewList returns a list holding a copy of items.
func NewList[E Entry[E]](items []E) *List[E] {
	return &List[E]{items: append([]E(nil), items...)}
}

// Add appends a blank entry and returns its index.
func (l *List[E]) Add() int {
	var blank E
	l.items = append(l.items, blank)
	return len(l.items) - 1
}

// Update sets one field of the entry at index. An index outside [0, Len)
// panics.
func (l *List[E]) Update(index int, field, value string) error {
	l.mustIndex(index)
	next, err := l.items[index].WithField(field, value)
	if err != nil {
		return err
	}
	l.items[index] = next
	return nil
}

// UpdateFields sets several fields of the entry at index. Nothing changes
// when any field name is unknown. An index outside [0, Len) panics.
func (l *List[E]) UpdateFields(index int, fields map[string]string) error {
	l.mustIndex(index)
	next := l.items[index]
	for _, name := range sortedKeys(fields) {
		var err error
		if next, err = next.WithField(name, fields[name]); err != nil {
			return err
		}
	}
	l.items[index] = next
	return nil
}

// Remove deletes the entry at index, shifting later entries down. An index
// outside [0, Len) panics.
func (l *List[E]) Remove(index int) {
	l.mustIndex(index)
	l.items = append(l.items[:index:index], l.items[index+1:]...)
}

func (l *List[E]) Len() int { return len(l.items) }

// Items returns a copy of the entries; never nil.
func (l *List[E]) Items() []E {
	out := make([]E, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List[E]) mustIndex(index int) {
	if index < 0 || index >= len(l.items) {
		panic(fmt.Sprintf("draft: index %d out of range [0,%d)", index, len(l.items)))
	}
}

// editable is the type-erased view of a List used by the draft setters.
type editable interface {
	Add() int
	Update(index int, field, value string) error
	UpdateFields(index int, fields map[string]string) error
	Remove(index int)
	Len() int
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
