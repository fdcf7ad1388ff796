// Package playlist holds ordered track collections and the cursor used to
// walk them during playback.
package playlist

// List holds an ordered collection of items.
type List[T any] struct {
	items []T
}

// NewList creates a new empty list.
func NewList[T any]() *List[T] {
	return &List[T]{
		items: make([]T, 0),
	}
}

// Add appends items to the list.
func (l *List[T]) Add(items ...T) {
	l.items = append(l.items, items...)
}

// Remove removes the item at the given index.
// Returns false if index is out of bounds.
func (l *List[T]) Remove(index int) bool {
	if index < 0 || index >= len(l.items) {
		return false
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
	return true
}

// Clear removes all items from the list.
func (l *List[T]) Clear() {
	clear(l.items)
	l.items = l.items[:0]
}

// Items returns a copy of all items.
func (l *List[T]) Items() []T {
	result := make([]T, len(l.items))
	copy(result, l.items)
	return result
}

// At returns the item at the given index.
func (l *List[T]) At(index int) (T, bool) {
	if index < 0 || index >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[index], true
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.items)
}
