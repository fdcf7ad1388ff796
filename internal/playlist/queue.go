package playlist

// Queue wraps a List with a cursor on the current item.
type Queue[T any] struct {
	list         *List[T]
	currentIndex int // -1 if nothing selected
}

// NewQueue creates a new empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		list:         NewList[T](),
		currentIndex: -1,
	}
}

// Current returns the current item, or false if none.
func (q *Queue[T]) Current() (T, bool) {
	return q.list.At(q.currentIndex)
}

// CurrentIndex returns the index of the current item (-1 if none).
func (q *Queue[T]) CurrentIndex() int {
	return q.currentIndex
}

// HasNext returns true if there's an item after the current one.
func (q *Queue[T]) HasNext() bool {
	return q.currentIndex >= 0 && q.currentIndex < q.list.Len()-1
}

// HasPrevious returns true if there's an item before the current one.
func (q *Queue[T]) HasPrevious() bool {
	return q.currentIndex > 0 && q.currentIndex < q.list.Len()
}

// NextIndex returns the index that follows the current one.
// With wrap, the last item is followed by the first.
func (q *Queue[T]) NextIndex(wrap bool) (int, bool) {
	switch {
	case q.list.Len() == 0:
		return -1, false
	case q.HasNext():
		return q.currentIndex + 1, true
	case wrap:
		return 0, true
	default:
		return -1, false
	}
}

// PreviousIndex returns the index that precedes the current one.
// With wrap, the first item is preceded by the last.
func (q *Queue[T]) PreviousIndex(wrap bool) (int, bool) {
	switch {
	case q.list.Len() == 0:
		return -1, false
	case q.HasPrevious():
		return q.currentIndex - 1, true
	case wrap:
		return q.list.Len() - 1, true
	default:
		return -1, false
	}
}

// JumpTo sets the current index to the specified position.
// Returns the item at that position, or false if invalid.
func (q *Queue[T]) JumpTo(index int) (T, bool) {
	item, ok := q.list.At(index)
	if !ok {
		return item, false
	}
	q.currentIndex = index
	return item, true
}

// Add appends items to the queue without changing the cursor.
func (q *Queue[T]) Add(items ...T) {
	q.list.Add(items...)
}

// Replace clears the queue, adds items, and sets the cursor to 0
// (-1 when items is empty).
func (q *Queue[T]) Replace(items ...T) {
	q.list.Clear()
	q.currentIndex = -1
	if len(items) == 0 {
		return
	}
	q.list.Add(items...)
	q.currentIndex = 0
}

// RemoveAt removes the item at the given index.
// The current item cannot be removed; indices after it shift down.
func (q *Queue[T]) RemoveAt(index int) bool {
	if index == q.currentIndex {
		return false
	}
	if !q.list.Remove(index) {
		return false
	}
	if q.currentIndex > index {
		q.currentIndex--
	}
	return true
}

// Clear removes all items and resets the cursor.
func (q *Queue[T]) Clear() {
	q.list.Clear()
	q.currentIndex = -1
}

// Items returns a copy of all items in the queue.
func (q *Queue[T]) Items() []T {
	return q.list.Items()
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	return q.list.Len()
}

// IsEmpty returns true if the queue has no items.
func (q *Queue[T]) IsEmpty() bool {
	return q.list.Len() == 0
}
