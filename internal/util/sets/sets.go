package sets

// Set is a simple generic hash set for comparable keys.
// Usage: s := sets.New[string]("a","b"); s.Add("c"); if s.Has("b") {...}
type Set[T comparable] map[T]struct{}

// New creates a set pre-populated with the provided values.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts value into the set.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has returns true if v is present.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Ordered is a set that remembers insertion order. Re-adding a present
// value does not move it.
type Ordered[T comparable] struct {
	index Set[T]
	order []T
}

// NewOrdered creates an ordered set from vals, keeping the first
// occurrence of duplicates.
func NewOrdered[T comparable](vals ...T) *Ordered[T] {
	o := &Ordered[T]{index: make(Set[T], len(vals)), order: make([]T, 0, len(vals))}
	for _, v := range vals {
		o.Add(v)
	}
	return o
}

// Add appends v and reports whether it was newly inserted.
func (o *Ordered[T]) Add(v T) bool {
	if o.index == nil {
		o.index = make(Set[T])
	}
	if o.index.Has(v) {
		return false
	}
	o.index.Add(v)
	o.order = append(o.order, v)
	return true
}

// Has returns true if v is present.
func (o *Ordered[T]) Has(v T) bool { return o.index.Has(v) }

// Len returns the number of values.
func (o *Ordered[T]) Len() int { return len(o.order) }

// Values returns a copy of the values in insertion order.
func (o *Ordered[T]) Values() []T {
	out := make([]T, len(o.order))
	copy(out, o.order)
	return out
}

// Last returns a copy of the n most recently inserted values, oldest first.
// n <= 0 yields an empty slice.
func (o *Ordered[T]) Last(n int) []T {
	if n <= 0 {
		return []T{}
	}
	start := max(len(o.order)-n, 0)
	out := make([]T, len(o.order)-start)
	copy(out, o.order[start:])
	return out
}
