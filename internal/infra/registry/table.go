package registry

// table is an insertion-ordered map keyed by ID.
// Replacing an entry keeps its original position.
type table[T any] struct {
	items map[string]T
	order []string
}

func newTable[T any]() table[T] {
	return table[T]{items: make(map[string]T)}
}

// put inserts or replaces v and reports whether the ID was new.
func (t *table[T]) put(id string, v T) bool {
	_, exists := t.items[id]
	if !exists {
		t.order = append(t.order, id)
	}
	t.items[id] = v
	return !exists
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.items[id]
	return v, ok
}

func (t *table[T]) list() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.items[id])
	}
	return out
}
