package nav

const (
	Next     = 1
	Previous = -1
)

type Item struct {
	Label  string
	Target string
	Hidden bool
}

// List tracks which rendered result is current. At most one item is current
// at a time; a rebuilt list starts with none.
type List struct {
	items   []Item
	current int
}

func NewList() *List {
	return &List{current: -1}
}

func (l *List) SetItems(items []Item) {
	l.items = items
	l.current = -1
}

func (l *List) Items() []Item {
	return l.items
}

func (l *List) Len() int {
	return len(l.items)
}

// Current returns the current item's index, or -1.
func (l *List) Current() int {
	return l.current
}

func (l *List) SetHidden(i int, hidden bool) {
	if i < 0 || i >= len(l.items) {
		return
	}
	l.items[i].Hidden = hidden
}

// Move selects the first item (moving next) or last item (moving previous)
// when none is current. Otherwise it walks siblings in the given direction,
// skipping hidden ones; when only hidden items remain the selection stays
// put.
func (l *List) Move(direction int) {
	if len(l.items) == 0 {
		return
	}

	if l.current < 0 {
		if direction >= 0 {
			l.current = 0
		} else {
			l.current = len(l.items) - 1
		}
		return
	}

	for i := l.current + direction; i >= 0 && i < len(l.items); i += direction {
		if !l.items[i].Hidden {
			l.current = i
			return
		}
	}
}

// Activate resolves the current item's target, treating the first item as
// current when none is. The second return is false when the list is empty.
func (l *List) Activate() (string, bool) {
	idx := l.current
	if idx < 0 {
		idx = 0
	}
	if idx >= len(l.items) {
		return "", false
	}
	l.current = idx
	return l.items[idx].Target, true
}
