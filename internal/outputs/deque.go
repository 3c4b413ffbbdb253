package outputs

// deque is a fixed-capacity list ordered most-recent-first.
type deque struct {
	items    []Record
	capacity int
}

func newDeque(items []Record, capacity int) *deque {
	if capacity < 1 {
		capacity = 1
	}
	d := &deque{items: make([]Record, 0, capacity+1), capacity: capacity}
	d.items = append(d.items, items...)
	d.trim()
	return d
}

// PushFront inserts rec at the head and returns the records evicted from the
// back in eviction order.
func (d *deque) PushFront(rec Record) []Record {
	d.items = append(d.items, Record{})
	copy(d.items[1:], d.items)
	d.items[0] = rec
	return d.trim()
}

// PopBack removes and returns the last record.
func (d *deque) PopBack() (Record, bool) {
	if len(d.items) == 0 {
		return Record{}, false
	}
	last := d.items[len(d.items)-1]
	d.items = d.items[:len(d.items)-1]
	return last, true
}

// RemoveFunc drops every record matching fn and reports how many were removed.
func (d *deque) RemoveFunc(fn func(Record) bool) int {
	kept := d.items[:0]
	removed := 0
	for _, rec := range d.items {
		if fn(rec) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	clear(d.items[len(kept):])
	d.items = kept
	return removed
}

func (d *deque) Len() int {
	return len(d.items)
}

// Items returns a copy of the records.
func (d *deque) Items() []Record {
	out := make([]Record, len(d.items))
	copy(out, d.items)
	return out
}

func (d *deque) trim() []Record {
	var evicted []Record
	for len(d.items) > d.capacity {
		rec, _ := d.PopBack()
		evicted = append(evicted, rec)
	}
	return evicted
}
