// Package collection holds the ordered, id-keyed record lists the wizard edits.
package collection

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// maxObserved caps how far a caller-supplied id can advance the counter. Larger
// numbers are kept as opaque ids.
const maxObserved = math.MaxUint64 >> 1

// ErrUnknownID is returned when an update or remove names a record that is not present.
var ErrUnknownID = errors.New("unknown record id")

// Record is implemented by value types that carry their own id.
type Record[T any] interface {
	RecordID() string
	WithID(id string) T
}

// Collection is an insertion-ordered list of records keyed by ids issued from a
// monotonic counter. Ids are never reused, even after removals.
// A Collection is not safe for concurrent use; the wizard serializes access.
type Collection[T Record[T]] struct {
	prefix string
	next   uint64
	items  []T
}

// New creates an empty collection whose ids look like "<prefix>-<n>".
func New[T Record[T]](prefix string) *Collection[T] {
	return &Collection[T]{prefix: prefix}
}

// issue returns the next counter id that is neither held by a record nor listed
// in reserved.
func (c *Collection[T]) issue(reserved map[string]struct{}) string {
	for {
		c.next++
		id := c.prefix + "-" + strconv.FormatUint(c.next, 10)
		if _, taken := reserved[id]; taken || c.indexOf(id) >= 0 {
			continue
		}
		return id
	}
}

// Add appends defaults under a fresh id and returns that id. Any id already set on
// defaults is ignored.
func (c *Collection[T]) Add(defaults T) string {
	id := c.issue(nil)
	c.items = append(c.items, defaults.WithID(id))
	return id
}

// Update applies patch to the record with the given id. The patched record keeps its id.
func (c *Collection[T]) Update(id string, patch func(*T)) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("update %q: %w", id, ErrUnknownID)
	}
	rec := c.items[idx]
	patch(&rec)
	c.items[idx] = rec.WithID(id)
	return nil
}

// Remove deletes the record with the given id, preserving the order of the rest.
func (c *Collection[T]) Remove(id string) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("remove %q: %w", id, ErrUnknownID)
	}
	c.items = append(c.items[:idx:idx], c.items[idx+1:]...)
	return nil
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	idx := c.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, false
	}
	return c.items[idx], true
}

// Len reports the number of records.
func (c *Collection[T]) Len() int { return len(c.items) }

// Items returns a copy of the records in insertion order. Nested slices are shared;
// callers that hand records to other goroutines clone them first.
func (c *Collection[T]) Items() []T {
	return append([]T{}, c.items...)
}

// Replace swaps in a whole list, as the wholesale step update does. Records that
// arrive without an id, or with an id already used earlier in the list, are given
// a fresh one. Known ids of the "<prefix>-<n>" form advance the counter so later
// Adds never collide with them.
func (c *Collection[T]) Replace(items []T) {
	seen := make(map[string]struct{}, len(items))
	for _, rec := range items {
		if id := rec.RecordID(); id != "" {
			c.observe(id)
		}
	}
	c.items = nil
	out := make([]T, 0, len(items))
	for i, rec := range items {
		id := rec.RecordID()
		if _, dup := seen[id]; id == "" || dup {
			rec = rec.WithID(c.issue(reservedFrom(seen, items[i+1:])))
			id = rec.RecordID()
		}
		seen[id] = struct{}{}
		out = append(out, rec)
	}
	c.items = out
}

func (c *Collection[T]) observe(id string) {
	if len(id) <= len(c.prefix)+1 || id[:len(c.prefix)+1] != c.prefix+"-" {
		return
	}
	n, err := strconv.ParseUint(id[len(c.prefix)+1:], 10, 64)
	if err == nil && n > c.next && n <= maxObserved {
		c.next = n
	}
}

func reservedFrom[T Record[T]](seen map[string]struct{}, rest []T) map[string]struct{} {
	out := make(map[string]struct{}, len(seen)+len(rest))
	for id := range seen {
		out[id] = struct{}{}
	}
	for _, rec := range rest {
		out[rec.RecordID()] = struct{}{}
	}
	return out
}

func (c *Collection[T]) indexOf(id string) int {
	for i, rec := range c.items {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}
