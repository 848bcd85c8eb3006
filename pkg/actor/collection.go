package actor

import (
	"sync"

	"github.com/google/uuid"
)

// Item is anything a Collection can hold.
type Item interface {
	ItemID() uuid.UUID
	ItemName() string
}

var (
	_ Item = (*Actor)(nil)
	_ Item = (*Annotation)(nil)
)

// Collection records every item created through it, in creation order.
// It replaces a process-wide registry: the caller owns it and decides when
// to Clear it. A Collection is safe for concurrent use.
type Collection struct {
	mu    sync.Mutex
	items []Item
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends items, ignoring nils, including nil pointers wrapped in Item.
func (c *Collection) Add(items ...Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range items {
		if isNil(it) {
			continue
		}
		c.items = append(c.items, it)
	}
}

func isNil(it Item) bool {
	switch v := it.(type) {
	case nil:
		return true
	case *Actor:
		return v == nil
	case *Annotation:
		return v == nil
	}
	return false
}

// Len returns the number of items.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// All returns a snapshot of the items.
func (c *Collection) All() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Item(nil), c.items...)
}

// Actors returns the mesh actors in creation order.
func (c *Collection) Actors() []*Actor {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*Actor
	for _, it := range c.items {
		if a, ok := it.(*Actor); ok {
			out = append(out, a)
		}
	}
	return out
}

// Annotations returns the screen-space annotations in creation order.
func (c *Collection) Annotations() []*Annotation {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*Annotation
	for _, it := range c.items {
		if a, ok := it.(*Annotation); ok {
			out = append(out, a)
		}
	}
	return out
}

// Get returns the item with the given ID, or nil.
func (c *Collection) Get(id uuid.UUID) Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.ItemID() == id {
			return it
		}
	}
	return nil
}

// Remove deletes the item with the given ID and reports whether it was
// present.
func (c *Collection) Remove(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if it.ItemID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Pop removes and returns the most recently added item, or nil.
func (c *Collection) Pop() Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return nil
	}
	it := c.items[len(c.items)-1]
	c.items = c.items[:len(c.items)-1]
	return it
}

// Clear drops every item and returns how many were held.
func (c *Collection) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.items)
	c.items = nil
	return n
}
