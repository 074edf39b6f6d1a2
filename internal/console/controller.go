package console

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Controller keeps the local list state of one console page. The server's
// responses are the ground truth: saved records are spliced into the list
// by id, never reconstructed from the submitted form.
type Controller[T any] struct {
	fetch func(ctx context.Context) ([]T, error)
	id    func(T) string
	items []T
}

// NewController builds a controller from the page's fetch function and an
// id accessor.
func NewController[T any](fetch func(ctx context.Context) ([]T, error), id func(T) string) *Controller[T] {
	return &Controller[T]{fetch: fetch, id: id}
}

// Load replaces the local list with a fresh fetch. On error the previous
// list is kept.
func (c *Controller[T]) Load(ctx context.Context) error {
	items, err := c.fetch(ctx)
	if err != nil {
		return fmt.Errorf("loading list: %w", err)
	}
	c.items = items
	return nil
}

// Items returns a copy of the current list.
func (c *Controller[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the current list size.
func (c *Controller[T]) Len() int { return len(c.items) }

// Filter returns the items matching a predicate, in list order.
func (c *Controller[T]) Filter(pred func(T) bool) []T {
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// ApplySaved splices a server-returned record into the list: an existing
// id is replaced in place, a new id is appended. Applying the same record
// twice is a no-op.
func (c *Controller[T]) ApplySaved(rec T) {
	recID := c.id(rec)
	for i, item := range c.items {
		if c.id(item) == recID {
			c.items[i] = rec
			return
		}
	}
	c.items = append(c.items, rec)
}

// Remove drops the record with the given id, if present.
func (c *Controller[T]) Remove(id string) {
	for i, item := range c.items {
		if c.id(item) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// LoadPair runs two independent loads concurrently. A single failure is
// logged and the page degrades to what it got; the error is returned only
// when both loads fail.
func LoadPair(ctx context.Context, logger *slog.Logger, loads map[string]func(ctx context.Context) error) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	errs := make(map[string]error)

	for name, load := range loads {
		wg.Add(1)
		go func(name string, load func(ctx context.Context) error) {
			defer wg.Done()
			if err := load(ctx); err != nil {
				logger.Error("partial page load", "collection", name, "error", err)
				mu.Lock()
				errs[name] = err
				mu.Unlock()
			}
		}(name, load)
	}
	wg.Wait()

	if len(errs) == len(loads) && len(loads) > 0 {
		for name, err := range errs {
			return fmt.Errorf("loading %s: %w", name, err)
		}
	}
	return nil
}
