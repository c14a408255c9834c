package service

import (
	"fmt"

	"github.com/mmynk/lifesync/internal/reactive"
)

// appendCopy returns a new slice holding list followed by item, so the
// previous value held by readers is never mutated.
func appendCopy[T any](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, item)
}

// removeByID deletes the first element whose id matches.
func removeByID[T any](cell *reactive.Cell[[]T], id string, idOf func(T) string) error {
	_, err := cell.TryUpdate(func(prev []T) ([]T, error) {
		for i, item := range prev {
			if idOf(item) == id {
				out := make([]T, 0, len(prev)-1)
				out = append(out, prev[:i]...)
				return append(out, prev[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%s %q: %w", cell.Key(), id, ErrNotFound)
	})
	return err
}

// replaceByID applies fn to the element whose id matches and returns it.
func replaceByID[T any](cell *reactive.Cell[[]T], id string, idOf func(T) string, fn func(T) T) (T, error) {
	var updated T
	_, err := cell.TryUpdate(func(prev []T) ([]T, error) {
		for i, item := range prev {
			if idOf(item) == id {
				out := make([]T, len(prev))
				copy(out, prev)
				updated = fn(item)
				out[i] = updated
				return out, nil
			}
		}
		return nil, fmt.Errorf("%s %q: %w", cell.Key(), id, ErrNotFound)
	})
	return updated, err
}
