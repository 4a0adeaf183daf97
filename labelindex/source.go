package labelindex

import (
	"github.com/hupe1980/neargo/model"
)

// Source enumerates the objects an index is built over.
//
// ForEach must visit every object exactly once. A non-nil error returned by
// fn stops the enumeration and is propagated unchanged; a failing source
// (e.g. a remote scan) propagates its own error the same way.
type Source interface {
	// Len returns the number of objects the source will enumerate.
	Len() int
	// ForEach calls fn for every object.
	ForEach(fn func(model.Object) error) error
}

// SliceSource is an in-memory Source backed by a slice of objects.
type SliceSource []model.Object

// Len returns the number of objects.
func (s SliceSource) Len() int { return len(s) }

// ForEach calls fn for every object in slice order.
func (s SliceSource) ForEach(fn func(model.Object) error) error {
	for _, obj := range s {
		if err := fn(obj); err != nil {
			return err
		}
	}
	return nil
}
