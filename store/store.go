package store

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/neargo/model"
)

// Builder accumulates neighbor entries while a file is being parsed.
// It is not safe for concurrent use; the parser synchronizes batches itself.
type Builder struct {
	m map[model.ObjectID]model.NeighborSet
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		m: make(map[model.ObjectID]model.NeighborSet),
	}
}

// Append adds resolved neighbors to the subject's list, creating the entry
// if the subject has not been seen before. A subject appearing on multiple
// lines accumulates; earlier appearances are never discarded.
func (b *Builder) Append(id model.ObjectID, neighbors ...model.ObjectID) {
	ns, ok := b.m[id]
	if !ok {
		// Entries are always non-nil so that present-but-empty survives
		// marshaling and comparison.
		ns = model.NeighborSet{}
	}
	b.m[id] = append(ns, neighbors...)
}

// Touch ensures the subject has an entry, without adding neighbors. This is
// how a subject-only line becomes present-but-empty rather than absent.
func (b *Builder) Touch(id model.ObjectID) {
	if _, ok := b.m[id]; !ok {
		b.m[id] = model.NeighborSet{}
	}
}

// Len returns the number of subjects accumulated so far.
func (b *Builder) Len() int { return len(b.m) }

// Freeze finalizes the builder into an immutable Store. The builder must not
// be used afterwards.
func (b *Builder) Freeze() *Store {
	subjects := roaring64.New()
	for id := range b.m {
		subjects.Add(uint64(id))
	}
	s := &Store{m: b.m, subjects: subjects}
	b.m = nil
	return s
}

// Store is the immutable mapping from object identifier to neighbor list.
type Store struct {
	m        map[model.ObjectID]model.NeighborSet
	subjects *roaring64.Bitmap
}

// Get returns the neighbor list for id. The second result distinguishes an
// absent subject (false) from a present-but-empty one (true with an empty
// list). The returned slice is shared; callers must not modify it.
func (s *Store) Get(id model.ObjectID) (model.NeighborSet, bool) {
	ns, ok := s.m[id]
	return ns, ok
}

// Len returns the number of subjects with an entry.
func (s *Store) Len() int { return len(s.m) }

// Subjects returns the bitmap of all subject identifiers with an entry.
// The bitmap is shared; callers must not modify it.
func (s *Store) Subjects() *roaring64.Bitmap { return s.subjects }
