package labelindex

import (
	"fmt"

	"github.com/hupe1980/neargo/model"
)

// CollisionFunc is called when a label already mapped to one object is
// claimed by another. prev is the overwritten mapping, next the new owner.
type CollisionFunc func(label model.Label, prev, next model.ObjectID)

// Options configure index construction.
type Options struct {
	// OnCollision receives a diagnostic for every label that is claimed by
	// more than one object. It must not retain the label beyond the call.
	// nil disables collision reporting. The mapping outcome is always
	// last-write-wins, regardless of this callback.
	OnCollision CollisionFunc
}

// Index is the immutable mapping from label to object identifier.
//
// An Index is never mutated after Build returns; it is safe for concurrent
// readers without locking.
type Index struct {
	m       map[model.Label]model.ObjectID
	objects int
}

// Build constructs an Index from one full pass over src.
//
// Every label of every object is inserted, plus the external id if the
// source provides one. Objects without labels contribute nothing and are not
// an error. Build fails only if the source itself fails.
func Build(src Source, optFns ...func(o *Options)) (*Index, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	idx := &Index{
		// Most objects carry a label and an external id.
		m: make(map[model.Label]model.ObjectID, src.Len()*2),
	}

	err := src.ForEach(func(obj model.Object) error {
		if obj.ExternalID != "" {
			idx.insert(obj.ExternalID, obj.ID, opts.OnCollision)
		}
		for _, lbl := range obj.Labels {
			idx.insert(lbl, obj.ID, opts.OnCollision)
		}
		idx.objects++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("label index: enumerating object source: %w", err)
	}

	return idx, nil
}

func (idx *Index) insert(lbl model.Label, id model.ObjectID, onCollision CollisionFunc) {
	if prev, ok := idx.m[lbl]; ok && prev != id && onCollision != nil {
		onCollision(lbl, prev, id)
	}
	idx.m[lbl] = id
}

// Lookup resolves a label to its object identifier.
func (idx *Index) Lookup(lbl model.Label) (model.ObjectID, bool) {
	id, ok := idx.m[lbl]
	return id, ok
}

// Len returns the number of distinct labels in the index.
func (idx *Index) Len() int { return len(idx.m) }

// Objects returns the number of objects enumerated during Build, including
// label-less objects that contributed no index entry.
func (idx *Index) Objects() int { return idx.objects }
