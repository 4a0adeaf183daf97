package model

import (
	"fmt"
)

// ObjectID is the opaque internal identifier of a data object.
// It is comparable and hashable; uniqueness is guaranteed by the object
// source that produced it.
type ObjectID uint64

// String returns a string representation of the ObjectID.
func (id ObjectID) String() string {
	return fmt.Sprintf("Obj(%d)", uint64(id))
}

// Label is an external human-readable string associated with an object,
// e.g. a name or an external key. Multiple labels may refer to the same
// object; a single label refers to at most one object.
type Label = string

// NeighborSet is the ordered neighbor list of one subject, in file order.
// Despite the name it is a sequence, not a mathematical set: duplicates are
// permitted and insertion order is preserved.
type NeighborSet []ObjectID

// Clone returns a copy of the neighbor set.
// Clone of nil returns nil.
func (ns NeighborSet) Clone() NeighborSet {
	if ns == nil {
		return nil
	}
	out := make(NeighborSet, len(ns))
	copy(out, ns)
	return out
}

// Object pairs an ObjectID with the labels under which a neighbor file may
// reference it. ExternalID is an optional distinguished label; empty means
// the source provides none.
type Object struct {
	ID         ObjectID
	Labels     []Label
	ExternalID Label
}
