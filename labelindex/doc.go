// Package labelindex builds the reverse index from external labels to
// internal object identifiers.
//
// A neighbor file references objects by human-readable label. Before such a
// file can be parsed, every label known for every object (including the
// optional distinguished external id) must be mapped back to the object's
// [model.ObjectID]. [Build] performs one full pass over an object [Source]
// and produces an [Index] that is immutable afterwards and safe for
// concurrent readers.
//
// Label collisions follow last-write-wins: if two objects share a label, the
// later object in source order owns it. Collisions are surfaced through an
// optional diagnostic callback, never as errors.
package labelindex
