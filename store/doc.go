// Package store holds the immutable result of a neighbor-file load: the
// mapping from object identifier to its resolved neighbor list.
//
// # Absent vs. empty
//
// Only subjects whose label resolved on some file line have an entry. An
// object that appeared as a subject with zero resolved neighbors has a
// present-but-empty entry; an object never seen as a resolvable subject has
// no entry at all. Downstream consumers may rely on this distinction between
// "no information" and "known to have no neighbors", so the store never
// normalizes it away.
//
// A [Store] is produced by a [Builder] and frozen exactly once; afterwards
// it is read-only and safe for concurrent use.
package store
