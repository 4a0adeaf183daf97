// Package model defines the core identifier and neighbor types shared by all
// neargo packages.
//
// The central type is [ObjectID], the opaque internal identifier of a data
// object. neargo never mints ObjectIDs itself; they originate from the object
// source that enumerates the collection. Labels are the external,
// human-readable strings a neighbor file uses to reference objects.
package model
