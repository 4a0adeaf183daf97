// Package neargo loads precomputed neighborhoods from external files.
//
// Spatial outlier algorithms often consume a neighbor relation that was
// computed elsewhere and shipped as a plain text file: one line per subject,
// each token a human-readable label of an object. neargo resolves those
// labels against an object source, tolerates unresolvable references with
// warnings, and produces an immutable per-object neighbor lookup.
//
// # Quick Start
//
//	src := labelindex.SliceSource{
//	    {ID: 1, Labels: []string{"x"}},
//	    {ID: 2, Labels: []string{"a"}},
//	}
//
//	hood, err := neargo.Load(ctx, src, "neighbors.txt")
//	if err != nil { ... }
//
//	neighbors, ok := hood.Get(1) // ok=false means "no information"
//
// Neighbor files may be gzip-, zstd- or lz4-compressed; the format is
// detected automatically. Files can also live in object storage:
//
//	s3Store, _ := s3.New(ctx, "my-bucket", "hoods/")
//	hood, err := neargo.LoadBlob(ctx, src, s3Store, "city.txt")
//
// # Error model
//
// Unresolvable labels are warnings, not errors: the affected line or token
// is skipped and the load continues. I/O failures are fatal and yield no
// store at all. A successful load may therefore still have emitted warnings;
// inspect [Neighborhood.Stats] or install an OnWarning callback via
// [WithWarningFunc] to collect them.
package neargo
