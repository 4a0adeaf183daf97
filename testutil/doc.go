// Package testutil provides testing utilities for neargo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating deterministic label corpora and
// synthesizing neighbor files, optionally compressed.
//
// # Corpus Generation
//
//	rng := testutil.NewRNG(seed)
//	corpus := testutil.GenerateCorpus(rng, 1000)       // objects with labels
//	text := testutil.GenerateNeighborFile(rng, corpus, 500, 8)
//
// # Compressed Fixtures
//
//	data := testutil.GzipBytes([]byte(text))
package testutil
