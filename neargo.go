package neargo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/neargo/blobstore"
	"github.com/hupe1980/neargo/labelindex"
	"github.com/hupe1980/neargo/model"
	"github.com/hupe1980/neargo/neighborfile"
	"github.com/hupe1980/neargo/store"
)

// Neighborhood is the loaded, immutable neighbor relation. It is safe for
// concurrent use.
type Neighborhood struct {
	store *store.Store
	index *labelindex.Index
	stats neighborfile.Stats
}

// Load builds a label index over src, then parses the neighbor file at path
// against it. The index is built completely before the first line is read;
// tokens cannot resolve against a partially-built index.
func Load(ctx context.Context, src labelindex.Source, path string, optFns ...Option) (*Neighborhood, error) {
	return load(ctx, src, optFns, func(ctx context.Context, idx *labelindex.Index, nfOpts []func(o *neighborfile.Options)) (*store.Store, neighborfile.Stats, error) {
		return neighborfile.Parse(ctx, path, idx, nfOpts...)
	})
}

// LoadBlob is Load for a neighbor file living in a blob store.
func LoadBlob(ctx context.Context, src labelindex.Source, bs blobstore.BlobStore, name string, optFns ...Option) (*Neighborhood, error) {
	return load(ctx, src, optFns, func(ctx context.Context, idx *labelindex.Index, nfOpts []func(o *neighborfile.Options)) (*store.Store, neighborfile.Stats, error) {
		return neighborfile.ParseBlob(ctx, bs, name, idx, nfOpts...)
	})
}

// LoadReader is Load for an already-open stream. The caller owns r.
func LoadReader(ctx context.Context, src labelindex.Source, r io.Reader, optFns ...Option) (*Neighborhood, error) {
	return load(ctx, src, optFns, func(ctx context.Context, idx *labelindex.Index, nfOpts []func(o *neighborfile.Options)) (*store.Store, neighborfile.Stats, error) {
		return neighborfile.ParseReader(ctx, r, idx, nfOpts...)
	})
}

type parseFunc func(ctx context.Context, idx *labelindex.Index, nfOpts []func(o *neighborfile.Options)) (*store.Store, neighborfile.Stats, error)

func load(ctx context.Context, src labelindex.Source, optFns []Option, parse parseFunc) (*Neighborhood, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	indexStart := time.Now()
	collisions := 0
	idx, err := labelindex.Build(src, func(o *labelindex.Options) {
		o.OnCollision = func(lbl model.Label, prev, next model.ObjectID) {
			collisions++
			opts.logger.Warn("label claimed by multiple objects, keeping the later one",
				"label", lbl,
				"previous", prev,
				"next", next,
			)
		}
	})
	opts.metrics.RecordIndexBuild(idxLen(idx), collisions, time.Since(indexStart), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	opts.logger.LogIndexBuild(idx.Len(), idx.Objects(), collisions, time.Since(indexStart))

	nfOpts := []func(o *neighborfile.Options){
		func(o *neighborfile.Options) {
			o.Logger = opts.logger.Logger
			o.OnWarning = opts.onWarning
			o.WarnRate = opts.warnRate
			o.WarnBurst = opts.warnBurst
			o.Parallelism = opts.parallelism
			o.BatchSize = opts.batchSize
		},
	}

	loadStart := time.Now()
	s, stats, err := parse(ctx, idx, nfOpts)
	opts.metrics.RecordLoad(stats, time.Since(loadStart), err)
	opts.logger.LogLoad(stats, time.Since(loadStart), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	return &Neighborhood{store: s, index: idx, stats: stats}, nil
}

func idxLen(idx *labelindex.Index) int {
	if idx == nil {
		return 0
	}
	return idx.Len()
}

// Get returns the neighbor list for id. The second result distinguishes an
// absent subject (false, "no information") from a present-but-empty one
// (true with an empty list, "known to have no neighbors"). The returned
// slice is shared; callers must not modify it.
func (n *Neighborhood) Get(id model.ObjectID) (model.NeighborSet, bool) {
	return n.store.Get(id)
}

// Resolve looks up a label and returns the neighbor list of the object it
// names. ok is false if the label is unknown or the object has no entry.
func (n *Neighborhood) Resolve(lbl model.Label) (model.NeighborSet, bool) {
	id, ok := n.index.Lookup(lbl)
	if !ok {
		return nil, false
	}
	return n.store.Get(id)
}

// Len returns the number of subjects with an entry.
func (n *Neighborhood) Len() int { return n.store.Len() }

// Subjects returns the bitmap of all subject identifiers with an entry.
// The bitmap is shared; callers must not modify it.
func (n *Neighborhood) Subjects() *roaring64.Bitmap { return n.store.Subjects() }

// Stats returns the load statistics.
func (n *Neighborhood) Stats() neighborfile.Stats { return n.stats }

// Store returns the underlying immutable neighbor store, e.g. for
// snapshotting via its Save method.
func (n *Neighborhood) Store() *store.Store { return n.store }

// Index returns the label index the file was resolved against.
func (n *Neighborhood) Index() *labelindex.Index { return n.index }
