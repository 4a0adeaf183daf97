package testutil

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/hupe1980/neargo/labelindex"
	"github.com/hupe1980/neargo/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// GenerateCorpus produces num objects with ids 1..num. Every object carries
// one primary label ("obj-<id>") and an external id ("EXT-<id>").
func GenerateCorpus(num int) labelindex.SliceSource {
	src := make(labelindex.SliceSource, 0, num)
	for i := 1; i <= num; i++ {
		src = append(src, model.Object{
			ID:         model.ObjectID(i),
			Labels:     []model.Label{fmt.Sprintf("obj-%d", i)},
			ExternalID: fmt.Sprintf("EXT-%d", i),
		})
	}
	return src
}

// GenerateNeighborFile synthesizes neighbor-file text with lines subjects
// drawn from corpus, each followed by up to maxNeighbors random neighbor
// labels. Deterministic for a given RNG seed.
func GenerateNeighborFile(rng *RNG, corpus labelindex.SliceSource, lines, maxNeighbors int) string {
	var sb strings.Builder
	for range lines {
		subject := corpus[rng.Intn(len(corpus))]
		sb.WriteString(subject.Labels[0])
		for range rng.Intn(maxNeighbors + 1) {
			neighbor := corpus[rng.Intn(len(corpus))]
			sb.WriteByte(' ')
			sb.WriteString(neighbor.Labels[0])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// GzipBytes compresses data with gzip.
func GzipBytes(data []byte) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
