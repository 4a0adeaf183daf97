package neighborfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/neargo/blobstore"
	"github.com/hupe1980/neargo/internal/fs"
	"github.com/hupe1980/neargo/labelindex"
	"github.com/hupe1980/neargo/model"
	"github.com/hupe1980/neargo/store"
)

// Warning describes one unresolvable label. Warnings are advisory; they
// never alter the outcome of a load beyond the affected line or token.
type Warning struct {
	// Line is the 1-based line number in the file.
	Line int
	// Token is the 0-based token position on the line; 0 is the subject.
	Token int
	// Label is the token text that failed to resolve.
	Label model.Label
}

// Stats summarize one load.
type Stats struct {
	// Lines counts every line seen, including blank ones.
	Lines int
	// Subjects is the number of entries in the resulting store.
	Subjects int
	// Neighbors is the total number of resolved neighbor ids appended.
	Neighbors int
	// Warnings counts unresolved subject and neighbor tokens.
	Warnings int
	// SuppressedLogs counts warnings that were tallied but not logged
	// because the warning log rate limit was exceeded.
	SuppressedLogs int
}

// Options configure parsing.
type Options struct {
	// FS opens the file in Parse. Defaults to the local filesystem; tests
	// inject a faulty one to exercise the fatal I/O path.
	FS fs.FileSystem

	// Logger receives warning events. Defaults to slog.Default.
	Logger *slog.Logger

	// OnWarning, if set, receives every warning regardless of log rate
	// limits. Useful for collecting diagnostics programmatically.
	OnWarning func(Warning)

	// WarnRate caps how many warnings per second are logged. Labels that
	// miss wholesale would otherwise flood the log with one line per token.
	// rate.Inf (the default) disables the cap. Suppressed warnings are still
	// counted and still reach OnWarning.
	WarnRate rate.Limit

	// WarnBurst is the burst size for WarnRate. Defaults to 1 when a finite
	// WarnRate is set.
	WarnBurst int

	// Parallelism > 1 resolves batches of lines concurrently. Results are
	// applied in file order, so the outcome is identical to a sequential
	// parse. Line resolution is stateless against the frozen index, which is
	// what makes this safe.
	Parallelism int

	// BatchSize is the number of lines per concurrent batch. Only used when
	// Parallelism > 1. Defaults to 1024.
	BatchSize int
}

const defaultBatchSize = 1024

// Parse opens the file at path and loads it against idx.
func Parse(ctx context.Context, path string, idx *labelindex.Index, optFns ...func(o *Options)) (*store.Store, Stats, error) {
	opts := applyOptions(optFns)

	f, err := opts.FS.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("neighbor file: opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return parse(ctx, f, idx, opts)
}

// ParseBlob loads the named blob from bs against idx.
func ParseBlob(ctx context.Context, bs blobstore.BlobStore, name string, idx *labelindex.Index, optFns ...func(o *Options)) (*store.Store, Stats, error) {
	opts := applyOptions(optFns)

	blob, err := bs.Open(ctx, name)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("neighbor file: opening blob %s: %w", name, err)
	}
	r, err := blob.Reader(ctx)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("neighbor file: reading blob %s: %w", name, err)
	}
	defer func() { _ = r.Close() }()

	return parse(ctx, r, idx, opts)
}

// ParseReader loads r against idx. The caller owns r and closes it.
func ParseReader(ctx context.Context, r io.Reader, idx *labelindex.Index, optFns ...func(o *Options)) (*store.Store, Stats, error) {
	return parse(ctx, r, idx, applyOptions(optFns))
}

func applyOptions(optFns []func(o *Options)) Options {
	opts := Options{
		FS:       fs.Default,
		Logger:   slog.Default(),
		WarnRate: rate.Inf,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.FS == nil {
		opts.FS = fs.Default
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.WarnBurst <= 0 {
		opts.WarnBurst = 1
	}
	return opts
}

// lineResult is the outcome of resolving one line against the index.
type lineResult struct {
	subject   model.ObjectID
	ok        bool // subject resolved; false also for blank lines
	neighbors model.NeighborSet
	warnings  []Warning
}

// resolveLine resolves one line. It reads only the frozen index and is safe
// to call concurrently for distinct lines.
func resolveLine(idx *labelindex.Index, lineNo int, text string) lineResult {
	if text == "" {
		return lineResult{}
	}

	tokens := strings.Split(text, " ")

	subject, ok := idx.Lookup(tokens[0])
	if !ok {
		return lineResult{warnings: []Warning{{Line: lineNo, Token: 0, Label: tokens[0]}}}
	}

	res := lineResult{subject: subject, ok: true}
	if n := len(tokens) - 1; n > 0 {
		res.neighbors = make(model.NeighborSet, 0, n)
	}
	for i, tok := range tokens[1:] {
		id, found := idx.Lookup(tok)
		if !found {
			res.warnings = append(res.warnings, Warning{Line: lineNo, Token: i + 1, Label: tok})
			continue
		}
		res.neighbors = append(res.neighbors, id)
	}
	return res
}

func parse(ctx context.Context, r io.Reader, idx *labelindex.Index, opts Options) (*store.Store, Stats, error) {
	dr, err := sniffReader(r)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("neighbor file: %w", err)
	}

	scanner := bufio.NewScanner(dr)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	p := &parser{
		idx:     idx,
		builder: store.NewBuilder(),
		opts:    opts,
		limiter: rate.NewLimiter(opts.WarnRate, opts.WarnBurst),
	}

	if opts.Parallelism > 1 {
		err = p.runBatched(ctx, scanner)
	} else {
		err = p.runSequential(ctx, scanner)
	}
	if err != nil {
		return nil, Stats{}, err
	}
	if err := scanner.Err(); err != nil {
		return nil, Stats{}, fmt.Errorf("neighbor file: reading stream: %w", err)
	}

	if p.stats.SuppressedLogs > 0 {
		opts.Logger.Warn("additional unresolved labels were not logged",
			"suppressed", p.stats.SuppressedLogs,
		)
	}

	s := p.builder.Freeze()
	p.stats.Subjects = s.Len()
	return s, p.stats, nil
}

type parser struct {
	idx     *labelindex.Index
	builder *store.Builder
	opts    Options
	limiter *rate.Limiter
	stats   Stats
}

func (p *parser) runSequential(ctx context.Context, scanner *bufio.Scanner) error {
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.stats.Lines++
		p.apply(resolveLine(p.idx, p.stats.Lines, scanner.Text()))
	}
	return nil
}

func (p *parser) runBatched(ctx context.Context, scanner *bufio.Scanner) error {
	lines := make([]string, 0, p.opts.BatchSize)
	results := make([]lineResult, p.opts.BatchSize)

	for {
		lines = lines[:0]
		for len(lines) < p.opts.BatchSize && scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if len(lines) == 0 {
			return nil
		}

		first := p.stats.Lines + 1

		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(p.opts.Parallelism)
		for i, text := range lines {
			g.Go(func() error {
				results[i] = resolveLine(p.idx, first+i, text)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		// Apply strictly in file order so accumulation and warnings are
		// identical to a sequential parse.
		for i := range lines {
			p.stats.Lines++
			p.apply(results[i])
		}
	}
}

func (p *parser) apply(res lineResult) {
	for _, w := range res.warnings {
		p.warn(w)
	}
	if !res.ok {
		return
	}
	p.builder.Append(res.subject, res.neighbors...)
	p.stats.Neighbors += len(res.neighbors)
}

func (p *parser) warn(w Warning) {
	p.stats.Warnings++
	if p.opts.OnWarning != nil {
		p.opts.OnWarning(w)
	}
	if !p.limiter.Allow() {
		p.stats.SuppressedLogs++
		return
	}
	p.opts.Logger.Warn("no object found for label",
		"label", w.Label,
		"line", w.Line,
		"token", w.Token,
	)
}
