package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/cjsongen/internal/cgen"
	"github.com/roach88/cjsongen/internal/ir"
	"github.com/roach88/cjsongen/internal/node"
	"github.com/roach88/cjsongen/internal/schema"
	"github.com/roach88/cjsongen/internal/store"
)

// DefaultMemoSize bounds the number of memoised units.
const DefaultMemoSize = 1024

// Result is the compiled form of one top-level struct.
type Result struct {
	Name        string
	Fingerprint string
	Key         string // ir.ArtifactKey of Fingerprint and settings
	Index       *node.Index
	Unit        cgen.Unit
	Cached      bool // Unit came from the memo or the store
}

// Pipeline compiles structs with fixed generator options.
//
// Thread-safety: CompileStruct and CompileAll are safe for concurrent use.
type Pipeline struct {
	opts    cgen.Options
	logger  *slog.Logger
	store   *store.Store
	workers int
	memo    *lru.Cache[string, cgen.Unit]
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(p *Pipeline) { p.logger = l } }

// WithStore attaches an artifact cache.
func WithStore(s *store.Store) Option { return func(p *Pipeline) { p.store = s } }

// WithWorkers bounds CompileAll parallelism. Defaults to GOMAXPROCS.
func WithWorkers(n int) Option { return func(p *Pipeline) { p.workers = n } }

// New creates a pipeline generating with opts.
func New(opts cgen.Options, options ...Option) (*Pipeline, error) {
	memo, err := lru.New[string, cgen.Unit](DefaultMemoSize)
	if err != nil {
		return nil, fmt.Errorf("create memo: %w", err)
	}
	p := &Pipeline{
		opts:    opts,
		logger:  slog.Default(),
		workers: runtime.GOMAXPROCS(0),
		memo:    memo,
	}
	for _, o := range options {
		o(p)
	}
	if p.workers < 1 {
		p.workers = 1
	}
	return p, nil
}

// Options returns the generator options.
func (p *Pipeline) Options() cgen.Options { return p.opts }

// Index validates, normalizes, flattens and indexes s without generating
// code. Invalid names are reported as *schema.ValidationError.
func Index(s schema.Struct) (idx *node.Index, m ir.Struct, err error) {
	if err := s.Validate(); err != nil {
		return nil, ir.Struct{}, err
	}
	defer func() {
		if err != nil {
			idx, err = nil, internal(s.Name, err)
		}
	}()
	defer node.Recover(&err)

	m, err = ir.Normalize(s)
	if err != nil {
		return nil, ir.Struct{}, err
	}
	idx, err = node.FromStruct(m)
	if err != nil {
		return nil, ir.Struct{}, err
	}
	return idx, m, nil
}

// CompileStruct compiles one struct. When a store is attached, a cache
// miss is written to the store under build.
func (p *Pipeline) CompileStruct(ctx context.Context, s schema.Struct, build string) (Result, error) {
	idx, m, err := Index(s)
	if err != nil {
		return Result{}, err
	}
	fp, err := ir.Fingerprint(m)
	if err != nil {
		return Result{}, err
	}
	settings := p.opts.Settings()
	key, err := ir.ArtifactKey(fp, settings)
	if err != nil {
		return Result{}, err
	}
	res := Result{Name: s.Name, Fingerprint: fp, Key: key, Index: idx}

	if u, ok := p.memo.Get(key); ok {
		p.logger.Debug("struct compiled", "struct", s.Name, "fingerprint", fp, "source", "memo")
		res.Unit, res.Cached = u, true
		return res, nil
	}

	if p.store != nil {
		a, err := p.store.GetArtifact(ctx, key)
		switch {
		case err == nil:
			res.Unit, res.Cached = unitFromArtifact(a, idx), true
			p.memo.Add(key, res.Unit)
			p.logger.Debug("struct compiled", "struct", s.Name, "fingerprint", fp, "source", "store")
			return res, nil
		case !errors.Is(err, sql.ErrNoRows):
			return Result{}, fmt.Errorf("read cache for %q: %w", s.Name, err)
		}
	}

	res.Unit, err = generate(s.Name, idx, p.opts)
	if err != nil {
		return Result{}, err
	}
	p.memo.Add(key, res.Unit)
	p.logger.Debug("struct compiled", "struct", s.Name, "fingerprint", fp, "nodes", len(idx.Nodes()))

	if p.store != nil && build != "" {
		a, err := artifactFromResult(res, build, settings)
		if err != nil {
			return Result{}, err
		}
		if err := p.store.PutArtifact(ctx, a); err != nil {
			return Result{}, fmt.Errorf("write cache for %q: %w", s.Name, err)
		}
	}
	return res, nil
}

// CompileAll compiles defs in parallel and returns results in input
// order. source names the schema for the build record when a store is
// attached.
func (p *Pipeline) CompileAll(ctx context.Context, source string, defs []schema.Struct) ([]Result, error) {
	var build string
	if p.store != nil {
		b, err := p.store.BeginBuild(ctx, source)
		if err != nil {
			return nil, err
		}
		build = b.ID
	}

	results := make([]Result, len(defs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, s := range defs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := p.CompileStruct(gctx, s, build)
			if err != nil {
				return fmt.Errorf("struct %q: %w", s.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := checkCollisions(results); err != nil {
		return nil, err
	}

	cached := 0
	for _, r := range results {
		if r.Cached {
			cached++
		}
	}
	p.logger.Info("schema compiled", "source", source, "structs", len(results), "cached", cached)
	return results, nil
}

// generate runs the C generators, recovering internal faults.
func generate(name string, idx *node.Index, opts cgen.Options) (u cgen.Unit, err error) {
	defer func() {
		if err != nil {
			err = internal(name, err)
		}
	}()
	defer node.Recover(&err)
	return cgen.Generate(idx, opts), nil
}
