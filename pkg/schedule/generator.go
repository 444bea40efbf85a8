package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/LumeraProtocol/codegen/pkg/codeblock"
	"github.com/LumeraProtocol/codegen/pkg/logtrace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultBatchSize is the number of consecutive indices one worker
	// derives before yielding to the next batch.
	DefaultBatchSize = 256
	// cancelCheckInterval bounds how many blocks a worker derives between
	// context checks.
	cancelCheckInterval = 64
)

// Generator derives every block of an epoch using a bounded worker pool.
type Generator struct {
	deriver   codeblock.Deriver
	workers   int
	batchSize int
	maxBlocks uint64
}

// Option configures a Generator.
type Option func(*Generator)

// WithWorkers caps the number of batches derived concurrently.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithBatchSize sets how many indices each worker handles per batch.
func WithBatchSize(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.batchSize = n
		}
	}
}

// WithMaxBlocks rejects schedules with more than n blocks. Zero disables the
// limit.
func WithMaxBlocks(n uint64) Option {
	return func(g *Generator) { g.maxBlocks = n }
}

// NewGenerator returns a generator deriving blocks from d. Without options it
// runs a single worker.
func NewGenerator(d codeblock.Deriver, opts ...Option) *Generator {
	g := &Generator{deriver: d, workers: 1, batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate derives blocks 0..N-1 for p. Blocks are returned in index order
// regardless of which worker produced them.
func (g *Generator) Generate(ctx context.Context, p Params) (*Schedule, error) {
	n, err := p.Count()
	if err != nil {
		return nil, err
	}
	if g.maxBlocks > 0 && n > g.maxBlocks {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyBlocks, n, g.maxBlocks)
	}

	s := &Schedule{Params: p, Blocks: make([][]byte, n)}
	if n == 0 {
		return s, nil
	}

	batch := uint64(g.batchSize)
	totalBatches := (n + batch - 1) / batch
	parallel := min(totalBatches, uint64(g.workers))

	start := time.Now()
	logtrace.Debug(ctx, "Generating code blocks", logtrace.Fields{
		logtrace.FieldBlockCount: n,
		logtrace.FieldBitLength:  p.BitLength,
		logtrace.FieldWorkers:    parallel,
		logtrace.FieldBatchSize:  batch,
	})

	sem := semaphore.NewWeighted(int64(parallel))
	group, gctx := errgroup.WithContext(ctx)

	for lo := uint64(0); lo < n; lo += batch {
		lo := lo
		hi := min(lo+batch, n)

		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		group.Go(func() error {
			defer sem.Release(1)
			return g.deriveRange(gctx, s.Blocks, lo, hi, p.BitLength)
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logtrace.Debug(ctx, "Generated code blocks", logtrace.Fields{
		logtrace.FieldBlockCount: n,
		logtrace.FieldDurationMS: time.Since(start).Milliseconds(),
	})
	return s, nil
}

// deriveRange fills blocks[lo:hi]. Each index is written by exactly one
// worker, so no locking is needed.
func (g *Generator) deriveRange(ctx context.Context, blocks [][]byte, lo, hi uint64, bitLength uint32) error {
	for i := lo; i < hi; i++ {
		if (i-lo)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		blocks[i] = g.deriver.Block(uint32(i), bitLength)
	}
	return nil
}

// BlockAt derives only the block live offset seconds into the epoch.
func BlockAt(d codeblock.Deriver, p Params, offset uint64) (uint32, []byte, error) {
	idx, err := p.IndexAt(offset)
	if err != nil {
		return 0, nil, err
	}
	return idx, d.Block(idx, p.BitLength), nil
}
