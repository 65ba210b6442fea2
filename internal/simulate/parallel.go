package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"runtime"

	"github.com/ppiankov/reformcast/internal/model"
	"github.com/ppiankov/reformcast/internal/worker"
)

// DefaultChunkSize is the number of trials per independently seeded chunk.
const DefaultChunkSize = 1000

// Options configures a chunked, parallel run.
type Options struct {
	Trials    int
	Seed      int64 // 0 picks a time-based seed
	Workers   int   // <= 0 uses runtime.NumCPU
	ChunkSize int   // <= 0 uses DefaultChunkSize
	Verbose   bool

	// Progress, if set, is advanced by the number of trials each chunk completes.
	Progress *worker.Progress
}

// RunResult is the output of Run.
type RunResult struct {
	Seed    int64
	Records []model.SimulationRecord
}

// Run splits the trials into fixed-size chunks, each with its own source
// seeded from a master stream derived from the run seed, and executes them
// on a worker pool. Records are reassembled in chunk order, so the output
// depends on (seed, trials, chunk size) and never on the worker count.
func Run(ctx context.Context, eval Evaluator, marginals model.Marginals, opts Options) (*RunResult, error) {
	if opts.Trials < 0 {
		return nil, fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidTrialCount, opts.Trials)
	}

	seed := ResolveSeed(opts.Seed, opts.Verbose)
	if opts.Trials == 0 {
		return &RunResult{Seed: seed, Records: []model.SimulationRecord{}}, nil
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	chunks := ChunkSeeds(seed, opts.Trials, chunkSize)
	if workers > len(chunks) {
		workers = len(chunks)
	}

	pool := worker.NewPool(ctx, workers)
	pool.Start()
	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "⚙️  %d chunks on %d workers\n", len(chunks), pool.Workers())
	}

	for i, c := range chunks {
		job := &chunkJob{
			seq:       i,
			chunk:     c,
			eval:      eval,
			marginals: marginals,
			progress:  opts.Progress,
		}
		if !pool.Submit(job) {
			pool.Shutdown()
			return nil, fmt.Errorf("simulation cancelled: %w", ctx.Err())
		}
	}

	results := pool.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("simulation cancelled: %w", err)
	}
	if len(results) != len(chunks) {
		return nil, fmt.Errorf("simulation incomplete: %d of %d chunks finished", len(results), len(chunks))
	}

	records := make([]model.SimulationRecord, 0, opts.Trials)
	for _, r := range results {
		if err := r.GetError(); err != nil {
			return nil, fmt.Errorf("chunk %d: %w", r.Seq(), err)
		}
		records = append(records, r.(*chunkResult).records...)
	}

	return &RunResult{Seed: seed, Records: records}, nil
}

// Chunk is a contiguous block of trials with its own seed.
type Chunk struct {
	Trials int
	Seed   int64
}

// ChunkSeeds splits trials into chunks of at most chunkSize and draws one
// seed per chunk from a master source seeded with seed.
func ChunkSeeds(seed int64, trials, chunkSize int) []Chunk {
	if trials <= 0 || chunkSize <= 0 {
		return nil
	}

	master := rand.New(rand.NewSource(seed))
	chunks := make([]Chunk, 0, (trials+chunkSize-1)/chunkSize)
	for remaining := trials; remaining > 0; remaining -= chunkSize {
		n := chunkSize
		if remaining < n {
			n = remaining
		}
		chunks = append(chunks, Chunk{Trials: n, Seed: master.Int63()})
	}
	return chunks
}

type chunkJob struct {
	seq       int
	chunk     Chunk
	eval      Evaluator
	marginals model.Marginals
	progress  *worker.Progress
}

func (j *chunkJob) Seq() int { return j.seq }

func (j *chunkJob) Execute(ctx context.Context) worker.Result {
	if err := ctx.Err(); err != nil {
		return &chunkResult{seq: j.seq, err: err}
	}

	engine := NewSeededEngine(j.eval, j.marginals, j.chunk.Seed)
	records, err := engine.Simulate(j.chunk.Trials)
	j.progress.Add(len(records))

	return &chunkResult{seq: j.seq, records: records, err: err}
}

type chunkResult struct {
	seq     int
	records []model.SimulationRecord
	err     error
}

func (r *chunkResult) Seq() int        { return r.seq }
func (r *chunkResult) GetError() error { return r.err }
