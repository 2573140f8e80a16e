package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nooga/x666/pkg/errors"
	"github.com/nooga/x666/pkg/lexer"
	"github.com/nooga/x666/pkg/parser"
	"github.com/nooga/x666/pkg/source"
)

// ParseJob is one source queued for parsing.
type ParseJob struct {
	Index  int // position in the caller's list
	Source *source.SourceFile
}

// ParseResult is the outcome of a ParseJob. Each result owns its own arena,
// so statements stay valid after the pool shuts down.
type ParseResult struct {
	Index         int
	Source        *source.SourceFile
	Statements    []parser.Statement
	Errors        []*errors.SyntaxError
	WorkerID      int
	ParseDuration time.Duration
}

// Failed reports whether the source produced any diagnostics.
func (r *ParseResult) Failed() bool {
	return len(r.Errors) > 0
}

// PoolStats tracks worker pool performance.
type PoolStats struct {
	WorkerCount   int
	TotalJobs     int
	CompletedJobs int
	FailedJobs    int
	TotalTime     time.Duration
	AverageTime   time.Duration
}

// WorkerPool parses independent sources in parallel. A single source is
// always parsed by one goroutine from start to end.
type WorkerPool struct {
	numWorkers int
	jobBuffer  int

	jobQueue   chan *ParseJob
	resultChan chan *ParseResult

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started    int32 // atomic
	stopped    int32 // atomic
	activeJobs int32 // atomic

	stats      PoolStats
	statsMutex sync.RWMutex
}

// NewWorkerPool creates a pool of numWorkers goroutines, one per CPU if
// numWorkers is not positive.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers, jobBuffer: numWorkers * 2}
}

// Start launches the workers.
func (wp *WorkerPool) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&wp.started, 0, 1) {
		return fmt.Errorf("worker pool already started")
	}

	wp.ctx, wp.cancel = context.WithCancel(ctx)
	wp.jobQueue = make(chan *ParseJob, wp.jobBuffer)
	wp.resultChan = make(chan *ParseResult, wp.jobBuffer)
	wp.stats = PoolStats{WorkerCount: wp.numWorkers}

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run(i)
	}
	return nil
}

// Submit queues a job, blocking while the queue is full.
func (wp *WorkerPool) Submit(job *ParseJob) error {
	if atomic.LoadInt32(&wp.started) == 0 {
		return fmt.Errorf("worker pool not started")
	}
	if atomic.LoadInt32(&wp.stopped) == 1 {
		return fmt.Errorf("worker pool stopped")
	}

	select {
	case wp.jobQueue <- job:
		atomic.AddInt32(&wp.activeJobs, 1)
		wp.statsMutex.Lock()
		wp.stats.TotalJobs++
		wp.statsMutex.Unlock()
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Results returns the channel results are delivered on. It is closed by
// Shutdown once every worker has exited.
func (wp *WorkerPool) Results() <-chan *ParseResult {
	return wp.resultChan
}

// Shutdown stops accepting jobs and waits for queued ones to finish, or for
// ctx to expire.
func (wp *WorkerPool) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&wp.stopped, 0, 1) {
		return fmt.Errorf("worker pool already stopped")
	}
	close(wp.jobQueue)

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.cancel()
		close(wp.resultChan)
		return nil
	case <-ctx.Done():
		wp.cancel()
		return ctx.Err()
	}
}

// HasActiveJobs reports whether jobs are queued or in progress.
func (wp *WorkerPool) HasActiveJobs() bool {
	return atomic.LoadInt32(&wp.activeJobs) > 0
}

// Stats returns a snapshot of the pool statistics.
func (wp *WorkerPool) Stats() PoolStats {
	wp.statsMutex.RLock()
	defer wp.statsMutex.RUnlock()
	return wp.stats
}

func (wp *WorkerPool) run(id int) {
	defer wp.wg.Done()
	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}
			result := process(id, job)

			wp.statsMutex.Lock()
			if result.Failed() {
				wp.stats.FailedJobs++
			} else {
				wp.stats.CompletedJobs++
			}
			wp.stats.TotalTime += result.ParseDuration
			wp.stats.AverageTime = wp.stats.TotalTime / time.Duration(wp.stats.CompletedJobs+wp.stats.FailedJobs)
			wp.statsMutex.Unlock()
			atomic.AddInt32(&wp.activeJobs, -1)

			select {
			case wp.resultChan <- result:
			case <-wp.ctx.Done():
				return
			}
		case <-wp.ctx.Done():
			return
		}
	}
}

func process(workerID int, job *ParseJob) *ParseResult {
	start := time.Now()
	p := parser.NewParser(lexer.NewLexer(job.Source.Reader()))
	stmts, errs := p.ParseProgram()
	debugPrintf("[Pool] worker %d parsed %s: %d statements, %d errors\n", workerID, job.Source.DisplayPath(), len(stmts), len(errs))
	return &ParseResult{
		Index:         job.Index,
		Source:        job.Source,
		Statements:    stmts,
		Errors:        errs,
		WorkerID:      workerID,
		ParseDuration: time.Since(start),
	}
}

// ParseSources parses every source on a pool of numWorkers goroutines and
// returns the results in input order.
func ParseSources(ctx context.Context, sources []*source.SourceFile, numWorkers int) ([]*ParseResult, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	wp := NewWorkerPool(min(numWorkers, len(sources)))
	if err := wp.Start(ctx); err != nil {
		return nil, err
	}

	go func() {
		for i, sf := range sources {
			if err := wp.Submit(&ParseJob{Index: i, Source: sf}); err != nil {
				break
			}
		}
		_ = wp.Shutdown(context.Background())
	}()

	results := make([]*ParseResult, len(sources))
	for r := range wp.Results() {
		results[r.Index] = r
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// RunFiles loads and parses several files in parallel, then prints each
// outcome in argument order. Returns true only if every file parsed.
func RunFiles(ctx context.Context, w io.Writer, filenames []string, options Options) bool {
	ok := true
	var sources []*source.SourceFile
	for _, name := range filenames {
		sf, err := source.Load(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read file '%s': %s\n", name, err.Error())
			ok = false
			continue
		}
		sources = append(sources, sf)
	}
	if len(sources) == 0 {
		return false
	}

	results, err := ParseSources(ctx, sources, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parsing interrupted: %s\n", err.Error())
		return false
	}
	for _, r := range results {
		fmt.Fprintf(w, "== %s ==\n", r.Source.DisplayPath())
		if options.DumpTokens {
			DumpTokens(w, r.Source.Reader())
		}
		parser.DumpAST(w, r.Statements, r.Source.DisplayPath())
		if !DisplayResult(w, r.Source.Reader(), r.Statements, r.Errors) {
			ok = false
		}
	}
	return ok
}
