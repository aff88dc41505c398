package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"typeforge/internal/catalog"
	"typeforge/internal/decl"
)

// Request configures one pipeline run.
type Request struct {
	// Paths lists the declaration files to commit.
	Paths []string
	// Jobs bounds parse parallelism; <=0 means GOMAXPROCS.
	Jobs int
	// SnapshotPath, when non-empty, persists the catalog after committing.
	SnapshotPath string
	// Progress receives stage events; nil disables reporting.
	Progress ProgressSink
}

// FileResult captures the outcome for one declaration file.
type FileResult struct {
	Path      string
	File      *decl.File
	Committed *decl.Result
	Err       error
}

// Result captures the outcome of a pipeline run.
type Result struct {
	Files   []FileResult
	Types   int
	Timings Timings
}

// Run parses every declaration file concurrently, then commits them to the
// catalog one at a time in path order. Parsing failures do not stop other
// files from committing; the first commit failure does, because a failed
// submission leaves the catalog without rollback. Already-committed types
// stay either way.
func Run(ctx context.Context, cat *catalog.Memory, req *Request) (Result, error) {
	var result Result
	if req == nil {
		return result, fmt.Errorf("missing pipeline request")
	}
	if cat == nil {
		return result, fmt.Errorf("missing catalog")
	}

	paths := append([]string(nil), req.Paths...)
	sort.Strings(paths)
	result.Files = make([]FileResult, len(paths))
	emitQueued(req.Progress, paths)

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	parseStart := time.Now()
	emitOverall(req.Progress, StageParse, StatusWorking, nil, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(paths), 1)))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			start := time.Now()
			emitFile(req.Progress, path, StageParse, StatusWorking, nil, 0)
			f, err := decl.Load(path)
			// Indexes are unique per goroutine, no mutex needed.
			result.Files[i] = FileResult{Path: path, File: f, Err: err}
			if err != nil {
				emitFile(req.Progress, path, StageParse, StatusError, err, time.Since(start))
				return nil
			}
			emitFile(req.Progress, path, StageParse, StatusDone, nil, time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		result.Timings.Set(StageParse, time.Since(parseStart))
		emitOverall(req.Progress, StageParse, StatusError, err, time.Since(parseStart))
		return result, err
	}
	result.Timings.Set(StageParse, time.Since(parseStart))
	emitOverall(req.Progress, StageParse, StatusDone, nil, result.Timings.Duration(StageParse))

	commitStart := time.Now()
	emitOverall(req.Progress, StageCommit, StatusWorking, nil, 0)
	var firstErr error
	for i := range result.Files {
		fr := &result.Files[i]
		if fr.Err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", fr.Path, fr.Err)
			}
			continue
		}
		start := time.Now()
		emitFile(req.Progress, fr.Path, StageCommit, StatusWorking, nil, 0)
		res, err := decl.Commit(cat, fr.File)
		fr.Committed = res
		if res != nil {
			result.Types += len(res.Types)
		}
		if err != nil {
			fr.Err = err
			emitFile(req.Progress, fr.Path, StageCommit, StatusError, err, time.Since(start))
			firstErr = fmt.Errorf("%s: %w", fr.Path, err)
			break
		}
		emitFile(req.Progress, fr.Path, StageCommit, StatusDone, nil, time.Since(start))
	}
	result.Timings.Set(StageCommit, time.Since(commitStart))
	if firstErr != nil {
		emitOverall(req.Progress, StageCommit, StatusError, firstErr, result.Timings.Duration(StageCommit))
		return result, firstErr
	}
	emitOverall(req.Progress, StageCommit, StatusDone, nil, result.Timings.Duration(StageCommit))

	if req.SnapshotPath != "" {
		snapStart := time.Now()
		emitOverall(req.Progress, StageSnapshot, StatusWorking, nil, 0)
		if err := cat.SaveSnapshot(req.SnapshotPath); err != nil {
			result.Timings.Set(StageSnapshot, time.Since(snapStart))
			emitOverall(req.Progress, StageSnapshot, StatusError, err, result.Timings.Duration(StageSnapshot))
			return result, err
		}
		result.Timings.Set(StageSnapshot, time.Since(snapStart))
		emitOverall(req.Progress, StageSnapshot, StatusDone, nil, result.Timings.Duration(StageSnapshot))
	}
	return result, nil
}
