// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/report-engine/pkg/types"
)

// DefaultWorkers is the batch parallelism when none is configured.
const DefaultWorkers = 4

// JobResult records the outcome of one batch job.
type JobResult struct {
	Name      string        `yaml:"name"`
	RunID     string        `yaml:"run_id"`
	Path      string        `yaml:"path,omitempty"`
	State     State         `yaml:"state"`
	Fragments int           `yaml:"fragments"`
	Skipped   int           `yaml:"skipped"`
	Citations int           `yaml:"citations"`
	Duration  time.Duration `yaml:"duration"`
	Error     string        `yaml:"error,omitempty"`
}

// Manifest summarizes a batch run.
type Manifest struct {
	StartedAt time.Time   `yaml:"started_at"`
	Workers   int         `yaml:"workers"`
	Jobs      []JobResult `yaml:"jobs"`
}

// Failed counts jobs that ended with an error.
func (m Manifest) Failed() int {
	n := 0
	for _, j := range m.Jobs {
		if j.Error != "" {
			n++
		}
	}
	return n
}

// BatchOptions configures RunBatch.
type BatchOptions struct {
	Generator *Generator
	Saver     *Saver

	// Workers bounds the number of jobs running at once (default 4).
	Workers int

	Logger *zap.Logger

	// Progress receives one human-readable line per finished job. May be nil.
	Progress io.Writer
}

// RunBatch generates and saves one report per job, running up to
// opts.Workers jobs at once. Jobs are independent: a failing job is recorded
// in the manifest and does not stop the others. Manifest entries follow
// job order. The returned error is non-nil only when ctx was cancelled.
func RunBatch(ctx context.Context, jobs []types.Job, opts BatchOptions) (Manifest, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}

	manifest := Manifest{
		StartedAt: time.Now().UTC(),
		Workers:   workers,
		Jobs:      make([]JobResult, len(jobs)),
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(workers)

	for i, job := range jobs {
		g.Go(func() error {
			jr := runJob(ctx, job, opts.Generator, opts.Saver, logger)
			manifest.Jobs[i] = jr

			mu.Lock()
			defer mu.Unlock()
			if jr.Error != "" {
				fmt.Fprintf(progress, "failed  %s: %s\n", jr.Name, jr.Error)
			} else {
				fmt.Fprintf(progress, "saved   %s -> %s (%d/%d fragments applied)\n",
					jr.Name, jr.Path, jr.Fragments-jr.Skipped, jr.Fragments)
			}
			return nil
		})
	}
	g.Wait()

	return manifest, ctx.Err()
}

func runJob(ctx context.Context, job types.Job, gen *Generator, saver *Saver, logger *zap.Logger) JobResult {
	start := time.Now()
	jr := JobResult{Name: job.Name, RunID: uuid.NewString()}
	if jr.Name == "" {
		jr.Name = jr.RunID
	}
	log := logger.With(zap.String("job", jr.Name), zap.String("run_id", jr.RunID))

	fail := func(err error) JobResult {
		jr.Error = err.Error()
		jr.Duration = time.Since(start)
		log.Error("job failed", zap.Error(err))
		return jr
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	fragments, err := LoadFragments(job.Fragments)
	if err != nil {
		return fail(err)
	}
	fragments = append(fragments, job.Texts...)
	jr.Fragments = len(fragments)

	res, err := gen.Generate(WithRun(ctx, jr.Name, jr.RunID), job.Question, job.Dimensions, fragments)
	jr.State = res.State
	if err != nil {
		return fail(err)
	}
	jr.Skipped = res.Skipped()
	jr.Citations = res.Citations.Markers

	path, err := saver.Save(res.Report)
	if err != nil {
		return fail(err)
	}
	jr.Path = path
	jr.Duration = time.Since(start)
	log.Info("job finished", zap.String("path", path), zap.Duration("duration", jr.Duration))
	return jr
}

// LoadJobFile reads a YAML job file. Relative fragment paths are resolved
// against the job file's directory.
func LoadJobFile(path string) (types.JobFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.JobFile{}, fmt.Errorf("reading job file %s: %w", path, err)
	}

	var jf types.JobFile
	if err := yaml.Unmarshal(data, &jf); err != nil {
		return types.JobFile{}, fmt.Errorf("parsing job file %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i := range jf.Jobs {
		if jf.Jobs[i].Question == "" {
			return types.JobFile{}, fmt.Errorf("job %d (%s) in %s has no question", i+1, jf.Jobs[i].Name, path)
		}
		for j, p := range jf.Jobs[i].Fragments {
			if !filepath.IsAbs(p) {
				jf.Jobs[i].Fragments[j] = filepath.Join(base, p)
			}
		}
	}
	return jf, nil
}

// WriteManifest writes m to path as YAML, creating parent directories.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}
