// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/report-engine/internal/report"
)

var batchCmd = &cobra.Command{
	Use:   "batch JOBFILE",
	Short: "Generate and save one report per job in a YAML job file",
	Long: `Batch reads a job file of the form

  jobs:
    - name: cve-review
      question: ...
      dimensions: [...]
      fragments: [chunks/, extra.yaml]

and runs the jobs in parallel, each as an independent generate --save. Fragment
paths are relative to the job file. A failing job does not stop the others.
A YAML manifest of the results is written at the end.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	jf, err := report.LoadJobFile(args[0])
	if err != nil {
		return err
	}

	cfg := reportConfig()
	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("save-dir") {
		cfg.Output.Dir, _ = cmd.Flags().GetString("save-dir")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	gen, closeModel, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeModel()

	saver, err := report.NewSaver(cfg.Output)
	if err != nil {
		return err
	}

	logger.Info("starting batch", zap.Int("jobs", len(jf.Jobs)), zap.Int("workers", cfg.Workers))
	manifest, err := report.RunBatch(ctx, jf.Jobs, report.BatchOptions{
		Generator: gen,
		Saver:     saver,
		Workers:   cfg.Workers,
		Logger:    logger,
		Progress:  os.Stdout,
	})

	manifestPath, _ := cmd.Flags().GetString("manifest")
	if manifestPath == "" {
		manifestPath = filepath.Join(cfg.Output.Dir,
			manifest.StartedAt.Local().Format("20060102_150405")+"_manifest.yaml")
	}
	if werr := report.WriteManifest(manifestPath, manifest); werr != nil {
		return werr
	}
	fmt.Fprintf(os.Stdout, "\n%d jobs, %d failed, manifest %s (%s)\n",
		len(manifest.Jobs), manifest.Failed(), manifestPath,
		time.Since(manifest.StartedAt).Round(time.Second))

	if err != nil {
		return err
	}
	if n := manifest.Failed(); n > 0 {
		return fmt.Errorf("%d job(s) failed", n)
	}
	return nil
}

func init() {
	batchCmd.Flags().Int("workers", 0, "jobs run in parallel (default from config, 4)")
	batchCmd.Flags().String("save-dir", "", "directory for saved reports (default \"report\")")
	batchCmd.Flags().String("manifest", "", "path of the YAML results manifest (default <save-dir>/<timestamp>_manifest.yaml)")

	rootCmd.AddCommand(batchCmd)
}
