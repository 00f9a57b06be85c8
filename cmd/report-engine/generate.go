// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/report-engine/internal/llm"
	"github.com/pdiddy/report-engine/internal/report"
	"github.com/pdiddy/report-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one technical report for a question",
	Long: `Generate asks the model for an outline of the question, then refines the
report once per fragment, in order. A fragment whose refinement fails is logged
and skipped. Without fragments the model fills the outline from its own
knowledge. The finished report goes through one citation pass.

Fragments come from --fragments paths: .txt or .md files, directories of them
(sorted by name), or YAML files with a "fragments:" list.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	question, _ := cmd.Flags().GetString("question")
	if question == "" {
		return fmt.Errorf("--question is required")
	}
	dimensions, _ := cmd.Flags().GetStringArray("dimension")
	paths, _ := cmd.Flags().GetStringArray("fragments")
	save, _ := cmd.Flags().GetBool("save")

	fragments, err := report.LoadFragments(paths)
	if err != nil {
		return err
	}

	cfg := reportConfig()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	gen, closeModel, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeModel()

	runID := uuid.NewString()
	log := logger.With(zap.String("run_id", runID))
	log.Info("generating report",
		zap.String("question", question),
		zap.Int("fragments", len(fragments)),
	)

	res, err := gen.Generate(report.WithRun(ctx, "", runID), question, dimensions, fragments)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "refined %d/%d fragments, %d citations\n",
		len(fragments)-res.Skipped(), len(fragments), res.Citations.Markers)

	if !save {
		fmt.Println(res.Report)
		return nil
	}

	saver, err := report.NewSaver(cfg.Output)
	if err != nil {
		return err
	}
	path, err := saver.Save(res.Report)
	if err != nil {
		return err
	}
	log.Info("report saved", zap.String("path", path))
	fmt.Println(path)
	return nil
}

// newGenerator builds the model stack and a Generator on top of it.
func newGenerator(ctx context.Context, cfg types.ReportConfig) (*report.Generator, func() error, error) {
	model, closeModel, err := llm.New(ctx, cfg.AI, llm.Options{
		Logger:   logger,
		Recorder: recorder,
	})
	if err != nil {
		return nil, nil, err
	}
	return report.NewGenerator(model, cfg.Reference, logger, recorder), closeModel, nil
}

func init() {
	generateCmd.Flags().String("question", "", "question the report answers")
	generateCmd.Flags().StringArray("dimension", nil, "topical angle for the outline (repeatable)")
	generateCmd.Flags().StringArray("fragments", nil, "fragment file, directory, or YAML list (repeatable)")
	generateCmd.Flags().Bool("save", false, "save the report to a timestamped file instead of printing it")
	generateCmd.Flags().String("save-dir", "", "directory for saved reports (default \"report\")")
	generateCmd.Flags().String("provider", "", "model provider: claude, openai, gemini, or container")
	generateCmd.Flags().String("model", "", "model identifier")

	viper.BindPFlag(keyOutputDir, generateCmd.Flags().Lookup("save-dir"))
	viper.BindPFlag(keyProvider, generateCmd.Flags().Lookup("provider"))
	viper.BindPFlag(keyModel, generateCmd.Flags().Lookup("model"))

	rootCmd.AddCommand(generateCmd)
}
