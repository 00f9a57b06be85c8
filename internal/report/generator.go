// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report assembles technical reports with a model collaborator.
// A run asks for an outline, folds each source fragment into the evolving
// report (or fills the outline from the model's own knowledge when there are
// no fragments), and finishes with one citation reconciliation pass.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/report-engine/internal/citation"
	"github.com/pdiddy/report-engine/internal/llm"
	"github.com/pdiddy/report-engine/internal/metrics"
	"github.com/pdiddy/report-engine/pkg/types"
)

// Run-level failures. Both abort the run; match with errors.Is.
var (
	ErrOutline   = errors.New("generating outline")
	ErrKnowledge = errors.New("filling report from knowledge")
)

// State is the pipeline stage a run reached.
type State string

const (
	StateOutline         State = "outline"
	StateRefining        State = "refining"
	StateKnowledgeFilled State = "knowledge_filled"
	StateReconciled      State = "reconciled"
)

// FragmentStatus is the fold decision for one fragment.
type FragmentStatus string

const (
	FragmentApplied FragmentStatus = "applied"
	FragmentFailed  FragmentStatus = "failed"
	FragmentEmpty   FragmentStatus = "empty"
)

// FragmentOutcome records what the fold did with one fragment.
type FragmentOutcome struct {
	Index  int
	Status FragmentStatus
	Err    error
}

// Result is a finished run.
type Result struct {
	// Report is the reconciled report text.
	Report string

	// Outline is the outline the run started from.
	Outline string

	// State is the last stage reached.
	State State

	// Fragments holds one outcome per input fragment, in input order.
	Fragments []FragmentOutcome

	// Citations carries the reconciliation statistics.
	Citations citation.Result
}

// Skipped counts fragments whose refinement failed.
func (r Result) Skipped() int {
	n := 0
	for _, f := range r.Fragments {
		if f.Status == FragmentFailed {
			n++
		}
	}
	return n
}

// Generator runs the report pipeline against one model.
type Generator struct {
	model      llm.Model
	reconciler *citation.Reconciler
	heading    string
	logger     *zap.Logger
	recorder   *metrics.Recorder
}

// NewGenerator returns a Generator. logger and recorder may be nil.
func NewGenerator(model llm.Model, refs types.ReferenceConfig, logger *zap.Logger, recorder *metrics.Recorder) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	heading := citation.DefaultHeading
	if len(refs.Headings) > 0 {
		heading = refs.Headings[0]
	}
	return &Generator{
		model: model,
		reconciler: citation.NewReconciler(citation.Options{
			Headings: refs.Headings,
			MaxChars: refs.MaxChars,
			Ellipsis: refs.Ellipsis,
		}),
		heading:  heading,
		logger:   logger,
		recorder: recorder,
	}
}

// Generate produces a report answering question. Outline and knowledge-fill
// failures abort the run; a failed fragment refinement is logged and the
// report carries over unchanged. Cancelling ctx stops the fold between
// fragments. Log entries carry the run tagged on ctx by WithRun.
func (g *Generator) Generate(ctx context.Context, question string, dimensions, fragments []string) (res Result, err error) {
	defer func() { g.recorder.ReportFinished(err) }()

	log := g.logger.With(append(runFields(ctx), zap.String("question", question))...)
	data := promptData{Heading: g.heading, Question: question, Dimensions: dimensions}

	res.State = StateOutline
	outline, err := g.roundTrip(ctx, metrics.StageOutline, outlinePromptTmpl, data)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrOutline, err)
	}
	res.Outline = strings.TrimSpace(outline)
	log.Debug("outline ready", zap.Int("chars", len(res.Outline)))

	doc := res.Outline
	if len(fragments) == 0 {
		data.Report = doc
		doc, err = g.roundTrip(ctx, metrics.StageKnowledge, knowledgePromptTmpl, data)
		if err != nil {
			return res, fmt.Errorf("%w: %w", ErrKnowledge, err)
		}
		res.State = StateKnowledgeFilled
	} else {
		res.State = StateRefining
		doc, res.Fragments, err = g.fold(ctx, log, doc, data, fragments)
		if err != nil {
			return res, err
		}
	}

	res.Citations = g.reconciler.Reconcile(doc)
	res.Report = res.Citations.Text
	res.State = StateReconciled

	log.Info("report generated",
		zap.Int("fragments", len(fragments)),
		zap.Int("skipped", res.Skipped()),
		zap.Int("citations", res.Citations.Markers),
		zap.Bool("reference_section", res.Citations.BlockFound),
	)
	return res, nil
}

// fold refines doc with each fragment in order. Each step sees the output of
// the last successful step.
func (g *Generator) fold(ctx context.Context, log *zap.Logger, doc string, data promptData, fragments []string) (string, []FragmentOutcome, error) {
	outcomes := make([]FragmentOutcome, 0, len(fragments))
	for i, fragment := range fragments {
		if err := ctx.Err(); err != nil {
			return doc, outcomes, err
		}

		if strings.TrimSpace(fragment) == "" {
			outcomes = append(outcomes, FragmentOutcome{Index: i, Status: FragmentEmpty})
			continue
		}

		data.Report = doc
		data.Fragment = fragment
		refined, err := g.roundTrip(ctx, metrics.StageRefine, refinePromptTmpl, data)
		if err != nil {
			log.Warn("fragment refinement failed, skipping",
				zap.Int("fragment", i),
				zap.Error(err),
			)
			g.recorder.FragmentSkipped()
			outcomes = append(outcomes, FragmentOutcome{Index: i, Status: FragmentFailed, Err: err})
			continue
		}

		doc = refined
		outcomes = append(outcomes, FragmentOutcome{Index: i, Status: FragmentApplied})
	}
	return doc, outcomes, nil
}

// roundTrip renders tmpl and sends it to the model, timing the call.
func (g *Generator) roundTrip(ctx context.Context, stage string, tmpl *template.Template, data promptData) (string, error) {
	prompt, err := render(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", stage, err)
	}

	start := time.Now()
	out, err := g.model.Invoke(ctx, prompt)
	g.recorder.ObserveRoundTrip(stage, time.Since(start), err)
	return out, err
}

// Reconcile runs only the reconciliation pass over doc.
func (g *Generator) Reconcile(doc string) citation.Result {
	return g.reconciler.Reconcile(doc)
}
