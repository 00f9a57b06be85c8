// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"

	"go.uber.org/zap"
)

type runKey struct{}

type runInfo struct {
	job string
	id  string
}

// WithRun tags ctx with a job name and run ID. Generate attaches both to
// every log entry of the run. job may be empty.
func WithRun(ctx context.Context, job, runID string) context.Context {
	return context.WithValue(ctx, runKey{}, runInfo{job: job, id: runID})
}

// runFields returns the log fields for the run tagged on ctx, if any.
func runFields(ctx context.Context) []zap.Field {
	info, ok := ctx.Value(runKey{}).(runInfo)
	if !ok {
		return nil
	}
	var fields []zap.Field
	if info.job != "" {
		fields = append(fields, zap.String("job", info.job))
	}
	if info.id != "" {
		fields = append(fields, zap.String("run_id", info.id))
	}
	return fields
}
