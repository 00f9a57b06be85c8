// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/report-engine/internal/container"
)

// Container runs a local model image per round trip: the prompt goes to the
// container's stdin and its stdout is the completion.
type Container struct {
	Runtime container.Runtime
	Image   string
	Args    []string
}

// Invoke runs the image once for prompt.
func (c *Container) Invoke(ctx context.Context, prompt string) (string, error) {
	var out bytes.Buffer
	if err := c.Runtime.Run(ctx, c.Image, c.Args, strings.NewReader(prompt), &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.String()) == "" {
		return "", fmt.Errorf("container %s produced no output", c.Image)
	}
	return out.String(), nil
}
