// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/report-engine/internal/citation"
	"github.com/pdiddy/report-engine/pkg/types"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [FILE]",
	Short: "Renumber citations and rebuild the reference section of a text",
	Long: `Reconcile runs the citation pass over an existing report (stdin when no
FILE is given) and prints the result. Markers [N] are renumbered 1..K in order
of first appearance, and the reference section is rebuilt to list only cited
entries in that order, each truncated to the configured length.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := io.Reader(os.Stdin)
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		stats, _ := cmd.Flags().GetBool("stats")
		var statsOut io.Writer
		if stats {
			statsOut = os.Stderr
		}
		return reconcileText(in, os.Stdout, statsOut, reportConfig().Reference)
	},
}

// reconcileText reads a document from r, writes the reconciled text to w and,
// when statsOut is non-nil, a one-line summary to statsOut.
func reconcileText(r io.Reader, w, statsOut io.Writer, refs types.ReferenceConfig) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	res := citation.NewReconciler(citation.Options{
		Headings: refs.Headings,
		MaxChars: refs.MaxChars,
		Ellipsis: refs.Ellipsis,
	}).Reconcile(string(data))

	if _, err := io.WriteString(w, res.Text); err != nil {
		return err
	}
	if statsOut != nil {
		fmt.Fprintf(statsOut, "markers %d, section found %t, entries parsed %d, kept %d\n",
			res.Markers, res.BlockFound, res.EntriesParsed, res.EntriesKept)
	}
	return nil
}

func init() {
	reconcileCmd.Flags().Bool("stats", false, "print reconciliation statistics to stderr")

	rootCmd.AddCommand(reconcileCmd)
}
