// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

// Default reconciliation settings.
const (
	DefaultMaxChars = 20
	DefaultEllipsis = "..."
)

// Options configures a Reconciler.
type Options struct {
	// Headings are the accepted reference section labels. Empty means
	// DefaultHeading.
	Headings []string

	// MaxChars caps each rebuilt description, in characters. Zero means
	// DefaultMaxChars; negative disables truncation.
	MaxChars int

	// Ellipsis is appended to truncated descriptions. Empty means
	// DefaultEllipsis.
	Ellipsis string
}

// Result is the outcome of one reconciliation pass.
type Result struct {
	// Text is the reconciled document.
	Text string

	// Markers is the number of distinct markers found in the body.
	Markers int

	// BlockFound reports whether a reference section was located.
	BlockFound bool

	// EntriesParsed counts well-formed entries in the original section.
	EntriesParsed int

	// EntriesKept counts entries written to the rebuilt section.
	EntriesKept int
}

// Reconciler runs the reconciliation pass: scan markers, renumber them in
// first-appearance order, and rebuild the reference section to match.
type Reconciler struct {
	headings []string
	maxChars int
	ellipsis string
}

// NewReconciler returns a Reconciler with defaults filled in for zero fields.
func NewReconciler(opts Options) *Reconciler {
	r := &Reconciler{
		headings: opts.Headings,
		maxChars: opts.MaxChars,
		ellipsis: opts.Ellipsis,
	}
	if len(r.headings) == 0 {
		r.headings = []string{DefaultHeading}
	}
	if r.maxChars == 0 {
		r.maxChars = DefaultMaxChars
	}
	if r.ellipsis == "" {
		r.ellipsis = DefaultEllipsis
	}
	return r
}

// Reconcile rewrites doc so its markers run 1..K in first-appearance order
// and its reference section lists only cited entries in that order. Markers
// inside the reference section are not body citations and are not scanned.
// Lines of the reference section that are not well-formed entries are
// dropped, so a section without any entry is emptied down to its heading.
// A document without a reference section has only its markers rewritten. A
// document whose body cites nothing is returned unchanged.
func (r *Reconciler) Reconcile(doc string) Result {
	block, found := Locate(doc, r.headings)
	if !found {
		order := Scan(doc)
		if len(order) == 0 {
			return Result{Text: doc}
		}
		m := NewMapping(order)
		return Result{Text: m.Rewrite(doc), Markers: m.Len()}
	}

	before, after := doc[:block.Start], doc[block.End:]
	order := Scan(before, after)
	if len(order) == 0 {
		return Result{Text: doc, BlockFound: true}
	}

	m := NewMapping(order)
	entries := ParseEntries(block.Entries(doc))
	rebuilt := Rebuild(order, entries, m, r.maxChars, r.ellipsis)

	return Result{
		Text:          m.Rewrite(before) + block.Heading(doc) + rebuilt + m.Rewrite(after),
		Markers:       m.Len(),
		BlockFound:    true,
		EntriesParsed: len(entries),
		EntriesKept:   countKept(order, entries),
	}
}

func countKept(order []string, entries map[string]string) int {
	kept := 0
	for _, old := range order {
		if _, ok := entries[old]; ok {
			kept++
		}
	}
	return kept
}

// Reconcile runs a reconciliation pass over doc with default options.
func Reconcile(doc string) string {
	return NewReconciler(Options{}).Reconcile(doc).Text
}
