// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultHeading labels the reference section of a generated report.
const DefaultHeading = "参考文献"

// Block locates the reference section inside a document. Offsets are byte
// positions into the document it was found in.
type Block struct {
	// Start is the offset of the heading line.
	Start int

	// EntriesStart is where the heading span (the heading line plus the
	// whitespace after it, through its last newline) ends and entries begin.
	EntriesStart int

	// End is the offset just past the last entry: the first blank-line gap
	// after EntriesStart, or the end of the document.
	End int
}

// Heading returns the heading span of b within doc.
func (b Block) Heading(doc string) string {
	return doc[b.Start:b.EntriesStart]
}

// Entries returns the raw entry span of b within doc.
func (b Block) Entries(doc string) string {
	return doc[b.EntriesStart:b.End]
}

// Locate finds the first line of text that is a reference heading and is
// followed by a newline. A heading line matches when, after trimming
// whitespace and leading Markdown '#' marks, it equals one of headings
// ignoring case. The second result is false when no such line exists.
func Locate(text string, headings []string) (Block, bool) {
	if len(headings) == 0 {
		headings = []string{DefaultHeading}
	}

	offset := 0
	for offset < len(text) {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			return Block{}, false
		}
		lineEnd := offset + nl
		if isHeading(text[offset:lineEnd], headings) {
			return blockAt(text, offset, lineEnd), true
		}
		offset = lineEnd + 1
	}
	return Block{}, false
}

func isHeading(line string, headings []string) bool {
	label := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
	for _, h := range headings {
		if strings.EqualFold(label, h) {
			return true
		}
	}
	return false
}

func blockAt(text string, start, lineEnd int) Block {
	entriesStart := lineEnd
	for i := lineEnd; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		if r == '\n' {
			entriesStart = i + 1
		}
		i += size
	}

	end := len(text)
	if gap := strings.Index(text[entriesStart:], "\n\n"); gap >= 0 {
		end = entriesStart + gap
	} else if end > entriesStart && strings.HasSuffix(text, "\n") {
		end--
	}

	return Block{Start: start, EntriesStart: entriesStart, End: end}
}

// ParseEntries splits a reference entry span into descriptions keyed by their
// original marker number. A new entry starts on every line that begins with a
// marker; continuation lines are folded into the entry above with single
// spaces. Pieces that do not start with a marker are discarded. When a number
// repeats, the later entry wins.
func ParseEntries(span string) map[string]string {
	entries := make(map[string]string)
	for _, piece := range splitEntries(span) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		num, desc, ok := parseEntry(piece)
		if !ok {
			continue
		}
		entries[num] = desc
	}
	return entries
}

// splitEntries breaks span before every newline that is immediately
// followed by a marker.
func splitEntries(span string) []string {
	lines := strings.Split(span, "\n")
	var pieces []string
	var current []string
	for i, line := range lines {
		if i > 0 && startsWithMarker(line) {
			pieces = append(pieces, strings.Join(current, "\n"))
			current = nil
		}
		current = append(current, line)
	}
	return append(pieces, strings.Join(current, "\n"))
}

func parseEntry(piece string) (num, desc string, ok bool) {
	entry, err := entryParser.ParseString("", piece)
	if err != nil {
		return "", "", false
	}
	desc = strings.Join(entry.Rest, "")
	desc = strings.ReplaceAll(desc, "\r\n", "\n")
	desc = strings.TrimSpace(strings.ReplaceAll(desc, "\n", " "))
	return markerNumber(entry.Marker), desc, true
}

// Truncate shortens s to maxChars characters and appends ellipsis, but only
// when s is longer than maxChars. A negative maxChars disables truncation.
func Truncate(s string, maxChars int, ellipsis string) string {
	if maxChars < 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxChars]) + ellipsis
}

// Rebuild renders the reference entries for order, the original marker
// numbers in first-appearance order. Each line is "[new] description" with
// the description truncated. Markers without a description are skipped.
func Rebuild(order []string, entries map[string]string, m Mapping, maxChars int, ellipsis string) string {
	lines := make([]string, 0, len(order))
	for _, old := range order {
		desc, ok := entries[old]
		if !ok {
			continue
		}
		n, ok := m.Lookup(old)
		if !ok {
			continue
		}
		line := "[" + strconv.Itoa(n) + "]"
		if desc != "" {
			line += " " + Truncate(desc, maxChars, ellipsis)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
