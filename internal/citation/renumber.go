// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"strconv"
	"strings"
)

// Scan returns the distinct marker numbers found in texts, in order of first
// appearance. Texts are scanned left to right, one after another. The numbers
// are returned as digit strings without brackets ("5" for "[5]").
func Scan(texts ...string) []string {
	seen := make(map[string]bool)
	var order []string
	for _, text := range texts {
		for _, t := range tokenize(text) {
			if !t.marker {
				continue
			}
			num := markerNumber(t.value)
			if seen[num] {
				continue
			}
			seen[num] = true
			order = append(order, num)
		}
	}
	return order
}

// Mapping assigns dense new numbers to original marker numbers. It is built
// once from a first-appearance order and never modified.
type Mapping struct {
	numbers map[string]int
}

// NewMapping numbers order 1, 2, 3, ... Duplicate entries keep their first
// position.
func NewMapping(order []string) Mapping {
	numbers := make(map[string]int, len(order))
	for _, old := range order {
		if _, ok := numbers[old]; ok {
			continue
		}
		numbers[old] = len(numbers) + 1
	}
	return Mapping{numbers: numbers}
}

// Len returns the number of mapped markers.
func (m Mapping) Len() int {
	return len(m.numbers)
}

// Lookup returns the new number for an original marker number.
func (m Mapping) Lookup(old string) (int, bool) {
	n, ok := m.numbers[old]
	return n, ok
}

// Rewrite replaces every marker in text with its new number. Markers missing
// from the mapping are left as they are; nothing else in text changes.
func (m Mapping) Rewrite(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, t := range tokenize(text) {
		if t.marker {
			if n, ok := m.numbers[markerNumber(t.value)]; ok {
				b.WriteString("[" + strconv.Itoa(n) + "]")
				continue
			}
		}
		b.WriteString(t.value)
	}
	return b.String()
}
