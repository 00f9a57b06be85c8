// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		headings    []string
		wantFound   bool
		wantHeading string
		wantEntries string
	}{
		{
			name:        "plain heading",
			text:        "body[1]\n\n参考文献\n[1] one\n[2] two",
			wantFound:   true,
			wantHeading: "参考文献\n",
			wantEntries: "[1] one\n[2] two",
		},
		{
			name:        "markdown heading with blank line",
			text:        "body\n## 参考文献\n\n[1] one\n",
			wantFound:   true,
			wantHeading: "## 参考文献\n\n",
			wantEntries: "[1] one",
		},
		{
			name:        "section ends at blank line gap",
			text:        "参考文献\n[1] one\n[2] two\n\nAppendix",
			wantFound:   true,
			wantHeading: "参考文献\n",
			wantEntries: "[1] one\n[2] two",
		},
		{
			name:        "indented entries keep indentation in span",
			text:        "参考文献 \n  [1] one",
			wantFound:   true,
			wantHeading: "参考文献 \n",
			wantEntries: "  [1] one",
		},
		{
			name:        "case insensitive configured heading",
			text:        "text\nREFERENCES\n[1] one",
			headings:    []string{"References"},
			wantFound:   true,
			wantHeading: "REFERENCES\n",
			wantEntries: "[1] one",
		},
		{
			name:      "heading without trailing newline",
			text:      "text[1]\n参考文献",
			wantFound: false,
		},
		{
			name:      "label inside a sentence is not a heading",
			text:      "末尾需有参考文献章节\n[1] one",
			wantFound: false,
		},
		{
			name:      "no heading",
			text:      "just text [1]\n",
			wantFound: false,
		},
		{
			name:        "first heading wins",
			text:        "参考文献\n[1] a\n\n参考文献\n[2] b",
			wantFound:   true,
			wantHeading: "参考文献\n",
			wantEntries: "[1] a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, found := Locate(tt.text, tt.headings)
			require.Equal(t, tt.wantFound, found)
			if !found {
				return
			}
			assert.Equal(t, tt.wantHeading, block.Heading(tt.text))
			assert.Equal(t, tt.wantEntries, block.Entries(tt.text))
		})
	}
}

func TestParseEntries(t *testing.T) {
	tests := []struct {
		name string
		span string
		want map[string]string
	}{
		{
			name: "single line entries",
			span: "[5] Some long description text here\n[2] Short",
			want: map[string]string{"5": "Some long description text here", "2": "Short"},
		},
		{
			name: "multi-line entry collapsed",
			span: "[1] First line\ncontinued here\n  and here\n[2] Next",
			want: map[string]string{"1": "First line continued here   and here", "2": "Next"},
		},
		{
			name: "crlf line endings",
			span: "[1] a\r\nb\r\n[2] c",
			want: map[string]string{"1": "a b", "2": "c"},
		},
		{
			name: "leading prose discarded",
			span: "See below:\n[3] Three",
			want: map[string]string{"3": "Three"},
		},
		{
			name: "later duplicate wins",
			span: "[4] first\n[4] second",
			want: map[string]string{"4": "second"},
		},
		{
			name: "no space after marker",
			span: "[1]https://example.com/cve",
			want: map[string]string{"1": "https://example.com/cve"},
		},
		{
			name: "marker only",
			span: "[6]",
			want: map[string]string{"6": ""},
		},
		{
			name: "brackets inside description",
			span: "[1] RFC [draft] see [2]",
			want: map[string]string{"1": "RFC [draft] see [2]"},
		},
		{
			name: "nothing well formed",
			span: "(1) one\n- two",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEntries(tt.span))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxChars int
		want     string
	}{
		{"length 25 truncates", strings.Repeat("a", 25), 20, strings.Repeat("a", 20) + "..."},
		{"length 20 verbatim", strings.Repeat("b", 20), 20, strings.Repeat("b", 20)},
		{"shorter verbatim", "Short", 20, "Short"},
		{"counts characters not bytes", strings.Repeat("漏", 21), 20, strings.Repeat("漏", 20) + "..."},
		{"multibyte at budget verbatim", strings.Repeat("洞", 20), 20, strings.Repeat("洞", 20)},
		{"negative disables", strings.Repeat("c", 30), -1, strings.Repeat("c", 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.maxChars, "..."))
		})
	}
}

func TestRebuild(t *testing.T) {
	entries := map[string]string{
		"5": "Some long description text here",
		"2": "Short",
		"9": "Never cited",
		"6": "",
	}

	tests := []struct {
		name  string
		order []string
		want  string
	}{
		{
			name:  "citation order with truncation",
			order: []string{"5", "2"},
			want:  "[1] Some long descriptio...\n[2] Short",
		},
		{
			name:  "missing description skipped",
			order: []string{"3", "2"},
			want:  "[2] Short",
		},
		{
			name:  "empty description emits bare marker",
			order: []string{"6"},
			want:  "[1]",
		},
		{
			name:  "nothing cited",
			order: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMapping(tt.order)
			assert.Equal(t, tt.want, Rebuild(tt.order, entries, m, 20, "..."))
		})
	}
}
