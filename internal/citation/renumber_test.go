// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"冰的密度小于水[1][2]。",
		"[[1]] [a] [ 2] [3 ] [",
		"line one\n\tline two [12]\r\n",
	}
	for _, in := range inputs {
		var b strings.Builder
		for _, tok := range tokenize(in) {
			b.WriteString(tok.value)
		}
		assert.Equal(t, in, b.String())
	}
}

func TestScan(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{
			name:  "first appearance order",
			texts: []string{"A[5]. B[2]. C[5]."},
			want:  []string{"5", "2"},
		},
		{
			name:  "no markers",
			texts: []string{"nothing cited here"},
			want:  nil,
		},
		{
			name:  "malformed brackets ignored",
			texts: []string{"[a] [ 2] [3 ] [] [-1] [1.5]"},
			want:  nil,
		},
		{
			name:  "nested bracket still yields inner marker",
			texts: []string{"[[1]]"},
			want:  []string{"1"},
		},
		{
			name:  "leading zeros are a distinct marker",
			texts: []string{"[04] [4] [04]"},
			want:  []string{"04", "4"},
		},
		{
			name:  "adjacent markers",
			texts: []string{"水[3][1][3]"},
			want:  []string{"3", "1"},
		},
		{
			name:  "multiple texts scanned in sequence",
			texts: []string{"x[9] y[2]", "z[2] w[7]"},
			want:  []string{"9", "2", "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Scan(tt.texts...))
		})
	}
}

func TestNewMapping(t *testing.T) {
	m := NewMapping([]string{"7", "3", "7", "12"})
	assert.Equal(t, 3, m.Len())

	tests := []struct {
		old    string
		want   int
		wantOK bool
	}{
		{"7", 1, true},
		{"3", 2, true},
		{"12", 3, true},
		{"5", 0, false},
	}
	for _, tt := range tests {
		got, ok := m.Lookup(tt.old)
		assert.Equal(t, tt.wantOK, ok, "Lookup(%q)", tt.old)
		assert.Equal(t, tt.want, got, "Lookup(%q)", tt.old)
	}
}

func TestMappingRewrite(t *testing.T) {
	tests := []struct {
		name  string
		order []string
		text  string
		want  string
	}{
		{
			name:  "renumbers every occurrence",
			order: []string{"5", "2"},
			text:  "A[5]. B[2]. C[5].",
			want:  "A[1]. B[2]. C[1].",
		},
		{
			name:  "unknown marker left unchanged",
			order: []string{"2"},
			text:  "x[2] y[9]",
			want:  "x[1] y[9]",
		},
		{
			name:  "spacing and malformed brackets preserved",
			order: []string{"8"},
			text:  "a  [8]\n\t[ 8] [8 ] [[8]]",
			want:  "a  [1]\n\t[ 8] [8 ] [[1]]",
		},
		{
			name:  "empty mapping is identity",
			order: nil,
			text:  "keep [3] as is",
			want:  "keep [3] as is",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMapping(tt.order).Rewrite(tt.text))
		})
	}
}
