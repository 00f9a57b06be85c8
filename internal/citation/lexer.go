// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation reconciles numeric citation markers in generated reports.
// It scans [N] markers in first-appearance order, renumbers them densely from 1,
// and rebuilds the trailing reference section so it lists only cited entries
// in the same order.
package citation

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// markerLexer tokenizes arbitrary text. The rules cover every input, so lexing
// never fails: anything that is not a well-formed marker becomes a Word, Space,
// or lone Bracket token. Rule order matters; Marker is tried first.
var markerLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Marker", Pattern: `\[\d+\]`},
	{Name: "Space", Pattern: `\s+`},
	{Name: "Word", Pattern: `[^\[\s]+`},
	{Name: "Bracket", Pattern: `\[`},
})

var markerType = markerLexer.Symbols()["Marker"]

// entryGrammar is a single reference entry: a leading marker followed by
// free text. Text that does not start with a marker fails to parse.
type entryGrammar struct {
	Marker string   `parser:"@Marker"`
	Rest   []string `parser:"@(Marker | Space | Word | Bracket)*"`
}

var entryParser = participle.MustBuild[entryGrammar](
	participle.Lexer(markerLexer),
)

// token is a lexed span of text.
type token struct {
	value  string
	marker bool
}

// tokenize splits text into marker and non-marker tokens. Concatenating the
// token values reproduces text exactly.
func tokenize(text string) []token {
	lex, err := markerLexer.Lex("", strings.NewReader(text))
	if err != nil {
		return []token{{value: text}}
	}
	lexed, err := lexer.ConsumeAll(lex)
	if err != nil {
		return []token{{value: text}}
	}

	tokens := make([]token, 0, len(lexed))
	for _, t := range lexed {
		if t.EOF() {
			break
		}
		tokens = append(tokens, token{value: t.Value, marker: t.Type == markerType})
	}
	return tokens
}

// markerNumber returns the digits inside a marker token like "[12]".
func markerNumber(marker string) string {
	return strings.TrimSuffix(strings.TrimPrefix(marker, "["), "]")
}

// startsWithMarker reports whether line begins with a marker token.
func startsWithMarker(line string) bool {
	tokens := tokenize(line)
	return len(tokens) > 0 && tokens[0].marker
}
