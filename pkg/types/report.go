// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ModelProvider identifies the backend used for model round trips.
type ModelProvider string

const (
	ProviderClaude    ModelProvider = "claude"
	ProviderOpenAI    ModelProvider = "openai"
	ProviderGemini    ModelProvider = "gemini"
	ProviderContainer ModelProvider = "container"
)

// ReferenceConfig controls the reconciliation pass over the reference section.
type ReferenceConfig struct {
	// Headings are the accepted reference section labels (default "参考文献").
	Headings []string `json:"headings" yaml:"headings"`

	// MaxChars caps each rebuilt reference description, in characters (default 20).
	MaxChars int `json:"max_chars" yaml:"max_chars"`

	// Ellipsis is appended to truncated descriptions (default "...").
	Ellipsis string `json:"ellipsis" yaml:"ellipsis"`
}

// OutputConfig holds settings for saving finished reports.
type OutputConfig struct {
	// Dir is the directory reports are written to (default "report").
	Dir string `json:"dir" yaml:"dir"`

	// Label is the fixed part of the report filename after the timestamp.
	Label string `json:"label" yaml:"label"`

	// Encoding is the character encoding of saved files (default "utf-8").
	// Any WHATWG encoding label is accepted, e.g. "gb18030".
	Encoding string `json:"encoding" yaml:"encoding"`
}

// ReportConfig groups the settings for report generation.
type ReportConfig struct {
	AI        AIConfig        `json:"model" yaml:"model"`
	Reference ReferenceConfig `json:"reference" yaml:"reference"`
	Output    OutputConfig    `json:"output" yaml:"output"`

	// Workers is the number of independent reports generated in parallel
	// by a batch run (default 4).
	Workers int `json:"workers" yaml:"workers"`
}

// Job describes one report to generate in a batch run.
type Job struct {
	// Name identifies the job in logs and the batch manifest.
	Name string `json:"name" yaml:"name"`

	// Question is the user question the report answers.
	Question string `json:"question" yaml:"question"`

	// Dimensions are topical angles the outline should cover.
	Dimensions []string `json:"dimensions" yaml:"dimensions"`

	// Fragments are paths to fragment files or directories, relative to the
	// job file.
	Fragments []string `json:"fragments,omitempty" yaml:"fragments,omitempty"`

	// Texts are inline fragments, processed after those loaded from Fragments.
	Texts []string `json:"texts,omitempty" yaml:"texts,omitempty"`
}

// JobFile is the on-disk form of a batch run.
type JobFile struct {
	Jobs []Job `json:"jobs" yaml:"jobs"`
}
