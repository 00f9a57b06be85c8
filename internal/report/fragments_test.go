// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadFragments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "chunks", "02.md"), "second")
	writeFile(t, filepath.Join(dir, "chunks", "01.txt"), "first")
	writeFile(t, filepath.Join(dir, "chunks", "notes.json"), "ignored")
	writeFile(t, filepath.Join(dir, "chunks", "sub", "03.txt"), "nested ignored")
	writeFile(t, filepath.Join(dir, "extra.yaml"), "fragments:\n  - \"[1] 漏洞公告\"\n  - |\n    [2] 多行\n    片段\n")
	writeFile(t, filepath.Join(dir, "single.log"), "raw file")

	got, err := LoadFragments([]string{
		filepath.Join(dir, "chunks"),
		filepath.Join(dir, "extra.yaml"),
		filepath.Join(dir, "single.log"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "[1] 漏洞公告", "[2] 多行\n片段\n", "raw file"}, got)
}

func TestLoadFragmentsErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yml"), "fragments: [unterminated")

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"missing path", filepath.Join(dir, "absent.txt"), "reading fragments from"},
		{"bad yaml", filepath.Join(dir, "bad.yml"), "parsing fragment file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFragments([]string{tt.path})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFragmentsNone(t *testing.T) {
	got, err := LoadFragments(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
