// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/pdiddy/report-engine/pkg/types"
)

// Saver defaults.
const (
	DefaultDir      = "report"
	DefaultLabel    = "技术分析报告"
	DefaultEncoding = "utf-8"
)

const (
	timestampLayout = "20060102_150405"
	maxCollisions   = 1000
)

// Saver writes finished reports as timestamped text files.
type Saver struct {
	dir      string
	label    string
	encName  string
	encoding encoding.Encoding

	// now is replaceable for tests.
	now func() time.Time
}

// NewSaver validates cfg and fills defaults. Encoding accepts any WHATWG
// label, e.g. "utf-8" or "gb18030".
func NewSaver(cfg types.OutputConfig) (*Saver, error) {
	s := &Saver{
		dir:     cfg.Dir,
		label:   cfg.Label,
		encName: cfg.Encoding,
		now:     time.Now,
	}
	if s.dir == "" {
		s.dir = DefaultDir
	}
	if s.label == "" {
		s.label = DefaultLabel
	}
	if s.encName == "" {
		s.encName = DefaultEncoding
	}

	enc, err := htmlindex.Get(s.encName)
	if err != nil {
		return nil, fmt.Errorf("unsupported output encoding %q: %w", s.encName, err)
	}
	if name, _ := htmlindex.Name(enc); name != "utf-8" {
		s.encoding = enc
	}
	return s, nil
}

// Save writes report to a new file <dir>/<timestamp>_<label>.txt and returns
// its absolute path. An existing file is never overwritten: a numeric
// suffix (_2, _3, ...) is appended until the name is free.
func (s *Saver) Save(report string) (string, error) {
	dir, err := filepath.Abs(s.dir)
	if err != nil {
		return "", fmt.Errorf("saving report to %s: %w", s.dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("saving report to %s: %w", dir, err)
	}

	data, err := s.encode(report)
	if err != nil {
		return "", fmt.Errorf("saving report to %s: %w", dir, err)
	}

	base := s.now().Format(timestampLayout) + "_" + s.label
	path := filepath.Join(dir, base+".txt")
	for n := 2; ; n++ {
		err := writeExclusive(path, data)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrExist) || n > maxCollisions {
			return "", fmt.Errorf("saving report to %s: %w", path, err)
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.txt", base, n))
	}
}

// encode converts report to the configured encoding. UTF-8 output drops
// invalid byte sequences; other encodings replace runes they cannot
// represent.
func (s *Saver) encode(report string) ([]byte, error) {
	if s.encoding == nil {
		return []byte(strings.ToValidUTF8(report, "")), nil
	}
	out, err := encoding.ReplaceUnsupported(s.encoding.NewEncoder()).String(report)
	if err != nil {
		return nil, fmt.Errorf("encoding as %s: %w", s.encName, err)
	}
	return []byte(out), nil
}

// createExclusive opens a new file for writing and fails with fs.ErrExist
// when path is taken. Tests replace it to inject write failures.
var createExclusive = func(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

// writeExclusive writes data to a new file at path. A file that could not be
// written in full is removed so the name is not left holding a partial report.
func writeExclusive(path string, data []byte) error {
	f, err := createExclusive(path)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
