// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/pdiddy/report-engine/pkg/types"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local)
}

func newTestSaver(t *testing.T, cfg types.OutputConfig) *Saver {
	t.Helper()
	s, err := NewSaver(cfg)
	require.NoError(t, err)
	s.now = fixedNow
	return s
}

func TestSaveWritesTimestampedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "report")
	s := newTestSaver(t, types.OutputConfig{Dir: dir})

	path, err := s.Save("正文[1]\n\n参考文献\n[1] 来源")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, filepath.Join(dir, "20260314_092653_技术分析报告.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "正文[1]\n\n参考文献\n[1] 来源", string(data))
}

func TestSaveNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	s := newTestSaver(t, types.OutputConfig{Dir: dir, Label: "weekly"})

	first, err := s.Save("one")
	require.NoError(t, err)
	second, err := s.Save("two")
	require.NoError(t, err)
	third, err := s.Save("three")
	require.NoError(t, err)

	assert.Equal(t, "20260314_092653_weekly.txt", filepath.Base(first))
	assert.Equal(t, "20260314_092653_weekly_2.txt", filepath.Base(second))
	assert.Equal(t, "20260314_092653_weekly_3.txt", filepath.Base(third))

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestSaveDropsInvalidUTF8(t *testing.T) {
	s := newTestSaver(t, types.OutputConfig{Dir: t.TempDir()})

	path, err := s.Save("ok\xff\xfe报告")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok报告", string(data))
}

func TestSaveGB18030(t *testing.T) {
	s := newTestSaver(t, types.OutputConfig{Dir: t.TempDir(), Encoding: "gb18030"})

	path, err := s.Save("技术分析报告[1]")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, "技术分析报告[1]", string(data), "bytes should not be UTF-8")

	decoded, err := simplifiedchinese.GB18030.NewDecoder().Bytes(data)
	require.NoError(t, err)
	assert.Equal(t, "技术分析报告[1]", string(decoded))
}

func TestNewSaverRejectsUnknownEncoding(t *testing.T) {
	_, err := NewSaver(types.OutputConfig{Encoding: "klingon-8"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "klingon-8")
}

func TestNewSaverDefaults(t *testing.T) {
	s, err := NewSaver(types.OutputConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultDir, s.dir)
	assert.Equal(t, DefaultLabel, s.label)
	assert.Nil(t, s.encoding)
}

func TestSaveFailureNamesPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := newTestSaver(t, types.OutputConfig{Dir: blocker})
	_, err := s.Save("report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving report to "+blocker)
}

type failingWriter struct {
	f io.WriteCloser
}

func (w failingWriter) Write(p []byte) (int, error) {
	n, _ := w.f.Write(p[:len(p)/2])
	return n, errors.New("disk full")
}

func (w failingWriter) Close() error { return w.f.Close() }

func TestSaveRemovesPartialFile(t *testing.T) {
	old := createExclusive
	t.Cleanup(func() { createExclusive = old })
	createExclusive = func(path string) (io.WriteCloser, error) {
		f, err := old(path)
		if err != nil {
			return nil, err
		}
		return failingWriter{f: f}, nil
	}

	dir := t.TempDir()
	s := newTestSaver(t, types.OutputConfig{Dir: dir})
	_, err := s.Save("这是一份被截断的报告")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial report should be removed")
}
