package export

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, format)
}

func testFramebuffer() *renderer.Framebuffer {
	fb := renderer.NewFramebuffer(2, 2)
	fb.SetRGB(0, 0, 255, 0, 0)
	fb.SetRGB(1, 0, 0, 255, 0)
	fb.SetRGB(0, 1, 0, 0, 255)
	fb.SetRGB(1, 1, 12, 34, 56)
	return fb
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePPM(&buf, testFramebuffer()))

	expected := "P3\n2 2\n255\n" +
		"255 0 0\n" +
		"0 255 0\n" +
		"0 0 255\n" +
		"12 34 56\n"
	assert.Equal(t, expected, buf.String())
}

func TestWritePPMEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePPM(&buf, renderer.NewFramebuffer(0, 0)))
	assert.Equal(t, "P3\n0 0\n255\n", buf.String())
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, testFramebuffer()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())

	r, g, b, a := img.At(1, 1).RGBA()
	assert.Equal(t, []uint32{12, 34, 56, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"ppm", FormatPPM, false},
		{"PNG", FormatPNG, false},
		{".ppm", FormatPPM, false},
		{" png ", FormatPNG, false},
		{"jpeg", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseFormat(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestWriteUnsupported(t *testing.T) {
	err := Write(&bytes.Buffer{}, testFramebuffer(), Format("gif"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "render-0007.ppm"), FileName("out", "render", 7, FormatPPM))
	assert.Equal(t, "shot-12345.png", FileName("", "shot", 12345, FormatPNG))
}

func TestExporterNumbersFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "renders")
	logger := &recordingLogger{}
	e := NewExporter(dir, logger)

	// The caller owns the counter
	counter := 0
	var paths []string
	for i := 0; i < 3; i++ {
		counter++
		path, err := e.Export(testFramebuffer(), counter)
		require.NoError(t, err)
		paths = append(paths, path)
	}

	assert.Equal(t, []string{
		filepath.Join(dir, "render-0001.ppm"),
		filepath.Join(dir, "render-0002.ppm"),
		filepath.Join(dir, "render-0003.ppm"),
	}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "P3\n2 2\n255\n"))
	assert.Len(t, logger.lines, 3)
}

func TestNextIndex(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, 1, NextIndex(dir, "render", FormatPPM))

	e := NewExporter(dir, nil)
	for n := 1; n <= 2; n++ {
		_, err := e.Export(testFramebuffer(), n)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, NextIndex(dir, "render", FormatPPM))
	assert.Equal(t, 1, NextIndex(dir, "render", FormatPNG), "numbering is per format")
	assert.Equal(t, 1, NextIndex(filepath.Join(dir, "missing"), "render", FormatPPM))
}

func TestExporterFailsOnBadDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := NewExporter(filepath.Join(blocker, "sub"), nil).Export(testFramebuffer(), 1)
	assert.Error(t, err)
}

func TestShowMissingViewer(t *testing.T) {
	err := Show(context.Background(), "no-such-viewer-binary", "image.ppm")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-viewer-binary")
}

func TestExportAndShowLogsViewerFailure(t *testing.T) {
	logger := &recordingLogger{}
	e := NewExporter(t.TempDir(), logger)
	e.Viewer = "no-such-viewer-binary"

	path, err := e.ExportAndShow(context.Background(), testFramebuffer(), 1)
	require.NoError(t, err, "viewer failures do not fail the export")
	assert.FileExists(t, path)
	assert.Len(t, logger.lines, 2)
}
