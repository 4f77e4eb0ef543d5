// Package export writes rendered framebuffers to image files and hands them
// to an external viewer.
package export

import (
	"bufio"
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// ErrUnsupportedFormat is returned for unknown output formats
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format is an output image format
type Format string

const (
	FormatPPM Format = "ppm"
	FormatPNG Format = "png"
)

// DefaultViewer is the external program used to show exported images
const DefaultViewer = "display"

// ParseFormat accepts a format name or file extension, case-insensitively
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))) {
	case FormatPPM:
		return FormatPPM, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "%q", name)
	}
}

// Extension returns the file extension for the format, including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// WritePPM writes fb as a plain-text P3 image: a "P3\n<w> <h>\n255\n" header
// followed by one "r g b\n" line per pixel in row-major order
func WritePPM(w io.Writer, fb *renderer.Framebuffer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return errors.Wrap(err, "failed to write PPM header")
	}
	for i := 0; i+2 < len(fb.Pix); i += 3 {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2]); err != nil {
			return errors.Wrap(err, "failed to write PPM pixel")
		}
	}
	return errors.Wrap(bw.Flush(), "failed to flush PPM")
}

// WritePNG writes fb as an opaque PNG
func WritePNG(w io.Writer, fb *renderer.Framebuffer) error {
	return errors.Wrap(png.Encode(w, fb.Image()), "failed to encode PNG")
}

// Write encodes fb in format
func Write(w io.Writer, fb *renderer.Framebuffer, format Format) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, fb)
	case FormatPNG:
		return WritePNG(w, fb)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
}

// FileName returns the numbered output path for render n
func FileName(dir, prefix string, n int, format Format) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%04d%s", prefix, n, format.Extension()))
}

// NextIndex returns the first render number from 1 whose file does not yet
// exist in dir
func NextIndex(dir, prefix string, format Format) int {
	n := 1
	for {
		if _, err := os.Stat(FileName(dir, prefix, n, format)); os.IsNotExist(err) {
			return n
		}
		n++
	}
}

// Exporter writes numbered image files and optionally opens them in a viewer.
// The render number is supplied by the caller on each call.
type Exporter struct {
	Dir    string
	Prefix string
	Format Format
	Viewer string // Empty disables the viewer
	Logger core.Logger
}

// NewExporter creates an exporter writing PPM files into dir
func NewExporter(dir string, logger core.Logger) *Exporter {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Exporter{
		Dir:    dir,
		Prefix: "render",
		Format: FormatPPM,
		Logger: logger,
	}
}

// Export writes fb as render number n and returns the path written
func (e *Exporter) Export(fb *renderer.Framebuffer, n int) (string, error) {
	if e.Dir != "" {
		if err := os.MkdirAll(e.Dir, 0755); err != nil {
			return "", errors.Wrapf(err, "failed to create output directory %s", e.Dir)
		}
	}

	path := FileName(e.Dir, e.Prefix, n, e.Format)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create %s", path)
	}

	if err := Write(f, fb, e.Format); err != nil {
		f.Close()
		return "", errors.Wrapf(err, "failed to export %s", path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "failed to close %s", path)
	}

	e.Logger.Printf("Exported %dx%d image to %s\n", fb.Width, fb.Height, path)
	return path, nil
}

// ExportAndShow exports fb and, when a viewer is configured, opens it.
// Viewer failures are logged and do not fail the export.
func (e *Exporter) ExportAndShow(ctx context.Context, fb *renderer.Framebuffer, n int) (string, error) {
	path, err := e.Export(fb, n)
	if err != nil {
		return "", err
	}
	if e.Viewer != "" {
		if err := Show(ctx, e.Viewer, path); err != nil {
			e.Logger.Printf("Warning: %v\n", err)
		}
	}
	return path, nil
}

// Show runs viewer with path as its only argument and waits for it to exit
func Show(ctx context.Context, viewer, path string) error {
	program, err := exec.LookPath(viewer)
	if err != nil {
		return errors.Wrapf(err, "viewer %q not available", viewer)
	}

	output, err := exec.CommandContext(ctx, program, path).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "viewer %s failed on %s: %s", viewer, path, strings.TrimSpace(string(output)))
	}
	return nil
}
