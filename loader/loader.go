package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/libris/core"
	"github.com/tmc/langchaingo/documentloaders"
)

// Loader reads a file and returns its text, one entry per page.
// Implementations must be safe for sequential reuse across files.
type Loader interface {
	Load(ctx context.Context, path string) (*core.Document, error)
}

// PDFLoader loads PDF files.
type PDFLoader struct {
	logger *slog.Logger
}

var _ Loader = (*PDFLoader)(nil)

// NewPDFLoader creates a PDF loader.
func NewPDFLoader() *PDFLoader {
	return &PDFLoader{
		logger: slog.Default().With("component", "pdf-loader"),
	}
}

// Load opens path and extracts the plain text of every page, in page order.
// The returned document's Source is the base file name; callers that need a
// different identifier overwrite it.
func (l *PDFLoader) Load(ctx context.Context, path string) (*core.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	pages, err := documentloaders.NewPDF(f, info.Size()).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf %s: %w", path, err)
	}

	doc := &core.Document{
		Source: filepath.Base(path),
		Path:   path,
		Pages:  make([]string, 0, len(pages)),
	}
	for _, page := range pages {
		doc.Pages = append(doc.Pages, page.PageContent)
	}

	l.logger.Debug("loaded pdf", "path", path, "pages", len(doc.Pages), "bytes", info.Size())
	return doc, nil
}

// Scan returns the names of the regular files directly inside dir whose name
// ends with ext, sorted by name. Matching is case-sensitive and does not
// descend into subdirectories.
func Scan(dir, ext string) ([]string, error) {
	if ext == "" {
		return nil, ErrEmptyExtension
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		if !isRegular(dir, entry) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// isRegular reports whether entry is a regular file, following symlinks.
func isRegular(dir string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}
