package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/mergeguard"
)

// Compile-time interface verification.
var _ mergeguard.ReportWriter = (*ReportWriter)(nil)

// ReportWriter writes the text report to a single file, replacing any
// previous content.
type ReportWriter struct {
	path string
}

// NewReportWriter creates a writer for path.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

// Path returns the file the report is written to.
func (w *ReportWriter) Path() string {
	return w.path
}

// WriteReport replaces the report file with content. The file is written to
// a temporary sibling first so readers never see a partial report.
func (w *ReportWriter) WriteReport(content string) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*")
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
