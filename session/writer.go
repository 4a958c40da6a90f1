package session

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer streams rows to a CSV file, flushing after every row so that a
// crash after row K never loses rows 1..K.
type Writer struct {
	path string
	file *os.File
	csv  *csv.Writer
}

// NewWriter creates the output file and writes the header row. If path
// already exists, an enumerated suffix is appended instead of overwriting
// (results.csv -> results_1.csv).
func NewWriter(path string, columns []string) (*Writer, error) {
	path = uniquePath(path)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	return &Writer{path: path, file: f, csv: w}, nil
}

// Path returns the actual output path, which may carry an enumerated suffix.
func (w *Writer) Path() string { return w.path }

// Append writes one row and flushes it to the file.
func (w *Writer) Append(row []string) error {
	if err := w.csv.Write(row); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}

// Close flushes pending output and closes the file.
func (w *Writer) Close() error {
	w.csv.Flush()
	flushErr := w.csv.Error()
	closeErr := w.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// uniquePath appends _1, _2, ... before the extension until the name is free.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
