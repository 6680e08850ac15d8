package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/gorewood/contentbot/internal/atomicfile"
	"github.com/gorewood/contentbot/internal/output"
)

// DefaultDir is where draft files go when no directory is configured.
const DefaultDir = "out"

// FileWriter writes the markdown draft and its JSON record.
type FileWriter struct {
	dir string
}

// NewFileWriter returns a writer rooted at dir. Empty dir uses DefaultDir.
func NewFileWriter(dir string) *FileWriter {
	if dir == "" {
		dir = DefaultDir
	}
	return &FileWriter{dir: dir}
}

// Name implements Publisher.
func (w *FileWriter) Name() string { return "file" }

// Dir returns the output directory.
func (w *FileWriter) Dir() string { return w.dir }

// MarkdownPath returns the markdown file path for d.
func (w *FileWriter) MarkdownPath(d Draft) string {
	return filepath.Join(w.dir, "draft_"+d.Date+".md")
}

// JSONPath returns the JSON record path for d.
func (w *FileWriter) JSONPath(d Draft) string {
	return filepath.Join(w.dir, "draft_"+d.Date+".json")
}

// Publish writes both files and returns the markdown path.
func (w *FileWriter) Publish(_ context.Context, d Draft) (string, error) {
	mdPath := w.MarkdownPath(d)
	if err := atomicfile.Write(mdPath, []byte(d.Markdown())); err != nil {
		return "", output.NewSystemErrorWithCause(fmt.Sprintf("failed to write draft %s", mdPath), err)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to marshal draft record", err)
	}
	jsonPath := w.JSONPath(d)
	if err := atomicfile.Write(jsonPath, append(data, '\n')); err != nil {
		return "", output.NewSystemErrorWithCause(fmt.Sprintf("failed to write draft record %s", jsonPath), err)
	}

	return mdPath, nil
}
