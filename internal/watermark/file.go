package watermark

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/gorewood/contentbot/internal/atomicfile"
	"github.com/gorewood/contentbot/internal/output"
)

// DefaultStateFile is the state file used when none is configured.
const DefaultStateFile = "state.json"

// state is the on-disk shape: {"last_run_at": "..."} or null.
type state struct {
	LastRunAt *string `json:"last_run_at"`
}

// FileStore keeps the watermark in a small JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore for path, defaulting to DefaultStateFile.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultStateFile
	}
	return &FileStore{path: path}
}

// Path returns the state file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the watermark. A missing file or null value is not an error.
func (s *FileStore) Load(_ context.Context) (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, output.NewSystemErrorWithCause("failed to read state file: "+s.path, err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return "", false, nil
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return "", false, output.NewUserErrorWithCause("state file is not valid JSON: "+s.path, err)
	}
	if st.LastRunAt == nil || strings.TrimSpace(*st.LastRunAt) == "" {
		return "", false, nil
	}
	return *st.LastRunAt, true, nil
}

// Save overwrites the state file. An empty value is stored as null.
func (s *FileStore) Save(_ context.Context, value string) error {
	var st state
	if value != "" {
		st.LastRunAt = &value
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return output.NewSystemErrorWithCause("failed to encode state", err)
	}
	data = append(data, '\n')

	if err := atomicfile.Write(s.path, data); err != nil {
		return output.NewSystemErrorWithCause("failed to write state file: "+s.path, err)
	}
	return nil
}
