package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/hirable/internal/types"
)

// MarshalResume encodes a resume as a YAML record mirroring the JSON field names.
func MarshalResume(r *types.Resume) ([]byte, error) {
	if r == nil {
		return nil, &Error{Message: "resume is nil"}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, &Error{Message: "failed to encode resume", Cause: err}
	}
	if err := enc.Close(); err != nil {
		return nil, &Error{Message: "failed to encode resume", Cause: err}
	}
	return buf.Bytes(), nil
}

// UnmarshalResume decodes a YAML resume record. Skill groups may be written
// either as {group, skills} mappings or as "Group: a, b" lines.
func UnmarshalResume(data []byte) (*types.Resume, error) {
	var r types.Resume
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, &Error{Message: "failed to decode resume YAML", Cause: err}
	}
	return &r, nil
}

// SaveResume writes a resume YAML record to path, creating parent directories.
func SaveResume(path string, r *types.Resume) error {
	data, err := MarshalResume(r)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// LoadResume reads a resume YAML record from path.
func LoadResume(path string) (*types.Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}
	return UnmarshalResume(data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &Error{Message: fmt.Sprintf("failed to create directory %s", dir), Cause: err}
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &Error{Message: fmt.Sprintf("failed to write %s", path), Cause: err}
	}
	return nil
}
