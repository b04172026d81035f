// Package importer loads hand-written question sets from JSON or YAML
// files, so a plan can be built without the reasoning backend.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// QuestionFile is the top-level structure of a question set file.
type QuestionFile struct {
	Title     string           `json:"title,omitempty" yaml:"title,omitempty"`
	Goal      string           `json:"goal,omitempty" yaml:"goal,omitempty"`
	Questions []QuestionImport `json:"questions" yaml:"questions"`
}

// QuestionImport is one question in the file.
type QuestionImport struct {
	ID          string   `json:"id" yaml:"id"`
	Section     string   `json:"section,omitempty" yaml:"section,omitempty"`
	Prompt      string   `json:"prompt" yaml:"prompt"`
	Kind        string   `json:"kind" yaml:"kind"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// LoadQuestionFile reads a question set file. .yaml and .yml files are
// parsed as YAML, everything else as JSON. Unknown fields are rejected.
func LoadQuestionFile(path string) (*QuestionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file QuestionFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing question file: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing question file: %w", err)
		}
	}
	return &file, nil
}
