package ast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadDocument reads a form document and returns it as JSON. Files ending in
// .yaml or .yml are decoded as YAML and re-encoded; anything else is returned
// as read.
func ReadDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse form YAML: %w", err)
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to convert form YAML to JSON: %w", err)
		}
		return out, nil
	default:
		return data, nil
	}
}

// LoadForm reads and decodes the form document at path. The returned form's
// File is set to path unless the document names its own source file.
func LoadForm(path string) (*Form, error) {
	data, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}

	form, err := DecodeForm(data)
	if err != nil {
		return nil, err
	}
	if form.File == "" {
		form.File = path
	}
	return form, nil
}
