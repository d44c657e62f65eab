package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ParseYAMLFile opens a YAML file from fsys and unmarshals it into out.
// Unknown keys are rejected so typos in config files surface.
func ParseYAMLFile(fsys fs.FS, filename string, out interface{}, dir ...string) error {
	fullPath := filename
	if len(dir) > 0 {
		fullPath = filepath.Join(dir[0], filename)
	}

	file, err := fsys.Open(fullPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", fullPath, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fullPath, err)
	}

	if err := Unmarshal(content, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", fullPath, err)
	}
	return nil
}

// Unmarshal decodes YAML strictly. An empty document leaves out untouched.
func Unmarshal(content []byte, out interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
