package chatbot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// answersFile is the on-disk layout of a custom answer table:
//
//	fallback: "Sorry, I only know about dashboards."
//	answers:
//	  - key: hello
//	    reply: Hi!
type answersFile struct {
	Fallback string   `yaml:"fallback"`
	Answers  []Answer `yaml:"answers"`
}

// LoadTable reads an answer table from a YAML file. The list order in the
// file is the table order.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers file: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes a YAML answer table.
func ParseTable(data []byte) (*Table, error) {
	var f answersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing answers file: %w", err)
	}
	t, err := NewTable(f.Answers, f.Fallback)
	if err != nil {
		return nil, fmt.Errorf("building answer table: %w", err)
	}
	return t, nil
}

// TableFromConfig returns the table at path, or the built-in table when
// path is empty.
func TableFromConfig(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	return LoadTable(path)
}
