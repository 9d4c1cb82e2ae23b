// Package corpus turns policy source files into an embedded, searchable
// index. Everything here runs offline in the indexer; the serving path
// only loads the finished snapshot.
package corpus

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/zhcet-ai/advisor-engine/internal/pkg/errors"
)

// SourceFile is the YAML layout of the policy corpus: pre-extracted
// ordinance passages with their provenance. Document scanning and table
// extraction happen upstream; this file is their output.
type SourceFile struct {
	Passages []Passage `yaml:"passages"`
}

type Passage struct {
	Source       string `yaml:"source"`
	DocumentType string `yaml:"document_type"`
	Text         string `yaml:"text"`
}

// LoadSource reads, parses and normalizes a corpus source file. Passages
// with empty text are dropped; an entirely empty file is an error.
func LoadSource(path string) (*SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var src SourceFile
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("parse corpus source %s: %w", path, err)
	}

	normalized := make([]Passage, 0, len(src.Passages))
	for _, p := range src.Passages {
		p.Text = strings.TrimSpace(p.Text)
		if p.Text == "" {
			continue
		}
		p.Source = strings.TrimSpace(p.Source)
		p.DocumentType = strings.TrimSpace(p.DocumentType)
		if p.DocumentType == "" {
			p.DocumentType = "ordinance"
		}
		normalized = append(normalized, p)
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("%w: corpus source %s has no usable passages", errs.ErrInvalidArgument, path)
	}
	src.Passages = normalized
	return &src, nil
}
