package review

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Checklist is the manager's conformity checklist, loaded once at
// startup and passed by parameter into the prompt builder. Its shape is
// owned by whoever maintains the checklist file; the evaluator only
// validates that it is JSON and re-serializes it into the prompt.
type Checklist struct {
	raw json.RawMessage
}

// LoadChecklist reads and validates the JSON checklist at path. An empty
// path yields a nil Checklist, which formats to an empty string.
func LoadChecklist(path string) (*Checklist, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading checklist: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("checklist %q is not valid JSON", path)
	}
	return &Checklist{raw: json.RawMessage(data)}, nil
}

// Format returns the checklist as indented JSON for prompt insertion.
func (c *Checklist) Format() string {
	if c == nil || len(c.raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, c.raw, "", "  "); err != nil {
		return string(c.raw)
	}
	return buf.String()
}
