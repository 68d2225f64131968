// Package manifest reads the JSONL case manifest driving a batch
// evaluation.
package manifest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Case is one evaluation unit: a unique id linking the generator input
// and the gold reference.
type Case struct {
	ID        string `json:"id"`
	GoldPath  string `json:"gold_path"`
	InputPath string `json:"input_path"`
}

// Load reads the JSONL manifest at path. Blank lines and lines that fail
// to parse or lack an id are skipped with a warning; a missing or
// unreadable manifest file is the caller's only fatal condition.
func Load(path string, log *zap.Logger) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest %q: %w", path, err)
	}
	defer f.Close()

	var cases []Case
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var c Case
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			log.Warn("skipping malformed manifest line",
				zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		if c.ID == "" {
			log.Warn("skipping manifest line without id", zap.Int("line", lineNo))
			continue
		}
		cases = append(cases, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest %q: %w", path, err)
	}
	return cases, nil
}
