// Package generator invokes the optional external command that produces
// a document for a case whose output artifact is absent.
//
// The command is a structured argument vector, never a shell string.
// Arguments may embed the named placeholders {id}, {input} and {output};
// anything else in braces is rejected up front, at construction, so a
// typo in the configuration fails the run before any case is touched.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// placeholderRe matches a {name} placeholder inside a command argument.
var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// allowedPlaceholders is the complete placeholder vocabulary.
var allowedPlaceholders = map[string]bool{
	"id":     true,
	"input":  true,
	"output": true,
}

// Generator runs the configured external command with a hard timeout.
type Generator struct {
	command []string
	timeout time.Duration
	log     *zap.Logger
}

// New validates the command template and returns a Generator. An empty
// command yields a disabled Generator, not an error.
func New(command []string, timeout time.Duration, log *zap.Logger) (*Generator, error) {
	for _, arg := range command {
		for _, m := range placeholderRe.FindAllStringSubmatch(arg, -1) {
			if !allowedPlaceholders[m[1]] {
				return nil, fmt.Errorf("unknown placeholder %q in generator command (allowed: {id}, {input}, {output})", m[0])
			}
		}
	}
	return &Generator{command: command, timeout: timeout, log: log}, nil
}

// Enabled reports whether a command is configured.
func (g *Generator) Enabled() bool { return len(g.command) > 0 }

// Run substitutes the case values into the command template and executes
// it, bounded by the configured timeout. Stdout and stderr are captured;
// on failure the returned error carries the tail of stderr. Run never
// decides whether the case proceeds: the caller evaluates whatever file
// state resulted.
func (g *Generator) Run(ctx context.Context, id, inputPath, outputPath string) error {
	if !g.Enabled() {
		return nil
	}

	repl := strings.NewReplacer(
		"{id}", id,
		"{input}", inputPath,
		"{output}", outputPath,
	)
	argv := make([]string, len(g.command))
	for i, arg := range g.command {
		argv[i] = repl.Replace(arg)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	g.log.Debug("running generator", zap.Strings("argv", argv))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("generator timed out after %s", g.timeout)
	}
	if err != nil {
		return fmt.Errorf("generator failed: %w (stderr: %s)", err, tail(stderr.String(), 300))
	}
	return nil
}

// tail returns at most n trailing runes of s, trimmed.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "..." + string(r[len(r)-n:])
}
