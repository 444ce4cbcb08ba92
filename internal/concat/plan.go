package concat

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"vjoin/internal/services"
)

const (
	defaultTool    = "ffmpeg"
	outputSuffix   = "-combined"
	outputExt      = ".mp4"
	directiveGlob  = "vjoin-concat-*.txt"
	directiveQuote = `'\''`
)

// DirectivePlaceholder replaces the directive path in preview command lines.
const DirectivePlaceholder = "<concat-list>"

// ErrEmptyList reports a plan request without any inputs.
var ErrEmptyList = fmt.Errorf("%w: no video files to concatenate", services.ErrValidation)

// Plan describes one concat invocation. It is recomputed from the current
// list snapshot before every execution and never cached.
type Plan struct {
	Inputs            []string
	DirectiveContents string
	DirectivePath     string
	InvocationArgs    []string
	OutputPath        string
}

// Build writes the directive file for order and returns the plan. An empty
// order, or a path that cannot be written as a single directive line, fails
// before touching the filesystem.
func Build(order []string, tool string) (*Plan, error) {
	if len(order) == 0 {
		return nil, ErrEmptyList
	}
	for i, path := range order {
		if path == "" {
			return nil, services.Wrap(services.ErrValidation, "concat", "plan", fmt.Sprintf("input %d has an empty path", i+1), nil)
		}
		// The directive grammar has no escape for line breaks.
		if strings.ContainsAny(path, "\n\r") {
			return nil, services.Wrap(services.ErrValidation, "concat", "plan", fmt.Sprintf("input %d contains a line break: %q", i+1, path), nil)
		}
	}
	tool = strings.TrimSpace(tool)
	if tool == "" {
		tool = defaultTool
	}

	contents := DirectiveContents(order)
	directivePath, err := writeDirective(contents)
	if err != nil {
		return nil, services.Wrap(nil, "concat", "write directive", "", err)
	}

	output := OutputPath(order[0])
	return &Plan{
		Inputs:            append([]string(nil), order...),
		DirectiveContents: contents,
		DirectivePath:     directivePath,
		InvocationArgs:    InvocationArgs(tool, directivePath, output),
		OutputPath:        output,
	}, nil
}

// Discard removes the directive file. It is safe to call more than once.
func (p *Plan) Discard() error {
	if p == nil || p.DirectivePath == "" {
		return nil
	}
	if err := os.Remove(p.DirectivePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove directive file: %w", err)
	}
	return nil
}

// DetachDirective removes the directive file and points the invocation at
// DirectivePlaceholder, leaving a plan that is only good for display.
func (p *Plan) DetachDirective() error {
	if p == nil {
		return nil
	}
	err := p.Discard()
	if p.DirectivePath != "" {
		for i, arg := range p.InvocationArgs {
			if arg == p.DirectivePath {
				p.InvocationArgs[i] = DirectivePlaceholder
			}
		}
	}
	p.DirectivePath = ""
	return err
}

// CommandLine renders the invocation as a copy-pasteable shell command.
func (p *Plan) CommandLine() string {
	if p == nil {
		return ""
	}
	quoted := make([]string, len(p.InvocationArgs))
	for i, arg := range p.InvocationArgs {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

// QuotePath wraps path in single quotes for the concat directive grammar.
// Each embedded quote closes the quoted run, adds an escaped quote, and
// reopens it.
func QuotePath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", directiveQuote) + "'"
}

// DirectiveContents returns one `file '<path>'` line per input.
func DirectiveContents(order []string) string {
	var b strings.Builder
	for _, path := range order {
		b.WriteString("file ")
		b.WriteString(QuotePath(path))
		b.WriteByte('\n')
	}
	return b.String()
}

// OutputPath derives <dir>/<stem>-combined.mp4 from the first input.
func OutputPath(first string) string {
	base := filepath.Base(first)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(first), stem+outputSuffix+outputExt)
}

// InvocationArgs returns the full argument vector, tool binary first.
func InvocationArgs(tool, directivePath, output string) []string {
	return []string{
		tool,
		"-f", "concat",
		"-safe", "0",
		"-i", directivePath,
		"-c", "copy",
		output,
	}
}

func writeDirective(contents string) (string, error) {
	file, err := os.CreateTemp("", directiveGlob)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := file.Name()
	if _, err := file.WriteString(contents); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if strings.IndexFunc(arg, needsShellQuote) < 0 {
		return arg
	}
	return QuotePath(arg)
}

func needsShellQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./:=+,@%", r)
}
