package readme

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(question string) (bool, error)
}

// ConflictResolver decides whether candidate may be written to dest.
type ConflictResolver interface {
	Resolve(dest string, candidate []byte) (bool, error)
}

// Answer is a Prompter that always gives the same reply.
type Answer bool

// Confirm implements Prompter.
func (a Answer) Confirm(string) (bool, error) { return bool(a), nil }

// TerminalPrompter reads answers from In. When In is not interactive every
// question is declined without reading. One buffered reader serves every
// question, so answers piped in together are not lost between prompts.
type TerminalPrompter struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool

	reader *bufio.Reader
}

// NewTerminalPrompter prompts on stdin/stderr, declining when stdin is not a TTY.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		In:          os.Stdin,
		Out:         os.Stderr,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())), // #nosec G115 -- file descriptors fit in int
	}
}

// Confirm implements Prompter.
func (p *TerminalPrompter) Confirm(question string) (bool, error) {
	if !p.Interactive {
		return false, nil
	}
	_, _ = fmt.Fprintf(p.Out, "%s [y/N]: ", question)
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.TrimSpace(strings.ToLower(line))
	return answer == "y" || answer == "yes", nil
}

// PromptConflicts writes when dest is absent or already holds candidate and
// asks before replacing anything else.
type PromptConflicts struct {
	Prompter Prompter
}

// Resolve implements ConflictResolver.
func (c PromptConflicts) Resolve(dest string, candidate []byte) (bool, error) {
	existing, err := os.ReadFile(dest) // #nosec G304 -- dest is the scaffold target
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", dest, err)
	}
	if bytes.Equal(existing, candidate) {
		return true, nil
	}
	if c.Prompter == nil {
		return false, nil
	}
	return c.Prompter.Confirm(fmt.Sprintf("%s already exists, overwrite it?", dest))
}
