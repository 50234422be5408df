package secrets

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var _ Prompter = (*TerminalPrompter)(nil)

// Prompter reads a credential from the user.
type Prompter interface {
	ReadSecret(in io.Reader, out io.Writer, label string) (string, error)
}

// TerminalPrompter reads a secret without echoing it when the input is a
// terminal, and falls back to a plain line read otherwise (piped input, tests).
type TerminalPrompter struct{}

func (p *TerminalPrompter) ReadSecret(in io.Reader, out io.Writer, label string) (string, error) {
	if _, err := fmt.Fprintf(out, "%s: ", label); err != nil {
		return "", err
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		// ReadPassword suppresses the user's newline, match it on our side.
		_, _ = fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read secret from terminal: %w", err)
		}

		return strings.TrimSpace(string(b)), nil
	}

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return strings.TrimSpace(line), nil
}
