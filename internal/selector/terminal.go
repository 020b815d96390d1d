package selector

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

// Rows of the folder list shown at once; the list scrolls past that.
const listSize = 15

var ErrAborted = errors.New("selection aborted")

// TerminalPrompter asks through promptui: an arrow-key list with type-to-search for
// choices and a validated line prompt for names.
type TerminalPrompter struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		in:  io.NopCloser(in),
		out: nopWriteCloser{out},
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func (p *TerminalPrompter) Select(message string, choices []string) (int, error) {
	idx, _, err := p.selectPrompt(message, choices).Run()
	if err != nil {
		return 0, aborted(err)
	}
	return idx, nil
}

func (p *TerminalPrompter) Input(message string) (string, error) {
	line, err := p.inputPrompt(message).Run()
	if err != nil {
		return "", aborted(err)
	}
	return strings.TrimSpace(line), nil
}

func (p *TerminalPrompter) selectPrompt(message string, choices []string) *promptui.Select {
	return &promptui.Select{
		Label:    message,
		Items:    choices,
		Size:     listSize,
		Searcher: containsFold(choices),
		Stdin:    p.in,
		Stdout:   p.out,
	}
}

func (p *TerminalPrompter) inputPrompt(message string) *promptui.Prompt {
	return &promptui.Prompt{
		Label:    message,
		Validate: notBlank,
		Stdin:    p.in,
		Stdout:   p.out,
	}
}

func containsFold(choices []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		return strings.Contains(strings.ToLower(choices[index]), strings.ToLower(strings.TrimSpace(input)))
	}
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name must not be empty")
	}
	return nil
}

// aborted maps Ctrl-C, Ctrl-D and closed input to ErrAborted.
func aborted(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return fmt.Errorf("%w: %w", ErrAborted, err)
	}
	return err
}
