package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"devconsole/internal/actions"
	"devconsole/internal/model"
)

// prompter asks for values line by line, the way the console's prompt
// modal does. End of input plays the part of a cancelled prompt.
type prompter struct {
	r   *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{r: bufio.NewReader(in), out: out}
}

// ask returns ok=false when input ended before a line was entered.
func (p *prompter) ask(label string) (string, bool, error) {
	fmt.Fprintf(p.out, "%s ", label)
	line, err := p.r.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if line == "" {
			fmt.Fprintln(p.out)
			return "", false, nil
		}
		err = nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

// collect asks for each input of act not already in in. After the first
// cancelled prompt the rest stay absent.
func (p *prompter) collect(act actions.Action, in model.Inputs) error {
	for _, pr := range act.Prompts {
		if _, ok := in[pr.Key]; ok {
			continue
		}
		v, ok, err := p.ask(pr.Label)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		in[pr.Key] = v
	}
	return nil
}
