package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// linePrompter runs the e-mail challenge over the terminal. There is no mail
// channel: the code is printed and the user types it back.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out}
}

func (p *linePrompter) Deliver(_ context.Context, email string, code int) error {
	_, err := fmt.Fprintf(p.out, "Verification code for %s: %d\n", email, code)
	return err
}

// Ask reads one line. End of input or a blank line is a cancellation; text
// that is not a number is a wrong guess.
func (p *linePrompter) Ask(ctx context.Context) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	if _, err := fmt.Fprint(p.out, "Enter code: "); err != nil {
		return 0, false, err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, false, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, false, nil
	}
	guess, convErr := strconv.Atoi(line)
	if convErr != nil {
		return -1, true, nil
	}
	return guess, true, nil
}
