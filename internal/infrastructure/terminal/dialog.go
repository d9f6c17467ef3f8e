package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// PromptDialog implements ports.Dialog over plain reader/writer streams, for
// one-shot commands that have no console loop.
type PromptDialog struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

// NewPromptDialog creates a dialog. With assumeYes, confirmations are
// answered yes without reading input.
func NewPromptDialog(in io.Reader, out io.Writer, assumeYes bool) *PromptDialog {
	return &PromptDialog{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

// Confirm implements ports.Dialog.
func (d *PromptDialog) Confirm(ctx context.Context, prompt string) (bool, error) {
	if d.assumeYes {
		return true, nil
	}
	fmt.Fprint(d.out, prompt+" [y/N] ")

	line, err := d.readLine(ctx)
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// Alert implements ports.Dialog. Output is the acknowledgement; one-shot
// commands exit right after, so no keypress is awaited.
func (d *PromptDialog) Alert(ctx context.Context, message string) error {
	_, err := fmt.Fprintln(d.out, message)
	return err
}

// readLine reads one line, treating end of input as an empty answer.
func (d *PromptDialog) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := d.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}
