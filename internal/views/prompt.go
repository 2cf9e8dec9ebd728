package views

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

var readPasswordFunc = term.ReadPassword // mockable

// errBack is returned by Choose when the user asks for the previous step.
var errBack = errors.New("back")

// Prompter reads answers line by line. Passwords are read without echo when
// the input is a terminal.
type Prompter struct {
	in       *bufio.Reader
	out      io.Writer
	fd       int
	terminal bool
}

// NewPrompter reads from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.terminal = true
	}
	return p
}

// Ask prints label and returns the trimmed line. It returns io.EOF once the
// input is exhausted.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password reads a secret, without echo on a terminal.
func (p *Prompter) Password(label string) (string, error) {
	if !p.terminal {
		return p.Ask(label)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	pwd, err := readPasswordFunc(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// Confirm asks a yes/no question; anything but y or yes is no.
func (p *Prompter) Confirm(label string) (bool, error) {
	answer, err := p.Ask(label + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Choose lists options and returns the index picked. With allowBack, "b"
// returns errBack. Invalid picks are asked again.
func (p *Prompter) Choose(label string, options []string, allowBack bool) (int, error) {
	for i, o := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, o)
	}
	hint := fmt.Sprintf("%s [1-%d]", label, len(options))
	if allowBack {
		hint += " (b = back)"
	}
	for {
		answer, err := p.Ask(hint)
		if err != nil {
			return 0, err
		}
		if allowBack && strings.EqualFold(answer, "b") {
			return 0, errBack
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintln(p.out, "Please pick one of the listed numbers.")
	}
}
