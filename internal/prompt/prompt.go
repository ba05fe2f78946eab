// Package prompt implements the blocking yes/no and acknowledgement
// dialogs on a terminal, plus a scripted stand-in for tests.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Terminal reads answers line by line from in and writes prompts to out.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm asks a yes/no question; anything but y/yes, including end of
// input, counts as no.
func (t *Terminal) Confirm(question string) bool {
	answer, err := t.Ask(question + " [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Notify prints an acknowledgement.
func (t *Terminal) Notify(message string) {
	fmt.Fprintf(t.out, ">> %s\n", message)
}

// Ask prints label and returns the trimmed next line. io.EOF is returned
// only when no text was read.
func (t *Terminal) Ask(label string) (string, error) {
	fmt.Fprint(t.out, label)
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Scripted replays canned confirmation answers and records what it was
// shown. When answers run out it declines.
type Scripted struct {
	Answers   []bool
	Questions []string
	Messages  []string
}

func (s *Scripted) Confirm(question string) bool {
	s.Questions = append(s.Questions, question)
	if len(s.Answers) == 0 {
		return false
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer
}

func (s *Scripted) Notify(message string) {
	s.Messages = append(s.Messages, message)
}
