package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrNoAnswer is returned when input ends before a valid answer is read.
var ErrNoAnswer = errors.New("no answer given")

// Confirm asks a yes/no question. On a terminal it shows an interactive
// prompt; otherwise it reads an answer line from stdin.
func Confirm(question string, defaultYes bool) (bool, error) {
	if IsInputTerminal() && IsTerminal() {
		answer := defaultYes
		err := huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&answer).
			Run()
		if err != nil {
			return false, err
		}
		return answer, nil
	}
	return ConfirmLine(os.Stdin, os.Stdout, question, defaultYes)
}

// ConfirmLine asks question on out and reads answers from in until one is
// valid. An empty answer takes the default.
func ConfirmLine(in io.Reader, out io.Writer, question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "%s %s ", question, hint)
		line, err := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		case "":
			if err == nil {
				return defaultYes, nil
			}
		default:
			if err == nil {
				fmt.Fprintln(out, "Please respond with 'yes' or 'no' (or 'y' or 'n').")
				continue
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return false, ErrNoAnswer
			}
			return false, err
		}
	}
}
