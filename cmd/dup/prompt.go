package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// confirm prints question and reads one line of answer. Only "y" and "yes" are taken as
// consent, in any case; end of input is a refusal.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
