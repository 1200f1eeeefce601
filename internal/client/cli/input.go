package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// prompt prints "label [current]: " and reads one line. An empty answer keeps
// the current value. EOF after partial input returns the partial line.
func prompt(reader *bufio.Reader, w io.Writer, label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(w, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(w, "%s: ", label)
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			line = strings.TrimSpace(line)
		} else {
			return "", err
		}
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current, nil
	}
	return line, nil
}

// promptMultiline reads lines until an empty one and joins them with '\n'.
func promptMultiline(reader *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s (空行で終了):\n", label)

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}
	return strings.Join(lines, "\n"), nil
}

// promptYesNo reads a y/N answer; anything but y/yes is no.
func promptYesNo(reader *bufio.Reader, w io.Writer, label string, current bool) (bool, error) {
	def := "N"
	if current {
		def = "y"
	}
	answer, err := prompt(reader, w, label+" (y/N)", def)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
