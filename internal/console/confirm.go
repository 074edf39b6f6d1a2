package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm prints a prompt and reads one line. Destructive commands go
// through here unless --yes was passed. Accepts oui/o and yes/y.
func Confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [o/N] ", prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "o", "oui", "y", "yes":
		return true
	default:
		return false
	}
}
