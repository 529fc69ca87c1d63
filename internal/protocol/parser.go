// Package protocol parses the line commands used in the append-only log and
// the bulk-load endpoint: a command name followed by whitespace-separated
// arguments.
package protocol

import (
	"fmt"
	"strings"
)

// Command is one parsed command line.
type Command struct {
	Name string
	Args [][]byte
}

// Parse splits a raw line into a Command. The name is uppercased, arguments
// keep their original spelling.
func Parse(raw string) (*Command, error) {
	parts := strings.Fields(strings.TrimSpace(raw))
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	cmd := &Command{
		Name: strings.ToUpper(parts[0]),
		Args: make([][]byte, 0, len(parts)-1),
	}
	for _, arg := range parts[1:] {
		cmd.Args = append(cmd.Args, []byte(arg))
	}
	return cmd, nil
}

// ArgString returns argument i as a string, or "" when out of range.
func (c *Command) ArgString(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return string(c.Args[i])
}
