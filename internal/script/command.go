package script

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Iron-Ham/triage/internal/errors"
)

// Op identifies a script command.
type Op string

const (
	OpAdd     Op = "add"
	OpUpdate  Op = "update"
	OpResolve Op = "resolve"
	OpDrain   Op = "drain"
	OpStatus  Op = "status"
	OpStalled Op = "stalled"
)

// Command is one parsed script line.
type Command struct {
	Op      Op
	ID      string
	Urgency int
	Deps    []string
	Pattern string // glob filter for status and stalled

	Line int    // 1-based source line, 0 when parsed outside a file
	Raw  string // line text without the comment
}

func (c Command) String() string {
	return c.Raw
}

// ParseLine parses a single line. It returns false for blank and
// comment-only lines.
func ParseLine(line string) (Command, bool, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, false, nil
	}

	cmd := Command{Op: Op(strings.ToLower(fields[0])), Raw: strings.Join(fields, " ")}
	args := fields[1:]

	switch cmd.Op {
	case OpAdd:
		if len(args) < 2 {
			return cmd, true, usageError(cmd, "add <id> <urgency> [dep ...]")
		}
		urgency, err := parseUrgency(args[1])
		if err != nil {
			return cmd, true, errors.NewScriptError("invalid urgency", err).WithCommand(cmd.Raw)
		}
		cmd.ID, cmd.Urgency = args[0], urgency
		if len(args) > 2 {
			cmd.Deps = append([]string(nil), args[2:]...)
		}

	case OpUpdate:
		if len(args) != 2 {
			return cmd, true, usageError(cmd, "update <id> <urgency>")
		}
		urgency, err := parseUrgency(args[1])
		if err != nil {
			return cmd, true, errors.NewScriptError("invalid urgency", err).WithCommand(cmd.Raw)
		}
		cmd.ID, cmd.Urgency = args[0], urgency

	case OpResolve, OpDrain:
		if len(args) != 0 {
			return cmd, true, usageError(cmd, string(cmd.Op))
		}

	case OpStatus, OpStalled:
		if len(args) > 1 {
			return cmd, true, usageError(cmd, string(cmd.Op)+" [glob]")
		}
		if len(args) == 1 {
			if _, err := CompileFilter(args[0]); err != nil {
				return cmd, true, errors.NewScriptError("invalid pattern", err).WithCommand(cmd.Raw)
			}
			cmd.Pattern = args[0]
		}

	default:
		return cmd, true, errors.NewScriptError(fmt.Sprintf("unknown command %q", fields[0]), errors.ErrInvalidCommand)
	}

	return cmd, true, nil
}

func usageError(cmd Command, usage string) error {
	return errors.NewScriptError("usage: "+usage, errors.ErrInvalidCommand).WithCommand(cmd.Raw)
}

func parseUrgency(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return n, nil
}

// Parse reads a whole script. name is used in error locations and may be
// empty.
func Parse(r io.Reader, name string) ([]Command, error) {
	var cmds []Command
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		cmd, ok, err := ParseLine(scanner.Text())
		if err != nil {
			var scriptErr *errors.ScriptError
			if errors.As(err, &scriptErr) {
				return nil, scriptErr.WithLocation(name, lineNo)
			}
			return nil, err
		}
		if !ok {
			continue
		}
		cmd.Line = lineNo
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read script %s", name)
	}
	return cmds, nil
}

// ParseString is Parse over an in-memory script.
func ParseString(src string) ([]Command, error) {
	return Parse(strings.NewReader(src), "")
}
