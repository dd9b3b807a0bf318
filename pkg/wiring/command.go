package wiring

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-clonebox/pkg/clonebox"
)

// ErrInvalidCommand is returned for commands ParseCommand does not understand.
var ErrInvalidCommand = errors.New("wiring: invalid command")

// Command is a scripted transition: add, delete at a row position, or reset.
type Command struct {
	Intent Intent
	Row    int
}

func (c Command) String() string {
	if c.Intent == IntentDelete {
		return "del=" + strconv.Itoa(c.Row)
	}
	return c.Intent.String()
}

// ParseCommand accepts "add", "reset" and "del=N" (or "delete=N").
func ParseCommand(raw string) (Command, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(raw), "=")
	intent := ParseIntent(strings.ToLower(name))
	switch intent {
	case IntentAdd, IntentReset:
		if hasArg {
			return Command{}, fmt.Errorf("%w: %q takes no argument", ErrInvalidCommand, raw)
		}
		return Command{Intent: intent, Row: -1}, nil
	case IntentDelete:
		row, err := strconv.Atoi(strings.TrimSpace(arg))
		if !hasArg || err != nil {
			return Command{}, fmt.Errorf("%w: %q needs a row index, e.g. del=0", ErrInvalidCommand, raw)
		}
		return Command{Intent: intent, Row: row}, nil
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrInvalidCommand, raw)
	}
}

// ParseCommands parses every entry, stopping at the first error.
func ParseCommands(raw []string) ([]Command, error) {
	out := make([]Command, 0, len(raw))
	for _, entry := range raw {
		cmd, err := ParseCommand(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}
	return out, nil
}

// Apply runs cmd against ctrl.
func Apply(ctrl *clonebox.Controller, cmd Command) (clonebox.Mutation, error) {
	switch cmd.Intent {
	case IntentAdd:
		return ctrl.Add(), nil
	case IntentDelete:
		return ctrl.DeleteAt(cmd.Row), nil
	case IntentReset:
		return ctrl.Reset(), nil
	default:
		return clonebox.Mutation{}, fmt.Errorf("%w: %s", ErrInvalidCommand, cmd.Intent)
	}
}
