// Package prompt drives a clonebox container from the terminal: rows can be
// added, deleted, reset and filled in, with the markup shown on demand.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/dom"
)

// Action is a menu entry of the session loop.
type Action int

const (
	ActionAdd Action = iota
	ActionDelete
	ActionEdit
	ActionReset
	ActionShow
	ActionDone
)

var actionLabels = []string{
	ActionAdd:    "Add row",
	ActionDelete: "Delete row",
	ActionEdit:   "Edit field",
	ActionReset:  "Reset",
	ActionShow:   "Show markup",
	ActionDone:   "Done",
}

var editableFields = dom.MustCompile("input, select, textarea")

// Option configures a Session.
type Option func(*Session)

// WithDriver replaces the survey driver.
func WithDriver(driver Driver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session is an interactive loop over one controller.
type Session struct {
	ctrl   *clonebox.Controller
	driver Driver
	logger zerolog.Logger
}

// NewSession binds a session to ctrl.
func NewSession(ctrl *clonebox.Controller, opts ...Option) (*Session, error) {
	if ctrl == nil {
		return nil, ErrNoController
	}
	s := &Session{ctrl: ctrl, logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s, nil
}

// Run loops until the user picks Done, aborts, or ctx is cancelled. Done
// returns nil; an abort returns ErrAborted.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message: s.summary(),
			Options: actionLabels,
		})
		if err != nil {
			return err
		}

		action := Action(idx)
		s.logger.Debug().Str("action", action.String()).Msg("prompt action")
		if action == ActionDone {
			return nil
		}
		if err := s.dispatch(ctx, action); err != nil {
			return err
		}
	}
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionLabels) {
		return "unknown"
	}
	return actionLabels[a]
}

func (s *Session) dispatch(ctx context.Context, action Action) error {
	switch action {
	case ActionAdd:
		return s.report(ctx, s.ctrl.Add())
	case ActionDelete:
		row, err := s.pickRow(ctx, "Delete which row?")
		if err != nil || row < 0 {
			return err
		}
		return s.report(ctx, s.ctrl.DeleteAt(row))
	case ActionEdit:
		return s.editField(ctx)
	case ActionReset:
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: "Remove every row but the first and clear it?",
		})
		if err != nil || !ok {
			return err
		}
		return s.report(ctx, s.ctrl.Reset())
	case ActionShow:
		out, err := dom.Render(s.ctrl.Container())
		if err != nil {
			return err
		}
		return s.driver.Info(ctx, out)
	default:
		return fmt.Errorf("prompt: unknown action %d", action)
	}
}

func (s *Session) summary() string {
	rows := s.ctrl.Rows()
	limit := s.ctrl.Config().Limit
	if limit == clonebox.DefaultLimit {
		return fmt.Sprintf("%d row(s)", rows.Len())
	}
	return fmt.Sprintf("%d of %d row(s)", rows.Len(), limit)
}

func (s *Session) report(ctx context.Context, m clonebox.Mutation) error {
	if m.Applied {
		return s.driver.Info(ctx, fmt.Sprintf("%s: %d -> %d row(s)", m.Op, m.Before, m.After))
	}
	return s.driver.Info(ctx, fmt.Sprintf("%s skipped: %s", m.Op, m.Reason))
}

// pickRow returns -1 when the user backs out.
func (s *Session) pickRow(ctx context.Context, message string) (int, error) {
	rows := s.ctrl.Rows()
	options := make([]string, 0, rows.Len()+1)
	for i, row := range rows.Rows() {
		options = append(options, fmt.Sprintf("%d: %s", i, describeRow(row)))
	}
	options = append(options, "Cancel")

	idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return -1, err
	}
	if idx < 0 || idx >= rows.Len() {
		return -1, nil
	}
	return idx, nil
}

func (s *Session) editField(ctx context.Context) error {
	rowIdx, err := s.pickRow(ctx, "Edit which row?")
	if err != nil || rowIdx < 0 {
		return err
	}
	row := s.ctrl.Rows().Row(rowIdx)
	fields := rowFields(row)
	if len(fields) == 0 {
		return s.driver.Info(ctx, "row has no editable fields")
	}

	options := make([]string, len(fields))
	for i, field := range fields {
		options[i] = dom.AttrOr(field, "name", dom.AttrOr(field, "id", field.Data))
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Which field?", Options: options})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(fields) {
		return nil
	}
	return s.setValue(ctx, fields[idx])
}

func (s *Session) setValue(ctx context.Context, field *html.Node) error {
	name := dom.AttrOr(field, "name", "field")
	switch {
	case dom.IsElement(field, "select"):
		var opts []*html.Node
		var labels []string
		for _, n := range dom.Elements(field) {
			if dom.IsElement(n, "option") {
				opts = append(opts, n)
				labels = append(labels, strings.TrimSpace(dom.Text(n)))
			}
		}
		if len(opts) == 0 {
			return s.driver.Info(ctx, name+" has no options")
		}
		idx, err := s.driver.Select(ctx, SelectConfig{Message: name, Options: labels})
		if err != nil {
			return err
		}
		for i, opt := range opts {
			dom.ToggleAttr(opt, "selected", i == idx)
		}
	case isToggle(field):
		on, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: "Check " + name + "?",
			Default: dom.HasAttr(field, "checked"),
		})
		if err != nil {
			return err
		}
		dom.ToggleAttr(field, "checked", on)
	case dom.IsElement(field, "textarea"):
		value, err := s.driver.Input(ctx, InputConfig{Message: name, Default: dom.Text(field)})
		if err != nil {
			return err
		}
		dom.SetText(field, value)
	default:
		value, err := s.driver.Input(ctx, InputConfig{
			Message: name,
			Default: dom.AttrOr(field, "value", ""),
		})
		if err != nil {
			return err
		}
		dom.SetAttr(field, "value", value)
	}
	s.logger.Debug().Str("field", name).Msg("field updated")
	return nil
}

func rowFields(row *html.Node) []*html.Node {
	var out []*html.Node
	for _, field := range editableFields.All(row) {
		if dom.IsElement(field, "input") {
			switch inputType(field) {
			case "button", "submit", "reset", "image", "hidden":
				continue
			}
		}
		out = append(out, field)
	}
	return out
}

func describeRow(row *html.Node) string {
	var parts []string
	for _, field := range rowFields(row) {
		name := dom.AttrOr(field, "name", field.Data)
		var value string
		switch {
		case isToggle(field):
			value = strconv.FormatBool(dom.HasAttr(field, "checked"))
		case dom.IsElement(field, "textarea"):
			value = strings.TrimSpace(dom.Text(field))
		case dom.IsElement(field, "select"):
			for _, n := range dom.Elements(field) {
				if dom.IsElement(n, "option") && dom.HasAttr(n, "selected") {
					value = strings.TrimSpace(dom.Text(n))
				}
			}
		default:
			value = dom.AttrOr(field, "value", "")
		}
		parts = append(parts, name+"="+strconv.Quote(value))
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, " ")
}

func inputType(n *html.Node) string {
	return strings.ToLower(strings.TrimSpace(dom.AttrOr(n, "type", "text")))
}

func isToggle(n *html.Node) bool {
	if !dom.IsElement(n, "input") {
		return false
	}
	t := inputType(n)
	return t == "checkbox" || t == "radio"
}

// IsAbort reports whether err ends a session because the user quit.
func IsAbort(err error) bool {
	return errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled)
}
