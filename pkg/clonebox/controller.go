// Package clonebox manages repeatable rows of form fields inside an HTML
// container: adding a row by cloning the last one, deleting a row, resetting
// to a single row, and keeping every field identifier in step with its row
// position.
package clonebox

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/goliatone/go-clonebox/pkg/dom"
)

// Option customises a Controller.
type Option func(*Controller)

// WithLogger attaches a logger for transition tracing. Defaults to a no-op
// logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithJournalSize bounds the number of retained mutations.
func WithJournalSize(size int) Option {
	return func(c *Controller) {
		c.journal = newJournal(size)
	}
}

// WithNestedMarker sets the selector of nested containers whose rows and
// fields belong to their own controller. Defaults to DefaultMarker.
func WithNestedMarker(selector string) Option {
	return func(c *Controller) {
		c.nestedSrc = selector
	}
}

// Controller runs the row lifecycle for one container. All state lives in the
// container's subtree; the controller only holds the immutable configuration,
// compiled selectors and the mutation journal. Operations are serialised.
type Controller struct {
	mu        sync.Mutex
	container *html.Node
	cfg       Config
	sel       selectors
	nestedSrc string
	nested    dom.Selector
	sanitizer Sanitizer
	reindexer Reindexer
	journal   *journal
	logger    zerolog.Logger
}

// New validates cfg, binds it to container and performs the initial pass
// (reindex plus add control state). The container must hold at least one row.
func New(container *html.Node, cfg Config, options ...Option) (*Controller, error) {
	if container == nil {
		return nil, ErrNilContainer
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sel, err := compileSelectors(cfg)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		container: container,
		cfg:       cfg,
		sel:       sel,
		nestedSrc: DefaultMarker,
		sanitizer: NewSanitizer(cfg),
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.journal == nil {
		c.journal = newJournal(defaultJournalEntries)
	}
	if strings.TrimSpace(c.nestedSrc) != "" {
		nested, err := dom.Compile(c.nestedSrc)
		if err != nil {
			return nil, fmt.Errorf("clonebox: compile nested marker %q: %w", c.nestedSrc, err)
		}
		c.nested = nested
	}
	c.reindexer = Reindexer{Fence: c.nested}

	rows := c.rows()
	if rows.Len() == 0 {
		return nil, fmt.Errorf("%w: selector %q", ErrNoRows, cfg.Row)
	}
	c.finish(Mutation{Op: OpInit, Index: -1, Before: rows.Len(), Applied: true}, true)
	return c, nil
}

// Config returns the controller configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Container returns the node the controller manages.
func (c *Controller) Container() *html.Node {
	return c.container
}

// Rows queries the current rows.
func (c *Controller) Rows() RowSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows()
}

// Journal returns a copy of the retained mutations, oldest first.
func (c *Controller) Journal() []Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.journal.snapshot()
}

// Add clones the last row and inserts the clone right after it. At or above
// the limit the call is a recorded no-op.
func (c *Controller) Add() Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := c.rows()
	m := Mutation{Op: OpAdd, Index: -1, Before: rows.Len()}

	last := rows.Last()
	switch {
	case last == nil:
		m.Reason = ReasonNoRows
	case rows.Len() >= c.cfg.Limit:
		m.Reason = ReasonLimitReached
	default:
		clone := dom.Clone(last)
		last.Parent.InsertBefore(clone, last.NextSibling)
		c.sanitizer.Sanitize(clone)
		m.Index = rows.Len()
		m.Applied = true
	}
	return c.finish(m, m.Applied)
}

// Delete removes the row holding target (the row itself or any node inside
// it). When it is the only row it is cleared in place instead.
func (c *Controller) Delete(target *html.Node) Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := c.rows()
	return c.deleteRow(rows, c.sel.row.Closest(target, c.container))
}

// DeleteAt deletes the row at position index.
func (c *Controller) DeleteAt(index int) Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := c.rows()
	return c.deleteRow(rows, rows.Row(index))
}

func (c *Controller) deleteRow(rows RowSet, row *html.Node) Mutation {
	m := Mutation{Op: OpDelete, Index: rows.IndexOf(row), Before: rows.Len()}
	if m.Index < 0 {
		m.Index = -1
		m.Reason = ReasonNoTarget
		return c.finish(m, true)
	}

	if rows.Len() > 1 {
		dom.Detach(row)
		m.Applied = true
	} else {
		m.Reason = ReasonLastRowCleared
	}
	c.sanitizer.Sanitize(row)
	return c.finish(m, true)
}

// Reset removes every row but the first and clears the first row.
func (c *Controller) Reset() Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := c.rows()
	m := Mutation{Op: OpReset, Index: 0, Before: rows.Len(), Applied: true}

	first := rows.First()
	if first == nil {
		m.Index = -1
		m.Applied = false
		m.Reason = ReasonNoRows
		return c.finish(m, false)
	}
	for _, row := range rows.rows[1:] {
		dom.Detach(row)
	}
	c.sanitizer.Sanitize(first)
	return c.finish(m, true)
}

// Refresh reapplies indexing and add control state without changing the row
// structure.
func (c *Controller) Refresh() Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finish(Mutation{Op: OpInit, Index: -1, Before: c.rows().Len(), Applied: true}, true)
}

// rows queries the container's own rows, leaving nested containers out.
func (c *Controller) rows() RowSet {
	return NewRowSet(c.sel.row.AllWithin(c.container, c.nested))
}

// finish journals m. With refresh set it first runs the reindex and limit
// pass over the whole row set; without it the tree is left untouched.
func (c *Controller) finish(m Mutation, refresh bool) Mutation {
	rows := c.rows()
	if refresh {
		m.Rewritten = c.reindexer.Reindex(rows)
		m.AddDisabled = c.applyLimits(rows).AddDisabled
	} else {
		m.AddDisabled = Decide(rows.Len(), c.cfg.Limit).AddDisabled
	}
	m.After = rows.Len()
	m = c.journal.record(m)

	event := c.logger.Debug()
	if !m.Applied {
		event = event.Str("reason", m.Reason)
	}
	event.
		Uint64("seq", m.Seq).
		Str("op", string(m.Op)).
		Int("index", m.Index).
		Int("before", m.Before).
		Int("after", m.After).
		Bool("applied", m.Applied).
		Msg("clonebox transition")
	return m
}
