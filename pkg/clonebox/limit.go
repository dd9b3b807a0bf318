package clonebox

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-clonebox/pkg/dom"
)

// Decision is the outcome of the limit gate.
type Decision struct {
	AddDisabled bool
}

// Decide reports whether adding must be disabled for the given row count.
func Decide(rowCount, limit int) Decision {
	return Decision{AddDisabled: rowCount >= limit}
}

// applyLimits enforces the gate on every add control inside the rows: all of
// them follow the decision, then every control but the last is disabled so at
// most one add control is ever enabled.
func (c *Controller) applyLimits(rows RowSet) Decision {
	decision := Decide(rows.Len(), c.cfg.Limit)

	var controls []*html.Node
	for _, row := range rows.rows {
		controls = append(controls, c.sel.add.AllWithin(row, c.nested)...)
	}
	for i, control := range controls {
		disabled := decision.AddDisabled || i < len(controls)-1
		dom.ToggleClass(control, c.cfg.Disabled, disabled)
		dom.ToggleAttr(control, "disabled", disabled)
	}
	return decision
}
