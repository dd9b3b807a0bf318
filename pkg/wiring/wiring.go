// Package wiring turns click targets into controller transitions, the way
// delegated click handlers bound on the container would.
package wiring

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/dom"
)

// Intent is the transition a click asks for.
type Intent int

const (
	IntentNone Intent = iota
	IntentAdd
	IntentDelete
	IntentReset
)

func (i Intent) String() string {
	switch i {
	case IntentAdd:
		return "add"
	case IntentDelete:
		return "del"
	case IntentReset:
		return "reset"
	default:
		return "none"
	}
}

// ParseIntent maps "add", "del"/"delete" and "reset" to an Intent.
func ParseIntent(raw string) Intent {
	switch raw {
	case "add":
		return IntentAdd
	case "del", "delete":
		return IntentDelete
	case "reset":
		return IntentReset
	default:
		return IntentNone
	}
}

// Resolve walks from target up to the container and returns the role of the
// first control it meets. Disabled controls never fire.
func Resolve(ctrl *clonebox.Controller, target *html.Node) (Intent, *html.Node) {
	if ctrl == nil || target == nil {
		return IntentNone, nil
	}
	container := ctrl.Container()
	if !dom.Contains(container, target) {
		return IntentNone, nil
	}

	roles, err := compileRoles(ctrl.Config())
	if err != nil {
		return IntentNone, nil
	}
	for cur := target; cur != nil; cur = cur.Parent {
		for _, role := range roles {
			if role.sel.Match(cur) {
				if dom.HasAttr(cur, "disabled") {
					return IntentNone, cur
				}
				return role.intent, cur
			}
		}
		if cur == container {
			break
		}
	}
	return IntentNone, nil
}

// Click dispatches the intent behind target. The boolean is false when the
// click did not hit an enabled control.
func Click(ctrl *clonebox.Controller, target *html.Node) (clonebox.Mutation, bool) {
	intent, control := Resolve(ctrl, target)
	switch intent {
	case IntentAdd:
		return ctrl.Add(), true
	case IntentDelete:
		return ctrl.Delete(control), true
	case IntentReset:
		return ctrl.Reset(), true
	default:
		return clonebox.Mutation{}, false
	}
}

type role struct {
	intent Intent
	sel    dom.Selector
}

func compileRoles(cfg clonebox.Config) ([]role, error) {
	out := make([]role, 0, 3)
	for _, entry := range []struct {
		intent Intent
		src    string
	}{
		{IntentAdd, cfg.Add},
		{IntentDelete, cfg.Del},
		{IntentReset, cfg.Reset},
	} {
		sel, err := dom.Compile(entry.src)
		if err != nil {
			return nil, err
		}
		out = append(out, role{intent: entry.intent, sel: sel})
	}
	return out, nil
}
