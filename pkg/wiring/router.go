package wiring

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/dom"
)

// Router dispatches clicks across several controllers.
type Router struct {
	controllers []*clonebox.Controller
}

// NewRouter wraps the given controllers. Nil entries are dropped.
func NewRouter(controllers ...*clonebox.Controller) *Router {
	r := &Router{}
	for _, ctrl := range controllers {
		if ctrl != nil {
			r.controllers = append(r.controllers, ctrl)
		}
	}
	return r
}

// Controllers returns the routed controllers in registration order.
func (r *Router) Controllers() []*clonebox.Controller {
	out := make([]*clonebox.Controller, len(r.controllers))
	copy(out, r.controllers)
	return out
}

// Owner returns the controller with the innermost container holding target.
func (r *Router) Owner(target *html.Node) *clonebox.Controller {
	var (
		owner *clonebox.Controller
		depth = -1
	)
	for _, ctrl := range r.controllers {
		if !dom.Contains(ctrl.Container(), target) {
			continue
		}
		if d := nodeDepth(ctrl.Container()); d > depth {
			owner, depth = ctrl, d
		}
	}
	return owner
}

// Click routes target to its owning controller.
func (r *Router) Click(target *html.Node) (clonebox.Mutation, bool) {
	owner := r.Owner(target)
	if owner == nil {
		return clonebox.Mutation{}, false
	}
	return Click(owner, target)
}

// Reset resets every routed controller.
func (r *Router) Reset() []clonebox.Mutation {
	out := make([]clonebox.Mutation, 0, len(r.controllers))
	for _, ctrl := range r.controllers {
		out = append(out, ctrl.Reset())
	}
	return out
}

func nodeDepth(n *html.Node) int {
	depth := 0
	for cur := n; cur != nil; cur = cur.Parent {
		depth++
	}
	return depth
}
