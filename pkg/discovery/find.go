package discovery

import (
	"strconv"

	"github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/dom"
)

// Find picks a controller by container id, falling back to its position in
// controllers when ref is a non-negative integer.
func Find(controllers []*clonebox.Controller, ref string) (int, *clonebox.Controller, bool) {
	for i, ctrl := range controllers {
		if id := dom.AttrOr(ctrl.Container(), "id", ""); id != "" && id == ref {
			return i, ctrl, true
		}
	}
	if idx, err := strconv.Atoi(ref); err == nil && idx >= 0 && idx < len(controllers) {
		return idx, controllers[idx], true
	}
	return -1, nil, false
}
