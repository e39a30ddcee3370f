package render

import (
	"fmt"
	"io"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/inventory"
	"github.com/cloudposse/invctl/pkg/ui"
)

// Render writes the view selected by sel to w. Diagnostics go to d.
func Render(w io.Writer, inv *inventory.Inventory, sel Selection, behaviour inventory.HashBehaviour, d ui.Display) error {
	switch m := sel.Mode.(type) {
	case DumpMode:
		return Dump(w, inv, m, behaviour)
	case TreeMode:
		return Tree(w, inv, sel.Pattern, m)
	case HostListMode:
		return ListHosts(w, inv, sel.Pattern, d)
	case HostMode:
		return write(w, []byte("{}\n"))
	default:
		return errUtils.Build(errUtils.ErrUnexpected).
			WithContext("mode", fmt.Sprintf("%T", sel.Mode)).
			Err()
	}
}
