package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/cloudposse/invctl/pkg/inventory"
	"github.com/cloudposse/invctl/pkg/perf"
	"github.com/cloudposse/invctl/pkg/ui"
)

// EmptyHostsWarning is reported when a host listing matches nothing.
const EmptyHostsWarning = "provided hosts list is empty, only localhost is available. " +
	"Note that the implicit localhost does not match 'all'"

// ListHosts prints the hosts matching pattern under a count header.
// An empty match is not an error.
func ListHosts(w io.Writer, inv *inventory.Inventory, pattern string, d ui.Display) error {
	defer perf.Track("render.ListHosts")()

	hosts, err := inv.Select(pattern, d)
	if err != nil {
		return err
	}
	if len(hosts) == 0 {
		d.Warning(EmptyHostsWarning)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  hosts (%d):\n", len(hosts))
	for _, h := range hosts {
		fmt.Fprintf(&b, "    %s\n", h.Name)
	}
	return write(w, []byte(b.String()))
}
