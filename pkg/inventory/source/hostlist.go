package source

import (
	"strings"

	"github.com/cloudposse/invctl/pkg/inventory"
)

// parseHostList adds the hosts of a comma separated list ("h1,h2:2222,")
// to "ungrouped".
func parseHostList(inv *inventory.Inventory, list string) error {
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, port, hasPort := inventory.SplitHostPort(item)
		h, err := inv.AddHost(name, inventory.UngroupedGroup)
		if err != nil {
			return parseError(list, err)
		}
		if hasPort {
			h.Vars[portVar] = port
		}
	}
	return nil
}
