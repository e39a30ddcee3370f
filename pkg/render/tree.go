package render

import (
	"io"
	"strings"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/inventory"
	"github.com/cloudposse/invctl/pkg/perf"
)

const (
	treeIndent = "|  "
	treeBranch = "|--"
	nodeSuffix = "*"
)

// Tree prints the group named by pattern and its descendants depth first.
// Each line is indented by the group's engine depth, not by its distance
// from the starting group.
func Tree(w io.Writer, inv *inventory.Inventory, pattern string, mode TreeMode) error {
	defer perf.Track("render.Tree")()

	start, ok := inv.Group(pattern)
	if !ok {
		return errUtils.Build(errUtils.ErrGroupNotFound).
			WithContext("group", pattern).
			WithHint("--tree takes a group name as its pattern").
			Err()
	}

	var b strings.Builder
	writeTree(&b, start, mode)
	return write(w, []byte(b.String()))
}

func writeTree(b *strings.Builder, g *inventory.Group, mode TreeMode) {
	if mode.MaxDepth != nil && g.Depth > *mode.MaxDepth {
		return
	}

	b.WriteString(treePrefix(g.Depth) + g.Name + "\n")
	for _, child := range g.Children() {
		writeTree(b, child, mode)
	}

	if !mode.Nodes {
		return
	}
	for _, h := range g.Hosts() {
		b.WriteString(treePrefix(g.Depth+1) + h.Name + nodeSuffix + "\n")
	}
}

func treePrefix(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(treeIndent, depth-1) + treeBranch
}
