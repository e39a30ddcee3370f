package render

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/inventory"
)

func treeString(t *testing.T, inv *inventory.Inventory, pattern string, mode TreeMode) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, Tree(&out, inv, pattern, mode))
	return out.String()
}

func TestTree(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		mode    TreeMode
		want    string
	}{
		{
			name:    "groups only",
			pattern: "all",
			want: "all\n" +
				"|--ungrouped\n" +
				"|--prod\n" +
				"|  |--web\n" +
				"|  |--db\n",
		},
		{
			name:    "with nodes",
			pattern: "all",
			mode:    TreeMode{Nodes: true},
			want: "all\n" +
				"|--ungrouped\n" +
				"|  |--lonely*\n" +
				"|--prod\n" +
				"|  |--web\n" +
				"|  |  |--web1*\n" +
				"|  |  |--web2*\n" +
				"|  |--db\n" +
				"|  |  |--db1*\n",
		},
		{
			name:    "depth limit",
			pattern: "all",
			mode:    TreeMode{MaxDepth: intPtr(1)},
			want: "all\n" +
				"|--ungrouped\n" +
				"|--prod\n",
		},
		{
			name:    "depth limit keeps hosts of printed groups",
			pattern: "all",
			mode:    TreeMode{Nodes: true, MaxDepth: intPtr(1)},
			want: "all\n" +
				"|--ungrouped\n" +
				"|  |--lonely*\n" +
				"|--prod\n",
		},
		{
			name:    "subtree keeps engine depth",
			pattern: "prod",
			mode:    TreeMode{Nodes: true},
			want: "|--prod\n" +
				"|  |--web\n" +
				"|  |  |--web1*\n" +
				"|  |  |--web2*\n" +
				"|  |--db\n" +
				"|  |  |--db1*\n",
		},
	}

	inv := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, treeString(t, inv, tt.pattern, tt.mode))
		})
	}
}

func TestTree_HostsFollowChildren(t *testing.T) {
	inv := inventory.New()
	_, err := inv.AddHost("h1", "B")
	require.NoError(t, err)
	require.NoError(t, inv.AddChild("A", "B"))
	require.NoError(t, inv.AddChild("A", "C"))
	inv.Reconcile()

	assert.Equal(t,
		"|--A\n"+
			"|  |--B\n"+
			"|  |  |--h1*\n"+
			"|  |--C\n",
		treeString(t, inv, "A", TreeMode{Nodes: true}))
}

func TestTree_UnknownGroup(t *testing.T) {
	var out bytes.Buffer
	err := Tree(&out, newFixture(t), "web1", TreeMode{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errUtils.ErrGroupNotFound))
	assert.Equal(t, errUtils.ExitCodeError, errUtils.GetExitCode(err))
	assert.Empty(t, out.String())
}
