// Package inventory holds the in-memory host/group model: a group DAG rooted
// at "all", hosts with their memberships, variable merging and host patterns.
package inventory

import (
	"strings"
	"unicode"

	"github.com/samber/lo"

	errUtils "github.com/cloudposse/invctl/errors"
)

const (
	AllGroup       = "all"
	UngroupedGroup = "ungrouped"

	// GroupPriorityVar sets Group.Priority instead of being stored as a var.
	GroupPriorityVar = "ansible_group_priority"
	defaultPriority  = 1
)

// Warner receives non-fatal diagnostics.
type Warner interface {
	Warning(text string)
}

// Inventory is the set of groups and hosts built from one or more sources.
// It is built once per invocation and read-only afterwards.
type Inventory struct {
	groups     map[string]*Group
	groupOrder []*Group
	hosts      map[string]*Host
	hostOrder  []*Host
}

// New returns an inventory holding the implicit "all" and "ungrouped" groups.
func New() *Inventory {
	inv := &Inventory{
		groups: make(map[string]*Group),
		hosts:  make(map[string]*Host),
	}
	all := inv.newGroup(AllGroup)
	ungrouped := inv.newGroup(UngroupedGroup)
	all.addChild(ungrouped)
	return inv
}

func (i *Inventory) newGroup(name string) *Group {
	g := &Group{
		Name:     name,
		Vars:     map[string]interface{}{},
		Priority: defaultPriority,
	}
	i.groups[name] = g
	i.groupOrder = append(i.groupOrder, g)
	return g
}

// AddGroup returns the named group, creating it when needed.
func (i *Inventory) AddGroup(name string) (*Group, error) {
	name = strings.TrimSpace(name)
	if err := validateGroupName(name); err != nil {
		return nil, err
	}
	if g, ok := i.groups[name]; ok {
		return g, nil
	}
	return i.newGroup(name), nil
}

func validateGroupName(name string) error {
	if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return errUtils.Build(errUtils.ErrInvalidGroupName).
			WithContext("group", name).
			WithHint("group names must be non-empty and must not contain whitespace").
			Err()
	}
	return nil
}

// AddHost returns the named host, creating it when needed, and makes it a
// direct member of group when group is not empty.
func (i *Inventory) AddHost(name, group string) (*Host, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errUtils.Build(errUtils.ErrInvalidHostPattern).
			WithExplanation("empty host name").
			Err()
	}

	h, ok := i.hosts[name]
	if !ok {
		h = &Host{Name: name, Vars: map[string]interface{}{}}
		i.hosts[name] = h
		i.hostOrder = append(i.hostOrder, h)
	}
	if group == "" {
		return h, nil
	}

	g, err := i.AddGroup(group)
	if err != nil {
		return nil, err
	}
	g.addHost(h)
	return h, nil
}

// AddChild makes child a child group of parent, creating both as needed.
// It rejects edges that would form a cycle and recomputes descendant depths.
func (i *Inventory) AddChild(parent, child string) error {
	if child == AllGroup {
		return errUtils.Build(errUtils.ErrReservedGroup).
			WithContext("group", child).
			WithContext("parent", parent).
			WithExplanation("'all' cannot be a child of another group").
			Err()
	}
	p, err := i.AddGroup(parent)
	if err != nil {
		return err
	}
	c, err := i.AddGroup(child)
	if err != nil {
		return err
	}
	if p == c || lo.Contains(p.Ancestors(), c) {
		return errUtils.Build(errUtils.ErrGroupCycle).
			WithContext("parent", parent).
			WithContext("child", child).
			WithHintf("group %q is already an ancestor of %q", child, parent).
			Err()
	}
	p.addChild(c)
	return nil
}

// SetGroupVar sets a group variable. ansible_group_priority updates the
// group's priority instead.
func (i *Inventory) SetGroupVar(group, key string, value interface{}) error {
	g, err := i.AddGroup(group)
	if err != nil {
		return err
	}
	return g.SetVar(key, value)
}

// SetHostVar sets a host variable, creating the host when needed.
func (i *Inventory) SetHostVar(host, key string, value interface{}) error {
	h, err := i.AddHost(host, "")
	if err != nil {
		return err
	}
	h.Vars[key] = value
	return nil
}

// Group returns the named group.
func (i *Inventory) Group(name string) (*Group, bool) {
	g, ok := i.groups[name]
	return g, ok
}

// Host returns the named host.
func (i *Inventory) Host(name string) (*Host, bool) {
	h, ok := i.hosts[name]
	return h, ok
}

// Groups returns all groups in creation order.
func (i *Inventory) Groups() []*Group {
	return append([]*Group(nil), i.groupOrder...)
}

// Hosts returns all hosts in creation order.
func (i *Inventory) Hosts() []*Host {
	return append([]*Host(nil), i.hostOrder...)
}

// Reconcile enforces the hierarchy invariants once all sources are loaded:
// orphan groups become children of "all", hosts with no group other than
// "all" join "ungrouped", and hosts that gained a real group leave it.
func (i *Inventory) Reconcile() {
	all := i.groups[AllGroup]
	ungrouped := i.groups[UngroupedGroup]

	for _, g := range i.groupOrder {
		if g != all && len(g.parents) == 0 {
			all.addChild(g)
		}
	}

	for _, h := range i.hostOrder {
		others := lo.Filter(h.groups, func(g *Group, _ int) bool {
			return g != all && g != ungrouped
		})
		switch {
		case len(others) > 0:
			if lo.Contains(h.groups, ungrouped) {
				ungrouped.removeHost(h)
			}
		case !lo.Contains(h.groups, ungrouped):
			ungrouped.addHost(h)
		}
	}
}

// Group is a named set of hosts and child groups.
type Group struct {
	Name     string
	Depth    int
	Priority int
	Vars     map[string]interface{}

	children []*Group
	parents  []*Group
	hosts    []*Host
}

// Children returns the direct child groups in insertion order.
func (g *Group) Children() []*Group { return append([]*Group(nil), g.children...) }

// Parents returns the direct parent groups in insertion order.
func (g *Group) Parents() []*Group { return append([]*Group(nil), g.parents...) }

// Hosts returns the direct member hosts in insertion order.
func (g *Group) Hosts() []*Host { return append([]*Host(nil), g.hosts...) }

// ChildNames returns the names of the direct child groups.
func (g *Group) ChildNames() []string {
	return lo.Map(g.children, func(c *Group, _ int) string { return c.Name })
}

// HostNames returns the names of the direct member hosts.
func (g *Group) HostNames() []string {
	return lo.Map(g.hosts, func(h *Host, _ int) string { return h.Name })
}

// SetVar sets a group variable.
func (g *Group) SetVar(key string, value interface{}) error {
	if key == GroupPriorityVar {
		p, err := toInt(value)
		if err != nil {
			return errUtils.Build(errUtils.ErrInventoryParse).
				WithCause(err).
				WithContext("group", g.Name).
				WithContext("var", key).
				Err()
		}
		g.Priority = p
		return nil
	}
	g.Vars[key] = value
	return nil
}

// Ancestors returns every group above g, nearest first, without duplicates.
func (g *Group) Ancestors() []*Group {
	var out []*Group
	seen := map[*Group]bool{}
	queue := append([]*Group(nil), g.parents...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		queue = append(queue, cur.parents...)
	}
	return out
}

// AllHosts returns the hosts of g and its descendants, breadth first with g's
// own hosts first, without duplicates.
func (g *Group) AllHosts() []*Host {
	var out []*Host
	seenHost := map[*Host]bool{}
	seenGroup := map[*Group]bool{}
	queue := []*Group{g}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seenGroup[cur] {
			continue
		}
		seenGroup[cur] = true
		for _, h := range cur.hosts {
			if !seenHost[h] {
				seenHost[h] = true
				out = append(out, h)
			}
		}
		queue = append(queue, cur.children...)
	}
	return out
}

func (g *Group) addChild(c *Group) {
	if lo.Contains(g.children, c) {
		return
	}
	g.children = append(g.children, c)
	c.parents = append(c.parents, g)
	c.raiseDepth(g.Depth + 1)
}

// raiseDepth sets depth to max(current, d) and propagates to descendants.
func (g *Group) raiseDepth(d int) {
	if d <= g.Depth {
		return
	}
	g.Depth = d
	for _, c := range g.children {
		c.raiseDepth(d + 1)
	}
}

func (g *Group) addHost(h *Host) {
	if lo.Contains(g.hosts, h) {
		return
	}
	g.hosts = append(g.hosts, h)
	h.groups = append(h.groups, g)
}

func (g *Group) removeHost(h *Host) {
	g.hosts = lo.Without(g.hosts, h)
	h.groups = lo.Without(h.groups, g)
}

// Host is a named inventory member.
type Host struct {
	Name string
	Vars map[string]interface{}

	groups []*Group
}

// Groups returns the groups h is a direct member of.
func (h *Host) Groups() []*Group { return append([]*Group(nil), h.groups...) }

// AllGroups returns the direct groups of h plus all of their ancestors.
func (h *Host) AllGroups() []*Group {
	var out []*Group
	for _, g := range h.groups {
		out = append(out, g)
		out = append(out, g.Ancestors()...)
	}
	return lo.Uniq(out)
}
