package source

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/inventory"
	"github.com/cloudposse/invctl/pkg/vault"
)

const (
	vaultTag  = "!vault"
	unsafeTag = "!unsafe"
	mergeTag  = "!!merge"

	keyHosts    = "hosts"
	keyVars     = "vars"
	keyChildren = "children"
)

// parseYAML reads the YAML inventory format:
//
//	all:
//	  hosts:
//	    web[01:02]:
//	      http_port: 80
//	  vars: {}
//	  children:
//	    prod:
//	      hosts: {db1: }
func parseYAML(inv *inventory.Inventory, data []byte, l *Loader) error {
	root, err := decodeYAMLDocument(data)
	if err != nil {
		return err
	}
	if root == nil {
		l.warn("Skipping empty YAML inventory source")
		return nil
	}
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("invalid data from file, expected dictionary at line %d", root.Line)
	}

	for _, pair := range mappingPairs(root) {
		if err := parseYAMLGroup(inv, pair.key, pair.value, l); err != nil {
			return err
		}
	}
	return nil
}

type nodePair struct {
	key   string
	value *yaml.Node
}

// mappingPairs returns the entries of a mapping node in document order.
// Entries pulled in through merge keys come first unless overridden.
func mappingPairs(n *yaml.Node) []nodePair {
	n = resolveAlias(n)
	if n.Kind != yaml.MappingNode {
		return nil
	}

	var merged, explicit []nodePair
	seen := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Tag == mergeTag {
			continue
		}
		seen[key.Value] = true
		explicit = append(explicit, nodePair{key: key.Value, value: val})
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Tag != mergeTag {
			continue
		}
		val = resolveAlias(val)
		sources := []*yaml.Node{val}
		if val.Kind == yaml.SequenceNode {
			sources = val.Content
		}
		for _, src := range sources {
			for _, p := range mappingPairs(src) {
				if !seen[p.key] {
					seen[p.key] = true
					merged = append(merged, p)
				}
			}
		}
	}
	return append(merged, explicit...)
}

func isNull(n *yaml.Node) bool {
	n = resolveAlias(n)
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func parseYAMLGroup(inv *inventory.Inventory, name string, node *yaml.Node, l *Loader) error {
	if _, err := inv.AddGroup(name); err != nil {
		return err
	}
	if isNull(node) {
		return nil
	}
	if resolveAlias(node).Kind != yaml.MappingNode {
		l.warn(fmt.Sprintf("Skipping '%s' as this is not a valid group definition", name))
		return nil
	}

	for _, entry := range mappingPairs(node) {
		if isNull(entry.value) {
			continue
		}
		switch entry.key {
		case keyVars:
			if err := parseYAMLGroupVars(inv, name, entry.value, l.secret); err != nil {
				return err
			}
		case keyChildren:
			if resolveAlias(entry.value).Kind != yaml.MappingNode {
				return fmt.Errorf("invalid 'children' entry for '%s' group, requires a dictionary (line %d)", name, entry.value.Line)
			}
			for _, child := range mappingPairs(entry.value) {
				if err := parseYAMLGroup(inv, child.key, child.value, l); err != nil {
					return err
				}
				if err := inv.AddChild(name, child.key); err != nil {
					return err
				}
			}
		case keyHosts:
			if resolveAlias(entry.value).Kind != yaml.MappingNode {
				return fmt.Errorf("invalid 'hosts' entry for '%s' group, requires a dictionary (line %d)", name, entry.value.Line)
			}
			for _, host := range mappingPairs(entry.value) {
				if err := addYAMLHosts(inv, name, host.key, host.value, l.secret); err != nil {
					return err
				}
			}
		default:
			l.warn(fmt.Sprintf(`Skipping unexpected key (%s) in group (%s), only "vars", "children" and "hosts" are valid`, entry.key, name))
		}
	}
	return nil
}

func parseYAMLGroupVars(inv *inventory.Inventory, group string, node *yaml.Node, secret *vault.Secret) error {
	vars, err := nodeToValue(node, secret)
	if err != nil {
		return err
	}
	m, ok := vars.(map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid 'vars' entry for '%s' group, requires a dictionary, found '%T' instead", group, vars)
	}
	for _, k := range sortedKeys(m) {
		if err := inv.SetGroupVar(group, k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

func addYAMLHosts(inv *inventory.Inventory, group, pattern string, node *yaml.Node, secret *vault.Secret) error {
	host, port, hasPort := inventory.SplitHostPort(pattern)
	names, err := inventory.ExpandHostRange(host)
	if err != nil {
		return err
	}

	data, err := nodeToValue(node, secret)
	if err != nil {
		return err
	}
	var vars map[string]interface{}
	if data != nil {
		var ok bool
		if vars, ok = data.(map[string]interface{}); !ok {
			return fmt.Errorf("invalid variables for host '%s', requires a dictionary, found '%T' instead", pattern, data)
		}
	}

	for _, name := range names {
		h, err := inv.AddHost(name, group)
		if err != nil {
			return err
		}
		if hasPort {
			h.Vars[portVar] = port
		}
		for k, v := range vars {
			h.Vars[k] = v
		}
	}
	return nil
}

// decodeYAMLDocument returns the root node of the first document, or nil for
// an empty document.
func decodeYAMLDocument(data []byte) (*yaml.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	return doc.Content[0], nil
}

// looksLikeYAMLInventory reports whether data is a YAML mapping of groups:
// every top-level value is a mapping or empty.
func looksLikeYAMLInventory(data []byte) bool {
	root, err := decodeYAMLDocument(data)
	if err != nil || root == nil || root.Kind != yaml.MappingNode || len(root.Content) == 0 {
		return false
	}
	for i := 1; i < len(root.Content); i += 2 {
		v := resolveAlias(root.Content[i])
		if v.Kind == yaml.MappingNode {
			continue
		}
		if v.Kind == yaml.ScalarNode && v.Tag == "!!null" {
			continue
		}
		return false
	}
	return true
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// nodeToValue converts a YAML node into plain Go values. `!vault` scalars are
// decrypted when a secret is available and kept as vault.EncryptedString
// otherwise; `!unsafe` scalars stay strings.
func nodeToValue(n *yaml.Node, secret *vault.Secret) (interface{}, error) {
	n = resolveAlias(n)

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeToValue(n.Content[0], secret)

	case yaml.MappingNode:
		out := map[string]interface{}{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Tag == mergeTag {
				if err := applyMergeKey(out, val, secret); err != nil {
					return nil, err
				}
				continue
			}
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Tag == mergeTag {
				continue
			}
			v, err := nodeToValue(val, secret)
			if err != nil {
				return nil, err
			}
			out[key.Value] = v
		}
		return out, nil

	case yaml.SequenceNode:
		out := make([]interface{}, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := nodeToValue(item, secret)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case yaml.ScalarNode:
		switch n.Tag {
		case vaultTag:
			return decryptInline(n.Value, secret)
		case unsafeTag:
			return n.Value, nil
		}
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, nil
}

// applyMergeKey folds `<<: *anchor` (or a list of anchors) into out; explicit
// keys of the mapping are applied afterwards and win.
func applyMergeKey(out map[string]interface{}, val *yaml.Node, secret *vault.Secret) error {
	val = resolveAlias(val)
	sources := []*yaml.Node{val}
	if val.Kind == yaml.SequenceNode {
		sources = val.Content
	}
	for _, src := range sources {
		v, err := nodeToValue(src, secret)
		if err != nil {
			return err
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return fmt.Errorf("merge key requires a mapping, found %T", v)
		}
		for k, item := range m {
			if _, exists := out[k]; !exists {
				out[k] = item
			}
		}
	}
	return nil
}

func decryptInline(ciphertext string, secret *vault.Secret) (interface{}, error) {
	if secret == nil {
		return vault.EncryptedString{Ciphertext: ciphertext}, nil
	}
	plaintext, err := vault.Decrypt([]byte(ciphertext), secret)
	if err != nil {
		return nil, errUtils.Build(err).WithExplanation("failed to decrypt !vault value").Err()
	}
	return string(plaintext), nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
