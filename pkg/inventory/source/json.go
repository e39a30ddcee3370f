package source

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/cloudposse/invctl/pkg/inventory"
	"github.com/cloudposse/invctl/pkg/vault"
)

const (
	metaKey     = "_meta"
	hostvarsKey = "hostvars"
)

var jsonAPI = jsoniter.Config{
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

// parseJSON reads the JSON dump layout produced by --list:
//
//	{"web": {"hosts": ["web1"], "vars": {}, "children": []},
//	 "_meta": {"hostvars": {"web1": {"http_port": 80}}}}
//
// A group may also be given as a bare list of host names.
func parseJSON(inv *inventory.Inventory, data []byte, secret *vault.Secret) error {
	var doc map[string]interface{}
	if err := jsonAPI.Unmarshal(data, &doc); err != nil {
		return err
	}

	converted, err := normalizeJSON(doc, secret)
	if err != nil {
		return err
	}
	doc = converted.(map[string]interface{})

	for _, name := range sortedKeys(doc) {
		if name == metaKey {
			continue
		}
		if err := parseJSONGroup(inv, name, doc[name]); err != nil {
			return err
		}
	}

	meta, _ := doc[metaKey].(map[string]interface{})
	hostvars, _ := meta[hostvarsKey].(map[string]interface{})
	for _, host := range sortedKeys(hostvars) {
		vars, ok := hostvars[host].(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid hostvars for '%s', requires a dictionary", host)
		}
		for _, k := range sortedKeys(vars) {
			if err := inv.SetHostVar(host, k, vars[k]); err != nil {
				return err
			}
		}
	}
	return nil
}

func parseJSONGroup(inv *inventory.Inventory, name string, data interface{}) error {
	if _, err := inv.AddGroup(name); err != nil {
		return err
	}

	switch group := data.(type) {
	case nil:
		return nil
	case []interface{}:
		return addJSONHosts(inv, name, group)
	case map[string]interface{}:
		if hosts, ok := group[keyHosts].([]interface{}); ok {
			if err := addJSONHosts(inv, name, hosts); err != nil {
				return err
			}
		}
		if vars, ok := group[keyVars].(map[string]interface{}); ok {
			for _, k := range sortedKeys(vars) {
				if err := inv.SetGroupVar(name, k, vars[k]); err != nil {
					return err
				}
			}
		}
		if children, ok := group[keyChildren].([]interface{}); ok {
			for _, c := range children {
				child, ok := c.(string)
				if !ok {
					return fmt.Errorf("invalid child of group '%s': %v", name, c)
				}
				if err := inv.AddChild(name, child); err != nil {
					return err
				}
			}
		}
		return nil
	default:
		return fmt.Errorf("invalid group '%s', requires a dictionary or a list of hosts, found '%T'", name, data)
	}
}

func addJSONHosts(inv *inventory.Inventory, group string, hosts []interface{}) error {
	for _, h := range hosts {
		name, ok := h.(string)
		if !ok {
			return fmt.Errorf("invalid host in group '%s': %v", group, h)
		}
		if _, err := inv.AddHost(name, group); err != nil {
			return err
		}
	}
	return nil
}

// normalizeJSON turns json.Number into int or float64 and
// {"__ansible_vault": "..."} objects into decrypted strings, or
// vault.EncryptedString when no secret is available.
func normalizeJSON(v interface{}, secret *vault.Secret) (interface{}, error) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), nil
		}
		return t.Float64()
	case map[string]interface{}:
		if ct, ok := t[vault.EncryptedKey].(string); ok && len(t) == 1 {
			return decryptInline(ct, secret)
		}
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			n, err := normalizeJSON(item, secret)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			n, err := normalizeJSON(item, secret)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return v, nil
	}
}
