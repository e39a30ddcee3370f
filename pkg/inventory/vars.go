package inventory

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"dario.cat/mergo"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/perf"
)

// HashBehaviour controls how variable maps from different levels combine.
type HashBehaviour string

const (
	// HashReplace lets later values replace earlier top-level keys.
	HashReplace HashBehaviour = "replace"
	// HashMerge deep-merges nested maps, later values winning.
	HashMerge HashBehaviour = "merge"
)

// ParseHashBehaviour accepts "replace" (or "") and "merge".
func ParseHashBehaviour(s string) (HashBehaviour, error) {
	switch HashBehaviour(strings.ToLower(strings.TrimSpace(s))) {
	case "", HashReplace:
		return HashReplace, nil
	case HashMerge:
		return HashMerge, nil
	default:
		return "", errUtils.Build(errUtils.ErrInvalidHashBehaviour).
			WithContext("hash_behaviour", s).
			Err()
	}
}

// SortGroups orders groups by depth, then priority, then name. This is the
// order in which group variables are applied.
func SortGroups(groups []*Group) []*Group {
	out := append([]*Group(nil), groups...)
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Depth != out[b].Depth {
			return out[a].Depth < out[b].Depth
		}
		if out[a].Priority != out[b].Priority {
			return out[a].Priority < out[b].Priority
		}
		return out[a].Name < out[b].Name
	})
	return out
}

// MergedVars returns the effective variables for h: the variables of every
// group h belongs to (including ancestors) in SortGroups order, then the host's
// own variables. Source maps are never mutated.
func (h *Host) MergedVars(behaviour HashBehaviour) (map[string]interface{}, error) {
	defer perf.Track("inventory.Host.MergedVars")()

	result := map[string]interface{}{}
	for _, g := range SortGroups(h.AllGroups()) {
		if err := CombineVars(result, g.Vars, behaviour); err != nil {
			return nil, errUtils.Build(errUtils.ErrInventoryParse).
				WithCause(err).
				WithContext("group", g.Name).
				WithContext("host", h.Name).
				Err()
		}
	}
	if err := CombineVars(result, h.Vars, behaviour); err != nil {
		return nil, errUtils.Build(errUtils.ErrInventoryParse).
			WithCause(err).
			WithContext("host", h.Name).
			Err()
	}
	return result, nil
}

// CombineVars folds src into dst. With HashMerge nested maps are merged
// recursively; otherwise each top-level key is replaced. src is deep-copied
// so later merges cannot reach into it through dst.
func CombineVars(dst, src map[string]interface{}, behaviour HashBehaviour) error {
	if len(src) == 0 {
		return nil
	}
	copied := deepCopyMap(src)
	if behaviour != HashMerge {
		for k, v := range copied {
			dst[k] = v
		}
		return nil
	}
	return mergeMaps(dst, copied)
}

// mergeMaps recurses into keys that hold a map on both sides. A map replaces
// a non-map value; mergo overrides the remaining leaves. mergo alone replaces
// nested maps of map[string]interface{} values instead of merging them.
func mergeMaps(dst, src map[string]interface{}) error {
	leaves := make(map[string]interface{}, len(src))
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]interface{})
		dstMap, dstIsMap := dst[k].(map[string]interface{})
		switch {
		case srcIsMap && dstIsMap:
			if err := mergeMaps(dstMap, srcMap); err != nil {
				return err
			}
		case srcIsMap:
			dst[k] = srcMap
		default:
			leaves[k] = v
		}
	}
	if len(leaves) == 0 {
		return nil
	}
	return mergo.Merge(&dst, leaves, mergo.WithOverride, mergo.WithOverwriteWithEmptyValue)
}

func deepCopyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return deepCopyMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}

func toInt(v interface{}) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case uint64:
		return int(t), nil
	case float64:
		return int(t), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v)
	}
}
