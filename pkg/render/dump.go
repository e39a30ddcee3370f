package render

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/goccy/go-yaml"
	jsoniter "github.com/json-iterator/go"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/inventory"
	"github.com/cloudposse/invctl/pkg/perf"
)

const (
	metaKey     = "_meta"
	hostvarsKey = "hostvars"
	childrenKey = "children"
	hostsKey    = "hosts"
	varsKey     = "vars"

	prettyIndent = "    "
)

var jsonAPI = jsoniter.Config{
	SortMapKeys: true,
	EscapeHTML:  false,
}.Froze()

// Dump writes the whole inventory in the inventory script layout:
//
//	{"<group>": {"children": [...], "hosts": [...], "vars": {...}},
//	 "_meta": {"hostvars": {"<host>": {...}}}}
//
// With Merge set, group vars are omitted and hostvars hold merged views.
func Dump(w io.Writer, inv *inventory.Inventory, mode DumpMode, behaviour inventory.HashBehaviour) error {
	defer perf.Track("render.Dump")()

	doc, err := buildDocument(inv, mode.Merge, behaviour)
	if err != nil {
		return err
	}

	out, err := encodeDocument(doc, mode.Format)
	if err != nil {
		return errUtils.Build(errUtils.ErrRender).
			WithCause(err).
			WithContext("format", mode.Format.String()).
			Err()
	}
	return write(w, out)
}

func buildDocument(inv *inventory.Inventory, merge bool, behaviour inventory.HashBehaviour) (map[string]interface{}, error) {
	doc := make(map[string]interface{})

	for _, g := range inv.Groups() {
		entry := map[string]interface{}{
			childrenKey: g.ChildNames(),
			hostsKey:    g.HostNames(),
		}
		if !merge {
			entry[varsKey] = g.Vars
		}
		doc[g.Name] = entry
	}

	hostvars := make(map[string]interface{})
	for _, h := range inv.Hosts() {
		if !merge {
			hostvars[h.Name] = h.Vars
			continue
		}
		vars, err := h.MergedVars(behaviour)
		if err != nil {
			return nil, errUtils.Build(errUtils.ErrRender).
				WithCause(err).
				WithContext("host", h.Name).
				Err()
		}
		hostvars[h.Name] = vars
	}
	doc[metaKey] = map[string]interface{}{hostvarsKey: hostvars}

	return doc, nil
}

func encodeDocument(doc map[string]interface{}, format DumpFormat) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(doc)
	}

	compact, err := jsonAPI.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if format != FormatPrettyJSON {
		return append(compact, '\n'), nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", prettyIndent); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func write(w io.Writer, out []byte) error {
	if _, err := w.Write(out); err != nil {
		return errUtils.Build(errUtils.ErrWriteOutput).WithCause(err).Err()
	}
	return nil
}
