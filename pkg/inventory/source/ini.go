package source

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/cloudposse/invctl/pkg/inventory"
)

const (
	sectionVars     = "vars"
	sectionChildren = "children"
	portVar         = "ansible_port"
)

var groupNameLine = regexp.MustCompile(`^([^ \t\r\n;#]+)\s*(?:#.*)?$`)

// parseINI reads the INI inventory format:
//
//	host0                      # before any section: ungrouped
//	[web]
//	web[01:02] http_port=80    # host lines: name[:port] key=value ...
//	[web:vars]
//	ntp=pool.ntp.org
//	[prod:children]
//	web
//
// Host and children sections are kept raw by the ini parser and tokenized
// here; vars sections are regular key=value sections.
func parseINI(inv *inventory.Inventory, data []byte) error {
	content := append([]byte("["+inventory.UngroupedGroup+"]\n"), data...)

	f, err := ini.LoadSources(ini.LoadOptions{
		KeyValueDelimiters:      "=",
		IgnoreInlineComment:     true,
		IgnoreContinuation:      true,
		PreserveSurroundedQuote: true,
		AllowNonUniqueSections:  true,
		UnparseableSections:     rawSectionNames(content),
	}, content)
	if err != nil {
		return err
	}

	declared := map[string]bool{inventory.AllGroup: true, inventory.UngroupedGroup: true}
	varsOnly := []string{}

	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		name := strings.TrimSpace(sec.Name())

		group, kind := name, ""
		if idx := strings.LastIndex(name, ":"); idx >= 0 {
			group, kind = strings.TrimSpace(name[:idx]), strings.TrimSpace(name[idx+1:])
		}

		switch kind {
		case "":
			declared[group] = true
			if _, err := inv.AddGroup(group); err != nil {
				return err
			}
			if err := parseHostSection(inv, group, sec.Body()); err != nil {
				return err
			}
		case sectionChildren:
			declared[group] = true
			if err := parseChildrenSection(inv, group, sec.Body(), declared); err != nil {
				return err
			}
		case sectionVars:
			varsOnly = append(varsOnly, group)
			for _, key := range sec.Keys() {
				if err := inv.SetGroupVar(group, key.Name(), parseLiteral(key.Value())); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("section [%s] has unknown type: %s", name, kind)
		}
	}

	for _, group := range varsOnly {
		if !declared[group] {
			return fmt.Errorf("section [%s:vars] not valid for undefined group: %s", group, group)
		}
	}
	return nil
}

// rawSectionNames lists every section that is not a :vars section so the ini
// parser keeps their bodies verbatim.
func rawSectionNames(content []byte) []string {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "[") {
			continue
		}
		closing := strings.LastIndex(line, "]")
		if closing <= 0 {
			continue
		}
		name := line[1:closing]
		if !strings.HasSuffix(name, ":"+sectionVars) {
			names = append(names, name)
		}
	}
	return names
}

func bodyLines(body string) []string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func parseHostSection(inv *inventory.Inventory, group, body string) error {
	for _, line := range bodyLines(body) {
		hosts, vars, err := parseHostLine(line)
		if err != nil {
			return err
		}
		for _, name := range hosts {
			h, err := inv.AddHost(name, group)
			if err != nil {
				return err
			}
			for k, v := range vars {
				h.Vars[k] = v
			}
		}
	}
	return nil
}

// parseHostLine parses `pattern[:port] [key=value ...]`.
func parseHostLine(line string) ([]string, map[string]interface{}, error) {
	tokens, err := splitLine(line)
	if err != nil {
		return nil, nil, fmt.Errorf("%q: %w", line, err)
	}
	if len(tokens) == 0 {
		return nil, nil, nil
	}

	host, port, hasPort := inventory.SplitHostPort(tokens[0])
	hosts, err := inventory.ExpandHostRange(host)
	if err != nil {
		return nil, nil, err
	}

	vars := map[string]interface{}{}
	if hasPort {
		vars[portVar] = port
	}
	for _, token := range tokens[1:] {
		k, v, ok := strings.Cut(token, "=")
		if !ok || k == "" {
			return nil, nil, fmt.Errorf("expected key=value host variable assignment, got: %s", token)
		}
		vars[k] = parseLiteral(v)
	}
	return hosts, vars, nil
}

func parseChildrenSection(inv *inventory.Inventory, group, body string, declared map[string]bool) error {
	for _, line := range bodyLines(body) {
		m := groupNameLine.FindStringSubmatch(line)
		if m == nil {
			return fmt.Errorf("expected group name, got: %s", line)
		}
		declared[m[1]] = true
		if err := inv.AddChild(group, m[1]); err != nil {
			return err
		}
	}
	return nil
}
