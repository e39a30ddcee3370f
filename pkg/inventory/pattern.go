package inventory

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/lo"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/perf"
)

var subscriptPattern = regexp.MustCompile(`^(.+)\[(?:(-?[0-9]+)|([0-9]+)([:-])([0-9]*))\]$`)

// SplitPattern splits a host pattern into terms. Terms are separated by ","
// or, when there is no comma and the pattern is not an IP address, by ":"
// outside brackets so that `web[1:3]` stays one term.
func SplitPattern(pattern string) []string {
	var parts []string
	switch {
	case strings.Contains(pattern, ","):
		parts = strings.Split(pattern, ",")
	case net.ParseIP(strings.TrimSpace(pattern)) != nil:
		parts = []string{pattern}
	default:
		parts = splitOutsideBrackets(pattern, ':')
	}

	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			terms = append(terms, p)
		}
	}
	return terms
}

func splitOutsideBrackets(s string, sep rune) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch {
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case r == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// orderTerms puts plain terms first, then intersections, then exclusions.
// A pattern made only of intersections or exclusions starts from "all".
func orderTerms(terms []string) []string {
	var plain, intersect, exclude []string
	for _, t := range terms {
		switch t[0] {
		case '!':
			exclude = append(exclude, t)
		case '&':
			intersect = append(intersect, t)
		default:
			plain = append(plain, t)
		}
	}
	if len(plain) == 0 {
		plain = []string{AllGroup}
	}
	return append(append(plain, intersect...), exclude...)
}

// Select resolves a host pattern. Terms prefixed with "!" exclude hosts,
// "&" intersects, "~" is a regular expression; others are group names, host
// names or globs, optionally followed by a subscript such as [0], [-1],
// [1:3] or [2:]. Terms matching nothing are reported to w and ignored.
func (i *Inventory) Select(pattern string, w Warner) ([]*Host, error) {
	defer perf.Track("inventory.Select")()

	var result []*Host
	for _, term := range orderTerms(SplitPattern(pattern)) {
		op := term[0]
		expr := term
		if op == '!' || op == '&' {
			expr = term[1:]
		}
		if expr == "" {
			continue
		}

		hosts, err := i.matchTerm(expr)
		if err != nil {
			return nil, err
		}
		if len(hosts) == 0 && expr != AllGroup && w != nil {
			w.Warning(fmt.Sprintf("Could not match supplied host pattern, ignoring: %s", expr))
		}

		switch op {
		case '!':
			result = lo.Without(result, hosts...)
		case '&':
			result = lo.Filter(result, func(h *Host, _ int) bool { return lo.Contains(hosts, h) })
		default:
			result = lo.Uniq(append(result, hosts...))
		}
	}
	return result, nil
}

// matchTerm resolves one term without its "!"/"&" prefix.
func (i *Inventory) matchTerm(expr string) ([]*Host, error) {
	base, sub, hasSub, err := parseSubscript(expr)
	if err != nil {
		return nil, err
	}
	hosts, err := i.enumerate(base)
	if err != nil {
		return nil, err
	}
	if hasSub {
		hosts = sub.apply(hosts)
	}
	return hosts, nil
}

func (i *Inventory) enumerate(expr string) ([]*Host, error) {
	if g, ok := i.groups[expr]; ok {
		return g.AllHosts(), nil
	}

	match, err := compileMatcher(expr)
	if err != nil {
		return nil, err
	}

	var out []*Host
	matchedGroups := false
	for _, g := range i.groupOrder {
		if match(g.Name) {
			matchedGroups = true
			out = append(out, g.AllHosts()...)
		}
	}
	if !matchedGroups || expr[0] == '~' || strings.ContainsAny(expr, ".?*[") {
		for _, h := range i.hostOrder {
			if match(h.Name) {
				out = append(out, h)
			}
		}
	}
	return lo.Uniq(out), nil
}

// compileMatcher builds a name matcher: "~" prefixed expressions are regular
// expressions anchored at the start, everything else is a glob.
func compileMatcher(expr string) (func(string) bool, error) {
	if strings.HasPrefix(expr, "~") {
		re, err := regexp.Compile("^(?:" + expr[1:] + ")")
		if err != nil {
			return nil, errUtils.Build(errUtils.ErrInvalidHostPattern).
				WithCause(err).
				WithContext("pattern", expr).
				Err()
		}
		return re.MatchString, nil
	}
	g, err := glob.Compile(expr)
	if err != nil {
		return func(name string) bool { return name == expr }, nil
	}
	return g.Match, nil
}

type subscript struct {
	start   int
	end     int
	single  bool
	openEnd bool
}

func parseSubscript(expr string) (string, subscript, bool, error) {
	if strings.HasPrefix(expr, "~") {
		return expr, subscript{}, false, nil
	}
	m := subscriptPattern.FindStringSubmatch(expr)
	if m == nil {
		return expr, subscript{}, false, nil
	}

	if m[2] != "" {
		idx, _ := strconv.Atoi(m[2])
		return m[1], subscript{start: idx, single: true}, true, nil
	}

	start, _ := strconv.Atoi(m[3])
	if m[5] == "" {
		return m[1], subscript{start: start, openEnd: true}, true, nil
	}
	end, _ := strconv.Atoi(m[5])
	if end < start {
		return "", subscript{}, false, errUtils.Build(errUtils.ErrInvalidHostPattern).
			WithContext("pattern", expr).
			WithExplanation("subscript end must not be before start").
			Err()
	}
	return m[1], subscript{start: start, end: end}, true, nil
}

func (s subscript) apply(hosts []*Host) []*Host {
	n := len(hosts)
	if s.single {
		idx := s.start
		if idx < 0 {
			idx += n
		}
		if idx < 0 || idx >= n {
			return nil
		}
		return []*Host{hosts[idx]}
	}
	if s.start >= n {
		return nil
	}
	end := n
	if !s.openEnd {
		end = min(s.end+1, n)
	}
	return hosts[s.start:end]
}
