package inventory

import (
	"net"
	"strconv"
	"strings"

	errUtils "github.com/cloudposse/invctl/errors"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// HasRange reports whether pattern contains a `[begin:end]` range.
func HasRange(pattern string) bool {
	open := strings.Index(pattern, "[")
	colon := strings.Index(pattern, ":")
	closing := strings.Index(pattern, "]")
	return open >= 0 && open < colon && colon < closing
}

// ExpandHostRange expands every `[begin:end]` or `[begin:end:step]` range in
// pattern, left to right. Numeric ranges with a leading zero keep their width;
// single letters form alphabetic ranges.
//
//	web[01:03].example.com -> web01.example.com, web02.example.com, web03.example.com
func ExpandHostRange(pattern string) ([]string, error) {
	if !HasRange(pattern) {
		return []string{pattern}, nil
	}

	open := strings.Index(pattern, "[")
	closing := strings.Index(pattern, "]")
	head, spec, tail := pattern[:open], pattern[open+1:closing], pattern[closing+1:]

	items, err := rangeItems(pattern, spec)
	if err != nil {
		return nil, err
	}

	var hosts []string
	for _, item := range items {
		expanded, err := ExpandHostRange(head + item + tail)
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, expanded...)
	}
	return hosts, nil
}

func rangeItems(pattern, spec string) ([]string, error) {
	invalid := func(explanation string) error {
		return errUtils.Build(errUtils.ErrInvalidHostRange).
			WithContext("pattern", pattern).
			WithExplanation(explanation).
			WithHint("use [begin:end] or [begin:end:step], e.g. web[01:10] or db-[a:f]").
			Err()
	}

	bounds := strings.Split(spec, ":")
	if len(bounds) != 2 && len(bounds) != 3 {
		return nil, invalid("host range must be begin:end or begin:end:step")
	}
	beg, end := bounds[0], bounds[1]
	step := 1
	if len(bounds) == 3 {
		s, err := strconv.Atoi(bounds[2])
		if err != nil || s <= 0 {
			return nil, invalid("host range step must be a positive integer")
		}
		step = s
	}
	if beg == "" {
		beg = "0"
	}
	if end == "" {
		return nil, invalid("host range must specify end value")
	}

	width := 0
	if len(beg) > 1 && beg[0] == '0' {
		if len(beg) != len(end) {
			return nil, invalid("host range must specify equal-length begin and end formats")
		}
		width = len(beg)
	}

	if len(beg) == 1 && len(end) == 1 {
		ib, ie := strings.Index(asciiLetters, beg), strings.Index(asciiLetters, end)
		if ib >= 0 && ie >= 0 {
			if ib > ie {
				return nil, invalid("host range must have begin <= end")
			}
			var out []string
			for i := ib; i <= ie; i += step {
				out = append(out, string(asciiLetters[i]))
			}
			return out, nil
		}
	}

	b, errB := strconv.Atoi(beg)
	e, errE := strconv.Atoi(end)
	if errB != nil || errE != nil {
		return nil, invalid("host range bounds must both be numbers or both be single letters")
	}
	if b > e {
		return nil, invalid("host range must have begin <= end")
	}
	var out []string
	for i := b; i <= e; i += step {
		s := strconv.Itoa(i)
		if pad := width - len(s); pad > 0 {
			s = strings.Repeat("0", pad) + s
		}
		out = append(out, s)
	}
	return out, nil
}

// SplitHostPort separates an optional trailing `:port` from a host pattern.
// Colons inside range brackets are ignored, a bare IPv6 address has no port,
// and `[addr]:port` unwraps a bracketed IPv6 address.
func SplitHostPort(pattern string) (host string, port int, hasPort bool) {
	depth := 0
	colons := 0
	last := -1
	for i, r := range pattern {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ':':
			if depth == 0 {
				colons++
				last = i
			}
		}
	}
	host = pattern
	if colons == 1 {
		if p, err := strconv.Atoi(pattern[last+1:]); err == nil && p >= 0 && p <= 65535 {
			host, port, hasPort = pattern[:last], p, true
		}
	}
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		if inner := host[1 : len(host)-1]; net.ParseIP(inner) != nil {
			host = inner
		}
	}
	return host, port, hasPort
}
