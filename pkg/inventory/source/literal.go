package source

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"
)

var (
	intLiteral   = regexp.MustCompile(`^[-+]?(0|[1-9][0-9_]*)$`)
	hexLiteral   = regexp.MustCompile(`^[-+]?0[xX][0-9a-fA-F]+$`)
	floatLiteral = regexp.MustCompile(`^[-+]?(([0-9]+\.[0-9]*|\.[0-9]+)([eE][-+]?[0-9]+)?|[0-9]+[eE][-+]?[0-9]+)$`)
)

// parseLiteral interprets an INI value the way Python literals read:
// integers, floats, True/False/None, quoted strings, lists and dicts.
// Anything else is kept as the raw string.
func parseLiteral(s string) interface{} {
	switch s {
	case "True":
		return true
	case "False":
		return false
	case "None":
		return nil
	}

	switch {
	case intLiteral.MatchString(s):
		if n, err := strconv.ParseInt(strings.ReplaceAll(s, "_", ""), 10, 64); err == nil {
			return int(n)
		}
	case hexLiteral.MatchString(s):
		if n, err := strconv.ParseInt(s, 0, 64); err == nil {
			return int(n)
		}
	case floatLiteral.MatchString(s):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0]:
		if unquoted, ok := unquoteLiteral(s); ok {
			return unquoted
		}
	case len(s) >= 2 && (s[0] == '[' && s[len(s)-1] == ']' || s[0] == '{' && s[len(s)-1] == '}'):
		var v interface{}
		if err := yaml.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}
	return s
}

func unquoteLiteral(s string) (string, bool) {
	if s[0] == '\'' {
		inner := s[1 : len(s)-1]
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		inner = strings.ReplaceAll(inner, `"`, `\"`)
		s = `"` + inner + `"`
	}
	out, err := strconv.Unquote(s)
	if err != nil {
		return "", false
	}
	return out, true
}

// splitLine tokenizes a host line with shell quoting rules. An unquoted "#"
// starts a comment that runs to the end of the line.
func splitLine(line string) ([]string, error) {
	return shellquote.Split(stripComment(line))
}

func stripComment(line string) string {
	var quote rune
	escaped := false
	for i, r := range line {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '#':
			return line[:i]
		}
	}
	return line
}
