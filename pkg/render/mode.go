// Package render turns a loaded inventory into one of the supported views:
// a JSON or YAML dump, an ASCII tree, a host listing or the --host
// placeholder.
package render

import (
	"strings"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/inventory"
	"github.com/cloudposse/invctl/pkg/perf"
	"github.com/cloudposse/invctl/pkg/ui"
)

// Mode is the closed set of display modes. Exactly one of DumpMode,
// TreeMode, HostListMode or HostMode is selected per run.
type Mode interface {
	mode()
}

// DumpFormat selects the serialization of a DumpMode.
type DumpFormat int

const (
	FormatJSON DumpFormat = iota
	FormatPrettyJSON
	FormatYAML
)

func (f DumpFormat) String() string {
	switch f {
	case FormatPrettyJSON:
		return "pretty-json"
	case FormatYAML:
		return "yaml"
	default:
		return "json"
	}
}

// DumpMode emits the whole inventory as a document.
type DumpMode struct {
	Format DumpFormat
	// Merge replaces raw host variables with merged views and drops group vars.
	Merge bool
}

// TreeMode prints the group hierarchy below the pattern group.
type TreeMode struct {
	Nodes bool
	// MaxDepth limits the printed engine depth; nil means unlimited.
	MaxDepth *int
}

// HostListMode prints the hosts matching the pattern with a count header.
type HostListMode struct{}

// HostMode is the --host placeholder; it always prints an empty mapping.
type HostMode struct {
	Name string
}

func (DumpMode) mode()     {}
func (TreeMode) mode()     {}
func (HostListMode) mode() {}
func (HostMode) mode()     {}

// Selection is a resolved display mode plus the host pattern it applies to.
type Selection struct {
	Mode    Mode
	Pattern string
}

// Options are the raw mode flags as given on the command line.
type Options struct {
	JSON      bool
	Pretty    bool
	YAML      bool
	Merge     bool
	Tree      bool
	Nodes     bool
	Depth     *int
	ListHosts bool
	Host      string
}

// ResolveMode validates the positional arguments and mode flags and selects a
// single display mode. Every failure is an options error.
func ResolveMode(args []string, opts Options, d ui.Display) (Selection, error) {
	defer perf.Track("render.ResolveMode")()

	if len(args) > 1 {
		return Selection{}, errUtils.OptionsError(errUtils.Build(errUtils.ErrTooManyPatterns).
			WithContext("patterns", strings.Join(args, " ")).
			WithHint("combine patterns with ',' or ':' instead, for example 'web,db'").
			Err())
	}

	pattern := inventory.AllGroup
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		pattern = args[0]
	}

	if opts.Depth != nil && *opts.Depth < 0 {
		return Selection{}, errUtils.OptionsError(errUtils.Build(errUtils.ErrInvalidDepth).
			WithContext("depth", *opts.Depth).
			Err())
	}

	dump := opts.JSON || opts.Pretty || opts.YAML
	host := opts.Host != ""

	selected := 0
	for _, set := range []bool{dump, opts.Tree, opts.ListHosts, host} {
		if set {
			selected++
		}
	}
	switch {
	case selected == 0:
		return Selection{}, errUtils.OptionsError(errUtils.Build(errUtils.ErrNoModeSelected).Err())
	case selected > 1:
		return Selection{}, errUtils.OptionsError(errUtils.Build(errUtils.ErrConflictingModes).
			WithHint("choose one of --list/--yaml, --tree, --list-hosts or --host").
			Err())
	}

	if !opts.Tree && (opts.Nodes || opts.Depth != nil) {
		d.Warning("--nodes and --depth only apply to --tree and are ignored")
	}
	if opts.Merge && !dump {
		d.Warning("--merge only applies to --list and --yaml and is ignored")
	}

	var m Mode
	switch {
	case dump:
		format, err := dumpFormat(opts)
		if err != nil {
			return Selection{}, err
		}
		m = DumpMode{Format: format, Merge: opts.Merge}
	case opts.Tree:
		m = TreeMode{Nodes: opts.Nodes, MaxDepth: opts.Depth}
	case opts.ListHosts:
		m = HostListMode{}
	default:
		m = HostMode{Name: opts.Host}
	}

	return Selection{Mode: m, Pattern: pattern}, nil
}

// dumpFormat applies the tie-break: --pretty means indented JSON even when
// --yaml is also given.
func dumpFormat(opts Options) (DumpFormat, error) {
	switch {
	case opts.Pretty:
		return FormatPrettyJSON, nil
	case opts.JSON && opts.YAML:
		return 0, errUtils.OptionsError(errUtils.Build(errUtils.ErrConflictingModes).
			WithExplanation("--json and --yaml cannot be combined").
			WithHint("drop one of --json or --yaml").
			Err())
	case opts.YAML:
		return FormatYAML, nil
	default:
		return FormatJSON, nil
	}
}
