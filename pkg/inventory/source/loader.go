// Package source populates an inventory from INI, YAML and JSON files,
// comma separated host lists, directories of those, and the
// group_vars/host_vars directories next to them.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/inventory"
	log "github.com/cloudposse/invctl/pkg/logger"
	"github.com/cloudposse/invctl/pkg/perf"
	"github.com/cloudposse/invctl/pkg/vault"
)

const (
	groupVarsDir = "group_vars"
	hostVarsDir  = "host_vars"

	noInventoryWarning = "No inventory was parsed, only implicit localhost is available"
)

// ignoredExtensions are skipped when loading a directory source.
var ignoredExtensions = []string{".retry", ".md", ".txt", ".orig", ".ini~", ".cfg", ".pyc"}

// Loader builds an inventory from a list of sources.
type Loader struct {
	fs     afero.Fs
	secret *vault.Secret
	warner inventory.Warner

	varsDirs []string
}

// Option configures a Loader.
type Option func(*Loader)

// WithSecret sets the vault password used to decrypt encrypted files and values.
func WithSecret(secret *vault.Secret) Option {
	return func(l *Loader) {
		l.secret = secret
	}
}

// WithWarner sets the sink for non-fatal diagnostics.
func WithWarner(w inventory.Warner) Option {
	return func(l *Loader) {
		l.warner = w
	}
}

// NewLoader creates a Loader reading through fs.
func NewLoader(fs afero.Fs, opts ...Option) *Loader {
	l := &Loader{fs: fs}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses every source in order and returns the reconciled inventory.
// Missing sources are reported and skipped; malformed ones fail with a parser
// error. The context is checked between sources.
func (l *Loader) Load(ctx context.Context, sources []string) (*inventory.Inventory, error) {
	defer perf.Track("source.Loader.Load")()

	inv := inventory.New()
	l.varsDirs = nil

	parsed := 0
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, errUtils.Build(errUtils.ErrInterrupted).WithCause(err).Err()
		}
		ok, err := l.loadSource(ctx, inv, src)
		if err != nil {
			return nil, err
		}
		if ok {
			parsed++
		}
	}
	if parsed == 0 {
		l.warn(noInventoryWarning)
	}

	inv.Reconcile()

	for _, dir := range lo.Uniq(l.varsDirs) {
		if err := l.loadVarsDirs(inv, dir); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

func (l *Loader) loadSource(ctx context.Context, inv *inventory.Inventory, src string) (bool, error) {
	path := expandHome(src)

	info, err := l.fs.Stat(path)
	if err != nil {
		if strings.Contains(src, ",") {
			log.Debug("Parsing host list", "source", src)
			return true, parseHostList(inv, src)
		}
		l.warn(fmt.Sprintf("Unable to parse %s as an inventory source", src))
		return false, nil
	}

	if info.IsDir() {
		return l.loadDir(ctx, inv, path)
	}

	if err := l.loadFile(inv, path); err != nil {
		return false, err
	}
	l.varsDirs = append(l.varsDirs, filepath.Dir(path))
	return true, nil
}

func (l *Loader) loadDir(ctx context.Context, inv *inventory.Inventory, dir string) (bool, error) {
	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return false, parseError(dir, err)
	}

	parsed := false
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return false, errUtils.Build(errUtils.ErrInterrupted).WithCause(err).Err()
		}
		name := entry.Name()
		if skipDirEntry(name, entry.IsDir()) {
			log.Trace("Skipping inventory directory entry", "path", filepath.Join(dir, name))
			continue
		}
		full := filepath.Join(dir, name)
		if entry.IsDir() {
			ok, err := l.loadDir(ctx, inv, full)
			if err != nil {
				return false, err
			}
			parsed = parsed || ok
			continue
		}
		if err := l.loadFile(inv, full); err != nil {
			return false, err
		}
		parsed = true
	}
	l.varsDirs = append(l.varsDirs, dir)
	return parsed, nil
}

func skipDirEntry(name string, isDir bool) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if isDir {
		return name == groupVarsDir || name == hostVarsDir
	}
	return lo.SomeBy(ignoredExtensions, func(ext string) bool {
		return strings.HasSuffix(name, ext)
	})
}

func (l *Loader) loadFile(inv *inventory.Inventory, path string) error {
	defer perf.Track("source.Loader.loadFile")()

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return parseError(path, err)
	}
	data, err = l.decryptFile(path, data)
	if err != nil {
		return err
	}

	switch format := detectFormat(path, data); format {
	case formatYAML:
		log.Debug("Parsing YAML inventory", "source", path)
		err = parseYAML(inv, data, l)
	case formatJSON:
		log.Debug("Parsing JSON inventory", "source", path)
		err = parseJSON(inv, data, l.secret)
	default:
		log.Debug("Parsing INI inventory", "source", path)
		err = parseINI(inv, data)
	}
	if err != nil {
		return parseError(path, err)
	}
	return nil
}

// decryptFile decrypts a fully vault-encrypted file.
func (l *Loader) decryptFile(path string, data []byte) ([]byte, error) {
	if !vault.IsEncrypted(data) {
		return data, nil
	}
	if l.secret == nil {
		return nil, errUtils.ParserError(errUtils.Build(errUtils.ErrVaultNoSecret).
			WithContext("source", path).
			WithHint("pass --vault-password-file or --ask-vault-pass to read encrypted inventory files").
			Err())
	}
	plaintext, err := vault.Decrypt(data, l.secret)
	if err != nil {
		return nil, errUtils.ParserError(errUtils.Build(err).WithContext("source", path).Err())
	}
	return plaintext, nil
}

func (l *Loader) warn(text string) {
	if l.warner != nil {
		l.warner.Warning(text)
		return
	}
	log.Warn(text)
}

func parseError(path string, err error) error {
	return errUtils.ParserError(errUtils.Build(errUtils.ErrInventoryParse).
		WithCause(err).
		WithContext("source", path).
		Err())
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

type format int

const (
	formatINI format = iota
	formatYAML
	formatJSON
)

func detectFormat(path string, data []byte) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return formatYAML
	case ".json":
		return formatJSON
	}
	if looksLikeYAMLInventory(data) {
		return formatYAML
	}
	return formatINI
}
