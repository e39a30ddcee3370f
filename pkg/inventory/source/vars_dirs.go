package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/inventory"
	log "github.com/cloudposse/invctl/pkg/logger"
	"github.com/cloudposse/invctl/pkg/perf"
)

// varsExtensions are the file names accepted in group_vars/host_vars, in
// addition to entries named exactly after the group or host.
var varsExtensions = []string{".yml", ".yaml", ".json"}

// loadVarsDirs applies <dir>/group_vars and <dir>/host_vars to the groups and
// hosts already in inv. Files for unknown groups or hosts are ignored.
func (l *Loader) loadVarsDirs(inv *inventory.Inventory, dir string) error {
	defer perf.Track("source.Loader.loadVarsDirs")()

	for _, g := range inv.Groups() {
		vars, err := l.readVars(filepath.Join(dir, groupVarsDir), g.Name)
		if err != nil {
			return err
		}
		for _, k := range sortedKeys(vars) {
			if err := g.SetVar(k, vars[k]); err != nil {
				return err
			}
		}
	}

	for _, h := range inv.Hosts() {
		vars, err := l.readVars(filepath.Join(dir, hostVarsDir), h.Name)
		if err != nil {
			return err
		}
		for k, v := range vars {
			h.Vars[k] = v
		}
	}
	return nil
}

// readVars merges every vars file for name under base, in lexical order:
// `name`, `name.yml`, `name.yaml`, `name.json` and any file below a `name/`
// directory.
func (l *Loader) readVars(base, name string) (map[string]interface{}, error) {
	info, err := l.fs.Stat(base)
	switch {
	case os.IsNotExist(err):
		return nil, nil
	case err != nil:
		return nil, parseError(base, err)
	case !info.IsDir():
		return nil, nil
	}

	entries, err := afero.ReadDir(l.fs, base)
	if err != nil {
		return nil, parseError(base, err)
	}

	var files []string
	for _, entry := range entries {
		entryName := entry.Name()
		if strings.HasPrefix(entryName, ".") {
			continue
		}
		full := filepath.Join(base, entryName)
		switch {
		case entry.IsDir() && entryName == name:
			nested, err := l.collectVarsFiles(full)
			if err != nil {
				return nil, err
			}
			files = append(files, nested...)
		case !entry.IsDir() && isVarsFileFor(entryName, name):
			files = append(files, full)
		}
	}

	result := map[string]interface{}{}
	for _, file := range files {
		vars, err := l.readVarsFile(file)
		if err != nil {
			return nil, err
		}
		for k, v := range vars {
			result[k] = v
		}
	}
	return result, nil
}

func isVarsFileFor(fileName, name string) bool {
	if fileName == name {
		return true
	}
	for _, ext := range varsExtensions {
		if fileName == name+ext {
			return true
		}
	}
	return false
}

func (l *Loader) collectVarsFiles(dir string) ([]string, error) {
	var files []string
	err := afero.Walk(l.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(info.Name(), ".") && path != dir {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext == "" || isVarsFileFor(info.Name(), strings.TrimSuffix(info.Name(), ext)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, parseError(dir, err)
	}
	return files, nil
}

func (l *Loader) readVarsFile(path string) (map[string]interface{}, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, parseError(path, err)
	}
	data, err = l.decryptFile(path, data)
	if err != nil {
		return nil, err
	}

	root, err := decodeYAMLDocument(data)
	if err != nil {
		return nil, parseError(path, err)
	}
	if root == nil {
		return nil, nil
	}
	value, err := nodeToValue(root, l.secret)
	if err != nil {
		return nil, parseError(path, err)
	}
	vars, ok := value.(map[string]interface{})
	if !ok {
		return nil, parseError(path, errUtils.ErrVarsNotMapping)
	}
	log.Trace("Loaded vars file", "file", path, "keys", len(vars))
	return vars, nil
}
