package source

import (
	"context"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/inventory"
	"github.com/cloudposse/invctl/pkg/vault"
)

type recordingWarner struct {
	warnings []string
}

func (r *recordingWarner) Warning(text string) {
	r.warnings = append(r.warnings, text)
}

type groupSummary struct {
	Hosts    []string
	Children []string
	Vars     map[string]interface{}
}

// summarize flattens an inventory into order-independent maps.
func summarize(inv *inventory.Inventory) (map[string]groupSummary, map[string]map[string]interface{}) {
	groups := map[string]groupSummary{}
	for _, g := range inv.Groups() {
		hosts := g.HostNames()
		children := g.ChildNames()
		sort.Strings(hosts)
		sort.Strings(children)
		groups[g.Name] = groupSummary{Hosts: hosts, Children: children, Vars: g.Vars}
	}
	hosts := map[string]map[string]interface{}{}
	for _, h := range inv.Hosts() {
		hosts[h.Name] = h.Vars
	}
	return groups, hosts
}

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
}

func load(t *testing.T, fs afero.Fs, sources []string, opts ...Option) (*inventory.Inventory, *recordingWarner, error) {
	t.Helper()
	w := &recordingWarner{}
	l := NewLoader(fs, append([]Option{WithWarner(w)}, opts...)...)
	inv, err := l.Load(context.Background(), sources)
	return inv, w, err
}

const iniInventory = `lonely
[web]
web[1:2] http_port=80
[db]
db1:2222 ansible_user="admin"   # primary
[prod:children]
web
db
[prod:vars]
env=prod
`

const yamlInventory = `ungrouped:
  hosts:
    lonely:
web:
  hosts:
    web[1:2]:
      http_port: 80
db:
  hosts:
    db1:2222:
      ansible_user: admin
prod:
  children:
    web:
    db:
  vars:
    env: prod
`

func TestLoad_INIAndYAMLAgree(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/inv/hosts.ini": iniInventory,
		"/inv/hosts.yml": yamlInventory,
	})

	fromINI, w, err := load(t, fs, []string{"/inv/hosts.ini"})
	require.NoError(t, err)
	assert.Empty(t, w.warnings)

	fromYAML, w, err := load(t, fs, []string{"/inv/hosts.yml"})
	require.NoError(t, err)
	assert.Empty(t, w.warnings)

	iniGroups, iniHosts := summarize(fromINI)
	yamlGroups, yamlHosts := summarize(fromYAML)
	assert.Equal(t, iniGroups, yamlGroups)
	assert.Equal(t, iniHosts, yamlHosts)

	assert.Equal(t, []string{"prod", "ungrouped"}, iniGroups[inventory.AllGroup].Children)
	assert.Equal(t, []string{"lonely"}, iniGroups[inventory.UngroupedGroup].Hosts)
	assert.Equal(t, []string{"web1", "web2"}, iniGroups["web"].Hosts)
	assert.Equal(t, map[string]interface{}{"env": "prod"}, iniGroups["prod"].Vars)
	assert.Equal(t, map[string]interface{}{"http_port": 80}, iniHosts["web1"])
	assert.Equal(t, map[string]interface{}{"ansible_port": 2222, "ansible_user": "admin"}, iniHosts["db1"])
}

func TestLoad_Directory(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/inv/01-web.ini":           "[web]\nweb1\n",
		"/inv/02-db.yml":            "db:\n  hosts:\n    db1:\n",
		"/inv/nested/03-cache.ini":  "[cache]\ncache1\n",
		"/inv/.hidden":              "this is not an inventory",
		"/inv/README.md":            "# not an inventory",
		"/inv/group_vars/web.yml":   "http_port: 8080\n",
		"/inv/host_vars/db1.yaml":   "ansible_host: 10.0.0.5\n",
		"/inv/host_vars/ghost.yaml": "ansible_host: 10.0.0.9\n",
	})

	inv, w, err := load(t, fs, []string{"/inv"})
	require.NoError(t, err)
	assert.Empty(t, w.warnings)

	groups, hosts := summarize(inv)
	assert.Equal(t, []string{"cache", "db", "ungrouped", "web"}, groups[inventory.AllGroup].Children)
	assert.Equal(t, []string{"web1"}, groups["web"].Hosts)
	assert.Equal(t, 8080, groups["web"].Vars["http_port"])
	assert.Equal(t, "10.0.0.5", hosts["db1"]["ansible_host"])

	_, ok := inv.Host("ghost")
	assert.False(t, ok, "host_vars must not create hosts")
}

func TestLoad_HostVarsDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/inv/hosts":                     "[web]\nweb1\n",
		"/inv/host_vars/web1/10-a.yml":   "a: 1\nshared: from-a\n",
		"/inv/host_vars/web1/20-b.json":  `{"b": 2, "shared": "from-b"}`,
		"/inv/host_vars/web1/.ignored":   "a: 100\n",
		"/inv/group_vars/all/common.yml": "ntp: pool.ntp.org\n",
	})

	inv, _, err := load(t, fs, []string{"/inv/hosts"})
	require.NoError(t, err)

	web1, ok := inv.Host("web1")
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2, "shared": "from-b"}, web1.Vars)

	all, _ := inv.Group(inventory.AllGroup)
	assert.Equal(t, "pool.ntp.org", all.Vars["ntp"])
}

func TestLoad_VarsFileMustBeMapping(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/inv/hosts":              "[web]\nweb1\n",
		"/inv/group_vars/web.yml": "- not\n- a mapping\n",
	})

	_, _, err := load(t, fs, []string{"/inv/hosts"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUtils.ErrVarsNotMapping))
	assert.Equal(t, errUtils.ExitCodeParserError, errUtils.GetExitCode(err))
}

// denyOpenFs fails every Open of path with a permission error.
type denyOpenFs struct {
	afero.Fs
	path string
}

func (d denyOpenFs) Open(name string) (afero.File, error) {
	if name == d.path {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return d.Fs.Open(name)
}

func TestLoad_UnreadableVarsDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/inv/hosts":              "[web]\nweb1\n",
		"/inv/group_vars/web.yml": "port: 80\n",
	})

	_, _, err := load(t, denyOpenFs{Fs: fs, path: "/inv/group_vars"}, []string{"/inv/hosts"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUtils.ErrInventoryParse))
	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.Equal(t, errUtils.ExitCodeParserError, errUtils.GetExitCode(err))
}

func TestLoad_VarsDirIsAFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/inv/hosts":      "[web]\nweb1\n",
		"/inv/group_vars": "not a directory\n",
	})

	inv, _, err := load(t, fs, []string{"/inv/hosts"})
	require.NoError(t, err)
	_, ok := inv.Host("web1")
	assert.True(t, ok)
}

func TestLoad_HostList(t *testing.T) {
	inv, w, err := load(t, afero.NewMemMapFs(), []string{"h1, h2:2222,"})
	require.NoError(t, err)
	assert.Empty(t, w.warnings)

	ungrouped, _ := inv.Group(inventory.UngroupedGroup)
	assert.Equal(t, []string{"h1", "h2"}, ungrouped.HostNames())

	h2, _ := inv.Host("h2")
	assert.Equal(t, 2222, h2.Vars["ansible_port"])
}

func TestLoad_MissingSource(t *testing.T) {
	inv, w, err := load(t, afero.NewMemMapFs(), []string{"/nope"})
	require.NoError(t, err)
	assert.Empty(t, inv.Hosts())
	assert.Equal(t, []string{
		"Unable to parse /nope as an inventory source",
		noInventoryWarning,
	}, w.warnings)
}

func TestLoad_MalformedSource(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown section type", content: "[web:bogus]\nweb1\n"},
		{name: "vars for undefined group", content: "[ghost:vars]\na=1\n"},
		{name: "bad host variable", content: "[web]\nweb1 novalue\n"},
		{name: "bad range", content: "[web]\nweb[3:1]\n"},
		{name: "child cycle", content: "[a:children]\nb\n[b:children]\na\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFiles(t, fs, map[string]string{"/inv/hosts.ini": tt.content})

			_, _, err := load(t, fs, []string{"/inv/hosts.ini"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errUtils.ErrInventoryParse))
			assert.Equal(t, errUtils.ExitCodeParserError, errUtils.GetExitCode(err))
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/inv/hosts.yml": "web:\n  hosts: [web1, web2]\n"})

	_, _, err := load(t, fs, []string{"/inv/hosts.yml"})
	require.Error(t, err)
	assert.Equal(t, errUtils.ExitCodeParserError, errUtils.GetExitCode(err))
}

func TestLoad_YAMLWarnings(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/inv/empty.yml": "",
		"/inv/odd.yml":   "web:\n  hosts:\n    web1:\n  unknown: 1\nbroken: 3\n",
	})

	inv, w, err := load(t, fs, []string{"/inv/empty.yml", "/inv/odd.yml"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Skipping empty YAML inventory source",
		`Skipping unexpected key (unknown) in group (web), only "vars", "children" and "hosts" are valid`,
		"Skipping 'broken' as this is not a valid group definition",
	}, w.warnings)

	_, ok := inv.Host("web1")
	assert.True(t, ok)
}

func TestLoad_YAMLMergeKeys(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/inv/hosts.yml": `web:
  vars:
    base: &base
      user: deploy
      shell: bash
    login:
      <<: *base
      shell: zsh
  hosts:
    web1:
`})

	inv, _, err := load(t, fs, []string{"/inv/hosts.yml"})
	require.NoError(t, err)

	web, _ := inv.Group("web")
	assert.Equal(t, map[string]interface{}{"user": "deploy", "shell": "zsh"}, web.Vars["login"])
}

func TestLoad_JSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/inv/dump.json": `{
		"all": {"children": ["ungrouped", "web"]},
		"ungrouped": {"hosts": []},
		"web": {"hosts": ["web1"], "vars": {"http_port": 80, "ratio": 1.5}, "children": []},
		"legacy": ["old1"],
		"_meta": {"hostvars": {"web1": {"ansible_host": "10.0.0.1"}}}
	}`})

	inv, _, err := load(t, fs, []string{"/inv/dump.json"})
	require.NoError(t, err)

	groups, hosts := summarize(inv)
	assert.Equal(t, []string{"legacy", "ungrouped", "web"}, groups[inventory.AllGroup].Children)
	assert.Equal(t, map[string]interface{}{"http_port": 80, "ratio": 1.5}, groups["web"].Vars)
	assert.Equal(t, []string{"old1"}, groups["legacy"].Hosts)
	assert.Equal(t, map[string]interface{}{"ansible_host": "10.0.0.1"}, hosts["web1"])
}

func TestLoad_VaultEncryptedFile(t *testing.T) {
	secret := vault.NewSecret([]byte("s3cret"))
	ciphertext, err := vault.Encrypt([]byte("[web]\nweb1\n"), secret, "")
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/inv/hosts": string(ciphertext)})

	t.Run("with secret", func(t *testing.T) {
		inv, _, err := load(t, fs, []string{"/inv/hosts"}, WithSecret(secret))
		require.NoError(t, err)
		web, ok := inv.Group("web")
		require.True(t, ok)
		assert.Equal(t, []string{"web1"}, web.HostNames())
	})

	t.Run("without secret", func(t *testing.T) {
		_, _, err := load(t, fs, []string{"/inv/hosts"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errUtils.ErrVaultNoSecret))
		assert.Equal(t, errUtils.ExitCodeParserError, errUtils.GetExitCode(err))
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, _, err := load(t, fs, []string{"/inv/hosts"}, WithSecret(vault.NewSecret([]byte("nope"))))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errUtils.ErrVaultHMAC))
		assert.Equal(t, errUtils.ExitCodeParserError, errUtils.GetExitCode(err))
	})
}

func TestLoad_InlineVault(t *testing.T) {
	secret := vault.NewSecret([]byte("s3cret"))
	ciphertext, err := vault.Encrypt([]byte("hunter2"), secret, "")
	require.NoError(t, err)

	var doc strings.Builder
	doc.WriteString("web:\n  hosts:\n    web1:\n      db_password: !vault |\n")
	for _, line := range strings.Split(strings.TrimSpace(string(ciphertext)), "\n") {
		doc.WriteString("        " + line + "\n")
	}

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/inv/hosts.yml": doc.String()})

	inv, _, err := load(t, fs, []string{"/inv/hosts.yml"}, WithSecret(secret))
	require.NoError(t, err)
	web1, _ := inv.Host("web1")
	assert.Equal(t, "hunter2", web1.Vars["db_password"])

	inv, _, err = load(t, fs, []string{"/inv/hosts.yml"})
	require.NoError(t, err)
	web1, _ = inv.Host("web1")
	encrypted, ok := web1.Vars["db_password"].(vault.EncryptedString)
	require.True(t, ok)
	assert.True(t, vault.IsEncrypted([]byte(encrypted.Ciphertext)))
}

func TestLoad_Interrupted(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/inv/hosts": "[web]\nweb1\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(fs).Load(ctx, []string{"/inv/hosts"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUtils.ErrInterrupted))
	assert.Equal(t, errUtils.ExitCodeInterrupted, errUtils.GetExitCode(err))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
		want format
	}{
		{name: "yml extension", path: "hosts.yml", data: "[web]", want: formatYAML},
		{name: "yaml extension", path: "hosts.YAML", data: "", want: formatYAML},
		{name: "json extension", path: "dump.json", data: "{}", want: formatJSON},
		{name: "yaml content", path: "hosts", data: "web:\n  hosts:\n    web1:\n", want: formatYAML},
		{name: "ini content", path: "hosts", data: "[web]\nweb1\n", want: formatINI},
		{name: "plain host line", path: "hosts", data: "web1 ansible_port=22\n", want: formatINI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectFormat(tt.path, []byte(tt.data)))
		})
	}
}
