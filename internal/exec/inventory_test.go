package exec

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/io"
	"github.com/cloudposse/invctl/pkg/render"
	"github.com/cloudposse/invctl/pkg/schema"
	"github.com/cloudposse/invctl/pkg/ui"
	"github.com/cloudposse/invctl/pkg/vault"
)

type testRun struct {
	params *InventoryParams
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestRun(t *testing.T, files map[string]string, sources []string, mode render.Mode, pattern string) *testRun {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o600))
	}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	ioCtx := io.NewContext(io.WithStreams(&bytes.Buffer{}, stdout, stderr))

	return &testRun{
		params: &InventoryParams{
			Config: &schema.Configuration{
				Inventory:     sources,
				HashBehaviour: "replace",
			},
			Selection: render.Selection{Mode: mode, Pattern: pattern},
			Fs:        fs,
			IO:        ioCtx,
			Display:   ui.NewDisplay(ioCtx, ui.NewStyleSet(false), false),
		},
		stdout: stdout,
		stderr: stderr,
	}
}

func TestExecuteInventory_List(t *testing.T) {
	run := newTestRun(t, map[string]string{"/etc/ansible/hosts": "[web]\nweb1\n"},
		[]string{"/etc/ansible/hosts"}, render.DumpMode{Format: render.FormatJSON}, "all")

	require.NoError(t, ExecuteInventory(context.Background(), run.params))

	assert.Equal(t,
		`{"_meta":{"hostvars":{"web1":{}}},`+
			`"all":{"children":["ungrouped","web"],"hosts":[],"vars":{}},`+
			`"ungrouped":{"children":[],"hosts":[],"vars":{}},`+
			`"web":{"children":[],"hosts":["web1"],"vars":{}}}`+"\n",
		run.stdout.String())
	assert.Empty(t, run.stderr.String())
}

func TestExecuteInventory_ListHostsEmpty(t *testing.T) {
	run := newTestRun(t, nil, []string{"/missing"}, render.HostListMode{}, "all")

	require.NoError(t, ExecuteInventory(context.Background(), run.params))

	assert.Equal(t, "  hosts (0):\n", run.stdout.String())
	assert.Contains(t, run.stderr.String(), "[WARNING]: Unable to parse /missing as an inventory source")
	assert.Contains(t, run.stderr.String(), "[WARNING]: No inventory was parsed, only implicit localhost is available")
	assert.Contains(t, run.stderr.String(), "[WARNING]: "+render.EmptyHostsWarning)
}

func TestExecuteInventory_VaultPasswordFile(t *testing.T) {
	secret := vault.NewSecret([]byte("s3cret"))
	encrypted, err := vault.Encrypt([]byte("[web]\nweb1 token=s3cret\n"), secret, "")
	require.NoError(t, err)

	run := newTestRun(t, map[string]string{
		"/inv/hosts":   string(encrypted),
		"/home/.vault": "s3cret\n",
	}, []string{"/inv/hosts"}, render.DumpMode{Format: render.FormatJSON}, "all")
	run.params.Config.Vault.PasswordFile = "/home/.vault"

	require.NoError(t, ExecuteInventory(context.Background(), run.params))

	assert.Contains(t, run.stdout.String(), `"web1":{"token":"s3cret"}`)
	assert.NotContains(t, run.stdout.String(), io.MaskReplacement)
}

func TestExecuteInventory_PasswordDoesNotAlterData(t *testing.T) {
	run := newTestRun(t, map[string]string{
		"/inv/hosts":   "[web]\nweb1\nweb2\n",
		"/home/.vault": "web\n",
	}, []string{"/inv/hosts"}, render.HostListMode{}, "all")
	run.params.Config.Vault.PasswordFile = "/home/.vault"

	require.NoError(t, ExecuteInventory(context.Background(), run.params))

	assert.Equal(t, "  hosts (2):\n    web1\n    web2\n", run.stdout.String())
}

func TestExecuteInventory_AskVaultPassWithoutTerminal(t *testing.T) {
	run := newTestRun(t, map[string]string{"/inv/hosts": "[db]\ndb1\n"},
		[]string{"/inv/hosts"}, render.HostListMode{}, "db")
	run.params.Config.Vault.AskPass = true

	err := ExecuteInventory(context.Background(), run.params)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUtils.ErrVaultPasswordPrompt))
	assert.Empty(t, run.stdout.String())
}

func TestExecuteInventory_AskVaultPass(t *testing.T) {
	secret := vault.NewSecret([]byte("s3cret"))
	encrypted, err := vault.Encrypt([]byte("[db]\ndb1\n"), secret, "")
	require.NoError(t, err)

	run := newTestRun(t, map[string]string{"/inv/hosts": string(encrypted)},
		[]string{"/inv/hosts"}, render.HostListMode{}, "db")
	run.params.Config.Vault.AskPass = true

	prompted := 0
	run.params.PromptPassword = func() (*vault.Secret, error) {
		prompted++
		return secret, nil
	}

	require.NoError(t, ExecuteInventory(context.Background(), run.params))
	assert.Equal(t, 1, prompted)
	assert.Equal(t, "  hosts (1):\n    db1\n", run.stdout.String())
}

func TestExecuteInventory_Errors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		setup    func(*InventoryParams)
		mode     render.Mode
		pattern  string
		wantErr  error
		wantCode int
	}{
		{
			name:     "missing password file",
			setup:    func(p *InventoryParams) { p.Config.Vault.PasswordFile = "/nope" },
			mode:     render.HostListMode{},
			wantErr:  errUtils.ErrVaultPasswordRead,
			wantCode: errUtils.ExitCodeError,
		},
		{
			name:     "empty password file",
			files:    map[string]string{"/vault": "\n"},
			setup:    func(p *InventoryParams) { p.Config.Vault.PasswordFile = "/vault" },
			mode:     render.HostListMode{},
			wantErr:  errUtils.ErrVaultPasswordEmpty,
			wantCode: errUtils.ExitCodeError,
		},
		{
			name:     "invalid hash behaviour",
			setup:    func(p *InventoryParams) { p.Config.HashBehaviour = "append" },
			mode:     render.HostListMode{},
			wantErr:  errUtils.ErrInvalidHashBehaviour,
			wantCode: errUtils.ExitCodeOptions,
		},
		{
			name:     "malformed source",
			files:    map[string]string{"/inv/hosts": "[web:nonsense]\n"},
			mode:     render.HostListMode{},
			wantErr:  errUtils.ErrInventoryParse,
			wantCode: errUtils.ExitCodeParserError,
		},
		{
			name:     "tree of a host",
			files:    map[string]string{"/inv/hosts": "[web]\nweb1\n"},
			mode:     render.TreeMode{},
			pattern:  "web1",
			wantErr:  errUtils.ErrGroupNotFound,
			wantCode: errUtils.ExitCodeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern := tt.pattern
			if pattern == "" {
				pattern = "all"
			}
			run := newTestRun(t, tt.files, []string{"/inv/hosts"}, tt.mode, pattern)
			if tt.setup != nil {
				tt.setup(run.params)
			}

			err := ExecuteInventory(context.Background(), run.params)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.Equal(t, tt.wantCode, errUtils.GetExitCode(err))
			assert.Empty(t, run.stdout.String())
		})
	}
}

func TestExecuteInventory_Cancelled(t *testing.T) {
	run := newTestRun(t, map[string]string{"/inv/hosts": "[web]\nweb1\n"},
		[]string{"/inv/hosts"}, render.HostListMode{}, "all")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ExecuteInventory(ctx, run.params)
	require.Error(t, err)
	assert.Equal(t, errUtils.ExitCodeInterrupted, errUtils.GetExitCode(err))
}
