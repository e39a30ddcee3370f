package exec

import (
	"context"

	"github.com/spf13/afero"

	errUtils "github.com/cloudposse/invctl/errors"
	"github.com/cloudposse/invctl/pkg/inventory"
	"github.com/cloudposse/invctl/pkg/inventory/source"
	"github.com/cloudposse/invctl/pkg/io"
	log "github.com/cloudposse/invctl/pkg/logger"
	"github.com/cloudposse/invctl/pkg/perf"
	"github.com/cloudposse/invctl/pkg/render"
	"github.com/cloudposse/invctl/pkg/schema"
	"github.com/cloudposse/invctl/pkg/ui"
	"github.com/cloudposse/invctl/pkg/vault"
)

// InventoryParams holds the resolved inputs of a single run.
type InventoryParams struct {
	Config    *schema.Configuration
	Selection render.Selection

	Fs      afero.Fs
	IO      io.Context
	Display ui.Display

	// PromptPassword asks for the vault password when --ask-vault-pass is
	// set. Nil means the terminal prompt on stdin.
	PromptPassword func() (*vault.Secret, error)
}

// ExecuteInventory loads the configured inventory sources and renders the
// selected view to the data stream.
func ExecuteInventory(ctx context.Context, params *InventoryParams) error {
	defer perf.Track("exec.ExecuteInventory")()

	behaviour, err := inventory.ParseHashBehaviour(params.Config.HashBehaviour)
	if err != nil {
		return errUtils.OptionsError(err)
	}

	secret, err := readVaultSecret(params)
	if err != nil {
		return err
	}
	if secret != nil {
		params.IO.Masker().RegisterSecret(string(secret.Bytes()))
	}

	loader := source.NewLoader(params.Fs,
		source.WithSecret(secret),
		source.WithWarner(params.Display),
	)
	inv, err := loader.Load(ctx, params.Config.Inventory)
	if err != nil {
		return err
	}
	log.Debug("Loaded inventory",
		"sources", params.Config.Inventory,
		"groups", len(inv.Groups()),
		"hosts", len(inv.Hosts()),
	)

	if err := ctx.Err(); err != nil {
		return errUtils.Build(errUtils.ErrInterrupted).WithCause(err).Err()
	}

	return render.Render(params.IO.Data(), inv, params.Selection, behaviour, params.Display)
}

// readVaultSecret returns the vault password, or nil when none is configured.
// A password file takes precedence over the prompt.
func readVaultSecret(params *InventoryParams) (*vault.Secret, error) {
	switch {
	case params.Config.Vault.PasswordFile != "":
		return vault.ReadPasswordFile(params.Fs, params.Config.Vault.PasswordFile)
	case params.Config.Vault.AskPass:
		if params.PromptPassword != nil {
			return params.PromptPassword()
		}
		return vault.PromptPassword(params.IO.Input(), params.IO.UI())
	default:
		return nil, nil
	}
}
