package vault

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/term"

	errUtils "github.com/cloudposse/invctl/errors"
	log "github.com/cloudposse/invctl/pkg/logger"
)

// ReadPasswordFile reads a vault password from path. The file is opened, read
// and closed before returning; trailing whitespace is stripped.
func ReadPasswordFile(fs afero.Fs, path string) (*Secret, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrVaultPasswordRead).
			WithCause(err).
			WithContext("file", path).
			Err()
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrVaultPasswordRead).
			WithCause(err).
			WithContext("file", path).
			Err()
	}

	password := strings.TrimRight(string(data), " \t\r\n")
	if password == "" {
		return nil, errUtils.Build(errUtils.ErrVaultPasswordEmpty).
			WithContext("file", path).
			Err()
	}
	log.Debug("Read vault password", "file", path)

	return NewSecret([]byte(password)), nil
}

// readPassword is replaced in tests.
var readPassword = term.ReadPassword

// PromptPassword asks for the vault password on the terminal behind in,
// echoing the prompt on out. in must be a terminal file such as os.Stdin.
func PromptPassword(in io.Reader, out io.Writer) (*Secret, error) {
	f, ok := in.(interface{ Fd() uintptr })
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil, errUtils.Build(errUtils.ErrVaultPasswordPrompt).
			WithExplanation("standard input is not a terminal").
			WithHint("use --vault-password-file when input is redirected").
			Err()
	}
	return promptPassword(int(f.Fd()), out)
}

func promptPassword(fd int, out io.Writer) (*Secret, error) {
	if _, err := fmt.Fprint(out, "Vault password: "); err != nil {
		return nil, errUtils.Build(errUtils.ErrVaultPasswordPrompt).WithCause(err).Err()
	}
	password, err := readPassword(fd)
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrVaultPasswordPrompt).WithCause(err).Err()
	}
	if len(password) == 0 {
		return nil, errUtils.Build(errUtils.ErrVaultPasswordEmpty).Err()
	}
	return NewSecret(password), nil
}
