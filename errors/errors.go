package errors

import (
	"github.com/cockroachdb/errors"
)

// Exit codes returned by invctl.
const (
	ExitCodeSuccess     = 0
	ExitCodeError       = 1
	ExitCodeParserError = 4
	ExitCodeOptions     = 5
	ExitCodeInterrupted = 99
	ExitCodeUnexpected  = 250
)

// Options errors.
var (
	ErrInvalidOptions       = errors.New("invalid options")
	ErrTooManyPatterns      = errors.New("only one host pattern may be given")
	ErrNoModeSelected       = errors.New("no action selected, at least one of --host, --list, --yaml, --tree or --list-hosts needs to be specified")
	ErrConflictingModes     = errors.New("conflicting display modes selected")
	ErrInvalidDepth         = errors.New("tree depth must be zero or greater")
	ErrInvalidHashBehaviour = errors.New("invalid hash_behaviour")
	ErrInvalidLogLevel      = errors.New("invalid log level")
)

// Inventory engine errors.
var (
	ErrInventoryParse     = errors.New("failed to parse inventory source")
	ErrGroupNotFound      = errors.New("group not found")
	ErrGroupCycle         = errors.New("group hierarchy would contain a cycle")
	ErrInvalidGroupName   = errors.New("invalid group name")
	ErrInvalidHostRange   = errors.New("invalid host range")
	ErrInvalidHostPattern = errors.New("invalid host pattern")
	ErrReservedGroup      = errors.New("group name is reserved")
	ErrInterrupted        = errors.New("user interrupted execution")
	ErrVarsNotMapping     = errors.New("vars file must contain a mapping at the top level")
	ErrUnexpected         = errors.New("unexpected error, this is probably a bug")
)

// Vault errors.
var (
	ErrVaultFormat         = errors.New("input is not vault encrypted data")
	ErrVaultUnsupported    = errors.New("unsupported vault format")
	ErrVaultHMAC           = errors.New("HMAC verification failed, wrong vault password")
	ErrVaultPadding        = errors.New("invalid vault plaintext padding")
	ErrVaultNoSecret       = errors.New("attempting to decrypt but no vault secrets found")
	ErrVaultPasswordEmpty  = errors.New("vault password is empty")
	ErrVaultPasswordRead   = errors.New("failed to read vault password")
	ErrVaultPasswordPrompt = errors.New("failed to prompt for vault password")
)

// Configuration and output errors.
var (
	ErrLoadConfig   = errors.New("failed to load configuration")
	ErrRender       = errors.New("failed to render inventory")
	ErrWriteOutput  = errors.New("failed to write output")
	ErrOpenLogsFile = errors.New("failed to open logs file")
)
