package kdb1

import "github.com/keepassgo/kdb1/pkg/kdb1/logging"

// OpenOptions configures Open. Path is required; at least one of Password
// or Keyfile must be set, matching KeePass 1.x's "at least one credential"
// rule.
type OpenOptions struct {
	// Path is the filesystem path of the .kdb file to open.
	Path string

	// Password is the user passphrase, if any. Open keeps it on the
	// returned Vault so that Save can reuse it, until Lock or Close clears
	// it; callers that hold their own copy should ZeroizeString it once
	// Open returns.
	Password string

	// Keyfile is the filesystem path of a keyfile, if any.
	Keyfile string

	// ReadOnly opens the vault without taking the sidecar lock file,
	// matching kppy's read-only load path. Save fails on a read-only Vault.
	ReadOnly bool

	// Logger receives operation-boundary and anomaly events. A nil Logger
	// uses logging.Discard().
	Logger logging.Logger
}

// SaveOptions configures Save. A zero-value SaveOptions reuses the path and
// credentials the Vault was opened or last saved with.
type SaveOptions struct {
	// Path overrides the vault's on-disk path for this save, leaving the
	// Vault's remembered path unchanged unless the save succeeds.
	Path string

	// Password overrides the vault's password for this save. An empty
	// string together with Keyfile left unset reuses the existing
	// credentials rather than clearing them.
	Password string

	// Keyfile overrides the vault's keyfile for this save.
	Keyfile string

	// KeyTransformRounds overrides the number of AES key-stretch rounds
	// used to derive the save key, clamped to a minimum of 150000. Zero
	// reuses the Vault's current value.
	KeyTransformRounds uint32
}

func (o OpenOptions) logger() logging.Logger {
	if o.Logger == nil {
		return logging.Discard()
	}
	return o.Logger
}
