package kdb1

import (
	"context"
	"os"

	"github.com/keepassgo/kdb1/pkg/kdb1/logging"
)

// Vault is an open KeePass 1.x database. Groups and Entries are the flat,
// pre-order arenas the wire format uses: Group.Parent/Children and
// Entry.GroupID reference siblings by id/UUID rather than by pointer, so
// walking the tree means looking ids up in these slices (see GroupByID,
// EntryByUUID) rather than following Go pointers.
type Vault struct {
	Groups  []*Group
	Entries []*Entry

	path     string
	readOnly bool
	logger   logging.Logger

	password string
	keyfile  string

	transfRandomSeed [32]byte
	keyTransfRounds  uint32

	// rootChildren holds the ordered ids of top-level groups. There is no
	// Group object for the (never-serialized) root, so its child order is
	// tracked here rather than on a Children field.
	rootChildren []uint32
}

// topLevelOrder returns the ids of top-level groups, in their current
// flat-list order, for callers (Open, CreateEmpty) that build a Vault from
// a freshly parsed or constructed Groups slice rather than through the
// mutation helpers that keep rootChildren current incrementally.
func topLevelOrder(groups []*Group) []uint32 {
	var ids []uint32
	for _, g := range groups {
		if g.Parent == rootGroupID {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

// GroupByID returns the group with the given id, or nil if none exists.
func (v *Vault) GroupByID(id uint32) *Group {
	for _, g := range v.Groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// EntryByUUID returns the entry with the given UUID, or nil if none exists.
func (v *Vault) EntryByUUID(uuid [16]byte) *Entry {
	for _, e := range v.Entries {
		if e.UUID == uuid {
			return e
		}
	}
	return nil
}

// Open loads a vault from disk, deriving the decryption key from
// opts.Password and/or opts.Keyfile. On success, the vault holds its
// sidecar lock file unless opts.ReadOnly is set.
func Open(opts OpenOptions) (*Vault, error) {
	const op = "Open"
	logger := opts.logger()
	ctx := context.Background()

	if opts.Path == "" {
		return nil, newError(KindNoPath, op, nil)
	}
	if opts.Password == "" && opts.Keyfile == "" {
		return nil, newError(KindMissingCredentials, op, nil)
	}

	raw, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, newError(KindFileIO, op, err)
	}
	if len(raw) < headerSize {
		return nil, newError(KindShortFile, op, nil)
	}

	h, err := parseHeader(raw[:headerSize])
	if err != nil {
		return nil, err
	}
	ciphertext := raw[headerSize:]

	var keyfileKey []byte
	if opts.Keyfile != "" {
		keyfileKey, err = ReadKeyfile(opts.Keyfile)
		if err != nil {
			return nil, err
		}
		defer ZeroizeBytes(keyfileKey)
	}

	finalKey, err := deriveFinalKey(opts.Password, keyfileKey, h.transfRandomSeed[:], h.keyTransfRounds, h.finalRandomSeed[:])
	if err != nil {
		return nil, err
	}
	defer ZeroizeBytes(finalKey)

	plaintext, err := decryptBody(ciphertext, finalKey, h.encIV[:], h.contentsHash[:], h.numGroups)
	if err != nil {
		return nil, err
	}
	defer ZeroizeBytes(plaintext)

	pb, err := parseBody(plaintext, h.numGroups, h.numEntries)
	if err != nil {
		return nil, err
	}

	groups, entries, err := buildTree(pb)
	if err != nil {
		return nil, err
	}

	v := &Vault{
		Groups:           groups,
		Entries:          entries,
		path:             opts.Path,
		readOnly:         opts.ReadOnly,
		logger:           logger,
		password:         opts.Password,
		keyfile:          opts.Keyfile,
		transfRandomSeed: h.transfRandomSeed,
		keyTransfRounds:  h.keyTransfRounds,
		rootChildren:     topLevelOrder(groups),
	}

	if !opts.ReadOnly {
		if err := acquireLock(opts.Path); err != nil {
			logger.Warn(ctx, "failed to acquire sidecar lock", "path", opts.Path, "error", err)
		}
	}

	logger.Debug(ctx, "vault opened", "path", opts.Path, "groups", len(groups), "entries", len(entries))
	return v, nil
}

// CreateEmpty returns a new, in-memory vault seeded with one default group
// named "Internet", matching kppy's behavior of never allowing a
// zero-group vault to be saved.
func CreateEmpty() *Vault {
	root := &Group{
		ID:         1,
		Title:      "Internet",
		Image:      1,
		Level:      0,
		Parent:     rootGroupID,
		Created:    NeverExpires,
		LastMod:    NeverExpires,
		LastAccess: NeverExpires,
		Expire:     NeverExpires,
	}
	seed, err := freshTransfRandomSeed()
	if err != nil {
		// crypto/rand failure is unrecoverable; callers of Save will
		// surface a fresh error when the seed is actually needed.
		seed = [32]byte{}
	}
	return &Vault{
		Groups:           []*Group{root},
		Entries:          nil,
		logger:           logging.Discard(),
		transfRandomSeed: seed,
		keyTransfRounds:  minKeyTransformRounds,
		rootChildren:     []uint32{root.ID},
	}
}

// Save encrypts and writes the vault. A zero-value opts reuses the path and
// credentials the Vault was opened or last saved with.
func (v *Vault) Save(opts SaveOptions) error {
	const op = "Save"
	ctx := context.Background()

	if v.readOnly {
		return newError(KindReadOnly, op, nil)
	}

	path := v.path
	if opts.Path != "" {
		path = opts.Path
	}
	if path == "" {
		return newError(KindNoPath, op, nil)
	}

	password := v.password
	keyfile := v.keyfile
	if opts.Password != "" || opts.Keyfile != "" {
		password = opts.Password
		keyfile = opts.Keyfile
	}
	if password == "" && keyfile == "" {
		return newError(KindMissingCredentials, op, nil)
	}
	if len(v.Groups) == 0 {
		return newError(KindEmptyVault, op, nil)
	}

	var keyfileKey []byte
	var err error
	if keyfile != "" {
		keyfileKey, err = ReadKeyfile(keyfile)
		if err != nil {
			return err
		}
		defer ZeroizeBytes(keyfileKey)
	}

	byID := make(map[uint32]*Group, len(v.Groups))
	childrenOf := make(map[uint32][]uint32)
	for _, g := range v.Groups {
		byID[g.ID] = g
		childrenOf[g.Parent] = append(childrenOf[g.Parent], g.ID)
	}
	orderedGroups := preOrderGroups(byID, childrenOf)

	plaintext, err := encodeBody(orderedGroups, v.Entries)
	if err != nil {
		return err
	}
	defer ZeroizeBytes(plaintext)

	rounds := v.keyTransfRounds
	if opts.KeyTransformRounds != 0 {
		rounds = opts.KeyTransformRounds
	}

	h, err := newHeaderForSave(v.transfRandomSeed, rounds, uint32(len(orderedGroups)), uint32(len(v.Entries)))
	if err != nil {
		return err
	}

	finalKey, err := deriveFinalKey(password, keyfileKey, h.transfRandomSeed[:], h.keyTransfRounds, h.finalRandomSeed[:])
	if err != nil {
		return err
	}
	defer ZeroizeBytes(finalKey)

	ciphertext, contentsHash, err := encryptBody(plaintext, finalKey, h.encIV[:])
	if err != nil {
		return err
	}
	copy(h.contentsHash[:], contentsHash)

	out := append(h.marshal(), ciphertext...)
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return newError(KindFileIO, op, err)
	}

	v.path = path
	v.password = password
	v.keyfile = keyfile
	v.keyTransfRounds = h.keyTransfRounds

	if err := acquireLock(path); err != nil {
		v.logger.Warn(ctx, "failed to acquire sidecar lock", "path", path, "error", err)
	}

	v.logger.Debug(ctx, "vault saved", "path", path, "groups", len(orderedGroups), "entries", len(v.Entries))
	return nil
}

// Close releases the vault's sidecar lock file and clears its in-memory
// graph and credentials, mirroring the original's close-then-lock
// sequence. Close on a Vault with no path is a no-op.
func (v *Vault) Close() error {
	if v.path == "" {
		return nil
	}
	if err := releaseLock(v.path); err != nil {
		return err
	}
	v.path = ""
	v.readOnly = false
	v.Lock()
	return nil
}

// Lock clears the vault's in-memory secrets and object graph, resetting it
// to a single default group, without touching the on-disk file or its
// sidecar lock. It is the in-memory counterpart to Close's file cleanup.
func (v *Vault) Lock() {
	ZeroizeString(&v.password)
	v.keyfile = ""
	v.Groups = []*Group{{
		ID:         1,
		Title:      "Internet",
		Image:      1,
		Parent:     rootGroupID,
		Created:    NeverExpires,
		LastMod:    NeverExpires,
		LastAccess: NeverExpires,
		Expire:     NeverExpires,
	}}
	v.Entries = nil
	v.rootChildren = []uint32{1}
}

// Unlock restores the vault's credentials and reloads its object graph
// from the file at its current path, as if Open had just been called
// again with the given credentials.
func (v *Vault) Unlock(password, keyfile string) error {
	if v.path == "" {
		return newError(KindNoPath, "Unlock", nil)
	}
	reopened, err := Open(OpenOptions{
		Path:     v.path,
		Password: password,
		Keyfile:  keyfile,
		ReadOnly: v.readOnly,
		Logger:   v.logger,
	})
	if err != nil {
		return err
	}
	*v = *reopened
	return nil
}
