package kdb1

import (
	"crypto/aes"
	"crypto/sha256"
)

const masterKeySize = 32

// composeMasterKey builds the pre-transform master key from whichever
// credentials are present. Either one of password/keyfileKey may be
// omitted, never both; the caller (deriveFinalKey) enforces that.
func composeMasterKey(password string, keyfileKey []byte) []byte {
	switch {
	case password != "" && keyfileKey != nil:
		ph := sha256.Sum256([]byte(password))
		combined := make([]byte, 0, len(ph)+len(keyfileKey))
		combined = append(combined, ph[:]...)
		combined = append(combined, keyfileKey...)
		mk := sha256.Sum256(combined)
		return mk[:]

	case keyfileKey != nil:
		mk := make([]byte, len(keyfileKey))
		copy(mk, keyfileKey)
		return mk

	default:
		mk := sha256.Sum256([]byte(password))
		return mk[:]
	}
}

// transformKey runs the key-stretching step: mk is repeatedly encrypted,
// one 16-byte block at a time, under AES-256 keyed by transfRandomSeed,
// rounds times. Go's crypto/cipher deliberately has no ECB mode (it is
// unsafe for general-purpose use), but the stretch only ever encrypts a
// single 16-byte block per round, so a direct cipher.Block.Encrypt call
// in a loop is the correct primitive, not a workaround.
func transformKey(mk []byte, transfRandomSeed []byte, rounds uint32) ([]byte, error) {
	block, err := aes.NewCipher(transfRandomSeed)
	if err != nil {
		return nil, newError(KindDecryptFailed, "transformKey", err)
	}

	out := make([]byte, len(mk))
	copy(out, mk)

	for i := uint32(0); i < rounds; i++ {
		block.Encrypt(out[0:16], out[0:16])
		block.Encrypt(out[16:32], out[16:32])
	}
	return out, nil
}

// deriveFinalKey computes the 32-byte AES-CBC key used to decrypt or
// encrypt a vault body, per the three passphrase/keyfile/composite
// variants. At least one of password or keyfileKey must be provided.
func deriveFinalKey(password string, keyfileKey []byte, transfRandomSeed []byte, rounds uint32, finalRandomSeed []byte) ([]byte, error) {
	if password == "" && keyfileKey == nil {
		return nil, newError(KindMissingCredentials, "deriveFinalKey", nil)
	}

	mk := composeMasterKey(password, keyfileKey)
	defer ZeroizeBytes(mk)

	stretched, err := transformKey(mk, transfRandomSeed, rounds)
	if err != nil {
		return nil, err
	}
	defer ZeroizeBytes(stretched)

	hashedStretch := sha256.Sum256(stretched)

	combined := make([]byte, 0, len(finalRandomSeed)+len(hashedStretch))
	combined = append(combined, finalRandomSeed...)
	combined = append(combined, hashedStretch[:]...)
	final := sha256.Sum256(combined)

	key := make([]byte, masterKeySize)
	copy(key, final[:])
	return key, nil
}
