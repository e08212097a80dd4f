package kdb1

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
)

// maxPlaintextSize is 2^31 - 202, the upper bound the original
// implementation places on a decrypted body.
const maxPlaintextSize = (1 << 31) - 202

// decryptBody decrypts ciphertext with AES-256-CBC under key and iv, strips
// PKCS#7-style padding, and verifies the result against contentsHash and
// numGroups. The returned slice is owned by the caller, who should
// ZeroizeBytes it once the field walk that consumes it is done.
func decryptBody(ciphertext, key, iv, contentsHash []byte, numGroups uint32) ([]byte, error) {
	const op = "decryptBody"

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, newError(KindDecryptFailed, op, fmt.Errorf("ciphertext length %d is not a positive multiple of %d", len(ciphertext), aes.BlockSize))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, newError(KindDecryptFailed, op, err)
	}

	plaintext := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(plaintext, ciphertext)

	plaintext, err = stripPadding(plaintext)
	if err != nil {
		return nil, newError(KindDecryptFailed, op, err)
	}

	if len(plaintext) > maxPlaintextSize {
		return nil, newError(KindDecryptFailed, op, fmt.Errorf("plaintext size %d exceeds maximum", len(plaintext)))
	}
	if len(plaintext) == 0 && numGroups > 0 {
		return nil, newError(KindDecryptFailed, op, fmt.Errorf("empty plaintext but num_groups=%d", numGroups))
	}

	sum := sha256.Sum256(plaintext)
	if !bytes.Equal(sum[:], contentsHash) {
		return nil, newError(KindHashMismatch, op, nil)
	}

	return plaintext, nil
}

func stripPadding(buf []byte) ([]byte, error) {
	if len(buf) == 0 {
		return buf, nil
	}
	p := int(buf[len(buf)-1])
	if p < 1 || p > aes.BlockSize || p > len(buf) {
		return nil, fmt.Errorf("invalid padding length %d", p)
	}
	for _, b := range buf[len(buf)-p:] {
		if int(b) != p {
			return nil, fmt.Errorf("invalid padding bytes")
		}
	}
	return buf[:len(buf)-p], nil
}

// encryptBody pads plaintext with PKCS#7-style padding and encrypts it with
// AES-256-CBC under key and iv. It returns the ciphertext and the SHA-256 of
// the (unpadded) plaintext, i.e. the contents_hash to store in the header.
func encryptBody(plaintext, key, iv []byte) (ciphertext, contentsHash []byte, err error) {
	const op = "encryptBody"

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, newError(KindDecryptFailed, op, err)
	}

	sum := sha256.Sum256(plaintext)

	p := aes.BlockSize - (len(plaintext) % aes.BlockSize)
	padded := make([]byte, len(plaintext)+p)
	copy(padded, plaintext)
	for i := len(plaintext); i < len(padded); i++ {
		padded[i] = byte(p)
	}

	out := make([]byte, len(padded))
	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(out, padded)
	ZeroizeBytes(padded)

	return out, sum[:], nil
}
