package kdb1

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempKeyfile(t *testing.T, content []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "keyfile")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReadKeyfileRaw32Bytes(t *testing.T) {
	raw := bytes.Repeat([]byte{0x42}, 32)
	path := writeTempKeyfile(t, raw)

	got, err := ReadKeyfile(path)
	if err != nil {
		t.Fatalf("ReadKeyfile: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("got %x, want %x", got, raw)
	}
}

func TestReadKeyfileHex64Bytes(t *testing.T) {
	raw := bytes.Repeat([]byte{0xAB}, 32)
	hexContent := []byte(hex.EncodeToString(raw))
	if len(hexContent) != 64 {
		t.Fatalf("test setup: hex content is %d bytes, want 64", len(hexContent))
	}
	path := writeTempKeyfile(t, hexContent)

	got, err := ReadKeyfile(path)
	if err != nil {
		t.Fatalf("ReadKeyfile: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("got %x, want %x", got, raw)
	}
}

func TestReadKeyfileFallsBackWhenNotValidHex(t *testing.T) {
	content := bytes.Repeat([]byte{'z'}, 64) // 64 bytes, not valid hex
	path := writeTempKeyfile(t, content)

	got, err := ReadKeyfile(path)
	if err != nil {
		t.Fatalf("ReadKeyfile: %v", err)
	}
	want := sha256.Sum256(content)
	if !bytes.Equal(got, want[:]) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestReadKeyfileOtherSizeIsHashed(t *testing.T) {
	content := []byte("arbitrary keyfile content of any other length")
	path := writeTempKeyfile(t, content)

	got, err := ReadKeyfile(path)
	if err != nil {
		t.Fatalf("ReadKeyfile: %v", err)
	}
	want := sha256.Sum256(content)
	if !bytes.Equal(got, want[:]) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestReadKeyfileMissing(t *testing.T) {
	_, err := ReadKeyfile(filepath.Join(t.TempDir(), "does-not-exist"))
	if !errors.Is(err, ErrKeyfileMissing) {
		t.Fatalf("expected ErrKeyfileMissing, got %v", err)
	}
}
