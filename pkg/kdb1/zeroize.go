package kdb1

// ZeroizeBytes overwrites buf with zeros in place. It is a best-effort
// helper that keeps secret buffers (master keys, derived keys, decrypted
// plaintext) from lingering in heap snapshots after a vault operation is
// done with them; it offers no guarantee against a compiler eliding the
// write or the Go runtime having already copied the bytes elsewhere.
func ZeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

// ZeroizeString clears *s to the empty string. Go strings are immutable,
// so the bytes that backed the original string cannot be overwritten
// through s: this copies the string into a mutable byte slice, zeroes that
// copy, and drops the reference held in *s. It is best-effort, not a
// guarantee; the original backing bytes and any other copy of the string
// (e.g. one already returned to a caller) are unaffected.
func ZeroizeString(s *string) {
	if s == nil {
		return
	}

	b := []byte(*s)
	ZeroizeBytes(b)
	*s = ""
}
