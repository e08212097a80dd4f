// Package kdb1 reads, modifies, and writes KeePass 1.x vault files.
//
// A vault is a single AES-256-CBC encrypted file holding a tree of groups
// and a flat list of entries, decrypted with a master secret derived from
// a passphrase and/or a keyfile. This package implements the on-disk
// codec (header, TLV field stream, key derivation, tree reconstruction)
// and a typed object graph for callers to read and mutate; it does not
// implement a command-line front end, a GUI, or any editing conveniences
// beyond the group/entry mutation operations KeePass 1.x itself exposes.
//
// # Opening a vault
//
//	v, err := kdb1.Open(kdb1.OpenOptions{
//	    Path:     "passwords.kdb",
//	    Password: "correct horse battery staple",
//	})
//	if err != nil {
//	    var kerr *kdb1.Error
//	    if errors.As(err, &kerr) && (kerr.Kind == kdb1.KindHashMismatch || kerr.Kind == kdb1.KindDecryptFailed) {
//	        // wrong password or damaged file
//	    }
//	    return err
//	}
//	defer v.Close()
//
// # Creating a new vault
//
//	v := kdb1.CreateEmpty()
//	if err := v.Save(kdb1.SaveOptions{Path: "new.kdb", Password: "..."}); err != nil {
//	    return err
//	}
//
// Only the KeePass 1.x (KDB) format is supported. The newer KeePass 2.x
// KDBX4/XML format, Twofish/ChaCha20 ciphers, Argon2 KDFs, and multi-vault
// merging are out of scope.
package kdb1
