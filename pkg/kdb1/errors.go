package kdb1

import "fmt"

// Kind is a closed enumeration of the reasons a kdb1 operation can fail.
// Every error this package returns maps to exactly one Kind.
type Kind uint8

const (
	_ Kind = iota // zero value is not a valid Kind

	KindMissingCredentials
	KindBadArgument
	KindReadOnly
	KindNoPath
	KindEmptyVault
	KindFileIO
	KindShortFile
	KindBadSignature
	KindUnsupportedVersion
	KindUnsupportedCipher
	KindKeyfileMissing
	KindKeyfileIO
	KindDecryptFailed
	KindHashMismatch
	KindTruncatedBody
	KindUnknownField
	KindOrphanEntry
	KindInvalidTree
	KindBadDate
	KindNotFound
	KindIndexOutOfRange
)

var kindNames = map[Kind]string{
	KindMissingCredentials: "MissingCredentials",
	KindBadArgument:        "BadArgument",
	KindReadOnly:           "ReadOnly",
	KindNoPath:             "NoPath",
	KindEmptyVault:         "EmptyVault",
	KindFileIO:             "FileIO",
	KindShortFile:          "ShortFile",
	KindBadSignature:       "BadSignature",
	KindUnsupportedVersion: "UnsupportedVersion",
	KindUnsupportedCipher:  "UnsupportedCipher",
	KindKeyfileMissing:     "KeyfileMissing",
	KindKeyfileIO:          "KeyfileIO",
	KindDecryptFailed:      "DecryptFailed",
	KindHashMismatch:       "HashMismatch",
	KindTruncatedBody:      "TruncatedBody",
	KindUnknownField:       "UnknownField",
	KindOrphanEntry:        "OrphanEntry",
	KindInvalidTree:        "InvalidTree",
	KindBadDate:            "BadDate",
	KindNotFound:           "NotFound",
	KindIndexOutOfRange:    "IndexOutOfRange",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Error is the error type returned by every exported kdb1 operation. Kind
// is always set; Op names the operation that failed; Err is the wrapped
// cause, if any (nil for leaf errors such as a bad argument).
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kdb1: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("kdb1: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error with the same Kind. This lets
// callers use errors.Is(err, kdb1.ErrHashMismatch) regardless of which
// operation produced err or what cause it wraps.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Sentinel errors, one per Kind, for use with errors.Is. These carry no Op
// or wrapped cause; only their Kind is compared.
var (
	ErrMissingCredentials = &Error{Kind: KindMissingCredentials}
	ErrBadArgument        = &Error{Kind: KindBadArgument}
	ErrReadOnly           = &Error{Kind: KindReadOnly}
	ErrNoPath             = &Error{Kind: KindNoPath}
	ErrEmptyVault         = &Error{Kind: KindEmptyVault}
	ErrFileIO             = &Error{Kind: KindFileIO}
	ErrShortFile          = &Error{Kind: KindShortFile}
	ErrBadSignature       = &Error{Kind: KindBadSignature}
	ErrUnsupportedVersion = &Error{Kind: KindUnsupportedVersion}
	ErrUnsupportedCipher  = &Error{Kind: KindUnsupportedCipher}
	ErrKeyfileMissing     = &Error{Kind: KindKeyfileMissing}
	ErrKeyfileIO          = &Error{Kind: KindKeyfileIO}
	ErrDecryptFailed      = &Error{Kind: KindDecryptFailed}
	ErrHashMismatch       = &Error{Kind: KindHashMismatch}
	ErrTruncatedBody      = &Error{Kind: KindTruncatedBody}
	ErrUnknownField       = &Error{Kind: KindUnknownField}
	ErrOrphanEntry        = &Error{Kind: KindOrphanEntry}
	ErrInvalidTree        = &Error{Kind: KindInvalidTree}
	ErrBadDate            = &Error{Kind: KindBadDate}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrIndexOutOfRange    = &Error{Kind: KindIndexOutOfRange}
)
