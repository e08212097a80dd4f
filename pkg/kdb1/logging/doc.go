// Package logging provides a minimal, redaction-aware logging facade for
// the kdb1 vault codec.
//
// # Logger interface
//
// The Logger interface wraps the subset of slog functionality kdb1 needs:
//
//	type Logger interface {
//	    Debug(ctx context.Context, msg string, args ...any)
//	    Warn(ctx context.Context, msg string, args ...any)
//	    With(args ...any) Logger
//	}
//
// # Default implementation
//
//	logger := logging.New(nil)          // binds to slog.Default()
//	logger.Debug(ctx, "vault opened", "path", path)
//
// # Redaction
//
// kdb1 never passes a password, derived key, or plaintext body to a
// logging call; where a log line must reference one, it uses Redacted:
//
//	logger.Debug(ctx, "derived final key", logging.Redacted("final_key"))
//	// logs: final_key="[redacted]"
//
// # Discard logger
//
// A Vault with no configured Logger uses Discard(), which drops every
// call; this keeps the zero value of kdb1.OpenOptions silent by default.
package logging
