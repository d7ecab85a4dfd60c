package vtstream

// StringFragment describes one piece of an OSC or DCS string body.
// Bytes is a slice into the caller's Write buffer, not a copy: it is
// only valid until the Callbacks hook that received it returns. A
// consumer that needs the bytes past that point must copy them.
type StringFragment struct {
	Bytes   []byte
	Initial bool
	Final   bool
}

// Callbacks is the consumer's optional capability record. Any field
// may be left nil; a nil hook is treated exactly like one that
// returned false ("unhandled"), including the diagnostic log line. A
// nil Text hook counts as consuming 0 bytes (see dispatchNormal).
type Callbacks struct {
	// Text fires for a printable run reached in NORMAL state. It
	// must return the number of bytes it consumed; the parser
	// advances by that amount, clamped to the remaining length of
	// the current Write call, and forces a minimum of 1 byte of
	// progress if Text returns 0.
	Text func(bytes []byte, remaining int) int

	// Control fires for a C0 control (other than NUL/DEL/CAN/SUB/
	// ESC/BEL-in-string) or an unmapped C1 control.
	Control func(b byte) bool

	// Escape fires for ESC + intermediates + a final byte
	// (0x30-0x7E), outside CSI/OSC/DCS. seq is the concatenated
	// intermediate bytes followed by the final byte.
	Escape func(seq []byte) bool

	// CSI fires on CSI completion. leader and intermed are nil when
	// empty; args is only valid for the duration of the call.
	CSI func(leader []byte, args *CSIArgs, intermed []byte, final byte) bool

	// OSC fires for each OSC fragment, including empty ones.
	// command is -1 when no digits were ever seen.
	OSC func(command int32, frag StringFragment) bool

	// DCS fires for each non-empty DCS fragment. command is the raw
	// prefix bytes preceding the string body (private markers,
	// params, intermediates and the final byte that opened the
	// string), so it is never empty while in a DCS string.
	DCS func(command []byte, frag StringFragment) bool
}

// Logger is the parser's diagnostic channel: an implementation-
// defined sink for unhandled-event and malformed-callback
// conditions. It is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}
