package terminal

// C0 defines the C0 control characters (0x00-0x1F) that onControl
// dispatches on directly; naming them here keeps that switch statement
// readable without needing the raw hex values memorized.
var C0 = struct {
	NUL byte // Null
	SOH byte // Start of Heading
	STX byte // Start of Text
	ETX byte // End of Text
	EOT byte // End of Transmission
	ENQ byte // Enquiry
	ACK byte // Acknowledge
	BEL byte // Bell
	BS  byte // Backspace
	HT  byte // Horizontal Tab
	LF  byte // Line Feed
	VT  byte // Vertical Tab
	FF  byte // Form Feed
	CR  byte // Carriage Return
	SO  byte // Shift Out
	SI  byte // Shift In
	DLE byte // Data Link Escape
	DC1 byte // Device Control 1 (XON)
	DC2 byte // Device Control 2
	DC3 byte // Device Control 3 (XOFF)
	DC4 byte // Device Control 4
	NAK byte // Negative Acknowledge
	SYN byte // Synchronous Idle
	ETB byte // End of Transmission Block
	CAN byte // Cancel
	EM  byte // End of Medium
	SUB byte // Substitute
	ESC byte // Escape
	FS  byte // File Separator
	GS  byte // Group Separator
	RS  byte // Record Separator
	US  byte // Unit Separator
}{
	NUL: 0x00, SOH: 0x01, STX: 0x02, ETX: 0x03,
	EOT: 0x04, ENQ: 0x05, ACK: 0x06, BEL: 0x07,
	BS: 0x08, HT: 0x09, LF: 0x0A, VT: 0x0B,
	FF: 0x0C, CR: 0x0D, SO: 0x0E, SI: 0x0F,
	DLE: 0x10, DC1: 0x11, DC2: 0x12, DC3: 0x13,
	DC4: 0x14, NAK: 0x15, SYN: 0x16, ETB: 0x17,
	CAN: 0x18, EM: 0x19, SUB: 0x1A, ESC: 0x1B,
	FS: 0x1C, GS: 0x1D, RS: 0x1E, US: 0x1F,
}
