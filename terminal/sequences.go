package terminal

import "fmt"

// The functions below build the write-side counterparts to the control
// sequences Processor/TerminalBuffer parse: a caller that wants to drive
// a real terminal (or re-synthesize one for a test fixture) can compose
// these instead of hand-writing escape bytes.

// BeginSynchronizedUpdate returns the ANSI sequence to begin synchronized
// updates (DEC private mode 2026). Processor.BeginSynchronizedUpdate
// tracks the same mode on the receiving side by buffering Advance'd bytes;
// this is the sequence a writer sends to ask for that behavior.
func BeginSynchronizedUpdate() string {
	return "\x1b[?2026h"
}

// EndSynchronizedUpdate returns the ANSI sequence to end synchronized updates.
func EndSynchronizedUpdate() string {
	return "\x1b[?2026l"
}

// WrapInSynchronizedUpdate wraps content in synchronized update sequences.
func WrapInSynchronizedUpdate(content string) string {
	return BeginSynchronizedUpdate() + content + EndSynchronizedUpdate()
}

// ClearScreen returns the ANSI sequence to clear the entire screen (CSI 2J).
func ClearScreen() string {
	return "\x1b[2J"
}

// ClearLine returns the ANSI sequence to clear from cursor to end of line (CSI K).
func ClearLine() string {
	return "\x1b[K"
}

// MoveTo returns the ANSI sequence to move cursor to specific position.
// row and col are 0-indexed, but ANSI sequences are 1-indexed.
func MoveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row+1, col+1)
}

// SaveCursor returns the ANSI sequence to save current cursor position (DECSC).
func SaveCursor() string {
	return "\x1b7"
}

// RestoreCursor returns the ANSI sequence to restore saved cursor position (DECRC).
func RestoreCursor() string {
	return "\x1b8"
}
