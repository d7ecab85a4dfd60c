package terminal

// Attr represents text formatting attributes, set one at a time by
// processSGR as it walks an SGR parameter group.
type Attr uint32

const (
	AttrNone            Attr = 0
	AttrBold            Attr = 1 << 0
	AttrDim             Attr = 1 << 1
	AttrItalic          Attr = 1 << 2
	AttrUnderline       Attr = 1 << 3
	AttrBlinking        Attr = 1 << 4
	AttrReverse         Attr = 1 << 5
	AttrHidden          Attr = 1 << 6
	AttrStrikethrough   Attr = 1 << 7
	AttrDoubleUnderline Attr = 1 << 8
	AttrCurlyUnderline  Attr = 1 << 9
	AttrDottedUnderline Attr = 1 << 10
	AttrDashedUnderline Attr = 1 << 11
)

// Has checks if the attribute set contains the given attribute.
func (a Attr) Has(attr Attr) bool {
	return a&attr != 0
}

// Add adds an attribute to the set.
func (a Attr) Add(attr Attr) Attr {
	return a | attr
}

// Remove removes an attribute from the set.
func (a Attr) Remove(attr Attr) Attr {
	return a &^ attr
}

// Toggle toggles an attribute in the set.
func (a Attr) Toggle(attr Attr) Attr {
	return a ^ attr
}

// Mode represents a terminal mode, as set/reset by CSI h/l (setMode).
// Private modes (DECSET/DECRST, leader "?") are offset into the 0x200
// range so they never collide with the ANSI mode numbers they share a
// parameter namespace with.
type Mode uint16

const (
	ModeNone Mode = 0
	// ANSI modes
	ModeKeyboardAction   Mode = 2
	ModeInsert           Mode = 4
	ModeReplace          Mode = 4 | 0x100 // with high bit to distinguish
	ModeSendReceive      Mode = 12
	ModeAutomaticNewline Mode = 20
	// Private modes (start at 0x200)
	ModeApplicationCursor    Mode = 0x200 + 1
	ModeApplicationKeypad    Mode = 0x200 + 2
	ModeAlternateScreen      Mode = 0x200 + 3
	ModeShowCursor           Mode = 0x200 + 25
	ModeSaveRestoreCursor    Mode = 0x200 + 1048
	ModeAlternateScreenBuffer Mode = 0x200 + 1049
	ModeBracketedPaste       Mode = 0x200 + 2004
	ModeSynchronizedOutput   Mode = 0x200 + 2026
)

// IsPrivate checks if this is a private mode.
func (m Mode) IsPrivate() bool {
	return m >= 0x200
}

// LineClearMode specifies how to clear a line, carried by CSI K.
type LineClearMode uint8

const (
	LineClearRight LineClearMode = iota // Clear from cursor to end of line
	LineClearLeft                       // Clear from beginning to cursor
	LineClearAll                        // Clear entire line
)

// ClearMode specifies how to clear the screen, carried by CSI J.
type ClearMode uint8

const (
	ClearBelow ClearMode = iota // Clear from cursor to end of screen
	ClearAbove                  // Clear from beginning to cursor
	ClearAll                    // Clear entire screen
	ClearSaved                  // Clear saved lines (scrollback)
)

// TabulationClearMode specifies how to clear tab stops, carried by CSI g.
type TabulationClearMode uint8

const (
	TabClearCurrent TabulationClearMode = iota // Clear tab at current position
	TabClearAll                                // Clear all tabs
)

// String returns the string representation of TabulationClearMode.
func (m TabulationClearMode) String() string {
	switch m {
	case TabClearCurrent:
		return "TabClearCurrent"
	case TabClearAll:
		return "TabClearAll"
	default:
		return "Unknown"
	}
}
