// A complete terminal buffer implementation.
//
// This package provides a production-ready terminal buffer driven by
// a streaming control-sequence parser, handling ANSI escape sequences
// and maintaining terminal state.
//
// Example:
//
//	tb := terminal.NewTerminalBuffer(80, 24)
//	parser := terminal.NewBufferParser(tb)
//
//	// Parse some terminal output
//	parser.Write([]byte("Hello \x1b[31mRed Text\x1b[0m"))
//
//	// Get the rendered output
//	output := tb.GetDisplay()

package terminal

import (
	"strings"
)

// TerminalBuffer implements a complete terminal buffer driven directly
// by a control-sequence parser.
type TerminalBuffer struct {
	// Screen dimensions
	width  int
	height int

	// Terminal state
	viewport     []Row
	cursor       Cursor
	savedCursor  *SavedCursor
	title        *string
	scrollRegion *ScrollRegion

	// Current character styles
	currentStyles CharacterStyles

	// OSC fragment assembly
	oscCommand int32
	oscBuf     []byte
	oscActive  bool

	// DCS fragment assembly
	dcsActive  bool
	dcsCommand []byte
	dcsBuf     []byte
}

// ScrollRegion represents the terminal scroll region
type ScrollRegion struct {
	top    int
	bottom int
}

// Row is a single line of the grid: a fixed slice of cells, always
// padded out to the buffer's current width by EnsureWidth.
type Row struct {
	Columns []TerminalCharacter
}

// NewRowWithWidth creates a row with a specific width filled with spaces
func NewRowWithWidth(width int) Row {
	columns := make([]TerminalCharacter, width)
	emptyChar := EmptyTerminalCharacter()
	for i := range columns {
		columns[i] = emptyChar
	}
	return Row{Columns: columns}
}

// Len returns the number of columns in the row
func (r *Row) Len() int {
	return len(r.Columns)
}

// Set sets a character at a specific column
func (r *Row) Set(index int, character TerminalCharacter) {
	if index >= 0 && index < len(r.Columns) {
		r.Columns[index] = character
	}
}

// Clear clears the row (fill with spaces)
func (r *Row) Clear() {
	emptyChar := EmptyTerminalCharacter()
	for i := range r.Columns {
		r.Columns[i] = emptyChar
	}
}

// Truncate truncates the row to a specific length
func (r *Row) Truncate(length int) {
	if length < len(r.Columns) {
		r.Columns = r.Columns[:length]
	}
}

// EnsureWidth ensures the row has at least the specified width
func (r *Row) EnsureWidth(width int) {
	emptyChar := EmptyTerminalCharacter()
	for len(r.Columns) < width {
		r.Columns = append(r.Columns, emptyChar)
	}
}

// ToString converts the row to a string
func (r *Row) ToString() string {
	var result strings.Builder
	for _, c := range r.Columns {
		result.WriteRune(c.Character)
	}
	return result.String()
}

// AnsiCursorShape is the glyph DECSCUSR selects for the cursor.
type AnsiCursorShape uint8

const (
	CursorShapeBlock AnsiCursorShape = iota
	CursorShapeUnderline
	CursorShapeBeam
)

// CursorStyle is the full cursor appearance DECSCUSR (CSI Ps SP q) sets:
// a shape plus whether it blinks. Handler.SetCursorStyle and
// TerminalBuffer.CursorStyleState both deal in this type, built from a
// DECSCUSR parameter by cursorStyleFromDECSCUSR.
type CursorStyle struct {
	Shape    AnsiCursorShape
	Blinking bool
}

// Cursor tracks the active grid position, the SGR styles a freshly
// printed cell inherits, and the DECTCEM visibility / DECSCUSR shape
// state a CsiDispatch('h'/'l'/'q') call mutates.
type Cursor struct {
	X             int
	Y             int
	PendingStyles CharacterStyles
	Style         CursorStyle
	Hidden        bool
}

// NewCursor creates a new cursor at the origin, visible, blinking block.
func NewCursor() Cursor {
	return Cursor{
		PendingStyles: DefaultCharacterStyles(),
		Style:         CursorStyle{Shape: CursorShapeBlock, Blinking: true},
	}
}

// Goto moves cursor to a specific position
func (c *Cursor) Goto(x, y int) {
	c.X = x
	c.Y = y
}

// MoveUp moves cursor up by n lines
func (c *Cursor) MoveUp(n int) {
	c.Y = max(0, c.Y-n)
}

// MoveDown moves cursor down by n lines
func (c *Cursor) MoveDown(n int) {
	c.Y += n
}

// MoveLeft moves cursor left by n columns
func (c *Cursor) MoveLeft(n int) {
	c.X = max(0, c.X-n)
}

// MoveRight moves cursor right by n columns. Deliberately unclamped:
// Print relies on X overflowing past the buffer width to detect wrap.
func (c *Cursor) MoveRight(n int) {
	c.X += n
}

// CarriageReturn moves cursor to beginning of line
func (c *Cursor) CarriageReturn() {
	c.X = 0
}

// LineFeed moves cursor to next line
func (c *Cursor) LineFeed() {
	c.Y++
}

// NewLine moves cursor to next line and beginning of line
func (c *Cursor) NewLine() {
	c.LineFeed()
	c.CarriageReturn()
}

// SavePosition saves current cursor position
func (c *Cursor) SavePosition() SavedCursor {
	return SavedCursor{
		X:      c.X,
		Y:      c.Y,
		Styles: c.PendingStyles,
	}
}

// RestorePosition restores cursor position from saved state
func (c *Cursor) RestorePosition(saved SavedCursor) {
	c.X = saved.X
	c.Y = saved.Y
	c.PendingStyles = saved.Styles
}

// SetStyle applies a DECSCUSR cursor style.
func (c *Cursor) SetStyle(style CursorStyle) {
	c.Style = style
}

// Show makes the cursor visible (DECTCEM set).
func (c *Cursor) Show() {
	c.Hidden = false
}

// Hide makes the cursor invisible (DECTCEM reset).
func (c *Cursor) Hide() {
	c.Hidden = true
}

// SavedCursor represents saved cursor state
type SavedCursor struct {
	X      int
	Y      int
	Styles CharacterStyles
}

// NewTerminalBuffer creates a new terminal buffer with specified dimensions
func NewTerminalBuffer(width, height int) *TerminalBuffer {
	viewport := make([]Row, height)
	for i := range viewport {
		viewport[i] = NewRowWithWidth(width)
	}

	return &TerminalBuffer{
		width:         width,
		height:        height,
		viewport:      viewport,
		cursor:        NewCursor(),
		currentStyles: DefaultCharacterStyles(),
	}
}

// GetDisplay returns the rendered display as plain text
func (tb *TerminalBuffer) GetDisplay() string {
	var result strings.Builder

	for i, row := range tb.viewport {
		result.WriteString(row.ToString())
		if i < len(tb.viewport)-1 {
			result.WriteString("\n")
		}
	}

	return strings.TrimRight(result.String(), " \t\n")
}

// GetDisplayWithColors returns the rendered display with ANSI color codes
func (tb *TerminalBuffer) GetDisplayWithColors() string {
	var result strings.Builder
	currentStyles := DefaultCharacterStyles()

	for rowIdx, row := range tb.viewport {
		for _, character := range row.Columns {
			// Only emit style changes when styles actually change
			if character.Styles.DiffersFrom(&currentStyles) {
				// Reset if we had any previous styles
				defaultStyles := DefaultCharacterStyles()
				if !currentStyles.equals(&defaultStyles) {
					result.WriteString("\x1b[0m")
				}

				// Apply new styles
				styleSequence := character.Styles.ToAnsiSequence()
				if styleSequence != "" {
					result.WriteString(styleSequence)
				}

				currentStyles = character.Styles
			}

			result.WriteRune(character.Character)
		}

		if rowIdx < len(tb.viewport)-1 {
			result.WriteString("\n")
		}
	}

	// Reset styles at the end if we had any
	defaultStyles := DefaultCharacterStyles()
	if !currentStyles.equals(&defaultStyles) {
		result.WriteString("\x1b[0m")
	}

	return strings.TrimRight(result.String(), " \t\n")
}

// Dimensions returns the terminal dimensions
func (tb *TerminalBuffer) Dimensions() (int, int) {
	return tb.width, tb.height
}

// CursorPosition returns the current cursor position
func (tb *TerminalBuffer) CursorPosition() (int, int) {
	return tb.cursor.X, tb.cursor.Y
}

// CursorVisible reports whether DECTCEM currently shows the cursor.
func (tb *TerminalBuffer) CursorVisible() bool {
	return !tb.cursor.Hidden
}

// CursorStyleState returns the cursor's current DECSCUSR style.
func (tb *TerminalBuffer) CursorStyleState() CursorStyle {
	return tb.cursor.Style
}

// Resize resizes the terminal buffer
func (tb *TerminalBuffer) Resize(width, height int) {
	tb.width = width
	tb.height = height

	// Resize existing rows
	for i := range tb.viewport {
		tb.viewport[i].EnsureWidth(width)
		if tb.viewport[i].Len() > width {
			tb.viewport[i].Truncate(width)
		}
	}

	// Add or remove rows as needed
	if len(tb.viewport) < height {
		// Add new rows
		for len(tb.viewport) < height {
			tb.viewport = append(tb.viewport, NewRowWithWidth(width))
		}
	} else if len(tb.viewport) > height {
		// Remove excess rows
		tb.viewport = tb.viewport[:height]
	}

	// Ensure cursor is within bounds
	if tb.cursor.X >= width {
		tb.cursor.X = width - 1
	}
	if tb.cursor.Y >= height {
		tb.cursor.Y = height - 1
	}
}

// === Event methods called by NewBufferParser's callbacks ===

// Print handles printable characters
func (tb *TerminalBuffer) Print(c rune) {
	tb.ensureCursorInBounds()

	// Create character with current styles
	char := NewStyledTerminalCharacter(c, tb.currentStyles)

	// Ensure the current row has enough width
	if tb.cursor.Y < len(tb.viewport) {
		tb.viewport[tb.cursor.Y].EnsureWidth(tb.width)

		// Place the character
		if tb.cursor.X < tb.width {
			tb.viewport[tb.cursor.Y].Set(tb.cursor.X, char)
			tb.cursor.MoveRight(char.Width)

			// Handle line wrapping
			if tb.cursor.X >= tb.width {
				tb.cursor.CarriageReturn()
				tb.cursor.LineFeed()
				tb.ensureCursorInBounds()
			}
		}
	}
}

// Execute handles control characters
func (tb *TerminalBuffer) Execute(b byte) {
	switch b {
	case 0x07: // BEL - Bell
		// Terminal bell - could trigger notification
	case 0x08: // BS - Backspace
		tb.cursor.MoveLeft(1)
		tb.ensureCursorInBounds()
	case 0x09: // HT - Horizontal Tab
		// Move to next tab stop (every 8 columns)
		nextTab := ((tb.cursor.X / 8) + 1) * 8
		if nextTab < tb.width {
			tb.cursor.X = nextTab
		} else {
			tb.cursor.X = tb.width - 1
		}
	case 0x0A: // LF - Line Feed
		tb.cursor.LineFeed()
		tb.ensureCursorInBounds()
	case 0x0D: // CR - Carriage Return
		tb.cursor.CarriageReturn()
	case 0x0E: // SO - Shift Out (activate G1 charset)
		// Character set handling - could be implemented
	case 0x0F: // SI - Shift In (activate G0 charset)
		// Character set handling - could be implemented
	}
}

// Hook handles DCS sequence start
func (tb *TerminalBuffer) Hook(command []byte) {
	// Device Control String handling - could be implemented for special features
}

// Put handles DCS data
func (tb *TerminalBuffer) Put(data []byte) {
	// DCS data handling
}

// Unhook handles DCS sequence end
func (tb *TerminalBuffer) Unhook() {
	// DCS cleanup
}

// OscDispatch handles a complete Operating System Command body, once
// its fragments have been reassembled by the caller.
func (tb *TerminalBuffer) OscDispatch(command int32, text string) {
	switch command {
	case 0, 1, 2: // Set window title / icon name
		title := text
		tb.title = &title
	}
}

// CsiDispatch handles CSI escape sequences, given a leader byte (e.g.
// '?' for a private-mode sequence), parameters already regrouped by
// sub-parameter separator, any intermediate bytes, and the final byte.
func (tb *TerminalBuffer) CsiDispatch(leader []byte, paramGroups [][]uint16, intermed []byte, final byte) {
	switch final {
	case 'H', 'f': // CUP - Cursor Position
		row, col := 1, 1
		if len(paramGroups) > 0 && len(paramGroups[0]) > 0 {
			row = int(paramGroups[0][0])
		}
		if len(paramGroups) > 1 && len(paramGroups[1]) > 0 {
			col = int(paramGroups[1][0])
		}

		// Convert to 0-based and clamp to screen bounds
		tb.cursor.X = min(col-1, tb.width-1)
		tb.cursor.Y = min(row-1, tb.height-1)
		tb.ensureCursorInBounds()

	case 'A': // CUU - Cursor Up
		lines := 1
		if len(paramGroups) > 0 && len(paramGroups[0]) > 0 && paramGroups[0][0] > 0 {
			lines = int(paramGroups[0][0])
		}
		tb.cursor.MoveUp(lines)
		tb.ensureCursorInBounds()

	case 'B': // CUD - Cursor Down
		lines := 1
		if len(paramGroups) > 0 && len(paramGroups[0]) > 0 && paramGroups[0][0] > 0 {
			lines = int(paramGroups[0][0])
		}
		tb.cursor.MoveDown(lines)
		tb.ensureCursorInBounds()

	case 'C': // CUF - Cursor Forward
		cols := 1
		if len(paramGroups) > 0 && len(paramGroups[0]) > 0 && paramGroups[0][0] > 0 {
			cols = int(paramGroups[0][0])
		}
		tb.cursor.MoveRight(cols)
		tb.ensureCursorInBounds()

	case 'D': // CUB - Cursor Back
		cols := 1
		if len(paramGroups) > 0 && len(paramGroups[0]) > 0 && paramGroups[0][0] > 0 {
			cols = int(paramGroups[0][0])
		}
		tb.cursor.MoveLeft(cols)
		tb.ensureCursorInBounds()

	case 'G': // CHA - Cursor Horizontal Absolute
		col := 1
		if len(paramGroups) > 0 && len(paramGroups[0]) > 0 {
			col = int(paramGroups[0][0])
		}
		tb.cursor.X = min(col-1, tb.width-1)
		tb.ensureCursorInBounds()

	case 'd': // VPA - Vertical Position Absolute
		row := 1
		if len(paramGroups) > 0 && len(paramGroups[0]) > 0 {
			row = int(paramGroups[0][0])
		}
		tb.cursor.Y = min(row-1, tb.height-1)
		tb.ensureCursorInBounds()

	case 'J': // ED - Erase in Display
		mode := 0
		if len(paramGroups) > 0 && len(paramGroups[0]) > 0 {
			mode = int(paramGroups[0][0])
		}
		tb.eraseInDisplay(mode)

	case 'K': // EL - Erase in Line
		mode := 0
		if len(paramGroups) > 0 && len(paramGroups[0]) > 0 {
			mode = int(paramGroups[0][0])
		}
		tb.eraseInLine(mode)

	case 'm': // SGR - Select Graphic Rendition
		tb.currentStyles.AddStyleFromAnsiParams(paramGroups)
		tb.cursor.PendingStyles = tb.currentStyles

	case 'r': // DECSTBM - Set Top and Bottom Margins
		top, bottom := 1, tb.height
		if len(paramGroups) > 0 && len(paramGroups[0]) > 0 {
			top = int(paramGroups[0][0])
		}
		if len(paramGroups) > 1 && len(paramGroups[1]) > 0 {
			bottom = int(paramGroups[1][0])
		}

		if top < bottom && top >= 1 && bottom <= tb.height {
			tb.scrollRegion = &ScrollRegion{
				top:    top - 1, // Convert to 0-based
				bottom: bottom - 1,
			}
		}

	case 's': // SCOSC - Save Cursor Position
		saved := tb.cursor.SavePosition()
		tb.savedCursor = &saved

	case 'u': // SCORC - Restore Cursor Position
		if tb.savedCursor != nil {
			tb.cursor.RestorePosition(*tb.savedCursor)
			tb.currentStyles = tb.cursor.PendingStyles
		}

	case 'S': // SU - Scroll Up
		lines := 1
		if len(paramGroups) > 0 && len(paramGroups[0]) > 0 {
			lines = int(paramGroups[0][0])
		}
		tb.scrollUp(lines)

	case 'T': // SD - Scroll Down
		lines := 1
		if len(paramGroups) > 0 && len(paramGroups[0]) > 0 {
			lines = int(paramGroups[0][0])
		}
		tb.scrollDown(lines)

	case 'h', 'l': // SM/RM - DECSET/DECRST private modes
		tb.setMode(leader, paramGroups, final == 'h')

	case 'q': // DECSCUSR - Set Cursor Style, only with a space intermediate
		if len(intermed) == 1 && intermed[0] == ' ' {
			ps := 0
			if len(paramGroups) > 0 && len(paramGroups[0]) > 0 {
				ps = int(paramGroups[0][0])
			}
			tb.cursor.SetStyle(cursorStyleFromDECSCUSR(ps))
		}
	}
}

// setMode handles the private-mode subset of CSI ? Ps h / CSI ? Ps l
// that TerminalBuffer itself tracks (DECTCEM cursor visibility).
// Processor.SetMode/ResetMode covers the full Mode space for consumers
// that dispatch through a Handler instead.
func (tb *TerminalBuffer) setMode(leader []byte, paramGroups [][]uint16, enable bool) {
	if len(leader) == 0 || leader[0] != '?' {
		return
	}
	for _, group := range paramGroups {
		if len(group) == 0 {
			continue
		}
		if group[0] == 25 { // DECTCEM
			if enable {
				tb.cursor.Show()
			} else {
				tb.cursor.Hide()
			}
		}
	}
}

// cursorStyleFromDECSCUSR maps a CSI Ps SP q parameter to the cursor
// style it selects, per xterm's DECSCUSR numbering. Shared by
// TerminalBuffer.CsiDispatch and Processor.onCSI.
func cursorStyleFromDECSCUSR(ps int) CursorStyle {
	switch ps {
	case 2:
		return CursorStyle{Shape: CursorShapeBlock}
	case 3:
		return CursorStyle{Shape: CursorShapeUnderline, Blinking: true}
	case 4:
		return CursorStyle{Shape: CursorShapeUnderline}
	case 5:
		return CursorStyle{Shape: CursorShapeBeam, Blinking: true}
	case 6:
		return CursorStyle{Shape: CursorShapeBeam}
	default: // 0, 1: blinking block
		return CursorStyle{Shape: CursorShapeBlock, Blinking: true}
	}
}

// EscDispatch handles escape sequences
func (tb *TerminalBuffer) EscDispatch(intermediates []byte, b byte) {
	switch b {
	case 'D': // IND - Index (move cursor down, scroll if needed)
		bottom := tb.height - 1
		if tb.scrollRegion != nil {
			bottom = tb.scrollRegion.bottom
		}
		if tb.cursor.Y == bottom {
			tb.scrollUp(1)
		} else {
			tb.cursor.LineFeed()
			tb.ensureCursorInBounds()
		}
	case 'M': // RI - Reverse Index (move cursor up, scroll if needed)
		top := 0
		if tb.scrollRegion != nil {
			top = tb.scrollRegion.top
		}
		if tb.cursor.Y == top {
			tb.scrollDown(1)
		} else {
			tb.cursor.MoveUp(1)
			tb.ensureCursorInBounds()
		}
	case '7': // DECSC - Save Cursor
		saved := tb.cursor.SavePosition()
		tb.savedCursor = &saved
	case '8': // DECRC - Restore Cursor
		if tb.savedCursor != nil {
			tb.cursor.RestorePosition(*tb.savedCursor)
			tb.currentStyles = tb.cursor.PendingStyles
		}
	case 'c': // RIS - Reset to Initial State
		tb.reset()
	case 'E': // NEL - Next Line
		tb.cursor.NewLine()
		tb.ensureCursorInBounds()
	}
}

// Helper methods

// ensureCursorInBounds ensures cursor position is within screen bounds
func (tb *TerminalBuffer) ensureCursorInBounds() {
	if tb.cursor.X < 0 {
		tb.cursor.X = 0
	}
	if tb.cursor.X >= tb.width {
		tb.cursor.X = tb.width - 1
	}
	if tb.cursor.Y < 0 {
		tb.cursor.Y = 0
	}
	if tb.cursor.Y >= tb.height {
		tb.cursor.Y = tb.height - 1
	}
}

// eraseInDisplay handles ED command
func (tb *TerminalBuffer) eraseInDisplay(mode int) {
	emptyChar := EmptyTerminalCharacter()

	switch mode {
	case 0: // Clear from cursor to end of display
		// Clear from cursor to end of current line
		if tb.cursor.Y < len(tb.viewport) {
			for x := tb.cursor.X; x < tb.width; x++ {
				tb.viewport[tb.cursor.Y].Set(x, emptyChar)
			}
		}
		// Clear all lines below current line
		for y := tb.cursor.Y + 1; y < len(tb.viewport); y++ {
			tb.viewport[y].Clear()
		}

	case 1: // Clear from beginning of display to cursor
		// Clear all lines above current line
		for y := 0; y < tb.cursor.Y && y < len(tb.viewport); y++ {
			tb.viewport[y].Clear()
		}
		// Clear from beginning of current line to cursor
		if tb.cursor.Y < len(tb.viewport) {
			for x := 0; x <= tb.cursor.X && x < tb.width; x++ {
				tb.viewport[tb.cursor.Y].Set(x, emptyChar)
			}
		}

	case 2, 3: // Clear entire display
		for y := range tb.viewport {
			tb.viewport[y].Clear()
		}
	}
}

// eraseInLine handles EL command
func (tb *TerminalBuffer) eraseInLine(mode int) {
	if tb.cursor.Y >= len(tb.viewport) {
		return
	}

	emptyChar := EmptyTerminalCharacter()
	row := &tb.viewport[tb.cursor.Y]

	switch mode {
	case 0: // Clear from cursor to end of line
		for x := tb.cursor.X; x < tb.width; x++ {
			row.Set(x, emptyChar)
		}

	case 1: // Clear from beginning of line to cursor
		for x := 0; x <= tb.cursor.X && x < tb.width; x++ {
			row.Set(x, emptyChar)
		}

	case 2: // Clear entire line
		row.Clear()
	}
}

// scrollUp scrolls the display up by n lines
func (tb *TerminalBuffer) scrollUp(lines int) {
	if lines <= 0 {
		return
	}

	// Determine scroll region
	top := 0
	bottom := tb.height - 1
	if tb.scrollRegion != nil {
		top = tb.scrollRegion.top
		bottom = tb.scrollRegion.bottom
	}

	// Shift lines up within scroll region
	for i := 0; i < lines; i++ {
		if top < bottom {
			// Remove the top line and add a blank line at the bottom
			for y := top; y < bottom; y++ {
				if y+1 < len(tb.viewport) {
					tb.viewport[y] = tb.viewport[y+1]
				}
			}
			// Add blank line at bottom of scroll region
			if bottom < len(tb.viewport) {
				tb.viewport[bottom] = NewRowWithWidth(tb.width)
			}
		}
	}
}

// scrollDown scrolls the display down by n lines
func (tb *TerminalBuffer) scrollDown(lines int) {
	if lines <= 0 {
		return
	}

	// Determine scroll region
	top := 0
	bottom := tb.height - 1
	if tb.scrollRegion != nil {
		top = tb.scrollRegion.top
		bottom = tb.scrollRegion.bottom
	}

	// Shift lines down within scroll region
	for i := 0; i < lines; i++ {
		if top < bottom {
			// Shift lines down
			for y := bottom; y > top; y-- {
				if y-1 >= 0 && y < len(tb.viewport) {
					tb.viewport[y] = tb.viewport[y-1]
				}
			}
			// Add blank line at top of scroll region
			if top < len(tb.viewport) {
				tb.viewport[top] = NewRowWithWidth(tb.width)
			}
		}
	}
}

// reset resets the terminal to initial state
func (tb *TerminalBuffer) reset() {
	tb.cursor = NewCursor()
	tb.currentStyles = DefaultCharacterStyles()
	tb.savedCursor = nil
	tb.scrollRegion = nil
	tb.title = nil
	tb.oscActive = false
	tb.oscBuf = tb.oscBuf[:0]
	tb.dcsActive = false
	tb.dcsBuf = tb.dcsBuf[:0]

	// Clear all content
	for i := range tb.viewport {
		tb.viewport[i] = NewRowWithWidth(tb.width)
	}
}
