package terminal

import (
	"io"
	"time"
	"unicode/utf8"

	"github.com/cliofy/vtstream"
)

// SyncState manages synchronized update state.
type SyncState struct {
	enabled   bool
	buffer    []byte
	startTime time.Time
	timeout   time.Duration
}

// DCSState tracks the DCS sequence currently being assembled.
type DCSState struct {
	active  bool
	command []byte
	buffer  []byte
}

// Processor wraps a vtstream.Parser and translates its events into
// high-level Handler method calls.
type Processor struct {
	parser    *vtstream.Parser
	handler   Handler
	output    io.Writer
	syncState *SyncState
	dcsState  *DCSState
	modes     map[Mode]bool

	oscCommand int32
	oscBuf     []byte
	oscActive  bool
}

// NewProcessor creates a new Processor with a handler.
func NewProcessor(handler Handler) *Processor {
	p := &Processor{
		handler: handler,
		modes:   make(map[Mode]bool),
		syncState: &SyncState{
			timeout: 150 * time.Millisecond,
		},
		dcsState: &DCSState{},
	}
	p.parser = vtstream.NewParser()
	p.parser.SetCallbacks(p.callbacks(), nil)
	return p
}

// NewProcessorWithBuffer creates a new Processor with a buffer and handler.
func NewProcessorWithBuffer(output io.Writer, handler Handler) *Processor {
	p := NewProcessor(handler)
	p.output = output
	return p
}

// Advance processes bytes and calls appropriate Handler methods.
func (p *Processor) Advance(handler Handler, bytes []byte) {
	p.handler = handler

	if p.syncState.enabled {
		p.syncState.buffer = append(p.syncState.buffer, bytes...)
		if time.Since(p.syncState.startTime) > p.syncState.timeout {
			p.processSyncBuffer(handler)
			p.syncState.enabled = false
		}
		return
	}

	p.parser.Write(bytes)
}

// processSyncBuffer processes buffered data in synchronized mode.
func (p *Processor) processSyncBuffer(handler Handler) {
	if len(p.syncState.buffer) == 0 {
		return
	}
	p.handler = handler
	p.parser.Write(p.syncState.buffer)
	p.syncState.buffer = p.syncState.buffer[:0]
}

// SetSyncTimeout sets the synchronized update timeout.
func (p *Processor) SetSyncTimeout(timeout time.Duration) {
	p.syncState.timeout = timeout
}

// SetLogger installs the diagnostic channel the underlying parser
// reports unhandled events to (recognized-but-unsupported CSI/OSC
// final bytes, over-reporting Text callbacks, and similar anomalies).
func (p *Processor) SetLogger(logger vtstream.Logger) {
	p.parser.SetLogger(logger)
}

// BeginSynchronizedUpdate starts synchronized update mode.
func (p *Processor) BeginSynchronizedUpdate() {
	p.syncState.enabled = true
	p.syncState.startTime = time.Now()
	p.syncState.buffer = p.syncState.buffer[:0]
}

// EndSynchronizedUpdate ends synchronized update mode and flushes buffer.
func (p *Processor) EndSynchronizedUpdate() {
	if p.syncState.enabled {
		if p.output != nil && len(p.syncState.buffer) > 0 {
			_, _ = p.output.Write(p.syncState.buffer)
		}
		p.syncState.enabled = false
		p.syncState.buffer = p.syncState.buffer[:0]
	}
}

// IsInSynchronizedUpdate returns true if in synchronized update mode.
func (p *Processor) IsInSynchronizedUpdate() bool {
	return p.syncState.enabled
}

// SetMode sets a terminal mode on or off.
func (p *Processor) SetMode(mode Mode, enabled bool) {
	if p.modes == nil {
		p.modes = make(map[Mode]bool)
	}
	p.modes[mode] = enabled
}

// IsMode returns true if the specified mode is enabled.
func (p *Processor) IsMode(mode Mode) bool {
	if p.modes == nil {
		return false
	}
	return p.modes[mode]
}

// Write writes data to the processor (for buffered output).
func (p *Processor) Write(data string) {
	if p.syncState.enabled {
		p.syncState.buffer = append(p.syncState.buffer, []byte(data)...)
	} else if p.output != nil {
		_, _ = p.output.Write([]byte(data))
	}
}

// Process processes raw bytes through the parser.
func (p *Processor) Process(data []byte) {
	if p.handler != nil {
		p.parser.Write(data)
	}
}

// Reset performs a soft reset.
func (p *Processor) Reset() {
	p.parser = vtstream.NewParser()
	p.parser.SetCallbacks(p.callbacks(), nil)
	p.syncState.enabled = false
	p.syncState.buffer = p.syncState.buffer[:0]
	p.dcsState.active = false
	p.dcsState.buffer = p.dcsState.buffer[:0]
}

// callbacks builds the vtstream.Callbacks record that drives this
// Processor's Handler translation. It is bound once at construction;
// the handler it dispatches to can still change between Advance calls.
func (p *Processor) callbacks() *vtstream.Callbacks {
	return &vtstream.Callbacks{
		Text:    p.onText,
		Control: p.onControl,
		Escape:  p.onEscape,
		CSI:     p.onCSI,
		OSC:     p.onOSC,
		DCS:     p.onDCS,
	}
}

func (p *Processor) onText(b []byte, remaining int) int {
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		size = 1
	}
	p.handler.Input(r)
	return size
}

func (p *Processor) onControl(b byte) bool {
	switch b {
	case C0.BEL:
		p.handler.Bell()
	case C0.BS:
		p.handler.Backspace()
	case C0.HT:
		p.handler.Tab()
	case C0.LF, C0.VT, C0.FF:
		p.handler.LineFeed()
	case C0.CR:
		p.handler.CarriageReturn()
	case C0.SO:
		p.handler.SetActiveCharset(G1)
	case C0.SI:
		p.handler.SetActiveCharset(G0)
	default:
		return false
	}
	return true
}

func (p *Processor) onEscape(seq []byte) bool {
	if len(seq) == 0 {
		return false
	}
	intermediates := seq[:len(seq)-1]
	final := seq[len(seq)-1]

	switch final {
	case '7':
		p.handler.SaveCursorPosition()
	case '8':
		p.handler.RestoreCursorPosition()
	case 'c':
		p.handler.Reset()
	case 'D':
		p.handler.MoveDown(1)
	case 'E':
		p.handler.MoveDownAndCR(1)
	case 'M':
		p.handler.MoveUp(1)
	case 'B':
		p.configureCharset(intermediates, StandardCharsetAscii)
	case '0':
		p.configureCharset(intermediates, StandardCharsetSpecialLineDrawing)
	case 'H':
		p.handler.SetTabStop()
	default:
		return false
	}
	return true
}

func (p *Processor) configureCharset(intermediates []byte, charset StandardCharset) {
	if len(intermediates) != 1 {
		return
	}
	var index CharsetIndex
	switch intermediates[0] {
	case '(':
		index = G0
	case ')':
		index = G1
	case '*':
		index = G2
	case '+':
		index = G3
	default:
		return
	}
	p.handler.ConfigureCharset(index, charset)
}

func (p *Processor) onCSI(leader []byte, args *vtstream.CSIArgs, intermed []byte, final byte) bool {
	groups := csiGroups(args)

	switch final {
	case 'A':
		p.handler.MoveUp(getParam(groups, 0, 0, 1))
	case 'B':
		p.handler.MoveDown(getParam(groups, 0, 0, 1))
	case 'C':
		p.handler.MoveForward(getParam(groups, 0, 0, 1))
	case 'D':
		p.handler.MoveBackward(getParam(groups, 0, 0, 1))
	case 'E':
		p.handler.MoveDownAndCR(getParam(groups, 0, 0, 1))
	case 'F':
		p.handler.MoveUpAndCR(getParam(groups, 0, 0, 1))
	case 'G':
		p.handler.GotoCol(getParam(groups, 0, 0, 1))
	case 'H', 'f':
		row := getParam(groups, 0, 0, 1)
		col := getParam(groups, 1, 0, 1)
		p.handler.Goto(row, col)
	case 'J':
		p.handler.ClearScreen(ClearMode(getParam(groups, 0, 0, 0)))
	case 'K':
		p.handler.ClearLine(LineClearMode(getParam(groups, 0, 0, 0)))
	case 'L':
		p.handler.InsertLines(getParam(groups, 0, 0, 1))
	case 'M':
		p.handler.DeleteLines(getParam(groups, 0, 0, 1))
	case 'P':
		p.handler.DeleteChars(getParam(groups, 0, 0, 1))
	case 'S':
		p.handler.ScrollUp(getParam(groups, 0, 0, 1))
	case 'T':
		p.handler.ScrollDown(getParam(groups, 0, 0, 1))
	case 'X':
		p.handler.EraseChars(getParam(groups, 0, 0, 1))
	case '@':
		p.handler.InsertBlank(getParam(groups, 0, 0, 1))
	case 'd':
		p.handler.GotoLine(getParam(groups, 0, 0, 1))
	case 'm':
		p.processSGR(groups)
	case 'r':
		top := getParam(groups, 0, 0, 1)
		bottom := getParam(groups, 1, 0, 0)
		if bottom == 0 {
			bottom = 24
		}
		p.handler.SetScrollingRegion(top, bottom)
	case 's':
		p.handler.SaveCursorPosition()
	case 'u':
		p.handler.RestoreCursorPosition()
	case 'h':
		p.setMode(leader, groups, true)
	case 'l':
		p.setMode(leader, groups, false)
	case 'q':
		if len(intermed) == 1 && intermed[0] == ' ' {
			p.handler.SetCursorStyle(cursorStyleFromDECSCUSR(getParam(groups, 0, 0, 0)))
		} else {
			return false
		}
	case 'n':
		p.handler.DeviceStatus(getParam(groups, 0, 0, 0))
	case 'c':
		p.handler.IdentifyTerminal()
	case 'g':
		switch getParam(groups, 0, 0, 0) {
		case 0:
			p.handler.ClearTabStop(TabClearCurrent)
		case 3:
			p.handler.ClearTabStop(TabClearAll)
		}
	case 'I':
		p.handler.TabForward(getParam(groups, 0, 0, 1))
	case 'Z':
		p.handler.TabBackward(getParam(groups, 0, 0, 1))
	default:
		return false
	}
	return true
}

func (p *Processor) setMode(leader []byte, groups [][]uint16, enable bool) {
	private := len(leader) > 0 && leader[0] == '?'
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		m := Mode(group[0])
		if private {
			m = Mode(0x200 + group[0])
		}
		if enable {
			p.handler.SetMode(m)
		} else {
			p.handler.ResetMode(m)
		}
	}
}

func (p *Processor) onOSC(command int32, frag vtstream.StringFragment) bool {
	if frag.Initial {
		p.oscCommand = command
		p.oscBuf = p.oscBuf[:0]
		p.oscActive = true
	}
	if !p.oscActive {
		return false
	}
	p.oscBuf = append(p.oscBuf, frag.Bytes...)

	if !frag.Final {
		return true
	}
	p.oscActive = false

	switch p.oscCommand {
	case 0, 2:
		p.handler.SetTitle(string(p.oscBuf))
		return true
	}
	// OSC 8 (hyperlinks) and anything else land here: recognized by
	// the state machine but not surfaced through Handler, so this
	// reports as unhandled and the caller's Logger gets to see it.
	return false
}

func (p *Processor) onDCS(command []byte, frag vtstream.StringFragment) bool {
	if frag.Initial {
		p.dcsState.active = true
		p.dcsState.command = append(p.dcsState.command[:0], command...)
		p.dcsState.buffer = p.dcsState.buffer[:0]
		p.handler.Hook(p.dcsState.command)
	}
	if !p.dcsState.active {
		return false
	}
	p.dcsState.buffer = append(p.dcsState.buffer, frag.Bytes...)

	if frag.Final {
		if len(p.dcsState.buffer) > 0 {
			p.handler.Put(p.dcsState.buffer)
		}
		p.dcsState.active = false
		p.handler.Unhook()
	}
	return true
}

// processSGR processes SGR (Select Graphic Rendition) sequences.
func (p *Processor) processSGR(groups [][]uint16) {
	if len(groups) == 0 {
		p.handler.ResetAttributes()
		p.handler.ResetColors()
		return
	}

	for _, group := range groups {
		if len(group) == 0 {
			continue
		}

		switch group[0] {
		case 0:
			p.handler.ResetAttributes()
			p.handler.ResetColors()
		case 1:
			p.handler.SetAttribute(AttrBold)
		case 2:
			p.handler.SetAttribute(AttrDim)
		case 3:
			p.handler.SetAttribute(AttrItalic)
		case 4:
			p.handler.SetAttribute(AttrUnderline)
		case 5:
			p.handler.SetAttribute(AttrBlinking)
		case 7:
			p.handler.SetAttribute(AttrReverse)
		case 8:
			p.handler.SetAttribute(AttrHidden)
		case 9:
			p.handler.SetAttribute(AttrStrikethrough)
		case 21:
			p.handler.SetAttribute(AttrDoubleUnderline)
		case 30, 31, 32, 33, 34, 35, 36, 37:
			p.handler.SetForeground(NewNamedColor(Ansi16Color(group[0] - 30)))
		case 38:
			if len(group) > 1 {
				p.processExtendedColor(group, true)
			}
		case 39:
			p.handler.SetForeground(NewNamedColor(Foreground))
		case 40, 41, 42, 43, 44, 45, 46, 47:
			p.handler.SetBackground(NewNamedColor(Ansi16Color(group[0] - 40)))
		case 48:
			if len(group) > 1 {
				p.processExtendedColor(group, false)
			}
		case 49:
			p.handler.SetBackground(NewNamedColor(Background))
		case 90, 91, 92, 93, 94, 95, 96, 97:
			p.handler.SetForeground(NewNamedColor(Ansi16Color(group[0] - 90 + 8)))
		case 100, 101, 102, 103, 104, 105, 106, 107:
			p.handler.SetBackground(NewNamedColor(Ansi16Color(group[0] - 100 + 8)))
		}
	}
}

// processExtendedColor processes extended color sequences (38/48).
func (p *Processor) processExtendedColor(group []uint16, isForeground bool) {
	if len(group) < 2 {
		return
	}

	var color Color

	switch group[1] {
	case 2:
		if len(group) >= 5 {
			r := uint8(minUint16(group[2], 255))
			g := uint8(minUint16(group[3], 255))
			b := uint8(minUint16(group[4], 255))
			color = NewRgbColor(r, g, b)
		}
	case 5:
		if len(group) >= 3 {
			idx := uint8(minUint16(group[2], 255))
			color = NewIndexedColor(idx)
		}
	}

	if isForeground {
		p.handler.SetForeground(color)
	} else {
		p.handler.SetBackground(color)
	}
}

// csiGroups regroups a flat CSIArgs accumulator into sub-parameter
// groups: consecutive slots joined by a `:` separator become one
// group, matching the SGR/CSI dispatch switch's expectations.
func csiGroups(args *vtstream.CSIArgs) [][]uint16 {
	if args == nil || args.Len() == 0 {
		return nil
	}

	var groups [][]uint16
	var current []uint16

	for i := 0; i < args.Len(); i++ {
		v := args.Get(i)
		var u uint16
		if v > 0 {
			if v > 0xFFFF {
				v = 0xFFFF
			}
			u = uint16(v)
		}
		current = append(current, u)
		if !args.HasMore(i) {
			groups = append(groups, current)
			current = nil
		}
	}
	if current != nil {
		groups = append(groups, current)
	}
	return groups
}

// getParam gets a parameter value with defaults.
func getParam(groups [][]uint16, groupIdx, paramIdx int, defaultValue int) int {
	if groupIdx >= len(groups) {
		return defaultValue
	}

	group := groups[groupIdx]
	if paramIdx >= len(group) {
		return defaultValue
	}

	value := int(group[paramIdx])
	if value == 0 && defaultValue != 0 {
		return defaultValue
	}

	return value
}

// minUint16 returns the minimum of two uint16 values.
func minUint16(a, b uint16) uint16 {
	if a < b {
		return a
	}
	return b
}
