package vtstream

// Parser is a streaming VT/xterm control-sequence decoder. All state
// lives inline; there is no allocation on the write path and every
// buffer is fixed capacity. A Parser is not safe for concurrent use
// and a Callbacks hook must not re-enter Write on the same Parser.
type Parser struct {
	state State
	inEsc bool

	intermed byteBuf
	leader   byteBuf
	args     CSIArgs

	oscCommand int32 // -1 == absent

	dcsCommand byteBuf

	stringInitial bool

	utf8Mode bool

	callbacks *Callbacks
	userData  any
	logger    Logger
}

// NewParser creates a Parser in the NORMAL state with UTF-8 mode
// off, so 8-bit bytes 0x80-0x9F are recognized as C1 controls by
// default.
func NewParser() *Parser {
	return &Parser{
		state:      StateNormal,
		oscCommand: -1,
		logger:     noopLogger{},
	}
}

// State returns the parser's current syntactic context.
func (p *Parser) State() State {
	return p.state
}

// SetCallbacks replaces the capability record and opaque user
// pointer.
func (p *Parser) SetCallbacks(callbacks *Callbacks, userData any) {
	p.callbacks = callbacks
	p.userData = userData
}

// UserData returns the opaque pointer set by SetCallbacks.
func (p *Parser) UserData() any {
	return p.userData
}

// SetLogger installs the diagnostic channel. A nil logger restores
// the no-op default.
func (p *Parser) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	p.logger = logger
}

// SetUTF8Mode toggles UTF-8 mode: when true, bytes 0x80-0x9F are
// never treated as C1 controls.
func (p *Parser) SetUTF8Mode(utf8 bool) {
	p.utf8Mode = utf8
}

func (p *Parser) logf(format string, v ...any) {
	p.logger.Printf(format, v...)
}

// Write feeds bytes through the state machine, invoking Callbacks
// hooks synchronously as events are recognized. It always consumes
// the entire input; fragmenting the same logical sequence across
// multiple Write calls produces the same events, with OSC/DCS bodies
// possibly split into more non-final fragments.
func (p *Parser) Write(bytes []byte) int {
	n := len(bytes)

	stringStart := -1
	if p.state.inString() {
		stringStart = 0
	}

	for pos := 0; pos < n; {
		pos = p.step(bytes, pos, &stringStart)
	}

	// An unterminated string body seen in this call must be flushed
	// before the buffer it points into goes out of scope.
	// A trailing ESC may be the start of ST and is not part of the body.
	if stringStart >= 0 {
		end := n
		if p.inEsc && end > stringStart {
			end--
		}
		p.emitStringFragment(bytes[stringStart:end], false)
	}

	return n
}

// step applies the top-level byte precedence rules to a single byte
// at bytes[pos] and returns the position of the next byte to examine
// (pos+1, except that a printable run may advance further).
func (p *Parser) step(bytes []byte, pos int, stringStart *int) int {
	c := bytes[pos]
	c1Allowed := !p.utf8Mode

	switch {
	case c == 0x00 || c == 0x7F: // NUL, DEL
		if p.state.inString() && *stringStart >= 0 {
			p.emitStringFragment(bytes[*stringStart:pos], false)
			*stringStart = pos + 1
		}
		return pos + 1

	case c == 0x18 || c == 0x1A: // CAN, SUB
		p.inEsc = false
		p.state = StateNormal
		*stringStart = -1
		return pos + 1

	case c == 0x1B: // ESC
		p.intermed.reset()
		if !p.state.inString() {
			p.state = StateNormal
		}
		p.inEsc = true
		return pos + 1

	case c == 0x07 && p.state.inString():
		// BEL stands for ST inside an OSC/DCS string; fall through
		// to the string-state handler below, which will finalize.

	case c < 0x20: // other C0
		if p.state.inString() && *stringStart >= 0 {
			p.emitStringFragment(bytes[*stringStart:pos], false)
		}
		p.doControl(c)
		if p.state.inString() {
			*stringStart = pos + 1
		}
		return pos + 1
	}

	stringLen := -1
	if *stringStart >= 0 {
		stringLen = pos - *stringStart
	}

	if p.inEsc {
		// Hoist ESC X (0x40<=X<0x60) into its C1 equivalent, unless
		// we're mid-string and X isn't the '\' that completes ST.
		if p.intermed.len == 0 && c >= 0x40 && c < 0x60 && (!p.state.inString() || c == 0x5C) {
			c += 0x40
			c1Allowed = true
			if stringLen >= 0 {
				stringLen-- // drop the ESC byte itself from the pending fragment
			}
			p.inEsc = false
		} else {
			// Not a valid two-byte C1: abandon the escape. The
			// NORMAL handler below will treat this byte as an
			// escape-intermediate or -final instead.
			*stringStart = -1
			p.state = StateNormal
		}
	}

	return p.dispatch(bytes, pos, c, c1Allowed, stringStart, stringLen)
}

// dispatch re-enters the CSI_LEADER -> CSI_ARGS -> CSI_INTERMED and
// OSC_COMMAND -> OSC fall-through chains as an explicit local loop,
// instead of replicating fall-through conditionals.
func (p *Parser) dispatch(bytes []byte, pos int, c byte, c1Allowed bool, stringStart *int, stringLen int) int {
	for {
		switch p.state {
		case StateCSILeader:
			if c >= 0x3C && c <= 0x3F {
				p.leader.push(c, CSILeaderMax-1)
				return pos + 1
			}
			p.args.reset()
			p.args.startSlot()
			p.state = StateCSIArgs
			continue

		case StateCSIArgs:
			switch {
			case c >= '0' && c <= '9':
				p.args.digit(int32(c - '0'))
				return pos + 1
			case c == ':':
				p.args.markHasMore()
				p.args.startSlot()
				return pos + 1
			case c == ';':
				p.args.startSlot()
				return pos + 1
			}
			p.intermed.reset()
			p.state = StateCSIIntermed
			continue

		case StateCSIIntermed:
			switch {
			case c >= 0x20 && c <= 0x2F:
				p.intermed.push(c, IntermedMax-1)
				return pos + 1
			case c >= 0x40 && c <= 0x7E:
				p.emitCSI(c)
			}
			p.state = StateNormal
			return pos + 1

		case StateOSCCommand:
			switch {
			case c >= '0' && c <= '9':
				if p.oscCommand < 0 {
					p.oscCommand = 0
				}
				p.oscCommand = p.oscCommand*10 + int32(c-'0')
				return pos + 1
			case c == ';':
				p.state = StateOSC
				*stringStart = pos + 1
				return pos + 1
			}
			*stringStart = pos
			p.state = StateOSC
			continue

		case StateDCSCommand:
			p.dcsCommand.push(c, CSILeaderMax)
			if c >= 0x40 && c <= 0x7E {
				*stringStart = pos + 1
				p.state = StateDCS
			}
			return pos + 1

		case StateOSC, StateDCS:
			if c == 0x07 || (c1Allowed && c == 0x9C) {
				end := pos
				if stringLen >= 0 {
					end = *stringStart + stringLen
				}
				p.emitStringFragment(bytes[*stringStart:end], true)
				p.state = StateNormal
				*stringStart = -1
			}
			return pos + 1

		case StateNormal:
			return p.dispatchNormal(bytes, pos, c, c1Allowed)
		}
	}
}

// dispatchNormal handles NORMAL-state bytes: escape continuations,
// C1 control entry points, and the printable text path.
func (p *Parser) dispatchNormal(bytes []byte, pos int, c byte, c1Allowed bool) int {
	if p.inEsc {
		switch {
		case c >= 0x20 && c <= 0x2F:
			p.intermed.push(c, IntermedMax-1)
		case c >= 0x30 && c <= 0x7E:
			p.emitEscape(c)
			p.inEsc = false
		}
		return pos + 1
	}

	if c1Allowed && c >= 0x80 && c < 0xA0 {
		switch c {
		case 0x90: // DCS
			p.dcsCommand.reset()
			p.stringInitial = true
			p.state = StateDCSCommand
		case 0x9B: // CSI
			p.leader.reset()
			p.state = StateCSILeader
		case 0x9D: // OSC
			p.oscCommand = -1
			p.stringInitial = true
			p.state = StateOSCCommand
		default:
			p.doControl(c)
		}
		return pos + 1
	}

	remaining := len(bytes) - pos
	eaten := 0
	if p.callbacks != nil && p.callbacks.Text != nil {
		eaten = p.callbacks.Text(bytes[pos:], remaining)
	}
	if eaten <= 0 {
		p.logf("vtstream: text callback consumed 0 bytes, forcing progress")
		eaten = 1
	} else if eaten > remaining {
		// An over-reporting Text callback is clamped rather than
		// trusted, so a buggy consumer can never walk the parser off
		// the end of the input slice.
		p.logf("vtstream: text callback consumed %d bytes beyond the %d available, clamping", eaten, remaining)
		eaten = remaining
	}
	return pos + eaten
}

func (p *Parser) doControl(b byte) {
	if p.callbacks != nil && p.callbacks.Control != nil {
		if p.callbacks.Control(b) {
			return
		}
	}
	p.logf("vtstream: unhandled control 0x%02x", b)
}

func (p *Parser) emitEscape(final byte) {
	var seq [IntermedMax + 1]byte
	n := copy(seq[:], p.intermed.Bytes())
	seq[n] = final
	n++

	if p.callbacks != nil && p.callbacks.Escape != nil {
		if p.callbacks.Escape(seq[:n]) {
			return
		}
	}
	p.logf("vtstream: unhandled escape %q", seq[:n])
}

func (p *Parser) emitCSI(final byte) {
	if p.callbacks != nil && p.callbacks.CSI != nil {
		if p.callbacks.CSI(p.leader.Bytes(), &p.args, p.intermed.Bytes(), final) {
			return
		}
	}
	p.logf("vtstream: unhandled csi %c", final)
}

// emitStringFragment dispatches an OSC or DCS fragment to the
// matching hook and clears the initial-fragment flag afterward. A
// DCS hook only fires for non-empty fragments, and a skipped empty
// DCS fragment leaves the initial-fragment flag set; an OSC hook
// fires for every fragment including empty ones.
func (p *Parser) emitStringFragment(b []byte, final bool) {
	frag := StringFragment{Bytes: b, Initial: p.stringInitial, Final: final}

	switch p.state {
	case StateOSC:
		if p.callbacks == nil || p.callbacks.OSC == nil || !p.callbacks.OSC(p.oscCommand, frag) {
			p.logf("vtstream: unhandled osc fragment (command=%d)", p.oscCommand)
		}

	case StateDCS:
		if len(b) == 0 {
			return
		}
		if p.callbacks == nil || p.callbacks.DCS == nil || !p.callbacks.DCS(p.dcsCommand.Bytes(), frag) {
			p.logf("vtstream: unhandled dcs fragment")
		}
	}

	p.stringInitial = false
}
