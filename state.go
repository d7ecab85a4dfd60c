// Package vtstream implements a streaming VT/xterm control-sequence
// parser: a byte-driven state machine that recognizes the ECMA-48 /
// ISO 2022 control grammar (C0/C1 controls, ESC sequences, CSI, OSC
// and DCS strings) and reports recognized events to a consumer through
// the Callbacks capability record. It does not interpret what the
// events mean, render anything, or decode UTF-8 text runs; see the
// terminal package for a consumer that does.
package vtstream

import "fmt"

// State is the parser's syntactic context. Transverse to it, the
// Parser also tracks an "in-escape" flag (see Parser.inEsc) that is
// not folded into State because an ESC byte can arrive, and must be
// resolved, from any state; inside OSC and DCS the state is kept
// while the ESC is pending so that ESC \ can terminate the string.
type State uint8

const (
	StateNormal State = iota
	StateCSILeader
	StateCSIArgs
	StateCSIIntermed
	StateOSCCommand
	StateOSC
	StateDCSCommand
	StateDCS
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "Normal"
	case StateCSILeader:
		return "CSILeader"
	case StateCSIArgs:
		return "CSIArgs"
	case StateCSIIntermed:
		return "CSIIntermed"
	case StateOSCCommand:
		return "OSCCommand"
	case StateOSC:
		return "OSC"
	case StateDCSCommand:
		return "DCSCommand"
	case StateDCS:
		return "DCS"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// inString reports whether the state accumulates an OSC/DCS string
// body, i.e. whether ST (or BEL) should be recognized and a byte
// range is being anchored into the caller's buffer.
func (s State) inString() bool {
	return s == StateOSC || s == StateDCS
}
