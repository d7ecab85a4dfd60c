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
	"unicode/utf8"

	"github.com/cliofy/vtstream"
)

func decodeRuneUTF8(b []byte) (rune, int) {
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		size = 1
	}
	return r, size
}

// NewBufferParser builds a parser wired to drive tb directly: Print
// for text, Execute for C0 controls, EscDispatch/CsiDispatch for
// escape and CSI sequences, and fragment-reassembling OSC/DCS
// dispatch.
func NewBufferParser(tb *TerminalBuffer) *vtstream.Parser {
	p := vtstream.NewParser()
	p.SetCallbacks(&vtstream.Callbacks{
		Text: func(b []byte, remaining int) int {
			r, size := decodeRuneUTF8(b)
			tb.Print(r)
			return size
		},
		Control: func(b byte) bool {
			tb.Execute(b)
			return true
		},
		Escape: func(seq []byte) bool {
			if len(seq) == 0 {
				return false
			}
			tb.EscDispatch(seq[:len(seq)-1], seq[len(seq)-1])
			return true
		},
		CSI: func(leader []byte, args *vtstream.CSIArgs, intermed []byte, final byte) bool {
			tb.CsiDispatch(leader, csiGroups(args), intermed, final)
			return true
		},
		OSC: func(command int32, frag vtstream.StringFragment) bool {
			if frag.Initial {
				tb.oscCommand = command
				tb.oscBuf = tb.oscBuf[:0]
				tb.oscActive = true
			}
			if !tb.oscActive {
				return false
			}
			tb.oscBuf = append(tb.oscBuf, frag.Bytes...)
			if frag.Final {
				tb.oscActive = false
				tb.OscDispatch(tb.oscCommand, string(tb.oscBuf))
			}
			return true
		},
		DCS: func(command []byte, frag vtstream.StringFragment) bool {
			if frag.Initial {
				tb.dcsActive = true
				tb.dcsCommand = append(tb.dcsCommand[:0], command...)
				tb.dcsBuf = tb.dcsBuf[:0]
				tb.Hook(tb.dcsCommand)
			}
			if !tb.dcsActive {
				return false
			}
			tb.dcsBuf = append(tb.dcsBuf, frag.Bytes...)
			if frag.Final {
				if len(tb.dcsBuf) > 0 {
					tb.Put(tb.dcsBuf)
				}
				tb.dcsActive = false
				tb.Unhook()
			}
			return true
		},
	}, nil)
	return p
}

// DefaultTerminal creates a default terminal buffer with standard dimensions (80x24)
func DefaultTerminal() *TerminalBuffer {
	return NewTerminalBuffer(80, 24)
}

// ParseBytes parses bytes and returns the rendered display
func ParseBytes(bytes []byte, width, height int) string {
	terminal := NewTerminalBuffer(width, height)
	NewBufferParser(terminal).Write(bytes)
	return terminal.GetDisplay()
}

// ParseBytesWithColors parses bytes and returns the rendered display with colors
func ParseBytesWithColors(bytes []byte, width, height int) string {
	terminal := NewTerminalBuffer(width, height)
	NewBufferParser(terminal).Write(bytes)
	return terminal.GetDisplayWithColors()
}

// CreateTerminalFromString creates a terminal buffer and parses the given string
func CreateTerminalFromString(input string, width, height int) *TerminalBuffer {
	terminal := NewTerminalBuffer(width, height)
	NewBufferParser(terminal).Write([]byte(input))
	return terminal
}

// RenderString renders a string with VTE parsing and returns plain text
func RenderString(input string, width, height int) string {
	return ParseBytes([]byte(input), width, height)
}

// RenderStringWithColors renders a string with VTE parsing and returns colored output
func RenderStringWithColors(input string, width, height int) string {
	return ParseBytesWithColors([]byte(input), width, height)
}
