package vtstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures every Callbacks invocation as a comparable event
// in one append-only log shared by all hook kinds.
type recorder struct {
	events []string
}

func (r *recorder) callbacks() *Callbacks {
	return &Callbacks{
		Text: func(b []byte, remaining int) int {
			r.events = append(r.events, "text:"+string(b[:1]))
			return 1
		},
		Control: func(b byte) bool {
			r.events = append(r.events, fmtControl(b))
			return true
		},
		Escape: func(seq []byte) bool {
			r.events = append(r.events, "escape:"+string(seq))
			return true
		},
		CSI: func(leader []byte, args *CSIArgs, intermed []byte, final byte) bool {
			r.events = append(r.events, fmtCSI(leader, args, intermed, final))
			return true
		},
		OSC: func(command int32, frag StringFragment) bool {
			r.events = append(r.events, fmtOSC(command, frag))
			return true
		},
		DCS: func(command []byte, frag StringFragment) bool {
			r.events = append(r.events, fmtDCS(command, frag))
			return true
		},
	}
}

func fmtControl(b byte) string {
	return "control:" + string(rune(b))
}

func fmtCSI(leader []byte, args *CSIArgs, intermed []byte, final byte) string {
	out := "csi:" + string(leader) + "|"
	for i := 0; i < args.Len(); i++ {
		if i > 0 {
			out += ","
		}
		v := args.Get(i)
		if v == CSIArgMissing {
			out += "_"
		} else {
			out += itoa(v)
		}
		if args.HasMore(i) {
			out += "+"
		}
	}
	out += "|" + string(intermed) + "|" + string(final)
	return out
}

func fmtOSC(command int32, frag StringFragment) string {
	return "osc:" + itoa(command) + ":" + string(frag.Bytes) + boolTag(frag.Initial, frag.Final)
}

func fmtDCS(command []byte, frag StringFragment) string {
	return "dcs:" + string(command) + ":" + string(frag.Bytes) + boolTag(frag.Initial, frag.Final)
}

func boolTag(initial, final bool) string {
	s := "["
	if initial {
		s += "i"
	}
	if final {
		s += "f"
	}
	return s + "]"
}

func itoa(v int32) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [12]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func newRecordedParser() (*Parser, *recorder) {
	r := &recorder{}
	p := NewParser()
	p.SetCallbacks(r.callbacks(), nil)
	return p, r
}

func TestParserCreation(t *testing.T) {
	p := NewParser()
	assert.Equal(t, StateNormal, p.State())
	assert.Equal(t, int32(-1), p.oscCommand)
}

func TestScenarioCSIBasicArgs(t *testing.T) {
	p, r := newRecordedParser()
	n := p.Write([]byte("\x1b[1;2H"))
	require.Equal(t, 6, n)
	assert.Equal(t, []string{"csi:|1,2||H"}, r.events)
}

// Scenario 2.
func TestScenarioCSIMissingArg(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte("\x1b[;5H"))
	assert.Equal(t, []string{"csi:|_,5||H"}, r.events)
}

// Scenario 3.
func TestScenarioCSISubparameter(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte("\x1b[4:3m"))
	assert.Equal(t, []string{"csi:|4+,3||m"}, r.events)
}

// Scenario 4.
func TestScenarioOSCBellTerminated(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte("\x1b]0;hi\x07"))
	assert.Equal(t, []string{"osc:0:hi[if]"}, r.events)
}

// Scenario 5, split across two Write calls.
func TestScenarioOSCSplitAcrossWrites(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte("\x1b]0;h"))
	p.Write([]byte("i\x1b\\"))
	assert.Equal(t, []string{"osc:0:h[i]", "osc:0:i[f]"}, r.events)
}

// Scenario 6.
func TestScenarioTextEscapeText(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte("A\x1bcB"))
	assert.Equal(t, []string{"text:A", "escape:c", "text:B"}, r.events)
}

// Scenario 7: a run of digits long past any reasonable column/row
// does not clamp or raise an overflow event.
func TestScenarioCSILongNumberNoOverflowEvent(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte("\x1b[999999m"))
	assert.Equal(t, []string{"csi:|999999||m"}, r.events)
}

// Scenario 8: a NUL inside an OSC body splits the fragment but is
// otherwise invisible (not passed to Control).
func TestScenarioOSCSplitByNUL(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte("\x1b]2;x\x00y\x07"))
	assert.Equal(t, []string{"osc:2:x[i]", "osc:2:y[f]"}, r.events)
}

func TestCSILeaderBytes(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte("\x1b[?25h"))
	assert.Equal(t, []string{"csi:?|25||h"}, r.events)
}

func TestCSIIntermediateBytes(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte("\x1b[2 q"))
	assert.Equal(t, []string{"csi:|2| |q"}, r.events)
}

func TestControlCharactersInterleaveWithText(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte("Hello\nWorld\r"))
	assert.Equal(t, []string{
		"text:H", "text:e", "text:l", "text:l", "text:o",
		"control:\n",
		"text:W", "text:o", "text:r", "text:l", "text:d",
		"control:\r",
	}, r.events)
}

func TestCANAbandonsCSISilently(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte("\x1b[1;2\x18H"))
	assert.Equal(t, StateNormal, p.State())
	// "H" after CAN is plain text, not part of a CSI event.
	assert.Equal(t, []string{"text:H"}, r.events)
}

func TestSUBAbandonsDCSAndDiscardsContent(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte("\x1bPhello\x1a"))
	assert.Equal(t, StateNormal, p.State())
	assert.Empty(t, r.events)
}

func TestC1FormOfCSI(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte{0x9B, '1', 'm'})
	assert.Equal(t, []string{"csi:|1||m"}, r.events)
}

func TestC1FormOfEscape(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte{0x1B, 'D'}) // ESC D == IND, C1 0x84
	// ESC D hoists to the C1 control 0x84, which has no mapped
	// meaning here and is reported via Control, not Escape.
	assert.Equal(t, []string{fmtControl(0x84)}, r.events)
}

func TestUTF8ModeSuppressesC1(t *testing.T) {
	p, r := newRecordedParser()
	p.SetUTF8Mode(true)
	p.Write([]byte{0x9B, '1', 'm'})
	// With mode.utf8 set, 0x9B is not a C1 control; it is handed to
	// the Text callback as a raw byte instead.
	assert.Equal(t, []string{"text:\x9b", "text:1", "text:m"}, r.events)
	assert.Equal(t, StateNormal, p.State())
}

func TestDCSCommandAndPutBytes(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte("\x1bP1$rhello\x1b\\"))
	assert.Equal(t, []string{"dcs:1$r:hello[if]"}, r.events)
}

func TestTextCallbackZeroReturnForcesProgress(t *testing.T) {
	p := NewParser()
	calls := 0
	p.SetCallbacks(&Callbacks{
		Text: func(b []byte, remaining int) int {
			calls++
			return 0
		},
	}, nil)
	n := p.Write([]byte("abc"))
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, calls)
}

func TestTextCallbackOverconsumeIsClamped(t *testing.T) {
	p := NewParser()
	p.SetCallbacks(&Callbacks{
		Text: func(b []byte, remaining int) int {
			return remaining + 50
		},
	}, nil)
	// Must not panic or read past the buffer; a single oversized
	// claim must consume exactly what's left.
	n := p.Write([]byte("abc"))
	assert.Equal(t, 3, n)
}

func TestUnterminatedOSCFlushedAtEndOfWrite(t *testing.T) {
	p, r := newRecordedParser()
	p.Write([]byte("\x1b]0;partial"))
	assert.Equal(t, []string{"osc:0:partial[i]"}, r.events)
	assert.Equal(t, StateOSC, p.State())
}

// Splitting the input at any byte boundary must reproduce the same
// event sequence, modulo additional non-final OSC/DCS fragments.
func TestFragmentationInvarianceAcrossSplits(t *testing.T) {
	input := []byte("Hi \x1b[1;2H\x1b]0;title\x07\x1bPfoo\x1b\\bye")
	whole, _ := runAll(t, [][]byte{input})

	for split := 1; split < len(input); split++ {
		got, _ := runAll(t, [][]byte{input[:split], input[split:]})
		assert.Equal(t, collapseOSCDCS(whole), collapseOSCDCS(got), "split at %d", split)
	}
}

func runAll(t *testing.T, chunks [][]byte) ([]string, *Parser) {
	t.Helper()
	p, r := newRecordedParser()
	for _, c := range chunks {
		n := p.Write(c)
		require.Equal(t, len(c), n)
	}
	return r.events, p
}

// collapseOSCDCS merges consecutive osc:/dcs: fragments that share a
// command prefix, the way a consumer reconstructing the full string
// from fragments would, so that extra non-final splits introduced by
// chunking don't fail the comparison.
func collapseOSCDCS(events []string) []string {
	var out []string
	for _, e := range events {
		if len(out) > 0 && sameStringKind(out[len(out)-1], e) {
			headA, bodyA, tagA := splitFragment(out[len(out)-1])
			_, bodyB, tagB := splitFragment(e)
			if !strings.Contains(tagA, "f") {
				tag := "["
				if strings.Contains(tagA, "i") {
					tag += "i"
				}
				if strings.Contains(tagB, "f") {
					tag += "f"
				}
				out[len(out)-1] = headA + bodyA + bodyB + tag + "]"
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// splitFragment breaks a recorded "kind:command:body[flags]" fragment
// event into its "kind:command:" head, its body and its "[flags]" tag.
func splitFragment(e string) (head, body, tag string) {
	i := 4 + strings.Index(e[4:], ":") + 1
	j := strings.LastIndex(e, "[")
	return e[:i], e[i:j], e[j:]
}

func sameStringKind(a, b string) bool {
	isFragment := func(s string) bool {
		return strings.HasPrefix(s, "osc:") || strings.HasPrefix(s, "dcs:")
	}
	if !isFragment(a) || !isFragment(b) {
		return false
	}
	headA, _, _ := splitFragment(a)
	headB, _, _ := splitFragment(b)
	return headA == headB
}
