package vtstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	cases := []struct {
		state State
		want  string
	}{
		{StateNormal, "Normal"},
		{StateCSILeader, "CSILeader"},
		{StateCSIArgs, "CSIArgs"},
		{StateCSIIntermed, "CSIIntermed"},
		{StateOSCCommand, "OSCCommand"},
		{StateOSC, "OSC"},
		{StateDCSCommand, "DCSCommand"},
		{StateDCS, "DCS"},
		{State(99), "Unknown(99)"},
	}
	for _, tt := range cases {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestStateInString(t *testing.T) {
	assert.True(t, StateOSC.inString())
	assert.True(t, StateDCS.inString())
	for _, s := range []State{StateNormal, StateCSILeader, StateCSIArgs, StateCSIIntermed, StateOSCCommand, StateDCSCommand} {
		assert.False(t, s.inString(), "state %s should not be a string state", s)
	}
}
