package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControlCharacters(t *testing.T) {
	assert.Equal(t, byte(0x00), C0.NUL)
	assert.Equal(t, byte(0x07), C0.BEL)
	assert.Equal(t, byte(0x08), C0.BS)
	assert.Equal(t, byte(0x09), C0.HT)
	assert.Equal(t, byte(0x0A), C0.LF)
	assert.Equal(t, byte(0x0D), C0.CR)
	assert.Equal(t, byte(0x1B), C0.ESC)
	assert.Equal(t, byte(0x1F), C0.US)
}
