package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharsets(t *testing.T) {
	t.Run("CharsetIndex", func(t *testing.T) {
		indices := []CharsetIndex{G0, G1, G2, G3}
		assert.Equal(t, 4, len(indices))

		assert.Equal(t, CharsetIndex(0), G0)
		assert.Equal(t, CharsetIndex(1), G1)
		assert.Equal(t, CharsetIndex(2), G2)
		assert.Equal(t, CharsetIndex(3), G3)

		assert.Equal(t, "G0", G0.String())
		assert.Equal(t, "G1", G1.String())
	})

	t.Run("StandardCharset", func(t *testing.T) {
		charsets := []StandardCharset{StandardCharsetAscii, StandardCharsetSpecialLineDrawing}
		assert.Equal(t, 2, len(charsets))
		assert.Equal(t, "Ascii", StandardCharsetAscii.String())
		assert.Equal(t, "SpecialCharacterAndLineDrawing", StandardCharsetSpecialLineDrawing.String())
	})

	t.Run("AsciiMapIsIdentity", func(t *testing.T) {
		for _, r := range []rune{'a', 'q', 'Z', '~'} {
			assert.Equal(t, r, StandardCharsetAscii.Map(r))
		}
	})

	t.Run("SpecialLineDrawingMap", func(t *testing.T) {
		assert.Equal(t, '─', StandardCharsetSpecialLineDrawing.Map('q'))
		assert.Equal(t, '┌', StandardCharsetSpecialLineDrawing.Map('l'))
		assert.Equal(t, '┘', StandardCharsetSpecialLineDrawing.Map('j'))
		// Characters outside the mapped set pass through unchanged.
		assert.Equal(t, 'A', StandardCharsetSpecialLineDrawing.Map('A'))
	})
}
