package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynchronizedUpdateSequences(t *testing.T) {
	t.Run("BeginSynchronizedUpdate", func(t *testing.T) {
		assert.Equal(t, "\x1b[?2026h", BeginSynchronizedUpdate())
	})

	t.Run("EndSynchronizedUpdate", func(t *testing.T) {
		assert.Equal(t, "\x1b[?2026l", EndSynchronizedUpdate())
	})

	t.Run("WrapInSynchronizedUpdate", func(t *testing.T) {
		content := "Hello, World!"
		result := WrapInSynchronizedUpdate(content)
		expected := "\x1b[?2026h" + content + "\x1b[?2026l"
		assert.Equal(t, expected, result)
	})
}

func TestTerminalSequences(t *testing.T) {
	t.Run("ClearScreen", func(t *testing.T) {
		assert.Equal(t, "\x1b[2J", ClearScreen())
	})

	t.Run("ClearLine", func(t *testing.T) {
		assert.Equal(t, "\x1b[K", ClearLine())
	})

	t.Run("MoveTo", func(t *testing.T) {
		assert.Equal(t, "\x1b[6;11H", MoveTo(5, 10)) // 1-indexed
	})

	t.Run("SaveRestoreCursor", func(t *testing.T) {
		assert.Equal(t, "\x1b7", SaveCursor())
		assert.Equal(t, "\x1b8", RestoreCursor())
	})
}
