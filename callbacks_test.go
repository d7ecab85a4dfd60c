package vtstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeLogger struct {
	lines []string
}

func (f *fakeLogger) Printf(format string, v ...any) {
	f.lines = append(f.lines, format)
}

func TestSetCallbacksReplacesRecordAndUserData(t *testing.T) {
	p := NewParser()
	p.SetCallbacks(nil, "first")
	assert.Equal(t, "first", p.UserData())

	calls := 0
	p.SetCallbacks(&Callbacks{
		Control: func(b byte) bool { calls++; return true },
	}, "second")
	assert.Equal(t, "second", p.UserData())

	p.Write([]byte{0x07})
	assert.Equal(t, 1, calls)
}

func TestNilCallbacksDoNotPanic(t *testing.T) {
	p := NewParser()
	assert.NotPanics(t, func() {
		p.Write([]byte("plain \x1b[1mtext\x1b]0;t\x07\x1bPx\x1b\\"))
	})
}

func TestUnhandledEventsLogAndContinue(t *testing.T) {
	p := NewParser()
	logger := &fakeLogger{}
	p.SetLogger(logger)
	p.SetCallbacks(&Callbacks{
		Control: func(b byte) bool { return false },
	}, nil)

	p.Write([]byte{0x07})
	assert.NotEmpty(t, logger.lines)
}

func TestSetLoggerNilRestoresNoop(t *testing.T) {
	p := NewParser()
	p.SetLogger(&fakeLogger{})
	p.SetLogger(nil)
	assert.NotPanics(t, func() {
		p.Write([]byte{0x07})
	})
}
