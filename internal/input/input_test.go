package input

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/botbolt/internal/session"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Key
	}{
		{"letters are lower-cased", "aD", []Key{'a', 'd'}},
		{"csi arrows", "\x1b[D\x1b[C\x1b[A\x1b[B", []Key{KeyLeft, KeyRight, KeyUp, KeyDown}},
		{"ss3 arrows", "\x1bOD", []Key{KeyLeft}},
		{"lone escape", "\x1b", []Key{KeyEscape}},
		{"enter and ctrl-c", "\r\n\x03", []Key{KeyEnter, KeyEnter, KeyCtrlC}},
		{"space", " ", []Key{KeySpace}},
		{"control bytes dropped", "\x01\x7f", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse([]byte(tt.in)))
		})
	}
}

func TestCommands(t *testing.T) {
	keys := Parse([]byte("\x1b[Dj a\x1b[Cldwkrx\r"))
	assert.Equal(t, []session.Command{
		session.CommandMoveLeft,
		session.CommandMoveLeft,
		session.CommandFire,
		session.CommandMoveLeft,
		session.CommandMoveRight,
		session.CommandMoveRight,
		session.CommandMoveRight,
		session.CommandFire,
		session.CommandFire,
		session.CommandRestart,
	}, Commands(keys))
}

func TestEnterIsNotACommand(t *testing.T) {
	assert.Equal(t, session.CommandNone, Command(KeyEnter))
	assert.Empty(t, Commands([]Key{KeyEnter, KeyEscape}))
}

func TestQuitAndConfirm(t *testing.T) {
	assert.True(t, IsQuit('q'))
	assert.True(t, IsQuit(KeyCtrlC))
	assert.False(t, IsQuit(KeyEscape))

	assert.True(t, IsConfirm(KeySpace))
	assert.True(t, IsConfirm(KeyEnter))
	assert.True(t, IsConfirm('r'))
	assert.False(t, IsConfirm('a'))
}

func TestStreamDrainsAndCloses(t *testing.T) {
	s := StartStream(strings.NewReader("a\x1b[C"))

	var got []Key
	require.Eventually(t, func() bool {
		got = append(got, ReadKeys(s)...)
		return s.Closed()
	}, time.Second, time.Millisecond)

	assert.Equal(t, []Key{'a', KeyRight}, got)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "left", KeyLeft.String())
	assert.Equal(t, "space", KeySpace.String())
	assert.Equal(t, "q", Key('q').String())
}
