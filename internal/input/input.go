// Package input turns raw terminal bytes into key presses and player commands.
package input

import (
	"io"

	"github.com/tomz197/botbolt/internal/session"
)

// Key is a single decoded key press. Printable ASCII keys are their
// lower-case rune; special keys are negative.
type Key rune

const (
	KeyUp Key = -(iota + 1)
	KeyDown
	KeyRight
	KeyLeft
	KeyEnter
	KeyEscape
	KeyCtrlC
)

// KeySpace is the space bar.
const KeySpace Key = ' '

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyRight:
		return "right"
	case KeyLeft:
		return "left"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "esc"
	case KeyCtrlC:
		return "ctrl+c"
	case KeySpace:
		return "space"
	}
	return string(rune(k))
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
	buf    []byte
	keys   []Key
}

// incompleteEscape returns how many trailing bytes of buf may still be the
// start of an arrow sequence.
func incompleteEscape(buf []byte) int {
	n := len(buf)
	switch {
	case n >= 1 && buf[n-1] == '\x1b':
		return 1
	case n >= 2 && buf[n-2] == '\x1b' && (buf[n-1] == '[' || buf[n-1] == 'O'):
		return 2
	}
	return 0
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine exits when r returns an error.
func StartStream(r io.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		var b [64]byte
		for {
			n, err := r.Read(b[:])
			for i := 0; i < n; i++ {
				s.ch <- b[i]
			}
			if err != nil {
				close(s.ch)
				return
			}
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended and every byte
// has been consumed.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadKeys drains all available bytes from the stream without blocking and
// decodes them. A partial escape sequence at the end is held until the next
// call. The returned slice is reused by the next call.
func ReadKeys(s *Stream) []Key {
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			s.buf = append(s.buf, b)
		default:
			break drain
		}
	}

	held := 0
	if !s.closed {
		held = incompleteEscape(s.buf)
	}
	s.keys = appendKeys(s.keys[:0], s.buf[:len(s.buf)-held])
	s.buf = append(s.buf[:0], s.buf[len(s.buf)-held:]...)
	return s.keys
}

// Parse decodes raw terminal bytes into key presses.
func Parse(buf []byte) []Key {
	return appendKeys(nil, buf)
}

func appendKeys(dst []Key, buf []byte) []Key {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI (ESC [) and SS3 (ESC O) arrow sequences.
		if b == '\x1b' && i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
			if k, ok := arrow(buf[i+2]); ok {
				dst = append(dst, k)
				i += 2
				continue
			}
		}

		switch {
		case b == '\x1b':
			dst = append(dst, KeyEscape)
		case b == '\r' || b == '\n':
			dst = append(dst, KeyEnter)
		case b == '\x03':
			dst = append(dst, KeyCtrlC)
		case b >= 'A' && b <= 'Z':
			dst = append(dst, Key(b+'a'-'A'))
		case b >= ' ' && b <= '~':
			dst = append(dst, Key(b))
		}
	}
	return dst
}

func arrow(b byte) (Key, bool) {
	switch b {
	case 'A':
		return KeyUp, true
	case 'B':
		return KeyDown, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	}
	return 0, false
}

// IsQuit reports whether k ends the program.
func IsQuit(k Key) bool {
	return k == 'q' || k == KeyCtrlC
}

// IsConfirm reports whether k confirms a prompt (start, restart).
func IsConfirm(k Key) bool {
	return k == KeySpace || k == KeyEnter || k == 'r'
}

// Command maps a key to the engine command it triggers.
func Command(k Key) session.Command {
	switch k {
	case KeyLeft, 'a', 'j':
		return session.CommandMoveLeft
	case KeyRight, 'd', 'l':
		return session.CommandMoveRight
	case KeySpace, KeyUp, 'w', 'k':
		return session.CommandFire
	case 'r':
		return session.CommandRestart
	}
	return session.CommandNone
}

// Commands maps keys to commands in order, skipping keys without one.
func Commands(keys []Key) []session.Command {
	var cmds []session.Command
	for _, k := range keys {
		if c := Command(k); c != session.CommandNone {
			cmds = append(cmds, c)
		}
	}
	return cmds
}
