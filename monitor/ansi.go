// This file is part of zmon - https://github.com/z80kit/zmon
//
// Copyright 2026 z80kit contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package monitor

import (
	"bufio"
	"io"
)

// Key is either a plain byte value (0-255) or one of the extended
// KeyUp..KeyHome values a CSI escape sequence decodes to.
type Key rune

// Extended keys recognized by KeyReader, kept out of the Latin-1 range
// so they never collide with a literal input byte.
const (
	KeyUp Key = 0x100 + iota
	KeyDown
	KeyRight
	KeyLeft
	KeyEnd
	KeyHome
)

// KeyReader decodes a raw byte stream into Key values, collapsing the
// ANSI cursor-movement escape sequences (CSI A/B/C/D/F/H) a terminal
// sends for the arrow keys, Home, and End into single Key values, and
// normalizing "\r", "\n", and "\r\n" all to a single '\r'.
type KeyReader struct {
	r     *bufio.Reader
	crSeen bool
}

// NewKeyReader wraps r for key-at-a-time reading.
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{r: bufio.NewReader(r)}
}

// ReadKey blocks for and returns the next decoded key.
func (k *KeyReader) ReadKey() (Key, error) {
	b, err := k.r.ReadByte()
	if err != nil {
		return 0, err
	}

	if k.crSeen {
		k.crSeen = false
		if b == '\n' {
			// second half of a "\r\n" pair: already reported the \r
			b2, err := k.r.ReadByte()
			if err != nil {
				return 0, err
			}
			b = b2
		}
	}

	switch b {
	case '\r', '\n':
		k.crSeen = b == '\r'
		return Key('\r'), nil
	case 0x1B: // ESC
		return k.readEscape()
	default:
		return Key(b), nil
	}
}

func (k *KeyReader) readEscape() (Key, error) {
	b, err := k.r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b != '[' {
		// Bare ESC, or an escape sequence form we don't special-case;
		// report ESC and let the byte be read again next call.
		if err := k.r.UnreadByte(); err != nil {
			return Key(0x1B), nil
		}
		return Key(0x1B), nil
	}
	// CSI: read (and discard) any parameter digits/semicolons, then the
	// final letter selects the key.
	var final byte
	for {
		b, err := k.r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b >= '0' && b <= '9' || b == ';' {
			continue
		}
		final = b
		break
	}
	switch final {
	case 'A':
		return KeyUp, nil
	case 'B':
		return KeyDown, nil
	case 'C':
		return KeyRight, nil
	case 'D':
		return KeyLeft, nil
	case 'F':
		return KeyEnd, nil
	case 'H':
		return KeyHome, nil
	default:
		// Unrecognized CSI sequence: swallow it and read the next key
		// rather than surfacing garbage to the line editor.
		return k.ReadKey()
	}
}

// cursorLeft/cursorRight/eraseChar/insertChar are the small subset of
// VT100 control sequences the line editor needs to keep the terminal's
// display in sync with a Cursor after an edit.
func cursorLeft(w io.Writer, n int)  { writeCSI(w, n, 'D') }
func cursorRight(w io.Writer, n int) { writeCSI(w, n, 'C') }
func eraseChar(w io.Writer, n int)   { writeCSI(w, n, 'X') }
func deleteChar(w io.Writer, n int)  { writeCSI(w, n, 'P') }
func insertChar(w io.Writer, n int)  { writeCSI(w, n, '@') }

func writeCSI(w io.Writer, n int, final byte) {
	if n <= 0 {
		return
	}
	buf := []byte{0x1B, '['}
	buf = appendInt(buf, n)
	buf = append(buf, final)
	w.Write(buf)
}

func appendInt(buf []byte, n int) []byte {
	if n == 0 {
		return append(buf, '0')
	}
	start := len(buf)
	for n > 0 {
		buf = append(buf, byte('0'+n%10))
		n /= 10
	}
	// reverse the digits just appended
	for i, j := start, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}
