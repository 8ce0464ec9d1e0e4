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

import "io"

const (
	backspace = 0x7F
	ctrlH     = 0x08
)

// Editor drives a Cursor and History off a KeyReader, echoing edits to
// an io.Writer as it goes; it is the direct analogue of the original's
// free function try_read plus the escape-sequence handling CLI::read
// left to the stream wrapper.
type Editor struct {
	keys    *KeyReader
	out     io.Writer
	cursor  *Cursor
	history *History
}

// NewEditor returns an Editor reading keys from keys and echoing to out.
func NewEditor(keys *KeyReader, out io.Writer, lineLimit, histLimit int) *Editor {
	return &Editor{
		keys:    keys,
		out:     out,
		cursor:  NewCursor(lineLimit),
		history: NewHistory(histLimit),
	}
}

// ReadLine blocks until a full line has been entered (terminated by
// Enter), optionally seeded with prefill text (used to restore a
// prompt's worth of already-typed text across commands), calling idle
// on every key read as the one cooperative-scheduling hook the original
// also exposed.
func (e *Editor) ReadLine(prefill string, idle func()) (string, error) {
	e.cursor.Clear()
	if prefill != "" {
		n := e.cursor.TryInsert(prefill)
		io.WriteString(e.out, prefill[:n])
	}
	e.history.ResetIndex()

	for {
		key, err := e.keys.ReadKey()
		if err != nil {
			return "", err
		}
		if idle != nil {
			idle()
		}
		if done := e.handleKey(key); done {
			break
		}
	}
	line := e.cursor.Contents()
	e.history.Push(line)
	return line, nil
}

func (e *Editor) handleKey(key Key) (done bool) {
	switch key {
	case '\r':
		return e.cursor.Length() > 0
	case backspace, ctrlH:
		if e.cursor.TryDelete() {
			cursorLeft(e.out, 1)
			deleteChar(e.out, 1)
		}
	case KeyLeft:
		if e.cursor.TryLeft() {
			cursorLeft(e.out, 1)
		}
	case KeyRight:
		if e.cursor.TryRight() {
			cursorRight(e.out, 1)
		}
	case KeyHome:
		if n := e.cursor.SeekHome(); n > 0 {
			cursorLeft(e.out, n)
		}
	case KeyEnd:
		if n := e.cursor.SeekEnd(); n > 0 {
			cursorRight(e.out, n)
		}
	case KeyUp:
		e.redisplay(func() { e.history.CopyPrev(e.cursor) })
	case KeyDown:
		e.redisplay(func() { e.history.CopyNext(e.cursor) })
	default:
		if key >= 0x20 && key <= 0xFF {
			if e.cursor.TryInsertByte(byte(key)) {
				if !e.cursor.AtEOL() {
					insertChar(e.out, 1)
				}
				e.out.Write([]byte{byte(key)})
				e.history.ResetIndex()
			}
		}
	}
	return false
}

// redisplay clears the current line on screen, lets mutate change the
// cursor's contents, and redraws it.
func (e *Editor) redisplay(mutate func()) {
	oldLen := e.cursor.Length()
	cursorLeft(e.out, e.cursor.Position())
	eraseChar(e.out, oldLen)
	mutate()
	io.WriteString(e.out, e.cursor.Contents())
}
