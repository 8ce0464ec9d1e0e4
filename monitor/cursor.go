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

// Cursor is an in-place-editable line buffer with a fixed capacity,
// tracking both the text and the insertion point within it: the line
// editor's model for the line currently being typed.
type Cursor struct {
	buf    []byte
	limit  int
	cursor int
}

// NewCursor returns an empty Cursor that holds at most limit bytes.
func NewCursor(limit int) *Cursor {
	return &Cursor{buf: make([]byte, 0, limit), limit: limit}
}

// Length returns the number of bytes currently held.
func (c *Cursor) Length() int { return len(c.buf) }

// Contents returns the current line as a string.
func (c *Cursor) Contents() string { return string(c.buf) }

// AtEOL reports whether the cursor sits at the end of the line.
func (c *Cursor) AtEOL() bool { return c.cursor == len(c.buf) }

// Position returns the cursor's current offset into the line.
func (c *Cursor) Position() int { return c.cursor }

// Clear empties the line and resets the cursor to the left margin.
func (c *Cursor) Clear() {
	c.buf = c.buf[:0]
	c.cursor = 0
}

// TryInsertByte inserts one byte at the cursor, returning false if the
// line is already at capacity.
func (c *Cursor) TryInsertByte(b byte) bool {
	if len(c.buf) >= c.limit {
		return false
	}
	c.buf = append(c.buf, 0)
	copy(c.buf[c.cursor+1:], c.buf[c.cursor:])
	c.buf[c.cursor] = b
	c.cursor++
	return true
}

// TryInsert inserts as much of s as fits at the cursor, returning the
// number of bytes actually inserted.
func (c *Cursor) TryInsert(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if !c.TryInsertByte(s[i]) {
			break
		}
		n++
	}
	return n
}

// TryDelete removes the byte to the left of the cursor (backspace),
// returning false if the cursor is already at the left margin.
func (c *Cursor) TryDelete() bool {
	if c.cursor == 0 {
		return false
	}
	copy(c.buf[c.cursor-1:], c.buf[c.cursor:])
	c.buf = c.buf[:len(c.buf)-1]
	c.cursor--
	return true
}

// TryLeft moves the cursor one position left, returning false if it was
// already at the left margin.
func (c *Cursor) TryLeft() bool {
	if c.cursor == 0 {
		return false
	}
	c.cursor--
	return true
}

// TryRight moves the cursor one position right, returning false if it
// was already at the right margin.
func (c *Cursor) TryRight() bool {
	if c.cursor == len(c.buf) {
		return false
	}
	c.cursor++
	return true
}

// SeekHome moves the cursor to the left margin, returning the number of
// positions moved.
func (c *Cursor) SeekHome() int {
	n := c.cursor
	c.cursor = 0
	return n
}

// SeekEnd moves the cursor to the right margin, returning the number of
// positions moved.
func (c *Cursor) SeekEnd() int {
	n := len(c.buf) - c.cursor
	c.cursor = len(c.buf)
	return n
}

// History is a ring of previously entered lines, navigated the way shell
// history usually is: Up walks further into the past, Down walks back
// toward the in-progress line.
type History struct {
	entries []string
	limit   int
	index   int // 0 == not browsing; N == N entries back from the newest
}

// NewHistory returns an empty History retaining at most limit entries.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// ResetIndex stops history browsing, so the next CopyPrev starts from
// the most recent entry again.
func (h *History) ResetIndex() { h.index = 0 }

// HasPrev reports whether CopyPrev has anything further back to offer.
func (h *History) HasPrev() bool { return h.index < len(h.entries) }

// HasNext reports whether CopyNext has anything to return to.
func (h *History) HasNext() bool { return h.index > 0 }

// Push records line as the newest history entry, dropping the oldest
// entry if at capacity.
func (h *History) Push(line string) {
	if line == "" {
		return
	}
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	if h.limit > 0 {
		for len(h.entries) > h.limit {
			h.entries = h.entries[1:]
		}
	}
	h.index = 0
}

// CopyPrev replaces cursor's contents with the next-older history entry.
func (h *History) CopyPrev(cursor *Cursor) {
	if !h.HasPrev() {
		return
	}
	h.index++
	h.copyEntry(cursor)
}

// CopyNext replaces cursor's contents with the next-newer history entry,
// or clears it if already at the newest.
func (h *History) CopyNext(cursor *Cursor) {
	if !h.HasNext() {
		return
	}
	h.index--
	if h.index == 0 {
		cursor.Clear()
		return
	}
	h.copyEntry(cursor)
}

func (h *History) copyEntry(cursor *Cursor) {
	entry := h.entries[len(h.entries)-h.index]
	cursor.Clear()
	cursor.TryInsert(entry)
}
