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

// entryOverhead is the per-entry bookkeeping the original firmware spent
// on a length byte, a 2-byte address and the name's NUL terminator;
// Labels keeps the same accounting so that a fixed-capacity table fills
// up and reports "full" at the same entry count a microcontroller build
// would.
const entryOverhead = 4

type labelEntry struct {
	name string
	addr uint16
}

// Labels is an insertion-ordered name<->address table with a fixed byte
// capacity. Name lookups and address lookups are both linear scans,
// which is the trade-off the original buffer-backed implementation also
// made; see SPEC_FULL.md for why that's fine at monitor scale.
type Labels struct {
	capacity int
	used     int
	entries  []labelEntry
}

// NewLabels returns an empty label table with the given byte capacity.
func NewLabels(capacity int) *Labels {
	return &Labels{capacity: capacity}
}

// Entries returns the number of labels currently stored.
func (l *Labels) Entries() int { return len(l.entries) }

// GetIndex returns the name and address of the i'th label in insertion
// order, or ok=false if i is out of range.
func (l *Labels) GetIndex(i int) (name string, addr uint16, ok bool) {
	if i < 0 || i >= len(l.entries) {
		return "", 0, false
	}
	e := l.entries[i]
	return e.name, e.addr, true
}

// GetAddr looks up a label by name.
func (l *Labels) GetAddr(name string) (addr uint16, ok bool) {
	for _, e := range l.entries {
		if e.name == name {
			return e.addr, true
		}
	}
	return 0, false
}

// GetName looks up the first label matching addr, in insertion order.
func (l *Labels) GetName(addr uint16) (name string, ok bool) {
	for _, e := range l.entries {
		if e.addr == addr {
			return e.name, true
		}
	}
	return "", false
}

// RemoveLabel removes the label with the given name, reporting whether
// it was found.
func (l *Labels) RemoveLabel(name string) bool {
	for i, e := range l.entries {
		if e.name == name {
			l.used -= entryOverhead + len(e.name)
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// SetLabel inserts or replaces the label named name, reporting false
// (leaving the table unchanged) if the table is at capacity.
func (l *Labels) SetLabel(name string, addr uint16) bool {
	l.RemoveLabel(name)
	size := entryOverhead + len(name)
	if l.capacity > 0 && l.used+size > l.capacity {
		return false
	}
	l.entries = append(l.entries, labelEntry{name: name, addr: addr})
	l.used += size
	return true
}
