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

// Bus is the 64K address space the monitor operates on. Implementations
// backed by real hardware (e.g. a bit-banged parallel bus, or a serial
// link to a target board) typically need the Config/Flush hooks to
// switch direction and batch writes; a plain in-memory bus can make them
// no-ops.
type Bus interface {
	// ConfigRead prepares the bus for a run of ReadByte calls.
	ConfigRead()
	// ConfigWrite prepares the bus for a run of WriteByte calls.
	ConfigWrite()
	// ReadByte reads one byte at addr. ConfigRead must have been called
	// first (and no WriteByte since).
	ReadByte(addr uint16) byte
	// WriteByte writes one byte at addr. ConfigWrite must have been
	// called first (and no ReadByte since).
	WriteByte(addr uint16, v byte)
	// FlushWrite commits any writes buffered since the last ConfigWrite.
	FlushWrite()
}

// z80.Reader/z80.Writer adapters are provided by SliceBus and by the Bus
// itself where the disassembler/assembler need them directly; see
// SliceBus.ReadByte and SliceBus.WriteByte.

// SliceBus is a Bus backed by a flat in-memory byte slice, the Go
// equivalent of the original firmware's ArrayBus: useful for tests and
// for cmd/zdump, which operates on a loaded binary image rather than a
// live target.
type SliceBus []byte

// NewSliceBus returns a SliceBus of the given size, addressable over the
// full size range.
func NewSliceBus(size int) SliceBus {
	return make(SliceBus, size)
}

func (b SliceBus) ConfigRead()  {}
func (b SliceBus) ConfigWrite() {}
func (b SliceBus) FlushWrite()  {}

func (b SliceBus) ReadByte(addr uint16) byte {
	if int(addr) >= len(b) {
		return 0
	}
	return b[addr]
}

func (b SliceBus) WriteByte(addr uint16, v byte) {
	if int(addr) >= len(b) {
		return
	}
	b[addr] = v
}
