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
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/z80kit/zmon/z80"
)

// cmdHex implements "hex <addr> [size]": dump memory as hex and ASCII,
// COL_SIZE bytes per row, up to MAX_ROWS rows, then queue a continuation
// prompt for whatever didn't fit.
func (m *Monitor) cmdHex(args Args) {
	start, err := m.expectAddr(&args)
	if err != nil {
		m.printError(err)
		return
	}
	size, err := optionUint[uint16](&args, "size", uint16(m.colSize))
	if err != nil {
		m.printError(err)
		return
	}
	endIncl := start + size - 1
	next := m.dumpHex(start, endIncl)
	part := next - start
	if part < size {
		m.setPrompt(args.Command(), next, size-part)
	}
}

func (m *Monitor) dumpHex(row, end uint16) uint16 {
	m.bus.ConfigRead()
	rowData := make([]byte, m.colSize)
	for i := 0; i < m.maxRows; i++ {
		for j := range rowData {
			rowData[j] = m.bus.ReadByte(row + uint16(j))
		}

		fmt.Fprintf(m.out, " %04X", row)
		for col, b := range rowData {
			if col%4 == 0 {
				io.WriteString(m.out, " ")
			}
			if uint16(col) > end-row {
				// past the requested range: leave the column blank
				io.WriteString(m.out, "   ")
				continue
			}
			fmt.Fprintf(m.out, " %02X", b)
		}
		io.WriteString(m.out, "  \"")
		for col, b := range rowData {
			if uint16(col) > end-row {
				break
			}
			m.out.Write([]byte{formatAscii(b)})
		}
		io.WriteString(m.out, "\"\n")

		prev := row
		row += uint16(m.colSize)
		if end-prev < uint16(m.colSize) {
			break
		}
	}
	return row
}

// cmdSet implements "set <addr> <byte|"str"> ...": write one or more
// bytes or quoted strings starting at addr.
func (m *Monitor) cmdSet(args Args) {
	start, err := m.expectAddr(&args)
	if err != nil {
		m.printError(err)
		return
	}
	m.bus.ConfigWrite()
	for {
		if args.IsString() {
			str := args.Next()
			for i := 0; i < len(str); i++ {
				m.bus.WriteByte(start, str[i])
				start++
			}
		} else {
			data, err := expectUint[uint8](&args, "data")
			if err != nil {
				m.bus.FlushWrite()
				m.printError(err)
				return
			}
			m.bus.WriteByte(start, data)
			start++
		}
		if !args.HasNext() {
			break
		}
	}
	m.bus.FlushWrite()
	m.setPrompt(args.Command(), start)
}

// cmdFill implements "fill <addr> <size> <pattern>".
func (m *Monitor) cmdFill(args Args) {
	start, err := m.expectAddr(&args)
	if err != nil {
		m.printError(err)
		return
	}
	size, err := expectUint[uint16](&args, "size")
	if err != nil {
		m.printError(err)
		return
	}
	pattern, err := expectUint[uint8](&args, "pattern")
	if err != nil {
		m.printError(err)
		return
	}
	m.memset(start, start+size-1, pattern)
}

func (m *Monitor) memset(start, end uint16, pattern byte) {
	m.bus.ConfigWrite()
	for {
		m.bus.WriteByte(start, pattern)
		if start == end {
			break
		}
		start++
	}
	m.bus.FlushWrite()
}

// cmdMove implements "move <addr> <size> <dest>", copying [addr,
// addr+size) to dest, correctly even when the ranges overlap.
func (m *Monitor) cmdMove(args Args) {
	start, err := m.expectAddr(&args)
	if err != nil {
		m.printError(err)
		return
	}
	size, err := expectUint[uint16](&args, "size")
	if err != nil {
		m.printError(err)
		return
	}
	dest, err := m.expectAddr(&args)
	if err != nil {
		m.printError(err)
		return
	}
	m.memmove(start, start+size-1, dest)
}

func (m *Monitor) memmove(start, end, dest uint16) {
	delta := end - start
	destEnd := dest + delta
	a := dest <= end
	b := destEnd < start
	c := dest > start
	if (a && b) || (a && c) || (b && c) {
		// Overlapping ranges where a forward copy would clobber
		// source bytes before they're read: copy back to front.
		for i := uint16(0); i <= delta; i++ {
			m.bus.ConfigRead()
			data := m.bus.ReadByte(end - i)
			m.bus.ConfigWrite()
			m.bus.WriteByte(destEnd-i, data)
		}
	} else {
		for i := uint16(0); i <= delta; i++ {
			m.bus.ConfigRead()
			data := m.bus.ReadByte(start + i)
			m.bus.ConfigWrite()
			m.bus.WriteByte(dest+i, data)
		}
	}
	m.bus.FlushWrite()
}

// cmdExport implements "export <addr> <size>", printing an Intel HEX
// dump of the range.
func (m *Monitor) cmdExport(args Args) {
	start, err := m.expectAddr(&args)
	if err != nil {
		m.printError(err)
		return
	}
	size, err := expectUint[uint16](&args, "size")
	if err != nil {
		m.printError(err)
		return
	}
	exportIHX(m.out, m.bus, start, int(size))
}

var errNoInput = errors.New("no input stream configured")

// cmdImport implements "import": read Intel HEX records from the
// Monitor's input stream and write them to the bus.
func (m *Monitor) cmdImport(_ Args) {
	if m.in == nil {
		m.printError(errNoInput)
		return
	}
	ok := importIHX(m.in, m.bus)
	if !ok {
		io.WriteString(m.out, "?")
	}
	io.WriteString(m.out, "\n")
}

// cmdVerify implements "verify": read Intel HEX records from the
// Monitor's input stream and compare them against the bus without
// writing.
func (m *Monitor) cmdVerify(_ Args) {
	if m.in == nil {
		m.printError(errNoInput)
		return
	}
	result := verifyIHX(m.in, m.bus)
	switch {
	case !result.wellFormed:
		io.WriteString(m.out, "ERROR\n")
	case result.matched:
		io.WriteString(m.out, "PASS\n")
	default:
		io.WriteString(m.out, "FAIL\n")
	}
}

// cmdLabel implements "label [name [addr]]": with no arguments, list
// every label; with one, remove it; with two, set it.
func (m *Monitor) cmdLabel(args Args) {
	if !args.HasNext() {
		for i := 0; i < m.labels.Entries(); i++ {
			name, addr, _ := m.labels.GetIndex(i)
			fmt.Fprintf(m.out, "%s: $%04X\n", name, addr)
		}
		return
	}
	name := args.Next()
	if !args.HasNext() {
		if !m.labels.RemoveLabel(name) {
			m.printError(&formatError{label: "name", raw: name})
		}
		return
	}
	addr, err := expectUint[uint16](&args, "addr")
	if err != nil {
		m.printError(err)
		return
	}
	if !m.labels.SetLabel(name, addr) {
		io.WriteString(m.out, "full\n")
	}
}

// cmdAsm implements "asm <addr> <mnemonic> [operand [,operand]]".
func (m *Monitor) cmdAsm(args Args) {
	start, err := m.expectAddr(&args)
	if err != nil {
		m.printError(err)
		return
	}
	inst, err := parseInstruction(m.labels, args.Tokens)
	if err != nil {
		m.printError(err)
		return
	}
	m.bus.ConfigWrite()
	size, err := z80.Assemble(inst, start, busWriter{m.bus})
	m.bus.FlushWrite()
	if err != nil {
		m.printError(err)
		return
	}
	m.setPrompt(args.Command(), start+size)
}

// cmdDasm implements "dasm <addr> [size]".
func (m *Monitor) cmdDasm(args Args) {
	start, err := m.expectAddr(&args)
	if err != nil {
		m.printError(err)
		return
	}
	size, err := optionUint[uint16](&args, "size", 1)
	if err != nil {
		m.printError(err)
		return
	}
	endIncl := start + size - 1
	next := m.dasmRange(start, endIncl)
	part := next - start
	if part < size {
		m.setPrompt(args.Command(), next, size-part)
	} else {
		m.setPrompt(args.Command(), next)
	}
}

func (m *Monitor) dasmRange(addr, end uint16) uint16 {
	m.bus.ConfigRead()
	lookup := func(a uint16) (string, bool) { return m.labels.GetName(a) }
	return z80.DisassembleRange(busReader{m.bus}, addr, end, m.maxRows, func(addr uint16, inst z80.Instruction, err error) {
		if name, ok := lookup(addr); ok {
			fmt.Fprintf(m.out, "%s:\n", name)
		}
		if err != nil {
			fmt.Fprintf(m.out, " %04X  %s\n", addr, err)
			return
		}
		fmt.Fprintf(m.out, " %04X  %s\n", addr, inst.Format(lookup))
	})
}

// busReader/busWriter adapt Bus (which distinguishes a read phase from a
// write phase, for hardware buses that need to switch direction) to the
// single-method z80.Reader/z80.Writer the codec expects, matching the
// read/write calling pattern every other command here follows.
type busReader struct{ bus Bus }

func (r busReader) ReadByte(addr uint16) byte { return r.bus.ReadByte(addr) }

type busWriter struct{ bus Bus }

func (w busWriter) WriteByte(addr uint16, v byte) { w.bus.WriteByte(addr, v) }
