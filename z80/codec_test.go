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

package z80_test

import (
	"bytes"
	"testing"

	"github.com/z80kit/zmon/z80"
)

// buf is a flat 64K memory used as both a z80.Reader and a z80.Writer.
type buf [65536]byte

func (b *buf) ReadByte(addr uint16) byte        { return b[addr] }
func (b *buf) WriteByte(addr uint16, v byte)    { b[addr] = v }
func (b *buf) load(addr uint16, data ...byte)   { copy(b[addr:], data) }
func (b *buf) slice(addr uint16, n int) []byte  { return append([]byte(nil), b[addr:int(addr)+n]...) }

// dasmCase is one disassemble-then-reassemble round trip.
type dasmCase struct {
	name string
	code []byte
	want string
}

var dasmCases = []dasmCase{
	{"nop", []byte{0x00}, "NOP"},
	{"ld bc,nn", []byte{0x01, 0x34, 0x12}, "LD BC,$1234"},
	{"ld (bc),a", []byte{0x02}, "LD (BC),A"},
	{"inc bc", []byte{0x03}, "INC BC"},
	{"djnz", []byte{0x10, 0x05}, "DJNZ $0007"},
	{"jr", []byte{0x18, 0xFE}, "JR $0000"},
	{"jr nz", []byte{0x20, 0x02}, "JR NZ,$0004"},
	{"ld hl,nn", []byte{0x21, 0x00, 0x80}, "LD HL,$8000"},
	{"ld (nn),hl", []byte{0x22, 0x00, 0x80}, "LD ($8000),HL"},
	{"ld a,(hl)", []byte{0x7E}, "LD A,(HL)"},
	{"halt", []byte{0x76}, "HALT"},
	{"add a,b", []byte{0x80}, "ADD A,B"},
	{"ret", []byte{0xC9}, "RET"},
	{"call nn", []byte{0xCD, 0x00, 0x90}, "CALL $9000"},
	{"push bc", []byte{0xC5}, "PUSH BC"},
	{"pop bc", []byte{0xC1}, "POP BC"},
	{"rst 0", []byte{0xC7}, "RST $00"},
	{"out (n),a", []byte{0xD3, 0x10}, "OUT ($10),A"},
	{"in a,(n)", []byte{0xDB, 0x10}, "IN A,($10)"},
	{"ex (sp),hl", []byte{0xE3}, "EX (SP),HL"},
	{"jp (hl)", []byte{0xE9}, "JP (HL)"},
	{"ex de,hl", []byte{0xEB}, "EX DE,HL"},
	{"di", []byte{0xF3}, "DI"},
	{"ld sp,hl", []byte{0xF9}, "LD SP,HL"},
	{"ei", []byte{0xFB}, "EI"},

	// ED prefix
	{"in b,(c)", []byte{0xED, 0x40}, "IN B,(C)"},
	{"adc hl,bc", []byte{0xED, 0x4A}, "ADC HL,BC"},
	{"ld bc,(nn)", []byte{0xED, 0x4B, 0x00, 0x90}, "LD BC,($9000)"},
	{"neg", []byte{0xED, 0x44}, "NEG"},
	{"retn", []byte{0xED, 0x45}, "RETN"},
	{"reti", []byte{0xED, 0x4D}, "RETI"},
	{"im 1", []byte{0xED, 0x56}, "IM 1"},
	{"ld a,i", []byte{0xED, 0x57}, "LD A,I"},
	{"ld i,a", []byte{0xED, 0x47}, "LD I,A"},
	{"rrd", []byte{0xED, 0x67}, "RRD"},
	{"ldi", []byte{0xED, 0xA0}, "LDI"},
	{"cpi", []byte{0xED, 0xA1}, "CPI"},
	{"ldir", []byte{0xED, 0xB0}, "LDIR"},

	// CB prefix
	{"rlc b", []byte{0xCB, 0x00}, "RLC B"},
	{"bit 7,a", []byte{0xCB, 0x7F}, "BIT 7,A"},
	{"res 0,(hl)", []byte{0xCB, 0x86}, "RES 0,(HL)"},
	{"set 3,(hl)", []byte{0xCB, 0xDE}, "SET 3,(HL)"},

	// IX/IY forms
	{"ld ixh,n", []byte{0xDD, 0x26, 0x42}, "LD IXH,$42"},
	{"ld a,(ix+d)", []byte{0xDD, 0x7E, 0x05}, "LD A,(IX+$05)"},
	{"ld (iy+d),a", []byte{0xFD, 0x77, 0xFE}, "LD (IY-$02),A"},
	{"inc (ix+d)", []byte{0xDD, 0x34, 0x01}, "INC (IX+$01)"},
	{"push ix", []byte{0xDD, 0xE5}, "PUSH IX"},
	{"add ix,de", []byte{0xDD, 0x19}, "ADD IX,DE"},
	{"jp (ix)", []byte{0xDD, 0xE9}, "JP (IX)"},

	// DDCB/FDCB, documented form (register slot is (HL)-equivalent only)
	{"rlc (ix+d)", []byte{0xDD, 0xCB, 0x02, 0x06}, "RLC (IX+$02)"},
	{"bit 4,(iy+d)", []byte{0xFD, 0xCB, 0x03, 0x66}, "BIT 4,(IY+$03)"},
}

func TestDisassemble(t *testing.T) {
	for _, c := range dasmCases {
		t.Run(c.name, func(t *testing.T) {
			var b buf
			b.load(0, c.code...)
			inst, size, err := z80.Disassemble(&b, 0)
			if err != nil {
				t.Fatalf("Disassemble: %v", err)
			}
			if int(size) != len(c.code) {
				t.Errorf("size = %d, want %d", size, len(c.code))
			}
			if got := inst.String(); got != c.want {
				t.Errorf("String() = %q, want %q", got, c.want)
			}
		})
	}
}

// TestRoundTrip disassembles each case and reassembles the result,
// checking the re-encoded bytes match the original.
func TestRoundTrip(t *testing.T) {
	for _, c := range dasmCases {
		t.Run(c.name, func(t *testing.T) {
			var src buf
			src.load(0, c.code...)
			inst, size, err := z80.Disassemble(&src, 0)
			if err != nil {
				t.Fatalf("Disassemble: %v", err)
			}
			var dst buf
			n, err := z80.Assemble(inst, 0, &dst)
			if err != nil {
				t.Fatalf("Assemble: %v", err)
			}
			if n != size {
				t.Fatalf("Assemble size = %d, want %d", n, size)
			}
			got := dst.slice(0, int(n))
			if !bytes.Equal(got, c.code) {
				t.Errorf("re-encoded = % X, want % X", got, c.code)
			}
		})
	}
}

// TestUndocumentedAnnotation covers the DDCB/FDCB form that shifts/rotates
// (or RES/SETs) a byte at (IX+d)/(IY+d) and also stores the result into a
// plain register, decoded as a leading "LD r;" annotation. It must survive
// a disassemble/assemble round trip, per the decision recorded in
// DESIGN.md.
func TestUndocumentedAnnotation(t *testing.T) {
	code := []byte{0xDD, 0xCB, 0x02, 0x00} // RLC (IX+2), also LD B,result
	var src buf
	src.load(0, code...)
	inst, size, err := z80.Disassemble(&src, 0)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if inst.UndocReg() != z80.TokB {
		t.Fatalf("UndocReg() = %v, want TokB", inst.UndocReg())
	}
	want := "LD B;RLC (IX+$02)"
	if got := inst.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	var dst buf
	n, err := z80.Assemble(inst, 0, &dst)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if n != size {
		t.Fatalf("size = %d, want %d", n, size)
	}
	if got := dst.slice(0, int(n)); !bytes.Equal(got, code) {
		t.Errorf("re-encoded = % X, want % X", got, code)
	}
}

// TestUndocumentedIgnoredOnBit checks that a "LD r;" annotation attached
// to a BIT instruction (which never stores a result) is dropped rather
// than corrupting the encoded opcode: BIT has no undocumented register
// form, so the z field must stay REG_M regardless.
func TestUndocumentedIgnoredOnBit(t *testing.T) {
	inst := z80.Instruction{
		Mnemonic: z80.MneBit,
		Operands: [2]z80.Operand{
			{Token: z80.TokImmediate, Flags: z80.FlagDigit, Value: 2},
			{Token: z80.TokIX, Flags: z80.FlagIndirect, Value: 5},
		},
	}.WithUndocReg(z80.TokC)
	var dst buf
	n, err := z80.Assemble(inst, 0, &dst)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0xDD, 0xCB, 0x05, 0x56} // BIT 2,(IX+5): z stays 6 (M)
	if got := dst.slice(0, int(n)); !bytes.Equal(got, want) {
		t.Errorf("re-encoded = % X, want % X", got, want)
	}
}

func TestDisassembleErrors(t *testing.T) {
	var b buf
	b.load(0, 0xED, 0xFF) // no such ED opcode
	_, size, err := z80.Disassemble(&b, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	if want := "$EDFF?"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if size != 1 {
		t.Errorf("size = %d, want 1", size)
	}
}

func TestAssembleOperandErrors(t *testing.T) {
	cases := []struct {
		name string
		inst z80.Instruction
	}{
		{"ld bad pair", z80.Instruction{Mnemonic: z80.MneLd, Operands: [2]z80.Operand{
			{Token: z80.TokAF}, {Token: z80.TokImmediate, Value: 1},
		}}},
		{"rst misaligned", z80.Instruction{Mnemonic: z80.MneRst, Operands: [2]z80.Operand{
			{Token: z80.TokImmediate, Value: 3},
		}}},
		{"ex bad", z80.Instruction{Mnemonic: z80.MneEx, Operands: [2]z80.Operand{
			{Token: z80.TokB}, {Token: z80.TokC},
		}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var dst buf
			if _, err := z80.Assemble(c.inst, 0, &dst); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestBranchTooFar(t *testing.T) {
	inst := z80.Instruction{Mnemonic: z80.MneJr, Operands: [2]z80.Operand{
		{Token: z80.TokImmediate, Value: 0x8100},
	}}
	var dst buf
	if _, err := z80.Assemble(inst, 0, &dst); err != z80.ErrBranchTooFar {
		t.Errorf("err = %v, want ErrBranchTooFar", err)
	}
}
