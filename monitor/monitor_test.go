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

package monitor_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/z80kit/zmon/monitor"
)

func TestCmdSetAndHex(t *testing.T) {
	bus := monitor.NewSliceBus(0x10000)
	var out bytes.Buffer
	m := monitor.New(bus, &out)

	m.Dispatch("set $8000 $AA $BB \"hi\"")
	if bus[0x8000] != 0xAA || bus[0x8001] != 0xBB || bus[0x8002] != 'h' || bus[0x8003] != 'i' {
		t.Fatalf("bus = % X", bus[0x8000:0x8004])
	}

	out.Reset()
	m.Dispatch("hex $8000 4")
	if !strings.Contains(out.String(), "AA BB") {
		t.Fatalf("hex output missing bytes: %q", out.String())
	}
	if !strings.Contains(out.String(), "hi") {
		t.Fatalf("hex output missing ascii column: %q", out.String())
	}
}

func TestCmdFillAndMove(t *testing.T) {
	bus := monitor.NewSliceBus(0x10000)
	var out bytes.Buffer
	m := monitor.New(bus, &out)

	m.Dispatch("fill $1000 4 $FF")
	for a := 0x1000; a < 0x1004; a++ {
		if bus[a] != 0xFF {
			t.Fatalf("bus[%04X] = %02X, want FF", a, bus[a])
		}
	}

	m.Dispatch("move $1000 4 $1002") // overlapping forward copy
	want := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	if !bytes.Equal(bus[0x1000:0x1006], want) {
		t.Fatalf("bus after move = % X", bus[0x1000:0x1006])
	}
}

func TestCmdLabel(t *testing.T) {
	bus := monitor.NewSliceBus(0x10000)
	var out bytes.Buffer
	m := monitor.New(bus, &out)

	m.Dispatch("label start $8000")
	if addr, ok := m.Labels().GetAddr("start"); !ok || addr != 0x8000 {
		t.Fatalf("GetAddr(start) = %04X, %v", addr, ok)
	}

	out.Reset()
	m.Dispatch("label")
	if !strings.Contains(out.String(), "start: $8000") {
		t.Fatalf("label listing = %q", out.String())
	}

	out.Reset()
	m.Dispatch("label start")
	if _, ok := m.Labels().GetAddr("start"); ok {
		t.Fatal("label still present after removal")
	}

	out.Reset()
	m.Dispatch("label nosuch")
	if !strings.Contains(out.String(), "name: nosuch?") {
		t.Fatalf("error message = %q", out.String())
	}
}

func TestCmdAsmAndDasm(t *testing.T) {
	bus := monitor.NewSliceBus(0x10000)
	var out bytes.Buffer
	m := monitor.New(bus, &out)
	m.Dispatch("label target $9000")

	m.Dispatch("asm $8000 JP target")
	if bus[0x8000] != 0xC3 || bus[0x8001] != 0x00 || bus[0x8002] != 0x90 {
		t.Fatalf("bus = % X", bus[0x8000:0x8003])
	}

	out.Reset()
	m.Dispatch("dasm $8000 1")
	if !strings.Contains(out.String(), "JP target") {
		t.Fatalf("dasm output = %q", out.String())
	}
}

func TestCmdAsmUndocReg(t *testing.T) {
	bus := monitor.NewSliceBus(0x10000)
	var out bytes.Buffer
	m := monitor.New(bus, &out)

	// "LD B;RLC (IX+5)" - undocumented DDCB form that also stores the
	// rotated byte into B. DD CB 05 00: prefix, CB-prefix, displacement,
	// then the CB opcode with z=000 (B) instead of 110 (indirect only).
	m.Dispatch("asm $8000 LD B;RLC (IX+5)")
	if bus[0x8000] != 0xDD || bus[0x8001] != 0xCB || bus[0x8002] != 0x05 || bus[0x8003] != 0x00 {
		t.Fatalf("bus = % X", bus[0x8000:0x8004])
	}

	out.Reset()
	m.Dispatch("dasm $8000 1")
	if !strings.Contains(out.String(), "LD B;RLC (IX+$05)") {
		t.Fatalf("dasm output = %q", out.String())
	}
}

func TestCmdExportImportVerify(t *testing.T) {
	bus := monitor.NewSliceBus(0x10000)
	bus[0x100] = 0x01
	bus[0x101] = 0x02
	bus[0x102] = 0x03

	var out bytes.Buffer
	m := monitor.New(bus, &out)
	m.Dispatch("export $100 3")
	ihx := out.String()
	if !strings.HasPrefix(ihx, ":03010000010203") {
		t.Fatalf("export output = %q", ihx)
	}

	// Import into a fresh bus from the exported stream.
	dst := monitor.NewSliceBus(0x10000)
	var out2 bytes.Buffer
	m2 := monitor.New(dst, &out2, monitor.WithInput(strings.NewReader(ihx)))
	m2.Dispatch("import")
	if dst[0x100] != 1 || dst[0x101] != 2 || dst[0x102] != 3 {
		t.Fatalf("dst = % X", dst[0x100:0x103])
	}
	if strings.Contains(out2.String(), "?") {
		t.Fatalf("import reported error: %q", out2.String())
	}

	// Verify against matching and then mismatching memory.
	var out3 bytes.Buffer
	m3 := monitor.New(dst, &out3, monitor.WithInput(strings.NewReader(ihx)))
	m3.Dispatch("verify")
	if !strings.Contains(out3.String(), "PASS") {
		t.Fatalf("verify = %q, want PASS", out3.String())
	}

	dst[0x101] = 0xFF
	var out4 bytes.Buffer
	m4 := monitor.New(dst, &out4, monitor.WithInput(strings.NewReader(ihx)))
	m4.Dispatch("verify")
	if !strings.Contains(out4.String(), "FAIL") {
		t.Fatalf("verify = %q, want FAIL", out4.String())
	}
}

func TestCmdHexContinuation(t *testing.T) {
	bus := monitor.NewSliceBus(0x10000)
	var out bytes.Buffer
	m := monitor.New(bus, &out, monitor.WithMaxRows(1), monitor.WithColumns(16))
	m.Dispatch("hex $0000 32")
	prompt := m.Prompt()
	if !strings.HasPrefix(prompt, "hex $0010 ") {
		t.Fatalf("Prompt() = %q", prompt)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	bus := monitor.NewSliceBus(0x100)
	var out bytes.Buffer
	m := monitor.New(bus, &out)
	m.Dispatch("bogus")
	if !strings.Contains(out.String(), "Commands:") {
		t.Fatalf("expected help listing, got %q", out.String())
	}
}

func TestDispatchEmptyLine(t *testing.T) {
	bus := monitor.NewSliceBus(0x100)
	var out bytes.Buffer
	m := monitor.New(bus, &out)
	m.Dispatch("")
	if out.Len() != 0 {
		t.Fatalf("expected no output for empty line, got %q", out.String())
	}
}
