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
	"testing"

	"github.com/z80kit/zmon/monitor"
)

func TestLabelsSetGetRemove(t *testing.T) {
	l := monitor.NewLabels(256)
	if !l.SetLabel("start", 0x8000) {
		t.Fatal("SetLabel failed unexpectedly")
	}
	if addr, ok := l.GetAddr("start"); !ok || addr != 0x8000 {
		t.Fatalf("GetAddr = %04X, %v", addr, ok)
	}
	if name, ok := l.GetName(0x8000); !ok || name != "start" {
		t.Fatalf("GetName = %q, %v", name, ok)
	}
	if !l.RemoveLabel("start") {
		t.Fatal("RemoveLabel failed unexpectedly")
	}
	if _, ok := l.GetAddr("start"); ok {
		t.Fatal("GetAddr found removed label")
	}
}

func TestLabelsSetOverwrites(t *testing.T) {
	l := monitor.NewLabels(256)
	l.SetLabel("loop", 0x0100)
	l.SetLabel("loop", 0x0200)
	if l.Entries() != 1 {
		t.Fatalf("Entries() = %d, want 1", l.Entries())
	}
	if addr, _ := l.GetAddr("loop"); addr != 0x0200 {
		t.Fatalf("GetAddr = %04X, want 0200", addr)
	}
}

func TestLabelsCapacity(t *testing.T) {
	l := monitor.NewLabels(7) // room for exactly one 3-char name
	if !l.SetLabel("abc", 1) {
		t.Fatal("first SetLabel should succeed")
	}
	if l.SetLabel("d", 2) {
		t.Fatal("second SetLabel should fail: buffer full")
	}
	if l.Entries() != 1 {
		t.Fatalf("Entries() = %d, want 1 (failed insert must not mutate state)", l.Entries())
	}
}

func TestLabelsInsertionOrder(t *testing.T) {
	l := monitor.NewLabels(256)
	l.SetLabel("b", 2)
	l.SetLabel("a", 1)
	name, addr, ok := l.GetIndex(0)
	if !ok || name != "b" || addr != 2 {
		t.Fatalf("GetIndex(0) = %q, %04X, %v", name, addr, ok)
	}
	name, addr, ok = l.GetIndex(1)
	if !ok || name != "a" || addr != 1 {
		t.Fatalf("GetIndex(1) = %q, %04X, %v", name, addr, ok)
	}
}
