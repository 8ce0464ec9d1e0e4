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

func TestArgsCommand(t *testing.T) {
	args := monitor.NewArgs("hex 8000 10")
	if args.Command() != "hex" {
		t.Fatalf("Command() = %q, want hex", args.Command())
	}
	if got := args.Next(); got != "8000" {
		t.Fatalf("Next() = %q, want 8000", got)
	}
	if got := args.Next(); got != "10" {
		t.Fatalf("Next() = %q, want 10", got)
	}
	if args.HasNext() {
		t.Fatal("HasNext() after exhausting tokens")
	}
}

func TestTokensSplitAt(t *testing.T) {
	tokens := monitor.NewTokens("a,b,c")
	head := tokens.SplitAt(',')
	if got := head.Next(); got != "a" {
		t.Fatalf("head.Next() = %q, want a", got)
	}
	// Next splits on whitespace only, so each further field needs its
	// own SplitAt; the last one has no comma and takes the rest.
	next := tokens.SplitAt(',')
	if got := next.Next(); got != "b" {
		t.Fatalf("second SplitAt(',').Next() = %q, want b", got)
	}
	last := tokens.SplitAt(',')
	if got := last.Next(); got != "c" {
		t.Fatalf("final SplitAt(',').Next() = %q, want c", got)
	}
}

func TestTokensQuotedString(t *testing.T) {
	tokens := monitor.NewTokens(`"hi there" rest`)
	if !tokens.IsString() {
		t.Fatal("IsString() = false, want true")
	}
	if got := tokens.Next(); got != "hi there" {
		t.Fatalf("Next() = %q, want %q", got, "hi there")
	}
	if got := tokens.Next(); got != "rest" {
		t.Fatalf("Next() = %q, want rest", got)
	}
}

func TestTokensIndirectOperand(t *testing.T) {
	// "(ix+5)" - the paren-stripping half of what the asm operand
	// parser does; Next() itself does not split on +/-, so the whole
	// "ix+5" comes back as one token here.
	tokens := monitor.NewTokens("(ix+5)")
	if tokens.PeekChar() != '(' {
		t.Fatalf("PeekChar() = %q, want (", tokens.PeekChar())
	}
	tokens.SplitAt('(')
	inner := tokens.SplitAt(')')
	if got := inner.Next(); got != "ix+5" {
		t.Fatalf("inner.Next() = %q, want ix+5", got)
	}
}
