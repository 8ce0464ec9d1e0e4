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

import "strings"

// Tokens walks whitespace-separated words out of a command line, with
// special handling for quoted strings and for splitting a single word on
// an interior separator rune (used to pull "(ix+5)" or "a,b" apart
// without a full grammar). It is a value type: copying one copies the
// read position, which split and operand parsing both rely on to peek
// ahead without disturbing the caller's cursor.
type Tokens struct {
	rest string
}

// NewTokens returns a Tokens reading from s.
func NewTokens(s string) Tokens {
	return Tokens{rest: s}
}

// HasNext reports whether any more input remains.
func (t Tokens) HasNext() bool {
	return len(strings.TrimLeft(t.rest, " \t")) > 0
}

// PeekChar returns the next unconsumed byte, or 0 if none remains.
func (t Tokens) PeekChar() byte {
	s := strings.TrimLeft(t.rest, " \t")
	if s == "" {
		return 0
	}
	return s[0]
}

// IsString reports whether the next token is a quoted string.
func (t Tokens) IsString() bool {
	c := t.PeekChar()
	return c == '"' || c == '\''
}

// Next consumes and returns the next token: a quoted string (with the
// quotes stripped) or a run of non-whitespace characters. Unlike
// SplitAt, Next never stops at a comma on its own — callers that want
// comma-delimited fields (operand lists) call SplitAt(',') first and
// run Next over each piece.
func (t *Tokens) Next() string {
	s := strings.TrimLeft(t.rest, " \t")
	if s == "" {
		t.rest = ""
		return ""
	}
	if s[0] == '"' || s[0] == '\'' {
		quote := s[0]
		if end := strings.IndexByte(s[1:], quote); end >= 0 {
			tok := s[1 : 1+end]
			t.rest = s[1+end+1:]
			return tok
		}
		t.rest = ""
		return s[1:]
	}
	end := strings.IndexAny(s, " \t")
	if end < 0 {
		t.rest = ""
		return s
	}
	t.rest = s[end:]
	return s[:end]
}

// TrimLeft discards leading occurrences of padding.
func (t *Tokens) TrimLeft(padding byte) {
	t.rest = strings.TrimLeft(t.rest, string(padding))
}

// SplitAt divides the input on the first occurrence of separator,
// returning a Tokens over the part before it (exclusive) and leaving the
// receiver positioned just after the separator. If separator does not
// appear, the returned Tokens covers the whole remaining input and the
// receiver is left empty.
func (t *Tokens) SplitAt(separator byte) Tokens {
	if i := strings.IndexByte(t.rest, separator); i >= 0 {
		head := Tokens{rest: t.rest[:i]}
		t.rest = t.rest[i+1:]
		return head
	}
	head := Tokens{rest: t.rest}
	t.rest = ""
	return head
}

// Args wraps Tokens, additionally remembering the first token consumed
// as the command name.
type Args struct {
	Tokens
	command string
}

// NewArgs tokenizes line and consumes its first token as the command
// name.
func NewArgs(line string) Args {
	t := NewTokens(line)
	cmd := t.Next()
	return Args{Tokens: t, command: cmd}
}

// Command returns the command name consumed by NewArgs.
func (a Args) Command() string { return a.command }
