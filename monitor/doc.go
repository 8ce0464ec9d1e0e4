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

// Package monitor implements an interactive memory monitor over a Z80
// address bus: a line editor with history, a command tokenizer, a symbol
// (label) table, and a set of commands (hex dump, fill, move, Intel HEX
// import/export/verify, assemble, disassemble) that glue the z80 package's
// codec to an arbitrary Bus implementation.
//
// Everything here is transport-agnostic: Monitor takes one command line
// at a time through Dispatch and writes its output to an io.Writer, so
// the same command set drives both a raw interactive tty (cmd/zmon) and
// a scripted, non-interactive session (cmd/zdump).
package monitor
