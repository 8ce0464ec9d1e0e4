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

// Package z80 implements an assembler and disassembler for the Zilog Z80
// instruction set, including the IX/IY index register forms, the ED and CB
// prefixes, and the undocumented DDCB/FDCB shifted-bit-op forms.
//
// The package operates on a flat Instruction/Operand pair rather than a
// tree of operand types: an instruction has a Mnemonic and up to two
// Operands, each carrying a Token (the operand's register/pair/condition/
// immediate kind), a set of Flags, and a numeric Value. Disassemble decodes
// a byte stream into an Instruction; Assemble encodes one back into bytes.
package z80
