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
	"strings"

	"github.com/z80kit/zmon/z80"
)

// splitDisplacement splits the inside of an indirect operand like
// "ix+5" or "ix-2" into the register name and the displacement digits,
// reporting whether the sign was '-'. A register name with neither sign
// present, e.g. plain "hl", returns it unchanged with an empty
// displacement.
func splitDisplacement(s string) (reg, disp string, isMinus bool) {
	if i := strings.IndexByte(s, '+'); i >= 0 {
		return s[:i], s[i+1:], false
	}
	if i := strings.IndexByte(s, '-'); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

// parseOperand parses one operand of a textual instruction, consulting
// labels to resolve a bare identifier to an address before falling back
// to a register/condition token name.
func parseOperand(labels *Labels, tokens Tokens) (z80.Operand, error) {
	var op z80.Operand

	isIndirect := false
	if tokens.PeekChar() == '(' {
		isIndirect = true
		tokens.SplitAt('(')
		inner := tokens.SplitAt(')')

		// Split the register name from an optional displacement
		// following + or -.
		regPart, dispPart, isMinus := splitDisplacement(inner.rest)
		tokens = Tokens{rest: regPart}

		disp := uint16(0)
		if dispPart != "" {
			v, ok := parseUnsigned[uint16](dispPart)
			if !ok {
				return op, &formatError{label: "disp", raw: dispPart}
			}
			disp = v
		}
		if isMinus {
			disp = -disp
		}
		op.Value = disp
	}

	isString := tokens.IsString()
	opStr := tokens.Next()
	labelAddr, isLabel := labels.GetAddr(opStr)
	switch {
	case isString:
		if len(opStr) != 1 {
			return op, &formatError{label: "chr", raw: opStr}
		}
		op.Token = z80.TokImmediate
		op.Value = uint16(opStr[0])
	case isLabel:
		op.Token = z80.TokImmediate
		op.Value = labelAddr
	default:
		if v, ok := parseUnsigned[uint16](opStr); ok {
			op.Token = z80.TokImmediate
			op.Value = v
		} else {
			op.Token = z80.LookupToken(opStr)
			if op.Token == z80.TokInvalid {
				return op, &formatError{label: "arg", raw: opStr}
			}
		}
	}

	if isIndirect {
		op.Flags |= z80.FlagIndirect
	}
	return op, nil
}

// parseInstruction parses a whole mnemonic-plus-operands line, as typed
// to the "asm" command. It also accepts the undocumented "LD r;<mnem>"
// annotation the disassembler prints ahead of a DDCB/FDCB shift/rotate
// that also stores its result into a plain register (e.g. "LD B;RLC
// (IX+$05)"), so that round-tripping a dasm line back through asm is
// lossless.
func parseInstruction(labels *Labels, args Tokens) (z80.Instruction, error) {
	var inst z80.Instruction

	mnemonic := args.Next()
	undocReg := z80.TokInvalid
	if strings.EqualFold(mnemonic, "LD") {
		peek := args
		next := peek.Next()
		if i := strings.IndexByte(next, ';'); i >= 0 {
			if reg := z80.LookupToken(next[:i]); reg != z80.TokInvalid {
				undocReg = reg
				mnemonic = next[i+1:]
				args = peek
			}
		}
	}

	inst.Mnemonic = z80.LookupMnemonic(mnemonic)
	if inst.Mnemonic == z80.MneInvalid {
		return inst, &formatError{label: "op", raw: mnemonic}
	}
	if undocReg != z80.TokInvalid {
		inst = inst.WithUndocReg(undocReg)
	}

	for i := range inst.Operands {
		if !args.HasNext() {
			break
		}
		op, err := parseOperand(labels, args.SplitAt(','))
		if err != nil {
			return inst, err
		}
		inst.Operands[i] = op
	}

	if args.HasNext() {
		return inst, &formatError{label: "rem", raw: args.Next()}
	}
	return inst, nil
}
