package z80

import "strconv"

// Flags carries the bits that modify how an Operand's Token is read: the
// C original packed these into the high bits of the token byte; here they
// are a separate field, which keeps Token a plain small enum.
type Flags uint8

// Flag bits.
const (
	// FlagIndirect marks an operand accessed through memory, e.g. "(HL)"
	// or "(1234)", rather than a register or immediate value.
	FlagIndirect Flags = 1 << iota
	// FlagByte marks a TokImmediate operand that should be printed as an
	// 8-bit hex literal ("$12") rather than a 16-bit one.
	FlagByte
	// FlagDigit marks a TokImmediate operand that is a single decimal
	// digit 0-7, as used by IM, BIT, RES, and SET.
	FlagDigit
)

// MaxOperands is the largest number of operands any Z80 instruction has.
const MaxOperands = 2

// Operand is one argument of an Instruction: a register, register pair,
// branch condition, or an immediate/displacement/label value.
type Operand struct {
	Token Token
	Flags Flags
	Value uint16
}

// Indirect reports whether op is a memory reference rather than a
// register or immediate.
func (op Operand) Indirect() bool { return op.Flags&FlagIndirect != 0 }

// String formats op the way the disassembler prints it: label lookups are
// not available here (that requires a Labels table), so an unflagged
// immediate value is always printed as a hex address.
func (op Operand) String() string {
	return op.format(nil)
}

// NameFunc resolves an address to a label name, as Labels.GetName does.
// It returns ok=false if addr has no label.
type NameFunc func(addr uint16) (name string, ok bool)

// Format is like String but consults lookup (if non-nil) to print a label
// name instead of a bare hex address for an unflagged TokImmediate operand.
func (op Operand) Format(lookup NameFunc) string {
	return op.format(lookup)
}

func (op Operand) format(lookup NameFunc) string {
	var s string
	switch {
	case op.Token.isRegLike():
		s = op.Token.String()
		if op.Value != 0 {
			v := int8(op.Value)
			sign := byte('+')
			if v < 0 {
				sign = '-'
				v = -v
			}
			s += string(sign) + "$" + hex8(uint8(v))
		}
	case op.Token == TokImmediate:
		switch {
		case op.Flags&FlagDigit != 0:
			s = strconv.Itoa(int(op.Value))
		case op.Flags&FlagByte != 0:
			s = "$" + hex8(uint8(op.Value))
		default:
			if lookup != nil {
				if name, ok := lookup(op.Value); ok {
					s = name
					break
				}
			}
			s = "$" + hex16(op.Value)
		}
	default:
		s = "?"
	}
	if op.Indirect() {
		return "(" + s + ")"
	}
	return s
}

// Instruction is a decoded or to-be-encoded Z80 instruction: a mnemonic
// plus up to MaxOperands operands. An unused trailing Operand slot has
// Token TokInvalid, the zero value.
type Instruction struct {
	Mnemonic Mnemonic
	Operands [MaxOperands]Operand

	// undocLD is set by the CB/DDCB/FDCB decoder for the undocumented
	// form where a shift/rotate on (IX+d)/(IY+d) also copies its result
	// into a plain register; when non-zero it is printed as a leading
	// "LD <reg>;" annotation ahead of the real mnemonic. The assembler
	// accepts that same annotation back on input (see asm.go).
	undocLD Token
}

// UndocReg returns the register named by an undocumented "LD r;" prefix
// annotation on a DDCB/FDCB shift/rotate, or TokInvalid if inst carries
// no such annotation.
func (inst Instruction) UndocReg() Token { return inst.undocLD }

// WithUndocReg returns a copy of inst annotated with an undocumented
// "LD r;" prefix naming reg.
func (inst Instruction) WithUndocReg(reg Token) Instruction {
	inst.undocLD = reg
	return inst
}

// String formats inst the way the disassembler prints it, without label
// resolution; see Format for that.
func (inst Instruction) String() string {
	return inst.Format(nil)
}

// Format is like String but uses lookup to resolve label names.
func (inst Instruction) Format(lookup NameFunc) string {
	if inst.Mnemonic == MneInvalid {
		return "?"
	}
	s := ""
	if inst.undocLD != TokInvalid {
		s += "LD " + inst.undocLD.String() + ";"
	}
	s += inst.Mnemonic.String()
	for i, op := range inst.Operands {
		if op.Token == TokInvalid {
			break
		}
		if i == 0 {
			s += " "
		} else {
			s += ","
		}
		s += op.format(lookup)
	}
	return s
}

const hexDigits = "0123456789ABCDEF"

func hex8(v uint8) string {
	return string([]byte{hexDigits[v>>4], hexDigits[v&0xF]})
}

func hex16(v uint16) string {
	return hex8(uint8(v >> 8)) + hex8(uint8(v))
}
