package z80

import "github.com/pkg/errors"

// Writer receives the bytes an assembler emits. It is satisfied by any
// byte-addressable memory, including monitor.Bus.
type Writer interface {
	WriteByte(addr uint16, v byte)
}

// WriterFunc adapts a plain function to a Writer.
type WriterFunc func(addr uint16, v byte)

// WriteByte implements Writer.
func (f WriterFunc) WriteByte(addr uint16, v byte) { f(addr, v) }

// OperandError reports an operand that is the wrong kind, or combined with
// the other operand in a way no Z80 instruction supports. Its Error text
// matches the monitor's on-screen rendering of a rejected operand: the
// operand itself, printed the way the disassembler would, followed by "?".
type OperandError struct {
	Operand Operand
}

func (e *OperandError) Error() string {
	return e.Operand.String() + "?"
}

// ErrBranchTooFar is returned by Assemble for a DJNZ/JR target more than
// 128 bytes behind, or 127 bytes ahead of, the instruction after the
// branch.
var ErrBranchTooFar = errors.New("too far")

func writeCode(w Writer, addr uint16, code byte) uint16 {
	w.WriteByte(addr, code)
	return 1
}

func writeCodeByte(w Writer, addr uint16, code, data byte) uint16 {
	w.WriteByte(addr, code)
	w.WriteByte(addr+1, data)
	return 2
}

func writePfxCode(w Writer, addr uint16, prefix, code byte) uint16 {
	if prefix != 0 {
		w.WriteByte(addr, prefix)
		addr++
		return 1 + writeCode(w, addr, code)
	}
	return writeCode(w, addr, code)
}

// writePfxCodeIdx is writePfxCode plus a trailing displacement byte when
// index names an indirect IX/IY operand.
func writePfxCodeIdx(w Writer, addr uint16, prefix, code byte, index Operand) uint16 {
	hasIndex := index.Indirect() && (index.Token == TokIX || index.Token == TokIY)
	size := writePfxCode(w, addr, prefix, code)
	if hasIndex {
		w.WriteByte(addr+size, byte(index.Value))
		return size + 1
	}
	return size
}

func writeCodeWord(w Writer, addr uint16, code byte, data uint16) uint16 {
	w.WriteByte(addr, code)
	w.WriteByte(addr+1, byte(data))
	w.WriteByte(addr+2, byte(data>>8))
	return 3
}

func writePfxCodeWord(w Writer, addr uint16, prefix, code byte, data uint16) uint16 {
	if prefix != 0 {
		w.WriteByte(addr, prefix)
		addr++
		return 1 + writeCodeWord(w, addr, code, data)
	}
	return writeCodeWord(w, addr, code, data)
}

// writeAluA writes an "[alu] A,src" instruction: ALU A,n if src is an
// immediate, otherwise ALU A,r (including (HL)/(IX+d)/(IY+d)).
func writeAluA(w Writer, addr uint16, alu Alu, src Operand) (uint16, error) {
	if src.Token == TokImmediate {
		code := 0306 | byte(alu)<<3
		return writeCodeByte(w, addr, code, byte(src.Value)), nil
	}
	prefix := tokenToPrefix(src.Token)
	reg := tokenToReg(src.Token, prefix)
	if reg == RegInvalid {
		return 0, &OperandError{src}
	}
	code := 0200 | byte(alu)<<3 | byte(reg)
	return writePfxCodeIdx(w, addr, prefix, code, src), nil
}

// writeAluHL writes "[alu] HL/IX/IY,rr": ADD always, ADC/SBC only
// unprefixed (the prefixed ED forms only exist for HL).
func writeAluHL(w Writer, addr uint16, alu Alu, dst, src Operand) (uint16, error) {
	prefix := tokenToPrefix(dst.Token)
	if tokenToPair(dst.Token, prefix, false) != PairHL {
		return 0, &OperandError{dst}
	}
	srcPair := tokenToPair(src.Token, prefix, false)
	if srcPair == PairInvalid {
		return 0, &OperandError{src}
	}
	switch {
	case alu == AluAdd:
		code := 0011 | byte(srcPair)<<4
		return writePfxCode(w, addr, prefix, code), nil
	case prefix == 0 && alu == AluAdc:
		code := 0112 | byte(srcPair)<<4
		return writePfxCode(w, addr, PrefixED, code), nil
	case prefix == 0 && alu == AluSbc:
		code := 0102 | byte(srcPair)<<4
		return writePfxCode(w, addr, PrefixED, code), nil
	default:
		return 0, &OperandError{dst}
	}
}

func writeAlu(w Writer, addr uint16, alu Alu, op1, op2 Operand) (uint16, error) {
	if op2.Token == TokInvalid {
		return writeAluA(w, addr, alu, op1)
	}
	if op1.Token == TokA {
		return writeAluA(w, addr, alu, op2)
	}
	return writeAluHL(w, addr, alu, op1, op2)
}

// writeCbCode writes a CB-prefixed opcode with op's register or indirect
// form folded into its low 3 bits. undocReg, if not TokInvalid, names the
// plain register an indirect (IX+d)/(IY+d) form additionally stores its
// result into, the undocumented DDCB/FDCB form; it is ignored unless op is
// indirect.
func writeCbCode(w Writer, addr uint16, code byte, op Operand, undocReg Token) (uint16, error) {
	prefix := tokenToPrefix(op.Token)
	reg := tokenToReg(op.Token, prefix)
	if reg == RegInvalid || (prefix != 0 && reg != RegM) {
		return 0, &OperandError{op}
	}
	if prefix != 0 {
		z := RegM
		if undocReg != TokInvalid {
			r := tokenToReg(undocReg, 0)
			if r == RegInvalid || r == RegM {
				return 0, &OperandError{Operand{Token: undocReg}}
			}
			z = r
		}
		w.WriteByte(addr, prefix)
		w.WriteByte(addr+1, PrefixCB)
		w.WriteByte(addr+2, byte(op.Value))
		w.WriteByte(addr+3, code|byte(z))
		return 4, nil
	}
	return writePfxCode(w, addr, PrefixCB, code|byte(reg)), nil
}

func writeCbRot(w Writer, addr uint16, rot Rot, op Operand, undocReg Token) (uint16, error) {
	code := byte(rot) << 3
	return writeCbCode(w, addr, code, op, undocReg)
}

// writeCbBit writes BIT/RES/SET b,op2. op1 must be an immediate 0-7; a
// register-store annotation makes sense only for RES/SET (cb != cbBit),
// since BIT never writes a result anywhere.
func writeCbBit(w Writer, addr uint16, cb byte, op1, op2 Operand, undocReg Token) (uint16, error) {
	if op1.Token != TokImmediate || op1.Value > 7 {
		return 0, &OperandError{op1}
	}
	if cb == cbBit {
		undocReg = TokInvalid
	}
	code := cb<<6 | byte(op1.Value)<<3
	return writeCbCode(w, addr, code, op2, undocReg)
}

const (
	cbBit byte = 1
	cbRes byte = 2
	cbSet byte = 3
)

func writeCallJp(w Writer, addr uint16, codeCc, codeNn byte, op1, op2 Operand) (uint16, error) {
	cond := tokenToCond(op1.Token)
	if cond != CondInvalid && op2.Token == TokImmediate {
		code := codeCc | byte(cond)<<3
		return writeCodeWord(w, addr, code, op2.Value), nil
	}
	if op1.Token == TokImmediate {
		return writeCodeWord(w, addr, codeNn, op1.Value), nil
	}
	return 0, &OperandError{op1}
}

func writeCall(w Writer, addr uint16, op1, op2 Operand) (uint16, error) {
	return writeCallJp(w, addr, 0304, 0315, op1, op2)
}

func writeJp(w Writer, addr uint16, op1, op2 Operand) (uint16, error) {
	prefix := tokenToPrefix(op1.Token)
	reg := tokenToReg(op1.Token, prefix)
	if reg == RegM {
		return writePfxCode(w, addr, prefix, 0xE9), nil
	}
	return writeCallJp(w, addr, 0302, 0303, op1, op2)
}

func writeIncDec(w Writer, addr uint16, codeR, codeRr byte, op Operand) (uint16, error) {
	prefix := tokenToPrefix(op.Token)
	reg := tokenToReg(op.Token, prefix)
	if reg != RegInvalid && (reg != RegM || op.Indirect()) {
		code := codeR | byte(reg)<<3
		return writePfxCodeIdx(w, addr, prefix, code, op), nil
	}
	pair := tokenToPair(op.Token, prefix, false)
	if pair != PairInvalid {
		code := codeRr | byte(pair)<<4
		return writePfxCode(w, addr, prefix, code), nil
	}
	return 0, &OperandError{op}
}

func writeInc(w Writer, addr uint16, op Operand) (uint16, error) {
	return writeIncDec(w, addr, 0004, 0003, op)
}

func writeDec(w Writer, addr uint16, op Operand) (uint16, error) {
	return writeIncDec(w, addr, 0005, 0013, op)
}

func writeEx(w Writer, addr uint16, op1, op2 Operand) (uint16, error) {
	switch {
	case op1.Token == TokSP && op1.Indirect():
		prefix := tokenToPrefix(op2.Token)
		if tokenToPair(op2.Token, prefix, false) != PairHL {
			return 0, &OperandError{op2}
		}
		return writePfxCode(w, addr, prefix, 0xE3), nil
	case op1.Token == TokDE && op2.Token == TokHL:
		return writeCode(w, addr, 0xEB), nil
	case op1.Token == TokAF && (op2.Token == TokAF || op2.Token == TokInvalid):
		return writeCode(w, addr, 0x08), nil
	default:
		return 0, &OperandError{op1}
	}
}

func writeIm(w Writer, addr uint16, op Operand) (uint16, error) {
	switch {
	case op.Token == TokImmediate && op.Value < 3:
		im := [...]byte{0x46, 0x56, 0x5E}
		return writePfxCode(w, addr, PrefixED, im[op.Value]), nil
	case op.Token == TokUndefined:
		return writePfxCode(w, addr, PrefixED, 0x4E), nil
	default:
		return 0, &OperandError{op}
	}
}

// writeInOut writes the direct-port form (IN A,(n) / OUT (n),A) when data
// is A and port an immediate indirect, otherwise the (C)-relative form
// (IN r,(C) / OUT (C),r).
func writeInOut(w Writer, addr uint16, codeAn, codeRc byte, data, port Operand) (uint16, error) {
	if data.Token == TokA && port.Token == TokImmediate && port.Indirect() {
		return writeCodeByte(w, addr, codeAn, byte(port.Value)), nil
	}
	if port.Token == TokC && port.Indirect() {
		reg := tokenToReg(data.Token, 0)
		if reg == RegInvalid || reg == RegM {
			return 0, &OperandError{data}
		}
		code := codeRc | byte(reg)<<3
		return writePfxCode(w, addr, PrefixED, code), nil
	}
	return 0, &OperandError{port}
}

func writeIn(w Writer, addr uint16, op1, op2 Operand) (uint16, error) {
	return writeInOut(w, addr, 0333, 0100, op1, op2)
}

func writeOut(w Writer, addr uint16, op1, op2 Operand) (uint16, error) {
	return writeInOut(w, addr, 0323, 0101, op2, op1)
}

func writeDjnzJr(w Writer, addr uint16, code byte, op Operand) (uint16, error) {
	if op.Token != TokImmediate {
		return 0, &OperandError{op}
	}
	disp := int32(op.Value) - int32(addr+2)
	if disp < -128 || disp > 127 {
		return 0, ErrBranchTooFar
	}
	return writeCodeByte(w, addr, code, byte(int8(disp))), nil
}

func writeDjnz(w Writer, addr uint16, op Operand) (uint16, error) {
	return writeDjnzJr(w, addr, 0x10, op)
}

func writeJr(w Writer, addr uint16, op1, op2 Operand) (uint16, error) {
	if op2.Token == TokInvalid {
		return writeDjnzJr(w, addr, 0x18, op1)
	}
	cond := tokenToCond(op1.Token)
	if cond > CondC {
		return 0, &OperandError{op1}
	}
	code := 0040 | byte(cond)<<3
	return writeDjnzJr(w, addr, code, op2)
}

// writeLd writes LD dst,src. The disambiguation order matches the real
// instruction set's own irregularity: A and I/R/(BC)/(DE)/(nn) have
// dedicated opcodes in both directions, HL/IX/IY,(nn) and (nn),HL/IX/IY
// and SP,HL/IX/IY have dedicated opcodes, and everything else falls into
// the regular register/pair grid.
func writeLd(w Writer, addr uint16, dst, src Operand) (uint16, error) {
	if dst.Token == TokA {
		switch {
		case src.Token == TokI:
			return writePfxCode(w, addr, PrefixED, 0x57), nil
		case src.Token == TokR:
			return writePfxCode(w, addr, PrefixED, 0x5F), nil
		case src.Token == TokBC && src.Indirect():
			return writeCode(w, addr, 0x0A), nil
		case src.Token == TokDE && src.Indirect():
			return writeCode(w, addr, 0x1A), nil
		case src.Token == TokImmediate && src.Indirect():
			return writeCodeWord(w, addr, 0x3A, src.Value), nil
		}
	}

	if src.Token == TokA {
		switch {
		case dst.Token == TokI:
			return writePfxCode(w, addr, PrefixED, 0x47), nil
		case dst.Token == TokR:
			return writePfxCode(w, addr, PrefixED, 0x4F), nil
		case dst.Token == TokBC && dst.Indirect():
			return writeCode(w, addr, 0x02), nil
		case dst.Token == TokDE && dst.Indirect():
			return writeCode(w, addr, 0x12), nil
		case dst.Token == TokImmediate && dst.Indirect():
			return writeCodeWord(w, addr, 0x32, dst.Value), nil
		}
	}

	dstPrefix := tokenToPrefix(dst.Token)
	dstPair := tokenToPair(dst.Token, dstPrefix, false)
	if dstPair == PairHL && src.Token == TokImmediate && src.Indirect() {
		return writePfxCodeWord(w, addr, dstPrefix, 0x2A, src.Value), nil
	}

	srcPrefix := tokenToPrefix(src.Token)
	srcPair := tokenToPair(src.Token, srcPrefix, false)
	if srcPair == PairHL {
		switch {
		case dst.Token == TokImmediate && dst.Indirect():
			return writePfxCodeWord(w, addr, srcPrefix, 0x22, dst.Value), nil
		case dst.Token == TokSP:
			return writePfxCode(w, addr, srcPrefix, 0xF9), nil
		}
	}

	dstReg := tokenToReg(dst.Token, dstPrefix)
	if dstReg == RegM && !dst.Indirect() {
		// Unparenthesised HL/IX/IY is a pair, not the (HL) slot.
		dstReg = RegInvalid
	}
	if dstReg != RegInvalid {
		if srcReg := tokenToReg(src.Token, srcPrefix); srcReg != RegInvalid {
			srcIsM := srcReg == RegM
			dstIsM := dstReg == RegM
			dstInSrc := tokenToReg(dst.Token, srcPrefix) != RegInvalid
			srcInDst := tokenToReg(src.Token, dstPrefix) != RegInvalid
			if (srcIsM && !dstIsM && dstPrefix == 0) ||
				(dstIsM && !srcIsM && srcPrefix == 0) ||
				(!srcIsM && !dstIsM && (dstInSrc || srcInDst)) {
				prefix := dstPrefix | srcPrefix
				code := 0100 | byte(dstReg)<<3 | byte(srcReg)
				index := src
				if dstReg == RegM {
					index = dst
				}
				return writePfxCodeIdx(w, addr, prefix, code, index), nil
			}
		} else if src.Token == TokImmediate {
			code := 0006 | byte(dstReg)<<3
			size := writePfxCodeIdx(w, addr, dstPrefix, code, dst)
			w.WriteByte(addr+size, byte(src.Value))
			return size + 1, nil
		}
	} else if dstPair != PairInvalid {
		switch {
		case src.Token == TokImmediate && !src.Indirect():
			code := 0001 | byte(dstPair)<<4
			return writePfxCodeWord(w, addr, dstPrefix, code, src.Value), nil
		case src.Token == TokImmediate && src.Indirect():
			// LD HL/IX/IY,(nn) is handled above; only BC/DE/SP reach here.
			code := 0113 | byte(dstPair)<<4
			return writePfxCodeWord(w, addr, PrefixED, code, src.Value), nil
		}
	} else if srcPair != PairInvalid && dst.Token == TokImmediate && dst.Indirect() {
		// LD (nn),HL/IX/IY is handled above; only BC/DE/SP reach here.
		code := 0103 | byte(srcPair)<<4
		return writePfxCodeWord(w, addr, PrefixED, code, dst.Value), nil
	}
	return 0, &OperandError{src}
}

func writePushPop(w Writer, addr uint16, code byte, op Operand) (uint16, error) {
	prefix := tokenToPrefix(op.Token)
	pair := tokenToPair(op.Token, prefix, true)
	if pair == PairInvalid {
		return 0, &OperandError{op}
	}
	return writePfxCode(w, addr, prefix, code|byte(pair)<<4), nil
}

func writePush(w Writer, addr uint16, op Operand) (uint16, error) {
	return writePushPop(w, addr, 0305, op)
}

func writePop(w Writer, addr uint16, op Operand) (uint16, error) {
	return writePushPop(w, addr, 0301, op)
}

func writeRet(w Writer, addr uint16, op Operand) (uint16, error) {
	if op.Token == TokInvalid {
		return writeCode(w, addr, 0xC9), nil
	}
	cond := tokenToCond(op.Token)
	if cond == CondInvalid {
		return 0, &OperandError{op}
	}
	return writeCode(w, addr, 0300|byte(cond)<<3), nil
}

func writeRst(w Writer, addr uint16, op Operand) (uint16, error) {
	if op.Token == TokImmediate && op.Value&0307 == 0 {
		return writeCode(w, addr, 0307|byte(op.Value)), nil
	}
	return 0, &OperandError{op}
}

// Assemble encodes inst at addr, writing its bytes through w and returning
// the number of bytes written. It returns an OperandError if an operand is
// the wrong kind or an unsupported combination for inst.Mnemonic, or
// ErrBranchTooFar if a DJNZ/JR target is out of range.
func Assemble(inst Instruction, addr uint16, w Writer) (uint16, error) {
	op1, op2 := inst.Operands[0], inst.Operands[1]
	switch inst.Mnemonic {
	case MneAdc:
		return writeAlu(w, addr, AluAdc, op1, op2)
	case MneAdd:
		return writeAlu(w, addr, AluAdd, op1, op2)
	case MneAnd:
		return writeAlu(w, addr, AluAnd, op1, op2)
	case MneBit:
		return writeCbBit(w, addr, cbBit, op1, op2, inst.UndocReg())
	case MneCall:
		return writeCall(w, addr, op1, op2)
	case MneCcf:
		return writeCode(w, addr, 0x3F), nil
	case MneCp:
		return writeAlu(w, addr, AluCp, op1, op2)
	case MneCpd:
		return writePfxCode(w, addr, PrefixED, 0xA9), nil
	case MneCpdr:
		return writePfxCode(w, addr, PrefixED, 0xB9), nil
	case MneCpi:
		return writePfxCode(w, addr, PrefixED, 0xA1), nil
	case MneCpir:
		return writePfxCode(w, addr, PrefixED, 0xB1), nil
	case MneCpl:
		return writeCode(w, addr, 0x2F), nil
	case MneDaa:
		return writeCode(w, addr, 0x27), nil
	case MneDec:
		return writeDec(w, addr, op1)
	case MneDi:
		return writeCode(w, addr, 0xF3), nil
	case MneDjnz:
		return writeDjnz(w, addr, op1)
	case MneEi:
		return writeCode(w, addr, 0xFB), nil
	case MneEx:
		return writeEx(w, addr, op1, op2)
	case MneExx:
		return writeCode(w, addr, 0xD9), nil
	case MneHalt:
		return writeCode(w, addr, 0x76), nil
	case MneIm:
		return writeIm(w, addr, op1)
	case MneIn:
		return writeIn(w, addr, op1, op2)
	case MneInc:
		return writeInc(w, addr, op1)
	case MneInd:
		return writePfxCode(w, addr, PrefixED, 0xAA), nil
	case MneIndr:
		return writePfxCode(w, addr, PrefixED, 0xBA), nil
	case MneIni:
		return writePfxCode(w, addr, PrefixED, 0xA2), nil
	case MneInir:
		return writePfxCode(w, addr, PrefixED, 0xB2), nil
	case MneJp:
		return writeJp(w, addr, op1, op2)
	case MneJr:
		return writeJr(w, addr, op1, op2)
	case MneLd:
		return writeLd(w, addr, op1, op2)
	case MneLdd:
		return writePfxCode(w, addr, PrefixED, 0xA8), nil
	case MneLddr:
		return writePfxCode(w, addr, PrefixED, 0xB8), nil
	case MneLdi:
		return writePfxCode(w, addr, PrefixED, 0xA0), nil
	case MneLdir:
		return writePfxCode(w, addr, PrefixED, 0xB0), nil
	case MneNeg:
		return writePfxCode(w, addr, PrefixED, 0x44), nil
	case MneNop:
		return writeCode(w, addr, 0x00), nil
	case MneOr:
		return writeAlu(w, addr, AluOr, op1, op2)
	case MneOtdr:
		return writePfxCode(w, addr, PrefixED, 0xBB), nil
	case MneOtir:
		return writePfxCode(w, addr, PrefixED, 0xB3), nil
	case MneOut:
		return writeOut(w, addr, op1, op2)
	case MneOutd:
		return writePfxCode(w, addr, PrefixED, 0xAB), nil
	case MneOuti:
		return writePfxCode(w, addr, PrefixED, 0xA3), nil
	case MnePop:
		return writePop(w, addr, op1)
	case MnePush:
		return writePush(w, addr, op1)
	case MneRes:
		return writeCbBit(w, addr, cbRes, op1, op2, inst.UndocReg())
	case MneRet:
		return writeRet(w, addr, op1)
	case MneReti:
		return writePfxCode(w, addr, PrefixED, 0x4D), nil
	case MneRetn:
		return writePfxCode(w, addr, PrefixED, 0x45), nil
	case MneRl:
		return writeCbRot(w, addr, RotRL, op1, inst.UndocReg())
	case MneRla:
		return writeCode(w, addr, 0x17), nil
	case MneRlc:
		return writeCbRot(w, addr, RotRLC, op1, inst.UndocReg())
	case MneRlca:
		return writeCode(w, addr, 0x07), nil
	case MneRld:
		return writePfxCode(w, addr, PrefixED, 0x6F), nil
	case MneRr:
		return writeCbRot(w, addr, RotRR, op1, inst.UndocReg())
	case MneRra:
		return writeCode(w, addr, 0x1F), nil
	case MneRrc:
		return writeCbRot(w, addr, RotRRC, op1, inst.UndocReg())
	case MneRrca:
		return writeCode(w, addr, 0x0F), nil
	case MneRrd:
		return writePfxCode(w, addr, PrefixED, 0x67), nil
	case MneRst:
		return writeRst(w, addr, op1)
	case MneSbc:
		return writeAlu(w, addr, AluSbc, op1, op2)
	case MneScf:
		return writeCode(w, addr, 0x37), nil
	case MneSet:
		return writeCbBit(w, addr, cbSet, op1, op2, inst.UndocReg())
	case MneSl1:
		return writeCbRot(w, addr, RotSL1, op1, inst.UndocReg())
	case MneSla:
		return writeCbRot(w, addr, RotSLA, op1, inst.UndocReg())
	case MneSra:
		return writeCbRot(w, addr, RotSRA, op1, inst.UndocReg())
	case MneSrl:
		return writeCbRot(w, addr, RotSRL, op1, inst.UndocReg())
	case MneSub:
		return writeAlu(w, addr, AluSub, op1, op2)
	case MneXor:
		return writeAlu(w, addr, AluXor, op1, op2)
	default:
		return 0, errors.Errorf("invalid mnemonic %d", inst.Mnemonic)
	}
}
