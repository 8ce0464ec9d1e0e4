package z80

import "fmt"

// Reader supplies the bytes a disassembler decodes. It is satisfied by
// any byte-addressable memory, including monitor.Bus.
type Reader interface {
	ReadByte(addr uint16) byte
}

// ReaderFunc adapts a plain function to a Reader.
type ReaderFunc func(addr uint16) byte

// ReadByte implements Reader.
func (f ReaderFunc) ReadByte(addr uint16) byte { return f(addr) }

// DecodeError reports an opcode byte (or byte pair, for a prefixed
// instruction) that does not correspond to any documented or undocumented
// Z80 instruction. Its Error text matches the monitor's on-screen
// rendering of a bad opcode: "$<prefix><code>?", with the prefix omitted
// when there was none.
type DecodeError struct {
	Prefix byte // 0 if the bad code was unprefixed
	Code   byte
}

func (e *DecodeError) Error() string {
	if e.Prefix == 0 {
		return fmt.Sprintf("$%02X?", e.Code)
	}
	return fmt.Sprintf("$%02X%02X?", e.Prefix, e.Code)
}

func readImmByte(r Reader, addr uint16, indirect bool) Operand {
	op := Operand{Token: TokImmediate, Flags: FlagByte, Value: uint16(r.ReadByte(addr))}
	if indirect {
		op.Flags |= FlagIndirect
	}
	return op
}

func readImmWord(r Reader, addr uint16, indirect bool) Operand {
	lsb := uint16(r.ReadByte(addr))
	msb := uint16(r.ReadByte(addr + 1))
	op := Operand{Token: TokImmediate, Value: msb<<8 | lsb}
	if indirect {
		op.Flags |= FlagIndirect
	}
	return op
}

func readBranchDisp(r Reader, addr uint16) Operand {
	disp := int8(r.ReadByte(addr))
	return Operand{Token: TokImmediate, Value: uint16(int32(addr) + 1 + int32(disp))}
}

func readIndexInd(r Reader, addr uint16, prefix byte) Operand {
	tok := TokIY
	if prefix == PrefixIX {
		tok = TokIX
	}
	disp := int8(r.ReadByte(addr))
	return Operand{Token: tok, Flags: FlagIndirect, Value: uint16(disp)}
}

// decodeInOutC decodes ED [01 --- 00-], IN/OUT (C).
func decodeInOutC(code byte) Instruction {
	isOut := code&01 == 01
	reg := Reg((code & 070) >> 3)
	isInd := reg == RegM
	var inst Instruction
	if isOut {
		inst.Mnemonic = MneOut
	} else {
		inst.Mnemonic = MneIn
	}
	cReg := 1
	portReg := 0
	if isOut {
		cReg, portReg = 0, 1
	}
	inst.Operands[cReg] = Operand{Token: TokC, Flags: FlagIndirect}
	// (HL) is undefined here: OUT sends 0, IN sets flags without storing.
	if isInd {
		inst.Operands[portReg] = Operand{Token: TokUndefined}
	} else {
		inst.Operands[portReg] = regOperand(reg, 0)
	}
	return inst
}

// decodeHLAdc decodes ED [01 --- 010], 16-bit ADC/SBC HL,rr.
func decodeHLAdc(code byte) Instruction {
	isAdc := code&010 == 010
	pair := Pair((code & 060) >> 4)
	inst := Instruction{Operands: [2]Operand{{Token: TokHL}, {Token: pairTok[pair]}}}
	if isAdc {
		inst.Mnemonic = MneAdc
	} else {
		inst.Mnemonic = MneSbc
	}
	return inst
}

// decodeLdPairInd decodes ED [01 --- 011], 16-bit LD rr,(nn)/LD (nn),rr.
func decodeLdPairInd(r Reader, addr uint16, code byte) (Instruction, uint16) {
	isLoad := code&010 == 010
	pair := Pair((code & 060) >> 4)
	inst := Instruction{Mnemonic: MneLd}
	regIdx, memIdx := 0, 1
	if !isLoad {
		regIdx, memIdx = 1, 0
	}
	inst.Operands[regIdx] = Operand{Token: pairTok[pair]}
	inst.Operands[memIdx] = readImmWord(r, addr+1, true)
	return inst, 3
}

// decodeIm decodes ED [01 --- 110], IM 0/1/2.
func decodeIm(code byte) Instruction {
	inst := Instruction{Mnemonic: MneIm}
	mode := (code & 030) >> 3
	if mode == 1 {
		inst.Operands[0] = Operand{Token: TokUndefined}
	} else {
		v := mode
		if mode > 0 {
			v = mode - 1
		}
		inst.Operands[0] = Operand{Token: TokImmediate, Flags: FlagDigit, Value: uint16(v)}
	}
	return inst
}

// decodeLdIr decodes ED [01 --- 111]: LD I/R,A and LD A,I/R, and RRD/RLD.
func decodeLdIr(code byte) (Instruction, error) {
	isRot := code&040 == 040
	isLoad := code&020 == 020
	isRl := code&010 == 010
	var inst Instruction
	if isRot {
		if isLoad {
			return inst, &DecodeError{Prefix: PrefixED, Code: code}
		}
		if isRl {
			inst.Mnemonic = MneRld
		} else {
			inst.Mnemonic = MneRrd
		}
		return inst, nil
	}
	inst.Mnemonic = MneLd
	aIdx, otherIdx := 0, 1
	if !isLoad {
		aIdx, otherIdx = 1, 0
	}
	inst.Operands[aIdx] = Operand{Token: TokA}
	other := TokI
	if isRl {
		other = TokR
	}
	inst.Operands[otherIdx] = Operand{Token: other}
	return inst, nil
}

var blockOps = [4][4]Mnemonic{
	{MneLdi, MneLdd, MneLdir, MneLddr},
	{MneCpi, MneCpd, MneCpir, MneCpdr},
	{MneIni, MneInd, MneInir, MneIndr},
	{MneOuti, MneOutd, MneOtir, MneOtdr},
}

// decodeBlockOps decodes ED [10 1-- 0--], the LDI/LDD/... family.
func decodeBlockOps(code byte) Instruction {
	op := code & 03
	variant := (code & 030) >> 3
	return Instruction{Mnemonic: blockOps[op][variant]}
}

// decodeED disassembles an opcode following the $ED prefix.
func decodeED(r Reader, addr uint16) (Instruction, uint16, error) {
	code := r.ReadByte(addr)
	if code&0300 == 0100 {
		switch code & 07 {
		case 0, 1:
			return decodeInOutC(code), 1, nil
		case 2:
			return decodeHLAdc(code), 1, nil
		case 3:
			inst, size := decodeLdPairInd(r, addr, code)
			return inst, size, nil
		case 4:
			// All of 1xx-4xx do NEG; only 104 is documented.
			return Instruction{Mnemonic: MneNeg}, 1, nil
		case 5:
			// All of 1xx-5xx (except 115 RETI) do RETN; only 105 is documented.
			if code == 0115 {
				return Instruction{Mnemonic: MneReti}, 1, nil
			}
			return Instruction{Mnemonic: MneRetn}, 1, nil
		case 6:
			return decodeIm(code), 1, nil
		case 7:
			inst, err := decodeLdIr(code)
			return inst, 1, err
		}
	} else if code&0344 == 0240 {
		return decodeBlockOps(code), 1, nil
	}
	return Instruction{}, 1, &DecodeError{Prefix: PrefixED, Code: code}
}

// decodeCB disassembles an opcode following the $CB prefix, or the
// $CB byte of a DDCB/FDCB sequence when prefix is non-zero. addr is the
// address of the byte after the CB byte: the opcode itself when
// prefix==0, or the displacement byte when prefix!=0 (the opcode then
// follows the displacement).
func decodeCB(r Reader, addr uint16, prefix byte) (Instruction, uint16) {
	hasPrefix := prefix != 0
	codeAddr := addr
	if hasPrefix {
		codeAddr = addr + 1
	}
	code := r.ReadByte(codeAddr)
	op := (code & 0300) >> 6
	index := (code & 070) >> 3
	reg := Reg(code & 07)

	var inst Instruction
	if op == 0 {
		inst.Mnemonic = rotMne[Rot(index)]
	} else {
		inst.Mnemonic = [...]Mnemonic{MneInvalid, MneBit, MneRes, MneSet}[op]
	}
	regIdx := 0
	if op != 0 {
		regIdx = 1
		inst.Operands[0] = Operand{Token: TokImmediate, Flags: FlagDigit, Value: uint16(index)}
	}

	if hasPrefix {
		if op != 1 && reg != RegM {
			// Undocumented: operand other than (HL) still stores the
			// shifted/rotated value back into reg as well.
			inst = inst.WithUndocReg(regTok[reg])
		}
		inst.Operands[regIdx] = readIndexInd(r, addr, prefix)
		return inst, 2
	}
	inst.Operands[regIdx] = regOperand(reg, 0)
	return inst, 1
}

// decodeJr disassembles [00 --- 000]: NOP, EX AF,AF', DJNZ, JR, JR cc.
func decodeJr(r Reader, addr uint16, code byte) (Instruction, uint16) {
	switch code & 070 {
	case 000:
		return Instruction{Mnemonic: MneNop}, 1
	case 010:
		return Instruction{Mnemonic: MneEx, Operands: [2]Operand{{Token: TokAF}, {Token: TokAF}}}, 1
	case 020:
		return Instruction{Mnemonic: MneDjnz, Operands: [2]Operand{readBranchDisp(r, addr+1), {}}}, 2
	case 030:
		return Instruction{Mnemonic: MneJr, Operands: [2]Operand{readBranchDisp(r, addr+1), {}}}, 2
	default:
		cond := condToToken(Cond((code & 030) >> 3))
		return Instruction{Mnemonic: MneJr, Operands: [2]Operand{{Token: cond}, readBranchDisp(r, addr+1)}}, 2
	}
}

// decodeLdAddPair disassembles [00 --- 001]: LD rr,nn / ADD HL,rr.
func decodeLdAddPair(r Reader, addr uint16, code byte, prefix byte) (Instruction, uint16) {
	isLoad := code&010 == 0
	pair := Pair((code & 060) >> 4)
	if isLoad {
		return Instruction{Mnemonic: MneLd, Operands: [2]Operand{
			{Token: pairToToken(pair, prefix, false)},
			readImmWord(r, addr+1, false),
		}}, 3
	}
	return Instruction{Mnemonic: MneAdd, Operands: [2]Operand{
		{Token: pairToToken(PairHL, prefix, false)},
		{Token: pairToToken(pair, prefix, false)},
	}}, 1
}

// decodeLdInd disassembles [00 --- 010]: LD A/HL,(BC/DE/nn) and reverse.
func decodeLdInd(r Reader, addr uint16, code byte, prefix byte) (Instruction, uint16) {
	isStore := code&010 == 0
	useHL := code&060 == 040
	usePair := code&040 == 0
	regIdx, memIdx := 0, 1
	if isStore {
		regIdx, memIdx = 1, 0
	}
	var inst Instruction
	inst.Mnemonic = MneLd
	if useHL {
		inst.Operands[regIdx] = Operand{Token: pairToToken(PairHL, prefix, false)}
	} else {
		inst.Operands[regIdx] = Operand{Token: TokA}
	}
	if usePair {
		pair := Pair((code & 020) >> 4)
		inst.Operands[memIdx] = Operand{Token: pairTok[pair], Flags: FlagIndirect}
		return inst, 1
	}
	inst.Operands[memIdx] = readImmWord(r, addr+1, true)
	return inst, 3
}

// decodeLdRegImm disassembles LD r,n, including LD (IX/IY+d),n.
func decodeLdRegImm(r Reader, addr uint16, code byte, prefix byte) (Instruction, uint16) {
	reg := Reg((code & 070) >> 3)
	hasPrefix := prefix != 0
	inst := Instruction{Mnemonic: MneLd}
	if hasPrefix && reg == RegM {
		inst.Operands[0] = readIndexInd(r, addr+1, prefix)
		inst.Operands[1] = readImmByte(r, addr+2, false)
		return inst, 3
	}
	inst.Operands[0] = regOperand(reg, prefix)
	inst.Operands[1] = readImmByte(r, addr+1, false)
	return inst, 2
}

// decodeIncDec disassembles INC/DEC of registers and pairs.
func decodeIncDec(r Reader, addr uint16, code byte, prefix byte) (Instruction, uint16) {
	isPair := code&04 == 0
	var isInc bool
	if isPair {
		isInc = code&010 == 0
	} else {
		isInc = code&01 == 0
	}
	inst := Instruction{}
	if isInc {
		inst.Mnemonic = MneInc
	} else {
		inst.Mnemonic = MneDec
	}
	if isPair {
		pair := Pair((code & 060) >> 4)
		inst.Operands[0] = Operand{Token: pairToToken(pair, prefix, false)}
		return inst, 1
	}
	hasPrefix := prefix != 0
	reg := Reg((code & 070) >> 3)
	if hasPrefix && reg == RegM {
		inst.Operands[0] = readIndexInd(r, addr+1, prefix)
		return inst, 2
	}
	inst.Operands[0] = regOperand(reg, prefix)
	return inst, 1
}

// decodeLdRegReg disassembles [01 --- ---]: LD r,r' and HALT.
func decodeLdRegReg(r Reader, addr uint16, code byte, prefix byte) (Instruction, uint16) {
	if code == 0x76 {
		return Instruction{Mnemonic: MneHalt}, 1
	}
	dest := Reg((code & 070) >> 3)
	src := Reg(code & 07)
	hasPrefix := prefix != 0
	hasDestIndex := hasPrefix && dest == RegM
	hasSrcIndex := hasPrefix && src == RegM
	hasIndex := hasDestIndex || hasSrcIndex
	inst := Instruction{Mnemonic: MneLd}
	if hasDestIndex {
		inst.Operands[0] = readIndexInd(r, addr+1, prefix)
	} else {
		p := prefix
		if hasIndex {
			p = 0
		}
		inst.Operands[0] = regOperand(dest, p)
	}
	if hasSrcIndex {
		inst.Operands[1] = readIndexInd(r, addr+1, prefix)
	} else {
		p := prefix
		if hasIndex {
			p = 0
		}
		inst.Operands[1] = regOperand(src, p)
	}
	if hasIndex {
		return inst, 2
	}
	return inst, 1
}

// decodeAluAReg disassembles [10 --- ---]: [ALU op] A,r.
func decodeAluAReg(r Reader, addr uint16, code byte, prefix byte) (Instruction, uint16) {
	op := Alu((code & 070) >> 3)
	reg := Reg(code & 07)
	hasPrefix := prefix != 0
	inst := Instruction{Mnemonic: aluMne[op]}
	inst.Operands[0] = Operand{Token: TokA}
	if hasPrefix && reg == RegM {
		inst.Operands[1] = readIndexInd(r, addr+1, prefix)
		return inst, 2
	}
	inst.Operands[1] = regOperand(reg, prefix)
	return inst, 1
}

var jpCondOps = [3]Mnemonic{MneRet, MneJp, MneCall}

// decodeJpCond disassembles conditional RET/JP/CALL.
func decodeJpCond(r Reader, addr uint16, code byte) (Instruction, uint16) {
	op := (code & 06) >> 1
	cond := Cond((code & 070) >> 3)
	inst := Instruction{Mnemonic: jpCondOps[op]}
	inst.Operands[0] = Operand{Token: condToToken(cond)}
	if op != 0 {
		inst.Operands[1] = readImmWord(r, addr+1, false)
		return inst, 3
	}
	return inst, 1
}

// decodePushPop disassembles PUSH/POP, CALL nn, RET, EXX, JP (HL), LD SP,HL.
func decodePushPop(r Reader, addr uint16, code byte, prefix byte) (Instruction, uint16) {
	isPush := code&04 == 04
	switch code & 070 {
	case 010:
		if isPush {
			return Instruction{Mnemonic: MneCall, Operands: [2]Operand{readImmWord(r, addr+1, false), {}}}, 3
		}
		return Instruction{Mnemonic: MneRet}, 1
	case 030:
		return Instruction{Mnemonic: MneExx}, 1
	case 050:
		return Instruction{Mnemonic: MneJp, Operands: [2]Operand{{Token: pairToToken(PairHL, prefix, false), Flags: FlagIndirect}, {}}}, 1
	case 070:
		return Instruction{Mnemonic: MneLd, Operands: [2]Operand{{Token: TokSP}, {Token: pairToToken(PairHL, prefix, false)}}}, 1
	default: // 000, 020, 040, 060
		pair := Pair((code & 060) >> 4)
		inst := Instruction{Operands: [2]Operand{{Token: pairToToken(pair, prefix, true)}, {}}}
		if isPush {
			inst.Mnemonic = MnePush
		} else {
			inst.Mnemonic = MnePop
		}
		return inst, 1
	}
}

// decodeMiscHi disassembles the [11 --- 011] row: JP nn, CB dispatch,
// OUT (n),A, IN A,(n), EX (SP),HL, EX DE,HL, DI, EI.
func decodeMiscHi(r Reader, addr uint16, code byte, prefix byte) (Instruction, uint16) {
	switch code & 070 {
	case 000:
		return Instruction{Mnemonic: MneJp, Operands: [2]Operand{readImmWord(r, addr+1, false), {}}}, 3
	case 010:
		inst, size := decodeCB(r, addr+1, prefix)
		return inst, 1 + size
	case 020:
		return Instruction{Mnemonic: MneOut, Operands: [2]Operand{readImmByte(r, addr+1, true), {Token: TokA}}}, 2
	case 030:
		return Instruction{Mnemonic: MneIn, Operands: [2]Operand{{Token: TokA}, readImmByte(r, addr+1, true)}}, 2
	case 040:
		return Instruction{Mnemonic: MneEx, Operands: [2]Operand{{Token: TokSP, Flags: FlagIndirect}, {Token: pairToToken(PairHL, prefix, false)}}}, 1
	case 050:
		// EX DE,HL is unaffected by an index prefix.
		return Instruction{Mnemonic: MneEx, Operands: [2]Operand{{Token: TokDE}, {Token: TokHL}}}, 1
	case 060:
		return Instruction{Mnemonic: MneDi}, 1
	default: // 070
		return Instruction{Mnemonic: MneEi}, 1
	}
}

// Disassemble decodes one instruction from r at addr, returning the
// decoded Instruction, the number of bytes it occupies, and any
// DecodeError for an unrecognized opcode. On error, size is 1: only the
// first byte is skipped, so after a doubled prefix byte disassembly
// resumes at the second prefix byte.
func Disassemble(r Reader, addr uint16) (Instruction, uint16, error) {
	return dasmInstruction(r, addr, 0)
}

func dasmInstruction(r Reader, addr uint16, prefix byte) (Instruction, uint16, error) {
	code := r.ReadByte(addr)
	if code == PrefixIX || code == PrefixED || code == PrefixIY {
		if prefix != 0 {
			return Instruction{}, 0, &DecodeError{Prefix: prefix, Code: code}
		}
		if code == PrefixED {
			inst, size, err := decodeED(r, addr+1)
			if err != nil {
				return inst, 1, err
			}
			return inst, 1 + size, nil
		}
		inst, size, err := dasmInstruction(r, addr+1, code)
		return inst, 1 + size, err
	}

	switch code & 0300 {
	case 0000:
		switch code & 07 {
		case 0:
			inst, size := decodeJr(r, addr, code)
			return inst, size, nil
		case 1:
			inst, size := decodeLdAddPair(r, addr, code, prefix)
			return inst, size, nil
		case 2:
			inst, size := decodeLdInd(r, addr, code, prefix)
			return inst, size, nil
		case 6:
			inst, size := decodeLdRegImm(r, addr, code, prefix)
			return inst, size, nil
		case 7:
			return Instruction{Mnemonic: miscMne[(code&070)>>3]}, 1, nil
		default: // 3, 4, 5
			inst, size := decodeIncDec(r, addr, code, prefix)
			return inst, size, nil
		}
	case 0100:
		inst, size := decodeLdRegReg(r, addr, code, prefix)
		return inst, size, nil
	case 0200:
		inst, size := decodeAluAReg(r, addr, code, prefix)
		return inst, size, nil
	default: // 0300
		switch code & 07 {
		case 3:
			inst, size := decodeMiscHi(r, addr, code, prefix)
			return inst, size, nil
		case 6:
			inst := Instruction{Mnemonic: aluMne[Alu((code&070)>>3)], Operands: [2]Operand{{Token: TokA}, readImmByte(r, addr+1, false)}}
			return inst, 2, nil
		case 7:
			inst := Instruction{Mnemonic: MneRst, Operands: [2]Operand{{Token: TokImmediate, Flags: FlagByte, Value: uint16(code & 070)}, {}}}
			return inst, 1, nil
		default: // 0, 1, 2, 4, 5
			if code&01 == 01 {
				inst, size := decodePushPop(r, addr, code, prefix)
				return inst, size, nil
			}
			inst, size := decodeJpCond(r, addr, code)
			return inst, size, nil
		}
	}
}

// DisassembleRange decodes consecutive instructions from addr up to and
// including end, writing each to fn along with its address, undocumented
// "LD r;" DDCB/FDCB annotation (if any), and any DecodeError. It stops
// early after maxRows rows, and returns the address immediately after the
// last decoded instruction.
func DisassembleRange(r Reader, addr, end uint16, maxRows int, fn func(addr uint16, inst Instruction, err error)) uint16 {
	for i := 0; i < maxRows; i++ {
		inst, size, err := Disassemble(r, addr)
		fn(addr, inst, err)
		prev := addr
		addr += size
		if end-prev < size {
			break
		}
	}
	return addr
}
