package z80

import (
	"sort"
	"strings"
)

// Prefix bytes that extend the base opcode map.
const (
	PrefixIX byte = 0xDD
	PrefixIY byte = 0xFD
	PrefixED byte = 0xED
	PrefixCB byte = 0xCB
)

// Mnemonic identifies a Z80 assembly mnemonic.
type Mnemonic uint8

// Mnemonic values. MneInvalid is the zero value, so a zero-initialized
// Instruction reads as invalid rather than as a real opcode; the rest
// follow in the alphabetic order used by the sorted lookup table.
const (
	MneInvalid Mnemonic = iota
	MneAdc
	MneAdd
	MneAnd
	MneBit
	MneCall
	MneCcf
	MneCp
	MneCpd
	MneCpdr
	MneCpi
	MneCpir
	MneCpl
	MneDaa
	MneDec
	MneDi
	MneDjnz
	MneEi
	MneEx
	MneExx
	MneHalt
	MneIm
	MneIn
	MneInc
	MneInd
	MneIndr
	MneIni
	MneInir
	MneJp
	MneJr
	MneLd
	MneLdd
	MneLddr
	MneLdi
	MneLdir
	MneNeg
	MneNop
	MneOr
	MneOtdr
	MneOtir
	MneOut
	MneOutd
	MneOuti
	MnePop
	MnePush
	MneRes
	MneRet
	MneReti
	MneRetn
	MneRl
	MneRla
	MneRlc
	MneRlca
	MneRld
	MneRr
	MneRra
	MneRrc
	MneRrca
	MneRrd
	MneRst
	MneSbc
	MneScf
	MneSet
	MneSl1
	MneSla
	MneSra
	MneSrl
	MneSub
	MneXor
)

var mneStr = [...]string{
	MneAdc: "ADC", MneAdd: "ADD", MneAnd: "AND", MneBit: "BIT",
	MneCall: "CALL", MneCcf: "CCF", MneCp: "CP", MneCpd: "CPD",
	MneCpdr: "CPDR", MneCpi: "CPI", MneCpir: "CPIR", MneCpl: "CPL",
	MneDaa: "DAA", MneDec: "DEC", MneDi: "DI", MneDjnz: "DJNZ",
	MneEi: "EI", MneEx: "EX", MneExx: "EXX", MneHalt: "HALT",
	MneIm: "IM", MneIn: "IN", MneInc: "INC", MneInd: "IND",
	MneIndr: "INDR", MneIni: "INI", MneInir: "INIR", MneJp: "JP",
	MneJr: "JR", MneLd: "LD", MneLdd: "LDD", MneLddr: "LDDR",
	MneLdi: "LDI", MneLdir: "LDIR", MneNeg: "NEG", MneNop: "NOP",
	MneOr: "OR", MneOtdr: "OTDR", MneOtir: "OTIR", MneOut: "OUT",
	MneOutd: "OUTD", MneOuti: "OUTI", MnePop: "POP", MnePush: "PUSH",
	MneRes: "RES", MneRet: "RET", MneReti: "RETI", MneRetn: "RETN",
	MneRl: "RL", MneRla: "RLA", MneRlc: "RLC", MneRlca: "RLCA",
	MneRld: "RLD", MneRr: "RR", MneRra: "RRA", MneRrc: "RRC",
	MneRrca: "RRCA", MneRrd: "RRD", MneRst: "RST", MneSbc: "SBC",
	MneScf: "SCF", MneSet: "SET", MneSl1: "SL1", MneSla: "SLA",
	MneSra: "SRA", MneSrl: "SRL", MneSub: "SUB", MneXor: "XOR",
}

// String returns the mnemonic's assembly text, or "?" if m is MneInvalid
// or out of range.
func (m Mnemonic) String() string {
	if int(m) < len(mneStr) && mneStr[m] != "" {
		return mneStr[m]
	}
	return "?"
}

// mneNames is mneStr sorted for lookupMnemonic's binary search; it is built
// once at init time rather than hand-sorted so the source order above stays
// the canonical (and readable) alphabetic listing.
var mneNames []string
var mneByName map[string]Mnemonic

func init() {
	mneNames = make([]string, len(mneStr))
	mneByName = make(map[string]Mnemonic, len(mneStr))
	copy(mneNames, mneStr[:])
	sort.Strings(mneNames)
	for i, s := range mneStr {
		mneByName[s] = Mnemonic(i)
	}
}

// lookupMnemonic finds the mnemonic matching name (case-sensitive, upper
// case), returning MneInvalid if none matches. Lookup is a binary search
// over a sorted name table, as in the disassembler's mnemonic strings.
func lookupMnemonic(name string) Mnemonic {
	i := sort.SearchStrings(mneNames, name)
	if i < len(mneNames) && mneNames[i] == name {
		return mneByName[name]
	}
	return MneInvalid
}

// LookupMnemonic finds the mnemonic named by name, matched
// case-insensitively (the textual assembler accepts "ld" and "LD"
// alike), returning MneInvalid if none matches.
func LookupMnemonic(name string) Mnemonic {
	return lookupMnemonic(strings.ToUpper(name))
}

// Token identifies the kind of an Operand: a register, register pair,
// branch condition, or immediate value.
type Token uint8

// Token values. TokInvalid is the zero value: it marks an Operand slot
// that was never assigned, and Instruction.Format stops printing operands
// at the first one it finds. TokUndefined is different: it marks an
// operand slot that genuinely exists but whose value the hardware leaves
// unspecified (e.g. the register half of an undocumented "IN (C)"), and
// is printed as "?" rather than ending the operand list. TokImmediate
// marks a numeric literal, character, or label reference carried in
// Value.
const (
	TokInvalid Token = iota
	TokUndefined
	TokA
	TokAF
	TokB
	TokBC
	TokC
	TokD
	TokDE
	TokE
	TokH
	TokHL
	TokI
	TokIX
	TokIXH
	TokIXL
	TokIY
	TokIYH
	TokIYL
	TokL
	TokM
	TokNC
	TokNZ
	TokP
	TokPE
	TokPO
	TokR
	TokSP
	TokZ
	TokImmediate
)

var tokStr = [...]string{
	TokUndefined: "?", TokA: "A", TokAF: "AF", TokB: "B", TokBC: "BC",
	TokC: "C", TokD: "D", TokDE: "DE", TokE: "E", TokH: "H", TokHL: "HL",
	TokI: "I", TokIX: "IX", TokIXH: "IXH", TokIXL: "IXL", TokIY: "IY",
	TokIYH: "IYH", TokIYL: "IYL", TokL: "L", TokM: "M", TokNC: "NC",
	TokNZ: "NZ", TokP: "P", TokPE: "PE", TokPO: "PO", TokR: "R",
	TokSP: "SP", TokZ: "Z",
}

// isRegLike reports whether t is TokUndefined or a real register/pair/
// condition token, i.e. whether it belongs to the contiguous block that
// print_operand in the original treats as "< TOK_INVALID".
func (t Token) isRegLike() bool {
	return t >= TokUndefined && t <= TokZ
}

// String returns the token's register/pair/condition name, "?" for
// TokUndefined or TokInvalid, and "#" for TokImmediate (callers normally
// format TokImmediate operands themselves, using Operand.Value).
func (t Token) String() string {
	if t.isRegLike() {
		return tokStr[t]
	}
	if t == TokImmediate {
		return "#"
	}
	return "?"
}

var tokNames []string
var tokByName map[string]Token

func init() {
	tokByName = make(map[string]Token)
	for i, s := range tokStr {
		if i == int(TokUndefined) {
			continue
		}
		tokNames = append(tokNames, s)
		tokByName[s] = Token(i)
	}
	sort.Strings(tokNames)
}

// lookupToken finds the token matching name (case-sensitive, upper case),
// returning TokInvalid if none matches.
func lookupToken(name string) Token {
	i := sort.SearchStrings(tokNames, name)
	if i < len(tokNames) && tokNames[i] == name {
		return tokByName[name]
	}
	return TokInvalid
}

// LookupToken finds the token named by name, matched case-insensitively,
// returning TokInvalid if none matches.
func LookupToken(name string) Token {
	return lookupToken(strings.ToUpper(name))
}

// tokenToPrefix returns the IX/IY prefix byte implied by an index register
// token, or 0 if tok is not an index register.
func tokenToPrefix(tok Token) byte {
	switch tok {
	case TokIX, TokIXH, TokIXL:
		return PrefixIX
	case TokIY, TokIYH, TokIYL:
		return PrefixIY
	default:
		return 0
	}
}

// Reg identifies one of the eight 3-bit register field encodings used
// throughout the base opcode map. RegM stands for the "(HL)" slot, which
// becomes "(IX+d)"/"(IY+d)" when index-prefixed.
type Reg uint8

const (
	RegB Reg = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegM
	RegA
	RegInvalid
)

var regTok = [...]Token{RegB: TokB, RegC: TokC, RegD: TokD, RegE: TokE, RegH: TokH, RegL: TokL, RegM: TokHL, RegA: TokA}
var regTokIX = [...]Token{RegB: TokB, RegC: TokC, RegD: TokD, RegE: TokE, RegH: TokIXH, RegL: TokIXL, RegM: TokIX, RegA: TokA}
var regTokIY = [...]Token{RegB: TokB, RegC: TokC, RegD: TokD, RegE: TokE, RegH: TokIYH, RegL: TokIYL, RegM: TokIY, RegA: TokA}

// tokenToReg returns the register field encoding for tok under the given
// prefix (0, PrefixIX, or PrefixIY), or RegInvalid if tok is not a plain
// register token under that prefix. TokHL (TokIX/TokIY under a prefix)
// maps to RegM, the "(HL)" slot; a Token carries no indirection, so
// callers test for it separately.
func tokenToReg(tok Token, prefix byte) Reg {
	table := &regTok
	switch prefix {
	case PrefixIX:
		table = &regTokIX
	case PrefixIY:
		table = &regTokIY
	}
	for i, t := range table {
		if t == tok {
			return Reg(i)
		}
	}
	return RegInvalid
}

// regToToken translates reg to its display token under the given prefix
// (0, PrefixIX, or PrefixIY). Reg RegM maps to a bare TokHL/TokIX/TokIY;
// callers needing the indirect form add FlagIndirect themselves, since
// (IX+d)/(IY+d) additionally carries a displacement value.
func regToToken(reg Reg, prefix byte) Token {
	switch prefix {
	case PrefixIX:
		if reg == RegH {
			return TokIXH
		}
		if reg == RegL {
			return TokIXL
		}
	case PrefixIY:
		if reg == RegH {
			return TokIYH
		}
		if reg == RegL {
			return TokIYL
		}
	}
	return regTok[reg]
}

// regOperand builds the Operand for a plain (unprefixed, or H/L-under-
// prefix) register field: unlike regToToken alone, it sets FlagIndirect
// when reg is RegM, since the original's packed token scheme bakes "(HL)"
// indirection into the token itself (TOK_HL_IND) where this split
// Token/Flags design needs it set explicitly. Callers must route the
// prefixed (IX+d)/(IY+d) case through readIndexInd instead; this helper
// is only for a register field that resolves to a plain register or to
// bare "(HL)".
func regOperand(reg Reg, prefix byte) Operand {
	op := Operand{Token: regToToken(reg, prefix)}
	if reg == RegM {
		op.Flags |= FlagIndirect
	}
	return op
}

// Pair identifies one of the four 2-bit register pair field encodings.
type Pair uint8

const (
	PairBC Pair = iota
	PairDE
	PairHL
	PairSP
	PairInvalid
)

var pairTok = [...]Token{PairBC: TokBC, PairDE: TokDE, PairHL: TokHL, PairSP: TokSP}

// tokenToPair returns the pair field encoding for tok, accounting for an
// index prefix (HL reads as IX/IY instead) and, when useAF is set, for SP
// reading as AF (as in PUSH/POP and EX AF,AF').
func tokenToPair(tok Token, prefix byte, useAF bool) Pair {
	switch prefix {
	case PrefixIX:
		if tok == TokIX {
			return PairHL
		}
		if tok == TokHL {
			return PairInvalid
		}
	case PrefixIY:
		if tok == TokIY {
			return PairHL
		}
		if tok == TokHL {
			return PairInvalid
		}
	}
	if useAF {
		if tok == TokAF {
			return PairSP
		}
		if tok == TokSP {
			return PairInvalid
		}
	}
	for i, t := range pairTok {
		if t == tok {
			return Pair(i)
		}
	}
	return PairInvalid
}

// pairToToken translates pair to its display token, substituting IX/IY for
// HL when prefixed and AF for SP when useAF is set.
func pairToToken(pair Pair, prefix byte, useAF bool) Token {
	if prefix != 0 && pair == PairHL {
		if prefix == PrefixIX {
			return TokIX
		}
		return TokIY
	}
	if useAF && pair == PairSP {
		return TokAF
	}
	return pairTok[pair]
}

// Cond identifies one of the eight 3-bit branch condition encodings.
type Cond uint8

const (
	CondNZ Cond = iota
	CondZ
	CondNC
	CondC
	CondPO
	CondPE
	CondP
	CondM
	CondInvalid
)

var condTok = [...]Token{CondNZ: TokNZ, CondZ: TokZ, CondNC: TokNC, CondC: TokC, CondPO: TokPO, CondPE: TokPE, CondP: TokP, CondM: TokM}

func tokenToCond(tok Token) Cond {
	for i, t := range condTok {
		if t == tok {
			return Cond(i)
		}
	}
	return CondInvalid
}

func condToToken(cond Cond) Token {
	return condTok[cond]
}

// Alu identifies one of the eight 3-bit arithmetic/logic unit operations
// selected by the x=2 "op A,r" row and the ED "op HL,rr" forms.
type Alu uint8

const (
	AluAdd Alu = iota
	AluAdc
	AluSub
	AluSbc
	AluAnd
	AluXor
	AluOr
	AluCp
)

var aluMne = [...]Mnemonic{AluAdd: MneAdd, AluAdc: MneAdc, AluSub: MneSub, AluSbc: MneSbc, AluAnd: MneAnd, AluXor: MneXor, AluOr: MneOr, AluCp: MneCp}

// Rot identifies one of the eight CB-prefix rotate/shift operations
// (x=0 row of the CB table).
type Rot uint8

const (
	RotRLC Rot = iota
	RotRRC
	RotRL
	RotRR
	RotSLA
	RotSRA
	RotSL1
	RotSRL
)

var rotMne = [...]Mnemonic{RotRLC: MneRlc, RotRRC: MneRrc, RotRL: MneRl, RotRR: MneRr, RotSLA: MneSla, RotSRA: MneSra, RotSL1: MneSl1, RotSRL: MneSrl}

// miscMne maps the x=0,z=7 "misc" row of the base table, indexed by y.
var miscMne = [...]Mnemonic{MneRlca, MneRrca, MneRla, MneRra, MneDaa, MneCpl, MneScf, MneCcf}
