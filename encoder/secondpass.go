// Package encoder implements ZX16's second pass: symbol resolution,
// pseudo-instruction expansion, and bit-exact encoding of every
// instruction and directive into a flat memory image, driven entirely by
// the isa.Table instruction table.
package encoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zx16-tools/zx16asm/isa"
	"github.com/zx16-tools/zx16asm/parser"
)

// Encoder owns the second pass over a first-pass Program: it reseeds
// section pointers to absolute addresses from the program's memory
// layout, then resolves, expands and encodes every line into Memory.
type Encoder struct {
	program *parser.Program
	errors  *parser.ErrorList

	pointers map[parser.Section]int
	section  parser.Section
	maxAddr  int

	Memory []byte
}

// HighWaterMark returns one past the highest address written, i.e. the
// natural [0, n) range to emit in any output format.
func (e *Encoder) HighWaterMark() int {
	return e.maxAddr
}

// NewEncoder creates an Encoder for a completed first-pass Program.
func NewEncoder(program *parser.Program) *Encoder {
	e := &Encoder{
		program: program,
		errors:  &parser.ErrorList{},
		Memory:  make([]byte, isa.MemSize),
		section: parser.SectionText,
	}
	e.pointers = map[parser.Section]int{
		parser.SectionInter: program.Layout[parser.SectionInter],
		parser.SectionText:  program.Layout[parser.SectionText],
		parser.SectionData:  program.Layout[parser.SectionData],
		parser.SectionBss:   program.Layout[parser.SectionBss],
	}
	return e
}

// Errors returns the ErrorList accumulated during encoding.
func (e *Encoder) Errors() *parser.ErrorList {
	return e.errors
}

// Encode runs every stage of the second pass and returns the assembled
// 64 KiB memory image.
func (e *Encoder) Encode() ([]byte, *parser.ErrorList) {
	tokens := e.resolveSymbols(e.program.Tokens)
	lines := lineify(tokens)

	for _, line := range lines {
		e.encodeLine(line)
	}
	return e.Memory, e.errors
}

// resolveSymbols is Stage 1: every IDENTIFIER token that does not name a
// real or pseudo mnemonic is a symbol reference and is replaced in place
// by its resolved value, retyped to IMMEDIATE. Const symbols resolve to
// their literal value; label symbols resolve to an absolute address and
// are marked WasLabel so Stage 4 can recognize a PC-relative operand.
// IMMEDIATE tokens written as 0x/0b literals are rewritten to decimal here,
// so every later stage reads immediates with strconv.Atoi.
func (e *Encoder) resolveSymbols(in []parser.Token) []parser.Token {
	out := make([]parser.Token, len(in))
	copy(out, in)

	atLineStart := true
	for i, t := range out {
		if t.Type == parser.TokenNewline {
			atLineStart = true
			continue
		}
		if t.Type == parser.TokenImmediate {
			digits := strings.TrimPrefix(t.Value, "-")
			if len(digits) > 2 && digits[0] == '0' && strings.ContainsRune("xXbB", rune(digits[1])) {
				if n, err := strconv.ParseInt(t.Value, 0, 64); err == nil {
					out[i].Value = strconv.FormatInt(n, 10)
				}
			}
		}
		if t.Type != parser.TokenIdentifier {
			atLineStart = false
			continue
		}
		mnemonic := strings.ToLower(t.Value)
		if atLineStart && (isa.IsReal(mnemonic) || isa.IsPseudo(mnemonic)) {
			atLineStart = false
			continue
		}
		atLineStart = false

		sym, err := e.program.Symbols.Get(t.Value)
		if err != nil {
			e.errors.AddError(t.Pos, parser.ErrorUndefinedSymbol, err.Error())
			out[i] = parser.Token{Type: parser.TokenImmediate, Value: "0", Pos: t.Pos}
			continue
		}
		if sym.Section == parser.SectionConst {
			out[i] = parser.Token{Type: parser.TokenImmediate, Value: strconv.Itoa(sym.Value), Pos: t.Pos}
			continue
		}
		abs := sym.Value + e.program.Layout[sym.Section]
		out[i] = parser.Token{Type: parser.TokenImmediate, Value: strconv.Itoa(abs), Pos: t.Pos, WasLabel: true}
	}
	return out
}

// lineify is Stage 2: groups a flat token stream into per-line slices,
// dropping NEWLINE separators and any empty lines.
func lineify(tokens []parser.Token) [][]parser.Token {
	var lines [][]parser.Token
	var cur []parser.Token
	for _, t := range tokens {
		if t.Type == parser.TokenNewline || t.Type == parser.TokenEOF {
			if len(cur) > 0 {
				lines = append(lines, cur)
				cur = nil
			}
			if t.Type == parser.TokenEOF {
				break
			}
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// encodeLine dispatches a single line: a leading LABEL token is skipped
// (already recorded in the symbol table by the first pass), a leading
// DIRECTIVE is handled by encodeDirective, and a leading mnemonic is
// expanded (Stage 3, if pseudo) then encoded (Stage 4, if real).
func (e *Encoder) encodeLine(line []parser.Token) {
	for len(line) > 0 && line[0].Type == parser.TokenLabel {
		line = line[1:]
	}
	if len(line) == 0 {
		return
	}

	head := line[0]
	switch head.Type {
	case parser.TokenDirective:
		e.encodeDirective(head, line[1:])
	case parser.TokenIdentifier:
		mnemonic := strings.ToLower(head.Value)
		operands := line[1:]
		if isa.IsPseudo(mnemonic) {
			for _, expanded := range e.expandPseudo(mnemonic, operands, head.Pos) {
				e.encodeInstruction(expanded.mnemonic, expanded.operands, expanded.pos)
			}
			return
		}
		e.encodeInstruction(mnemonic, operands, head.Pos)
	default:
		e.errors.AddError(head.Pos, parser.ErrorSyntax, "expected instruction or directive")
	}
}

// encodeInstruction is Stage 4's central algorithm: lay down every
// Constant field's bits unconditionally, then walk the remaining fields in
// order against the operand token stream, consuming Punctuation, Operand
// and Immediate tokens and placing their bits.
func (e *Encoder) encodeInstruction(mnemonic string, operands []parser.Token, pos parser.Position) {
	fields, ok := isa.Table[mnemonic]
	if !ok {
		e.errors.AddError(pos, parser.ErrorInvalidInstruction, "unknown mnemonic \""+mnemonic+"\"")
		return
	}

	addr := e.pointers[e.section]
	word := 0
	for _, f := range fields {
		if c, ok := f.(isa.Constant); ok {
			bits, _ := strconv.ParseInt(c.Bits, 2, 64)
			word |= int(bits) << uint(c.Lo)
		}
	}

	idx := 0
	next := func() (parser.Token, bool) {
		if idx >= len(operands) {
			return parser.Token{}, false
		}
		t := operands[idx]
		idx++
		return t, true
	}

	for _, f := range fields {
		switch v := f.(type) {
		case isa.Constant:
			// already applied above
		case isa.Punctuation:
			t, ok := next()
			if !ok || !matchesPunctuation(t, v.Expected) {
				e.errors.AddError(pos, parser.ErrorSyntax, mnemonic+": expected punctuation")
				return
			}
		case isa.Operand:
			t, ok := next()
			if !ok || t.Type != parser.TokenRegister {
				e.errors.AddError(pos, parser.ErrorInvalidOperand, mnemonic+": expected register operand")
				return
			}
			n, err := parseRegister(t.Value)
			if err != nil {
				e.errors.AddError(t.Pos, parser.ErrorInvalidOperand, err.Error())
				return
			}
			word |= n << uint(v.Lo)
		case isa.Immediate:
			t, ok := next()
			if !ok || (t.Type != parser.TokenImmediate && t.Type != parser.TokenCharacter) {
				e.errors.AddError(pos, parser.ErrorInvalidOperand, mnemonic+": expected immediate operand")
				return
			}
			imm, err := strconv.Atoi(t.Value)
			if err != nil {
				e.errors.AddError(t.Pos, parser.ErrorSyntax, "invalid immediate \""+t.Value+"\"")
				return
			}
			if t.WasLabel && isa.BranchMnemonics[mnemonic] {
				imm = (imm - addr) / 2
			}
			if imm < v.Min || imm > v.Max {
				kind := "immediate"
				if t.WasLabel {
					kind = "label"
				}
				e.errors.AddError(t.Pos, parser.ErrorOutOfRange, fmt.Sprintf("%s: %s %d out of range [%d,%d]", mnemonic, kind, imm, v.Min, v.Max))
				return
			}
			placeImmediate(&word, v, imm)
		}
	}

	e.writeMemory(word, 2)
}

func matchesPunctuation(t parser.Token, expected isa.Kind) bool {
	switch expected {
	case isa.KindComma:
		return t.Type == parser.TokenComma
	case isa.KindLParen:
		return t.Type == parser.TokenLParen
	case isa.KindRParen:
		return t.Type == parser.TokenRParen
	}
	return false
}

func parseRegister(value string) (int, error) {
	value = strings.ToLower(value)
	if len(value) != 2 || value[0] != 'x' || value[1] < '0' || value[1] > '7' {
		return 0, fmt.Errorf("invalid register %q", value)
	}
	return int(value[1] - '0'), nil
}

// placeImmediate writes imm's bits into word according to a (possibly
// split) Immediate field's allocations.
func placeImmediate(word *int, v isa.Immediate, imm int) {
	canon := isa.Encode(imm, v.Width)
	if v.Allocations != nil {
		for _, a := range v.Allocations {
			width := a.ImmHi - a.ImmLo + 1
			mask := (1 << width) - 1
			piece := (canon >> uint(a.ImmLo)) & mask
			*word |= piece << uint(a.MemLo)
		}
		return
	}
	mask := (1 << v.Width) - 1
	*word |= (canon & mask) << uint(v.Lo)
}

// writeMemory writes value as a size-byte little-endian quantity at the
// current section's pointer, then advances it.
func (e *Encoder) writeMemory(value, size int) {
	addr := e.pointers[e.section]
	for i := 0; i < size; i++ {
		if addr+i >= len(e.Memory) {
			e.errors.AddError(parser.Position{}, parser.ErrorOutOfRange, "write past end of memory")
			return
		}
		e.Memory[addr+i] = byte((value >> uint(8*i)) & 0xFF)
	}
	e.pointers[e.section] += size
	if addr+size > e.maxAddr {
		e.maxAddr = addr + size
	}
}
