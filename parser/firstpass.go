package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/zx16-tools/zx16asm/isa"
)

var errSyntax = errors.New("syntax error")

// Program is the result of a completed first pass: the token stream (with
// every .equ/.set directive already consumed and deleted), the symbol
// table built across both sweeps, and the final absolute memory layout.
type Program struct {
	Tokens  []Token
	Symbols *SymbolTable
	Layout  map[Section]int
}

// Parser performs first-pass assembly: Sweep A resolves .equ/.set
// constants, Sweep B sizes every label, instruction, pseudo-instruction and
// directive against its section's running location counter.
type Parser struct {
	tokens  []Token
	pos     int
	errors  *ErrorList
	symbols *SymbolTable

	section  Section
	pointers map[Section]int // section-relative location counters
}

// NewParser creates a Parser over a complete token stream (as produced by
// Lexer.TokenizeAll, concatenated across every source file).
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens:  tokens,
		errors:  &ErrorList{},
		symbols: NewSymbolTable(),
		section: SectionText,
		pointers: map[Section]int{
			SectionInter: 0,
			SectionText:  0,
			SectionData:  0,
			SectionBss:   0,
		},
	}
}

// Errors returns the ErrorList accumulated during parsing.
func (p *Parser) Errors() *ErrorList {
	return p.errors
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	t := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) skipToNewline() {
	for p.current().Type != TokenNewline && p.current().Type != TokenEOF {
		p.advance()
	}
	if p.current().Type == TokenNewline {
		p.advance()
	}
}

// Parse runs both sweeps and computes the final memory layout.
func (p *Parser) Parse() (*Program, *ErrorList) {
	p.sweepA()
	p.pos = 0
	for k := range p.pointers {
		p.pointers[k] = 0
	}
	p.section = SectionText
	p.sweepB()
	layout := p.computeLayout()

	return &Program{Tokens: p.tokens, Symbols: p.symbols, Layout: layout}, p.errors
}

// sweepA scans for .equ/.set constant definitions and deletes their tokens
// from the stream once defined, so Sweep B and the second pass never see
// them.
func (p *Parser) sweepA() {
	out := p.tokens[:0:0]
	for p.pos < len(p.tokens) {
		t := p.current()
		if t.Type == TokenDirective && (t.Value == ".equ" || t.Value == ".set") {
			p.advance()
			p.parseConstant()
			continue
		}
		out = append(out, p.advance())
	}
	p.tokens = out
	p.pos = 0
}

// parseConstant consumes "IDENTIFIER , (IMMEDIATE|CHARACTER)" and defines a
// const symbol; the directive keyword itself has already been consumed.
func (p *Parser) parseConstant() {
	name := p.current()
	if name.Type != TokenIdentifier {
		p.errors.AddError(name.Pos, ErrorSyntax, "expected identifier after .equ/.set")
		p.skipToNewline()
		return
	}
	p.advance()

	comma := p.current()
	if comma.Type != TokenComma {
		p.errors.AddError(comma.Pos, ErrorSyntax, "expected ',' in .equ/.set")
		p.skipToNewline()
		return
	}
	p.advance()

	val := p.current()
	if val.Type != TokenImmediate && val.Type != TokenCharacter {
		p.errors.AddError(val.Pos, ErrorSyntax, "expected immediate value in .equ/.set")
		p.skipToNewline()
		return
	}
	p.advance()

	n, err := parseImmediateLiteral(val.Value)
	if err != nil {
		p.errors.AddError(val.Pos, ErrorSyntax, err.Error())
		p.skipToNewline()
		return
	}
	if err := p.symbols.Define(name.Value, n, SectionConst, name.Pos.Line); err != nil {
		p.errors.AddError(name.Pos, ErrorDuplicateSymbol, err.Error())
	}
	p.skipToNewline()
}

// sweepB walks the remaining token stream (labels, instructions, pseudo
// instructions, directives) sizing each against its section's location
// counter.
func (p *Parser) sweepB() {
	for p.current().Type != TokenEOF {
		t := p.current()
		switch t.Type {
		case TokenNewline:
			p.advance()
		case TokenLabel:
			p.advance()
			if err := p.symbols.Define(t.Value, p.pointers[p.section], p.section, t.Pos.Line); err != nil {
				p.errors.AddError(t.Pos, ErrorDuplicateSymbol, err.Error())
			}
		case TokenDirective:
			p.advance()
			p.sizeDirective(t)
		case TokenIdentifier:
			p.advance()
			p.sizeMnemonic(t)
		case TokenCharacter:
			// a character literal that starts a line (instruction and
			// directive operands are consumed by sizeMnemonic and
			// sizeDirective); retype it in place as a number.
			p.tokens[p.pos].Type = TokenImmediate
			p.advance()
		default:
			p.advance()
		}
	}
}

func (p *Parser) sizeMnemonic(t Token) {
	mnemonic := strings.ToLower(t.Value)
	switch {
	case isa.IsReal(mnemonic):
		p.pointerAdvance(2)
	case isa.IsPseudo(mnemonic):
		p.pointerAdvance(isa.PseudoSizes[mnemonic])
	default:
		p.errors.AddError(t.Pos, ErrorInvalidInstruction, "unknown mnemonic \""+t.Value+"\"")
	}
	p.skipToNewline()
}

func (p *Parser) pointerAdvance(size int) {
	p.pointers[p.section] += size
}

func (p *Parser) sizeDirective(t Token) {
	switch t.Value {
	case ".text":
		p.section = SectionText
		p.skipToNewline()
	case ".data":
		p.section = SectionData
		p.skipToNewline()
	case ".bss":
		p.section = SectionBss
		p.skipToNewline()
	case ".org":
		if !p.requireSection(t, SectionText, SectionInter) {
			return
		}
		p.sizeOrg(t)
	case ".byte":
		if !p.requireSection(t, SectionData, SectionBss) {
			return
		}
		p.sizeList(t, 1, 0, 255)
	case ".word":
		if !p.requireSection(t, SectionData, SectionBss) {
			return
		}
		p.sizeList(t, 2, 0, 65535)
	case ".string", ".ascii":
		if !p.requireSection(t, SectionData, SectionBss) {
			return
		}
		p.sizeString(t)
	case ".space", ".skip":
		if !p.requireSection(t, SectionData, SectionBss) {
			return
		}
		p.sizeSpace(t)
	case ".fill":
		if !p.requireSection(t, SectionData, SectionBss) {
			return
		}
		p.sizeFill(t)
	default:
		p.errors.AddError(t.Pos, ErrorInvalidDirective, "unknown directive \""+t.Value+"\"")
		p.skipToNewline()
	}
}

// requireSection reports whether the current section is one of allowed,
// recording an ErrorSection diagnostic and skipping the line if not.
func (p *Parser) requireSection(t Token, allowed ...Section) bool {
	for _, s := range allowed {
		if p.section == s {
			return true
		}
	}
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	p.errors.AddError(t.Pos, ErrorSection,
		t.Value+" directive can only be used in "+strings.Join(names, " or ")+", not in "+string(p.section))
	p.skipToNewline()
	return false
}

// sizeOrg repositions the location counter. Per the unified .org range
// (replacing the original's two inconsistent bounds, one per pass), any
// even address in [0, isa.MMIOBase) is accepted; addresses below
// isa.CodeStart target .inter, the rest target .text.
func (p *Parser) sizeOrg(t Token) {
	val := p.current()
	if val.Type != TokenImmediate {
		p.errors.AddError(val.Pos, ErrorSyntax, "expected address after .org")
		p.skipToNewline()
		return
	}
	p.advance()
	addr, err := parseImmediateLiteral(val.Value)
	if err != nil {
		p.errors.AddError(val.Pos, ErrorSyntax, err.Error())
		p.skipToNewline()
		return
	}
	if addr < 0 || addr >= isa.MMIOBase || addr%2 != 0 {
		p.errors.AddError(val.Pos, ErrorOutOfRange, ".org address out of range or not even")
		p.skipToNewline()
		return
	}
	if addr < isa.CodeStart {
		p.section = SectionInter
		p.pointers[SectionInter] = addr
	} else {
		p.section = SectionText
		p.pointers[SectionText] = addr - isa.CodeStart
	}
	p.skipToNewline()
}

func (p *Parser) sizeList(t Token, width, lo, hi int) {
	count := 0
	for {
		val := p.current()
		if val.Type != TokenImmediate && val.Type != TokenCharacter {
			p.errors.AddError(val.Pos, ErrorSyntax, "expected value in "+t.Value)
			break
		}
		p.advance()
		n, err := parseImmediateLiteral(val.Value)
		if err != nil {
			p.errors.AddError(val.Pos, ErrorSyntax, err.Error())
		} else if n < lo || n > hi {
			p.errors.AddError(val.Pos, ErrorOutOfRange, t.Value+" operand out of range")
		}
		count++
		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	p.pointerAdvance(count * width)
	p.skipToNewline()
}

func (p *Parser) sizeString(t Token) {
	val := p.current()
	if val.Type != TokenString {
		p.errors.AddError(val.Pos, ErrorSyntax, "expected string after "+t.Value)
		p.skipToNewline()
		return
	}
	p.advance()
	n := len(val.Value)
	if t.Value == ".string" {
		n++
	}
	p.pointerAdvance(n)
	p.skipToNewline()
}

func (p *Parser) sizeSpace(t Token) {
	val := p.current()
	if val.Type != TokenImmediate {
		p.errors.AddError(val.Pos, ErrorSyntax, "expected size after "+t.Value)
		p.skipToNewline()
		return
	}
	p.advance()
	n, err := parseImmediateLiteral(val.Value)
	if err != nil {
		p.errors.AddError(val.Pos, ErrorSyntax, err.Error())
	} else {
		p.pointerAdvance(n)
	}
	p.skipToNewline()
}

func (p *Parser) sizeFill(t Token) {
	count, countErr := p.consumeImmediateArg(t, ".fill count")
	p.expectComma(t)
	size, sizeErr := p.consumeImmediateArg(t, ".fill size")
	p.expectComma(t)
	_, valErr := p.consumeImmediateArg(t, ".fill value")
	if countErr == nil && sizeErr == nil && valErr == nil {
		if size != 1 && size != 2 {
			p.errors.AddError(t.Pos, ErrorOutOfRange, ".fill size must be 1 or 2")
		} else if count*size > isa.MemSize {
			p.errors.AddError(t.Pos, ErrorOutOfRange, ".fill count*size too large")
		} else {
			p.pointerAdvance(count * size)
		}
	}
	p.skipToNewline()
}

func (p *Parser) consumeImmediateArg(t Token, what string) (int, error) {
	val := p.current()
	if val.Type != TokenImmediate {
		p.errors.AddError(val.Pos, ErrorSyntax, "expected "+what)
		return 0, errSyntax
	}
	p.advance()
	n, err := parseImmediateLiteral(val.Value)
	if err != nil {
		p.errors.AddError(val.Pos, ErrorSyntax, err.Error())
		return 0, err
	}
	return n, nil
}

func (p *Parser) expectComma(t Token) {
	if p.current().Type == TokenComma {
		p.advance()
		return
	}
	p.errors.AddError(p.current().Pos, ErrorSyntax, "expected ',' in "+t.Value)
}

// computeLayout derives the absolute base address of every section from
// the final section-relative sizes Sweep B accumulated.
func (p *Parser) computeLayout() map[Section]int {
	textSize := p.pointers[SectionText]
	dataSize := p.pointers[SectionData]

	layout := map[Section]int{
		SectionInter: isa.IntVectors,
		SectionText:  isa.CodeStart,
	}
	layout[SectionData] = isa.CodeStart + textSize
	layout[SectionBss] = layout[SectionData] + dataSize
	return layout
}

// parseImmediateLiteral parses a lexed immediate token value (0x/0b/decimal,
// optionally negative) into a signed int.
func parseImmediateLiteral(s string) (int, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var n int64
	var err error
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		n, err = strconv.ParseInt(s[2:], 16, 64)
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		n, err = strconv.ParseInt(s[2:], 2, 64)
	default:
		n, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, err
	}
	if neg {
		n = -n
	}
	return int(n), nil
}
