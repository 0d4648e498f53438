package encoder

import (
	"strconv"
	"strings"

	"github.com/zx16-tools/zx16asm/isa"
	"github.com/zx16-tools/zx16asm/parser"
)

// encodeDirective is Stage 4's directive handling: writes the bytes a
// data/layout directive contributes, or repositions the location counter
// for .org/.text/.data/.bss. The .org range is unified across both passes
// ([0, isa.MMIOBase), even addresses only, below isa.CodeStart routes to
// .inter) rather than carrying the first pass's original stricter bound.
func (e *Encoder) encodeDirective(head parser.Token, operands []parser.Token) {
	switch head.Value {
	case ".text":
		e.section = parser.SectionText
	case ".data":
		e.section = parser.SectionData
	case ".bss":
		e.section = parser.SectionBss
	case ".org":
		if !e.requireSection(head, parser.SectionText, parser.SectionInter) {
			return
		}
		e.encodeOrg(head, operands)
	case ".byte":
		if !e.requireSection(head, parser.SectionData, parser.SectionBss) {
			return
		}
		e.encodeList(head, operands, 1)
	case ".word":
		if !e.requireSection(head, parser.SectionData, parser.SectionBss) {
			return
		}
		e.encodeList(head, operands, 2)
	case ".string", ".ascii":
		if !e.requireSection(head, parser.SectionData, parser.SectionBss) {
			return
		}
		e.encodeString(head, operands)
	case ".space", ".skip":
		if !e.requireSection(head, parser.SectionData, parser.SectionBss) {
			return
		}
		e.encodeSpace(head, operands)
	case ".fill":
		if !e.requireSection(head, parser.SectionData, parser.SectionBss) {
			return
		}
		e.encodeFill(head, operands)
	default:
		e.errors.AddError(head.Pos, parser.ErrorInvalidDirective, "unknown directive \""+head.Value+"\"")
	}
}

// requireSection reports whether the encoder's current section is one of
// allowed, recording an ErrorSection diagnostic if not. Mirrors the first
// pass's own guard so a wrong-section directive can't silently write into
// the wrong section's memory even when layout sizing already caught it.
func (e *Encoder) requireSection(head parser.Token, allowed ...parser.Section) bool {
	for _, s := range allowed {
		if e.section == s {
			return true
		}
	}
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	e.errors.AddError(head.Pos, parser.ErrorSection,
		head.Value+" directive can only be used in "+strings.Join(names, " or ")+", not in "+string(e.section))
	return false
}

func (e *Encoder) encodeOrg(head parser.Token, operands []parser.Token) {
	if len(operands) == 0 || operands[0].Type != parser.TokenImmediate {
		e.errors.AddError(head.Pos, parser.ErrorSyntax, "expected address after .org")
		return
	}
	addr, err := strconv.Atoi(operands[0].Value)
	if err != nil {
		e.errors.AddError(operands[0].Pos, parser.ErrorSyntax, "invalid .org address")
		return
	}
	if addr < 0 || addr >= isa.MMIOBase || addr%2 != 0 {
		e.errors.AddError(operands[0].Pos, parser.ErrorOutOfRange, ".org address out of range or not even")
		return
	}
	if addr < isa.CodeStart {
		e.section = parser.SectionInter
	} else {
		e.section = parser.SectionText
	}
	e.pointers[e.section] = addr
}

// encodeList writes width bytes per comma-separated operand. Each operand
// is read from its own token in the loop, fixing the original's bug of
// re-reading a single stale token on every iteration of a multi-operand
// .word list.
func (e *Encoder) encodeList(head parser.Token, operands []parser.Token, width int) {
	for _, t := range operands {
		if t.Type != parser.TokenImmediate && t.Type != parser.TokenCharacter {
			continue // punctuation (commas) interleaved between operands
		}
		v, err := strconv.Atoi(t.Value)
		if err != nil {
			e.errors.AddError(t.Pos, parser.ErrorSyntax, "invalid "+head.Value+" operand")
			continue
		}
		e.writeMemory(v, width)
	}
}

func (e *Encoder) encodeString(head parser.Token, operands []parser.Token) {
	if len(operands) == 0 || operands[0].Type != parser.TokenString {
		e.errors.AddError(head.Pos, parser.ErrorSyntax, "expected string after "+head.Value)
		return
	}
	s := operands[0].Value
	for i := 0; i < len(s); i++ {
		e.writeMemory(int(s[i]), 1)
	}
	if head.Value == ".string" {
		e.writeMemory(0, 1)
	}
}

func (e *Encoder) encodeSpace(head parser.Token, operands []parser.Token) {
	if len(operands) == 0 || operands[0].Type != parser.TokenImmediate {
		e.errors.AddError(head.Pos, parser.ErrorSyntax, "expected size after "+head.Value)
		return
	}
	n, err := strconv.Atoi(operands[0].Value)
	if err != nil {
		e.errors.AddError(operands[0].Pos, parser.ErrorSyntax, "invalid "+head.Value+" size")
		return
	}
	for i := 0; i < n; i++ {
		e.writeMemory(0, 1)
	}
}

func (e *Encoder) encodeFill(head parser.Token, operands []parser.Token) {
	var nums []int
	for _, t := range operands {
		if t.Type != parser.TokenImmediate {
			continue
		}
		v, err := strconv.Atoi(t.Value)
		if err != nil {
			e.errors.AddError(t.Pos, parser.ErrorSyntax, "invalid .fill operand")
			return
		}
		nums = append(nums, v)
	}
	if len(nums) != 3 {
		e.errors.AddError(head.Pos, parser.ErrorSyntax, ".fill expects count, size, value")
		return
	}
	count, size, value := nums[0], nums[1], nums[2]
	if size != 1 && size != 2 {
		e.errors.AddError(head.Pos, parser.ErrorOutOfRange, ".fill size must be 1 or 2")
		return
	}
	if count*size > isa.MemSize {
		e.errors.AddError(head.Pos, parser.ErrorOutOfRange, ".fill count*size too large")
		return
	}
	for i := 0; i < count; i++ {
		e.writeMemory(value, size)
	}
}
