package encoder

import (
	"strconv"

	"github.com/zx16-tools/zx16asm/parser"
)

// expandedInstr is one real instruction produced by expanding a pseudo
// instruction: a mnemonic plus the operand tokens encodeInstruction
// expects.
type expandedInstr struct {
	mnemonic string
	operands []parser.Token
	pos      parser.Position
}

func imm(n int, pos parser.Position) parser.Token {
	return parser.Token{Type: parser.TokenImmediate, Value: strconv.Itoa(n), Pos: pos}
}

func reg(n int, pos parser.Position) parser.Token {
	return parser.Token{Type: parser.TokenRegister, Value: "x" + strconv.Itoa(n), Pos: pos}
}

func comma(pos parser.Position) parser.Token {
	return parser.Token{Type: parser.TokenComma, Value: ",", Pos: pos}
}

func lparen(pos parser.Position) parser.Token {
	return parser.Token{Type: parser.TokenLParen, Value: "(", Pos: pos}
}

func rparen(pos parser.Position) parser.Token {
	return parser.Token{Type: parser.TokenRParen, Value: ")", Pos: pos}
}

const stackPointer = 2 // x2
const linkRegister = 1 // x1

// expandPseudo is Stage 3: it rewrites one pseudo-instruction line into
// one or more real instruction lines, exactly the expansions ZX16's
// pseudo-instruction set defines. Operand tokens have already passed
// through Stage 1 symbol resolution, so any label/const reference among
// them is already a plain (possibly WasLabel-marked) immediate.
func (e *Encoder) expandPseudo(mnemonic string, operands []parser.Token, pos parser.Position) []expandedInstr {
	switch mnemonic {
	case "li16":
		if len(operands) < 3 {
			e.errors.AddError(pos, parser.ErrorSyntax, "li16 expects rd, value")
			return nil
		}
		rd := operands[0]
		valTok := operands[2]
		value, err := strconv.Atoi(valTok.Value)
		if err != nil {
			e.errors.AddError(valTok.Pos, parser.ErrorSyntax, "invalid li16 value")
			return nil
		}
		hi := imm((value>>7)&0x1FF, pos)
		lo := imm(value&0x7F, pos)
		return []expandedInstr{
			{"lui", []parser.Token{rd, comma(pos), hi}, pos},
			{"ori", []parser.Token{rd, comma(pos), lo}, pos},
		}

	case "la":
		if len(operands) < 3 {
			e.errors.AddError(pos, parser.ErrorSyntax, "la expects rd, label")
			return nil
		}
		rd := operands[0]
		labelTok := operands[2]
		value, err := strconv.Atoi(labelTok.Value)
		if err != nil {
			e.errors.AddError(labelTok.Pos, parser.ErrorSyntax, "invalid la target")
			return nil
		}
		hi := imm((value>>7)&0x1FF, pos)
		lo := imm(value&0x7F, pos)
		return []expandedInstr{
			{"auipc", []parser.Token{rd, comma(pos), hi}, pos},
			{"addi", []parser.Token{rd, comma(pos), lo}, pos},
		}

	case "push":
		if len(operands) < 1 {
			e.errors.AddError(pos, parser.ErrorSyntax, "push expects a register")
			return nil
		}
		rs := operands[0]
		sp := reg(stackPointer, pos)
		return []expandedInstr{
			{"addi", []parser.Token{sp, comma(pos), imm(-2, pos)}, pos},
			{"sw", []parser.Token{rs, comma(pos), imm(0, pos), lparen(pos), reg(stackPointer, pos), rparen(pos)}, pos},
		}

	case "pop":
		if len(operands) < 1 {
			e.errors.AddError(pos, parser.ErrorSyntax, "pop expects a register")
			return nil
		}
		rd := operands[0]
		return []expandedInstr{
			{"lw", []parser.Token{rd, comma(pos), imm(0, pos), lparen(pos), reg(stackPointer, pos), rparen(pos)}, pos},
			{"addi", []parser.Token{reg(stackPointer, pos), comma(pos), imm(2, pos)}, pos},
		}

	case "call":
		if len(operands) < 1 {
			e.errors.AddError(pos, parser.ErrorSyntax, "call expects a target")
			return nil
		}
		target := operands[0]
		return []expandedInstr{
			{"jal", []parser.Token{reg(linkRegister, pos), comma(pos), target}, pos},
		}

	case "ret":
		return []expandedInstr{
			{"jr", []parser.Token{reg(linkRegister, pos)}, pos},
		}

	case "inc":
		if len(operands) < 1 {
			e.errors.AddError(pos, parser.ErrorSyntax, "inc expects a register")
			return nil
		}
		return []expandedInstr{
			{"addi", []parser.Token{operands[0], comma(pos), imm(1, pos)}, pos},
		}

	case "dec":
		if len(operands) < 1 {
			e.errors.AddError(pos, parser.ErrorSyntax, "dec expects a register")
			return nil
		}
		return []expandedInstr{
			{"addi", []parser.Token{operands[0], comma(pos), imm(-1, pos)}, pos},
		}

	case "neg":
		if len(operands) < 1 {
			e.errors.AddError(pos, parser.ErrorSyntax, "neg expects a register")
			return nil
		}
		rd := operands[0]
		return []expandedInstr{
			{"xori", []parser.Token{rd, comma(pos), imm(-1, pos)}, pos},
			{"addi", []parser.Token{rd, comma(pos), imm(1, pos)}, pos},
		}

	case "not":
		if len(operands) < 1 {
			e.errors.AddError(pos, parser.ErrorSyntax, "not expects a register")
			return nil
		}
		return []expandedInstr{
			{"xori", []parser.Token{operands[0], comma(pos), imm(-1, pos)}, pos},
		}

	case "clr":
		if len(operands) < 1 {
			e.errors.AddError(pos, parser.ErrorSyntax, "clr expects a register")
			return nil
		}
		rd := operands[0]
		return []expandedInstr{
			{"xor", []parser.Token{rd, comma(pos), rd}, pos},
		}

	case "nop":
		return []expandedInstr{
			{"add", []parser.Token{reg(0, pos), comma(pos), reg(0, pos)}, pos},
		}

	default:
		e.errors.AddError(pos, parser.ErrorInvalidInstruction, "unknown pseudo-instruction \""+mnemonic+"\"")
		return nil
	}
}
