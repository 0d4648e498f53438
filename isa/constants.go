// Package isa declares the ZX16 instruction set as pure data: process
// constants, the pseudo-instruction size table, and the Instruction Table
// (IT) consumed by both the first-pass parser (for sizing) and the
// second-pass encoder (for bit-exact encoding). Nothing in this package
// depends on how source text is tokenized or how a program is assembled.
package isa

// Process constants (ZX16 memory map defaults).
const (
	ResetVector = 0x0000
	IntVectors  = 0x0000
	CodeStart   = 0x0020
	MMIOBase    = 0xF000
	MMIOSize    = 0x1000
	StackTop    = 0xEFFE
	MemSize     = 0x10000
)

// PseudoSizes gives the fixed first-pass byte size of every pseudo
// instruction. Sizes are fixed (not operand-dependent) so Sweep B can size
// a line without resolving any symbol.
var PseudoSizes = map[string]int{
	"li16": 4,
	"la":   4,
	"push": 4,
	"pop":  4,
	"call": 2,
	"ret":  2,
	"inc":  2,
	"dec":  2,
	"neg":  4,
	"not":  2,
	"clr":  2,
	"nop":  2,
}

// IsPseudo reports whether mnemonic names a pseudo-instruction.
func IsPseudo(mnemonic string) bool {
	_, ok := PseudoSizes[mnemonic]
	return ok
}

// IsReal reports whether mnemonic names a real (Instruction Table) entry.
func IsReal(mnemonic string) bool {
	_, ok := Table[mnemonic]
	return ok
}

// BranchMnemonics names every instruction whose trailing immediate is a
// PC-relative half-word offset rather than a literal value, once its token
// has been resolved from a label.
var BranchMnemonics = map[string]bool{
	"jal": true, "j": true, "jr": true, "jalr": true,
	"beq": true, "bne": true, "bz": true, "bnz": true,
	"blt": true, "bge": true, "bltu": true, "bgeu": true,
}
