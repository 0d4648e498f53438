package isa

// Table is the ZX16 Instruction Table: for every real (non-pseudo)
// mnemonic, the ordered Field list describing its token-consumption order
// and bit layout. Opcode discriminants (bits [0:2]) follow the ZX16 R/I/B/
// S/L/J/U/SYS format scheme (values 0-7).
//
// One deviation is applied deliberately rather than silently: bge uses a
// full Immediate field at [12:15], matching every other branch, instead of
// a bare (bounds-less) operand field — see DESIGN.md for why the
// alternative can't actually encode bge's offset.
//
// jal is the one mnemonic whose fields overlap: rd and the immediate's low
// allocation both claim word[3:5] and are ORed together at encode time. See
// the comment on the jal entry below and DESIGN.md.
var Table = map[string][]Field{
	// R-type (opcode 000)
	"add":  {Constant{0, 2, "000"}, Constant{3, 5, "000"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Constant{12, 15, "0000"}},
	"sub":  {Constant{0, 2, "000"}, Constant{3, 5, "000"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Constant{12, 15, "0001"}},
	"slt":  {Constant{0, 2, "000"}, Constant{3, 5, "001"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Constant{12, 15, "0010"}},
	"sltu": {Constant{0, 2, "000"}, Constant{3, 5, "010"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Constant{12, 15, "0011"}},
	"sll":  {Constant{0, 2, "000"}, Constant{3, 5, "011"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Constant{12, 15, "0100"}},
	"srl":  {Constant{0, 2, "000"}, Constant{3, 5, "011"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Constant{12, 15, "0101"}},
	"sra":  {Constant{0, 2, "000"}, Constant{3, 5, "011"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Constant{12, 15, "0110"}},
	"or":   {Constant{0, 2, "000"}, Constant{3, 5, "100"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Constant{12, 15, "0111"}},
	"and":  {Constant{0, 2, "000"}, Constant{3, 5, "101"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Constant{12, 15, "1000"}},
	"xor":  {Constant{0, 2, "000"}, Constant{3, 5, "110"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Constant{12, 15, "1001"}},
	"mv":   {Constant{0, 2, "000"}, Constant{3, 5, "111"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Constant{12, 15, "1010"}},
	"jr":   {Constant{0, 2, "000"}, Constant{3, 5, "000"}, Operand{6, 8, KindRegister}, Constant{9, 11, "000"}, Constant{12, 15, "1011"}},
	"jalr": {Constant{0, 2, "000"}, Constant{3, 5, "000"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Constant{12, 15, "1100"}},

	// I-type (opcode 001)
	"addi":  {Constant{0, 2, "001"}, Constant{3, 5, "000"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(9, 15, true)},
	"slti":  {Constant{0, 2, "001"}, Constant{3, 5, "001"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(9, 15, true)},
	"sltui": {Constant{0, 2, "001"}, Constant{3, 5, "010"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(9, 15, false)},
	"slli":  {Constant{0, 2, "001"}, Constant{3, 5, "011"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(9, 12, false), Constant{13, 15, "001"}},
	"srli":  {Constant{0, 2, "001"}, Constant{3, 5, "011"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(9, 12, false), Constant{13, 15, "010"}},
	"srai":  {Constant{0, 2, "001"}, Constant{3, 5, "011"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(9, 12, false), Constant{13, 15, "100"}},
	"ori":   {Constant{0, 2, "001"}, Constant{3, 5, "100"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(9, 15, false)},
	"andi":  {Constant{0, 2, "001"}, Constant{3, 5, "101"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(9, 15, false)},
	"xori":  {Constant{0, 2, "001"}, Constant{3, 5, "110"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(9, 15, true)},
	"li":    {Constant{0, 2, "001"}, Constant{3, 5, "111"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(9, 15, true)},

	// B-type (opcode 010)
	"beq":  {Constant{0, 2, "010"}, Constant{3, 5, "000"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Punctuation{KindComma}, contiguousImmediate(12, 15, true)},
	"bne":  {Constant{0, 2, "010"}, Constant{3, 5, "001"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Punctuation{KindComma}, contiguousImmediate(12, 15, true)},
	"bz":   {Constant{0, 2, "010"}, Constant{3, 5, "010"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(12, 15, true)},
	"bnz":  {Constant{0, 2, "010"}, Constant{3, 5, "011"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(12, 15, true)},
	"blt":  {Constant{0, 2, "010"}, Constant{3, 5, "100"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Punctuation{KindComma}, contiguousImmediate(12, 15, true)},
	"bge":  {Constant{0, 2, "010"}, Constant{3, 5, "101"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Punctuation{KindComma}, contiguousImmediate(12, 15, true)},
	"bltu": {Constant{0, 2, "010"}, Constant{3, 5, "110"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Punctuation{KindComma}, contiguousImmediate(12, 15, true)},
	"bgeu": {Constant{0, 2, "010"}, Constant{3, 5, "111"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, Operand{9, 11, KindRegister}, Punctuation{KindComma}, contiguousImmediate(12, 15, true)},

	// S-type (opcode 011): "sb rd, imm(rs1)"
	"sb": {Constant{0, 2, "011"}, Constant{3, 5, "000"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(12, 15, true), Punctuation{KindLParen}, Operand{9, 11, KindRegister}, Punctuation{KindRParen}},
	"sw": {Constant{0, 2, "011"}, Constant{3, 5, "001"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(12, 15, true), Punctuation{KindLParen}, Operand{9, 11, KindRegister}, Punctuation{KindRParen}},

	// L-type (opcode 100): "lb rd, imm(rs1)"
	"lb":  {Constant{0, 2, "100"}, Constant{3, 5, "000"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(12, 15, true), Punctuation{KindLParen}, Operand{9, 11, KindRegister}, Punctuation{KindRParen}},
	"lw":  {Constant{0, 2, "100"}, Constant{3, 5, "001"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(12, 15, true), Punctuation{KindLParen}, Operand{9, 11, KindRegister}, Punctuation{KindRParen}},
	"lbu": {Constant{0, 2, "100"}, Constant{3, 5, "100"}, Operand{6, 8, KindRegister}, Punctuation{KindComma}, contiguousImmediate(12, 15, true), Punctuation{KindLParen}, Operand{9, 11, KindRegister}, Punctuation{KindRParen}},

	// J-type (opcode 101)
	"j": {
		Constant{0, 2, "101"},
		splitImmediate(true,
			Allocation{MemLo: 3, MemHi: 5, ImmLo: 1, ImmHi: 3},
			Allocation{MemLo: 9, MemHi: 14, ImmLo: 4, ImmHi: 9},
		),
		Constant{15, 15, "0"},
	},
	// jal's rd and the low 3 bits of its split immediate both land in
	// word[3:5] and are ORed together rather than partitioned: imm[0:2]
	// shares rd's bits, imm[3:8] occupies word[9:14] on its own. This is
	// intentional (see DESIGN.md) and breaks the no-overlap invariant that
	// holds for every other instruction in this table.
	"jal": {
		Constant{0, 2, "101"},
		Operand{3, 5, KindRegister},
		Punctuation{KindComma},
		splitImmediate(true,
			Allocation{MemLo: 3, MemHi: 5, ImmLo: 0, ImmHi: 2},
			Allocation{MemLo: 9, MemHi: 14, ImmLo: 3, ImmHi: 8},
		),
		Constant{15, 15, "1"},
	},

	// U-type (opcode 110)
	"lui": {
		Constant{0, 2, "110"},
		Operand{6, 8, KindRegister},
		Punctuation{KindComma},
		splitImmediate(false,
			Allocation{MemLo: 3, MemHi: 5, ImmLo: 7, ImmHi: 9},
			Allocation{MemLo: 9, MemHi: 14, ImmLo: 10, ImmHi: 15},
		),
		Constant{15, 15, "0"},
	},
	"auipc": {
		Constant{0, 2, "110"},
		Operand{6, 8, KindRegister},
		Punctuation{KindComma},
		splitImmediate(false,
			Allocation{MemLo: 3, MemHi: 5, ImmLo: 7, ImmHi: 9},
			Allocation{MemLo: 9, MemHi: 14, ImmLo: 10, ImmHi: 15},
		),
		Constant{15, 15, "1"},
	},

	// SYS-type (opcode 111)
	"ecall": {Constant{0, 2, "111"}, contiguousImmediate(6, 15, false)},
}
