package isa

// Kind distinguishes what a non-constant field expects to consume from the
// token stream. It deliberately does not depend on the parser package's
// token types, so that isa stays a leaf package the parser can also import
// for instruction/pseudo-instruction lookups during first-pass sizing.
type Kind int

const (
	KindRegister Kind = iota
	KindImmediate
	KindComma
	KindLParen
	KindRParen
)

// Field is the sum type the Instruction Table is built from: every
// instruction is just an ordered list of Fields. The encoder walks a
// Field list twice: once to lay down every Constant's bits unconditionally,
// once in order against the line's token stream to consume Punctuation,
// Operand and Immediate fields.
type Field interface {
	field()
}

// Constant is a fixed bit pattern placed at [Lo,Hi], consuming no token.
type Constant struct {
	Lo, Hi int
	Bits   string // e.g. "000", MSB first, len == Hi-Lo+1
}

func (Constant) field() {}

// Operand is a register operand occupying bits [Lo,Hi].
type Operand struct {
	Lo, Hi   int
	Expected Kind
}

func (Operand) field() {}

// Punctuation is a required token contributing no bits.
type Punctuation struct {
	Expected Kind
}

func (Punctuation) field() {}

// Allocation places immediate bits [ImmLo,ImmHi] into instruction-word bits
// [MemLo,MemHi]. Only split immediates use allocations; a contiguous
// immediate sets Immediate.Lo/Hi and leaves Allocations nil.
type Allocation struct {
	MemLo, MemHi int
	ImmLo, ImmHi int
}

// Immediate is an immediate operand, either contiguous ([Lo,Hi] set,
// Allocations nil) or split across several Allocations ([Lo,Hi] both zero,
// Allocations set).
type Immediate struct {
	Lo, Hi      int // used when Allocations is nil (simple contiguous field)
	Allocations []Allocation
	Signed      bool
	Min, Max    int
	Width       int
}

func (Immediate) field() {}

// contiguousImmediate builds a simple [lo,hi] immediate field with bounds
// derived from its width and signedness.
func contiguousImmediate(lo, hi int, signed bool) Immediate {
	width := hi - lo + 1
	imm := Immediate{Lo: lo, Hi: hi, Signed: signed, Width: width}
	imm.Min, imm.Max = bounds(width, signed)
	return imm
}

// splitImmediate builds a split immediate field from its memory/immediate
// bit allocations.
func splitImmediate(signed bool, allocations ...Allocation) Immediate {
	width := 0
	for _, a := range allocations {
		width += a.ImmHi - a.ImmLo + 1
	}
	imm := Immediate{Allocations: allocations, Signed: signed, Width: width}
	imm.Min, imm.Max = bounds(width, signed)
	return imm
}

func bounds(width int, signed bool) (min, max int) {
	if signed {
		return -(1 << (width - 1)), (1 << (width - 1)) - 1
	}
	return 0, (1 << width) - 1
}

// BitCoverage returns, for a single instruction's field list, the set of
// bits (0-15) covered and whether any bit is covered more than once. It is
// the mechanical check behind the no-overlap invariant; not every
// instruction covers all 16 bits.
func BitCoverage(fields []Field) (covered [16]bool, overlap bool) {
	mark := func(lo, hi int) {
		for b := lo; b <= hi; b++ {
			if covered[b] {
				overlap = true
			}
			covered[b] = true
		}
	}
	for _, f := range fields {
		switch v := f.(type) {
		case Constant:
			mark(v.Lo, v.Hi)
		case Operand:
			mark(v.Lo, v.Hi)
		case Immediate:
			if v.Allocations != nil {
				for _, a := range v.Allocations {
					mark(a.MemLo, a.MemHi)
				}
			} else {
				mark(v.Lo, v.Hi)
			}
		}
	}
	return covered, overlap
}
