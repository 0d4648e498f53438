package isa

import "testing"

// TestNoOverlap checks the only bit-layout invariant the format requires:
// no two fields of the same instruction claim the same bit. Full 16-bit
// coverage is not required — j, bz, bnz and ecall all leave bits
// deliberately unset. jal is a deliberate, documented exception to no-overlap itself:
// see TestJalRdOverlaysImmediateLowBits.
func TestNoOverlap(t *testing.T) {
	for mnemonic, fields := range Table {
		if mnemonic == "jal" {
			continue
		}
		t.Run(mnemonic, func(t *testing.T) {
			_, overlap := BitCoverage(fields)
			if overlap {
				t.Errorf("%s: fields overlap", mnemonic)
			}
		})
	}
}

// TestOpcodeDiscriminant checks every instruction sets its 3-bit opcode as
// the first Constant field at bits [0:2].
func TestOpcodeDiscriminant(t *testing.T) {
	for mnemonic, fields := range Table {
		t.Run(mnemonic, func(t *testing.T) {
			if len(fields) == 0 {
				t.Fatalf("%s: empty field list", mnemonic)
			}
			c, ok := fields[0].(Constant)
			if !ok {
				t.Fatalf("%s: first field is not a Constant opcode", mnemonic)
			}
			if c.Lo != 0 || c.Hi != 2 {
				t.Errorf("%s: opcode field at [%d:%d], want [0:2]", mnemonic, c.Lo, c.Hi)
			}
			if len(c.Bits) != 3 {
				t.Errorf("%s: opcode bits %q, want length 3", mnemonic, c.Bits)
			}
		})
	}
}

// TestJalRdOverlaysImmediateLowBits documents jal's intentional field
// overlap directly against the table: rd occupies [3:5], and so does the
// immediate's low allocation (imm[0:2]). Both are ORed into the same word
// bits at encode time.
func TestJalRdOverlaysImmediateLowBits(t *testing.T) {
	fields := Table["jal"]
	var rd *Operand
	var imm *Immediate
	for i := range fields {
		switch v := fields[i].(type) {
		case Operand:
			rd = &v
		case Immediate:
			imm = &v
		}
	}
	if rd == nil || imm == nil {
		t.Fatal("jal: expected both an Operand and an Immediate field")
	}
	if rd.Lo != 3 || rd.Hi != 5 {
		t.Fatalf("jal: rd at [%d:%d], want [3:5]", rd.Lo, rd.Hi)
	}
	if len(imm.Allocations) != 2 {
		t.Fatalf("jal: expected 2 immediate allocations, got %d", len(imm.Allocations))
	}
	low := imm.Allocations[0]
	if low.MemLo != 3 || low.MemHi != 5 || low.ImmLo != 0 || low.ImmHi != 2 {
		t.Errorf("jal: low allocation = %+v, want MemLo:3 MemHi:5 ImmLo:0 ImmHi:2", low)
	}
}

// TestBranchesUseBoundedImmediate checks bge has a real Immediate field
// like every other branch, not a bare Operand (Open Question #1).
func TestBranchesUseBoundedImmediate(t *testing.T) {
	branches := []string{"beq", "bne", "bz", "bnz", "blt", "bge", "bltu", "bgeu"}
	for _, mnemonic := range branches {
		t.Run(mnemonic, func(t *testing.T) {
			fields := Table[mnemonic]
			found := false
			for _, f := range fields {
				if imm, ok := f.(Immediate); ok {
					found = true
					if imm.Lo != 12 || imm.Hi != 15 {
						t.Errorf("%s: immediate at [%d:%d], want [12:15]", mnemonic, imm.Lo, imm.Hi)
					}
				}
			}
			if !found {
				t.Errorf("%s: no Immediate field found", mnemonic)
			}
		})
	}
}

func TestPseudoSizesCoverAllPseudos(t *testing.T) {
	for mnemonic, size := range PseudoSizes {
		if size != 2 && size != 4 {
			t.Errorf("%s: pseudo size %d, want 2 or 4", mnemonic, size)
		}
		if IsReal(mnemonic) {
			t.Errorf("%s: listed as both real and pseudo", mnemonic)
		}
	}
}

func TestIsRealIsPseudoDisjoint(t *testing.T) {
	for mnemonic := range Table {
		if IsPseudo(mnemonic) {
			t.Errorf("%s: real mnemonic also listed as pseudo", mnemonic)
		}
	}
}
