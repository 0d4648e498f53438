package parser

import "testing"

func parse(t *testing.T, src string) (*Program, *ErrorList) {
	t.Helper()
	l := NewLexer(src, "test.s")
	tokens := l.TokenizeAll()
	p := NewParser(tokens)
	program, errs := p.Parse()
	if l.Errors().HasErrors() {
		t.Fatalf("lexer errors: %v", l.Errors().Errors)
	}
	return program, errs
}

func TestEquConstDeletesTokensAndDefinesSymbol(t *testing.T) {
	program, errs := parse(t, ".equ LIMIT, 10\naddi x1, LIMIT\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	for _, tok := range program.Tokens {
		if tok.Type == TokenDirective && (tok.Value == ".equ" || tok.Value == ".set") {
			t.Fatalf("expected .equ tokens to be deleted, found %v", tok)
		}
	}
	sym, err := program.Symbols.Get("LIMIT")
	if err != nil {
		t.Fatalf("expected LIMIT to be defined: %v", err)
	}
	if sym.Value != 10 || sym.Section != SectionConst {
		t.Errorf("LIMIT = %+v, want value 10 in const section", sym)
	}
}

func TestLabelsAreSectionRelativeThenAbsolute(t *testing.T) {
	program, errs := parse(t, "start:\n  add x1, x2\n  add x1, x2\nloop:\n  j loop\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	start, err := program.Symbols.Get("start")
	if err != nil {
		t.Fatal(err)
	}
	loop, err := program.Symbols.Get("loop")
	if err != nil {
		t.Fatal(err)
	}
	if start.Value != 0 {
		t.Errorf("start section-relative value = %d, want 0", start.Value)
	}
	if loop.Value != 4 {
		t.Errorf("loop section-relative value = %d, want 4 (after two 2-byte instructions)", loop.Value)
	}
	// Absolute address is section-relative value + the section's base.
	absoluteLoop := loop.Value + program.Layout[SectionText]
	if absoluteLoop != program.Layout[SectionText]+4 {
		t.Errorf("absolute loop address = %d", absoluteLoop)
	}
}

func TestDuplicateSymbolIsError(t *testing.T) {
	_, errs := parse(t, "foo:\n  nop\nfoo:\n  nop\n")
	if !errs.HasErrors() {
		t.Fatal("expected a duplicate-symbol error")
	}
}

func TestSectionSizeFormulas(t *testing.T) {
	src := ".text\n  add x1, x2\n  add x1, x2\n.data\n  .word 1, 2, 3\n.bss\n  .space 4\n"
	program, errs := parse(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	textSize := program.Layout[SectionData] - program.Layout[SectionText]
	if textSize != 4 {
		t.Errorf(".text size = %d, want 4 (two 2-byte instructions)", textSize)
	}
	dataSize := program.Layout[SectionBss] - program.Layout[SectionData]
	if dataSize != 6 {
		t.Errorf(".data size = %d, want 6 (three .word entries)", dataSize)
	}
}

func TestOrgRangeUnified(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"valid inter org", ".org 0x10\nfoo:\n  add x1, x2\n", false},
		{"valid text org", ".org 0x100\nfoo:\n  add x1, x2\n", false},
		{"odd address", ".org 0x11\nfoo:\n  add x1, x2\n", true},
		{"mmio or beyond", ".org 0xF000\nfoo:\n  add x1, x2\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := parse(t, tt.src)
			if errs.HasErrors() != tt.wantErr {
				t.Errorf("HasErrors() = %v, want %v (errors: %v)", errs.HasErrors(), tt.wantErr, errs.Errors)
			}
		})
	}
}

func TestOrgBelowCodeStartTargetsInter(t *testing.T) {
	program, errs := parse(t, ".org 0x10\nvec:\n  add x1, x2\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	sym, err := program.Symbols.Get("vec")
	if err != nil {
		t.Fatal(err)
	}
	if sym.Section != SectionInter {
		t.Errorf("vec section = %v, want %v", sym.Section, SectionInter)
	}
	if sym.Value != 0x10 {
		t.Errorf("vec value = %#x, want 0x10", sym.Value)
	}
}

func TestOrgInTextTargetsSectionRelativeOffset(t *testing.T) {
	program, errs := parse(t, ".org 0x100\nfoo:\n  add x1, x2\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	sym, err := program.Symbols.Get("foo")
	if err != nil {
		t.Fatal(err)
	}
	if sym.Section != SectionText {
		t.Fatalf("foo section = %v, want %v", sym.Section, SectionText)
	}
	// Labels in .text are section-relative; 0x100 is the absolute address,
	// so the stored value must be offset back by isa.CodeStart.
	wantRelative := 0x100 - 0x20 // isa.CodeStart
	if sym.Value != wantRelative {
		t.Errorf("foo section-relative value = %#x, want %#x (0x100 - CodeStart)", sym.Value, wantRelative)
	}
	// And resolving it back to an absolute address must land on the same
	// 0x100 that .org requested, i.e. where the code actually gets emitted.
	absolute := sym.Value + program.Layout[SectionText]
	if absolute != 0x100 {
		t.Errorf("foo absolute address = %#x, want 0x100", absolute)
	}
}

func TestDirectiveWrongSectionIsError(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{".byte in .text", ".text\n  .byte 1\n"},
		{".word in .text", ".text\n  .word 1\n"},
		{".string in .text", ".text\n  .string \"hi\"\n"},
		{".space in .text", ".text\n  .space 4\n"},
		{".fill in .text", ".text\n  .fill 1, 1, 0\n"},
		{".org in .data", ".data\n  .org 0x100\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := parse(t, tt.src)
			if !errs.HasErrors() {
				t.Fatalf("expected a section error for %q", tt.src)
			}
			found := false
			for _, e := range errs.Errors {
				if e.Kind == ErrorSection {
					found = true
				}
			}
			if !found {
				t.Errorf("expected an ErrorSection diagnostic, got: %v", errs.Errors)
			}
		})
	}
}

func TestUnknownMnemonicIsError(t *testing.T) {
	_, errs := parse(t, "frobnicate x1, x2\n")
	if !errs.HasErrors() {
		t.Fatal("expected an error for an unknown mnemonic")
	}
}

func TestPseudoInstructionsSizeCorrectly(t *testing.T) {
	program, errs := parse(t, "li16 x1, 1000\ncall foo\nret\nfoo:\n  nop\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	foo, err := program.Symbols.Get("foo")
	if err != nil {
		t.Fatal(err)
	}
	// li16 (4) + call (2) + ret (2) = 8 bytes before foo.
	if foo.Value != 8 {
		t.Errorf("foo section-relative value = %d, want 8", foo.Value)
	}
}
