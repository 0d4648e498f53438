package parser

import "testing"

func tokenizeValues(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(src, "test.s")
	toks := l.TokenizeAll()
	if l.Errors().HasErrors() {
		t.Fatalf("unexpected lexer errors: %v", l.Errors().Errors)
	}
	return toks
}

func TestLexerRegisters(t *testing.T) {
	toks := tokenizeValues(t, "x0 x7 X3")
	want := []string{"x0", "x7", "x3"}
	var got []string
	for _, tok := range toks {
		if tok.Type == TokenRegister {
			got = append(got, tok.Value)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("got %d register tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("register %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLexerNumericLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"42", "42"},
		{"0x2A", "0x2A"},
		{"0b101010", "0b101010"},
		{"-5", "-5"},
	}
	for _, tt := range tests {
		toks := tokenizeValues(t, tt.src)
		if toks[0].Type != TokenImmediate {
			t.Fatalf("%q: first token type = %v, want TokenImmediate", tt.src, toks[0].Type)
		}
		if toks[0].Value != tt.want {
			t.Errorf("%q: value = %q, want %q", tt.src, toks[0].Value, tt.want)
		}
	}
}

func TestLexerLabelVsIdentifier(t *testing.T) {
	toks := tokenizeValues(t, "loop: j loop")
	if toks[0].Type != TokenLabel || toks[0].Value != "loop" {
		t.Fatalf("first token = %v, want LABEL(loop)", toks[0])
	}
	foundIdent := false
	for _, tok := range toks {
		if tok.Type == TokenIdentifier && tok.Value == "loop" {
			foundIdent = true
		}
	}
	if !foundIdent {
		t.Error("expected a plain IDENTIFIER(loop) reference later in the stream")
	}
}

func TestLexerDirectiveAndComments(t *testing.T) {
	toks := tokenizeValues(t, ".word 1 ; a comment\n.byte 2 // also a comment\n/* block */ .ascii \"x\"")
	var directives []string
	for _, tok := range toks {
		if tok.Type == TokenDirective {
			directives = append(directives, tok.Value)
		}
	}
	want := []string{".word", ".byte", ".ascii"}
	if len(directives) != len(want) {
		t.Fatalf("got directives %v, want %v", directives, want)
	}
	for i := range want {
		if directives[i] != want[i] {
			t.Errorf("directive %d = %q, want %q", i, directives[i], want[i])
		}
	}
}

func TestLexerStringEscapes(t *testing.T) {
	toks := tokenizeValues(t, `"a\nb"`)
	if toks[0].Type != TokenString {
		t.Fatalf("type = %v, want TokenString", toks[0].Type)
	}
	if toks[0].Value != "a\nb" {
		t.Errorf("value = %q, want %q", toks[0].Value, "a\nb")
	}
}

func TestLexerCharLiteral(t *testing.T) {
	toks := tokenizeValues(t, `'A' '\n'`)
	if toks[0].Type != TokenCharacter || toks[0].Value != "65" {
		t.Errorf("'A' = %v, want CHARACTER(65)", toks[0])
	}
	if toks[1].Type != TokenCharacter || toks[1].Value != "10" {
		t.Errorf("'\\n' = %v, want CHARACTER(10)", toks[1])
	}
}

func TestLexerPunctuation(t *testing.T) {
	toks := tokenizeValues(t, "lw x1, 4(x2)")
	var types []TokenType
	for _, tok := range toks {
		if tok.Type != TokenEOF {
			types = append(types, tok.Type)
		}
	}
	want := []TokenType{TokenIdentifier, TokenRegister, TokenComma, TokenImmediate, TokenLParen, TokenRegister, TokenRParen}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("token %d type = %v, want %v", i, types[i], want[i])
		}
	}
}

func TestLexerUnexpectedCharacterRecordsError(t *testing.T) {
	l := NewLexer("@", "test.s")
	toks := l.TokenizeAll()
	if !l.Errors().HasErrors() {
		t.Fatal("expected a lexer error for '@'")
	}
	if toks[len(toks)-1].Type != TokenEOF {
		t.Error("expected lexer to recover and still emit EOF")
	}
}
