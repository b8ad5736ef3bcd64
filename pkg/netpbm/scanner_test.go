package netpbm

import (
	"bytes"
	"testing"
	"testing/quick"
)

func TestScanner_Next_Tokens(t *testing.T) {
	s := newScanner([]byte("P5\n3 2\t255\r\n"))

	want := []string{"P5", "3", "2", "255", ""}
	for i, w := range want {
		got := s.next()
		if string(got) != w {
			t.Fatalf("token %d: got %q, want %q", i, got, w)
		}
	}
	if !s.done() {
		t.Errorf("expected scanner to be done, pos=%d", s.pos)
	}
}

func TestScanner_Next_AdjacentDelimitersYieldEmptyTokens(t *testing.T) {
	s := newScanner([]byte("a  b"))

	if got := s.next(); string(got) != "a" {
		t.Fatalf("got %q, want %q", got, "a")
	}
	if got := s.next(); len(got) != 0 {
		t.Fatalf("got %q, want empty token", got)
	}
	if got := s.next(); string(got) != "b" {
		t.Fatalf("got %q, want %q", got, "b")
	}
}

func TestScanner_Next_NoTrailingDelimiter(t *testing.T) {
	s := newScanner([]byte("12 345"))
	s.next()

	got := s.next()
	if string(got) != "345" {
		t.Fatalf("got %q, want %q", got, "345")
	}
	if s.pos != 6 {
		t.Errorf("pos: got %d, want 6", s.pos)
	}
	if s.delim != 0 {
		t.Errorf("delim: got %q, want none", s.delim)
	}
	if got := s.next(); len(got) != 0 || !s.done() {
		t.Errorf("expected empty token at end, got %q", got)
	}
}

func TestScanner_Rest_IsVerbatim(t *testing.T) {
	s := newScanner([]byte("255\n \n#\x00\xFF"))
	s.next()

	got := s.rest()
	want := []byte(" \n#\x00\xFF")
	if !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if !s.done() {
		t.Error("expected scanner to be done after rest")
	}
	if s.offset() != 4 {
		t.Errorf("offset: got %d, want 4", s.offset())
	}
}

func TestScanner_SkipLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"comment with words", "# a comment here\nnext", "next"},
		{"comment ended by newline", "#\nnext", "next"},
		{"comment ended by carriage return", "# note\rnext", "next"},
		{"comment at end of input", "# trailing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScanner([]byte(tt.input))
			if tok := s.next(); tok[0] != '#' {
				t.Fatalf("expected comment token, got %q", tok)
			}
			s.skipLine()
			if got := s.next(); string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// Property: the cursor only moves forward and tokens never contain whitespace.
func TestProperty_ScannerMonotonic(t *testing.T) {
	property := func(data []byte) bool {
		s := newScanner(data)
		last := 0
		for !s.done() {
			tok := s.next()
			if s.pos <= last || s.prev > s.pos || s.pos > len(data) {
				t.Logf("cursor moved backwards or out of range: prev=%d pos=%d last=%d", s.prev, s.pos, last)
				return false
			}
			if bytes.ContainsAny(tok, " \t\r\n") {
				t.Logf("token %q contains whitespace", tok)
				return false
			}
			last = s.pos
		}
		return true
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}
