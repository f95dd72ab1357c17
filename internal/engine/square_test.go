package engine

import (
	"errors"
	"testing"
)

func TestSquareNotationRoundTrip(t *testing.T) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			sq := NewSquare(row, col)
			got, err := ParseSquare(sq.Notation())
			if err != nil {
				t.Fatalf("ParseSquare(%q): %v", sq.Notation(), err)
			}
			if got != sq {
				t.Fatalf("round trip %v: got %v", sq, got)
			}
		}
	}
}

func TestSquareNotationOrientation(t *testing.T) {
	cases := map[string]Square{
		"a8": {Row: 0, Col: 0},
		"h8": {Row: 0, Col: 7},
		"a1": {Row: 7, Col: 0},
		"e2": {Row: 6, Col: 4},
		"e4": {Row: 4, Col: 4},
	}
	for text, want := range cases {
		got, err := ParseSquare(text)
		if err != nil {
			t.Fatalf("ParseSquare(%q): %v", text, err)
		}
		if got != want {
			t.Fatalf("ParseSquare(%q) = %+v, want %+v", text, got, want)
		}
		if want.Notation() != text {
			t.Fatalf("%+v.Notation() = %q, want %q", want, want.Notation(), text)
		}
	}
}

func TestParseSquareOutOfRangeIsNotAnError(t *testing.T) {
	for _, text := range []string{"i9", "z1", "a9", "a0", "j5"} {
		sq, err := ParseSquare(text)
		if err != nil {
			t.Fatalf("ParseSquare(%q) returned error %v", text, err)
		}
		if sq.Valid() {
			t.Fatalf("ParseSquare(%q) = %+v should be invalid", text, sq)
		}
		if sq.Notation() != "invalid" {
			t.Fatalf("invalid square notation = %q", sq.Notation())
		}
	}
}

func TestParseSquareMalformed(t *testing.T) {
	for _, text := range []string{"", "e", "e44", "44", "e-", "-4", "é4"} {
		if _, err := ParseSquare(text); !errors.Is(err, ErrInvalidNotation) {
			t.Fatalf("ParseSquare(%q) err = %v, want ErrInvalidNotation", text, err)
		}
	}
}

func TestParseSquareUpperCaseFile(t *testing.T) {
	sq, err := ParseSquare("E4")
	if err != nil {
		t.Fatalf("ParseSquare: %v", err)
	}
	if sq != MustParseSquare("e4") {
		t.Fatalf("E4 parsed as %v", sq)
	}
}
