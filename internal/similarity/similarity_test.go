package similarity

import (
	"math"
	"testing"
)

func TestLines_IdenticalTextIsOne(t *testing.T) {
	text := "La travailleuse consulte le docteur X.\nLa radiographie est normale.\n"
	if got := Lines(text, text); got != 1.0 {
		t.Errorf("Lines(text, text) = %g, want 1.0", got)
	}
}

func TestLines_BothEmptyIsOne(t *testing.T) {
	if got := Lines("", ""); got != 1.0 {
		t.Errorf("Lines(\"\", \"\") = %g, want 1.0", got)
	}
	if got := Lines("  \n \n", "\n\n"); got != 1.0 {
		t.Errorf("whitespace-only texts = %g, want 1.0", got)
	}
}

func TestLines_OneEmptySideIsZero(t *testing.T) {
	if got := Lines("une ligne", ""); got != 0.0 {
		t.Errorf("Lines(text, \"\") = %g, want 0.0", got)
	}
}

func TestLines_SymmetricForEqualLineCounts(t *testing.T) {
	a := "premier constat\nsecond constat"
	b := "premier constat modifié\nsecond avis"
	if got, rev := Lines(a, b), Lines(b, a); got != rev {
		t.Errorf("Lines not symmetric: %g vs %g", got, rev)
	}
}

func TestLines_PositionalShiftDepressesScore(t *testing.T) {
	ref := "ligne a\nligne b\nligne c"
	shifted := "ligne inserée\nligne a\nligne b\nligne c"
	aligned := Lines(ref, ref)
	got := Lines(shifted, ref)
	if got >= aligned {
		t.Errorf("inserted line should depress the score: %g >= %g", got, aligned)
	}
	// The comparison is positional: it must not recover the alignment, so
	// the pairs (inserée/a), (a/b), (b/c), (c/"") all mismatch.
	if got > 0.8 {
		t.Errorf("score %g too high for a fully shifted comparison", got)
	}
}

func TestLines_BlankLinesIgnored(t *testing.T) {
	if got := Lines("a\n\n\nb", "a\nb"); got != 1.0 {
		t.Errorf("blank lines should not affect the comparison: %g", got)
	}
}

func TestRatio_Identical(t *testing.T) {
	if got := Ratio("même texte", "même texte"); got != 1.0 {
		t.Errorf("Ratio = %g, want 1.0", got)
	}
	if got := Ratio("", ""); got != 1.0 {
		t.Errorf("Ratio(\"\", \"\") = %g, want 1.0", got)
	}
}

func TestRatio_Disjoint(t *testing.T) {
	if got := Ratio("aaaa", "bbbb"); got != 0.0 {
		t.Errorf("Ratio = %g, want 0.0 for disjoint strings", got)
	}
}

func TestRatio_Partial(t *testing.T) {
	// "abcd" vs "abxd": 3 common runes, 2*3/8 = 0.75.
	got := Ratio("abcd", "abxd")
	if math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Ratio = %g, want 0.75", got)
	}
}

func TestRatio_Symmetric(t *testing.T) {
	a, b := "consultation initiale", "consultation de contrôle"
	if x, y := Ratio(a, b), Ratio(b, a); math.Abs(x-y) > 1e-9 {
		t.Errorf("Ratio not symmetric: %g vs %g", x, y)
	}
}

func TestRatio_InRange(t *testing.T) {
	cases := [][2]string{
		{"", "quelque chose"},
		{"a", "ab"},
		{"éèê", "eee"},
		{"texte long avec accents é à û", "texte"},
	}
	for _, c := range cases {
		got := Ratio(c[0], c[1])
		if got < 0.0 || got > 1.0 {
			t.Errorf("Ratio(%q, %q) = %g out of [0,1]", c[0], c[1], got)
		}
	}
}
