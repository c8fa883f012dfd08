package material

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseSingleCompound(t *testing.T) {
	c, err := Parse("CH2")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	want := []Element{
		{Symbol: "C", A: 12.0107, Z: 6, Fraction: 1.0 / 3.0},
		{Symbol: "H", A: 1.00794, Z: 1, Fraction: 2.0 / 3.0},
	}
	if diff := cmp.Diff(want, c.Elements(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("elements mismatch (-want +got):\n%s", diff)
	}
	if c.Density() != 0.93 {
		t.Errorf("expected density 0.93, got %f", c.Density())
	}

	wantZ := (6.0 + 2.0) / 3.0
	if math.Abs(c.MeanZ()-wantZ) > 1e-12 {
		t.Errorf("expected mean Z %f, got %f", wantZ, c.MeanZ())
	}
}

func TestParseWithDopant(t *testing.T) {
	c, err := Parse("CH-with-2Ge")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	got := make([]string, 0, c.Len())
	for _, e := range c.Elements() {
		got = append(got, e.Symbol)
	}
	if diff := cmp.Diff([]string{"C", "H", "O", "Ge"}, got); diff != "" {
		t.Errorf("symbols mismatch (-want +got):\n%s", diff)
	}

	if math.Abs(c.Fraction("Ge")-0.02) > 1e-12 {
		t.Errorf("expected Ge fraction 0.02, got %.15f", c.Fraction("Ge"))
	}
	ch := c.Fraction("C") + c.Fraction("H") + c.Fraction("O")
	if math.Abs(ch-0.98) > 1e-12 {
		t.Errorf("expected CH remainder 0.98, got %.15f", ch)
	}

	ge, _ := LookupAtom("Ge")
	if c.Density() != ge.Density {
		t.Errorf("expected last token to set density %f, got %f", ge.Density, c.Density())
	}
}

func TestParseFractionsSumToOne(t *testing.T) {
	for _, spec := range []string{"CH", "70CH-30SiO2", "HDC-and-0.5W", "Be-with-1Cu", "50CH-25CD"} {
		t.Run(spec, func(t *testing.T) {
			c, err := Parse(spec)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			sum := 0.0
			for _, e := range c.Elements() {
				sum += e.Fraction
			}
			if math.Abs(sum-1) > 1e-12 {
				t.Errorf("expected fractions to sum to 1, got %.15f", sum)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"over 100 percent", "60CH-60SiO2"},
		{"no remainder", "CH-100Ge"},
		{"later token without fraction", "2Ge-CH"},
		{"unknown compound", "CH-with-2Xx"},
		{"bad number", "CH-with-1.2.3Ge"},
		{"empty", ""},
		{"only filler", "with-and"},
		{"number only", "CH-with-2"},
		{"empty token", "CH--2Ge"},
		{"zero percent", "CH-with-0Ge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.spec)
			if !errors.Is(err, ErrParse) {
				t.Errorf("expected ErrParse for %q, got %v", tt.spec, err)
			}
		})
	}
}

func TestElementsReturnsCopy(t *testing.T) {
	c := MustParse("CH")
	els := c.Elements()
	els[0].Fraction = 42

	if c.Elements()[0].Fraction == 42 {
		t.Error("composition was mutated through Elements()")
	}
}

func TestNumberDensities(t *testing.T) {
	c := MustParse("HDC")
	ions, ne := c.NumberDensities(3.5)

	wantIons := 3.5 / (12.0107 * amuGrams)
	if math.Abs(ions[0]-wantIons)/wantIons > 1e-12 {
		t.Errorf("expected %e ions/cc, got %e", wantIons, ions[0])
	}
	if math.Abs(ne-6*wantIons)/ne > 1e-12 {
		t.Errorf("expected %e electrons/cc, got %e", 6*wantIons, ne)
	}
}

func TestLookup(t *testing.T) {
	c, err := Lookup("SiO2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Density() != 2.2 {
		t.Errorf("expected density 2.2, got %g", c.Density())
	}
	if math.Abs(c.Fraction("O")-2.0/3) > 1e-12 {
		t.Errorf("expected O fraction 2/3, got %g", c.Fraction("O"))
	}

	if _, err := Lookup("Unobtainium"); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestParseDigitLeadingSymbol(t *testing.T) {
	c, err := Parse("3He")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if c.Len() != 1 || c.Fraction("3He") != 1 {
		t.Errorf("expected pure 3He, got %v", c.Elements())
	}

	mix, err := Parse("D2-with-403He")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if math.Abs(mix.Fraction("3He")-0.4) > 1e-12 {
		t.Errorf("expected 3He fraction 0.4, got %f", mix.Fraction("3He"))
	}
	if math.Abs(mix.Fraction("D")-0.6) > 1e-12 {
		t.Errorf("expected D fraction 0.6, got %f", mix.Fraction("D"))
	}

	he, err := Parse("CH-with-3He")
	if err == nil {
		t.Errorf("expected a missing-percentage error for a bare dopant, got %v", he.Elements())
	}
}
