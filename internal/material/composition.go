package material

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	amuGrams       = 1.66053907e-24
	fractionSlopPc = 1e-9
)

// Element is one constituent of a Composition.
type Element struct {
	Symbol   string
	A        float64
	Z        float64
	Fraction float64 // mole fraction of all atoms in the material
}

// Composition is an immutable, normalized element list with a bulk density.
type Composition struct {
	name     string
	elements []Element
	density  float64
	meanA    float64
	meanZ    float64
}

type token struct {
	code    string
	percent float64
	given   bool
}

// Parse resolves a material specifier. See the package documentation for
// the grammar.
func Parse(spec string) (Composition, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Composition{}, fmt.Errorf("%w: empty specifier", ErrParse)
	}

	var toks []token
	for _, raw := range strings.Split(spec, "-") {
		raw = strings.TrimSpace(raw)
		switch strings.ToLower(raw) {
		case "with", "and":
			continue
		case "":
			return Composition{}, fmt.Errorf("%w: empty token in %q", ErrParse, spec)
		}
		tok, err := parseToken(raw)
		if err != nil {
			return Composition{}, err
		}
		toks = append(toks, tok)
	}
	if len(toks) == 0 {
		return Composition{}, fmt.Errorf("%w: no material in %q", ErrParse, spec)
	}

	given := 0.0
	for i, tok := range toks {
		if !tok.given {
			if i > 0 {
				return Composition{}, fmt.Errorf("%w: %q needs an explicit percentage", ErrParse, tok.code)
			}
			continue
		}
		given += tok.percent
	}
	if given > 100+fractionSlopPc {
		return Composition{}, fmt.Errorf("%w: fractions in %q sum to %g%%", ErrParse, spec, given)
	}
	if !toks[0].given {
		rest := 100 - given
		if rest <= fractionSlopPc {
			return Composition{}, fmt.Errorf("%w: %q leaves no remainder for %q", ErrParse, spec, toks[0].code)
		}
		toks[0].percent = rest
		toks[0].given = true
	}

	c := Composition{name: spec}
	index := make(map[string]int)
	total := 0.0
	for _, tok := range toks {
		parts, density, err := resolve(tok.code)
		if err != nil {
			return Composition{}, err
		}
		c.density = density
		for _, p := range parts {
			w := tok.percent / 100 * p.Fraction
			if i, ok := index[p.Symbol]; ok {
				c.elements[i].Fraction += w
			} else {
				index[p.Symbol] = len(c.elements)
				p.Fraction = w
				c.elements = append(c.elements, p)
			}
			total += w
		}
	}
	for i := range c.elements {
		c.elements[i].Fraction /= total
		c.meanA += c.elements[i].Fraction * c.elements[i].A
		c.meanZ += c.elements[i].Fraction * c.elements[i].Z
	}
	return c, nil
}

// MustParse is Parse for specifiers known at compile time.
func MustParse(spec string) Composition {
	c, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return c
}

func parseToken(raw string) (token, error) {
	cut := strings.IndexFunc(raw, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	if cut < 0 {
		return token{}, fmt.Errorf("%w: %q has no material code", ErrParse, raw)
	}
	// Codes may themselves start with a digit (3He), so prefer the longest
	// known code before reading the rest as a percentage.
	for i := 0; i < cut; i++ {
		if known(raw[i:]) {
			cut = i
			break
		}
	}
	tok := token{code: raw[cut:]}
	if cut == 0 {
		return tok, nil
	}
	pct, err := strconv.ParseFloat(raw[:cut], 64)
	if err != nil {
		return token{}, fmt.Errorf("%w: bad percentage in %q", ErrParse, raw)
	}
	if pct <= 0 || math.IsInf(pct, 0) {
		return token{}, fmt.Errorf("%w: percentage in %q must be positive", ErrParse, raw)
	}
	tok.percent = pct
	tok.given = true
	return tok, nil
}

func known(code string) bool {
	if _, ok := compounds[code]; ok {
		return true
	}
	_, ok := atoms[code]
	return ok
}

// resolve returns the normalized element fractions of one compound code
// or bare element.
func resolve(code string) ([]Element, float64, error) {
	if cp, ok := compounds[code]; ok {
		n := 0.0
		for _, ac := range cp.atoms {
			n += ac.count
		}
		out := make([]Element, 0, len(cp.atoms))
		for _, ac := range cp.atoms {
			a := atoms[ac.symbol]
			out = append(out, Element{Symbol: a.Symbol, A: a.A, Z: a.Z, Fraction: ac.count / n})
		}
		return out, cp.density, nil
	}
	if a, ok := atoms[code]; ok {
		return []Element{{Symbol: a.Symbol, A: a.A, Z: a.Z, Fraction: 1}}, a.Density, nil
	}
	return nil, 0, fmt.Errorf("%w: unknown compound or element %q", ErrParse, code)
}

func (c Composition) Name() string     { return c.name }
func (c Composition) Density() float64 { return c.density }
func (c Composition) MeanA() float64   { return c.meanA }
func (c Composition) MeanZ() float64   { return c.meanZ }
func (c Composition) Len() int         { return len(c.elements) }

// Elements returns a copy of the constituent list in first-appearance order.
func (c Composition) Elements() []Element {
	out := make([]Element, len(c.elements))
	copy(out, c.elements)
	return out
}

// Fraction returns the mole fraction of symbol, or 0 if absent.
func (c Composition) Fraction(symbol string) float64 {
	for _, e := range c.elements {
		if e.Symbol == symbol {
			return e.Fraction
		}
	}
	return 0
}

// NumberDensities converts a mass density in g/cm³ into per-element ion
// number densities (cm⁻³, aligned with Elements) and the electron density
// of the fully ionized material.
func (c Composition) NumberDensities(rho float64) (ions []float64, electrons float64) {
	ions = make([]float64, len(c.elements))
	if c.meanA == 0 {
		return ions, 0
	}
	n := rho / (c.meanA * amuGrams)
	for i, e := range c.elements {
		ions[i] = e.Fraction * n
		electrons += e.Z * ions[i]
	}
	return ions, electrons
}

func (c Composition) String() string {
	var b strings.Builder
	b.WriteString(c.name)
	b.WriteString(" [")
	for i, e := range c.elements {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s:%.4f", e.Symbol, e.Fraction)
	}
	fmt.Fprintf(&b, "] %.3f g/cc", c.density)
	return b.String()
}
