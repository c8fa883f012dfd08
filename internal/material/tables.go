package material

import "sort"

// Atom is one entry of the periodic table used by the parser.
type Atom struct {
	Symbol  string
	A       float64 // atomic mass in amu
	Z       float64
	Density float64 // bulk density in g/cm³ of the pure (solid or liquid) element
}

// compound lists atom counts per formula unit, in formula order.
type compound struct {
	atoms   []atomCount
	density float64
}

type atomCount struct {
	symbol string
	count  float64
}

var atoms = map[string]Atom{
	"H":   {"H", 1.00794, 1, 0.0708},
	"D":   {"D", 2.014102, 1, 0.169},
	"T":   {"T", 3.016049, 1, 0.318},
	"He":  {"He", 4.002602, 2, 0.125},
	"3He": {"3He", 3.016029, 2, 0.081},
	"Li":  {"Li", 6.941, 3, 0.534},
	"Be":  {"Be", 9.012182, 4, 1.848},
	"B":   {"B", 10.811, 5, 2.34},
	"C":   {"C", 12.0107, 6, 2.267},
	"N":   {"N", 14.0067, 7, 0.808},
	"O":   {"O", 15.9994, 8, 1.141},
	"F":   {"F", 18.998403, 9, 1.505},
	"Ne":  {"Ne", 20.1797, 10, 1.207},
	"Na":  {"Na", 22.98977, 11, 0.971},
	"Mg":  {"Mg", 24.305, 12, 1.738},
	"Al":  {"Al", 26.981538, 13, 2.699},
	"Si":  {"Si", 28.0855, 14, 2.329},
	"Cl":  {"Cl", 35.453, 17, 1.56},
	"Ar":  {"Ar", 39.948, 18, 1.40},
	"Ti":  {"Ti", 47.867, 22, 4.506},
	"Fe":  {"Fe", 55.845, 26, 7.874},
	"Cu":  {"Cu", 63.546, 29, 8.96},
	"Ge":  {"Ge", 72.64, 32, 5.323},
	"Kr":  {"Kr", 83.798, 36, 2.413},
	"Mo":  {"Mo", 95.94, 42, 10.28},
	"Ag":  {"Ag", 107.8682, 47, 10.49},
	"Xe":  {"Xe", 131.293, 54, 2.942},
	"Ta":  {"Ta", 180.9479, 73, 16.69},
	"W":   {"W", 183.84, 74, 19.25},
	"Au":  {"Au", 196.96655, 79, 19.30},
	"Pb":  {"Pb", 207.2, 82, 11.34},
	"U":   {"U", 238.02891, 92, 19.10},
}

// GDP "CH" carries about one oxygen per hundred atoms from the coating process.
var compounds = map[string]compound{
	"CH":     {[]atomCount{{"C", 43}, {"H", 56}, {"O", 1}}, 1.044},
	"CD":     {[]atomCount{{"C", 1}, {"D", 1}}, 1.12},
	"CH2":    {[]atomCount{{"C", 1}, {"H", 2}}, 0.93},
	"CD2":    {[]atomCount{{"C", 1}, {"D", 2}}, 1.06},
	"HDC":    {[]atomCount{{"C", 1}}, 3.5},
	"SiO2":   {[]atomCount{{"Si", 1}, {"O", 2}}, 2.2},
	"Mylar":  {[]atomCount{{"C", 10}, {"H", 8}, {"O", 4}}, 1.39},
	"Kapton": {[]atomCount{{"C", 22}, {"H", 10}, {"N", 2}, {"O", 5}}, 1.42},
	"B4C":    {[]atomCount{{"B", 4}, {"C", 1}}, 2.52},
	"DT":     {[]atomCount{{"D", 1}, {"T", 1}}, 0.225},
	"D2":     {[]atomCount{{"D", 1}}, 0.169},
}

// LookupAtom returns the periodic-table entry for an element symbol.
func LookupAtom(symbol string) (Atom, bool) {
	a, ok := atoms[symbol]
	return a, ok
}

// Codes lists the compound codes the parser knows, besides bare element symbols.
func Codes() []string {
	names := make([]string, 0, len(compounds))
	for name := range compounds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a single compound code or element symbol as a pure material.
func Lookup(code string) (Composition, error) {
	elems, density, err := resolve(code)
	if err != nil {
		return Composition{}, err
	}
	c := Composition{name: code, elements: elems, density: density}
	for _, e := range elems {
		c.meanA += e.Fraction * e.A
		c.meanZ += e.Fraction * e.Z
	}
	return c, nil
}
