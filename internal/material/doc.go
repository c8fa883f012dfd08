// Package material resolves target material specifiers such as "CH",
// "HDC" or "CH-with-2Ge" into per-element mole fractions, atomic masses,
// atomic charges and a nominal bulk density.
//
// A specifier is a hyphen-separated list of tokens. Each token is an
// optional molecular percentage followed by a compound code or a bare
// element symbol:
//
//	CH            plain glow-discharge polymer
//	CH-with-2Ge   98% CH, 2% Ge (the first token takes the remainder)
//	70CH-30SiO2   explicit fractions for every token
//	D2-with-403He 60% D2, 40% 3He
//
// Symbols that start with a digit (3He) match before a percentage is read.
// The filler words "with" and "and" are ignored. The last token decides the
// nominal bulk density of the mixture.
package material
