// Package stopping defines the stopping-power capability consumed by the
// areal-density model and ships reference implementations of it.
//
// A [Model] is a factory: given a test particle and a [Field] of
// field-particle species (mass, charge, temperature, number density) it
// returns a [Calculator] that reports the local loss rate, the energy left
// after a path length, and the energy interval it is valid over.
//
// Units throughout: energies in MeV, path lengths in µm, temperatures in
// keV, number densities in cm⁻³, masses in amu.
//
// # Reference models
//
//   - [Constant]: fixed loss per µm regardless of medium
//   - [Proportional]: loss proportional to the traversed areal density
//   - [Plasma]: fully ionized plasma stopping, integrated along the path
//
// Models are looked up by name through a [Registry].
package stopping
