// Package rhor infers the areal density (ρR) of an imploding capsule from
// the energy a charged particle has left after escaping it.
//
// The target is modeled in three regions between the birth point at the
// center and the escape radius:
//
//   - fuel gas plus mixed-in shell material, radius Rcm - T/2
//   - the dense shell of in-flight thickness T centered on Rcm
//   - the ablated corona, an exponential ramp followed by a flat tail
//
// The main types are:
//
//   - [ShellConfiguration]: the physical inputs of one shot
//   - [Integrator]: exit energy and areal density at a given Rcm
//   - [Table]: Rcm marched inward until the particle ranges out, with
//     forward and inverse interpolation
//   - [Model]: configuration, integrator and table bundled together
//
// # Example
//
//	m, err := rhor.New(cfg)
//	if err != nil {
//	    return err
//	}
//	rhoR, rcm, err := m.RhoR(12.3)
//	if errors.Is(err, rhor.ErrOutOfRange) {
//	    // not computable at this energy
//	}
//
// # Units
//
// Radii and lengths in cm, pressure in atm, temperatures in keV, densities
// in g/cm³, areal densities in g/cm², energies in MeV. Path lengths handed
// to the stopping-power layer are in µm.
//
// # Thread Safety
//
// A Model is immutable once built and may be queried concurrently.
package rhor
