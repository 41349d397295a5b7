// Package observables derives thermodynamic estimates from a committed
// Monte Carlo trajectory.
//
// The two primary estimators are [Pressure] (virial route) and
// [Widom.ChemicalPotential] (test-particle insertion); both consume the
// trajectory read-only and restrict themselves to a [Window] so burn-in
// can be excluded. [Autocorrelation] and [IntegratedTime] diagnose how
// long that burn-in should be.
package observables
