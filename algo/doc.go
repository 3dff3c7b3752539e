// Package algo computes the parameter cells of SigmaStudio audio blocks.
//
// Every function is pure: it takes human units (dB, Hz, ms, Q) and the sample
// rate, and returns the fixed-point values of the block in parameter RAM
// order. Parameters are validated first; a value outside the domain of a
// formula returns a *ParamError instead of NaN or wrapped coefficients.
//
// # Filters
//
//	eq := algo.NewSecondOrderEQ(algo.Peaking, 1000)
//	eq.Boost = 6
//	eq.Q = 2
//	cells, err := algo.SecondOrder(eq, 48000) // b0, b1, b2, -a1, -a2 (a0 = 1)
//
// SecondOrderBiquad and ToneBiquad return the raw section before
// normalization, which is useful to model the filter offline.
//
// # Compressors
//
// CompressorRMS and CompressorPeak return a CompressorParams whose Groups
// method splits the cells into the writes that are committed separately.
package algo
