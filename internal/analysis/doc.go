// Package analysis provides chaos and frequency analysis for simulation
// output.
//
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [LyapunovSpectrum]: separation rate per perturbed state component
//   - [PowerSpectrum], [DominantFrequency]: FFT of a sampled series
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(st.Dynamics(), integ, st.Vector(), dt, duration, 1e-8)
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
