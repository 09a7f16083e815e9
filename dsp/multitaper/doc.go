// Package multitaper estimates power spectra with sinusoidal tapers.
//
// Instead of windowing the input K times, the K sinusoidal tapers are
// computed implicitly from a single zero-padded real FFT of twice the
// output size: the m-th taper's periodogram at bin b is reconstructed
// from the padded bins 2b-m and 2b+m. An optional adaptive pass
// re-estimates the taper count per bin from the local curvature of the
// first estimate.
package multitaper
