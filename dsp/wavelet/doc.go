// Package wavelet implements the periodic discrete wavelet transform with
// configurable analysis/synthesis filter pairs.
//
// Analysis filters are stored in reversed order relative to the
// mathematical convolution kernel, so the decomposition is expressed as a
// correlation against the stored coefficients. The matched high-pass is
// derived from the low-pass by index reversal with an alternating sign
// flip: high[i] = low[L-1-i] * (-1)^i. Use SetAnalysisKernel to pass
// convolution-convention coefficients and have them reversed internally.
package wavelet
