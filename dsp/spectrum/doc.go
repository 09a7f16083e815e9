// Package spectrum provides the power-spectrum carrier type and a real
// input adaptor over an external FFT kernel.
//
// The package does not implement FFT itself; plans come from the algo-fft
// backend and are treated as a black box (complex, in-place capable,
// power-of-two sizes). A Power value carries its FFT size, bin layout and
// sampling rate alongside the raw bins so downstream stages can validate
// shapes instead of guessing them.
package spectrum
