// Package denoise smooths multi-taper power spectra by wavelet shrinkage.
//
// The log power spectrum, debiased by the digamma of the taper count, is
// decomposed with a periodic DWT and its detail bands are shrunk against
// the Donoho-Johnstone universal threshold scaled by the trigamma of the
// taper count. Soft, mid and hard rules are available.
package denoise
