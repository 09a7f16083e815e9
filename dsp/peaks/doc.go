// Package peaks finds local maxima in power spectra.
//
// A bin is a peak when it strictly exceeds its two neighbours on either
// side. Peak frequency and amplitude are refined by fitting a parabola
// through the three central bins; each peak also records the bin of the
// preceding local minimum so callers can segment the spectrum.
package peaks
