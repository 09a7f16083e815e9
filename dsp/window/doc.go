// Package window provides tapered analysis windows with cached coefficient
// tables and gain compensation.
//
// All windows are evaluated on the periodic grid i/N (FFT framing), not the
// symmetric grid i/(N-1). A Processor caches its coefficient table keyed by
// (size, type, sqrt) and precomputes the linear and squared coefficient
// means so that gain compensation costs one multiply per sample.
package window
