// Package delay provides a whole-frame multichannel delay line.
//
// Frames are stored in preallocated slots; the delay is measured in
// frames, not samples. An extra slot beyond the maximum delay lets a
// zero-frame delay share input and output buffers.
package delay
