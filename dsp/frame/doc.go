// Package frame drives fixed-size frame processors from arbitrary block
// sizes.
//
// The Accumulator gathers input into frames on a fractional hop grid and
// hands each frame to a caller-supplied function together with the
// sub-sample hop timing. The OverlapAdd engine additionally reconstructs
// a continuous output by overlap-adding the processed frames, with one
// frame of latency.
package frame
