// Package stream provides multichannel ring buffers for block I/O.
//
// A Stream runs in one of two modes. Input mode keeps a history of the
// most recent samples written, read back without consuming them. Output
// mode accumulates overlapping writes and drains them in order, the way
// overlap-add processors hand blocks downstream.
package stream
