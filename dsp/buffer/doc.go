// Package buffer provides a reusable float64 buffer type for
// allocation-friendly DSP processing. DSP functions in this module accept
// raw []float64 slices; Buffer is a convenience that lets capacity-bound
// components resize a view over preallocated storage without churning
// the allocator.
package buffer
