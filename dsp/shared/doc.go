// Package shared provides lock-light primitives for handing buffers
// between audio and control threads.
//
// Buffer publishes a current block through an atomic pointer so audio
// threads acquire it wait-free, while resizes are serialised behind a
// spinlock. Superseded blocks stay valid for as long as a caller holds
// them; the garbage collector reclaims them once the last reference is
// gone.
package shared
