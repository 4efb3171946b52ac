package reconcile

import "errors"

// ErrMalformedListing marks a raw record that carries no identifying
// information: both company and role empty after cleanup. Such records are
// dropped and logged, never stored.
var ErrMalformedListing = errors.New("listing has no company or role")

// ErrRunInFlight is returned by Run when another run on the same Reconciler
// has not finished yet. Overlapping runs would race each other's view of the
// stored key set and trip the store's duplicate check.
var ErrRunInFlight = errors.New("a reconciliation run is already in flight")
