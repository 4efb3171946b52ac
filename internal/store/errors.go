package store

import "errors"

// ErrDuplicateKey is returned when an append would introduce an identity key
// that is already stored. The reconciler filters duplicates before calling
// AppendAll, so hitting this is an invariant violation, not a merge.
var ErrDuplicateKey = errors.New("listing key already stored")
