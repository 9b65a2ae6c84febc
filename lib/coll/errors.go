package coll

import "errors"

// Error taxonomy shared by every container of this module.
// Callers distinguish them by errors.Is, the returned errors may be
// wrapped with the offending key or types.
var (
	ErrIllegalRange           = errors.New("[coll] key or range out of bounds")
	ErrComparison             = errors.New("[coll] keys are not mutually comparable")
	ErrEmptyCollection        = errors.New("[coll] there is no element")
	ErrConcurrentModification = errors.New("[coll] concurrent modification")
	ErrIllegalIteratorState   = errors.New("[coll] illegal iterator state")
	ErrNoSuchElement          = errors.New("[coll] no such element")
	ErrUnsupportedOperation   = errors.New("[coll] unsupported operation")
	ErrNotSorted              = errors.New("[coll] sequence is not strictly ascending")
	ErrIllegalArgument        = errors.New("[coll] illegal argument")
)
