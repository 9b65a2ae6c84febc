package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
type Float interface {
	~float32 | ~float64
}

// OrderedKey is the set of key types with an intrinsic total order.
// byte => ~uint8
// Complex numbers are excluded, the complex plane has no natural order.
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedCompare is the intrinsic order of OrderedKey.
// Assume i is the new key.
//  1. i == j, return 0
//  2. i > j, return 1, turn to right part.
//  3. i < j, return -1, turn to left part.
//
// NaN is ordered before every other float and equal to itself,
// otherwise a tree keyed by floats would lose the NaN entries.
func OrderedCompare[K OrderedKey](i, j K) int64 {
	iNaN, jNaN := isNaN(i), isNaN(j)
	switch {
	case iNaN && jNaN:
		return 0
	case iNaN:
		return -1
	case jNaN:
		return 1
	case i < j:
		return -1
	case i > j:
		return 1
	}
	return 0
}

func isNaN[K OrderedKey](k K) bool {
	// Only NaN is not equal to itself.
	return k != k
}
