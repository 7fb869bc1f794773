package permute

import "github.com/twmb/murmur3"

// Hasher produces the 32-bit fingerprint used for Selection hashes.
//
// The hasher is an explicit capability of the Manager rather than process
// state, so engines can substitute their own implementation.
type Hasher func(data []byte) uint32

// DefaultHasher is MurmurHash3 x86_32 with seed zero.
func DefaultHasher(data []byte) uint32 {
	return murmur3.Sum32(data)
}
