package collision

// EncodePair packs two shape indices into one key, a in the high 32 bits.
func EncodePair(a, b int) uint64 {
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

func DecodePair(k uint64) (int, int) {
	return int(k >> 32), int(k & 0xffffffff)
}
