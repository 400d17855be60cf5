package wasmhost

// Add returns a+b with unsigned 32-bit wraparound, the counter-style host contract
func Add(a, b uint32) uint32 {
	return a + b
}
