package domain

// ApplicationFee computes the platform cut in minor currency units.
// Integer division truncates, so the platform never over-collects at
// sub-cent boundaries.
func ApplicationFee(amount int64, feeBps int64) int64 {
	if amount <= 0 || feeBps <= 0 {
		return 0
	}
	if feeBps > 10000 {
		feeBps = 10000
	}
	return amount * feeBps / 10000
}
