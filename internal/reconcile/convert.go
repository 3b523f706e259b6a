package reconcile

// MilliunitsToCents converts YNAB's signed milliunit amount to the unsigned
// cent encoding Privacy.com uses. YNAB represents a $71.88 outflow as
// -71880; Privacy.com represents the same charge as 7188. The sign is
// dropped and the final milliunit digit is truncated, never rounded.
func MilliunitsToCents(amount int64) int64 {
	if amount < 0 {
		amount = -amount
	}
	return amount / 10
}
