package reconcile

import (
	"ynab-privacy-sync/internal/privacy"
)

// FindAndConsume scans the pool in its current order for the first
// transaction whose amount equals target and whose merchant descriptor is
// usable text. The matched record is removed from the pool so that duplicate
// amounts each claim a distinct issuer record.
//
// Records missing an amount or a textual descriptor are skipped in place;
// they are ineligible, not errors. When nothing matches the pool is left
// unchanged and ok is false.
func FindAndConsume(target int64, pool *[]privacy.Transaction) (string, bool) {
	for i, txn := range *pool {
		if txn.Amount == nil || *txn.Amount != target {
			continue
		}
		descriptor, ok := txn.Descriptor()
		if !ok {
			continue
		}
		*pool = append((*pool)[:i], (*pool)[i+1:]...)
		return descriptor, true
	}
	return "", false
}
