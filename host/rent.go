package host

// RentEstimator reports the balance an account of a given byte size
// must carry to stay exempt from the host chain's storage-rent
// mechanism. No example in this corpus models rent (the teacher's
// chain is UTXO-based and has no per-account rent concept), so this
// is a minimal from-scratch estimator: a flat per-byte rate over the
// record size, matching the stub SPEC_FULL.md §4.6 describes, without
// pretending to model any real fee market. The CLI does not call it.
type RentEstimator struct {
	LamportsPerByteYear uint64
}

func NewRentEstimator() RentEstimator {
	return RentEstimator{LamportsPerByteYear: 6960}
}

// MinimumBalance returns the rent-exempt balance for an account of
// sizeBytes, assuming a two-year exemption horizon.
func (r RentEstimator) MinimumBalance(sizeBytes int) uint64 {
	const accountOverheadBytes = 128
	const exemptionYears = 2
	return uint64(sizeBytes+accountOverheadBytes) * r.LamportsPerByteYear * exemptionYears
}
