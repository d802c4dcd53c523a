package ledger

const (
	// Per-account storage overhead charged on top of the data length.
	accountStorageOverhead = 128

	lamportsPerByteYear     = 3480
	exemptionThresholdYears = 2
)

// RentExemptLamports returns the minimum balance an account with dataLen
// bytes of data must hold to persist.
func RentExemptLamports(dataLen int) uint64 {
	return uint64(accountStorageOverhead+dataLen) * lamportsPerByteYear * exemptionThresholdYears
}
