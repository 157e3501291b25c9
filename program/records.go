package program

// RecordVersion is the only version this codec understands. SPEC_FULL.md
// §4.3: a version byte other than 1 is rejected before any field is
// interpreted.
const RecordVersion byte = 1

// ClaimWindowSeconds is the fixed 90-day claim window of SPEC_FULL.md §3.
const ClaimWindowSeconds int64 = 90 * 86400

// IssuanceRecordSize is the byte-exact on-wire size of IssuanceRecord.
const IssuanceRecordSize = 292

// ParticipantRecordSize is the byte-exact on-wire size of ParticipantRecord.
const ParticipantRecordSize = 112

// IssuanceRecord mirrors SPEC_FULL.md §3's IssuanceRecord layout
// field-for-field. Fields marked immutable are set once by InitIssuance
// and never rewritten.
type IssuanceRecord struct {
	Version          byte
	DerivationNonce  byte
	IssuerIdentity   [32]byte
	LockAssetID      [32]byte
	RewardAssetID    [32]byte
	DepositVaultAddr [32]byte
	RewardVaultAddr  [32]byte
	PlatformSinkAddr [32]byte
	ReserveTotal     U128
	StartTs          int64
	MaturityTs       int64
	ClaimWindow      int64
	FinalDayIndex    uint64

	TotalLocked      U128
	TotalWeightAccum U128
	LastDayIndex     uint64
	ReserveFunded    bool
	SweepExecuted    bool
	ReclaimExecuted  bool
}

// ParticipantRecord mirrors SPEC_FULL.md §3's ParticipantRecord layout.
type ParticipantRecord struct {
	Version             byte
	DerivationNonce     byte
	IssuanceRef         [32]byte
	ParticipantIdentity [32]byte
	LockedAmount        U128
	UserWeightAccum     U128
	UserLastDayIndex    uint64
	RewardClaimed       bool
}
