package program

import "encoding/binary"

// Offsets mirror SPEC_FULL.md §3 exactly; changing any of them changes
// the wire format.
const (
	offVersion          = 0
	offDerivationNonce  = 1
	offIssuerIdentity   = 2
	offLockAssetID      = 34
	offRewardAssetID    = 66
	offDepositVaultAddr = 98
	offRewardVaultAddr  = 130
	offPlatformSink     = 162
	offReserveTotal     = 194
	offStartTs          = 210
	offMaturityTs       = 218
	offClaimWindow      = 226
	offFinalDayIndex    = 234
	offTotalLocked      = 242
	offTotalWeightAccum = 258
	offLastDayIndex     = 274
	offReserveFunded    = 282
	offSweepExecuted    = 283
	offReclaimExecuted  = 284
	// offReservedIssuance = 285, length 7, zero

	pOffVersion             = 0
	pOffDerivationNonce     = 1
	pOffIssuanceRef         = 2
	pOffParticipantIdentity = 34
	pOffLockedAmount        = 66
	pOffUserWeightAccum     = 82
	pOffUserLastDayIndex    = 98
	pOffRewardClaimed       = 106
	// pOffReserved = 107, length 5, zero
)

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// EncodeIssuance serializes rec to its byte-exact 292-byte wire form.
func EncodeIssuance(rec *IssuanceRecord) []byte {
	out := make([]byte, IssuanceRecordSize)
	out[offVersion] = rec.Version
	out[offDerivationNonce] = rec.DerivationNonce
	copy(out[offIssuerIdentity:offIssuerIdentity+32], rec.IssuerIdentity[:])
	copy(out[offLockAssetID:offLockAssetID+32], rec.LockAssetID[:])
	copy(out[offRewardAssetID:offRewardAssetID+32], rec.RewardAssetID[:])
	copy(out[offDepositVaultAddr:offDepositVaultAddr+32], rec.DepositVaultAddr[:])
	copy(out[offRewardVaultAddr:offRewardVaultAddr+32], rec.RewardVaultAddr[:])
	copy(out[offPlatformSink:offPlatformSink+32], rec.PlatformSinkAddr[:])
	putU128(out[offReserveTotal:offReserveTotal+16], rec.ReserveTotal)
	binary.LittleEndian.PutUint64(out[offStartTs:offStartTs+8], uint64(rec.StartTs))
	binary.LittleEndian.PutUint64(out[offMaturityTs:offMaturityTs+8], uint64(rec.MaturityTs))
	binary.LittleEndian.PutUint64(out[offClaimWindow:offClaimWindow+8], uint64(rec.ClaimWindow))
	binary.LittleEndian.PutUint64(out[offFinalDayIndex:offFinalDayIndex+8], rec.FinalDayIndex)
	putU128(out[offTotalLocked:offTotalLocked+16], rec.TotalLocked)
	putU128(out[offTotalWeightAccum:offTotalWeightAccum+16], rec.TotalWeightAccum)
	binary.LittleEndian.PutUint64(out[offLastDayIndex:offLastDayIndex+8], rec.LastDayIndex)
	out[offReserveFunded] = boolByte(rec.ReserveFunded)
	out[offSweepExecuted] = boolByte(rec.SweepExecuted)
	out[offReclaimExecuted] = boolByte(rec.ReclaimExecuted)
	// bytes 285..292 left zero: reserved padding.
	return out
}

// DecodeIssuance parses a byte-exact 292-byte buffer into an
// IssuanceRecord. Fails with InvalidRecordSize/InvalidRecordVersion per
// SPEC_FULL.md §4.3; reserved padding is read but never validated.
func DecodeIssuance(buf []byte) (*IssuanceRecord, error) {
	if len(buf) != IssuanceRecordSize {
		return nil, perr("DecodeIssuance", InvalidRecordSize, "issuance record size mismatch")
	}
	if buf[offVersion] != RecordVersion {
		return nil, perr("DecodeIssuance", InvalidRecordVersion, "unsupported issuance record version")
	}
	rec := &IssuanceRecord{
		Version:         buf[offVersion],
		DerivationNonce: buf[offDerivationNonce],
	}
	copy(rec.IssuerIdentity[:], buf[offIssuerIdentity:offIssuerIdentity+32])
	copy(rec.LockAssetID[:], buf[offLockAssetID:offLockAssetID+32])
	copy(rec.RewardAssetID[:], buf[offRewardAssetID:offRewardAssetID+32])
	copy(rec.DepositVaultAddr[:], buf[offDepositVaultAddr:offDepositVaultAddr+32])
	copy(rec.RewardVaultAddr[:], buf[offRewardVaultAddr:offRewardVaultAddr+32])
	copy(rec.PlatformSinkAddr[:], buf[offPlatformSink:offPlatformSink+32])
	rec.ReserveTotal = U128FromBytes16(buf[offReserveTotal : offReserveTotal+16])
	rec.StartTs = int64(binary.LittleEndian.Uint64(buf[offStartTs : offStartTs+8]))
	rec.MaturityTs = int64(binary.LittleEndian.Uint64(buf[offMaturityTs : offMaturityTs+8]))
	rec.ClaimWindow = int64(binary.LittleEndian.Uint64(buf[offClaimWindow : offClaimWindow+8]))
	rec.FinalDayIndex = binary.LittleEndian.Uint64(buf[offFinalDayIndex : offFinalDayIndex+8])
	rec.TotalLocked = U128FromBytes16(buf[offTotalLocked : offTotalLocked+16])
	rec.TotalWeightAccum = U128FromBytes16(buf[offTotalWeightAccum : offTotalWeightAccum+16])
	rec.LastDayIndex = binary.LittleEndian.Uint64(buf[offLastDayIndex : offLastDayIndex+8])
	rec.ReserveFunded = buf[offReserveFunded] != 0
	rec.SweepExecuted = buf[offSweepExecuted] != 0
	rec.ReclaimExecuted = buf[offReclaimExecuted] != 0
	return rec, nil
}

// EncodeParticipant serializes rec to its byte-exact 112-byte wire form.
func EncodeParticipant(rec *ParticipantRecord) []byte {
	out := make([]byte, ParticipantRecordSize)
	out[pOffVersion] = rec.Version
	out[pOffDerivationNonce] = rec.DerivationNonce
	copy(out[pOffIssuanceRef:pOffIssuanceRef+32], rec.IssuanceRef[:])
	copy(out[pOffParticipantIdentity:pOffParticipantIdentity+32], rec.ParticipantIdentity[:])
	putU128(out[pOffLockedAmount:pOffLockedAmount+16], rec.LockedAmount)
	putU128(out[pOffUserWeightAccum:pOffUserWeightAccum+16], rec.UserWeightAccum)
	binary.LittleEndian.PutUint64(out[pOffUserLastDayIndex:pOffUserLastDayIndex+8], rec.UserLastDayIndex)
	out[pOffRewardClaimed] = boolByte(rec.RewardClaimed)
	// bytes 107..112 left zero: reserved padding.
	return out
}

// DecodeParticipant parses a byte-exact 112-byte buffer into a
// ParticipantRecord.
func DecodeParticipant(buf []byte) (*ParticipantRecord, error) {
	if len(buf) != ParticipantRecordSize {
		return nil, perr("DecodeParticipant", InvalidRecordSize, "participant record size mismatch")
	}
	if buf[pOffVersion] != RecordVersion {
		return nil, perr("DecodeParticipant", InvalidRecordVersion, "unsupported participant record version")
	}
	rec := &ParticipantRecord{
		Version:         buf[pOffVersion],
		DerivationNonce: buf[pOffDerivationNonce],
	}
	copy(rec.IssuanceRef[:], buf[pOffIssuanceRef:pOffIssuanceRef+32])
	copy(rec.ParticipantIdentity[:], buf[pOffParticipantIdentity:pOffParticipantIdentity+32])
	rec.LockedAmount = U128FromBytes16(buf[pOffLockedAmount : pOffLockedAmount+16])
	rec.UserWeightAccum = U128FromBytes16(buf[pOffUserWeightAccum : pOffUserWeightAccum+16])
	rec.UserLastDayIndex = binary.LittleEndian.Uint64(buf[pOffUserLastDayIndex : pOffUserLastDayIndex+8])
	rec.RewardClaimed = buf[pOffRewardClaimed] != 0
	return rec, nil
}

func putU128(dst []byte, v U128) {
	b := v.Bytes16()
	copy(dst, b[:])
}
