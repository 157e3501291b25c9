package program

// ClaimReward is Op 4 of SPEC_FULL.md §4.5.
func (e *Engine) ClaimReward(
	issuanceAddr [32]byte,
	issuanceAccount AccountMeta,
	rec *IssuanceRecord,
	participant AccountMeta,
	participantAccount AccountMeta,
	prec *ParticipantRecord,
	rewardDest VaultMeta,
	rewardVault VaultMeta,
	now int64,
) (*IssuanceRecord, *ParticipantRecord, TransferSpec, error) {
	const op = "ClaimReward"

	if err := e.validateIssuanceAccount(op, rec, issuanceAccount); err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if err := ValidateSigner(op, participant); err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if err := e.validateParticipantAccount(op, prec, participantAccount); err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if err := ValidateParticipantCrossRef(op, prec, issuanceAddr, participant.Address); err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if now < rec.MaturityTs {
		return nil, nil, TransferSpec{}, perr(op, ClaimWindowNotStarted, "claim window has not started")
	}
	if now >= rec.MaturityTs+rec.ClaimWindow {
		return nil, nil, TransferSpec{}, perr(op, ClaimWindowClosed, "claim window has closed")
	}
	if prec.RewardClaimed {
		return nil, nil, TransferSpec{}, perr(op, AlreadyClaimed, "reward already claimed")
	}
	if err := e.validateVault(op, rewardVault, issuanceAddr, rec.RewardAssetID); err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if err := ValidateAssetSubprogram(op, rewardDest, e.AssetSubprogramID); err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if err := ValidateVaultAssetType(op, rewardDest, rec.RewardAssetID); err != nil {
		return nil, nil, TransferSpec{}, err
	}

	current, err := FinalizeGlobal(op, rec, now)
	if err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if err := AdvanceUser(op, prec, current); err != nil {
		return nil, nil, TransferSpec{}, err
	}

	if rec.TotalWeightAccum.IsZero() {
		return nil, nil, TransferSpec{}, perr(op, NoParticipation, "no weight accumulated across all participants")
	}
	if !rec.ReserveTotal.IsUint64() {
		return nil, nil, TransferSpec{}, perr(op, InvariantViolation, "reserve_total exceeds representable range")
	}

	reward, err := rec.ReserveTotal.MulDiv(op, prec.UserWeightAccum, rec.TotalWeightAccum)
	if err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if !reward.IsUint64() {
		return nil, nil, TransferSpec{}, perr(op, ArithmeticOverflow, "reward exceeds representable transfer amount")
	}

	prec.RewardClaimed = true

	transfer := TransferSpec{
		Source:        rewardVault.Address,
		Dest:          rewardDest.Address,
		Authority:     issuanceAddr,
		ProgramSigned: true,
		Amount:        reward.Uint64(),
	}
	return rec, prec, transfer, nil
}
