package program

// ZeroParticipationReclaim is Op 7 of SPEC_FULL.md §4.5.
//
// The spec's stated error cases for this op omit a distinct code for
// "now < maturity_ts," even though that is one of its preconditions.
// WithdrawDeposit already establishes DepositWindowNotClosed for the
// identical predicate (now < maturity_ts); by the same pattern the
// spec uses to justify Sweep reusing ClaimWindowClosed, this op reuses
// DepositWindowNotClosed rather than inventing a new code.
func (e *Engine) ZeroParticipationReclaim(
	issuanceAddr [32]byte,
	issuanceAccount AccountMeta,
	rec *IssuanceRecord,
	issuer AccountMeta,
	issuerRewardDest VaultMeta,
	rewardVault VaultMeta,
	now int64,
) (*IssuanceRecord, TransferSpec, error) {
	const op = "ZeroParticipationReclaim"

	if err := e.validateIssuanceAccount(op, rec, issuanceAccount); err != nil {
		return nil, TransferSpec{}, err
	}
	if err := ValidateSigner(op, issuer); err != nil {
		return nil, TransferSpec{}, err
	}
	if issuer.Address != rec.IssuerIdentity {
		return nil, TransferSpec{}, perr(op, UnauthorizedCaller, "initiator is not the issuer")
	}
	if now < rec.MaturityTs {
		return nil, TransferSpec{}, perr(op, DepositWindowNotClosed, "issuance has not matured")
	}
	if rec.ReclaimExecuted {
		return nil, TransferSpec{}, perr(op, ReclaimAlreadyExecuted, "reclaim already executed")
	}
	if err := e.validateVault(op, rewardVault, issuanceAddr, rec.RewardAssetID); err != nil {
		return nil, TransferSpec{}, err
	}
	if err := ValidateAssetSubprogram(op, issuerRewardDest, e.AssetSubprogramID); err != nil {
		return nil, TransferSpec{}, err
	}
	if err := ValidateVaultAssetType(op, issuerRewardDest, rec.RewardAssetID); err != nil {
		return nil, TransferSpec{}, err
	}

	if _, err := FinalizeGlobal(op, rec, now); err != nil {
		return nil, TransferSpec{}, err
	}
	if !rec.TotalWeightAccum.IsZero() {
		return nil, TransferSpec{}, perr(op, NoParticipation, "participation exists; reclaim is not applicable")
	}

	rec.ReclaimExecuted = true

	transfer := TransferSpec{
		Source:            rewardVault.Address,
		Dest:              issuerRewardDest.Address,
		Authority:         issuanceAddr,
		ProgramSigned:     true,
		FullBalance:       true,
		ZeroBalancePolicy: ZeroBalanceError,
	}
	return rec, transfer, nil
}
