package program

// WithdrawDeposit is Op 5 of SPEC_FULL.md §4.5. Withdraw is independent
// of the claim latch: finalizing accumulators here is still required
// so the weight ledger is closed correctly before Sweep.
func (e *Engine) WithdrawDeposit(
	issuanceAddr [32]byte,
	issuanceAccount AccountMeta,
	rec *IssuanceRecord,
	participant AccountMeta,
	participantAccount AccountMeta,
	prec *ParticipantRecord,
	lockDest VaultMeta,
	depositVault VaultMeta,
	now int64,
) (*IssuanceRecord, *ParticipantRecord, TransferSpec, error) {
	const op = "WithdrawDeposit"

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
		return nil, nil, TransferSpec{}, perr(op, DepositWindowNotClosed, "deposit window has not closed")
	}
	if prec.LockedAmount.IsZero() {
		return nil, nil, TransferSpec{}, perr(op, InvalidAmount, "nothing to withdraw")
	}
	if err := e.validateVault(op, depositVault, issuanceAddr, rec.LockAssetID); err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if err := ValidateAssetSubprogram(op, lockDest, e.AssetSubprogramID); err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if err := ValidateVaultAssetType(op, lockDest, rec.LockAssetID); err != nil {
		return nil, nil, TransferSpec{}, err
	}

	current, err := FinalizeGlobal(op, rec, now)
	if err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if err := AdvanceUser(op, prec, current); err != nil {
		return nil, nil, TransferSpec{}, err
	}

	amount := prec.LockedAmount
	if !amount.IsUint64() {
		return nil, nil, TransferSpec{}, perr(op, InvariantViolation, "locked_amount exceeds representable transfer amount")
	}
	newTotalLocked, err := rec.TotalLocked.Sub(op, amount)
	if err != nil {
		return nil, nil, TransferSpec{}, err
	}
	rec.TotalLocked = newTotalLocked
	prec.LockedAmount = U128FromUint64(0)

	transfer := TransferSpec{
		Source:        depositVault.Address,
		Dest:          lockDest.Address,
		Authority:     issuanceAddr,
		ProgramSigned: true,
		Amount:        amount.Uint64(),
	}
	return rec, prec, transfer, nil
}
