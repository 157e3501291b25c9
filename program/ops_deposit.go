package program

// Deposit is Op 3 of SPEC_FULL.md §4.5. existing is nil when the
// participant record does not yet exist and must be allocated; when
// non-nil, participantAccount must already be identity-bound to it.
func (e *Engine) Deposit(
	issuanceAddr [32]byte,
	issuanceAccount AccountMeta,
	rec *IssuanceRecord,
	participant AccountMeta,
	participantAccount AccountMeta,
	existing *ParticipantRecord,
	source VaultMeta,
	depositVault VaultMeta,
	params DepositParams,
	now int64,
) (*IssuanceRecord, *ParticipantRecord, TransferSpec, error) {
	const op = "Deposit"

	if err := e.validateIssuanceAccount(op, rec, issuanceAccount); err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if params.Amount == 0 {
		return nil, nil, TransferSpec{}, perr(op, InvalidAmount, "deposit amount must be greater than zero")
	}
	if !rec.ReserveFunded {
		return nil, nil, TransferSpec{}, perr(op, ReserveNotFunded, "reserve not yet funded")
	}
	if now < rec.StartTs {
		return nil, nil, TransferSpec{}, perr(op, DepositWindowNotStarted, "deposit window has not started")
	}
	if now >= rec.MaturityTs {
		return nil, nil, TransferSpec{}, perr(op, DepositWindowClosed, "deposit window has closed")
	}
	if err := ValidateSigner(op, participant); err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if err := e.validateVault(op, depositVault, issuanceAddr, rec.LockAssetID); err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if err := ValidateAssetSubprogram(op, source, e.AssetSubprogramID); err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if err := ValidateVaultAssetType(op, source, rec.LockAssetID); err != nil {
		return nil, nil, TransferSpec{}, err
	}

	var prec *ParticipantRecord
	if existing == nil {
		addr, nonce, err := DeriveParticipantAddress(e.Hasher, e.ProgramID, issuanceAddr, participant.Address)
		if err != nil {
			return nil, nil, TransferSpec{}, err
		}
		if addr != participantAccount.Address {
			return nil, nil, TransferSpec{}, perr(op, InvalidAddressBinding, "participant account address does not match derived address")
		}
		prec = &ParticipantRecord{
			Version:             RecordVersion,
			DerivationNonce:     nonce,
			IssuanceRef:         issuanceAddr,
			ParticipantIdentity: participant.Address,
			UserLastDayIndex:    rec.LastDayIndex,
		}
	} else {
		if err := e.validateParticipantAccount(op, existing, participantAccount); err != nil {
			return nil, nil, TransferSpec{}, err
		}
		if err := ValidateParticipantCrossRef(op, existing, issuanceAddr, participant.Address); err != nil {
			return nil, nil, TransferSpec{}, err
		}
		prec = existing
	}

	current, err := FinalizeGlobal(op, rec, now)
	if err != nil {
		return nil, nil, TransferSpec{}, err
	}
	if err := AdvanceUser(op, prec, current); err != nil {
		return nil, nil, TransferSpec{}, err
	}

	amount := U128FromUint64(params.Amount)
	newTotalLocked, err := rec.TotalLocked.Add(op, amount)
	if err != nil {
		return nil, nil, TransferSpec{}, err
	}
	newLocked, err := prec.LockedAmount.Add(op, amount)
	if err != nil {
		return nil, nil, TransferSpec{}, err
	}
	rec.TotalLocked = newTotalLocked
	prec.LockedAmount = newLocked

	transfer := TransferSpec{
		Source:    source.Address,
		Dest:      depositVault.Address,
		Authority: participant.Address,
		Amount:    params.Amount,
	}
	return rec, prec, transfer, nil
}
