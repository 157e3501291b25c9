package program

// FundReserve is Op 2 of SPEC_FULL.md §4.5.
func (e *Engine) FundReserve(
	issuanceAddr [32]byte,
	issuanceAccount AccountMeta,
	rec *IssuanceRecord,
	issuer AccountMeta,
	source VaultMeta,
	rewardVault VaultMeta,
	params FundReserveParams,
	now int64,
) (*IssuanceRecord, TransferSpec, error) {
	const op = "FundReserve"

	if err := e.validateIssuanceAccount(op, rec, issuanceAccount); err != nil {
		return nil, TransferSpec{}, err
	}
	if rec.ReserveFunded {
		return nil, TransferSpec{}, perr(op, ReserveAlreadyFunded, "reserve already funded")
	}
	if err := ValidateSigner(op, issuer); err != nil {
		return nil, TransferSpec{}, err
	}
	if issuer.Address != rec.IssuerIdentity {
		return nil, TransferSpec{}, perr(op, UnauthorizedCaller, "initiator is not the issuer")
	}
	if now >= rec.StartTs {
		return nil, TransferSpec{}, perr(op, FundingWindowClosed, "funding window has closed")
	}
	// §4.5 Op 2 precondition: reserve_total must be representable as a
	// transfer amount before it can be compared against params.Amount.
	if !rec.ReserveTotal.IsUint64() {
		return nil, TransferSpec{}, perr(op, InvariantViolation, "reserve_total exceeds representable funding amount")
	}
	if params.Amount != rec.ReserveTotal.Uint64() {
		return nil, TransferSpec{}, perr(op, InvalidFundingAmount, "amount does not equal reserve_total")
	}
	if err := e.validateVault(op, rewardVault, issuanceAddr, rec.RewardAssetID); err != nil {
		return nil, TransferSpec{}, err
	}
	if err := ValidateAssetSubprogram(op, source, e.AssetSubprogramID); err != nil {
		return nil, TransferSpec{}, err
	}
	if err := ValidateVaultAssetType(op, source, rec.RewardAssetID); err != nil {
		return nil, TransferSpec{}, err
	}

	rec.ReserveFunded = true

	transfer := TransferSpec{
		Source:    source.Address,
		Dest:      rewardVault.Address,
		Authority: issuer.Address,
		Amount:    params.Amount,
	}
	return rec, transfer, nil
}
