package program

// InitIssuance is Op 1 of SPEC_FULL.md §4.5. The issuer identity of the
// created record is the platform account itself: the Engine's
// PlatformAuthority is the only signer Init ever accepts, so the
// issuer of every issuance this Engine creates is that same
// authority.
//
// issuanceAccountExists reports whether the supplied issuance account
// is already owned by this program (i.e. already initialized); the
// host is responsible for determining this externally (account size
// and owner), since the program performs no I/O.
func (e *Engine) InitIssuance(
	payerPlatform AccountMeta,
	issuanceAccount AccountMeta,
	issuanceAccountExists bool,
	lockAssetID [32]byte,
	rewardAssetID [32]byte,
	depositVaultAddr [32]byte,
	rewardVaultAddr [32]byte,
	platformSinkAddr [32]byte,
	params InitIssuanceParams,
) (*IssuanceRecord, error) {
	const op = "InitIssuance"

	if err := ValidateSigner(op, payerPlatform); err != nil {
		return nil, err
	}
	if err := ValidatePlatformAuthority(op, payerPlatform.Address, e.PlatformAuthority); err != nil {
		return nil, err
	}
	if params.ReserveTotal.IsZero() {
		return nil, perr(op, InvalidAmount, "reserve_total must be greater than zero")
	}
	if issuanceAccountExists {
		return nil, perr(op, InvalidEscrowAccount, "issuance account already initialized")
	}

	rec := &IssuanceRecord{
		Version:          RecordVersion,
		IssuerIdentity:   payerPlatform.Address,
		LockAssetID:      lockAssetID,
		RewardAssetID:    rewardAssetID,
		DepositVaultAddr: depositVaultAddr,
		RewardVaultAddr:  rewardVaultAddr,
		PlatformSinkAddr: platformSinkAddr,
		ReserveTotal:     params.ReserveTotal,
		StartTs:          params.StartTs,
		MaturityTs:       params.MaturityTs,
		ClaimWindow:      ClaimWindowSeconds,
		FinalDayIndex:    FinalDayIndex(params.StartTs, params.MaturityTs),
	}

	addr, nonce, err := DeriveIssuanceAddress(e.Hasher, e.ProgramID, rec.IssuerIdentity, rec.StartTs, rec.ReserveTotal)
	if err != nil {
		return nil, err
	}
	if addr != issuanceAccount.Address {
		return nil, perr(op, InvalidAddressBinding, "issuance account address does not match derived address")
	}
	rec.DerivationNonce = nonce

	return rec, nil
}
