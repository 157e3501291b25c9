package program

// Sweep is Op 6 of SPEC_FULL.md §4.5. Per the spec's explicit
// resolution of its own ambiguity: the time-gate-not-yet-open failure
// reuses ClaimWindowClosed (no distinct SweepWindowNotStarted code is
// introduced), and an empty reward vault is a successful no-op that
// still sets the sweep_executed latch (ZeroBalanceNoop below).
func (e *Engine) Sweep(
	issuanceAddr [32]byte,
	issuanceAccount AccountMeta,
	rec *IssuanceRecord,
	rewardVault VaultMeta,
	platformSink AccountMeta,
	now int64,
) (*IssuanceRecord, TransferSpec, error) {
	const op = "Sweep"

	if err := e.validateIssuanceAccount(op, rec, issuanceAccount); err != nil {
		return nil, TransferSpec{}, err
	}
	if now < rec.MaturityTs+rec.ClaimWindow {
		return nil, TransferSpec{}, perr(op, ClaimWindowClosed, "sweep window has not opened")
	}
	if rec.SweepExecuted {
		return nil, TransferSpec{}, perr(op, SweepAlreadyExecuted, "sweep already executed")
	}
	if err := e.validateVault(op, rewardVault, issuanceAddr, rec.RewardAssetID); err != nil {
		return nil, TransferSpec{}, err
	}
	if err := ValidatePlatformSink(op, platformSink.Address, rec.PlatformSinkAddr); err != nil {
		return nil, TransferSpec{}, err
	}

	if _, err := FinalizeGlobal(op, rec, now); err != nil {
		return nil, TransferSpec{}, err
	}
	if rec.TotalWeightAccum.IsZero() {
		return nil, TransferSpec{}, perr(op, NoParticipation, "no participation to sweep against")
	}

	rec.SweepExecuted = true

	transfer := TransferSpec{
		Source:            rewardVault.Address,
		Dest:              platformSink.Address,
		Authority:         issuanceAddr,
		ProgramSigned:     true,
		FullBalance:       true,
		ZeroBalancePolicy: ZeroBalanceNoop,
	}
	return rec, transfer, nil
}
