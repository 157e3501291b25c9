package program

// Engine binds the LifecycleEngine handlers (SPEC_FULL.md §4.5) to the
// program's own identity and the platform authority. PlatformAuthority
// is an ordinary field set by whoever constructs the Engine (the CLI
// takes it from a flag); it is not a compile-time constant.
// It performs no I/O. The handlers update the records passed to them
// in place, and on an error return those records may already be
// partly updated.
type Engine struct {
	Hasher            AddressHasher
	ProgramID         [32]byte
	AssetSubprogramID [32]byte
	PlatformAuthority [32]byte
}

// ZeroBalancePolicy tells the host adapter how to treat a FullBalance
// transfer whose vault balance is currently zero.
type ZeroBalancePolicy int

const (
	// ZeroBalanceNoop: succeed without issuing a transfer (Sweep).
	ZeroBalanceNoop ZeroBalancePolicy = iota
	// ZeroBalanceError: fail the whole operation (ZeroParticipationReclaim).
	ZeroBalanceError
)

// TransferSpec describes the single external asset-subprogram transfer
// an operation requires, computed after every record mutation has
// already happened in memory. The host adapter is responsible for
// persisting the mutated records and then performing this transfer
// inside one atomic transaction, per SPEC_FULL.md §5's
// mutation-before-transfer ordering.
type TransferSpec struct {
	Source    [32]byte
	Dest      [32]byte
	Authority [32]byte
	// ProgramSigned is true when Authority is the issuance-derived
	// address and the host must supply the issuance's signer seeds
	// (derivation_nonce) rather than a wallet signature.
	ProgramSigned bool
	// Amount is the transfer quantity when FullBalance is false.
	Amount uint64
	// FullBalance requests "transfer the vault's entire current
	// balance" (Sweep, ZeroParticipationReclaim); Amount is ignored.
	FullBalance       bool
	ZeroBalancePolicy ZeroBalancePolicy
}

func (e *Engine) validateIssuanceAccount(op string, rec *IssuanceRecord, acc AccountMeta) error {
	if err := ValidateOwnedByProgram(op, acc, e.ProgramID); err != nil {
		return err
	}
	return ValidateIssuanceIdentity(op, e.Hasher, e.ProgramID, rec, acc.Address)
}

func (e *Engine) validateParticipantAccount(op string, prec *ParticipantRecord, acc AccountMeta) error {
	if err := ValidateOwnedByProgram(op, acc, e.ProgramID); err != nil {
		return err
	}
	return ValidateParticipantIdentity(op, e.Hasher, e.ProgramID, prec, acc.Address)
}

func (e *Engine) validateVault(op string, vault VaultMeta, issuanceAddr [32]byte, expectedAssetID [32]byte) error {
	if err := ValidateAssetSubprogram(op, vault, e.AssetSubprogramID); err != nil {
		return err
	}
	if err := ValidateVaultAssetType(op, vault, expectedAssetID); err != nil {
		return err
	}
	return ValidateVaultAuthority(op, vault, issuanceAddr)
}
