package program

// AccountMeta is the subset of an externally supplied account's
// metadata the validator needs: its address, the program that owns
// (has write authority over) it, and whether it signed the current
// transaction. Balances and other asset-subprogram state live in the
// host package, not here — this package only ever reasons about
// bytes and identities.
type AccountMeta struct {
	Address      [32]byte
	OwnerProgram [32]byte
	IsSigner     bool
}

// VaultMeta extends AccountMeta with the two fields the external
// asset subprogram reports for any asset account: its asset type and
// its authority (the identity allowed to move funds out of it).
type VaultMeta struct {
	AccountMeta
	AssetType [32]byte
	Authority [32]byte
}

// ValidateSigner enforces the "signer flag" check of SPEC_FULL.md §4.4:
// the nominal initiator of an operation must have signed it.
func ValidateSigner(op string, acc AccountMeta) error {
	if !acc.IsSigner {
		return perr(op, UnauthorizedCaller, "initiator did not sign")
	}
	return nil
}

// ValidatePlatformAuthority enforces the Init-only platform gate: the
// signer's identity must equal the Engine's configured platform
// authority.
func ValidatePlatformAuthority(op string, signerIdentity, platformAuthority [32]byte) error {
	if signerIdentity != platformAuthority {
		return perr(op, UnauthorizedCaller, "initiator is not the platform authority")
	}
	return nil
}

// ValidateOwnedByProgram checks an account (issuance record,
// participant record, or vault) is owned by the expected program,
// surfacing InvalidEscrowAccount — the same code SPEC_FULL.md's Op 1
// uses for "account already used," generalized to any ownership
// mismatch on a program-owned account.
func ValidateOwnedByProgram(op string, acc AccountMeta, expectedOwner [32]byte) error {
	if acc.OwnerProgram != expectedOwner {
		return perr(op, InvalidEscrowAccount, "account not owned by expected program")
	}
	return nil
}

// ValidateAssetSubprogram checks a vault is owned by the external
// fungible-asset subprogram.
func ValidateAssetSubprogram(op string, vault VaultMeta, expectedAssetSubprogram [32]byte) error {
	if vault.OwnerProgram != expectedAssetSubprogram {
		return perr(op, InvalidAssetSubprogram, "vault not owned by the asset subprogram")
	}
	return nil
}

// ValidateVaultAssetType checks a vault's asset type matches the
// issuance's stored asset id for that vault's role (lock or reward).
func ValidateVaultAssetType(op string, vault VaultMeta, expectedAssetID [32]byte) error {
	if vault.AssetType != expectedAssetID {
		return perr(op, InvalidAssetType, "vault asset type mismatch")
	}
	return nil
}

// ValidateVaultAuthority checks a vault's authority equals the
// issuance's derived address, i.e. the vault is controlled by this
// issuance and no other.
func ValidateVaultAuthority(op string, vault VaultMeta, issuanceAddr [32]byte) error {
	if vault.Authority != issuanceAddr {
		return perr(op, InvalidAuthority, "vault authority does not match issuance address")
	}
	return nil
}

// ValidatePlatformSink checks the supplied platform-sink account
// matches the issuance's stored platform_sink_addr.
func ValidatePlatformSink(op string, supplied, stored [32]byte) error {
	if supplied != stored {
		return perr(op, InvalidPlatformTreasury, "platform sink does not match stored address")
	}
	return nil
}

// ValidateParticipantCrossRef checks the cross-reference invariant of
// SPEC_FULL.md §4.4: the participant record's issuance_ref equals the
// issuance address, and its participant_identity equals the signer.
func ValidateParticipantCrossRef(op string, rec *ParticipantRecord, issuanceAddr [32]byte, signerIdentity [32]byte) error {
	if rec.IssuanceRef != issuanceAddr {
		return perr(op, InvalidUserRecord, "participant record issuance_ref mismatch")
	}
	if rec.ParticipantIdentity != signerIdentity {
		return perr(op, InvalidUserRecord, "participant record participant_identity mismatch")
	}
	return nil
}

// ValidateIssuanceIdentity binds the supplied issuance account's
// address to the address deterministically derivable from its own
// immutable fields and stored nonce (SPEC_FULL.md §4.2/§4.4).
func ValidateIssuanceIdentity(op string, hasher AddressHasher, programID [32]byte, rec *IssuanceRecord, suppliedAddr [32]byte) error {
	if err := VerifyIssuanceAddress(hasher, programID, rec, suppliedAddr); err != nil {
		return perr(op, InvalidAddressBinding, err.(*ProgramError).Msg)
	}
	return nil
}

// ValidateParticipantIdentity binds the supplied participant account's
// address to the address deterministically derivable from its own
// immutable fields and stored nonce.
func ValidateParticipantIdentity(op string, hasher AddressHasher, programID [32]byte, rec *ParticipantRecord, suppliedAddr [32]byte) error {
	if err := VerifyParticipantAddress(hasher, programID, rec, suppliedAddr); err != nil {
		return perr(op, InvalidAddressBinding, err.(*ProgramError).Msg)
	}
	return nil
}
