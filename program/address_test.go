package program

import "testing"

func testProgramID() [32]byte {
	var id [32]byte
	for i := range id {
		id[i] = byte(i + 1)
	}
	return id
}

func TestDeriveIssuanceAddressDeterministic(t *testing.T) {
	hasher := SHA3Hasher{}
	programID := testProgramID()
	var issuer [32]byte
	issuer[0] = 0x42

	addr1, nonce1, err := DeriveIssuanceAddress(hasher, programID, issuer, 10, U128FromUint64(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	addr2, nonce2, err := DeriveIssuanceAddress(hasher, programID, issuer, 10, U128FromUint64(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr1 != addr2 || nonce1 != nonce2 {
		t.Fatalf("expected deterministic derivation, got (%x,%d) vs (%x,%d)", addr1, nonce1, addr2, nonce2)
	}
}

func TestDeriveIssuanceAddressSensitiveToSeeds(t *testing.T) {
	hasher := SHA3Hasher{}
	programID := testProgramID()
	var issuer [32]byte
	issuer[0] = 0x42

	addrA, _, _ := DeriveIssuanceAddress(hasher, programID, issuer, 10, U128FromUint64(1000))
	addrB, _, _ := DeriveIssuanceAddress(hasher, programID, issuer, 11, U128FromUint64(1000))
	if addrA == addrB {
		t.Fatalf("expected different start_ts to yield different address")
	}
}

func TestVerifyIssuanceAddressRejectsSeedMutation(t *testing.T) {
	// S7: derive with reversed start_ts endianness, supply that
	// account, expect InvalidAddressBinding.
	hasher := SHA3Hasher{}
	programID := testProgramID()
	rec := &IssuanceRecord{
		IssuerIdentity: [32]byte{0x42},
		StartTs:        10,
		ReserveTotal:   U128FromUint64(1000),
	}
	addr, nonce, err := DeriveIssuanceAddress(hasher, programID, rec.IssuerIdentity, rec.StartTs, rec.ReserveTotal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec.DerivationNonce = nonce

	// Correct binding succeeds.
	if err := VerifyIssuanceAddress(hasher, programID, rec, addr); err != nil {
		t.Fatalf("expected correct binding to verify, got %v", err)
	}

	// Mutate start_ts endianness by swapping to a different value
	// entirely (the simplest observable stand-in for "reversed
	// endianness yields a different seed"), then verify it's rejected.
	mutated := *rec
	mutated.StartTs = 0x0a00000000000000 // byte-reversed 10 as an 8-byte LE field
	if err := VerifyIssuanceAddress(hasher, programID, &mutated, addr); CodeOf(err) != InvalidAddressBinding {
		t.Fatalf("expected InvalidAddressBinding for mutated seed, got %v", err)
	}
}

func TestDeriveParticipantAddressDeterministic(t *testing.T) {
	hasher := SHA3Hasher{}
	programID := testProgramID()
	var issuanceAddr, participant [32]byte
	issuanceAddr[0] = 1
	participant[0] = 2

	addr1, nonce1, err := DeriveParticipantAddress(hasher, programID, issuanceAddr, participant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	addr2, nonce2, err := DeriveParticipantAddress(hasher, programID, issuanceAddr, participant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr1 != addr2 || nonce1 != nonce2 {
		t.Fatalf("expected deterministic derivation")
	}
}
