package host

import (
	"path/filepath"
	"testing"

	"github.com/2tbmz9y2xt-lang/issuance-protocol/program"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestIssuanceRecordRoundTrip(t *testing.T) {
	s := openTestStore(t)
	addr := [32]byte{1}
	rec := &program.IssuanceRecord{
		Version:       program.RecordVersion,
		ReserveTotal:  program.U128FromUint64(1000),
		StartTs:       10,
		MaturityTs:    20,
		ClaimWindow:   program.ClaimWindowSeconds,
		FinalDayIndex: 1,
	}
	if err := s.Update(func(tx *Tx) error { return tx.PutIssuance(addr, rec) }); err != nil {
		t.Fatalf("PutIssuance: %v", err)
	}
	got, ok, err := s.GetIssuance(addr)
	if err != nil || !ok {
		t.Fatalf("GetIssuance: ok=%v err=%v", ok, err)
	}
	if *got != *rec {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", got, rec)
	}
}

func TestParticipantRecordRoundTrip(t *testing.T) {
	s := openTestStore(t)
	addr := [32]byte{2}
	rec := &program.ParticipantRecord{
		Version:      program.RecordVersion,
		LockedAmount: program.U128FromUint64(100),
	}
	if err := s.Update(func(tx *Tx) error { return tx.PutParticipant(addr, rec) }); err != nil {
		t.Fatalf("PutParticipant: %v", err)
	}
	got, ok, err := s.GetParticipant(addr)
	if err != nil || !ok {
		t.Fatalf("GetParticipant: ok=%v err=%v", ok, err)
	}
	if *got != *rec {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", got, rec)
	}
}

func TestAssetAccountRoundTrip(t *testing.T) {
	s := openTestStore(t)
	addr := [32]byte{3}
	acc := AssetAccount{AssetType: [32]byte{9}, Authority: [32]byte{8}, OwnerProgram: [32]byte{7}, Balance: 42}
	if err := s.CreateAssetAccount(addr, acc); err != nil {
		t.Fatalf("CreateAssetAccount: %v", err)
	}
	got, ok, err := s.GetAssetAccount(addr)
	if err != nil || !ok {
		t.Fatalf("GetAssetAccount: ok=%v err=%v", ok, err)
	}
	if *got != acc {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", got, acc)
	}
}

func TestTransferHappyPath(t *testing.T) {
	s := openTestStore(t)
	source := [32]byte{1}
	dest := [32]byte{2}
	authority := [32]byte{3}
	if err := s.CreateAssetAccount(source, AssetAccount{Authority: authority, Balance: 100}); err != nil {
		t.Fatalf("create source: %v", err)
	}
	if err := s.CreateAssetAccount(dest, AssetAccount{Authority: [32]byte{4}, Balance: 0}); err != nil {
		t.Fatalf("create dest: %v", err)
	}

	spec := program.TransferSpec{Source: source, Dest: dest, Authority: authority, Amount: 40}
	if err := s.Update(func(tx *Tx) error { return tx.Transfer(spec, [32]byte{}) }); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	gotSource, _, _ := s.GetAssetAccount(source)
	gotDest, _, _ := s.GetAssetAccount(dest)
	if gotSource.Balance != 60 {
		t.Fatalf("expected source balance 60, got %d", gotSource.Balance)
	}
	if gotDest.Balance != 40 {
		t.Fatalf("expected dest balance 40, got %d", gotDest.Balance)
	}
}

func TestTransferRejectsAuthorityMismatch(t *testing.T) {
	s := openTestStore(t)
	source := [32]byte{1}
	dest := [32]byte{2}
	if err := s.CreateAssetAccount(source, AssetAccount{Authority: [32]byte{5}, Balance: 100}); err != nil {
		t.Fatalf("create source: %v", err)
	}
	if err := s.CreateAssetAccount(dest, AssetAccount{Balance: 0}); err != nil {
		t.Fatalf("create dest: %v", err)
	}

	spec := program.TransferSpec{Source: source, Dest: dest, Authority: [32]byte{6}, Amount: 10}
	if err := s.Update(func(tx *Tx) error { return tx.Transfer(spec, [32]byte{}) }); err == nil {
		t.Fatalf("expected authority mismatch error")
	}
	gotSource, _, _ := s.GetAssetAccount(source)
	if gotSource.Balance != 100 {
		t.Fatalf("expected balance unchanged at 100, got %d", gotSource.Balance)
	}
}

func TestTransferFullBalanceZeroNoop(t *testing.T) {
	s := openTestStore(t)
	issuanceAddr := [32]byte{9}
	source := [32]byte{1}
	dest := [32]byte{2}
	if err := s.CreateAssetAccount(source, AssetAccount{Authority: issuanceAddr, Balance: 0}); err != nil {
		t.Fatalf("create source: %v", err)
	}
	if err := s.CreateAssetAccount(dest, AssetAccount{Balance: 0}); err != nil {
		t.Fatalf("create dest: %v", err)
	}

	spec := program.TransferSpec{Source: source, Dest: dest, ProgramSigned: true, FullBalance: true, ZeroBalancePolicy: program.ZeroBalanceNoop}
	if err := s.Update(func(tx *Tx) error { return tx.Transfer(spec, issuanceAddr) }); err != nil {
		t.Fatalf("expected zero-balance no-op to succeed, got %v", err)
	}
}

func TestTransferFullBalanceZeroError(t *testing.T) {
	s := openTestStore(t)
	issuanceAddr := [32]byte{9}
	source := [32]byte{1}
	dest := [32]byte{2}
	if err := s.CreateAssetAccount(source, AssetAccount{Authority: issuanceAddr, Balance: 0}); err != nil {
		t.Fatalf("create source: %v", err)
	}
	if err := s.CreateAssetAccount(dest, AssetAccount{Balance: 0}); err != nil {
		t.Fatalf("create dest: %v", err)
	}

	spec := program.TransferSpec{Source: source, Dest: dest, ProgramSigned: true, FullBalance: true, ZeroBalancePolicy: program.ZeroBalanceError}
	if err := s.Update(func(tx *Tx) error { return tx.Transfer(spec, issuanceAddr) }); err == nil {
		t.Fatalf("expected zero-balance error")
	}
}
