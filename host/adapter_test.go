package host

import (
	"path/filepath"
	"testing"

	"github.com/2tbmz9y2xt-lang/issuance-protocol/program"
)

// varClock is a settable test Clock, letting a single test advance
// time between adapter calls without constructing a new Adapter.
type varClock struct{ now int64 }

func (c *varClock) Now() int64 { return c.now }

func fill(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func tag(b byte) [32]byte {
	var out [32]byte
	out[0] = b
	return out
}

type adapterHarness struct {
	t                 *testing.T
	store             *Store
	engine            *program.Engine
	clock             *varClock
	adapter           *Adapter
	assetSubprogramID [32]byte
	platformAuthority [32]byte
	lockAssetID       [32]byte
	rewardAssetID     [32]byte
}

func newAdapterHarness(t *testing.T) *adapterHarness {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	h := &adapterHarness{
		t:                 t,
		store:             store,
		assetSubprogramID: fill(2),
		platformAuthority: fill(3),
		lockAssetID:       fill(4),
		rewardAssetID:     fill(5),
		clock:             &varClock{},
	}
	h.engine = &program.Engine{
		Hasher:            program.SHA3Hasher{},
		ProgramID:         fill(1),
		AssetSubprogramID: h.assetSubprogramID,
		PlatformAuthority: h.platformAuthority,
	}
	h.adapter = NewAdapter(store, h.engine, h.clock)
	return h
}

func (h *adapterHarness) createVault(addr, assetID, authority [32]byte) {
	h.t.Helper()
	if err := h.store.CreateAssetAccount(addr, AssetAccount{AssetType: assetID, Authority: authority, OwnerProgram: h.assetSubprogramID, Balance: 0}); err != nil {
		h.t.Fatalf("create vault %x: %v", addr, err)
	}
}

func (h *adapterHarness) createFundedVault(addr, assetID, authority [32]byte, balance uint64) {
	h.t.Helper()
	if err := h.store.CreateAssetAccount(addr, AssetAccount{AssetType: assetID, Authority: authority, OwnerProgram: h.assetSubprogramID, Balance: balance}); err != nil {
		h.t.Fatalf("create funded vault %x: %v", addr, err)
	}
}

func TestAdapterEndToEndClaim(t *testing.T) {
	h := newAdapterHarness(t)

	startTs := int64(10)
	maturityTs := startTs + 86400
	params := program.InitIssuanceParams{ReserveTotal: program.U128FromUint64(1000), StartTs: startTs, MaturityTs: maturityTs}
	issuanceAddr, _, err := program.DeriveIssuanceAddress(h.engine.Hasher, h.engine.ProgramID, h.platformAuthority, startTs, params.ReserveTotal)
	if err != nil {
		t.Fatalf("derive issuance address: %v", err)
	}

	depositVault := tag(0x10)
	rewardVault := tag(0x11)
	platformSink := tag(0x12)
	h.createVault(depositVault, h.lockAssetID, issuanceAddr)
	h.createVault(rewardVault, h.rewardAssetID, issuanceAddr)
	h.createVault(platformSink, h.rewardAssetID, tag(0xf0))

	h.clock.now = 1
	rec, err := h.adapter.InitIssuance(InitIssuanceRequest{
		Payer: h.platformAuthority, PayerIsSigner: true,
		IssuanceAddr: issuanceAddr, LockAssetID: h.lockAssetID, RewardAssetID: h.rewardAssetID,
		DepositVaultAddr: depositVault, RewardVaultAddr: rewardVault, PlatformSinkAddr: platformSink,
		Params: params,
	})
	if err != nil {
		t.Fatalf("InitIssuance: %v", err)
	}

	fundSource := tag(0x20)
	h.createFundedVault(fundSource, h.rewardAssetID, tag(0xaa), 1000)
	rec, err = h.adapter.FundReserve(FundReserveRequest{IssuanceAddr: issuanceAddr, Issuer: rec.IssuerIdentity, IssuerIsSigner: true, SourceAddr: fundSource, Amount: 1000})
	if err != nil {
		t.Fatalf("FundReserve: %v", err)
	}

	participant := tag(0x30)
	participantAddr, _, err := program.DeriveParticipantAddress(h.engine.Hasher, h.engine.ProgramID, issuanceAddr, participant)
	if err != nil {
		t.Fatalf("derive participant address: %v", err)
	}
	depositSource := tag(0x31)
	h.createFundedVault(depositSource, h.lockAssetID, tag(0xbb), 100)

	h.clock.now = startTs
	_, prec, err := h.adapter.Deposit(DepositRequest{
		IssuanceAddr: issuanceAddr, Participant: participant, ParticipantIsSigner: true,
		ParticipantAddr: participantAddr, SourceAddr: depositSource, Amount: 100,
	})
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if prec.LockedAmount.Uint64() != 100 {
		t.Fatalf("expected locked_amount 100, got %d", prec.LockedAmount.Uint64())
	}

	rewardDest := tag(0x40)
	h.createVault(rewardDest, h.rewardAssetID, tag(0xcc))

	h.clock.now = maturityTs
	_, prec, err = h.adapter.ClaimReward(ClaimRewardRequest{
		IssuanceAddr: issuanceAddr, Participant: participant, ParticipantIsSigner: true,
		ParticipantAddr: participantAddr, RewardDestAddr: rewardDest,
	})
	if err != nil {
		t.Fatalf("ClaimReward: %v", err)
	}
	if !prec.RewardClaimed {
		t.Fatalf("expected reward_claimed true")
	}

	gotDest, _, err := h.store.GetAssetAccount(rewardDest)
	if err != nil {
		t.Fatalf("GetAssetAccount: %v", err)
	}
	if gotDest.Balance != 1000 {
		t.Fatalf("expected reward dest balance 1000, got %d", gotDest.Balance)
	}
	gotVault, _, err := h.store.GetAssetAccount(rewardVault)
	if err != nil {
		t.Fatalf("GetAssetAccount reward vault: %v", err)
	}
	if gotVault.Balance != 0 {
		t.Fatalf("expected reward vault drained to 0, got %d", gotVault.Balance)
	}
}

func TestAdapterEndToEndWithdrawThenSweep(t *testing.T) {
	h := newAdapterHarness(t)

	startTs := int64(10)
	maturityTs := startTs + 86400
	params := program.InitIssuanceParams{ReserveTotal: program.U128FromUint64(1000), StartTs: startTs, MaturityTs: maturityTs}
	issuanceAddr, _, err := program.DeriveIssuanceAddress(h.engine.Hasher, h.engine.ProgramID, h.platformAuthority, startTs, params.ReserveTotal)
	if err != nil {
		t.Fatalf("derive issuance address: %v", err)
	}
	depositVault := tag(0x10)
	rewardVault := tag(0x11)
	platformSink := tag(0x12)
	h.createVault(depositVault, h.lockAssetID, issuanceAddr)
	h.createVault(rewardVault, h.rewardAssetID, issuanceAddr)
	h.createVault(platformSink, h.rewardAssetID, tag(0xf0))

	h.clock.now = 1
	rec, err := h.adapter.InitIssuance(InitIssuanceRequest{
		Payer: h.platformAuthority, PayerIsSigner: true,
		IssuanceAddr: issuanceAddr, LockAssetID: h.lockAssetID, RewardAssetID: h.rewardAssetID,
		DepositVaultAddr: depositVault, RewardVaultAddr: rewardVault, PlatformSinkAddr: platformSink,
		Params: params,
	})
	if err != nil {
		t.Fatalf("InitIssuance: %v", err)
	}
	fundSource := tag(0x20)
	h.createFundedVault(fundSource, h.rewardAssetID, tag(0xaa), 1000)
	if _, err := h.adapter.FundReserve(FundReserveRequest{IssuanceAddr: issuanceAddr, Issuer: rec.IssuerIdentity, IssuerIsSigner: true, SourceAddr: fundSource, Amount: 1000}); err != nil {
		t.Fatalf("FundReserve: %v", err)
	}

	participant := tag(0x30)
	participantAddr, _, _ := program.DeriveParticipantAddress(h.engine.Hasher, h.engine.ProgramID, issuanceAddr, participant)
	depositSource := tag(0x31)
	h.createFundedVault(depositSource, h.lockAssetID, tag(0xbb), 100)
	h.clock.now = startTs
	if _, _, err := h.adapter.Deposit(DepositRequest{IssuanceAddr: issuanceAddr, Participant: participant, ParticipantIsSigner: true, ParticipantAddr: participantAddr, SourceAddr: depositSource, Amount: 100}); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	lockDest := tag(0x50)
	h.createVault(lockDest, h.lockAssetID, tag(0xdd))
	h.clock.now = maturityTs
	_, prec, err := h.adapter.WithdrawDeposit(WithdrawDepositRequest{IssuanceAddr: issuanceAddr, Participant: participant, ParticipantIsSigner: true, ParticipantAddr: participantAddr, LockDestAddr: lockDest})
	if err != nil {
		t.Fatalf("WithdrawDeposit: %v", err)
	}
	if !prec.LockedAmount.IsZero() {
		t.Fatalf("expected locked_amount zero after withdraw")
	}
	gotLockDest, _, _ := h.store.GetAssetAccount(lockDest)
	if gotLockDest.Balance != 100 {
		t.Fatalf("expected lock dest balance 100, got %d", gotLockDest.Balance)
	}

	h.clock.now = maturityTs + program.ClaimWindowSeconds
	rec, err = h.adapter.Sweep(SweepRequest{IssuanceAddr: issuanceAddr, PlatformSinkAddr: platformSink})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if !rec.SweepExecuted {
		t.Fatalf("expected sweep_executed true")
	}
	gotSink, _, _ := h.store.GetAssetAccount(platformSink)
	if gotSink.Balance != 1000 {
		t.Fatalf("expected platform sink to receive 1000, got %d", gotSink.Balance)
	}
}

func TestAdapterZeroParticipationReclaim(t *testing.T) {
	h := newAdapterHarness(t)

	startTs := int64(10)
	maturityTs := startTs + 86400
	params := program.InitIssuanceParams{ReserveTotal: program.U128FromUint64(1000), StartTs: startTs, MaturityTs: maturityTs}
	issuanceAddr, _, err := program.DeriveIssuanceAddress(h.engine.Hasher, h.engine.ProgramID, h.platformAuthority, startTs, params.ReserveTotal)
	if err != nil {
		t.Fatalf("derive issuance address: %v", err)
	}
	depositVault := tag(0x10)
	rewardVault := tag(0x11)
	platformSink := tag(0x12)
	h.createVault(depositVault, h.lockAssetID, issuanceAddr)
	h.createVault(rewardVault, h.rewardAssetID, issuanceAddr)
	h.createVault(platformSink, h.rewardAssetID, tag(0xf0))

	h.clock.now = 1
	rec, err := h.adapter.InitIssuance(InitIssuanceRequest{
		Payer: h.platformAuthority, PayerIsSigner: true,
		IssuanceAddr: issuanceAddr, LockAssetID: h.lockAssetID, RewardAssetID: h.rewardAssetID,
		DepositVaultAddr: depositVault, RewardVaultAddr: rewardVault, PlatformSinkAddr: platformSink,
		Params: params,
	})
	if err != nil {
		t.Fatalf("InitIssuance: %v", err)
	}
	fundSource := tag(0x20)
	h.createFundedVault(fundSource, h.rewardAssetID, tag(0xaa), 1000)
	if _, err := h.adapter.FundReserve(FundReserveRequest{IssuanceAddr: issuanceAddr, Issuer: rec.IssuerIdentity, IssuerIsSigner: true, SourceAddr: fundSource, Amount: 1000}); err != nil {
		t.Fatalf("FundReserve: %v", err)
	}

	reclaimDest := tag(0x60)
	h.createVault(reclaimDest, h.rewardAssetID, tag(0xee))
	h.clock.now = maturityTs
	rec, err = h.adapter.ZeroParticipationReclaim(ZeroParticipationReclaimRequest{IssuanceAddr: issuanceAddr, Issuer: rec.IssuerIdentity, IssuerIsSigner: true, RewardDestAddr: reclaimDest})
	if err != nil {
		t.Fatalf("ZeroParticipationReclaim: %v", err)
	}
	if !rec.ReclaimExecuted {
		t.Fatalf("expected reclaim_executed true")
	}
	gotDest, _, _ := h.store.GetAssetAccount(reclaimDest)
	if gotDest.Balance != 1000 {
		t.Fatalf("expected reclaim dest balance 1000, got %d", gotDest.Balance)
	}
}
