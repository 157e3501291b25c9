package host

import (
	"fmt"

	"github.com/2tbmz9y2xt-lang/issuance-protocol/program"
)

// Adapter is the HostAdapter of SPEC_FULL.md §4.6: it owns the only
// I/O the program ever touches (clock, record store, asset ledger)
// and translates between on-disk state and the pure program.Engine
// handlers. Every method here reads state, calls exactly one Engine
// operation, and — only if that call succeeds — persists the mutated
// record(s) and applies the resulting transfer inside a single bbolt
// transaction, so a transfer failure or crash mid-write never leaves
// state half-applied.
type Adapter struct {
	Store  *Store
	Engine *program.Engine
	Clock  Clock
}

func NewAdapter(store *Store, engine *program.Engine, clock Clock) *Adapter {
	return &Adapter{Store: store, Engine: engine, Clock: clock}
}

func (a *Adapter) issuanceMeta(addr [32]byte) program.AccountMeta {
	return program.AccountMeta{Address: addr, OwnerProgram: a.Engine.ProgramID}
}

func (a *Adapter) participantMeta(addr [32]byte) program.AccountMeta {
	return program.AccountMeta{Address: addr, OwnerProgram: a.Engine.ProgramID}
}

func (a *Adapter) vaultMeta(tx *Tx, addr [32]byte) (program.VaultMeta, error) {
	acc, ok, err := tx.GetAssetAccount(addr)
	if err != nil {
		return program.VaultMeta{}, err
	}
	if !ok {
		return program.VaultMeta{}, fmt.Errorf("host: asset account %x not found", addr)
	}
	return program.VaultMeta{
		AccountMeta: program.AccountMeta{Address: addr, OwnerProgram: acc.OwnerProgram},
		AssetType:   acc.AssetType,
		Authority:   acc.Authority,
	}, nil
}

// InitIssuanceRequest carries InitIssuance's account addresses and
// parameters; payerIsSigner lets a caller exercise the signer-flag
// rejection path without a real signature stack.
type InitIssuanceRequest struct {
	Payer            [32]byte
	PayerIsSigner    bool
	IssuanceAddr     [32]byte
	LockAssetID      [32]byte
	RewardAssetID    [32]byte
	DepositVaultAddr [32]byte
	RewardVaultAddr  [32]byte
	PlatformSinkAddr [32]byte
	Params           program.InitIssuanceParams
}

func (a *Adapter) InitIssuance(req InitIssuanceRequest) (*program.IssuanceRecord, error) {
	var rec *program.IssuanceRecord
	err := a.Store.Update(func(tx *Tx) error {
		_, exists, err := tx.GetIssuance(req.IssuanceAddr)
		if err != nil {
			return err
		}
		payer := program.AccountMeta{Address: req.Payer, IsSigner: req.PayerIsSigner}
		issuanceAccount := program.AccountMeta{Address: req.IssuanceAddr}

		rec, err = a.Engine.InitIssuance(payer, issuanceAccount, exists, req.LockAssetID, req.RewardAssetID, req.DepositVaultAddr, req.RewardVaultAddr, req.PlatformSinkAddr, req.Params)
		if err != nil {
			return err
		}
		return tx.PutIssuance(req.IssuanceAddr, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type FundReserveRequest struct {
	IssuanceAddr   [32]byte
	Issuer         [32]byte
	IssuerIsSigner bool
	SourceAddr     [32]byte
	Amount         uint64
}

func (a *Adapter) FundReserve(req FundReserveRequest) (*program.IssuanceRecord, error) {
	var rec *program.IssuanceRecord
	err := a.Store.Update(func(tx *Tx) error {
		var ok bool
		var err error
		rec, ok, err = tx.GetIssuance(req.IssuanceAddr)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("host: issuance account %x not found", req.IssuanceAddr)
		}
		issuer := program.AccountMeta{Address: req.Issuer, IsSigner: req.IssuerIsSigner}
		source, err := a.vaultMeta(tx, req.SourceAddr)
		if err != nil {
			return err
		}
		rewardVault, err := a.vaultMeta(tx, rec.RewardVaultAddr)
		if err != nil {
			return err
		}

		var transfer program.TransferSpec
		rec, transfer, err = a.Engine.FundReserve(req.IssuanceAddr, a.issuanceMeta(req.IssuanceAddr), rec, issuer, source, rewardVault, program.FundReserveParams{Amount: req.Amount}, a.Clock.Now())
		if err != nil {
			return err
		}
		if err := tx.PutIssuance(req.IssuanceAddr, rec); err != nil {
			return err
		}
		if err := tx.Transfer(transfer, req.IssuanceAddr); err != nil {
			return err
		}
		// §4.5 Op 2: the reward vault must hold exactly reserve_total
		// once funding completes.
		funded, _, err := tx.GetAssetAccount(rewardVault.Address)
		if err != nil {
			return err
		}
		if funded.Balance != rec.ReserveTotal.Uint64() {
			return &program.ProgramError{Code: program.InvariantViolation, Op: "FundReserve", Msg: "reward vault balance does not equal reserve_total after funding"}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type DepositRequest struct {
	IssuanceAddr        [32]byte
	Participant         [32]byte
	ParticipantIsSigner bool
	ParticipantAddr     [32]byte
	SourceAddr          [32]byte
	Amount              uint64
}

func (a *Adapter) Deposit(req DepositRequest) (*program.IssuanceRecord, *program.ParticipantRecord, error) {
	var rec *program.IssuanceRecord
	var prec *program.ParticipantRecord
	err := a.Store.Update(func(tx *Tx) error {
		var ok bool
		var err error
		rec, ok, err = tx.GetIssuance(req.IssuanceAddr)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("host: issuance account %x not found", req.IssuanceAddr)
		}
		existing, existed, err := tx.GetParticipant(req.ParticipantAddr)
		if err != nil {
			return err
		}
		if !existed {
			existing = nil
		}
		participant := program.AccountMeta{Address: req.Participant, IsSigner: req.ParticipantIsSigner}
		participantAccount := a.participantMeta(req.ParticipantAddr)
		source, err := a.vaultMeta(tx, req.SourceAddr)
		if err != nil {
			return err
		}
		depositVault, err := a.vaultMeta(tx, rec.DepositVaultAddr)
		if err != nil {
			return err
		}

		var transfer program.TransferSpec
		rec, prec, transfer, err = a.Engine.Deposit(req.IssuanceAddr, a.issuanceMeta(req.IssuanceAddr), rec, participant, participantAccount, existing, source, depositVault, program.DepositParams{Amount: req.Amount}, a.Clock.Now())
		if err != nil {
			return err
		}
		if err := tx.PutIssuance(req.IssuanceAddr, rec); err != nil {
			return err
		}
		if err := tx.PutParticipant(req.ParticipantAddr, prec); err != nil {
			return err
		}
		return tx.Transfer(transfer, req.IssuanceAddr)
	})
	if err != nil {
		return nil, nil, err
	}
	return rec, prec, nil
}

type ClaimRewardRequest struct {
	IssuanceAddr        [32]byte
	Participant         [32]byte
	ParticipantIsSigner bool
	ParticipantAddr     [32]byte
	RewardDestAddr      [32]byte
}

func (a *Adapter) ClaimReward(req ClaimRewardRequest) (*program.IssuanceRecord, *program.ParticipantRecord, error) {
	var rec *program.IssuanceRecord
	var prec *program.ParticipantRecord
	err := a.Store.Update(func(tx *Tx) error {
		var ok bool
		var err error
		rec, ok, err = tx.GetIssuance(req.IssuanceAddr)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("host: issuance account %x not found", req.IssuanceAddr)
		}
		prec, ok, err = tx.GetParticipant(req.ParticipantAddr)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("host: participant account %x not found", req.ParticipantAddr)
		}
		participant := program.AccountMeta{Address: req.Participant, IsSigner: req.ParticipantIsSigner}
		participantAccount := a.participantMeta(req.ParticipantAddr)
		rewardDest, err := a.vaultMeta(tx, req.RewardDestAddr)
		if err != nil {
			return err
		}
		rewardVault, err := a.vaultMeta(tx, rec.RewardVaultAddr)
		if err != nil {
			return err
		}

		var transfer program.TransferSpec
		rec, prec, transfer, err = a.Engine.ClaimReward(req.IssuanceAddr, a.issuanceMeta(req.IssuanceAddr), rec, participant, participantAccount, prec, rewardDest, rewardVault, a.Clock.Now())
		if err != nil {
			return err
		}
		if err := tx.PutIssuance(req.IssuanceAddr, rec); err != nil {
			return err
		}
		if err := tx.PutParticipant(req.ParticipantAddr, prec); err != nil {
			return err
		}
		return tx.Transfer(transfer, req.IssuanceAddr)
	})
	if err != nil {
		return nil, nil, err
	}
	return rec, prec, nil
}

type WithdrawDepositRequest struct {
	IssuanceAddr        [32]byte
	Participant         [32]byte
	ParticipantIsSigner bool
	ParticipantAddr     [32]byte
	LockDestAddr        [32]byte
}

func (a *Adapter) WithdrawDeposit(req WithdrawDepositRequest) (*program.IssuanceRecord, *program.ParticipantRecord, error) {
	var rec *program.IssuanceRecord
	var prec *program.ParticipantRecord
	err := a.Store.Update(func(tx *Tx) error {
		var ok bool
		var err error
		rec, ok, err = tx.GetIssuance(req.IssuanceAddr)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("host: issuance account %x not found", req.IssuanceAddr)
		}
		prec, ok, err = tx.GetParticipant(req.ParticipantAddr)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("host: participant account %x not found", req.ParticipantAddr)
		}
		participant := program.AccountMeta{Address: req.Participant, IsSigner: req.ParticipantIsSigner}
		participantAccount := a.participantMeta(req.ParticipantAddr)
		lockDest, err := a.vaultMeta(tx, req.LockDestAddr)
		if err != nil {
			return err
		}
		depositVault, err := a.vaultMeta(tx, rec.DepositVaultAddr)
		if err != nil {
			return err
		}

		var transfer program.TransferSpec
		rec, prec, transfer, err = a.Engine.WithdrawDeposit(req.IssuanceAddr, a.issuanceMeta(req.IssuanceAddr), rec, participant, participantAccount, prec, lockDest, depositVault, a.Clock.Now())
		if err != nil {
			return err
		}
		if err := tx.PutIssuance(req.IssuanceAddr, rec); err != nil {
			return err
		}
		if err := tx.PutParticipant(req.ParticipantAddr, prec); err != nil {
			return err
		}
		return tx.Transfer(transfer, req.IssuanceAddr)
	})
	if err != nil {
		return nil, nil, err
	}
	return rec, prec, nil
}

type SweepRequest struct {
	IssuanceAddr     [32]byte
	PlatformSinkAddr [32]byte
}

func (a *Adapter) Sweep(req SweepRequest) (*program.IssuanceRecord, error) {
	var rec *program.IssuanceRecord
	err := a.Store.Update(func(tx *Tx) error {
		var ok bool
		var err error
		rec, ok, err = tx.GetIssuance(req.IssuanceAddr)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("host: issuance account %x not found", req.IssuanceAddr)
		}
		rewardVault, err := a.vaultMeta(tx, rec.RewardVaultAddr)
		if err != nil {
			return err
		}
		platformSink := program.AccountMeta{Address: req.PlatformSinkAddr}

		var transfer program.TransferSpec
		rec, transfer, err = a.Engine.Sweep(req.IssuanceAddr, a.issuanceMeta(req.IssuanceAddr), rec, rewardVault, platformSink, a.Clock.Now())
		if err != nil {
			return err
		}
		if err := tx.PutIssuance(req.IssuanceAddr, rec); err != nil {
			return err
		}
		return tx.Transfer(transfer, req.IssuanceAddr)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type ZeroParticipationReclaimRequest struct {
	IssuanceAddr   [32]byte
	Issuer         [32]byte
	IssuerIsSigner bool
	RewardDestAddr [32]byte
}

func (a *Adapter) ZeroParticipationReclaim(req ZeroParticipationReclaimRequest) (*program.IssuanceRecord, error) {
	var rec *program.IssuanceRecord
	err := a.Store.Update(func(tx *Tx) error {
		var ok bool
		var err error
		rec, ok, err = tx.GetIssuance(req.IssuanceAddr)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("host: issuance account %x not found", req.IssuanceAddr)
		}
		issuer := program.AccountMeta{Address: req.Issuer, IsSigner: req.IssuerIsSigner}
		rewardDest, err := a.vaultMeta(tx, req.RewardDestAddr)
		if err != nil {
			return err
		}
		rewardVault, err := a.vaultMeta(tx, rec.RewardVaultAddr)
		if err != nil {
			return err
		}

		var transfer program.TransferSpec
		rec, transfer, err = a.Engine.ZeroParticipationReclaim(req.IssuanceAddr, a.issuanceMeta(req.IssuanceAddr), rec, issuer, rewardDest, rewardVault, a.Clock.Now())
		if err != nil {
			return err
		}
		if err := tx.PutIssuance(req.IssuanceAddr, rec); err != nil {
			return err
		}
		return tx.Transfer(transfer, req.IssuanceAddr)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
