package host

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/2tbmz9y2xt-lang/issuance-protocol/program"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketIssuance    = []byte("issuance_by_address")
	bucketParticipant = []byte("participant_by_address")
	bucketAsset       = []byte("asset_account_by_address")
)

// AssetAccount is the reference asset-subprogram record this store
// keeps for every vault and wallet address it has seen: asset type,
// authority, owning program, and balance. It stands in for the
// external fungible-asset subprogram SPEC_FULL.md §4.6 assumes is
// supplied by the host environment.
type AssetAccount struct {
	AssetType    [32]byte
	Authority    [32]byte
	OwnerProgram [32]byte
	Balance      uint64
}

// Store is the bbolt-backed persistence layer for issuance records,
// participant records, and reference asset accounts, all three kept
// in one database so a single bolt transaction can mutate records and
// move balances atomically.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if absent) the bbolt database at path and
// ensures its buckets exist.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("host: datapath required")
	}
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketIssuance, bucketParticipant, bucketAsset} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// GetIssuance reads the issuance record at addr outside any write
// transaction.
func (s *Store) GetIssuance(addr [32]byte) (*program.IssuanceRecord, bool, error) {
	var rec *program.IssuanceRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		rec, err = getIssuance(tx, addr)
		return err
	})
	return rec, rec != nil, err
}

// GetParticipant reads the participant record at addr outside any
// write transaction.
func (s *Store) GetParticipant(addr [32]byte) (*program.ParticipantRecord, bool, error) {
	var rec *program.ParticipantRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		rec, err = getParticipant(tx, addr)
		return err
	})
	return rec, rec != nil, err
}

// GetAssetAccount reads the asset account at addr outside any write
// transaction.
func (s *Store) GetAssetAccount(addr [32]byte) (*AssetAccount, bool, error) {
	var acc *AssetAccount
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		acc, err = getAssetAccount(tx, addr)
		return err
	})
	return acc, acc != nil, err
}

// CreateAssetAccount seeds an asset account — deposit/reward vaults
// and participant wallets all need to exist before the engine will
// recognize them. In production this is the external asset
// subprogram's job; this store plays that role for the reference
// implementation.
func (s *Store) CreateAssetAccount(addr [32]byte, acc AssetAccount) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return putAssetAccount(tx, addr, &acc)
	})
}

// Tx is a write transaction exposing typed get/put helpers over the
// three buckets. Adapter handlers read state, call into the program
// engine, and persist the mutated records and transfer effects all
// inside one Tx — the mutation-before-transfer ordering of
// SPEC_FULL.md §5 with no gap an external observer could catch
// mid-operation.
type Tx struct {
	tx *bolt.Tx
}

// Update runs fn inside one bbolt write transaction.
func (s *Store) Update(fn func(*Tx) error) error {
	return s.db.Update(func(btx *bolt.Tx) error {
		return fn(&Tx{tx: btx})
	})
}

func (t *Tx) GetIssuance(addr [32]byte) (*program.IssuanceRecord, bool, error) {
	rec, err := getIssuance(t.tx, addr)
	return rec, rec != nil, err
}

func (t *Tx) PutIssuance(addr [32]byte, rec *program.IssuanceRecord) error {
	return t.tx.Bucket(bucketIssuance).Put(addr[:], program.EncodeIssuance(rec))
}

func (t *Tx) GetParticipant(addr [32]byte) (*program.ParticipantRecord, bool, error) {
	rec, err := getParticipant(t.tx, addr)
	return rec, rec != nil, err
}

func (t *Tx) PutParticipant(addr [32]byte, rec *program.ParticipantRecord) error {
	return t.tx.Bucket(bucketParticipant).Put(addr[:], program.EncodeParticipant(rec))
}

func (t *Tx) GetAssetAccount(addr [32]byte) (*AssetAccount, bool, error) {
	acc, err := getAssetAccount(t.tx, addr)
	return acc, acc != nil, err
}

func (t *Tx) PutAssetAccount(addr [32]byte, acc *AssetAccount) error {
	return putAssetAccount(t.tx, addr, acc)
}

// Transfer applies a program.TransferSpec against the ledger: it
// debits Source and credits Dest by Amount, or by Source's entire
// balance when FullBalance is set. A ProgramSigned transfer requires
// Source's on-file authority to equal issuanceAddr; any other transfer
// requires it to equal spec.Authority.
func (t *Tx) Transfer(spec program.TransferSpec, issuanceAddr [32]byte) error {
	source, ok, err := t.GetAssetAccount(spec.Source)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("host: transfer source account %x not found", spec.Source)
	}
	dest, ok, err := t.GetAssetAccount(spec.Dest)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("host: transfer dest account %x not found", spec.Dest)
	}

	if spec.ProgramSigned {
		if source.Authority != issuanceAddr {
			return fmt.Errorf("host: program-signed transfer authority mismatch")
		}
	} else if source.Authority != spec.Authority {
		return fmt.Errorf("host: transfer authority mismatch")
	}

	amount := spec.Amount
	if spec.FullBalance {
		amount = source.Balance
		if amount == 0 {
			switch spec.ZeroBalancePolicy {
			case program.ZeroBalanceNoop:
				return nil
			default:
				return &program.ProgramError{Code: program.InvalidAmount, Op: "Transfer", Msg: "transfer source has zero balance"}
			}
		}
	}
	if source.Balance < amount {
		return fmt.Errorf("host: transfer source balance %d below amount %d", source.Balance, amount)
	}

	source.Balance -= amount
	dest.Balance += amount
	if err := t.PutAssetAccount(spec.Source, source); err != nil {
		return err
	}
	return t.PutAssetAccount(spec.Dest, dest)
}

func getIssuance(tx *bolt.Tx, addr [32]byte) (*program.IssuanceRecord, error) {
	v := tx.Bucket(bucketIssuance).Get(addr[:])
	if v == nil {
		return nil, nil
	}
	return program.DecodeIssuance(v)
}

func getParticipant(tx *bolt.Tx, addr [32]byte) (*program.ParticipantRecord, error) {
	v := tx.Bucket(bucketParticipant).Get(addr[:])
	if v == nil {
		return nil, nil
	}
	return program.DecodeParticipant(v)
}

func getAssetAccount(tx *bolt.Tx, addr [32]byte) (*AssetAccount, error) {
	v := tx.Bucket(bucketAsset).Get(addr[:])
	if v == nil {
		return nil, nil
	}
	return decodeAssetAccount(v)
}

func putAssetAccount(tx *bolt.Tx, addr [32]byte, acc *AssetAccount) error {
	return tx.Bucket(bucketAsset).Put(addr[:], encodeAssetAccount(acc))
}

// assetAccountSize: asset_type 32 | authority 32 | owner_program 32 | balance u64le.
const assetAccountSize = 32 + 32 + 32 + 8

func encodeAssetAccount(acc *AssetAccount) []byte {
	buf := make([]byte, assetAccountSize)
	copy(buf[0:32], acc.AssetType[:])
	copy(buf[32:64], acc.Authority[:])
	copy(buf[64:96], acc.OwnerProgram[:])
	binary.LittleEndian.PutUint64(buf[96:104], acc.Balance)
	return buf
}

func decodeAssetAccount(buf []byte) (*AssetAccount, error) {
	if len(buf) != assetAccountSize {
		return nil, fmt.Errorf("host: asset account record has wrong size %d", len(buf))
	}
	acc := &AssetAccount{}
	copy(acc.AssetType[:], buf[0:32])
	copy(acc.Authority[:], buf[32:64])
	copy(acc.OwnerProgram[:], buf[64:96])
	acc.Balance = binary.LittleEndian.Uint64(buf[96:104])
	return acc, nil
}
