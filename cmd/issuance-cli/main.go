// Command issuance-cli operates a single issuance program instance
// against a local bbolt datastore: it initializes issuances, funds
// reserves, records deposits, and drives claims, withdrawals, sweeps,
// and zero-participation reclaims, one subcommand per
// SPEC_FULL.md §4.5 operation.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/2tbmz9y2xt-lang/issuance-protocol/crypto"
	"github.com/2tbmz9y2xt-lang/issuance-protocol/host"
	"github.com/2tbmz9y2xt-lang/issuance-protocol/program"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: issuance-cli <init|fund|deposit|claim|withdraw|sweep|reclaim|inspect> [flags]")
		return 2
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "init":
		return runInit(rest, stdout, stderr)
	case "fund":
		return runFund(rest, stdout, stderr)
	case "deposit":
		return runDeposit(rest, stdout, stderr)
	case "claim":
		return runClaim(rest, stdout, stderr)
	case "withdraw":
		return runWithdraw(rest, stdout, stderr)
	case "sweep":
		return runSweep(rest, stdout, stderr)
	case "reclaim":
		return runReclaim(rest, stdout, stderr)
	case "inspect":
		return runInspect(rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown subcommand %q\n", sub)
		return 2
	}
}

// commonFlags are the identity/storage flags every subcommand needs:
// where the bbolt datastore lives and which program, asset
// subprogram, and platform authority it should act as.
type commonFlags struct {
	datadir           *string
	programID         *string
	assetSubprogramID *string
	platformAuthority *string
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		datadir:           fs.String("datadir", "./data", "bbolt datastore directory"),
		programID:         fs.String("program-id", "", "hex-encoded 32-byte program id"),
		assetSubprogramID: fs.String("asset-subprogram-id", "", "hex-encoded 32-byte asset subprogram id"),
		platformAuthority: fs.String("platform-authority", "", "hex-encoded 32-byte platform authority"),
	}
}

func (c *commonFlags) openAdapter() (*host.Adapter, error) {
	programID, err := parseHex32(*c.programID)
	if err != nil {
		return nil, fmt.Errorf("program-id: %w", err)
	}
	assetSubprogramID, err := parseHex32(*c.assetSubprogramID)
	if err != nil {
		return nil, fmt.Errorf("asset-subprogram-id: %w", err)
	}
	platformAuthority, err := parseHex32(*c.platformAuthority)
	if err != nil {
		return nil, fmt.Errorf("platform-authority: %w", err)
	}
	store, err := host.Open(filepath.Join(*c.datadir, "kv.db"))
	if err != nil {
		return nil, err
	}
	engine := &program.Engine{
		Hasher:            crypto.DevStdCryptoProvider{},
		ProgramID:         programID,
		AssetSubprogramID: assetSubprogramID,
		PlatformAuthority: platformAuthority,
	}
	return host.NewAdapter(store, engine, host.SystemClock{}), nil
}

func parseHex32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("bad hex: %w", err)
	}
	if len(b) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runInit(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	payer := fs.String("payer", "", "hex-encoded platform authority, signing")
	issuanceAddr := fs.String("issuance-addr", "", "hex-encoded derived issuance address")
	lockAssetID := fs.String("lock-asset-id", "", "hex-encoded lock asset id")
	rewardAssetID := fs.String("reward-asset-id", "", "hex-encoded reward asset id")
	depositVault := fs.String("deposit-vault", "", "hex-encoded deposit vault address")
	rewardVault := fs.String("reward-vault", "", "hex-encoded reward vault address")
	platformSink := fs.String("platform-sink", "", "hex-encoded platform sink address")
	reserveTotal := fs.Uint64("reserve-total", 0, "total reward reserve, u64")
	startTs := fs.Int64("start-ts", 0, "deposit window start, unix seconds")
	maturityTs := fs.Int64("maturity-ts", 0, "maturity timestamp, unix seconds")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	adapter, err := common.openAdapter()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer adapter.Store.Close()

	req := host.InitIssuanceRequest{PayerIsSigner: true}
	for _, f := range []struct {
		hex  string
		dest *[32]byte
	}{
		{*payer, &req.Payer},
		{*issuanceAddr, &req.IssuanceAddr},
		{*lockAssetID, &req.LockAssetID},
		{*rewardAssetID, &req.RewardAssetID},
		{*depositVault, &req.DepositVaultAddr},
		{*rewardVault, &req.RewardVaultAddr},
		{*platformSink, &req.PlatformSinkAddr},
	} {
		v, err := parseHex32(f.hex)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		*f.dest = v
	}
	req.Params = program.InitIssuanceParams{
		ReserveTotal: program.U128FromUint64(*reserveTotal),
		StartTs:      *startTs,
		MaturityTs:   *maturityTs,
	}

	rec, err := adapter.InitIssuance(req)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return printResult(stdout, stderr, rec)
}

func runFund(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fund", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	issuanceAddr := fs.String("issuance-addr", "", "hex-encoded issuance address")
	issuer := fs.String("issuer", "", "hex-encoded issuer identity, signing")
	source := fs.String("source", "", "hex-encoded reward source account")
	amount := fs.Uint64("amount", 0, "funding amount, u64")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	adapter, err := common.openAdapter()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer adapter.Store.Close()

	req := host.FundReserveRequest{IssuerIsSigner: true, Amount: *amount}
	if req.IssuanceAddr, err = parseHex32(*issuanceAddr); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if req.Issuer, err = parseHex32(*issuer); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if req.SourceAddr, err = parseHex32(*source); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	rec, err := adapter.FundReserve(req)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return printResult(stdout, stderr, rec)
}

func runDeposit(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("deposit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	issuanceAddr := fs.String("issuance-addr", "", "hex-encoded issuance address")
	participant := fs.String("participant", "", "hex-encoded participant identity, signing")
	participantAddr := fs.String("participant-addr", "", "hex-encoded derived participant address")
	source := fs.String("source", "", "hex-encoded lock source account")
	amount := fs.Uint64("amount", 0, "deposit amount, u64")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	adapter, err := common.openAdapter()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer adapter.Store.Close()

	req := host.DepositRequest{ParticipantIsSigner: true, Amount: *amount}
	if req.IssuanceAddr, err = parseHex32(*issuanceAddr); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if req.Participant, err = parseHex32(*participant); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if req.ParticipantAddr, err = parseHex32(*participantAddr); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if req.SourceAddr, err = parseHex32(*source); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	_, prec, err := adapter.Deposit(req)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return printResult(stdout, stderr, prec)
}

func runClaim(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("claim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	issuanceAddr := fs.String("issuance-addr", "", "hex-encoded issuance address")
	participant := fs.String("participant", "", "hex-encoded participant identity, signing")
	participantAddr := fs.String("participant-addr", "", "hex-encoded derived participant address")
	rewardDest := fs.String("reward-dest", "", "hex-encoded reward destination account")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	adapter, err := common.openAdapter()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer adapter.Store.Close()

	req := host.ClaimRewardRequest{ParticipantIsSigner: true}
	if req.IssuanceAddr, err = parseHex32(*issuanceAddr); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if req.Participant, err = parseHex32(*participant); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if req.ParticipantAddr, err = parseHex32(*participantAddr); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if req.RewardDestAddr, err = parseHex32(*rewardDest); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	_, prec, err := adapter.ClaimReward(req)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return printResult(stdout, stderr, prec)
}

func runWithdraw(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("withdraw", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	issuanceAddr := fs.String("issuance-addr", "", "hex-encoded issuance address")
	participant := fs.String("participant", "", "hex-encoded participant identity, signing")
	participantAddr := fs.String("participant-addr", "", "hex-encoded derived participant address")
	lockDest := fs.String("lock-dest", "", "hex-encoded lock destination account")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	adapter, err := common.openAdapter()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer adapter.Store.Close()

	req := host.WithdrawDepositRequest{ParticipantIsSigner: true}
	if req.IssuanceAddr, err = parseHex32(*issuanceAddr); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if req.Participant, err = parseHex32(*participant); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if req.ParticipantAddr, err = parseHex32(*participantAddr); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if req.LockDestAddr, err = parseHex32(*lockDest); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	_, prec, err := adapter.WithdrawDeposit(req)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return printResult(stdout, stderr, prec)
}

func runSweep(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	issuanceAddr := fs.String("issuance-addr", "", "hex-encoded issuance address")
	platformSink := fs.String("platform-sink", "", "hex-encoded platform sink account")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	adapter, err := common.openAdapter()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer adapter.Store.Close()

	req := host.SweepRequest{}
	if req.IssuanceAddr, err = parseHex32(*issuanceAddr); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if req.PlatformSinkAddr, err = parseHex32(*platformSink); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	rec, err := adapter.Sweep(req)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return printResult(stdout, stderr, rec)
}

func runReclaim(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("reclaim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	issuanceAddr := fs.String("issuance-addr", "", "hex-encoded issuance address")
	issuer := fs.String("issuer", "", "hex-encoded issuer identity, signing")
	rewardDest := fs.String("reward-dest", "", "hex-encoded reward destination account")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	adapter, err := common.openAdapter()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer adapter.Store.Close()

	req := host.ZeroParticipationReclaimRequest{IssuerIsSigner: true}
	if req.IssuanceAddr, err = parseHex32(*issuanceAddr); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if req.Issuer, err = parseHex32(*issuer); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if req.RewardDestAddr, err = parseHex32(*rewardDest); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	rec, err := adapter.ZeroParticipationReclaim(req)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return printResult(stdout, stderr, rec)
}

func runInspect(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	datadir := fs.String("datadir", "./data", "bbolt datastore directory")
	issuanceAddr := fs.String("issuance-addr", "", "hex-encoded issuance address")
	participantAddr := fs.String("participant-addr", "", "hex-encoded participant address, optional")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	store, err := host.Open(filepath.Join(*datadir, "kv.db"))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer store.Close()

	addr, err := parseHex32(*issuanceAddr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	rec, ok, err := store.GetIssuance(addr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if !ok {
		fmt.Fprintln(stderr, "issuance account not found")
		return 1
	}
	if err := printJSON(stdout, rec); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *participantAddr == "" {
		return 0
	}
	paddr, err := parseHex32(*participantAddr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	prec, ok, err := store.GetParticipant(paddr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if !ok {
		fmt.Fprintln(stderr, "participant account not found")
		return 1
	}
	if err := printJSON(stdout, prec); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func printResult(stdout, stderr io.Writer, v any) int {
	if err := printJSON(stdout, v); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
