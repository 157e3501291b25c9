// Package program implements the time-weighted issuance accounting
// engine: the deterministic state-transition core described in
// SPEC_FULL.md. It performs no I/O; every exported function computes
// its result from its arguments alone (records, inputs, now), and the
// LifecycleEngine handlers update the records they are given in place.
package program

import "fmt"

// ErrorCode is the stable numeric error taxonomy of SPEC_FULL.md §7.
// Codes are part of the wire contract and must never be renumbered.
type ErrorCode int

const (
	InvalidInstruction ErrorCode = 0

	ReserveAlreadyFunded ErrorCode = 10
	ReserveNotFunded     ErrorCode = 11
	InvalidFundingAmount ErrorCode = 12
	FundingWindowClosed  ErrorCode = 13

	DepositWindowNotStarted ErrorCode = 20
	DepositWindowClosed     ErrorCode = 21
	DepositWindowNotClosed  ErrorCode = 22
	InvalidAmount           ErrorCode = 23

	ClaimWindowNotStarted ErrorCode = 30
	ClaimWindowClosed     ErrorCode = 31
	AlreadyClaimed        ErrorCode = 32

	SweepAlreadyExecuted   ErrorCode = 40
	ReclaimAlreadyExecuted ErrorCode = 41
	NoParticipation        ErrorCode = 42

	UnauthorizedCaller      ErrorCode = 50
	InvalidAddressBinding   ErrorCode = 51
	InvalidAssetSubprogram  ErrorCode = 52
	InvalidAssetType        ErrorCode = 53
	InvalidAuthority        ErrorCode = 54
	InvalidEscrowAccount    ErrorCode = 55
	InvalidPlatformTreasury ErrorCode = 56
	InvalidUserRecord       ErrorCode = 57

	ArithmeticOverflow  ErrorCode = 60
	ArithmeticUnderflow ErrorCode = 61
	DivisionByZero      ErrorCode = 62
	InvariantViolation  ErrorCode = 63

	InvalidRecordVersion ErrorCode = 70
	InvalidRecordSize    ErrorCode = 71
)

var codeNames = map[ErrorCode]string{
	InvalidInstruction:      "InvalidInstruction",
	ReserveAlreadyFunded:    "ReserveAlreadyFunded",
	ReserveNotFunded:        "ReserveNotFunded",
	InvalidFundingAmount:    "InvalidFundingAmount",
	FundingWindowClosed:     "FundingWindowClosed",
	DepositWindowNotStarted: "DepositWindowNotStarted",
	DepositWindowClosed:     "DepositWindowClosed",
	DepositWindowNotClosed:  "DepositWindowNotClosed",
	InvalidAmount:           "InvalidAmount",
	ClaimWindowNotStarted:   "ClaimWindowNotStarted",
	ClaimWindowClosed:       "ClaimWindowClosed",
	AlreadyClaimed:          "AlreadyClaimed",
	SweepAlreadyExecuted:    "SweepAlreadyExecuted",
	ReclaimAlreadyExecuted:  "ReclaimAlreadyExecuted",
	NoParticipation:         "NoParticipation",
	UnauthorizedCaller:      "UnauthorizedCaller",
	InvalidAddressBinding:   "InvalidAddressBinding",
	InvalidAssetSubprogram:  "InvalidAssetSubprogram",
	InvalidAssetType:        "InvalidAssetType",
	InvalidAuthority:        "InvalidAuthority",
	InvalidEscrowAccount:    "InvalidEscrowAccount",
	InvalidPlatformTreasury: "InvalidPlatformTreasury",
	InvalidUserRecord:       "InvalidUserRecord",
	ArithmeticOverflow:      "ArithmeticOverflow",
	ArithmeticUnderflow:     "ArithmeticUnderflow",
	DivisionByZero:          "DivisionByZero",
	InvariantViolation:      "InvariantViolation",
	InvalidRecordVersion:    "InvalidRecordVersion",
	InvalidRecordSize:       "InvalidRecordSize",
}

func (c ErrorCode) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// ProgramError is the error type every exported program function
// returns on failure. Op names the operation or component that
// rejected the call; Msg carries a short diagnostic, never part of
// the wire contract (only Code is).
type ProgramError struct {
	Code ErrorCode
	Op   string
	Msg  string
}

func (e *ProgramError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Msg)
}

func perr(op string, code ErrorCode, msg string) error {
	return &ProgramError{Code: code, Op: op, Msg: msg}
}

// CodeOf extracts the numeric wire code from any error produced by
// this package, or -1 if err is not a *ProgramError.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return -1
	}
	if pe, ok := err.(*ProgramError); ok {
		return pe.Code
	}
	return -1
}
