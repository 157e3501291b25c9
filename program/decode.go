package program

import "encoding/binary"

// OpTag is the instruction tag byte of SPEC_FULL.md §6.
type OpTag byte

const (
	OpInitIssuance              OpTag = 0
	OpFundReserve               OpTag = 1
	OpDeposit                   OpTag = 2
	OpClaimReward               OpTag = 3
	OpWithdrawDeposit           OpTag = 4
	OpSweep                     OpTag = 5
	OpZeroParticipationReclaim OpTag = 6
)

// InitIssuanceParams decodes Op 1's payload.
type InitIssuanceParams struct {
	ReserveTotal U128
	StartTs      int64
	MaturityTs   int64
}

// FundReserveParams decodes Op 2's payload.
type FundReserveParams struct {
	Amount uint64
}

// DepositParams decodes Op 3's payload.
type DepositParams struct {
	Amount uint64
}

// Instruction is the decoded tagged union: exactly one of the typed
// param fields is meaningful, selected by Tag. Ops 4-7 (tags 3-6)
// carry no parameters.
type Instruction struct {
	Tag     OpTag
	Init    InitIssuanceParams
	Fund    FundReserveParams
	Deposit DepositParams
}

// DecodeInstruction parses the opaque instruction payload of
// SPEC_FULL.md §6: a tag byte followed by the little-endian
// concatenation of that operation's parameters, in declaration order.
func DecodeInstruction(payload []byte) (*Instruction, error) {
	if len(payload) < 1 {
		return nil, perr("DecodeInstruction", InvalidInstruction, "empty payload")
	}
	tag := OpTag(payload[0])
	body := payload[1:]

	switch tag {
	case OpInitIssuance:
		if len(body) != 16+8+8 {
			return nil, perr("DecodeInstruction", InvalidInstruction, "InitIssuance payload size mismatch")
		}
		reserveTotal := U128FromBytes16(body[0:16])
		startTs := int64(binary.LittleEndian.Uint64(body[16:24]))
		maturityTs := int64(binary.LittleEndian.Uint64(body[24:32]))
		return &Instruction{Tag: tag, Init: InitIssuanceParams{
			ReserveTotal: reserveTotal,
			StartTs:      startTs,
			MaturityTs:   maturityTs,
		}}, nil

	case OpFundReserve:
		if len(body) != 8 {
			return nil, perr("DecodeInstruction", InvalidInstruction, "FundReserve payload size mismatch")
		}
		return &Instruction{Tag: tag, Fund: FundReserveParams{
			Amount: binary.LittleEndian.Uint64(body[0:8]),
		}}, nil

	case OpDeposit:
		if len(body) != 8 {
			return nil, perr("DecodeInstruction", InvalidInstruction, "Deposit payload size mismatch")
		}
		return &Instruction{Tag: tag, Deposit: DepositParams{
			Amount: binary.LittleEndian.Uint64(body[0:8]),
		}}, nil

	case OpClaimReward, OpWithdrawDeposit, OpSweep, OpZeroParticipationReclaim:
		if len(body) != 0 {
			return nil, perr("DecodeInstruction", InvalidInstruction, "unexpected trailing bytes for parameterless op")
		}
		return &Instruction{Tag: tag}, nil

	default:
		return nil, perr("DecodeInstruction", InvalidInstruction, "unknown op tag")
	}
}
