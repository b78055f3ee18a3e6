package blocks

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/amprfi/block-kit-sdk/internal/amount"
)

// TransactionProposal is a candidate transaction emitted by an action
// block for user approval. The proposal is owned by the block logic
// that built it; the compliance core reads it and never modifies it.
type TransactionProposal struct {
	BlockID       string `json:"blockId"`
	ActionType    string `json:"actionType"` // "buy", "sell", "stake", "unstake", ...
	AssetID       string `json:"assetId"`    // token symbol or contract address
	Amount        string `json:"amount"`     // decimal string, asset units
	Currency      string `json:"currency"`
	Justification string `json:"justification,omitempty"`
}

// ValidationError is a structural validation failure returned as data
// rather than a fault, since malformed input is an expected outcome at
// the boundary.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrMissingBlockID    = &ValidationError{Code: "malformed_proposal", Message: "blockId is required"}
	ErrMissingActionType = &ValidationError{Code: "malformed_proposal", Message: "actionType is required"}
	ErrMissingAssetID    = &ValidationError{Code: "malformed_proposal", Message: "assetId is required"}
	ErrMissingCurrency   = &ValidationError{Code: "malformed_proposal", Message: "currency is required"}
	ErrInvalidAmount     = &ValidationError{Code: "malformed_proposal", Message: "amount must be a positive decimal"}
	ErrInvalidAssetAddr  = &ValidationError{Code: "malformed_proposal", Message: "assetId is not a valid contract address"}
)

// Validate checks structural well-formedness. It is the gateway's
// first gate; the compliance evaluator assumes it has passed.
func (p *TransactionProposal) Validate() error {
	if strings.TrimSpace(p.BlockID) == "" {
		return ErrMissingBlockID
	}
	if strings.TrimSpace(p.ActionType) == "" {
		return ErrMissingActionType
	}
	if strings.TrimSpace(p.AssetID) == "" {
		return ErrMissingAssetID
	}
	if strings.TrimSpace(p.Currency) == "" {
		return ErrMissingCurrency
	}
	if _, ok := amount.ParsePositive(p.Amount); !ok {
		return ErrInvalidAmount
	}
	// Asset IDs that look like contract addresses must be real ones.
	if strings.HasPrefix(p.AssetID, "0x") && !common.IsHexAddress(p.AssetID) {
		return ErrInvalidAssetAddr
	}
	return nil
}

func parsePositiveAmount(s string) (*big.Int, bool) {
	return amount.ParsePositive(s)
}
