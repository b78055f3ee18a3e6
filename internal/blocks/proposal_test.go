package blocks

import (
	"errors"
	"testing"
)

func validProposal() TransactionProposal {
	return TransactionProposal{
		BlockID:    "blk_test",
		ActionType: "buy",
		AssetID:    "BTC",
		Amount:     "0.5",
		Currency:   "USD",
	}
}

func TestProposalValidate(t *testing.T) {
	p := validProposal()
	if err := p.Validate(); err != nil {
		t.Fatalf("valid proposal rejected: %v", err)
	}
}

func TestProposalValidate_Structural(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TransactionProposal)
		want   *ValidationError
	}{
		{"missing block id", func(p *TransactionProposal) { p.BlockID = "" }, ErrMissingBlockID},
		{"missing action type", func(p *TransactionProposal) { p.ActionType = " " }, ErrMissingActionType},
		{"missing asset id", func(p *TransactionProposal) { p.AssetID = "" }, ErrMissingAssetID},
		{"missing currency", func(p *TransactionProposal) { p.Currency = "" }, ErrMissingCurrency},
		{"zero amount", func(p *TransactionProposal) { p.Amount = "0" }, ErrInvalidAmount},
		{"negative amount", func(p *TransactionProposal) { p.Amount = "-1" }, ErrInvalidAmount},
		{"unparseable amount", func(p *TransactionProposal) { p.Amount = "1.2.3" }, ErrInvalidAmount},
		{"short hex asset", func(p *TransactionProposal) { p.AssetID = "0x1234" }, ErrInvalidAssetAddr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProposal()
			tt.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestProposalValidate_ContractAddressAsset(t *testing.T) {
	p := validProposal()
	p.AssetID = "0x036CbD53842c5426634e7929541eC2318f3dCF7e"
	if err := p.Validate(); err != nil {
		t.Errorf("valid contract address asset rejected: %v", err)
	}
}
