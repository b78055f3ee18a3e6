// Package blocks defines the data model for wallet blocks: the
// manifest a block publishes, the fee schedule it may charge, the
// transaction proposals an action block emits, and the capability
// interface block implementations plug into the server.
package blocks

import (
	"fmt"
	"strings"
)

// BlockType classifies what a block is allowed to do.
type BlockType string

const (
	// TypeAnalyst blocks produce read-only insights.
	TypeAnalyst BlockType = "analyst"
	// TypeAction blocks propose transactions under control settings.
	TypeAction BlockType = "action"
	// TypeCustodial blocks hold assets on the user's behalf.
	TypeCustodial BlockType = "custodial"
)

// FeeType enumerates how a block charges for its service.
type FeeType string

const (
	FeeFixedOneTime   FeeType = "fixed_one_time"
	FeeFixedRecurring FeeType = "fixed_recurring"
)

// RecurringInterval enumerates billing intervals for recurring fees.
type RecurringInterval string

const (
	IntervalMonthly   RecurringInterval = "monthly"
	IntervalQuarterly RecurringInterval = "quarterly"
	IntervalAnnually  RecurringInterval = "annually"
)

// feeCurrencies are the currencies a block may denominate fees in.
var feeCurrencies = map[string]bool{
	"DAI": true, "USDC": true, "USDT": true, "AMPR": true,
	"ETH": true, "BTC": true, "SOL": true,
}

// Fee describes the single fee a block may charge. Interval is set
// only for recurring fees.
type Fee struct {
	Type        FeeType           `json:"feeType"`
	Currency    string            `json:"feeCurrency"`
	Amount      string            `json:"amount"`
	Interval    RecurringInterval `json:"interval,omitempty"`
	Description string            `json:"description,omitempty"`
}

// Validate checks fee type, currency, amount, and interval consistency.
func (f *Fee) Validate() error {
	if !feeCurrencies[strings.ToUpper(f.Currency)] {
		return fmt.Errorf("unknown fee currency %q", f.Currency)
	}
	if _, ok := parsePositiveAmount(f.Amount); !ok {
		return fmt.Errorf("fee amount must be a positive decimal, got %q", f.Amount)
	}
	switch f.Type {
	case FeeFixedOneTime:
		if f.Interval != "" {
			return fmt.Errorf("one-time fee must not set an interval")
		}
	case FeeFixedRecurring:
		switch f.Interval {
		case IntervalMonthly, IntervalQuarterly, IntervalAnnually:
		default:
			return fmt.Errorf("recurring fee has invalid interval %q", f.Interval)
		}
	default:
		return fmt.Errorf("unknown fee type %q", f.Type)
	}
	return nil
}

// Manifest describes the metadata and capabilities of a block,
// provided by the block developer and served to connecting wallets.
type Manifest struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	BlockType   BlockType `json:"blockType"`
	Publisher   string    `json:"publisher"`
	Description string    `json:"description"`
	License     string    `json:"license,omitempty"`
	Fee         *Fee      `json:"fee,omitempty"`
	// AllowedJurisdictions restricts where the block may operate,
	// as ISO 3166-1 alpha-3 codes. Empty means unrestricted.
	AllowedJurisdictions []string `json:"allowedJurisdictions,omitempty"`
}

// Validate checks that the manifest is complete and internally
// consistent.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("manifest name is required")
	}
	if strings.TrimSpace(m.Version) == "" {
		return fmt.Errorf("manifest version is required")
	}
	if strings.TrimSpace(m.Publisher) == "" {
		return fmt.Errorf("manifest publisher is required")
	}
	if strings.TrimSpace(m.Description) == "" {
		return fmt.Errorf("manifest description is required")
	}
	switch m.BlockType {
	case TypeAnalyst, TypeAction, TypeCustodial:
	default:
		return fmt.Errorf("invalid block type %q", m.BlockType)
	}
	if m.Fee != nil {
		if err := m.Fee.Validate(); err != nil {
			return fmt.Errorf("invalid fee: %w", err)
		}
	}
	for _, j := range m.AllowedJurisdictions {
		if len(j) != 3 || strings.ToUpper(j) != j {
			return fmt.Errorf("jurisdiction %q is not an alpha-3 country code", j)
		}
		for _, r := range j {
			if r < 'A' || r > 'Z' {
				return fmt.Errorf("jurisdiction %q is not an alpha-3 country code", j)
			}
		}
	}
	return nil
}
