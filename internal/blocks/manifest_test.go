package blocks

import "testing"

func validManifest() Manifest {
	return Manifest{
		Name:        "Momentum Trader",
		Version:     "0.1.0",
		BlockType:   TypeAction,
		Publisher:   "Ampr Labs",
		Description: "Proposes momentum trades within user controls.",
	}
}

func TestManifestValidate(t *testing.T) {
	m := validManifest()
	if err := m.Validate(); err != nil {
		t.Fatalf("valid manifest rejected: %v", err)
	}
}

func TestManifestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Manifest)
	}{
		{"missing name", func(m *Manifest) { m.Name = "" }},
		{"missing version", func(m *Manifest) { m.Version = "" }},
		{"missing publisher", func(m *Manifest) { m.Publisher = "  " }},
		{"missing description", func(m *Manifest) { m.Description = "" }},
		{"bad block type", func(m *Manifest) { m.BlockType = "oracle" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validManifest()
			tt.mutate(&m)
			if err := m.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestManifestValidate_Jurisdictions(t *testing.T) {
	m := validManifest()
	m.AllowedJurisdictions = []string{"USA", "CHE"}
	if err := m.Validate(); err != nil {
		t.Errorf("valid jurisdictions rejected: %v", err)
	}

	for _, bad := range []string{"us", "USAX", "U1A"} {
		m.AllowedJurisdictions = []string{bad}
		if err := m.Validate(); err == nil {
			t.Errorf("jurisdiction %q should be rejected", bad)
		}
	}
}

func TestFeeValidate(t *testing.T) {
	tests := []struct {
		name    string
		fee     Fee
		wantErr bool
	}{
		{"one-time", Fee{Type: FeeFixedOneTime, Currency: "USDC", Amount: "5"}, false},
		{"recurring monthly", Fee{Type: FeeFixedRecurring, Currency: "DAI", Amount: "1.5", Interval: IntervalMonthly}, false},
		{"recurring without interval", Fee{Type: FeeFixedRecurring, Currency: "DAI", Amount: "1.5"}, true},
		{"one-time with interval", Fee{Type: FeeFixedOneTime, Currency: "USDC", Amount: "5", Interval: IntervalAnnually}, true},
		{"unknown currency", Fee{Type: FeeFixedOneTime, Currency: "DOGE", Amount: "5"}, true},
		{"zero amount", Fee{Type: FeeFixedOneTime, Currency: "ETH", Amount: "0"}, true},
		{"negative amount", Fee{Type: FeeFixedOneTime, Currency: "ETH", Amount: "-1"}, true},
		{"unknown type", Fee{Type: "percentage", Currency: "ETH", Amount: "1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fee.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestManifestValidate_Fee(t *testing.T) {
	m := validManifest()
	m.Fee = &Fee{Type: FeeFixedRecurring, Currency: "USDC", Amount: "10", Interval: IntervalQuarterly}
	if err := m.Validate(); err != nil {
		t.Errorf("manifest with valid fee rejected: %v", err)
	}

	m.Fee = &Fee{Type: FeeFixedRecurring, Currency: "USDC", Amount: "10"}
	if err := m.Validate(); err == nil {
		t.Error("manifest with invalid fee should be rejected")
	}
}
