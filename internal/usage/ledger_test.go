package usage

import (
	"context"
	"testing"

	"github.com/amprfi/block-kit-sdk/internal/amount"
)

func TestLedger_InitStartsAtZero(t *testing.T) {
	ledger := New(NewMemoryStore())
	ctx := context.Background()

	if err := ledger.Init(ctx, "ses_1", "BTC"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	spent, err := ledger.Spent(ctx, "ses_1")
	if err != nil {
		t.Fatalf("Spent failed: %v", err)
	}
	if spent.Sign() != 0 {
		t.Errorf("spent = %s, want 0", amount.Format(spent))
	}

	rec, err := ledger.Get(ctx, "ses_1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.AssetID != "BTC" || rec.TransactionCount != 0 {
		t.Errorf("record = %+v", rec)
	}
}

func TestLedger_RecordAccumulates(t *testing.T) {
	ledger := New(NewMemoryStore())
	ctx := context.Background()

	_ = ledger.Init(ctx, "ses_1", "BTC")
	for _, amt := range []string{"80", "80", "0.5"} {
		if err := ledger.Record(ctx, "ses_1", amt); err != nil {
			t.Fatalf("Record(%s) failed: %v", amt, err)
		}
	}

	spent, _ := ledger.Spent(ctx, "ses_1")
	if got := amount.Format(spent); got != "160.50000000" {
		t.Errorf("spent = %s, want 160.50000000", got)
	}
	n, _ := ledger.Count(ctx, "ses_1")
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestLedger_RecordRejectsNonPositive(t *testing.T) {
	ledger := New(NewMemoryStore())
	ctx := context.Background()

	_ = ledger.Init(ctx, "ses_1", "BTC")
	for _, amt := range []string{"0", "-5", "x"} {
		if err := ledger.Record(ctx, "ses_1", amt); err == nil {
			t.Errorf("Record(%q) should fail", amt)
		}
	}

	spent, _ := ledger.Spent(ctx, "ses_1")
	if spent.Sign() != 0 {
		t.Errorf("failed records must not mutate: spent = %s", amount.Format(spent))
	}
}

func TestLedger_Reset(t *testing.T) {
	ledger := New(NewMemoryStore())
	ctx := context.Background()

	_ = ledger.Init(ctx, "ses_1", "BTC")
	_ = ledger.Record(ctx, "ses_1", "42")
	if err := ledger.Reset(ctx, "ses_1"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	spent, _ := ledger.Spent(ctx, "ses_1")
	if spent.Sign() != 0 {
		t.Errorf("spent after reset = %s, want 0", amount.Format(spent))
	}
	n, _ := ledger.Count(ctx, "ses_1")
	if n != 0 {
		t.Errorf("count after reset = %d, want 0", n)
	}
}

func TestLedger_MissingRecordReadsZero(t *testing.T) {
	ledger := New(NewMemoryStore())

	spent, err := ledger.Spent(context.Background(), "ses_missing")
	if err != nil {
		t.Fatalf("Spent failed: %v", err)
	}
	if spent.Sign() != 0 {
		t.Errorf("spent = %s, want 0", amount.Format(spent))
	}
}

func TestLedger_InitReplacesExisting(t *testing.T) {
	ledger := New(NewMemoryStore())
	ctx := context.Background()

	_ = ledger.Init(ctx, "ses_1", "BTC")
	_ = ledger.Record(ctx, "ses_1", "100")
	_ = ledger.Init(ctx, "ses_1", "ETH")

	spent, _ := ledger.Spent(ctx, "ses_1")
	if spent.Sign() != 0 {
		t.Errorf("re-init should zero the record, spent = %s", amount.Format(spent))
	}
	rec, _ := ledger.Get(ctx, "ses_1")
	if rec.AssetID != "ETH" {
		t.Errorf("asset = %s, want ETH", rec.AssetID)
	}
}
