package realtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/amprfi/block-kit-sdk/internal/blocks"
	"github.com/amprfi/block-kit-sdk/internal/compliance"
	"github.com/amprfi/block-kit-sdk/internal/controls"
)

func testHub() *Hub {
	return NewHub(slog.Default())
}

func proposalEvent(blockID, assetID string) *Event {
	return &Event{
		Type:      EventProposal,
		Timestamp: time.Now(),
		Data: ProposalEvent{
			Proposal: blocks.TransactionProposal{
				BlockID:    blockID,
				ActionType: "buy",
				AssetID:    assetID,
				Amount:     "5",
				Currency:   "USDC",
			},
			Status: compliance.StatusAccepted,
		},
	}
}

// ---------------------------------------------------------------------------
// shouldSend tests
// ---------------------------------------------------------------------------

func TestShouldSend_AllEvents(t *testing.T) {
	h := testHub()
	client := &Client{sub: Subscription{AllEvents: true}}

	if !h.shouldSend(client, proposalEvent("blk_1", "BTC")) {
		t.Error("AllEvents client should receive all events")
	}
}

func TestShouldSend_EventTypeFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		EventTypes: []EventType{EventProposal, EventSessionActivated},
	}}

	proposal := proposalEvent("blk_1", "BTC")
	activated := &Event{Type: EventSessionActivated, Data: &controls.Session{BlockID: "blk_1"}}
	expired := &Event{Type: EventSessionExpired, Data: map[string]string{"sessionId": "ses_1"}}

	if !h.shouldSend(client, proposal) {
		t.Error("Should receive proposal events")
	}
	if !h.shouldSend(client, activated) {
		t.Error("Should receive session_activated events")
	}
	if h.shouldSend(client, expired) {
		t.Error("Should NOT receive session_expired events")
	}
}

func TestShouldSend_BlockFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		BlockIDs: []string{"blk_watched"},
	}}

	if !h.shouldSend(client, proposalEvent("blk_watched", "BTC")) {
		t.Error("Should match on proposal block id")
	}
	if h.shouldSend(client, proposalEvent("blk_other", "BTC")) {
		t.Error("Should NOT match unrelated blocks")
	}

	session := &Event{
		Type: EventSessionActivated,
		Data: &controls.Session{BlockID: "blk_watched", Settings: controls.ControlSettings{AssetID: "BTC"}},
	}
	if !h.shouldSend(client, session) {
		t.Error("Should match on session block id")
	}
}

func TestShouldSend_AssetFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		AssetIDs: []string{"BTC"},
	}}

	if !h.shouldSend(client, proposalEvent("blk_1", "BTC")) {
		t.Error("Should match on asset id")
	}
	if h.shouldSend(client, proposalEvent("blk_1", "ETH")) {
		t.Error("Should NOT match other assets")
	}
}

func TestShouldSend_EmptySubscription(t *testing.T) {
	h := testHub()

	// No filters, not AllEvents
	client := &Client{sub: Subscription{}}

	if !h.shouldSend(client, proposalEvent("blk_1", "BTC")) {
		t.Error("Empty subscription (no filters) should receive events")
	}
}

// ---------------------------------------------------------------------------
// Hub lifecycle tests
// ---------------------------------------------------------------------------

func TestHub_Stats_Initial(t *testing.T) {
	h := testHub()

	stats := h.Stats()
	if stats["connectedClients"].(int) != 0 {
		t.Errorf("Expected 0 connected clients, got %v", stats["connectedClients"])
	}
	if stats["totalEvents"].(int64) != 0 {
		t.Errorf("Expected 0 total events, got %v", stats["totalEvents"])
	}
}

func TestHub_BroadcastAndStats(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	h.Broadcast(proposalEvent("blk_1", "BTC"))
	time.Sleep(50 * time.Millisecond)

	stats := h.Stats()
	if stats["totalEvents"].(int64) != 1 {
		t.Errorf("Expected 1 total event, got %v", stats["totalEvents"])
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{AllEvents: true},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	stats := h.Stats()
	if stats["connectedClients"].(int) != 1 {
		t.Errorf("Expected 1 connected client, got %v", stats["connectedClients"])
	}
	if stats["peakClients"].(int64) != 1 {
		t.Errorf("Expected peak 1, got %v", stats["peakClients"])
	}

	h.unregister <- client
	time.Sleep(50 * time.Millisecond)

	stats = h.Stats()
	if stats["connectedClients"].(int) != 0 {
		t.Errorf("Expected 0 connected clients after unregister, got %v", stats["connectedClients"])
	}
	// Peak should still be 1
	if stats["peakClients"].(int64) != 1 {
		t.Errorf("Expected peak still 1, got %v", stats["peakClients"])
	}
}

func TestHub_ForwardReachesClient(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{AllEvents: true},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	h.Forward(ctx, blocks.TransactionProposal{
		BlockID:    "blk_1",
		ActionType: "buy",
		AssetID:    "BTC",
		Amount:     "5",
		Currency:   "USDC",
	}, compliance.Decision{Status: compliance.StatusAccepted})

	select {
	case msg := <-client.send:
		if len(msg) == 0 {
			t.Error("Expected non-empty message")
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for forwarded proposal")
	}
}

func TestHub_ContextCancellation(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
		// Hub stopped
	case <-time.After(2 * time.Second):
		t.Error("Hub did not stop after context cancellation")
	}
}

func TestHub_FilteredBroadcast(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	// Client only wants session lifecycle events
	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{EventTypes: []EventType{EventSessionActivated}},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	// Proposal event should be filtered out
	h.Broadcast(proposalEvent("blk_1", "BTC"))
	time.Sleep(100 * time.Millisecond)

	select {
	case <-client.send:
		t.Error("Client should NOT receive proposal event")
	default:
		// Good - filtered out
	}

	// Session activation should be received
	h.EmitSessionActivated(&controls.Session{ID: "ses_1", BlockID: "blk_1"})

	select {
	case msg := <-client.send:
		if len(msg) == 0 {
			t.Error("Expected non-empty message")
		}
	case <-time.After(time.Second):
		t.Error("Client should receive session_activated event")
	}
}
