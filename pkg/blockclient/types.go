// Package blockclient is the Go client for a block kit server's HTTP
// API. Block authors use it to submit proposals; wallet integrations
// use it to manage control settings and read usage.
package blockclient

import "time"

// ControlSettings is the operational envelope requested for a block.
// Amounts are decimal strings in asset units.
type ControlSettings struct {
	AssetID                string `json:"assetId"`
	AuthorizedDurationDays int    `json:"authorizedDurationDays"`
	MaxPerTransaction      string `json:"maxAmountPerTransaction"`
	CumulativeMax          string `json:"cumulativeMaxAmount"`
}

// Session is one activation of control settings.
type Session struct {
	ID          string          `json:"id"`
	BlockID     string          `json:"blockId"`
	Settings    ControlSettings `json:"settings"`
	ActivatedAt time.Time       `json:"activatedAt"`
	ExpiredAt   *time.Time      `json:"expiredAt,omitempty"`
}

// Proposal is a transaction a block wants the wallet to execute.
type Proposal struct {
	BlockID       string `json:"blockId"`
	ActionType    string `json:"actionType"`
	AssetID       string `json:"assetId"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Justification string `json:"justification,omitempty"`
}

// Decision is the compliance verdict on a submitted proposal.
type Decision struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Accepted reports whether the proposal cleared compliance.
func (d Decision) Accepted() bool {
	return d.Status == "accepted"
}

// Usage is the cumulative spend for a control session.
type Usage struct {
	SessionID        string    `json:"sessionId"`
	AssetID          string    `json:"assetId"`
	CumulativeSpent  string    `json:"cumulativeSpent"`
	TransactionCount int       `json:"transactionCount"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Manifest describes the block behind the server.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	BlockType   string `json:"blockType"`
	Publisher   string `json:"publisher"`
	Description string `json:"description"`
	License     string `json:"license,omitempty"`
}

// APIError is a structured error response from the server.
type APIError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}
