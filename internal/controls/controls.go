// Package controls holds the authorization envelope a user grants an
// action block and the session lifecycle around it.
//
// A session is one activation of ControlSettings. It is immutable once
// created: the wallet replaces it wholesale by activating new settings,
// which supersedes the old session and discards its usage. Expiry is
// lazy; a session past its authorized window reads as absent without
// anyone calling Expire.
package controls

import (
	"time"

	"github.com/amprfi/block-kit-sdk/internal/amount"
)

// ControlSettings is the user-authorized operational envelope for one
// asset. Amounts are decimal strings in asset units.
type ControlSettings struct {
	AssetID                string `json:"assetId"`
	AuthorizedDurationDays int    `json:"authorizedDurationDays"`
	MaxPerTransaction      string `json:"maxAmountPerTransaction"`
	CumulativeMax          string `json:"cumulativeMaxAmount"`
}

// Session is one activation of control settings for a block.
type Session struct {
	ID          string          `json:"id"`
	BlockID     string          `json:"blockId"`
	Settings    ControlSettings `json:"settings"`
	ActivatedAt time.Time       `json:"activatedAt"`
	// ExpiredAt is set on explicit teardown or supersession. A nil
	// ExpiredAt does not imply the session is live; the authorized
	// window is checked separately.
	ExpiredAt *time.Time `json:"expiredAt,omitempty"`
}

// ExpiresAt returns the end of the authorized window.
func (s *Session) ExpiresAt() time.Time {
	return s.ActivatedAt.AddDate(0, 0, s.Settings.AuthorizedDurationDays)
}

// ActiveAt reports whether the session is live at the given instant.
func (s *Session) ActiveAt(now time.Time) bool {
	if s.ExpiredAt != nil {
		return false
	}
	return !now.After(s.ExpiresAt())
}

// ValidationError is an expected, data-shaped rejection at activation
// time.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrSessionNotFound        = &ValidationError{Code: "session_not_found", Message: "Control session not found"}
	ErrMissingAssetID         = &ValidationError{Code: "invalid_settings", Message: "assetId is required"}
	ErrInvalidDuration        = &ValidationError{Code: "invalid_settings", Message: "authorizedDurationDays must be positive"}
	ErrInvalidPerTxLimit      = &ValidationError{Code: "invalid_settings", Message: "maxAmountPerTransaction must be a positive decimal"}
	ErrInvalidCumulativeLimit = &ValidationError{Code: "invalid_settings", Message: "cumulativeMaxAmount must be a positive decimal"}
	ErrLimitOrder             = &ValidationError{Code: "invalid_settings", Message: "maxAmountPerTransaction cannot exceed cumulativeMaxAmount"}
)

// Validate checks the settings invariants. Settings that fail here are
// never activated and create no session or usage state.
func (c *ControlSettings) Validate() error {
	if c.AssetID == "" {
		return ErrMissingAssetID
	}
	if c.AuthorizedDurationDays <= 0 {
		return ErrInvalidDuration
	}
	perTx, ok := amount.ParsePositive(c.MaxPerTransaction)
	if !ok {
		return ErrInvalidPerTxLimit
	}
	cumulative, ok := amount.ParsePositive(c.CumulativeMax)
	if !ok {
		return ErrInvalidCumulativeLimit
	}
	if perTx.Cmp(cumulative) > 0 {
		return ErrLimitOrder
	}
	return nil
}
