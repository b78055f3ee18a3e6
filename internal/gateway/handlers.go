package gateway

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amprfi/block-kit-sdk/internal/blocks"
	"github.com/amprfi/block-kit-sdk/internal/compliance"
	"github.com/amprfi/block-kit-sdk/internal/controls"
	"github.com/amprfi/block-kit-sdk/internal/logging"
	"github.com/amprfi/block-kit-sdk/internal/usage"
)

// EventEmitter broadcasts session lifecycle changes to real-time
// subscribers.
type EventEmitter interface {
	EmitSessionActivated(s *controls.Session)
	EmitSessionExpired(sessionID string)
}

// Handler provides HTTP handlers for the proposal and control surface.
type Handler struct {
	gateway  *Gateway
	controls *controls.Manager
	ledger   *usage.Ledger
	manifest blocks.Manifest
	events   EventEmitter              // optional
	defaults *controls.ControlSettings // optional
}

// NewHandler creates an HTTP handler over the gateway and its stores.
func NewHandler(gw *Gateway, ctrl *controls.Manager, ledger *usage.Ledger, manifest blocks.Manifest) *Handler {
	return &Handler{gateway: gw, controls: ctrl, ledger: ledger, manifest: manifest}
}

// WithEvents adds an event emitter to the handler
func (h *Handler) WithEvents(events EventEmitter) *Handler {
	h.events = events
	return h
}

// WithDefaults sets the envelope applied when an activation request
// omits fields. The merged settings still go through full validation.
func (h *Handler) WithDefaults(d controls.ControlSettings) *Handler {
	h.defaults = &d
	return h
}

// RegisterRoutes sets up the block-facing routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/manifest", h.GetManifest)

	// Control session lifecycle
	r.POST("/blocks/:blockId/controls", h.ActivateControls)
	r.GET("/blocks/:blockId/controls", h.GetActiveControls)
	r.DELETE("/sessions/:sessionId", h.ExpireSession)
	r.GET("/sessions/:sessionId", h.GetSession)
	r.GET("/sessions/:sessionId/usage", h.GetUsage)

	// Proposal submission
	r.POST("/proposals", h.SubmitProposal)
}

// GetManifest handles GET /manifest
func (h *Handler) GetManifest(c *gin.Context) {
	c.JSON(http.StatusOK, h.manifest)
}

// ActivateControls handles POST /blocks/:blockId/controls
//
// Activating replaces any live session for the block; the previous
// session's usage does not carry over.
func (h *Handler) ActivateControls(c *gin.Context) {
	blockID := c.Param("blockId")

	var settings controls.ControlSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}
	h.applyDefaults(&settings)

	ses, err := h.controls.Activate(c.Request.Context(), blockID, settings)
	if err != nil {
		var ve *controls.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   ve.Code,
				"message": ve.Message,
			})
			return
		}
		logging.L(c.Request.Context()).Error("control activation failed", "block_id", blockID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "activation_failed",
			"message": "Failed to activate control settings",
		})
		return
	}

	if h.events != nil {
		h.events.EmitSessionActivated(ses)
	}
	c.JSON(http.StatusCreated, ses)
}

// applyDefaults fills absent activation fields from the configured
// envelope, so a wallet can POST {} and get the block's defaults.
// Explicit fields always win.
func (h *Handler) applyDefaults(s *controls.ControlSettings) {
	if h.defaults == nil {
		return
	}
	if s.AssetID == "" {
		s.AssetID = h.defaults.AssetID
	}
	if s.AuthorizedDurationDays == 0 {
		s.AuthorizedDurationDays = h.defaults.AuthorizedDurationDays
	}
	if s.MaxPerTransaction == "" {
		s.MaxPerTransaction = h.defaults.MaxPerTransaction
	}
	if s.CumulativeMax == "" {
		s.CumulativeMax = h.defaults.CumulativeMax
	}
}

// GetActiveControls handles GET /blocks/:blockId/controls
func (h *Handler) GetActiveControls(c *gin.Context) {
	blockID := c.Param("blockId")

	ses, err := h.controls.ActiveForBlock(c.Request.Context(), blockID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "get_failed",
			"message": "Failed to look up control settings",
		})
		return
	}
	if ses == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "no_active_authorization",
			"message": "No active control settings for block",
		})
		return
	}

	c.JSON(http.StatusOK, ses)
}

// GetSession handles GET /sessions/:sessionId
func (h *Handler) GetSession(c *gin.Context) {
	sessionID := c.Param("sessionId")

	ses, err := h.controls.Current(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "get_failed",
			"message": "Failed to look up session",
		})
		return
	}
	if ses == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Session not found or no longer active",
		})
		return
	}

	c.JSON(http.StatusOK, ses)
}

// ExpireSession handles DELETE /sessions/:sessionId
func (h *Handler) ExpireSession(c *gin.Context) {
	sessionID := c.Param("sessionId")

	err := h.controls.Expire(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, controls.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Session not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "expire_failed",
			"message": "Failed to expire session",
		})
		return
	}

	if h.events != nil {
		h.events.EmitSessionExpired(sessionID)
	}
	c.JSON(http.StatusOK, gin.H{"status": "expired", "session_id": sessionID})
}

// GetUsage handles GET /sessions/:sessionId/usage
func (h *Handler) GetUsage(c *gin.Context) {
	sessionID := c.Param("sessionId")

	rec, err := h.ledger.Get(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "get_failed",
			"message": "Failed to look up usage",
		})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "No usage record for session",
		})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// SubmitProposal handles POST /proposals
//
// Always responds 200 with a decision when evaluation ran; a rejected
// proposal is a normal outcome, not an HTTP error. 5xx means storage
// failed and nothing was recorded.
func (h *Handler) SubmitProposal(c *gin.Context) {
	var p blocks.TransactionProposal
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	d, err := h.gateway.Submit(c.Request.Context(), p)
	if err != nil {
		logging.L(c.Request.Context()).Error("proposal evaluation failed", "block_id", p.BlockID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "evaluation_failed",
			"message": "Failed to evaluate proposal",
		})
		return
	}

	c.JSON(http.StatusOK, submitResponse{
		Status:   d.Status,
		Reason:   d.Reason,
		Detail:   d.Detail,
		Proposal: p,
	})
}

type submitResponse struct {
	Status   compliance.Status          `json:"status"`
	Reason   compliance.Reason          `json:"reason,omitempty"`
	Detail   string                     `json:"detail,omitempty"`
	Proposal blocks.TransactionProposal `json:"proposal"`
}
